package dashboard

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/jeffh/inkcanvas/canvas"
	"github.com/jeffh/inkcanvas/fb"
	"github.com/mmcdole/gofeed"
)

const testFeed = `<?xml version="1.0"?>
<rss version="2.0">
<channel>
  <title>News</title>
  <item><title>First   headline</title></item>
  <item><title></title></item>
  <item><title>Second headline</title></item>
  <item><title>Third headline</title></item>
</channel>
</rss>`

func parseFeed(t *testing.T) *gofeed.Feed {
	t.Helper()
	feed, err := gofeed.NewParser().ParseString(testFeed)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return feed
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newDashboard(t *testing.T) (*Dashboard, *fb.Memory, *clock) {
	t.Helper()
	m := fb.NewMemory(canvas.DisplayWidth, canvas.DisplayHeight)
	clk := &clock{t: time.Date(2024, 3, 1, 9, 41, 0, 0, time.UTC)}
	feed := parseFeed(t)
	d := &Dashboard{
		Canvas:  canvas.New(m),
		Title:   "Kitchen",
		FeedURL: "https://example.com/rss",
		Now:     clk.Now,
		Fetch: func(ctx context.Context, url string) (*gofeed.Feed, error) {
			return feed, nil
		},
	}
	return d, m, clk
}

func TestHeadlines(t *testing.T) {
	feed := parseFeed(t)
	actual := Headlines(feed, 2)
	expected := []string{"First headline", "Second headline"}
	if strings.Join(actual, "|") != strings.Join(expected, "|") {
		t.Fatalf("Expected %#v, got %#v", expected, actual)
	}
	if n := len(Headlines(feed, 10)); n != 3 {
		t.Fatalf("Expected the empty title to be skipped, got %d headlines", n)
	}
}

func TestDrawRefreshesFully(t *testing.T) {
	d, m, _ := newDashboard(t)
	if err := d.Draw(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	refreshes := m.Refreshes()
	if len(refreshes) != 1 || refreshes[0].Mode != fb.UpdateFull {
		t.Fatalf("Expected a single full refresh, got %v", refreshes)
	}
	if d.ClockRegion().Empty() {
		t.Fatalf("Expected the clock to be drawn")
	}
	news := d.NewsRegion()
	if news.Empty() || int(news.Top) < canvas.DisplayHeight*2/5 {
		t.Fatalf("Expected headlines below the clock, got %v", news)
	}
}

func TestTickRefreshesOnlyTheClock(t *testing.T) {
	d, m, clk := newDashboard(t)
	if err := d.Draw(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	before := d.ClockRegion()

	clk.t = clk.t.Add(time.Minute)
	r, err := d.Tick()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if r != before.Union(d.ClockRegion()) {
		t.Fatalf("Expected the union of both clocks, got %v", r)
	}
	refreshes := m.Refreshes()
	last := refreshes[len(refreshes)-1]
	if last.Mode != fb.UpdatePartial || last.Region != r.Image() {
		t.Fatalf("Expected a partial refresh of %v, got %v", r, last)
	}
	if last.Region.Overlaps(d.NewsRegion().Image()) {
		t.Fatalf("Expected the clock refresh to leave the headlines alone")
	}
}

func TestReloadKeepsHeadlinesOnError(t *testing.T) {
	d, m, _ := newDashboard(t)
	if err := d.Draw(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	news := d.NewsRegion()

	boom := errors.New("offline")
	d.Fetch = func(ctx context.Context, url string) (*gofeed.Feed, error) { return nil, boom }
	if _, err := d.Reload(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Expected the fetch error, got %v", err)
	}
	if d.NewsRegion() != news {
		t.Fatalf("Expected headlines to stay, got %v", d.NewsRegion())
	}
	if n := len(m.Refreshes()); n != 1 {
		t.Fatalf("Expected no refresh after a failed fetch, got %d", n)
	}
}

func TestReloadRefreshesHeadlineArea(t *testing.T) {
	d, m, _ := newDashboard(t)
	if err := d.Draw(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	r, err := d.Reload(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	top := canvas.DisplayHeight * 2 / 5
	expected := image.Rect(0, top, canvas.DisplayWidth, canvas.DisplayHeight)
	if r.Image() != expected {
		t.Fatalf("Expected %v, got %v", expected, r.Image())
	}
	refreshes := m.Refreshes()
	if last := refreshes[len(refreshes)-1]; last.Region != expected || last.Mode != fb.UpdatePartial {
		t.Fatalf("Expected a partial refresh of %v, got %v", expected, last)
	}
}

func TestRunClearsOnStop(t *testing.T) {
	d, m, _ := newDashboard(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Run(ctx, time.Hour, time.Hour); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	refreshes := m.Refreshes()
	if len(refreshes) != 2 || refreshes[1].Mode != fb.UpdateFull {
		t.Fatalf("Expected a final full refresh, got %v", refreshes)
	}
	c := d.ClockRegion()
	if r, _, _, _ := m.At(int(c.Left), int(c.Top)).RGBA(); r != 0xffff {
		t.Fatalf("Expected the display to be cleared")
	}
}

func TestFitTruncates(t *testing.T) {
	m := fb.NewMemory(300, 200)
	d := &Dashboard{Canvas: canvas.New(m)}
	d.layout = newLayout(d.Canvas)
	long := strings.Repeat("headline ", 20)
	s := d.fit(long, 20)
	if !strings.HasSuffix(s, ellipsis) {
		t.Fatalf("Expected an ellipsis, got %q", s)
	}
	sz, err := d.Canvas.Fonts().Measure(s, 20)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sz.X > 300 {
		t.Fatalf("Expected %q to fit in 300px, got %d", s, sz.X)
	}
	if short := d.fit("short", 20); short != "short" {
		t.Fatalf("Expected short text to be kept, got %q", short)
	}
}
