// Package dashboard keeps a title, a clock and feed headlines on an e-ink
// display. After the first full refresh only the changed regions are
// refreshed: the clock every tick and the headlines whenever the feed is
// fetched again.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jeffh/inkcanvas/canvas"
	"github.com/mmcdole/gofeed"
)

const (
	DefaultClockFormat = "15:04"
	DefaultHeadlines   = 6
	ellipsis           = "…"
)

// Dashboard draws onto Canvas. Fields must be set before the first Draw.
type Dashboard struct {
	Canvas *canvas.Canvas
	Title  string
	// FeedURL is an RSS, Atom or JSON feed whose item titles are listed. No
	// headlines are drawn when it is empty.
	FeedURL   string
	Headlines int
	// ClockFormat is a time.Format layout.
	ClockFormat string
	Now         func() time.Time
	// Fetch loads the feed. Defaults to a gofeed parser fetching FeedURL.
	Fetch  func(ctx context.Context, url string) (*gofeed.Feed, error)
	Logger *slog.Logger

	layout layout
	clock  canvas.Rect
	news   canvas.Rect
}

// layout scales positions and font sizes to the display height, so the same
// dashboard fits the tablet and smaller hats.
type layout struct {
	width, height       int
	titleY, clockY      int
	newsY, newsStep     int
	titleSize           float64
	clockSize, newsSize float64
	vgap, hgap          uint32
}

func newLayout(c *canvas.Canvas) layout {
	b := c.Bounds()
	h := b.Dy()
	unit := float64(h) / canvas.DisplayHeight
	return layout{
		width:     b.Dx(),
		height:    h,
		titleY:    h / 16,
		clockY:    h / 5,
		newsY:     h * 2 / 5,
		newsStep:  h / 24,
		titleSize: 72 * unit,
		clockSize: 120 * unit,
		newsSize:  40 * unit,
		vgap:      uint32(20 * unit),
		hgap:      uint32(40 * unit),
	}
}

func (d *Dashboard) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

func (d *Dashboard) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *Dashboard) clockText() string {
	f := d.ClockFormat
	if f == "" {
		f = DefaultClockFormat
	}
	return d.now().Format(f)
}

// Draw clears the display, draws everything and fully refreshes it. Feed
// errors are logged and leave the headline area empty.
func (d *Dashboard) Draw(ctx context.Context) error {
	c := d.Canvas
	d.layout = newLayout(c)
	d.clock, d.news = canvas.Rect{}, canvas.Rect{}
	c.Clear()
	if d.Title != "" {
		if _, err := c.DrawText(canvas.CenterX(d.layout.titleY), d.fit(d.Title, d.layout.titleSize), d.layout.titleSize); err != nil {
			return err
		}
	}
	if _, err := d.drawClock(); err != nil {
		return err
	}
	if d.FeedURL != "" {
		if _, err := d.drawNews(ctx); err != nil {
			d.logger().Error("error fetching feed", slog.String("url", d.FeedURL), slog.String("error", err.Error()))
		}
	}
	return c.UpdateFull()
}

func (d *Dashboard) drawClock() (canvas.Rect, error) {
	prev := d.clock
	if !prev.Empty() {
		if _, err := d.Canvas.FillRect(canvas.At(int(prev.Left), int(prev.Top)), canvas.Sz(prev.Width, prev.Height), canvas.Background); err != nil {
			return canvas.Rect{}, err
		}
	}
	r, err := d.Canvas.DrawButton(canvas.CenterX(d.layout.clockY), d.clockText(), d.layout.clockSize, d.layout.vgap, d.layout.hgap)
	if err != nil {
		return canvas.Rect{}, err
	}
	d.clock = r
	return prev.Union(r), nil
}

// Tick redraws the clock and partially refreshes the region covering both
// the old and the new clock.
func (d *Dashboard) Tick() (canvas.Rect, error) {
	r, err := d.drawClock()
	if err != nil {
		return canvas.Rect{}, err
	}
	return r, d.Canvas.UpdatePartial(r)
}

// ClockRegion returns where the clock was last drawn.
func (d *Dashboard) ClockRegion() canvas.Rect { return d.clock }

// NewsRegion returns the box around the headlines last drawn.
func (d *Dashboard) NewsRegion() canvas.Rect { return d.news }

func (d *Dashboard) fetch(ctx context.Context) (*gofeed.Feed, error) {
	if d.Fetch != nil {
		return d.Fetch(ctx, d.FeedURL)
	}
	return gofeed.NewParser().ParseURLWithContext(d.FeedURL, ctx)
}

// drawNews replaces the headline area. The area is only erased once the
// feed was fetched, so a failed fetch keeps the old headlines.
func (d *Dashboard) drawNews(ctx context.Context) (canvas.Rect, error) {
	feed, err := d.fetch(ctx)
	if err != nil {
		return canvas.Rect{}, err
	}
	l := d.layout
	area, err := d.Canvas.FillRect(canvas.At(0, l.newsY), canvas.Sz(uint32(l.width), uint32(l.height-l.newsY)), canvas.Background)
	if err != nil {
		return canvas.Rect{}, err
	}
	n := d.Headlines
	if n <= 0 {
		n = DefaultHeadlines
	}
	y := l.newsY
	drawn := canvas.Rect{}
	for _, title := range Headlines(feed, n) {
		r, err := d.Canvas.DrawText(canvas.CenterX(y), d.fit(title, l.newsSize), l.newsSize)
		if errors.Is(err, canvas.ErrOutOfBounds) {
			break
		}
		if err != nil {
			return canvas.Rect{}, err
		}
		drawn = drawn.Union(r)
		y += int(r.Height) + l.newsStep
	}
	d.news = drawn
	d.logger().Debug("drew headlines", slog.String("rect", drawn.String()))
	return area, nil
}

// Reload fetches the feed again and partially refreshes the headline area.
func (d *Dashboard) Reload(ctx context.Context) (canvas.Rect, error) {
	r, err := d.drawNews(ctx)
	if err != nil {
		return canvas.Rect{}, err
	}
	return r, d.Canvas.UpdatePartial(r)
}

// Run draws the dashboard, then ticks the clock every interval and reloads
// the feed every feedInterval until ctx is done. The display is cleared and
// fully refreshed before Run returns.
func (d *Dashboard) Run(ctx context.Context, interval, feedInterval time.Duration) error {
	if err := d.Draw(ctx); err != nil {
		return err
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()
	var reload <-chan time.Time
	if d.FeedURL != "" && feedInterval > 0 {
		t := time.NewTicker(feedInterval)
		defer t.Stop()
		reload = t.C
	}
	for {
		select {
		case <-ctx.Done():
			d.Canvas.Clear()
			return d.Canvas.UpdateFull()
		case <-tick.C:
			if _, err := d.Tick(); err != nil {
				return err
			}
		case <-reload:
			if _, err := d.Reload(ctx); err != nil {
				d.logger().Error("error reloading feed", slog.String("url", d.FeedURL), slog.String("error", err.Error()))
			}
		}
	}
}

// Headlines returns up to n non-empty item titles, newest first as the feed
// lists them, each on a single line.
func Headlines(feed *gofeed.Feed, n int) []string {
	var out []string
	for _, item := range feed.Items {
		if len(out) == n {
			break
		}
		title := strings.Join(strings.Fields(item.Title), " ")
		if title != "" {
			out = append(out, title)
		}
	}
	return out
}

// fit shortens text with an ellipsis until it fits the display width.
func (d *Dashboard) fit(text string, size float64) string {
	fonts := d.Canvas.Fonts()
	runes := []rune(text)
	for s := text; len(runes) > 0; s = string(runes) + ellipsis {
		sz, err := fonts.Measure(s, size)
		if err != nil || sz.X <= d.layout.width {
			return s
		}
		runes = runes[:len(runes)-1]
	}
	return ellipsis
}
