package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jeffh/inkcanvas/cli"
	"github.com/jeffh/inkcanvas/dashboard"
	"github.com/kardianos/service"
	_ "go.uber.org/automaxprocs"
)

func main() {
	var (
		dev          cli.DeviceConfig
		title        string
		clockFormat  string
		interval     time.Duration
		feedURL      string
		feedInterval time.Duration
		headlines    int
	)

	dev.SetFlags(nil)
	flag.StringVar(&title, "title", "", "Title shown at the top of the display")
	flag.StringVar(&clockFormat, "clock-format", dashboard.DefaultClockFormat, "Go time layout of the clock")
	flag.DurationVar(&interval, "interval", time.Minute, "How often the clock is redrawn")
	flag.StringVar(&feedURL, "feed", "", "RSS, Atom or JSON feed to list headlines from")
	flag.DurationVar(&feedInterval, "feed-interval", 15*time.Minute, "How often the feed is fetched again")
	flag.IntVar(&headlines, "headlines", dashboard.DefaultHeadlines, "Maximum number of headlines shown")

	cfg := &service.Config{
		Name:        "inkd",
		DisplayName: "E-ink Dashboard Service",
		Description: "Keeps a clock and feed headlines on an e-ink display",
	}

	flag.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintf(w, "Usage: %s [OPTIONS] [start|stop|restart|install|uninstall]\n\n", os.Args[0])
		fmt.Fprintf(w, "Shows a clock and feed headlines on an e-ink display.\n")
		fmt.Fprintf(w, "Only the clock is refreshed every -interval, and only the headlines every -feed-interval.\n\n")
		fmt.Fprintf(w, "OPTIONS:\n")
		flag.PrintDefaults()
	}
	cli.ServiceMain(cfg, func(ctx context.Context, logger *slog.Logger) error {
		c, err := dev.Open(logger)
		if err != nil {
			return err
		}
		defer c.Close()
		d := &dashboard.Dashboard{
			Canvas:      c,
			Title:       title,
			FeedURL:     feedURL,
			Headlines:   headlines,
			ClockFormat: clockFormat,
			Logger:      logger,
		}
		return d.Run(ctx, interval, feedInterval)
	})
}
