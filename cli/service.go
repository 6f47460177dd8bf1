package cli

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/kardianos/service"
)

// ServiceControls are the actions accepted as the first argument of a
// service command. Without one the service itself runs.
var ServiceControls = service.ControlAction[:]

// ServiceMain parses the command line and runs run as a system service.
// run gets a logger writing to the service log and a context canceled when
// the service is asked to stop; the service only stops once run returns.
//
// When the first argument is one of ServiceControls, that action is applied
// to the installed service instead.
func ServiceMain(cfg *service.Config, run func(ctx context.Context, logger *slog.Logger) error) {
	flag.Parse()
	if cfg.Arguments == nil {
		// the installed service runs with the same flags, minus the action
		cfg.Arguments = os.Args[1 : len(os.Args)-flag.NArg()]
	}

	prg := &program{main: run}
	s, err := service.New(prg, cfg)
	if err != nil {
		log.Fatal(err)
	}
	svcLogger, err := s.Logger(nil)
	if err != nil {
		log.Fatal(err)
	}
	prg.logger = ServiceLogger(svcLogger)

	if action := flag.Arg(0); action != "" {
		if err := service.Control(s, action); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s (valid actions: %s)\n", err, strings.Join(ServiceControls, ", "))
			os.Exit(1)
		}
		return
	}

	if err := s.Run(); err != nil {
		svcLogger.Error(err)
	}
}

// ServiceLogger sends slog records to a service logger, errors as errors and
// everything else as info.
func ServiceLogger(l service.Logger) *slog.Logger {
	return slog.New(slog.NewTextHandler(&proxyLogger{l}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type proxyLogger struct{ logger service.Logger }

func (l *proxyLogger) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")
	var err error
	if strings.Contains(msg, "level=ERROR") {
		err = l.logger.Error(msg)
	} else {
		err = l.logger.Info(msg)
	}
	return len(p), err
}

type program struct {
	main   func(ctx context.Context, logger *slog.Logger) error
	logger *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func (p *program) Start(s service.Service) error {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	p.logger.Info("starting")
	go p.run(ctx)
	return nil
}

func (p *program) Stop(s service.Service) error {
	p.logger.Info("stopping")
	p.cancel()
	<-p.done
	return nil
}

func (p *program) run(ctx context.Context) {
	defer close(p.done)
	if err := p.main(ctx, p.logger); err != nil && ctx.Err() == nil {
		p.logger.Error("service failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
