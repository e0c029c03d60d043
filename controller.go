package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/thiefmaster/actuatorpanel/comm"
	"github.com/thiefmaster/actuatorpanel/remote"
)

const pollInterval = 100 * time.Millisecond

type panelTerminal interface {
	poll(timeout time.Duration) ([]keyEvent, error)
	draw(s *controlState, cfg *appConfig) error
}

// panel is the input/render loop. It never touches the serial link; every
// command goes through the dispatcher queue.
type panel struct {
	cfg     *appConfig
	state   *controlState
	status  *comm.StatusQueue
	term    panelTerminal
	remote  <-chan string
	publish func(string)
}

func (p *panel) run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		p.drainStatus()
		if err := p.drainRemote(ctx); err != nil {
			return err
		}
		if err := p.term.draw(p.state, p.cfg); err != nil {
			return err
		}

		keys, err := p.term.poll(pollInterval)
		if err != nil {
			return err
		}
		for _, ev := range keys {
			a := keyAction(ev)
			if a == actionQuit {
				logrus.Info("quit requested")
				return nil
			}
			if err := applyAction(ctx, p.state, a, p.cfg); err != nil {
				return ignoreCanceled(err)
			}
		}
	}
}

func (p *panel) drainStatus() {
	for _, msg := range p.status.Drain() {
		p.state.status = msg
		if p.publish != nil {
			p.publish(msg)
		}
	}
}

func (p *panel) drainRemote(ctx context.Context) error {
	for {
		select {
		case name := <-p.remote:
			a, err := parseAction(name)
			if err != nil {
				logrus.Warnf("remote: %v", err)
				continue
			}
			if err := applyAction(ctx, p.state, a, p.cfg); err != nil {
				return ignoreCanceled(err)
			}
		default:
			return nil
		}
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func run(cfg *appConfig) error {
	link, err := comm.OpenPort(cfg.Port, cfg.Baud)
	if err != nil {
		return err
	}
	defer link.Close()
	logrus.Infof("opened serial port %s at %d baud", cfg.Port, cfg.Baud)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	status := comm.NewStatusQueue(comm.StatusQueueSize)
	disp := comm.NewDispatcher(link, status,
		comm.WithPacing(cfg.pacing()),
		comm.WithLogger(logrus.WithField("component", "dispatcher")),
	)

	t, err := openTerminal()
	if err != nil {
		return err
	}
	defer t.restore()

	p := &panel{
		cfg:    cfg,
		state:  newControlState(disp),
		status: status,
		term:   t,
	}

	g, gctx := errgroup.WithContext(ctx)
	uiCtx, uiDone := context.WithCancel(gctx)
	defer uiDone()

	if cfg.Remote.Enabled {
		srv := remote.New(cfg.Remote.Listen, logrus.WithField("component", "remote"))
		p.remote = srv.Actions()
		p.publish = srv.PublishStatus
		g.Go(func() error { return srv.Serve(uiCtx) })
	}

	// The dispatcher keeps the signal context so that quitting drains the
	// queue; only an interrupt abandons queued commands.
	g.Go(func() error {
		return ignoreCanceled(disp.Run(ctx))
	})
	g.Go(func() error {
		defer uiDone()
		defer disp.Close()
		return p.run(uiCtx)
	})
	return g.Wait()
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-config file] <port>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := defaultConfig()
	if *configPath != "" {
		if err := cfg.load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	cfg.applyOverrides(flag.Args())
	if err := cfg.validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	logFile, err := setupLogging(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logFile.Close()

	if err := run(&cfg); err != nil {
		logrus.WithError(err).Error("panel exited")
		fmt.Fprintln(os.Stderr, err)
		logFile.Close()
		os.Exit(1)
	}
}
