package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/shipbot/internal/client"
	"github.com/DoyleJ11/shipbot/internal/config"
	"github.com/DoyleJ11/shipbot/internal/dispatch"
	"github.com/DoyleJ11/shipbot/internal/httpapi"
	"github.com/DoyleJ11/shipbot/internal/logging"
	"github.com/DoyleJ11/shipbot/internal/monitor"
	"github.com/DoyleJ11/shipbot/internal/runner"
	"github.com/DoyleJ11/shipbot/internal/strategy"
	"github.com/DoyleJ11/shipbot/internal/ws"
)

type flags struct {
	configPath string
	statusAddr string
	strategy   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:          "shipbot",
		Short:        "Connects a bot to the game server and plays until interrupted",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, f)
		},
	}
	cmd.Flags().StringVar(&f.configPath, "config", config.DefaultPath, "path to the JSON config file")
	cmd.Flags().StringVar(&f.statusAddr, "status-addr", "", "address for the status server (overrides config, \"off\" disables)")
	cmd.Flags().StringVar(&f.strategy, "strategy", "hunter", "strategy to play: hunter or idle")
	return cmd
}

func pickStrategy(name string, cfg config.Config) (strategy.Strategy, error) {
	switch name {
	case "hunter":
		return strategy.NewHunter(cfg.BotName, cfg.MaxTurnRadius), nil
	case "idle":
		return strategy.Idle, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

func run(ctx context.Context, f *flags) (err error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	if f.statusAddr != "" {
		cfg.StatusAddr = f.statusAddr
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	strat, err := pickStrategy(f.strategy, cfg)
	if err != nil {
		return err
	}

	mon := monitor.New(ctx)
	defer mon.Close()

	r := runner.New(strat, runner.Options{
		Margin:   cfg.TickMargin(),
		PoolSize: int64(cfg.WorkerPoolSize),
		Verbose:  cfg.VerboseExceptions,
		Logger:   log.Named("runner"),
	})
	handlers := client.NewHandlers(r, log.Named("client"))

	url := cfg.URL()
	log.Info("connecting", zap.String("url", url), zap.String("bot", cfg.BotName))
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	conn, err := ws.Dial(dialCtx, url, log.Named("ws"))
	cancel()
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, conn.Close()) }()

	c := client.New(mon)
	if err := c.Authorize(ctx, conn, cfg.Token, cfg.BotName); err != nil {
		return err
	}

	d := dispatch.New(c, handlers, conn, dispatch.Options{
		Verbose:  cfg.VerboseExceptions,
		Logger:   log.Named("dispatch"),
		Observer: mon,
	})

	// Cancelling gctx also aborts the pending websocket read, so whichever
	// side stops first takes the other one down.
	runCtx, stopAll := context.WithCancel(ctx)
	defer stopAll()
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		defer stopAll()
		err := d.Run(gctx)
		if ws.IsNormalClose(err) || errors.Is(err, context.Canceled) {
			log.Info("connection closed")
			return nil
		}
		return err
	})

	if cfg.StatusAddr != "" && cfg.StatusAddr != "off" {
		srv := &http.Server{Addr: cfg.StatusAddr, Handler: httpapi.SetupRoutes(mon), ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			log.Info("status server listening", zap.String("addr", cfg.StatusAddr))
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}
