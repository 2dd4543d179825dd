package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/1broseidon/winhide/internal/config"
	"github.com/1broseidon/winhide/internal/daemon"
	"github.com/1broseidon/winhide/internal/dispatch"
	"github.com/1broseidon/winhide/internal/enumerator"
	"github.com/1broseidon/winhide/internal/exclusion"
	"github.com/1broseidon/winhide/internal/hotkeys"
	"github.com/1broseidon/winhide/internal/ipc"
	"github.com/1broseidon/winhide/internal/metrics"
	"github.com/1broseidon/winhide/internal/oscall"
	"github.com/1broseidon/winhide/internal/platform"
	"github.com/1broseidon/winhide/internal/tray"
	"github.com/1broseidon/winhide/internal/visibility"
)

var (
	flagTray        bool
	flagMetricsAddr string
)

const hotkeyReadyTimeout = 5 * time.Second

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the winhide daemon in the foreground",
	Long: `Run the winhide daemon: register the hide and show hotkeys, serve the
local command socket and keep the hidden-window set tidy.

Hidden windows are restored when the daemon exits on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
	daemonCmd.Flags().BoolVar(&flagTray, "tray", false, "show a system tray menu")
	daemonCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (default: $WINHIDE_METRICS_ADDR)")
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	store, err := configStore()
	if err != nil {
		return err
	}
	cfg, loadErr := config.LoadOrDefault(store)

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.Logger

	if loadErr != nil {
		log.Warn("failed to load configuration, using defaults",
			zap.String("path", store.Path()),
			zap.Error(loadErr))
	}
	log.Info("configuration loaded",
		zap.String("path", store.Path()),
		zap.String("hide_hotkey", cfg.HideHotkey),
		zap.String("show_hotkey", cfg.ShowHotkey),
		zap.Int("selected", len(cfg.SelectedWindowIDs)))

	backend, err := platform.NewBackend()
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	defer backend.Close()

	rec := metrics.New()
	guard := oscall.New(cfg.CallTimeout())
	filter := exclusion.NewFilter(cfg.ExcludedPaths)

	d, err := dispatch.New(dispatch.Options{
		Config: cfg,
		Store:  store,
		Lister: enumerator.NewLister(backend, filter,
			enumerator.WithLogger(log),
			enumerator.WithGuard(guard),
			enumerator.WithMetrics(rec)),
		Filter: filter,
		Controller: visibility.NewController(backend,
			visibility.WithLogger(log),
			visibility.WithGuard(guard),
			visibility.WithMetrics(rec)),
		Logger: log,
	})
	if err != nil {
		return err
	}

	reg, err := hotkeys.NewRegistrar(backend, log.Named("hotkeys"))
	if err != nil {
		return fmt.Errorf("failed to set up hotkeys: %w", err)
	}
	hk := hotkeys.NewHandler(reg, map[hotkeys.Action]func(){
		hotkeys.ActionHide: func() { d.HideSelected() },
		hotkeys.ActionShow: func() { d.RequestRestore() },
	}, cfg.HotkeyCooldown(), log.Named("hotkeys"))
	d.SetBinder(hk)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	// The Win32 registrar only accepts bindings from its running loop.
	g.Go(func() error {
		return hk.Run(gctx)
	})
	if err := hk.WaitReady(gctx, hotkeyReadyTimeout); err != nil {
		log.Warn("hotkeys unavailable", zap.Error(err))
	} else {
		for _, w := range hk.Bind(cfg.HideHotkey, cfg.ShowHotkey) {
			log.Warn("hotkey not bound", zap.Error(w))
		}
	}
	defer hk.Unbind()

	socket, err := socketPath()
	if err != nil {
		stop()
		_ = g.Wait()
		return err
	}
	srv := ipc.NewServer(socket, d, log)
	if err := srv.Start(); err != nil {
		stop()
		_ = g.Wait()
		return err
	}
	defer srv.Stop()

	pruner := daemon.NewPruner(daemon.PrunerConfig{
		Interval: cfg.PruneInterval(),
		Logger:   log,
	}, d.Prune)
	g.Go(func() error {
		return pruner.Run(gctx)
	})

	if addr := firstNonEmpty(flagMetricsAddr, env.MetricsAddr); addr != "" {
		serveMetrics(gctx, g, addr, rec, log)
	}

	if flagTray {
		t := tray.New(d, stop, log)
		g.Go(func() error {
			return t.Run(gctx)
		})
	}

	log.Info("winhide daemon started",
		zap.String("platform", runtime.GOOS),
		zap.String("socket", srv.SocketPath()))

	err = g.Wait()

	// Never leave windows hidden behind a clean exit.
	res := d.RequestRestore()
	log.Info("winhide daemon stopped",
		zap.Int("restored", len(res.Restored)),
		zap.Int("dropped", len(res.Dropped)))

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func serveMetrics(ctx context.Context, g *errgroup.Group, addr string, rec *metrics.Recorder, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", rec.Handler())
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		log.Info("serving metrics", zap.String("addr", addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
}
