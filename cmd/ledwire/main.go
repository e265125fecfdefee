package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/coreman2200/ledwire/color"
	"github.com/coreman2200/ledwire/driver"
	"github.com/coreman2200/ledwire/internal/app"
	"github.com/coreman2200/ledwire/internal/config"
	"github.com/coreman2200/ledwire/internal/diag"
	"github.com/coreman2200/ledwire/internal/monitor"
)

func main() {
	// ---- Flags (override config.yaml and the environment when set) ----
	var (
		configPath = flag.String("config", "ledwire.yaml", "path to the YAML config")
		drv        = flag.String("driver", "", "driver: sim | spi | nrzled | bitbang | pulse")
		chip       = flag.String("chipset", "", "chipset, e.g. ws2812, sk6812, apa102")
		pixels     = flag.Int("pixels", 0, "number of LEDs in the chain")
		brightness = flag.Float64("brightness", -1, "global brightness 0..1")
		pattern    = flag.String("pattern", "", "rainbow | sweep | rgb | solid | off")
		addr       = flag.String("addr", "", "monitor listen address")
		simOnly    = flag.Bool("sim-only", false, "force simulation (no hardware output)")
		writeCfg   = flag.Bool("write-config", false, "write the effective config to -config and exit")
	)
	flag.Parse()

	// ---- Config: defaults < file < environment < flags ----
	cfg, err := config.Load(*configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fatal(zerolog.New(os.Stderr), err, "config load failed")
		}
		cfg = config.Default()
	}
	if err := cfg.ApplyEnv(); err != nil {
		fatal(zerolog.New(os.Stderr), err, "environment")
	}
	setIf(&cfg.Driver, *drv)
	setIf(&cfg.Chipset, *chip)
	setIf(&cfg.Pattern, *pattern)
	setIf(&cfg.Monitor.Addr, *addr)
	if *pixels > 0 {
		cfg.Pixels = *pixels
	}
	if *brightness >= 0 {
		cfg.Brightness = *brightness
	}
	if *simOnly {
		cfg.Driver = config.DriverSim
	}

	// ---- Logging ----
	logger := newLogger(cfg.Log)
	log.Logger = logger

	if err := cfg.Validate(); err != nil {
		fatal(logger, err, "invalid configuration")
	}
	if *writeCfg {
		if err := config.Save(*configPath, cfg); err != nil {
			fatal(logger, err, "config save failed")
		}
		logger.Info().Str("path", *configPath).Msg("config written")
		return
	}
	corr, _ := cfg.ColorCorrection()

	// ---- Monitor and driver ----
	hub := monitor.New(monitor.Info{Driver: cfg.Driver, Chipset: cfg.Chipset, Pixels: cfg.Pixels, FPS: cfg.FPS}, logger)
	var obs driver.Observer
	if cfg.Monitor.Enabled {
		obs = hub
	}
	d, err := app.Build(cfg, logger, obs)
	if err != nil && cfg.Driver != config.DriverSim {
		logger.Warn().Err(err).Str("driver", cfg.Driver).Msg("driver init failed; falling back to SIM")
		hub.Report(diag.FromError(err, map[string]any{"driver": cfg.Driver}))
		cfg.Driver = config.DriverSim
		d, err = app.Build(cfg, logger, obs)
	}
	if err != nil {
		fatal(logger, err, "driver init failed")
	}

	plan := diag.Plan{Kind: diag.Kind(cfg.Pattern)}
	if cfg.Pattern == string(diag.Solid) {
		c, _ := color.ParseHex(cfg.Color)
		plan.Color = c.Linear()
	}
	loop := app.NewLoop(d, cfg.Pixels, cfg.FPS, cfg.Brightness, corr, plan, logger)
	loop.Report = hub.Report
	loop.Limit = app.Limiter{
		WhiteCap:  cfg.Power.WhiteCap,
		ChannelMA: cfg.Power.ChannelMA,
		BudgetMA:  cfg.Power.LimitAmps * 1000,
	}
	hub.OnControl(loop.Control)

	// ---- Run loop & server until a signal arrives ----
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return loop.Run(ctx) })

	if cfg.Monitor.Enabled {
		srv := &http.Server{
			Addr:         cfg.Monitor.Addr,
			Handler:      hub.Handler(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		g.Go(func() error {
			logger.Info().Str("addr", cfg.Monitor.Addr).Str("driver", cfg.Driver).Msg("HTTP server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			return srv.Close()
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("stopped")
	}
	logger.Info().Msg("shutting down")
	if err := d.Close(); err != nil {
		logger.Warn().Err(err).Msg("driver close")
	}
}

func newLogger(c config.Log) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil || c.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339
	console := c.Format == "console" || (c.Format != "json" && term.IsTerminal(int(os.Stdout.Fd())))
	if console {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
}

func fatal(l zerolog.Logger, err error, msg string) {
	l.Error().Err(err).Msg(msg)
	os.Exit(1)
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
