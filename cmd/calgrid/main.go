package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"calgrid/internal/calendar"
	"calgrid/internal/config"
	appLog "calgrid/internal/log"
	"calgrid/internal/store"
	"calgrid/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	once       bool
	date       string
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))
	appLog.Info("calgrid starting", "version", "0.1.0")

	// CLI --listen overrides config file listen if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	loc, err := conf.Location()
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "timezone", conf.Timezone)
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", loc.String(),
		"store_path", conf.StorePath,
		"snapshot", conf.SnapshotCron,
		"minutes_per_pixel", conf.MinutesPerPixel,
		"month_cell_limit", conf.MonthCellLimit,
		"once", flags.once,
	)

	st, err := store.Open(conf.StorePath)
	if err != nil {
		appLog.Error("failed to open event store", err, "path", conf.StorePath)
		os.Exit(1)
	}

	if flags.once {
		if err := printWeek(os.Stdout, st, flags.date, loc); err != nil {
			appLog.Error("failed to render week layout", err, "date", flags.date)
			os.Exit(1)
		}
		return
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	sched := cron.New(cron.WithLocation(loc))
	if _, err := sched.AddFunc(conf.SnapshotCron, func() { flushStore(st) }); err != nil {
		appLog.Error("invalid snapshot schedule", err, "snapshot", conf.SnapshotCron)
		os.Exit(1)
	}
	sched.Start()

	srv := web.NewServer(conf, st, loc)
	runErr := srv.Run(ctx)
	if runErr != nil {
		appLog.Error("HTTP server stopped", runErr)
	}

	// Wait for a running snapshot, then write the final state.
	<-sched.Stop().Done()
	flushStore(st)

	appLog.Info("calgrid exiting")
	if runErr != nil {
		os.Exit(1)
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/calgrid/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Print the week layout as JSON and exit")
	flag.StringVar(&cfg.date, "date", "", "Reference date (YYYY-MM-DD) for -once; default today")

	flag.Parse()

	return cfg
}

func flushStore(st *store.Memory) {
	start := time.Now()
	if err := st.Flush(); err != nil {
		appLog.Error("store snapshot failed", err)
		return
	}
	appLog.Debug("store snapshot done", "took", time.Since(start))
}

// printWeek writes the time-axis layout of the week containing date.
func printWeek(w io.Writer, st store.Store, date string, loc *time.Location) error {
	ref := calendar.StartOfDay(time.Now().In(loc))
	if date != "" {
		d, err := calendar.ParseDate(date, loc)
		if err != nil {
			return err
		}
		ref = d
	}

	events, err := st.List(context.Background())
	if err != nil {
		return err
	}
	if len(events) == 0 {
		appLog.Info("event store is empty")
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(calendar.BuildWeek(events, ref)); err != nil {
		return fmt.Errorf("encode week: %w", err)
	}
	return nil
}
