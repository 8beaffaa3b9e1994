package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"labcompass/lib/chrono"
	"labcompass/lib/configutil"
	"labcompass/lib/labhistory"
	"labcompass/lib/labreport"
	"labcompass/lib/labstore"
	"labcompass/lib/notify"
	"labcompass/lib/scrapers/phase1"
	"labcompass/lib/telemetry"
	"labcompass/services/labcompass"
)

type WatchConfig struct {
	// Schedule is a cron spec evaluated in Asia/Tokyo.
	Schedule string `json:"schedule"`
	// StatusPort serves the last run as json when non-zero.
	StatusPort int `json:"status_port"`
}

type Config struct {
	Report phase1.ClientOptions `json:"report"`
	Store  labstore.Config      `json:"store"`
	Notify notify.Options       `json:"notify"`
	Watch  WatchConfig          `json:"watch"`
}

// loadConfig reads the config file, a missing file yields the defaults.
func loadConfig() (Config, error) {
	cfg, err := configutil.ReadConfig[Config](*configPath)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no config file found, using defaults", "path", *configPath)
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", *configPath, err)
	}
	return cfg, nil
}

// env is what every command needs to analyze a page.
type env struct {
	config  Config
	tel     telemetry.API
	store   labstore.Store
	history *labhistory.History
	service *labcompass.Service
}

func openEnv(ctx context.Context) (env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return env{}, err
	}
	tel := telemetry.SlogAPI{}

	store, err := labstore.Open(ctx, cfg.Store)
	if err != nil {
		return env{}, fmt.Errorf("open store: %w", err)
	}
	history := labhistory.NewHistory(store, chrono.NewStandardTime(), telemetry.NewScopedAPI("labhistory", tel))
	service, err := labcompass.NewService(history, telemetry.NewScopedAPI("labcompass", tel))
	if err != nil {
		labstore.Close(store)
		return env{}, err
	}

	return env{
		config:  cfg,
		tel:     tel,
		store:   store,
		history: history,
		service: service,
	}, nil
}

func (e env) Close() {
	err := labstore.Close(e.store)
	if err != nil {
		e.tel.ReportWarning("labstore.close", err)
	}
}

// loadDocument reads the report from file when it is given and fetches it
// from the configured url otherwise.
func (e env) loadDocument(ctx context.Context, file string) (labreport.Document, error) {
	if file != "" {
		return labreport.LoadFile(file)
	}
	if e.config.Report.URL == "" {
		return labreport.Document{}, fmt.Errorf("no --file given and report.url is not configured")
	}
	client, err := phase1.NewClient(e.config.Report, telemetry.NewScopedAPI("phase1", e.tel))
	if err != nil {
		return labreport.Document{}, err
	}
	return client.Fetch(ctx)
}
