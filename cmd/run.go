package cmd

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/llehouerou/wavecast/internal/account"
	"github.com/llehouerou/wavecast/internal/ads"
	"github.com/llehouerou/wavecast/internal/adunit"
	"github.com/llehouerou/wavecast/internal/app"
	"github.com/llehouerou/wavecast/internal/catalog"
	"github.com/llehouerou/wavecast/internal/config"
	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/logging"
	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/queue"
	"github.com/llehouerou/wavecast/internal/state"
	"github.com/llehouerou/wavecast/internal/stderr"
	"github.com/llehouerou/wavecast/internal/telemetry"
	"github.com/llehouerou/wavecast/internal/transport"
)

var errNoCatalog = errors.New("no catalog endpoint configured")

type runOptions struct {
	ConfigPath  string
	LogFile     string
	MetricsAddr string
	TrackIDs    []string
	Filter      catalog.Filter
}

func (o runOptions) wantsCatalog() bool {
	return len(o.TrackIDs) > 0 || o.Filter.Query != "" || o.Filter.ArtistID != "" || o.Filter.Genre != ""
}

func runOptionsFromFlags(cmd *cobra.Command) (runOptions, error) {
	var opts runOptions
	var err error
	flags := cmd.Flags()
	if opts.ConfigPath, err = flags.GetString("config"); err != nil {
		return opts, err
	}
	if opts.LogFile, err = flags.GetString("log-file"); err != nil {
		return opts, err
	}
	if opts.MetricsAddr, err = flags.GetString("metrics-addr"); err != nil {
		return opts, err
	}
	if opts.TrackIDs, err = flags.GetStringSlice("track"); err != nil {
		return opts, err
	}
	if opts.Filter.Query, err = flags.GetString("query"); err != nil {
		return opts, err
	}
	if opts.Filter.ArtistID, err = flags.GetString("artist"); err != nil {
		return opts, err
	}
	if opts.Filter.Genre, err = flags.GetString("genre"); err != nil {
		return opts, err
	}
	if opts.Filter.Limit, err = flags.GetInt("limit"); err != nil {
		return opts, err
	}
	return opts, nil
}

// components is the wired object graph behind one player session.
type components struct {
	service playback.Service
	emitter *telemetry.Emitter
}

func buildComponents(cfg *config.Config, store *state.Manager, logger zerolog.Logger) components {
	adsCfg := cfg.GetAdsConfig()
	acct := cfg.GetAccountConfig()
	fetchTimeout := config.Seconds(cfg.GetTransportConfig().FetchTimeoutSeconds)

	var client telemetry.Client
	telCfg := cfg.GetTelemetryConfig()
	if cfg.HasTelemetry() {
		client = telemetry.NewHTTPClient(telCfg.Endpoint, config.Seconds(telCfg.TimeoutSeconds))
	}
	appVersion := telCfg.AppVersion
	if appVersion == "" {
		appVersion = Version
	}
	emitter := telemetry.NewEmitter(client, telemetry.Options{
		UserID: acct.UserID,
		Device: telemetry.DeviceInfo{
			Platform:   telCfg.Platform,
			OS:         runtime.GOOS,
			AppVersion: appVersion,
		},
		Timeout: config.Seconds(telCfg.TimeoutSeconds),
	}, logger)

	var entitlements account.Provider = account.NewStatic(account.PlanTier(acct.PlanTier))
	if acct.Endpoint != "" {
		entitlements = account.NewHTTP(acct.Endpoint, acct.UserID, config.Seconds(cfg.GetInventoryConfig().TimeoutSeconds))
	}

	var inventory ads.Inventory
	if cfg.HasInventory() {
		invCfg := cfg.GetInventoryConfig()
		inventory = ads.NewHTTPInventory(invCfg.Endpoint, config.Seconds(invCfg.TimeoutSeconds))
	}

	scheduler := ads.NewScheduler(inventory, entitlements, ads.Config{
		MidRollInterval: config.Seconds(adsCfg.MidRollIntervalSeconds),
		SkipDelay:       config.Seconds(adsCfg.SkipDelaySeconds),
	}, logger)

	banner := config.Seconds(adsCfg.BannerSeconds)
	unit := adunit.New(transport.New(fetchTimeout), emitter, adunit.Options{
		SkipDelay:     config.Seconds(adsCfg.SkipDelaySeconds),
		ImageDuration: banner,
	}, logger)

	svc := playback.New(playback.Deps{
		Transport:      transport.New(fetchTimeout),
		Queue:          queue.NewPersistentQueue(store, logger),
		Scheduler:      scheduler,
		AdUnit:         unit,
		Telemetry:      emitter,
		Settings:       store,
		BannerDuration: banner,
		Logger:         logger,
	})

	return components{service: svc, emitter: emitter}
}

// metricsAddr picks the flag over the config file.
func metricsAddr(opts runOptions, cfg *config.Config) string {
	if opts.MetricsAddr != "" {
		return opts.MetricsAddr
	}
	return cfg.Telemetry.MetricsAddr
}

// trackSource is the part of the catalog client used to seed the queue.
type trackSource interface {
	FetchTrack(ctx context.Context, id string) (queue.Track, error)
	FetchTracksByQuery(ctx context.Context, filter catalog.Filter) ([]queue.Track, error)
}

// fetchTracks resolves explicit ids first, then the query. A missing id
// is logged and skipped; a failed query is an error.
func fetchTracks(ctx context.Context, src trackSource, opts runOptions, logger zerolog.Logger) ([]queue.Track, error) {
	var tracks []queue.Track
	for _, id := range opts.TrackIDs {
		t, err := src.FetchTrack(ctx, id)
		if err != nil {
			logger.Warn().Err(err).Str("track_id", id).Msg(errmsg.FormatWith(errmsg.OpCatalogFetch, id, err))
			continue
		}
		tracks = append(tracks, t)
	}

	if opts.Filter.Query != "" || opts.Filter.ArtistID != "" || opts.Filter.Genre != "" {
		found, err := src.FetchTracksByQuery(ctx, opts.Filter)
		if err != nil {
			return nil, errors.New(errmsg.Format(errmsg.OpCatalogSearch, err))
		}
		tracks = append(tracks, found...)
	}
	return tracks, nil
}

func run(ctx context.Context, opts runOptions) error {
	var extra []string
	if opts.ConfigPath != "" {
		extra = append(extra, opts.ConfigPath)
	}
	cfg, err := config.Load(extra...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.wantsCatalog() && !cfg.HasCatalog() {
		return errNoCatalog
	}

	logFile, err := logging.OpenFile(opts.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := logging.Setup(cfg.LogLevel, logFile)

	if err := stderr.Start(logger); err != nil {
		logger.Warn().Err(err).Msg("stderr capture unavailable")
	}
	defer stderr.Stop()

	store, err := state.Open(cfg.StateDB)
	if err != nil {
		logger.Warn().Err(err).Msg("state db unavailable, falling back to memory")
		if store, err = state.OpenMemory(); err != nil {
			return fmt.Errorf("open state: %w", err)
		}
	}
	defer store.Close()

	if addr := metricsAddr(opts, cfg); addr != "" {
		metrics, err := telemetry.StartMetricsServer(addr, logger)
		if err != nil {
			logger.Warn().Err(err).Str("addr", addr).Msg("metrics server unavailable")
		} else {
			defer metrics.Close()
		}
	}

	c := buildComponents(cfg, store, logger)
	defer c.emitter.Wait()
	defer c.service.Close()

	if opts.wantsCatalog() {
		catCfg := cfg.GetCatalogConfig()
		src := catalog.New(catCfg.Endpoint, config.Seconds(catCfg.TimeoutSeconds))
		tracks, err := fetchTracks(ctx, src, opts, logger)
		if err != nil {
			return err
		}
		if n := c.service.Enqueue(tracks...); n > 0 {
			logger.Info().Int("tracks", n).Msg("queued from catalog")
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	loopDone := make(chan error, 1)
	go func() { loopDone <- c.service.Run(ctx) }()

	p := tea.NewProgram(app.New(c.service, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	cancel()
	if loopErr := <-loopDone; loopErr != nil && !errors.Is(loopErr, context.Canceled) {
		logger.Error().Err(loopErr).Msg("playback loop stopped")
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
