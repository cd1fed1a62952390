package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/hunterjsb/leaguecard/internal/api"
	"github.com/hunterjsb/leaguecard/internal/card"
	"github.com/hunterjsb/leaguecard/internal/champion"
	"github.com/hunterjsb/leaguecard/internal/config"
	"github.com/hunterjsb/leaguecard/internal/discord"
	"github.com/hunterjsb/leaguecard/internal/imagegen"
	"github.com/hunterjsb/leaguecard/internal/metrics"
	"github.com/hunterjsb/leaguecard/internal/riot"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("exiting", zap.String("mode", cfg.RunMode()), zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	if lvl.Level() == zap.DebugLevel {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.Level = lvl
	return zc.Build()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	mode := cfg.RunMode()
	logger.Info("starting", zap.String("mode", mode))

	if mode == config.ModeChampions {
		return refreshChampions(ctx, cfg.ChampionOut, logger)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}

	svc, err := newService(ctx, cfg, m, logger)
	if err != nil {
		return err
	}
	h := api.NewHandler(svc, m, logger)

	switch mode {
	case config.ModeLambda:
		lambda.StartWithOptions(api.LambdaHandler(h), lambda.WithContext(ctx))
		return nil
	case config.ModeHTTP:
		return serveHTTP(ctx, cfg, api.NewRouter(h, reg), logger)
	case config.ModeDiscord:
		return runDiscordBot(ctx, cfg, svc, logger)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

func newService(ctx context.Context, cfg *config.Config, m *metrics.Collectors, logger *zap.Logger) (*card.Service, error) {
	client := riot.NewClient(cfg.RiotAPIKey,
		riot.WithRegionalURL(riot.RegionalURL(cfg.RiotRegion)),
		riot.WithPlatformURL(riot.PlatformURL(cfg.RiotPlatform)),
		riot.WithLogger(logger),
		riot.WithObserver(m.RiotRequest),
	)

	champions, err := champion.LoadBundled()
	if err != nil {
		return nil, err
	}
	logger.Debug("champion data loaded", zap.String("version", champions.Version()), zap.Int("champions", champions.Len()))

	gen, err := newGenerator(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &card.Service{
		Aggregator: &card.Aggregator{
			Riot:        client,
			Champions:   champions,
			MatchCount:  cfg.MatchCount,
			Concurrency: cfg.MatchConcurrency,
			Logger:      logger,
		},
		Generator: gen,
		Image: imagegen.Options{
			Width:          cfg.ImageWidth,
			Height:         cfg.ImageHeight,
			CFGScale:       cfg.CFGScale,
			NegativePrompt: imagegen.DefaultNegativePrompt,
		},
		OutputWidth: cfg.OutputWidth,
		Quality:     cfg.JPEGQuality,
		Metrics:     m,
		Logger:      logger,
	}, nil
}

func newGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (imagegen.Generator, error) {
	if cfg.ImageProvider == config.ProviderOpenAI {
		return imagegen.NewOpenAI(cfg.OpenAIAPIKey, cfg.ModelID, cfg.OpenAIBaseURL), nil
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, cfg.AWSSessionToken)))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return imagegen.NewBedrock(bedrockruntime.NewFromConfig(awsCfg), cfg.ModelID, logger), nil
}

func serveHTTP(ctx context.Context, cfg *config.Config, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.HTTPTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func runDiscordBot(ctx context.Context, cfg *config.Config, cards discord.CardCreator, logger *zap.Logger) error {
	bot, err := discord.NewBot(discord.Config{Token: cfg.DiscordToken, GuildID: cfg.GuildID}, cards, logger)
	if err != nil {
		return err
	}
	if err := bot.Start(); err != nil {
		return err
	}

	logger.Info("bot is now running, press CTRL-C to exit")
	<-ctx.Done()

	logger.Info("shutting down bot")
	return bot.Stop()
}

// refreshChampions downloads the latest Data Dragon champion list and
// overwrites the bundled dataset at path.
func refreshChampions(ctx context.Context, path string, logger *zap.Logger) error {
	ds, err := champion.NewFetcher().FetchLatest(ctx, "en_US")
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	logger.Info("champion data written", zap.String("path", path), zap.String("version", ds.Version), zap.Int("champions", len(ds.Data)))
	return nil
}
