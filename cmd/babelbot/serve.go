package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/babelbotio/babelbot/internal/channel/adapters/discord"
	"github.com/babelbotio/babelbot/internal/channel/adapters/telegram"
	"github.com/babelbotio/babelbot/internal/chat"
	"github.com/babelbotio/babelbot/internal/config"
	"github.com/babelbotio/babelbot/internal/conversation"
	"github.com/babelbotio/babelbot/internal/handlers"
	"github.com/babelbotio/babelbot/internal/intent"
	"github.com/babelbotio/babelbot/internal/language"
	"github.com/babelbotio/babelbot/internal/logger"
	"github.com/babelbotio/babelbot/internal/observability"
	"github.com/babelbotio/babelbot/internal/persist"
	"github.com/babelbotio/babelbot/internal/pipeline"
	"github.com/babelbotio/babelbot/internal/respond"
	"github.com/babelbotio/babelbot/internal/sentiment"
	"github.com/babelbotio/babelbot/internal/server"
)

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideMetrics,
			provideMemory,
			provideNormalizer,
			provideClassifier,
			provideResolver,
			provideChatClient,
			provideGenerator,
			provideSink,
			provideQueue,
			providePipeline,
			provideServer,
		),
		fx.Invoke(
			startQueue,
			startDiscord,
			startTelegram,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideConfig() (config.Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideMetrics() *observability.Metrics {
	return observability.NewMetrics("babelbot")
}

func provideMemory(log *slog.Logger, cfg config.Config) *conversation.Memory {
	return conversation.NewMemory(log, cfg.Memory.Window)
}

func provideNormalizer(log *slog.Logger, cfg config.Config) *language.Normalizer {
	client := language.NewClient(cfg.Language.BaseURL, cfg.Language.APIKey, timeout(cfg.Language.TimeoutSeconds))
	return language.NewNormalizer(log, client, client, cfg.Language.Canonical)
}

func provideClassifier(log *slog.Logger, cfg config.Config) *sentiment.Classifier {
	client := sentiment.NewInferenceClient(cfg.Sentiment.BaseURL, cfg.Sentiment.APIKey, timeout(cfg.Sentiment.TimeoutSeconds))
	return sentiment.NewClassifier(log, client)
}

func provideResolver(log *slog.Logger, cfg config.Config) (*intent.Resolver, error) {
	catalog, err := intent.LoadCatalog(cfg.Intent.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load intent catalog: %w", err)
	}
	client := intent.NewHTTPClient(cfg.Intent.BaseURL, timeout(cfg.Intent.TimeoutSeconds))
	return intent.NewResolver(log, client, catalog), nil
}

func provideChatClient(cfg config.Config) chat.Client {
	return chat.NewOllamaClient(cfg.Chat.BaseURL, cfg.Chat.Model, timeout(cfg.Chat.TimeoutSeconds))
}

func provideGenerator(log *slog.Logger, cfg config.Config, resolver *intent.Resolver, chatClient chat.Client) *respond.Generator {
	return respond.NewGenerator(log, resolver, chatClient, cfg.Intent.Threshold, cfg.Chat.SystemPrompt)
}

func provideSink(lc fx.Lifecycle, log *slog.Logger, cfg config.Config) (persist.Sink, error) {
	switch cfg.Persistence.Driver {
	case "dynamodb":
		var opts []func(*awsconfig.LoadOptions) error
		if cfg.Persistence.DynamoDB.Region != "" {
			opts = append(opts, awsconfig.WithRegion(cfg.Persistence.DynamoDB.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
		if err != nil {
			return nil, fmt.Errorf("aws config: %w", err)
		}
		return persist.NewDynamoSink(dynamodb.NewFromConfig(awsCfg), cfg.Persistence.DynamoDB.Table)
	case "postgres":
		pool, err := pgxpool.New(context.Background(), cfg.Persistence.Postgres.DSN())
		if err != nil {
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { pool.Close(); return nil }})
		return persist.NewPostgresSink(pool), nil
	default:
		log.Info("persistence disabled")
		return persist.NopSink{}, nil
	}
}

func provideQueue(log *slog.Logger, cfg config.Config, sink persist.Sink, metrics *observability.Metrics) *persist.Queue {
	q := persist.NewQueue(log, sink, cfg.Persistence.QueueSize)
	q.OnDrop = func(persist.Record) { metrics.PersistDropped.Inc() }
	return q
}

func providePipeline(
	log *slog.Logger,
	memory *conversation.Memory,
	normalizer *language.Normalizer,
	classifier *sentiment.Classifier,
	generator *respond.Generator,
	queue *persist.Queue,
	metrics *observability.Metrics,
) *pipeline.Pipeline {
	return pipeline.New(log, memory, normalizer, classifier, generator, queue, metrics)
}

func provideServer(log *slog.Logger, cfg config.Config, p *pipeline.Pipeline) *server.Server {
	return server.NewServer(
		cfg.Server.Addr,
		handlers.NewPingHandler(log),
		handlers.NewChatHandler(log, p.ForChannel("http"), cfg.Delivery.ChunkLimit),
		handlers.NewMetricsHandler(),
	)
}

func startQueue(lc fx.Lifecycle, queue *persist.Queue) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error { queue.Start(); return nil },
		OnStop:  func(ctx context.Context) error { return queue.Stop(ctx) },
	})
}

func startDiscord(lc fx.Lifecycle, log *slog.Logger, cfg config.Config, p *pipeline.Pipeline) {
	if !cfg.Discord.Enabled {
		return
	}
	adapter := discord.NewAdapter(log, cfg.Discord, p.ForChannel("discord"))
	lc.Append(fx.Hook{
		OnStart: adapter.Start,
		OnStop:  adapter.Stop,
	})
}

func startTelegram(lc fx.Lifecycle, log *slog.Logger, cfg config.Config, p *pipeline.Pipeline) {
	if !cfg.Telegram.Enabled {
		return
	}
	adapter := telegram.NewAdapter(log, cfg.Telegram, p.ForChannel("telegram"))
	lc.Append(fx.Hook{
		OnStart: adapter.Start,
		OnStop:  adapter.Stop,
	})
}

func startServer(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}

func timeout(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
