package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"net/url"
	"time"

	_ "github.com/lib/pq"

	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/application/recommend"
	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/config"
	rediscache "github.com/Keshav8605/vidtube/services/recommendation-service/internal/infrastructure/caching/redis"
	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/infrastructure/db/postgres"
	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/infrastructure/scoring"
	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/logger"
	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/transport/http/handlers"
	authmw "github.com/Keshav8605/vidtube/services/recommendation-service/internal/transport/http/middleware"
	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/transport/http/router"
	zlog "github.com/rs/zerolog/log"
)

// sysClock implements recommend.Clock using system time
type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

// App holds all dependencies for the service
type App struct {
	Config *config.Config
	Server *http.Server
	DB     *sql.DB

	Publisher *rabbitmq.Publisher
	Consumer  *rabbitmq.Consumer
}

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	u, _ := url.Parse(cfg.DatabaseURL)
	zlog.Info().
		Str("db_user", u.User.Username()).
		Str("db_host", u.Host).
		Str("db_db", u.Path).
		Msg("db config loaded")

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal().Err(err).Msg("db open failed")
	}
	defer db.Close()

	{
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			zlog.Fatal().Err(err).Msg("db ping failed")
		}
	}

	app := NewApp(cfg, db)
	defer func() {
		if app.Publisher != nil {
			_ = app.Publisher.Close()
		}
		if app.Consumer != nil {
			_ = app.Consumer.Close()
		}
	}()

	if app.Consumer != nil {
		app.Consumer.Start(context.Background())
	}

	zlog.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
	if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zlog.Fatal().Err(err).Msg("server crashed")
	}
}

func NewApp(cfg *config.Config, db *sql.DB) *App {
	// 1) Infrastructure
	catalog := postgres.New(db)

	scoringClient := scoring.NewClient(scoring.Config{
		BaseURL: cfg.ScoringURL,
		Timeout: cfg.ScoringTimeout,
	})

	var cache recommend.Cache
	if cfg.RedisURL != "" {
		c, err := rediscache.New(cfg.RedisURL)
		if err != nil {
			zlog.Warn().Err(err).Msg("redis unavailable: popularity fallback will not be cached")
		} else {
			cache = c
		}
	}

	// publisher & consumer wiring
	var rabbitPub *rabbitmq.Publisher
	var pub recommend.Publisher = recommend.NoopPublisher{}

	if cfg.RabbitURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			zlog.Fatal().Err(err).Msg("rabbit publisher init failed")
		}
		rabbitPub = p
		pub = p
		zlog.Info().Str("exchange", cfg.RabbitExchange).Msg("rabbit publisher ready")
	} else {
		zlog.Warn().Msg("RABBIT_URL empty: embeddings.synced events will not be published")
	}

	// 2) Application
	svc := recommend.New(
		catalog,
		scoringClient,
		cache,
		pub,
		sysClock{},
		cfg.FeedLimit,
		cfg.SimilarLimit,
		cfg.CacheTTLPopular,
	)

	var consumer *rabbitmq.Consumer
	if cfg.RabbitURL != "" {
		c, err := rabbitmq.NewConsumer(cfg.RabbitURL, cfg.CatalogExchange, svc)
		if err != nil {
			zlog.Fatal().Err(err).Msg("rabbit consumer init failed")
		}
		consumer = c
		zlog.Info().Str("exchange", cfg.CatalogExchange).Msg("rabbit consumer ready")
	}

	// 3) Transport
	rec := handlers.NewRecommendationsHandler(svc)
	admin := handlers.NewAdminHandler(svc)
	auth := authmw.NewAuth(cfg.JWTSecret, cfg.JWTIssuer)
	z := handlers.NewHealthHandler()

	// 4) Router
	httpHandler := router.New(rec, admin, z, auth, cfg)

	// 5) Server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpHandler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &App{
		Config:    cfg,
		Server:    srv,
		DB:        db,
		Publisher: rabbitPub,
		Consumer:  consumer,
	}
}
