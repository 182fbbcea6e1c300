package main

import (
	"context"
	"database/sql"

	config "github.com/vivento/vivento/internal/config"

	authApp "github.com/vivento/vivento/internal/auth/application"
	authDomain "github.com/vivento/vivento/internal/auth/domain"
	authHttp "github.com/vivento/vivento/internal/auth/infra/inbound/http"
	authMongo "github.com/vivento/vivento/internal/auth/infra/outbound/db/mongodb"
	authSQLite "github.com/vivento/vivento/internal/auth/infra/outbound/db/sqlite"
	"github.com/vivento/vivento/internal/auth/infra/outbound/federated"

	eventoApp "github.com/vivento/vivento/internal/evento/application"
	eventoDomain "github.com/vivento/vivento/internal/evento/domain"
	eventoHttp "github.com/vivento/vivento/internal/evento/infra/inbound/http"
	"github.com/vivento/vivento/internal/evento/infra/outbound/analytics/clickhouse"
	eventoMongo "github.com/vivento/vivento/internal/evento/infra/outbound/db/mongodb"
	eventoSQLite "github.com/vivento/vivento/internal/evento/infra/outbound/db/sqlite"
	"github.com/vivento/vivento/internal/evento/infra/outbound/profiles"

	infraCache "github.com/vivento/vivento/internal/shared/infra/cache"
	infraEvents "github.com/vivento/vivento/internal/shared/infra/events"
	sharedBus "github.com/vivento/vivento/internal/shared/infra/platform/bus"
	sharedCache "github.com/vivento/vivento/internal/shared/infra/platform/cache"

	"github.com/vivento/vivento/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	mongoOptions "go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	// _ "github.com/mattn/go-sqlite3" // requires gcc
	_ "modernc.org/sqlite"
)

// ---------------- Main ----------------
func main() {
	logger.Init()          // inicializa zap
	log := logger.Logger() // obtiene logger estructurado
	defer log.Sync()       // flush buffers al salir

	ctx := context.Background()
	cfg := config.LoadConfig()

	// ---------------- Repos ----------------
	var (
		creds       authDomain.CredentialStore
		profileRepo authDomain.ProfileRepository
		eventoRepo  eventoDomain.EventoRepository
	)

	if cfg.LocalDeployment {
		log.Info("💾 Despliegue local: usando SQLite", zap.String("path", cfg.SQLitePath))

		db, err := sql.Open("sqlite", cfg.SQLitePath)
		if err != nil {
			log.Fatal("failed to open SQLite", zap.Error(err))
		}
		defer db.Close()

		if err := authSQLite.InitSQLite(db); err != nil {
			log.Fatal("failed to initialize auth schema", zap.Error(err))
		}
		if err := eventoSQLite.InitSQLite(db); err != nil {
			log.Fatal("failed to initialize eventos schema", zap.Error(err))
		}

		authRepo := authSQLite.NewAuthRepoSQLite(db)
		creds = authRepo
		profileRepo = authRepo.Profiles()
		eventoRepo = eventoSQLite.NewEventoRepoSQLite(db)
	} else {
		log.Info("🍃 Usando MongoDB", zap.String("db", cfg.MongoDB))

		client, err := mongo.Connect(ctx, mongoOptions.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		defer client.Disconnect(ctx)

		authRepo, err := authMongo.NewAuthRepoMongoDB(ctx, client, cfg.MongoDB)
		if err != nil {
			log.Fatal("failed to initialize auth repo", zap.Error(err))
		}
		creds = authRepo
		profileRepo = authRepo.Profiles()

		eventoRepo, err = eventoMongo.NewEventoRepoMongoDB(ctx, client, cfg.MongoDB)
		if err != nil {
			log.Fatal("failed to initialize eventos repo", zap.Error(err))
		}
	}

	// ---------------- Cache ----------------
	var cacheInstance sharedCache.Cache
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("⚠️ Redis no disponible, cache en memoria", zap.Error(err))
		cacheInstance = infraCache.NewInMemoryCache(cfg.CacheTTL, 3*cfg.CacheTTL)
	} else {
		cacheInstance = infraCache.NewRedisCache(rdb, cfg.CacheTTL)
		log.Info("✅ Redis conectado, cache habilitado")
	}

	// ---------------- Events ---------------
	var authPublisher, eventoPublisher sharedBus.EventPublisher

	if cfg.UseKafka {
		log.Info("🚀 Usando Kafka como bus de eventos")

		authWriter := kafka.NewWriter(kafka.WriterConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   authDomain.AuthTopic,
		})
		eventoWriter := kafka.NewWriter(kafka.WriterConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   eventoDomain.EventoTopic,
		})
		defer authWriter.Close()
		defer eventoWriter.Close()

		authPublisher = infraEvents.NewKafkaPublisher(authWriter, log)
		eventoPublisher = infraEvents.NewKafkaPublisher(eventoWriter, log)
	} else {
		log.Info("⚡️Usando bus de eventos en memoria (canales de Go)")
		authPublisher = infraEvents.NewInMemoryEventBus(authDomain.AuthTopic)
		eventoPublisher = infraEvents.NewInMemoryEventBus(eventoDomain.EventoTopic)
	}

	// -------------- Analítica --------------
	var analytics eventoDomain.AsistenciaAnalytics
	if cfg.ClickHouseAddr != "" {
		repo, err := clickhouse.NewAsistenciaAnalyticsRepo(cfg.ClickHouseAddr, cfg.ClickHouseDB)
		if err != nil {
			log.Warn("⚠️ ClickHouse no disponible, analítica deshabilitada", zap.Error(err))
		} else if err := repo.InitSchema(); err != nil {
			log.Warn("⚠️ No se pudo crear el esquema de analítica", zap.Error(err))
		} else {
			analytics = repo
			log.Info("📊 ClickHouse conectado, analítica habilitada")
		}
	}

	// --------------- Servicios -------------
	authService := authApp.NewAuthService(
		creds,
		profileRepo,
		federated.NewGoogleVerifier(ctx, cfg.GoogleClientID),
		cacheInstance,
		authPublisher,
		authApp.TokenConfig{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, TTL: cfg.SessionTTL},
		log,
	)

	eventoService := eventoApp.NewEventoService(
		eventoRepo,
		profiles.NewAuthProfileReader(profileRepo),
		cacheInstance,
		eventoPublisher,
		analytics,
		log,
	)

	// ---------------- HTTP ----------------
	authHandler := authHttp.NewAuthHandler(authService)
	eventoHandler := eventoHttp.NewEventoHandler(eventoService)

	router := gin.Default()
	authHttp.RegisterAuthRoutes(router, authHandler, authService)
	eventoHttp.RegisterEventoRoutes(router, eventoHandler, authService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	log.Info("🚀 Server running",
		zap.String("url", "http://localhost:"+cfg.HTTPPort),
	)
	if err := router.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
