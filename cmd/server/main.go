// Package main - точка входа REST API школьного журнала.
//
// Архитектура следует принципам Clean Architecture:
// - Domain: учителя, ученики, предметы, оценки и расчёт статистики
// - Application: команды и запросы (CQRS)
// - Infrastructure: PostgreSQL или in-memory хранилище, Redis, JWT, xlsx
// - Interface: HTTP API
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/school-journal/journal/config"

	// Application layer
	"github.com/school-journal/journal/internal/application/command"
	"github.com/school-journal/journal/internal/application/query"

	// Domain layer
	"github.com/school-journal/journal/internal/domain/grade"
	"github.com/school-journal/journal/internal/domain/student"
	"github.com/school-journal/journal/internal/domain/subject"
	"github.com/school-journal/journal/internal/domain/teacher"

	// Infrastructure layer
	"github.com/school-journal/journal/internal/infrastructure/export"
	"github.com/school-journal/journal/internal/infrastructure/persistence/memory"
	"github.com/school-journal/journal/internal/infrastructure/persistence/postgres"
	"github.com/school-journal/journal/internal/infrastructure/persistence/redis"
	"github.com/school-journal/journal/internal/infrastructure/security"

	// Interface layer
	httpserver "github.com/school-journal/journal/internal/interface/http"
	"github.com/school-journal/journal/internal/interface/http/handlers"

	// Packages
	"github.com/school-journal/journal/pkg/circuitbreaker"
	"github.com/school-journal/journal/pkg/logger"
	"github.com/school-journal/journal/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

// repositories - набор хранилищ, с которыми работает приложение.
type repositories struct {
	teachers teacher.Repository
	students student.Repository
	subjects subject.Repository
	grades   grade.Repository
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting school journal API",
		slog.String("env", string(cfg.App.Environment)),
		slog.Bool("debug", cfg.App.Debug),
		slog.Any("features", cfg.Features.EnabledFeatures()),
	)

	health := handlers.NewCompositeHealthChecker(cfg.App.Version)
	health.SetTimeout(cfg.HTTP.HealthCheckTimeout)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ХРАНИЛИЩЕ (PostgreSQL или память)
	// ─────────────────────────────────────────────────────────────────────────
	var repos repositories

	if cfg.Database.UseMemoryStore() {
		log.Warn("DATABASE_URL is not set, using in-memory store; data is lost on restart")
		store := memory.NewStore()
		repos = repositories{
			teachers: store.Teachers(),
			students: store.Students(),
			subjects: store.Subjects(),
			grades:   store.Grades(),
		}
		health.AddCheck("storage", handlers.PingCheck(store))
	} else {
		dbConn, err := connectDatabase(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer func() {
			log.Info("closing database connection...")
			dbConn.Close()
		}()

		if cfg.Database.AutoMigrate {
			if err := migrate(ctx, dbConn, log); err != nil {
				return err
			}
		}

		repos = repositories{
			teachers: postgres.NewTeacherRepository(dbConn),
			students: postgres.NewStudentRepository(dbConn),
			subjects: postgres.NewSubjectRepository(dbConn),
			grades:   postgres.NewGradeRepository(dbConn),
		}
		health.AddCheck("database", handlers.PingCheck(dbConn))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS (опционально, кеш профилей учителей)
	// ─────────────────────────────────────────────────────────────────────────
	var teacherCache query.TeacherCache

	if cfg.Redis.Enabled && cfg.Features.IsEnabled(config.FeatureAuthTeacherCache) {
		cache, err := connectRedis(ctx, cfg, log)
		if err != nil {
			log.Warn("failed to connect to Redis, teacher cache disabled", logger.Err(err))
		} else {
			defer cache.Close()
			breaker := circuitbreaker.ForCache(func(name string, from, to circuitbreaker.State) {
				log.Warn("circuit breaker state changed",
					slog.String("breaker", name),
					slog.String("from", from.String()),
					slog.String("to", to.String()),
				)
			})
			teacherCache = redis.NewTeacherCache(cache, cfg.Redis.TeacherTTL, breaker)
			health.AddOptionalCheck("cache", handlers.PingCheck(cache))
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. БЕЗОПАСНОСТЬ
	// ─────────────────────────────────────────────────────────────────────────
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens, err := security.NewJWTService(security.TokenConfig{
		Secret: cfg.Auth.JWTSecret,
		TTL:    cfg.Auth.TokenTTL,
		Issuer: cfg.Auth.Issuer,
	})
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	roundSubjects := func() bool {
		return cfg.Features.IsEnabled(config.FeatureStatsRoundSubjectAverages)
	}

	deps := httpserver.Dependencies{
		RegisterTeacher: command.NewRegisterTeacherHandler(repos.teachers, hasher),
		Login:           command.NewLoginHandler(repos.teachers, hasher, tokens),
		Students:        command.NewStudentHandler(repos.students),
		Subjects:        command.NewSubjectHandler(repos.subjects),
		Grades:          command.NewGradeHandler(repos.grades, repos.students, repos.subjects),

		CurrentTeacher: query.NewGetCurrentTeacherHandler(tokens, repos.teachers, teacherCache, log),
		Journal:        query.NewJournalReader(repos.students, repos.subjects, repos.grades),
		StudentStats:   query.NewGetStudentStatsHandler(repos.students, repos.subjects, repos.grades, roundSubjects),
		ExportGrades:   query.NewExportGradesHandler(repos.grades, repos.students, repos.subjects, export.NewXLSXWriter()),

		Features:      cfg.Features,
		HealthChecker: health,
		Logger:        log,
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	server := httpserver.NewServer(httpserver.ConfigFrom(cfg), deps)
	errCh := server.StartAsync()

	select {
	case <-ctx.Done():
		log.Info("received shutdown signal")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("starting graceful shutdown...", slog.Duration("timeout", cfg.HTTP.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("HTTP server shutdown failed", logger.Err(err))
		return err
	}

	log.Info("server stopped")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// INFRASTRUCTURE
// ══════════════════════════════════════════════════════════════════════════════

// connectDatabase подключается к PostgreSQL, повторяя попытки при старте.
func connectDatabase(ctx context.Context, cfg *config.Config, log *slog.Logger) (*postgres.Connection, error) {
	log.Info("connecting to database...")

	settings := postgres.PoolSettings{
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
	}

	retrier := retry.StartupRetrier(cfg.Database.ConnectRetries, func(attempt int, err error, delay time.Duration) {
		log.Warn("database is not reachable yet",
			slog.Int("attempt", attempt),
			slog.Duration("retry_in", delay),
			logger.Err(err),
		)
	})

	conn, err := postgres.ConnectWithRetry(ctx, retrier, cfg.Database.URL, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("database connection established")
	return conn, nil
}

// migrate применяет недостающие миграции.
func migrate(ctx context.Context, conn *postgres.Connection, log *slog.Logger) error {
	log.Info("running database migrations...")

	applied, err := postgres.NewMigrator(conn).Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("migrations completed", slog.Int("applied", applied))
	return nil
}

// connectRedis подключается к Redis. Ошибка не фатальна: кеш необязателен.
func connectRedis(ctx context.Context, cfg *config.Config, log *slog.Logger) (*redis.Cache, error) {
	log.Info("connecting to Redis...")

	redisCfg := redis.DefaultConfig()
	redisCfg.URL = cfg.Redis.URL
	redisCfg.Host = cfg.Redis.Host
	redisCfg.Port = cfg.Redis.Port
	redisCfg.Password = cfg.Redis.Password
	redisCfg.DB = cfg.Redis.DB
	redisCfg.PoolSize = cfg.Redis.PoolSize
	redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
	redisCfg.DialTimeout = cfg.Redis.DialTimeout
	redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
	redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

	return redis.NewCache(ctx, redisCfg)
}

// setupLogger создаёт логгер согласно конфигурации.
func setupLogger(cfg *config.Config) *slog.Logger {
	format := logger.FormatText
	if cfg.Observability.LogFormat == string(logger.FormatJSON) {
		format = logger.FormatJSON
	}

	level := logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		level = slog.LevelDebug
	}

	log := logger.New(logger.Options{
		Level:     level,
		Format:    format,
		Output:    os.Stdout,
		AddSource: cfg.App.Debug,
		Service:   cfg.App.Name,
		Version:   cfg.App.Version,
	})
	slog.SetDefault(log)
	return log
}
