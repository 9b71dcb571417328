// Package main - утилита управления схемой базы данных журнала.
//
// Использование:
//
//	migrate up      применить все недостающие миграции
//	migrate down    откатить последнюю применённую миграцию
//	migrate status  показать состояние миграций
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/school-journal/journal/config"
	"github.com/school-journal/journal/internal/infrastructure/persistence/postgres"
	"github.com/school-journal/journal/pkg/logger"
	"github.com/school-journal/journal/pkg/retry"
)

const usage = "usage: migrate up|down|status"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errors.New(usage)
	}
	action := args[0]
	if action != "up" && action != "down" && action != "status" {
		return fmt.Errorf("unknown command %q; %s", action, usage)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Database.UseMemoryStore() {
		return errors.New("DATABASE_URL is not set")
	}

	log := logger.New(logger.Options{
		Level:   logger.ParseLevel(cfg.Observability.LogLevel),
		Format:  logger.Format(cfg.Observability.LogFormat),
		Output:  os.Stderr,
		Service: "migrate",
	})

	retrier := retry.StartupRetrier(cfg.Database.ConnectRetries, func(attempt int, err error, delay time.Duration) {
		log.Warn("database is not reachable yet", slog.Int("attempt", attempt), logger.Err(err))
	})
	conn, err := postgres.ConnectWithRetry(ctx, retrier, cfg.Database.URL, postgres.PoolSettings{MaxConns: 2})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	migrator := postgres.NewMigrator(conn)

	switch action {
	case "up":
		applied, err := migrator.Migrate(ctx)
		if err != nil {
			return err
		}
		log.Info("migrations applied", slog.Int("count", applied))

	case "down":
		version, err := migrator.Rollback(ctx)
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("nothing to roll back")
		} else {
			log.Info("migration rolled back", slog.Int("version", version))
		}

	case "status":
		migrations, err := migrator.Status(ctx)
		if err != nil {
			return err
		}
		return printStatus(out, migrations)
	}

	return nil
}

func printStatus(out io.Writer, migrations []postgres.Migration) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tNAME\tAPPLIED AT")
	for _, m := range migrations {
		applied := "pending"
		if m.IsApplied {
			applied = m.AppliedAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%03d\t%s\t%s\n", m.Version, m.Name, applied)
	}
	return tw.Flush()
}
