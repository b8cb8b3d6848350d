package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"emergencyHub/pkg/e"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every embedded migration in name order. Statements are idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	const op = "postgres.Migrate"

	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	sort.Strings(names)

	for _, name := range names {
		body, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("%s: read %s: %w", op, name, err)
		}
		if _, err := pool.Exec(ctx, string(body)); err != nil {
			logger.Error("migration failed", slog.String("op", op), slog.String("file", name), slog.Any("error", err))
			return e.WrapError(ctx, op, err)
		}
		logger.Info("migration applied", slog.String("file", name))
	}
	return nil
}
