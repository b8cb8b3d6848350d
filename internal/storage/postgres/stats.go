package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"emergencyHub/internal/domain"
	"emergencyHub/pkg/e"
)

type StatsRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewStats(pool *pgxpool.Pool, logger *slog.Logger) *StatsRepo {
	return &StatsRepo{pool: pool, logger: logger}
}

func (p *StatsRepo) CountReported(ctx context.Context, minutes int) (int64, error) {
	const op = "postgres.Stats.CountReported"

	if minutes <= 0 || minutes > 1440 {
		return 0, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	const query = `
		SELECT COUNT(*)
		FROM incidents
		WHERE reported_at >= NOW() - ($1 * INTERVAL '1 minute')
	`

	var cnt int64
	if err := p.pool.QueryRow(ctx, query, minutes).Scan(&cnt); err != nil {
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.Int("minutes", minutes))
		return 0, e.WrapError(ctx, op, err)
	}
	return cnt, nil
}

func (p *StatsRepo) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	const op = "postgres.Stats.CountByStatus"

	rows, err := p.pool.Query(ctx, `SELECT status, COUNT(*) FROM incidents GROUP BY status`)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	out := make(map[domain.Status]int64, len(domain.Statuses))
	for rows.Next() {
		var (
			status domain.Status
			cnt    int64
		)
		if err := rows.Scan(&status, &cnt); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		out[status] = cnt
	}
	if err := rows.Err(); err != nil {
		return nil, e.WrapError(ctx, op, err)
	}
	return out, nil
}

func (p *StatsRepo) CountUniqueUsers(ctx context.Context, minutes int) (int64, error) {
	const op = "postgres.LocationCheck.CountUniqueUsers"

	if minutes <= 0 || minutes > 1440 {
		return 0, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	const query = `
		SELECT COUNT(DISTINCT user_id)
		FROM location_checks
		WHERE checked_at >= NOW() - ($1 * INTERVAL '1 minute')
	`

	var cnt int64
	if err := p.pool.QueryRow(ctx, query, minutes).Scan(&cnt); err != nil {
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.Int("minutes", minutes))
		return 0, e.WrapError(ctx, op, err)
	}
	return cnt, nil
}
