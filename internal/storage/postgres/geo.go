package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"emergencyHub/internal/domain"
	"emergencyHub/internal/geo"
	"emergencyHub/internal/incident"
	"emergencyHub/pkg/e"
)

// FindNearby returns incidents within radiusMeters of center, nearest first.
// Distances are computed on the geography type, so they are in meters.
func (p *IncidentRepo) FindNearby(ctx context.Context, center geo.Point, radiusMeters float64, limit int, activeOnly bool) ([]*incident.Incident, error) {
	const op = "postgres.Incident.FindNearby"

	if err := geo.CheckPoint(center); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if radiusMeters <= 0 {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	const query = `
		WITH center AS (
			SELECT ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography AS g
		)
		SELECT i.document, i.version
		FROM incidents i, center c
		WHERE ST_DWithin(i.location, c.g, $3)
		  AND (NOT $4::boolean OR i.status NOT IN ('resolved', 'closed'))
		ORDER BY ST_Distance(i.location, c.g)
		LIMIT $5
	`

	rows, err := p.pool.Query(ctx, query, center.Lng, center.Lat, radiusMeters, activeOnly, limit)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	incidents, err := collectIncidents(rows)
	if err != nil {
		p.logger.Error("rows collect failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	return incidents, nil
}

func (p *StatsRepo) SaveCheck(ctx context.Context, check *domain.LocationCheck) error {
	const op = "postgres.LocationCheck.Save"

	if check == nil || check.UserID == "" {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	if err := geo.CheckPoint(check.Location); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if check.ID == uuid.Nil {
		check.ID = uuid.New()
	}
	if check.CheckedAt.IsZero() {
		check.CheckedAt = time.Now().UTC()
	}
	if check.IncidentIDs == nil {
		check.IncidentIDs = []uuid.UUID{}
	}

	const query = `
		INSERT INTO location_checks (id, user_id, location, incident_ids, checked_at)
		VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography, $5, $6)
	`

	_, err := p.pool.Exec(ctx, query,
		check.ID,
		check.UserID,
		check.Location.Lng,
		check.Location.Lat,
		check.IncidentIDs,
		check.CheckedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed",
			slog.String("op", op),
			slog.Any("error", err),
			slog.String("user_id", check.UserID),
		)
		return e.WrapError(ctx, op, err)
	}
	return nil
}
