package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"emergencyHub/internal/domain"
	"emergencyHub/internal/incident"
	"emergencyHub/pkg/e"
)

// IncidentRepo keeps each aggregate as a jsonb document next to the columns
// that are queried: location (PostGIS geography), status, score and version.
type IncidentRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewIncidentRepo(pool *pgxpool.Pool, logger *slog.Logger) *IncidentRepo {
	return &IncidentRepo{pool: pool, logger: logger}
}

func (p *IncidentRepo) Create(ctx context.Context, inc *incident.Incident) error {
	const op = "postgres.Incident.Create"

	doc := inc.Document()
	doc.Version = 1

	const query = `
		INSERT INTO incidents (id, location, status, category, severity, verification_score,
		                       upvote_count, reported_at, updated_at, version, document)
		VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography, $4, $5, $6, $7, $8, $9, $10, 1, $11)
	`

	_, err := p.pool.Exec(ctx, query,
		doc.ID,
		doc.Location.Lng,
		doc.Location.Lat,
		doc.Status,
		doc.Category,
		doc.Severity,
		doc.VerificationScore,
		doc.UpvoteCount,
		doc.ReportedAt,
		doc.UpdatedAt,
		doc,
	)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("id", doc.ID.String()))
		return e.WrapError(ctx, op, err)
	}

	inc.SetVersion(1)
	return nil
}

func (p *IncidentRepo) Get(ctx context.Context, id uuid.UUID) (*incident.Incident, error) {
	const op = "postgres.Incident.Get"

	const query = `SELECT document, version FROM incidents WHERE id = $1`

	inc, err := scanIncident(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}
	return inc, nil
}

// Save writes inc only if the stored version still equals inc.Version().
// A lost race yields ErrConcurrentModification; the caller reloads and retries.
func (p *IncidentRepo) Save(ctx context.Context, inc *incident.Incident) error {
	const op = "postgres.Incident.Save"

	doc := inc.Document()
	expected := doc.Version
	doc.Version = expected + 1

	const query = `
		UPDATE incidents
		SET location           = ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography,
		    status             = $5,
		    category           = $6,
		    severity           = $7,
		    verification_score = $8,
		    upvote_count       = $9,
		    updated_at         = $10,
		    document           = $11,
		    version            = version + 1
		WHERE id = $1 AND version = $2
	`

	cmd, err := p.pool.Exec(ctx, query,
		doc.ID,
		expected,
		doc.Location.Lng,
		doc.Location.Lat,
		doc.Status,
		doc.Category,
		doc.Severity,
		doc.VerificationScore,
		doc.UpvoteCount,
		doc.UpdatedAt,
		doc,
	)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("id", doc.ID.String()))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := p.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM incidents WHERE id = $1)`, doc.ID).Scan(&exists); err != nil {
			return e.WrapError(ctx, op, err)
		}
		if !exists {
			return fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Warn("version conflict",
			slog.String("op", op),
			slog.String("id", doc.ID.String()),
			slog.Int64("expected_version", expected),
		)
		return fmt.Errorf("%s: %w", op, e.ErrConcurrentModification)
	}

	inc.SetVersion(doc.Version)
	return nil
}

func (p *IncidentRepo) List(ctx context.Context, page, limit int, status domain.Status) ([]*incident.Incident, int64, error) {
	const op = "postgres.Incident.List"

	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	const countQuery = `SELECT COUNT(*) FROM incidents WHERE ($1::text = '' OR status = $1::text)`

	var total int64
	if err := p.pool.QueryRow(ctx, countQuery, string(status)).Scan(&total); err != nil {
		p.logger.Error("db count failed", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}

	const listQuery = `
		SELECT document, version
		FROM incidents
		WHERE ($1::text = '' OR status = $1::text)
		ORDER BY reported_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.pool.Query(ctx, listQuery, string(status), limit, offset)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}
	incidents, err := collectIncidents(rows)
	if err != nil {
		p.logger.Error("rows collect failed", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}
	return incidents, total, nil
}

func (p *IncidentRepo) ListActive(ctx context.Context) ([]*incident.Incident, error) {
	const op = "postgres.Incident.ListActive"

	const query = `
		SELECT document, version
		FROM incidents
		WHERE status NOT IN ('resolved', 'closed')
	`

	rows, err := p.pool.Query(ctx, query)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIncident(row rowScanner) (*incident.Incident, error) {
	var (
		doc     domain.IncidentDocument
		version int64
	)
	if err := row.Scan(&doc, &version); err != nil {
		return nil, err
	}
	doc.Version = version
	return incident.Restore(doc)
}

func collectIncidents(rows pgx.Rows) ([]*incident.Incident, error) {
	defer rows.Close()

	out := make([]*incident.Incident, 0)
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}
