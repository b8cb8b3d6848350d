// Package incident holds the incident aggregate and the engine that mutates it.
// Derived state (upvote count, verification score, lifecycle timestamps) has no setters;
// it changes only as a consequence of Engine operations.
package incident

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"emergencyHub/internal/domain"
	"emergencyHub/internal/geo"
	"emergencyHub/pkg/e"
)

type Incident struct {
	id          uuid.UUID
	title       string
	description string
	category    domain.Category
	severity    domain.Severity
	location    geo.Point
	address     string

	status      domain.Status
	history     []domain.StatusChange
	upvotes     []domain.Upvote
	score       int
	media       []domain.Media
	assignments []domain.Assignment

	reportedBy     domain.Actor
	reportedAt     time.Time
	incidentTime   time.Time
	verifiedAt     *time.Time
	assignedAt     *time.Time
	resolvedAt     *time.Time
	resolutionTime *time.Duration
	updatedAt      time.Time

	version int64
}

func (inc *Incident) ID() uuid.UUID { return inc.id }
func (inc *Incident) Title() string { return inc.title }
func (inc *Incident) Description() string { return inc.description }
func (inc *Incident) Category() domain.Category { return inc.category }
func (inc *Incident) Severity() domain.Severity { return inc.severity }
func (inc *Incident) Location() geo.Point { return inc.location }
func (inc *Incident) Address() string { return inc.address }
func (inc *Incident) Status() domain.Status { return inc.status }
func (inc *Incident) VerificationScore() int { return inc.score }
func (inc *Incident) ReportedBy() domain.Actor { return inc.reportedBy }
func (inc *Incident) ReportedAt() time.Time { return inc.reportedAt }
func (inc *Incident) IncidentTime() time.Time { return inc.incidentTime }
func (inc *Incident) UpdatedAt() time.Time { return inc.updatedAt }
func (inc *Incident) Version() int64 { return inc.version }
func (inc *Incident) UpvoteCount() int { return len(inc.upvotes) }
func (inc *Incident) MediaCount() int { return len(inc.media) }
func (inc *Incident) IsActive() bool { return inc.status.Active() }
func (inc *Incident) VerifiedAt() (time.Time, bool) { return deref(inc.verifiedAt) }
func (inc *Incident) AssignedAt() (time.Time, bool) { return deref(inc.assignedAt) }
func (inc *Incident) ResolvedAt() (time.Time, bool) { return deref(inc.resolvedAt) }

// Position satisfies geo.Locatable.
func (inc *Incident) Position() (geo.Point, bool) {
	return inc.location, inc.location.Valid()
}

// History returns a copy of the status log, oldest first.
func (inc *Incident) History() []domain.StatusChange { return slices.Clone(inc.history) }

func (inc *Incident) Upvotes() []domain.Upvote { return slices.Clone(inc.upvotes) }

func (inc *Incident) Media() []domain.Media { return slices.Clone(inc.media) }

func (inc *Incident) Assignments() []domain.Assignment { return slices.Clone(inc.assignments) }

// CurrentAssignment is the assignee of the latest assignment, or "".
func (inc *Incident) CurrentAssignment() string {
	if len(inc.assignments) == 0 {
		return ""
	}
	return inc.assignments[len(inc.assignments)-1].AssignedTo
}

func (inc *Incident) HasUpvoted(voterID string, kind domain.ActorKind) bool {
	return inc.upvoteIndex(voterID, kind) >= 0
}

func (inc *Incident) upvoteIndex(voterID string, kind domain.ActorKind) int {
	return slices.IndexFunc(inc.upvotes, func(u domain.Upvote) bool {
		return u.VoterID == voterID && u.VoterKind == kind
	})
}

// AgeInHours is measured from the moment the incident happened.
func (inc *Incident) AgeInHours(now time.Time) float64 {
	return now.Sub(inc.incidentTime).Hours()
}

// ResolutionTime is reported once the incident is resolved or closed.
func (inc *Incident) ResolutionTime() (time.Duration, bool) {
	if inc.resolutionTime == nil || inc.status.Active() {
		return 0, false
	}
	return *inc.resolutionTime, true
}

func (inc *Incident) Document() domain.IncidentDocument {
	return domain.IncidentDocument{
		ID:                inc.id,
		Title:             inc.title,
		Description:       inc.description,
		Category:          inc.category,
		Severity:          inc.severity,
		Location:          inc.location,
		Address:           inc.address,
		Status:            inc.status,
		StatusHistory:     inc.History(),
		Upvotes:           inc.Upvotes(),
		UpvoteCount:       len(inc.upvotes),
		VerificationScore: inc.score,
		Media:             inc.Media(),
		Assignments:       inc.Assignments(),
		CurrentAssignment: inc.CurrentAssignment(),
		ReportedBy:        inc.reportedBy,
		ReportedAt:        inc.reportedAt,
		IncidentTime:      inc.incidentTime,
		VerifiedAt:        clonePtr(inc.verifiedAt),
		AssignedAt:        clonePtr(inc.assignedAt),
		ResolvedAt:        clonePtr(inc.resolvedAt),
		ResolutionTime:    clonePtr(inc.resolutionTime),
		UpdatedAt:         inc.updatedAt,
		Version:           inc.version,
	}
}

// Cached is the projection kept in the active-incident cache.
func (inc *Incident) Cached() domain.CachedIncident {
	return domain.CachedIncident{
		ID:       inc.id,
		Title:    inc.title,
		Category: inc.category,
		Severity: inc.severity,
		Status:   inc.status,
		Location: inc.location,
		Score:    inc.score,
	}
}

// Restore rebuilds an aggregate from its stored document.
// The stored upvote count is ignored; the ledger is the source of truth.
func Restore(doc domain.IncidentDocument) (*Incident, error) {
	const op = "incident.Restore"

	if doc.ID == uuid.Nil {
		return nil, e.Field(op, e.ErrInvalidInput, "id", doc.ID)
	}
	if !doc.Status.Valid() {
		return nil, e.Field(op, e.ErrInvalidStatusValue, "status", doc.Status)
	}
	if err := geo.CheckPoint(doc.Location); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i, h := range doc.StatusHistory {
		if h.Seq != i+1 {
			return nil, e.Field(op, e.ErrInvalidInput, "status_history.seq", h.Seq)
		}
	}

	inc := &Incident{
		id:             doc.ID,
		title:          doc.Title,
		description:    doc.Description,
		category:       doc.Category,
		severity:       doc.Severity,
		location:       doc.Location,
		address:        doc.Address,
		status:         doc.Status,
		history:        slices.Clone(doc.StatusHistory),
		upvotes:        slices.Clone(doc.Upvotes),
		score:          clampScore(doc.VerificationScore),
		media:          slices.Clone(doc.Media),
		assignments:    slices.Clone(doc.Assignments),
		reportedBy:     doc.ReportedBy,
		reportedAt:     doc.ReportedAt,
		incidentTime:   doc.IncidentTime,
		verifiedAt:     clonePtr(doc.VerifiedAt),
		assignedAt:     clonePtr(doc.AssignedAt),
		resolvedAt:     clonePtr(doc.ResolvedAt),
		resolutionTime: clonePtr(doc.ResolutionTime),
		updatedAt:      doc.UpdatedAt,
		version:        doc.Version,
	}
	if inc.incidentTime.IsZero() {
		inc.incidentTime = inc.reportedAt
	}
	return inc, nil
}

// SetVersion is called by stores after a successful conditional save.
func (inc *Incident) SetVersion(v int64) {
	inc.version = v
}

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
