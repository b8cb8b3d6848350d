package incident

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"emergencyHub/internal/domain"
	"emergencyHub/internal/geo"
	"emergencyHub/pkg/e"
)

const (
	DefaultMediaCap = 20

	MaxTitleLength       = 200
	MaxDescriptionLength = 5000

	// reports may be clocked slightly ahead of the server
	maxClockSkew = 5 * time.Minute

	reportedReason = "Incident reported"
	assignedReason = "Incident assigned"
)

// Engine applies every state-changing operation to an Incident.
// It keeps no per-incident state; callers serialize writes to one aggregate.
type Engine struct {
	scorer   Scorer
	mediaCap int
	now      func() time.Time
	newID    func() uuid.UUID
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(en *Engine) { en.now = now }
}

func WithScoreConfig(cfg ScoreConfig) Option {
	return func(en *Engine) { en.scorer = NewScorer(cfg) }
}

func WithMediaCap(n int) Option {
	return func(en *Engine) {
		if n > 0 {
			en.mediaCap = n
		}
	}
}

func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(en *Engine) { en.newID = gen }
}

func NewEngine(opts ...Option) *Engine {
	en := &Engine{
		scorer:   NewScorer(DefaultScoreConfig()),
		mediaCap: DefaultMediaCap,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(en)
	}
	return en
}

func (en *Engine) MediaCap() int { return en.mediaCap }

// NewIncident is everything a reporter supplies.
type NewIncident struct {
	Title        string
	Description  string
	Category     domain.Category
	Severity     domain.Severity
	Location     geo.Point
	Address      string
	IncidentTime *time.Time
	ReportedBy   domain.Actor
}

// Report creates an incident in status reported with the first history entry
// and an initial score.
func (en *Engine) Report(in NewIncident) (*Incident, error) {
	const op = "incident.Report"

	if err := geo.CheckPoint(in.Location); err != nil {
		return nil, err
	}
	if err := checkActor(op, in.ReportedBy); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if err := checkTitle(op, title); err != nil {
		return nil, err
	}
	if err := checkDescription(op, in.Description); err != nil {
		return nil, err
	}
	if !in.Category.Valid() {
		return nil, e.Field(op, e.ErrInvalidInput, "category", in.Category)
	}
	severity := in.Severity
	if severity == "" {
		severity = domain.DefaultSeverity
	}
	if !severity.Valid() {
		return nil, e.Field(op, e.ErrInvalidInput, "severity", in.Severity)
	}

	now := en.now()
	incidentTime := now
	if in.IncidentTime != nil && !in.IncidentTime.IsZero() {
		if in.IncidentTime.After(now.Add(maxClockSkew)) {
			return nil, e.Field(op, e.ErrInvalidInput, "incident_time", in.IncidentTime)
		}
		incidentTime = in.IncidentTime.UTC()
		if incidentTime.After(now) {
			incidentTime = now
		}
	}

	inc := &Incident{
		id:           en.newID(),
		title:        title,
		description:  in.Description,
		category:     in.Category,
		severity:     severity,
		location:     in.Location,
		address:      in.Address,
		status:       domain.StatusReported,
		history:      []domain.StatusChange{},
		upvotes:      []domain.Upvote{},
		media:        []domain.Media{},
		assignments:  []domain.Assignment{},
		reportedBy:   in.ReportedBy,
		reportedAt:   now,
		incidentTime: incidentTime,
		updatedAt:    now,
	}
	inc.history = append(inc.history, domain.StatusChange{
		Seq:       1,
		Status:    domain.StatusReported,
		ChangedBy: in.ReportedBy,
		Reason:    reportedReason,
		At:        now,
	})
	inc.score = en.scorer.Score(inc.scoreInput(now))
	return inc, nil
}

// Recompute refreshes the score from the current ledgers and clock and returns it.
func (en *Engine) Recompute(inc *Incident) int {
	return en.recompute(inc, en.now())
}

func (en *Engine) recompute(inc *Incident, now time.Time) int {
	inc.score = en.scorer.Score(inc.scoreInput(now))
	inc.updatedAt = now
	return inc.score
}

// Details is a partial update of the descriptive fields; nil leaves a field unchanged.
type Details struct {
	Title       *string
	Description *string
	Category    *domain.Category
	Severity    *domain.Severity
}

// UpdateDetails validates every supplied field before applying any of them.
func (en *Engine) UpdateDetails(inc *Incident, d Details) error {
	const op = "incident.UpdateDetails"

	var title string
	if d.Title != nil {
		title = strings.TrimSpace(*d.Title)
		if err := checkTitle(op, title); err != nil {
			return err
		}
	}
	if d.Description != nil {
		if err := checkDescription(op, *d.Description); err != nil {
			return err
		}
	}
	if d.Category != nil && !d.Category.Valid() {
		return e.Field(op, e.ErrInvalidInput, "category", *d.Category)
	}
	if d.Severity != nil && !d.Severity.Valid() {
		return e.Field(op, e.ErrInvalidInput, "severity", *d.Severity)
	}

	if d.Title != nil {
		inc.title = title
	}
	if d.Description != nil {
		inc.description = *d.Description
	}
	if d.Category != nil {
		inc.category = *d.Category
	}
	if d.Severity != nil {
		inc.severity = *d.Severity
	}
	en.recompute(inc, en.now())
	return nil
}

func checkTitle(op, title string) error {
	if n := utf8.RuneCountInString(title); n < 1 || n > MaxTitleLength {
		return e.Field(op, e.ErrInvalidInput, "title", n)
	}
	return nil
}

func checkDescription(op, description string) error {
	if n := utf8.RuneCountInString(description); n > MaxDescriptionLength {
		return e.Field(op, e.ErrInvalidInput, "description", n)
	}
	return nil
}

func checkActor(op string, a domain.Actor) error {
	if strings.TrimSpace(a.ID) == "" {
		return e.Field(op, e.ErrInvalidInput, "actor.id", a.ID)
	}
	if !a.Kind.Valid() {
		return e.Field(op, e.ErrInvalidInput, "actor.kind", a.Kind)
	}
	return nil
}
