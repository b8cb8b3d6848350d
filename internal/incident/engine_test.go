package incident_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"emergencyHub/internal/domain"
	"emergencyHub/internal/geo"
	"emergencyHub/internal/incident"
	"emergencyHub/pkg/e"
)

// --- helpers ---

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newEngine(t *testing.T) (*incident.Engine, *fakeClock) {
	t.Helper()
	clk := &fakeClock{now: time.Date(2025, 12, 23, 12, 0, 0, 0, time.UTC)}
	return incident.NewEngine(incident.WithClock(clk.Now)), clk
}

var (
	guest = domain.Actor{ID: "guest-1", Kind: domain.ActorGuest}
	admin = domain.Actor{ID: "admin-1", Kind: domain.ActorRegistered, Role: "admin"}
)

func report(t *testing.T, en *incident.Engine, by domain.Actor, description string) *incident.Incident {
	t.Helper()
	inc, err := en.Report(incident.NewIncident{
		Title:       "Car crash on the coastal road",
		Description: description,
		Category:    domain.CategoryAccident,
		Location:    geo.NewPoint(35.1856, 33.3823),
		ReportedBy:  by,
	})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	return inc
}

func media(i int) incident.MediaInput {
	return incident.MediaInput{
		URL:        "https://media.example.com/" + strings.Repeat("x", i+1) + ".jpg",
		Kind:       domain.MediaImage,
		MimeType:   "image/jpeg",
		Size:       1024,
		UploadedBy: guest,
	}
}

// --- Report ---

func TestEngine_Report_Defaults(t *testing.T) {
	t.Parallel()

	en, clk := newEngine(t)
	inc := report(t, en, guest, strings.Repeat("a", 50))

	if inc.Status() != domain.StatusReported {
		t.Fatalf("status=%q", inc.Status())
	}
	if inc.Severity() != domain.SeverityMedium {
		t.Fatalf("default severity=%q", inc.Severity())
	}
	if inc.VerificationScore() != 0 || inc.UpvoteCount() != 0 || inc.MediaCount() != 0 {
		t.Fatalf("unexpected initial state: score=%d upvotes=%d media=%d",
			inc.VerificationScore(), inc.UpvoteCount(), inc.MediaCount())
	}
	if !inc.IncidentTime().Equal(clk.Now()) || !inc.ReportedAt().Equal(clk.Now()) {
		t.Fatalf("incident time should default to report time")
	}
	h := inc.History()
	if len(h) != 1 || h[0].Seq != 1 || h[0].Status != domain.StatusReported {
		t.Fatalf("unexpected history: %+v", h)
	}
	if inc.CurrentAssignment() != "" {
		t.Fatalf("expected no current assignment")
	}
}

func TestEngine_Report_Invalid(t *testing.T) {
	t.Parallel()

	en, _ := newEngine(t)
	valid := incident.NewIncident{
		Title:      "Fire",
		Category:   domain.CategoryFire,
		Location:   geo.NewPoint(10, 10),
		ReportedBy: guest,
	}

	cases := []struct {
		name   string
		mutate func(*incident.NewIncident)
		want   error
	}{
		{"bad_lat", func(n *incident.NewIncident) { n.Location = geo.NewPoint(91, 0) }, e.ErrInvalidCoordinates},
		{"bad_lng", func(n *incident.NewIncident) { n.Location = geo.NewPoint(0, -181) }, e.ErrInvalidCoordinates},
		{"empty_title", func(n *incident.NewIncident) { n.Title = "  " }, e.ErrInvalidInput},
		{"long_title", func(n *incident.NewIncident) { n.Title = strings.Repeat("t", 201) }, e.ErrInvalidInput},
		{"long_description", func(n *incident.NewIncident) { n.Description = strings.Repeat("d", 5001) }, e.ErrInvalidInput},
		{"bad_category", func(n *incident.NewIncident) { n.Category = "alien" }, e.ErrInvalidInput},
		{"bad_severity", func(n *incident.NewIncident) { n.Severity = "apocalyptic" }, e.ErrInvalidInput},
		{"anonymous", func(n *incident.NewIncident) { n.ReportedBy = domain.Actor{} }, e.ErrInvalidInput},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			in := valid
			c.mutate(&in)
			if _, err := en.Report(in); !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

// --- Score scenario ---

func TestEngine_ScoreScenario(t *testing.T) {
	t.Parallel()

	en, _ := newEngine(t)
	inc := report(t, en, guest, strings.Repeat("a", 50))
	if got := inc.VerificationScore(); got != 0 {
		t.Fatalf("initial score=%d want 0", got)
	}

	for i := 0; i < 3; i++ {
		if _, err := en.AddUpvote(inc, incident.Vote{VoterID: string(rune('a' + i)), VoterKind: domain.ActorRegistered}); err != nil {
			t.Fatalf("upvote %d: %v", i, err)
		}
	}
	if got := inc.VerificationScore(); got != 15 {
		t.Fatalf("after 3 upvotes score=%d want 15", got)
	}

	for i := 0; i < 2; i++ {
		if _, err := en.AttachMedia(inc, media(i)); err != nil {
			t.Fatalf("media %d: %v", i, err)
		}
	}
	if got := inc.VerificationScore(); got != 25 {
		t.Fatalf("after 2 media score=%d want 25", got)
	}

	long := strings.Repeat("b", 600)
	if err := en.UpdateDetails(inc, incident.Details{Description: &long}); err != nil {
		t.Fatalf("update details: %v", err)
	}
	if got := inc.VerificationScore(); got != 35 {
		t.Fatalf("after 600-char description score=%d want 35", got)
	}
}

func TestEngine_RegisteredReporterBonus(t *testing.T) {
	t.Parallel()

	en, _ := newEngine(t)
	inc := report(t, en, admin, "")
	if got := inc.VerificationScore(); got != 10 {
		t.Fatalf("score=%d want 10", got)
	}
}

// --- Upvotes ---

func TestEngine_Upvotes(t *testing.T) {
	t.Parallel()

	en, _ := newEngine(t)
	inc := report(t, en, guest, "")
	vote := incident.Vote{VoterID: "u1", VoterKind: domain.ActorGuest, IPAddress: "10.0.0.1", UserAgent: "curl"}

	if _, err := en.AddUpvote(inc, vote); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	if _, err := en.AddUpvote(inc, vote); !errors.Is(err, e.ErrDuplicateVote) {
		t.Fatalf("expected duplicate vote, got %v", err)
	}
	if inc.UpvoteCount() != 1 || len(inc.Upvotes()) != 1 {
		t.Fatalf("count=%d ledger=%d", inc.UpvoteCount(), len(inc.Upvotes()))
	}

	// same id, different kind is a different voter
	if _, err := en.AddUpvote(inc, incident.Vote{VoterID: "u1", VoterKind: domain.ActorRegistered}); err != nil {
		t.Fatalf("registered vote: %v", err)
	}
	if inc.UpvoteCount() != 2 {
		t.Fatalf("count=%d want 2", inc.UpvoteCount())
	}

	if _, err := en.RemoveUpvote(inc, "nobody", domain.ActorGuest); !errors.Is(err, e.ErrVoteNotFound) {
		t.Fatalf("expected vote not found, got %v", err)
	}
	score, err := en.RemoveUpvote(inc, "u1", domain.ActorGuest)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if score != 5 || inc.UpvoteCount() != 1 || inc.HasUpvoted("u1", domain.ActorGuest) {
		t.Fatalf("after remove: score=%d count=%d", score, inc.UpvoteCount())
	}

	// removing and re-adding is allowed
	if _, err := en.AddUpvote(inc, vote); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if inc.UpvoteCount() != len(inc.Upvotes()) {
		t.Fatalf("count drifted from ledger")
	}
}

func TestEngine_Upvote_InvalidLocation(t *testing.T) {
	t.Parallel()

	en, _ := newEngine(t)
	inc := report(t, en, guest, "")
	bad := geo.NewPoint(0, 200)

	_, err := en.AddUpvote(inc, incident.Vote{VoterID: "u1", VoterKind: domain.ActorGuest, Location: &bad})
	if !errors.Is(err, e.ErrInvalidCoordinates) {
		t.Fatalf("expected invalid coordinates, got %v", err)
	}
	if inc.UpvoteCount() != 0 {
		t.Fatalf("rejected vote must not be recorded")
	}
}

// --- Status machine ---

func TestEngine_Transition_Resolved(t *testing.T) {
	t.Parallel()

	en, clk := newEngine(t)
	inc := report(t, en, guest, "")
	clk.Advance(90 * time.Minute)

	if _, err := en.Transition(inc, domain.StatusResolved, admin, "fixed", ""); err != nil {
		t.Fatalf("transition: %v", err)
	}
	resolvedAt, ok := inc.ResolvedAt()
	if !ok || !resolvedAt.Equal(clk.Now()) {
		t.Fatalf("resolvedAt=%v ok=%v", resolvedAt, ok)
	}
	rt, ok := inc.ResolutionTime()
	if !ok || rt != 90*time.Minute {
		t.Fatalf("resolution time=%v ok=%v", rt, ok)
	}
	if inc.IsActive() {
		t.Fatalf("resolved incident must not be active")
	}

	clk.Advance(time.Hour)
	if _, err := en.Transition(inc, domain.StatusResolved, admin, "again", ""); err != nil {
		t.Fatalf("second transition: %v", err)
	}
	again, _ := inc.ResolvedAt()
	if !again.Equal(resolvedAt) {
		t.Fatalf("resolvedAt re-stamped: %v -> %v", resolvedAt, again)
	}
	if len(inc.History()) != 3 {
		t.Fatalf("every transition is recorded, got %d entries", len(inc.History()))
	}
}

func TestEngine_Transition_InvalidStatus(t *testing.T) {
	t.Parallel()

	en, _ := newEngine(t)
	inc := report(t, en, guest, "")

	_, err := en.Transition(inc, "archived", admin, "", "")
	if !errors.Is(err, e.ErrInvalidStatusValue) {
		t.Fatalf("expected invalid status, got %v", err)
	}
	if inc.Status() != domain.StatusReported || len(inc.History()) != 1 {
		t.Fatalf("rejected transition changed state")
	}
}

func TestEngine_Transition_HistoryIsAppendOnly(t *testing.T) {
	t.Parallel()

	en, _ := newEngine(t)
	inc := report(t, en, guest, "")

	path := []domain.Status{
		domain.StatusVerified, domain.StatusInProgress, domain.StatusReported,
		domain.StatusVerified, domain.StatusClosed,
	}
	for _, s := range path {
		if _, err := en.Transition(inc, s, admin, "", ""); err != nil {
			t.Fatalf("transition to %s: %v", s, err)
		}
	}

	h := inc.History()
	if len(h) != len(path)+1 {
		t.Fatalf("history len=%d", len(h))
	}
	for i, entry := range h {
		if entry.Seq != i+1 {
			t.Fatalf("entry %d has seq %d", i, entry.Seq)
		}
		if i > 0 && entry.From != h[i-1].Status {
			t.Fatalf("entry %d from=%q, previous status %q", i, entry.From, h[i-1].Status)
		}
	}

	// mutating the copy leaves the aggregate alone
	h[0].Reason = "tampered"
	if inc.History()[0].Reason == "tampered" {
		t.Fatalf("history accessor leaked internal slice")
	}
	if _, ok := inc.ResolutionTime(); ok {
		t.Fatalf("closed without resolving has no resolution time")
	}
}

// --- Assignments ---

func TestEngine_Assign(t *testing.T) {
	t.Parallel()

	en, _ := newEngine(t)
	inc := report(t, en, guest, "")

	a, err := en.Assign(inc, incident.AssignInput{AssignedTo: "hospital-7", AssignedBy: admin, Notes: "closest unit"})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if a.Status != domain.AssignmentPending || a.Priority != domain.PriorityNormal {
		t.Fatalf("unexpected assignment: %+v", a)
	}
	if inc.Status() != domain.StatusAssigned || inc.CurrentAssignment() != "hospital-7" {
		t.Fatalf("status=%q current=%q", inc.Status(), inc.CurrentAssignment())
	}
	last := inc.History()[len(inc.History())-1]
	if last.Reason != "Incident assigned" || last.ChangedBy != admin {
		t.Fatalf("unexpected history entry: %+v", last)
	}
	firstAssigned, _ := inc.AssignedAt()

	if _, err := en.Assign(inc, incident.AssignInput{AssignedTo: "hospital-9", AssignedBy: admin, Priority: domain.PriorityUrgent}); err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if inc.CurrentAssignment() != "hospital-9" || len(inc.Assignments()) != 2 {
		t.Fatalf("reassignment not current")
	}
	if again, _ := inc.AssignedAt(); !again.Equal(firstAssigned) {
		t.Fatalf("assignedAt re-stamped")
	}

	if _, err := en.RespondToAssignment(inc, domain.Actor{ID: "hospital-7", Kind: domain.ActorRegistered}, domain.AssignmentAccepted); !errors.Is(err, e.ErrForbidden) {
		t.Fatalf("previous assignee must not answer, got %v", err)
	}
	got, err := en.RespondToAssignment(inc, domain.Actor{ID: "hospital-9", Kind: domain.ActorRegistered}, domain.AssignmentAccepted)
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if got.Status != domain.AssignmentAccepted || got.RespondedAt == nil {
		t.Fatalf("unexpected response: %+v", got)
	}
	if _, err := en.RespondToAssignment(inc, domain.Actor{ID: "hospital-9", Kind: domain.ActorRegistered}, domain.AssignmentPending); !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("pending is not a response, got %v", err)
	}
}

// --- Media ---

func TestEngine_AttachMedia_Cap(t *testing.T) {
	t.Parallel()

	en, _ := newEngine(t)
	inc := report(t, en, guest, "")

	for i := 0; i < incident.DefaultMediaCap; i++ {
		if _, err := en.AttachMedia(inc, media(i)); err != nil {
			t.Fatalf("media %d: %v", i, err)
		}
	}

	_, err := en.AttachMedia(inc, media(99))
	if !errors.Is(err, e.ErrMediaLimitExceeded) {
		t.Fatalf("expected media limit, got %v", err)
	}
	d, ok := e.Details(err)
	if !ok || *d.Limit != 20 || *d.Current != 20 {
		t.Fatalf("missing limit details: %+v", d)
	}
	if inc.MediaCount() != 20 {
		t.Fatalf("media count=%d want 20", inc.MediaCount())
	}
	if inc.VerificationScore() != 20 {
		t.Fatalf("media contribution must cap at 20, got %d", inc.VerificationScore())
	}
}

func TestEngine_AttachMedia_Invalid(t *testing.T) {
	t.Parallel()

	en, _ := newEngine(t)
	inc := report(t, en, guest, "")

	bad := media(0)
	bad.URL = "not a url"
	if _, err := en.AttachMedia(inc, bad); !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	bad = media(0)
	bad.Size = -1
	if _, err := en.AttachMedia(inc, bad); !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if inc.MediaCount() != 0 {
		t.Fatalf("rejected media recorded")
	}
}

// --- Document round trip ---

func TestRestore_RecountsUpvotes(t *testing.T) {
	t.Parallel()

	en, _ := newEngine(t)
	inc := report(t, en, guest, "")
	if _, err := en.AddUpvote(inc, incident.Vote{VoterID: "u1", VoterKind: domain.ActorGuest}); err != nil {
		t.Fatalf("upvote: %v", err)
	}

	doc := inc.Document()
	doc.UpvoteCount = 42

	back, err := incident.Restore(doc)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if back.UpvoteCount() != 1 {
		t.Fatalf("upvote count must come from the ledger, got %d", back.UpvoteCount())
	}
	if back.VerificationScore() != inc.VerificationScore() || back.Status() != inc.Status() {
		t.Fatalf("restore mismatch")
	}

	doc.Status = "unknown"
	if _, err := incident.Restore(doc); !errors.Is(err, e.ErrInvalidStatusValue) {
		t.Fatalf("expected invalid status, got %v", err)
	}
}
