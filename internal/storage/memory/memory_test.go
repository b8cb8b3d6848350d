package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"emergencyHub/internal/domain"
	"emergencyHub/internal/geo"
	"emergencyHub/internal/incident"
	"emergencyHub/internal/storage/memory"
	"emergencyHub/pkg/e"
)

var reporter = domain.Actor{ID: "u-1", Kind: domain.ActorGuest}

func newIncident(t *testing.T, en *incident.Engine, lat, lng float64) *incident.Incident {
	t.Helper()
	inc, err := en.Report(incident.NewIncident{
		Title:      "Gas leak",
		Category:   domain.CategoryOther,
		Location:   geo.NewPoint(lat, lng),
		ReportedBy: reporter,
	})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	return inc
}

func TestStore_SaveIsConditional(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := memory.New()
	en := incident.NewEngine()

	inc := newIncident(t, en, 1, 1)
	if err := st.Create(ctx, inc); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.Create(ctx, inc); !errors.Is(err, e.ErrUniqueViolation) {
		t.Fatalf("expected unique violation, got %v", err)
	}

	a, _ := st.Get(ctx, inc.ID())
	b, _ := st.Get(ctx, inc.ID())

	if _, err := en.AddUpvote(a, incident.Vote{VoterID: "x", VoterKind: domain.ActorGuest}); err != nil {
		t.Fatalf("upvote: %v", err)
	}
	if err := st.Save(ctx, a); err != nil {
		t.Fatalf("save a: %v", err)
	}
	if _, err := en.AddUpvote(b, incident.Vote{VoterID: "y", VoterKind: domain.ActorGuest}); err != nil {
		t.Fatalf("upvote: %v", err)
	}
	if err := st.Save(ctx, b); !errors.Is(err, e.ErrConcurrentModification) {
		t.Fatalf("expected concurrent modification, got %v", err)
	}

	if _, err := st.Get(ctx, uuid.New()); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStore_GetReturnsIndependentCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := memory.New()
	en := incident.NewEngine()

	inc := newIncident(t, en, 1, 1)
	if err := st.Create(ctx, inc); err != nil {
		t.Fatalf("create: %v", err)
	}

	loaded, _ := st.Get(ctx, inc.ID())
	if _, err := en.AddUpvote(loaded, incident.Vote{VoterID: "x", VoterKind: domain.ActorGuest}); err != nil {
		t.Fatalf("upvote: %v", err)
	}

	again, _ := st.Get(ctx, inc.ID())
	if again.UpvoteCount() != 0 {
		t.Fatalf("unsaved change leaked into the store")
	}
}

func TestStore_FindNearbyAndList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := memory.New()
	en := incident.NewEngine()
	admin := domain.Actor{ID: "admin", Kind: domain.ActorRegistered}

	near := newIncident(t, en, 35.1860, 33.3825)
	mid := newIncident(t, en, 35.1900, 33.3900)
	resolved := newIncident(t, en, 35.1857, 33.3824)
	if _, err := en.Transition(resolved, domain.StatusResolved, admin, "done", ""); err != nil {
		t.Fatalf("transition: %v", err)
	}
	far := newIncident(t, en, 35.34, 33.32)
	for _, inc := range []*incident.Incident{near, mid, resolved, far} {
		if err := st.Create(ctx, inc); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	center := geo.NewPoint(35.1856, 33.3823)
	got, err := st.FindNearby(ctx, center, 2_000, 10, true)
	if err != nil {
		t.Fatalf("nearby: %v", err)
	}
	if len(got) != 2 || got[0].ID() != near.ID() || got[1].ID() != mid.ID() {
		t.Fatalf("unexpected active nearby result (%d items)", len(got))
	}

	all, err := st.FindNearby(ctx, center, 2_000, 1, false)
	if err != nil || len(all) != 1 || all[0].ID() != resolved.ID() {
		t.Fatalf("limit or activeOnly ignored: %v", err)
	}

	if _, err := st.FindNearby(ctx, geo.NewPoint(0, 181), 100, 10, true); !errors.Is(err, e.ErrInvalidCoordinates) {
		t.Fatalf("expected invalid coordinates, got %v", err)
	}

	page, total, err := st.List(ctx, 2, 3, "")
	if err != nil || total != 4 || len(page) != 1 {
		t.Fatalf("list page 2: total=%d len=%d err=%v", total, len(page), err)
	}
	active, _ := st.ListActive(ctx)
	if len(active) != 3 {
		t.Fatalf("expected 3 active, got %d", len(active))
	}
	byStatus, _ := st.CountByStatus(ctx)
	if byStatus[domain.StatusResolved] != 1 || byStatus[domain.StatusReported] != 3 {
		t.Fatalf("unexpected counts: %v", byStatus)
	}
}

func TestStore_Checks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := memory.New()

	for _, user := range []string{"a", "b", "a"} {
		if err := st.SaveCheck(ctx, &domain.LocationCheck{UserID: user, Location: geo.NewPoint(1, 1)}); err != nil {
			t.Fatalf("save check: %v", err)
		}
	}
	n, err := st.CountUniqueUsers(ctx, 60)
	if err != nil || n != 2 {
		t.Fatalf("unique users=%d err=%v", n, err)
	}
	if err := st.SaveCheck(ctx, &domain.LocationCheck{}); !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
