//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"emergencyHub/internal/domain"
	"emergencyHub/internal/geo"
	"emergencyHub/internal/incident"
	"emergencyHub/pkg/e"
)

var (
	testPool *pgxpool.Pool
	tc       testcontainers.Container
	logger   = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	user := "postgres"
	pass := "postgres"
	db := "postgres"

	req := testcontainers.ContainerRequest{
		Image:        "postgis/postgis:16-3.4-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": pass,
			"POSTGRES_DB":       db,
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(90 * time.Second),
	}

	var err error
	tc, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Println("cannot start container:", err)
		os.Exit(1)
	}

	host, _ := tc.Host(ctx)
	mappedPort, _ := tc.MappedPort(ctx, "5432/tcp")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, mappedPort.Port(), db)

	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Println("pgxpool.New:", err)
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	if err := testPool.Ping(ctx); err != nil {
		fmt.Println("pool.Ping:", err)
		testPool.Close()
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	if err := Migrate(ctx, testPool, logger); err != nil {
		fmt.Println("Migrate:", err)
		testPool.Close()
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	code := m.Run()

	testPool.Close()
	_ = tc.Terminate(ctx)
	os.Exit(code)
}

func truncate(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), `TRUNCATE TABLE incidents, location_checks`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

var reporter = domain.Actor{ID: "u-1", Kind: domain.ActorGuest}

func newIncident(t *testing.T, en *incident.Engine, lat, lng float64) *incident.Incident {
	t.Helper()
	inc, err := en.Report(incident.NewIncident{
		Title:      "Flooded underpass",
		Category:   domain.CategoryNaturalDisaster,
		Location:   geo.NewPoint(lat, lng),
		ReportedBy: reporter,
	})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	return inc
}

func TestIncidentRepo_CreateGet_RoundTrip(t *testing.T) {
	truncate(t)

	repo := NewIncidentRepo(testPool, logger)
	en := incident.NewEngine()

	inc := newIncident(t, en, 49.281441, -123.055913)
	if _, err := en.AddUpvote(inc, incident.Vote{VoterID: "v1", VoterKind: domain.ActorGuest}); err != nil {
		t.Fatalf("upvote: %v", err)
	}

	if err := repo.Create(context.Background(), inc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if inc.Version() != 1 {
		t.Fatalf("expected version 1, got %d", inc.Version())
	}

	got, err := repo.Get(context.Background(), inc.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Location() != inc.Location() {
		t.Fatalf("lng/lat order lost: got=%v want=%v", got.Location(), inc.Location())
	}
	if got.UpvoteCount() != 1 || got.VerificationScore() != inc.VerificationScore() || len(got.History()) != 1 {
		t.Fatalf("unexpected restored aggregate: %+v", got.Document())
	}

	_, err = repo.Get(context.Background(), uuid.New())
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIncidentRepo_Save_OptimisticVersion(t *testing.T) {
	truncate(t)

	repo := NewIncidentRepo(testPool, logger)
	en := incident.NewEngine()
	ctx := context.Background()

	inc := newIncident(t, en, 10, 20)
	if err := repo.Create(ctx, inc); err != nil {
		t.Fatalf("Create: %v", err)
	}

	first, _ := repo.Get(ctx, inc.ID())
	second, _ := repo.Get(ctx, inc.ID())

	if _, err := en.AddUpvote(first, incident.Vote{VoterID: "a", VoterKind: domain.ActorGuest}); err != nil {
		t.Fatalf("upvote: %v", err)
	}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save first: %v", err)
	}
	if first.Version() != 2 {
		t.Fatalf("expected version 2, got %d", first.Version())
	}

	if _, err := en.AddUpvote(second, incident.Vote{VoterID: "b", VoterKind: domain.ActorGuest}); err != nil {
		t.Fatalf("upvote: %v", err)
	}
	if err := repo.Save(ctx, second); !errors.Is(err, e.ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification, got %v", err)
	}

	stored, _ := repo.Get(ctx, inc.ID())
	if stored.UpvoteCount() != 1 || !stored.HasUpvoted("a", domain.ActorGuest) {
		t.Fatalf("lost update: %+v", stored.Upvotes())
	}

	ghost := newIncident(t, en, 1, 1)
	if err := repo.Save(ctx, ghost); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIncidentRepo_List_FilterAndPagination(t *testing.T) {
	truncate(t)

	repo := NewIncidentRepo(testPool, logger)
	en := incident.NewEngine()
	ctx := context.Background()
	admin := domain.Actor{ID: "admin", Kind: domain.ActorRegistered}

	for i := 0; i < 3; i++ {
		inc := newIncident(t, en, 10+float64(i), 20+float64(i))
		if err := repo.Create(ctx, inc); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	closed := newIncident(t, en, 30, 30)
	if _, err := en.Transition(closed, domain.StatusClosed, admin, "duplicate", ""); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if err := repo.Create(ctx, closed); err != nil {
		t.Fatalf("Create: %v", err)
	}

	page1, total, err := repo.List(ctx, 1, 2, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 4 || len(page1) != 2 {
		t.Fatalf("total=%d len=%d", total, len(page1))
	}

	onlyReported, total, err := repo.List(ctx, 1, 10, domain.StatusReported)
	if err != nil {
		t.Fatalf("List reported: %v", err)
	}
	if total != 3 || len(onlyReported) != 3 {
		t.Fatalf("status filter: total=%d len=%d", total, len(onlyReported))
	}

	active, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 3 {
		t.Fatalf("expected 3 active, got %d", len(active))
	}
}

func TestIncidentRepo_FindNearby(t *testing.T) {
	truncate(t)

	repo := NewIncidentRepo(testPool, logger)
	en := incident.NewEngine()
	ctx := context.Background()

	center := geo.NewPoint(35.1856, 33.3823)
	near := newIncident(t, en, 35.1860, 33.3825)
	mid := newIncident(t, en, 35.1900, 33.3900)
	far := newIncident(t, en, 35.3400, 33.3200)
	for _, inc := range []*incident.Incident{far, mid, near} {
		if err := repo.Create(ctx, inc); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.FindNearby(ctx, center, 2_000, 10, true)
	if err != nil {
		t.Fatalf("FindNearby: %v", err)
	}
	if len(got) != 2 || got[0].ID() != near.ID() || got[1].ID() != mid.ID() {
		ids := make([]string, 0, len(got))
		for _, g := range got {
			ids = append(ids, g.ID().String())
		}
		t.Fatalf("unexpected nearby result: %s", strings.Join(ids, ","))
	}

	_, err = repo.FindNearby(ctx, geo.NewPoint(95, 0), 1000, 10, true)
	if !errors.Is(err, e.ErrInvalidCoordinates) {
		t.Fatalf("expected ErrInvalidCoordinates, got %v", err)
	}
}

func TestStatsRepo_Counts(t *testing.T) {
	truncate(t)

	repo := NewIncidentRepo(testPool, logger)
	stats := NewStats(testPool, logger)
	en := incident.NewEngine()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := repo.Create(ctx, newIncident(t, en, float64(i), float64(i))); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	for _, user := range []string{"a", "a", "b"} {
		if err := stats.SaveCheck(ctx, &domain.LocationCheck{UserID: user, Location: geo.NewPoint(1, 1)}); err != nil {
			t.Fatalf("SaveCheck: %v", err)
		}
	}

	reported, err := stats.CountReported(ctx, 60)
	if err != nil || reported != 2 {
		t.Fatalf("CountReported=%d err=%v", reported, err)
	}
	byStatus, err := stats.CountByStatus(ctx)
	if err != nil || byStatus[domain.StatusReported] != 2 {
		t.Fatalf("CountByStatus=%v err=%v", byStatus, err)
	}
	users, err := stats.CountUniqueUsers(ctx, 60)
	if err != nil || users != 2 {
		t.Fatalf("CountUniqueUsers=%d err=%v", users, err)
	}
	if _, err := stats.CountReported(ctx, 0); !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
