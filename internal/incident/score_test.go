package incident_test

import (
	"math/rand"
	"testing"
	"time"

	"emergencyHub/internal/domain"
	"emergencyHub/internal/incident"
)

func TestScorer_Components(t *testing.T) {
	t.Parallel()

	s := incident.NewScorer(incident.DefaultScoreConfig())

	cases := []struct {
		name string
		in   incident.ScoreInput
		want int
	}{
		{"empty", incident.ScoreInput{Active: true}, 0},
		{"upvotes", incident.ScoreInput{Upvotes: 3, Active: true}, 15},
		{"upvotes_capped", incident.ScoreInput{Upvotes: 40, Active: true}, 50},
		{"media_capped", incident.ScoreInput{Media: 9, Active: true}, 20},
		{"description_short_boundary", incident.ScoreInput{DescriptionLength: 100, Active: true}, 0},
		{"description_short", incident.ScoreInput{DescriptionLength: 101, Active: true}, 5},
		{"description_long_boundary", incident.ScoreInput{DescriptionLength: 500, Active: true}, 5},
		{"description_long", incident.ScoreInput{DescriptionLength: 501, Active: true}, 10},
		{"registered", incident.ScoreInput{ReporterKind: domain.ActorRegistered, Active: true}, 10},
		{"everything", incident.ScoreInput{Upvotes: 100, Media: 100, DescriptionLength: 1000, ReporterKind: domain.ActorRegistered, Active: true}, 90},
		{"grace_period", incident.ScoreInput{Upvotes: 4, Active: true, Age: 24 * time.Hour}, 20},
		{"decay_two_steps", incident.ScoreInput{Upvotes: 4, Active: true, Age: 36 * time.Hour}, 18},
		{"decay_floor", incident.ScoreInput{Upvotes: 1, Active: true, Age: 30 * 24 * time.Hour}, 0},
		{"decay_capped", incident.ScoreInput{Upvotes: 10, Media: 4, Active: true, Age: 365 * 24 * time.Hour}, 45},
		{"resolved_no_decay", incident.ScoreInput{Upvotes: 4, Active: false, Age: 365 * 24 * time.Hour}, 20},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			if got := s.Score(c.in); got != c.want {
				t.Fatalf("Score(%+v)=%d want %d", c.in, got, c.want)
			}
		})
	}
}

func TestScorer_BoundsAndMonotonicity(t *testing.T) {
	t.Parallel()

	s := incident.NewScorer(incident.DefaultScoreConfig())
	r := rand.New(rand.NewSource(1))
	kinds := []domain.ActorKind{domain.ActorGuest, domain.ActorRegistered}

	for i := 0; i < 5000; i++ {
		in := incident.ScoreInput{
			Upvotes:           r.Intn(30),
			Media:             r.Intn(30),
			DescriptionLength: r.Intn(6000),
			ReporterKind:      kinds[r.Intn(2)],
			Active:            r.Intn(2) == 0,
			Age:               time.Duration(r.Int63n(int64(60 * 24 * time.Hour))),
		}
		base := s.Score(in)
		if base < incident.MinScore || base > incident.MaxScore {
			t.Fatalf("score %d out of bounds for %+v", base, in)
		}

		more := in
		more.Upvotes++
		if s.Score(more) < base {
			t.Fatalf("extra upvote decreased score for %+v", in)
		}
		more = in
		more.Media++
		if s.Score(more) < base {
			t.Fatalf("extra media decreased score for %+v", in)
		}
		older := in
		older.Age += 6 * time.Hour
		if s.Score(older) > base {
			t.Fatalf("older incident scored higher for %+v", in)
		}
	}
}
