package incident

import (
	"time"
	"unicode/utf8"

	"emergencyHub/internal/domain"
)

const (
	MinScore = 0
	MaxScore = 100
)

// ScoreConfig holds the weights of the verification score.
// Decay removes Step points for every full Interval an active incident ages past Grace,
// up to MaxPenalty.
type ScoreConfig struct {
	UpvoteWeight int
	UpvoteCap    int
	MediaWeight  int
	MediaCap     int

	DescriptionShort int // runes
	DescriptionLong  int // runes
	DescriptionBonus int // per tier

	RegisteredBonus int

	DecayGrace      time.Duration
	DecayInterval   time.Duration
	DecayStep       int
	DecayMaxPenalty int
}

func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		UpvoteWeight:     5,
		UpvoteCap:        50,
		MediaWeight:      5,
		MediaCap:         20,
		DescriptionShort: 100,
		DescriptionLong:  500,
		DescriptionBonus: 5,
		RegisteredBonus:  10,
		DecayGrace:       24 * time.Hour,
		DecayInterval:    6 * time.Hour,
		DecayStep:        1,
		DecayMaxPenalty:  25,
	}
}

// ScoreInput is the part of an incident the score depends on.
type ScoreInput struct {
	Upvotes           int
	Media             int
	DescriptionLength int
	ReporterKind      domain.ActorKind
	Active            bool
	Age               time.Duration
}

type Scorer struct {
	cfg ScoreConfig
}

func NewScorer(cfg ScoreConfig) Scorer {
	return Scorer{cfg: cfg}
}

// Score is a pure function of in; the result is always within [MinScore, MaxScore].
func (s Scorer) Score(in ScoreInput) int {
	total := min(max(in.Upvotes, 0)*s.cfg.UpvoteWeight, s.cfg.UpvoteCap)
	total += min(max(in.Media, 0)*s.cfg.MediaWeight, s.cfg.MediaCap)

	if in.DescriptionLength > s.cfg.DescriptionShort {
		total += s.cfg.DescriptionBonus
	}
	if in.DescriptionLength > s.cfg.DescriptionLong {
		total += s.cfg.DescriptionBonus
	}
	if in.ReporterKind == domain.ActorRegistered {
		total += s.cfg.RegisteredBonus
	}
	if in.Active {
		total -= s.decay(in.Age)
	}
	return clampScore(total)
}

func (s Scorer) decay(age time.Duration) int {
	if s.cfg.DecayInterval <= 0 || s.cfg.DecayStep <= 0 || age <= s.cfg.DecayGrace {
		return 0
	}
	steps := int((age - s.cfg.DecayGrace) / s.cfg.DecayInterval)
	return min(steps*s.cfg.DecayStep, s.cfg.DecayMaxPenalty)
}

func (inc *Incident) scoreInput(now time.Time) ScoreInput {
	return ScoreInput{
		Upvotes:           len(inc.upvotes),
		Media:             len(inc.media),
		DescriptionLength: utf8.RuneCountInString(inc.description),
		ReporterKind:      inc.reportedBy.Kind,
		Active:            inc.status.Active(),
		Age:               now.Sub(inc.incidentTime),
	}
}

func clampScore(v int) int {
	return min(max(v, MinScore), MaxScore)
}
