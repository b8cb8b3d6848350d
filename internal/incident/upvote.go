package incident

import (
	"fmt"
	"strings"

	"emergencyHub/internal/domain"
	"emergencyHub/internal/geo"
	"emergencyHub/pkg/e"
)

type Vote struct {
	VoterID   string
	VoterKind domain.ActorKind
	IPAddress string
	UserAgent string
	Location  *geo.Point
}

// AddUpvote records one vote per (voter id, voter kind) and recomputes the score.
func (en *Engine) AddUpvote(inc *Incident, v Vote) (int, error) {
	const op = "incident.AddUpvote"

	if strings.TrimSpace(v.VoterID) == "" {
		return inc.score, e.Field(op, e.ErrInvalidInput, "voter_id", v.VoterID)
	}
	if !v.VoterKind.Valid() {
		return inc.score, e.Field(op, e.ErrInvalidInput, "voter_kind", v.VoterKind)
	}
	if v.Location != nil {
		if err := geo.CheckPoint(*v.Location); err != nil {
			return inc.score, fmt.Errorf("%s: %w", op, err)
		}
	}
	if inc.HasUpvoted(v.VoterID, v.VoterKind) {
		return inc.score, e.Field(op, e.ErrDuplicateVote, "voter_id", v.VoterID)
	}

	now := en.now()
	var loc *geo.Point
	if v.Location != nil {
		p := *v.Location
		loc = &p
	}
	inc.upvotes = append(inc.upvotes, domain.Upvote{
		VoterID:   v.VoterID,
		VoterKind: v.VoterKind,
		At:        now,
		IPAddress: v.IPAddress,
		UserAgent: v.UserAgent,
		Location:  loc,
	})
	return en.recompute(inc, now), nil
}

// RemoveUpvote withdraws a vote; the voter may vote again afterwards.
func (en *Engine) RemoveUpvote(inc *Incident, voterID string, kind domain.ActorKind) (int, error) {
	const op = "incident.RemoveUpvote"

	i := inc.upvoteIndex(voterID, kind)
	if i < 0 {
		return inc.score, e.Field(op, e.ErrVoteNotFound, "voter_id", voterID)
	}
	inc.upvotes = append(inc.upvotes[:i:i], inc.upvotes[i+1:]...)
	return en.recompute(inc, en.now()), nil
}
