package incident

import (
	"emergencyHub/internal/domain"
	"emergencyHub/pkg/e"
)

// Transition moves inc to status `to`. Any member status is reachable from any other;
// who may request which move is decided by the caller's permission policy.
// Lifecycle timestamps are stamped only on the first entry into a status.
func (en *Engine) Transition(inc *Incident, to domain.Status, actor domain.Actor, reason, notes string) (domain.StatusChange, error) {
	const op = "incident.Transition"

	if !to.Valid() {
		return domain.StatusChange{}, e.Field(op, e.ErrInvalidStatusValue, "status", to)
	}
	if err := checkActor(op, actor); err != nil {
		return domain.StatusChange{}, err
	}

	now := en.now()
	change := domain.StatusChange{
		Seq:       inc.nextSeq(),
		Status:    to,
		From:      inc.status,
		ChangedBy: actor,
		Reason:    reason,
		Notes:     notes,
		At:        now,
	}
	inc.history = append(inc.history, change)
	inc.status = to

	switch to {
	case domain.StatusVerified:
		stampOnce(&inc.verifiedAt, now)
	case domain.StatusAssigned:
		stampOnce(&inc.assignedAt, now)
	case domain.StatusResolved:
		if inc.resolvedAt == nil {
			stampOnce(&inc.resolvedAt, now)
			rt := max(now.Sub(inc.reportedAt), 0)
			inc.resolutionTime = &rt
		}
	}

	// activity feeds the decay term
	en.recompute(inc, now)
	return change, nil
}

func (inc *Incident) nextSeq() int {
	if len(inc.history) == 0 {
		return 1
	}
	return inc.history[len(inc.history)-1].Seq + 1
}
