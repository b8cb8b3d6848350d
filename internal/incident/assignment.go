package incident

import (
	"strings"

	"emergencyHub/internal/domain"
	"emergencyHub/pkg/e"
)

type AssignInput struct {
	AssignedTo string
	AssignedBy domain.Actor
	Priority   domain.AssignmentPriority
	Notes      string
}

// Assign appends a pending assignment, which becomes current, and moves the
// incident to assigned on behalf of the assigner.
func (en *Engine) Assign(inc *Incident, in AssignInput) (domain.Assignment, error) {
	const op = "incident.Assign"

	assignee := strings.TrimSpace(in.AssignedTo)
	if assignee == "" {
		return domain.Assignment{}, e.Field(op, e.ErrInvalidInput, "assigned_to", in.AssignedTo)
	}
	if err := checkActor(op, in.AssignedBy); err != nil {
		return domain.Assignment{}, err
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityNormal
	}
	if !priority.Valid() {
		return domain.Assignment{}, e.Field(op, e.ErrInvalidInput, "priority", in.Priority)
	}

	a := domain.Assignment{
		ID:         en.newID(),
		AssignedTo: assignee,
		AssignedBy: in.AssignedBy,
		Priority:   priority,
		Notes:      in.Notes,
		Status:     domain.AssignmentPending,
		AssignedAt: en.now(),
	}
	inc.assignments = append(inc.assignments, a)

	if _, err := en.Transition(inc, domain.StatusAssigned, in.AssignedBy, assignedReason, in.Notes); err != nil {
		inc.assignments = inc.assignments[:len(inc.assignments)-1]
		return domain.Assignment{}, err
	}
	return a, nil
}

// RespondToAssignment lets the current assignee accept, decline or complete it.
// Earlier assignments are history and cannot be answered.
func (en *Engine) RespondToAssignment(inc *Incident, actor domain.Actor, status domain.AssignmentStatus) (domain.Assignment, error) {
	const op = "incident.RespondToAssignment"

	if !status.ValidResponse() {
		return domain.Assignment{}, e.Field(op, e.ErrInvalidInput, "status", status)
	}
	if len(inc.assignments) == 0 {
		return domain.Assignment{}, e.Field(op, e.ErrInvalidInput, "assignment", nil)
	}
	cur := &inc.assignments[len(inc.assignments)-1]
	if actor.ID != cur.AssignedTo {
		return domain.Assignment{}, e.Field(op, e.ErrForbidden, "assigned_to", actor.ID)
	}

	now := en.now()
	cur.Status = status
	cur.RespondedAt = &now
	inc.updatedAt = now
	return *cur, nil
}
