// Package policy is the static permission table consulted at the HTTP boundary.
package policy

type Resource string

const (
	ResourceIncident   Resource = "incident"
	ResourceUpvote     Resource = "upvote"
	ResourceAssignment Resource = "assignment"
	ResourceMedia      Resource = "media"
	ResourceStats      Resource = "stats"
)

type Action string

const (
	ActionCreate     Action = "create"
	ActionRead       Action = "read"
	ActionUpdate     Action = "update"
	ActionTransition Action = "transition"
	ActionVote       Action = "vote"
	ActionAssign     Action = "assign"
	ActionRespond    Action = "respond"
	ActionAttach     Action = "attach"
	ActionRecompute  Action = "recompute"
)

type Role string

const (
	RoleGuest    Role = "guest"
	RoleCitizen  Role = "citizen"
	RoleHospital Role = "hospital"
	RoleAdmin    Role = "admin"
)

type key struct {
	resource Resource
	action   Action
}

type roleSet map[Role]struct{}

func roles(rs ...Role) roleSet {
	s := make(roleSet, len(rs))
	for _, r := range rs {
		s[r] = struct{}{}
	}
	return s
}

var everyone = roles(RoleGuest, RoleCitizen, RoleHospital, RoleAdmin)

var table = map[key]roleSet{
	{ResourceIncident, ActionCreate}:     everyone,
	{ResourceIncident, ActionRead}:       everyone,
	{ResourceIncident, ActionUpdate}:     roles(RoleAdmin),
	{ResourceIncident, ActionTransition}: roles(RoleHospital, RoleAdmin),
	{ResourceIncident, ActionRecompute}:  roles(RoleAdmin),
	{ResourceUpvote, ActionVote}:         everyone,
	{ResourceAssignment, ActionAssign}:   roles(RoleAdmin),
	{ResourceAssignment, ActionRespond}:  roles(RoleHospital, RoleAdmin),
	{ResourceMedia, ActionAttach}:        roles(RoleCitizen, RoleHospital, RoleAdmin),
	{ResourceStats, ActionRead}:          roles(RoleAdmin),
}

// Allowed reports whether role may perform action on resource.
// Pairs missing from the table are denied.
func Allowed(resource Resource, action Action, role Role) bool {
	set, ok := table[key{resource, action}]
	if !ok {
		return false
	}
	_, ok = set[role]
	return ok
}

func (r Role) Valid() bool {
	_, ok := everyone[r]
	return ok
}
