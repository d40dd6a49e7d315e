package metadata

import "slices"

// Role is a participant's role in a document.
type Role uint8

const (
	RoleAdministrator Role = iota + 1
	RoleVoter
)

func (r Role) String() string {
	switch r {
	case RoleAdministrator:
		return "Administrator"
	case RoleVoter:
		return "Voter"
	default:
		return "unknown"
	}
}

// Participant is a user referenced by a document's roles.
type Participant struct {
	ID string

	// Email is empty when the document does not list the user.
	Email string
	Roles []Role
}

// Participants returns administrators first, then eligible voters that are
// not administrators. Voting documents have no administrators.
func (d *Document) Participants() []Participant {
	var out []Participant
	if d.variant == VariantFolder {
		for _, id := range d.administrators {
			p := Participant{ID: id, Roles: []Role{RoleAdministrator}}
			if slices.Contains(d.eligibleVoters, id) {
				p.Roles = append(p.Roles, RoleVoter)
			}
			p.Email, _ = d.UserEmail(id)
			out = append(out, p)
		}
	}
	for _, id := range d.eligibleVoters {
		if d.variant == VariantFolder && slices.Contains(d.administrators, id) {
			continue
		}
		p := Participant{ID: id, Roles: []Role{RoleVoter}}
		p.Email, _ = d.UserEmail(id)
		out = append(out, p)
	}
	return out
}
