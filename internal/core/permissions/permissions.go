package permissions

import "encoding/json"

// Entity names a protected resource kind.
type Entity string

const (
	EntityReport Entity = "report"
	EntityBill   Entity = "bill"
	EntityUser   Entity = "user"
)

// Action is a permission level from the user's facility/role matrix.
type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
	ActionAdmin Action = "admin"
)

// Capability is one (entity, action) pair.
type Capability struct {
	Entity Entity
	Action Action
}

// CapabilitySet is the flattened set of capabilities a requester holds for
// one facility. It is resolved once per request and checked via Can; handlers
// never walk the nested matrix themselves.
type CapabilitySet map[Capability]struct{}

// Can reports whether the set grants action on entity. Admin implies read
// and write on the same entity.
func (s CapabilitySet) Can(entity Entity, action Action) bool {
	if _, ok := s[Capability{Entity: entity, Action: action}]; ok {
		return true
	}
	if action == ActionRead || action == ActionWrite {
		_, ok := s[Capability{Entity: entity, Action: ActionAdmin}]
		return ok
	}
	return false
}

// Describe expands a capability set into explicit per-entity action lists,
// applying the admin-implies-read-write rule via Can. The result is what
// clients see; handlers hand it out instead of the raw matrix.
func Describe(s CapabilitySet) map[Entity][]Action {
	out := make(map[Entity][]Action, len(grantedEntities))
	for _, entity := range grantedEntities {
		actions := []Action{}
		for _, action := range []Action{ActionRead, ActionWrite, ActionAdmin} {
			if s.Can(entity, action) {
				actions = append(actions, action)
			}
		}
		out[entity] = actions
	}
	return out
}

// RoleGrant is one role's permission list within a facility grant.
type RoleGrant struct {
	Role        string   `json:"role"`
	Permissions []Action `json:"permissions"`
}

// FacilityGrant is one entry of the nested permission matrix stored on the
// user document: facility → roles → permission levels.
type FacilityGrant struct {
	Facility string      `json:"facility"`
	Roles    []RoleGrant `json:"roles"`
}

// Matrix is the typed form of the stored permission matrix:
// facility → role → capability set.
type Matrix map[string]map[string]CapabilitySet

// entities a facility-scoped permission level expands over.
var grantedEntities = []Entity{EntityReport, EntityBill}

// ParseMatrix decodes the raw facilities JSON from a user document into a
// typed matrix. Malformed input yields an empty matrix, never a panic: the
// matrix only ever widens access on top of route-level role gating.
func ParseMatrix(raw []byte) Matrix {
	var grants []FacilityGrant
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &grants)
	}
	return BuildMatrix(grants)
}

// BuildMatrix flattens facility grants into the typed capability table.
func BuildMatrix(grants []FacilityGrant) Matrix {
	m := make(Matrix, len(grants))
	for _, g := range grants {
		if g.Facility == "" {
			continue
		}
		roles, ok := m[g.Facility]
		if !ok {
			roles = make(map[string]CapabilitySet, len(g.Roles))
			m[g.Facility] = roles
		}
		for _, rg := range g.Roles {
			set, ok := roles[rg.Role]
			if !ok {
				set = make(CapabilitySet)
				roles[rg.Role] = set
			}
			for _, action := range rg.Permissions {
				for _, entity := range grantedEntities {
					set[Capability{Entity: entity, Action: action}] = struct{}{}
				}
			}
		}
	}
	return m
}

// Resolve returns the capability set for one facility and role. A missing
// facility or role resolves to the empty set.
func (m Matrix) Resolve(facility, role string) CapabilitySet {
	roles, ok := m[facility]
	if !ok {
		return CapabilitySet{}
	}
	set, ok := roles[role]
	if !ok {
		return CapabilitySet{}
	}
	return set
}
