package gallery

type Role string

const (
	RoleUser   Role = "ROLE_USER"
	RoleArtist Role = "ROLE_ARTIST"
	RoleAdmin  Role = "ROLE_ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleArtist, RoleAdmin:
		return true
	}
	return false
}

// EffectiveRoles keeps the known stored roles in order, drops duplicates and
// always ends with ROLE_USER unless it was already present.
func EffectiveRoles(stored []Role) []Role {
	out := make([]Role, 0, len(stored)+1)
	seen := make(map[Role]bool, len(stored)+1)
	for _, r := range stored {
		if !r.Valid() || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	if !seen[RoleUser] {
		out = append(out, RoleUser)
	}
	return out
}

func HasRole(roles []Role, want Role) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}

func ParseRoles(raw []string) []Role {
	roles := make([]Role, 0, len(raw))
	for _, s := range raw {
		roles = append(roles, Role(s))
	}
	return EffectiveRoles(roles)
}

func RoleStrings(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
