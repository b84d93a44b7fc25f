package enrich

// person is a normalized record parsed from the loosely-shaped people
// entries the directory documents return.
type person struct {
	Name       string
	Role       string
	Email      string
	NetworkURL string
}

// parsePerson accepts the known upstream shapes for a person entry: a bare
// name string, or an object keyed by full_name/name, title/role, email and
// linkedin_url/linkedin. Returns false when no usable name is present.
func parsePerson(v any, defaultRole string) (person, bool) {
	switch t := v.(type) {
	case string:
		if len(t) <= 2 {
			return person{}, false
		}
		return person{Name: t, Role: defaultRole}, true
	case map[string]any:
		name := firstString(t, "full_name", "name")
		if name == "" {
			return person{}, false
		}
		role := firstString(t, "title", "role")
		if role == "" {
			role = defaultRole
		}
		return person{
			Name:       name,
			Role:       role,
			Email:      firstString(t, "email"),
			NetworkURL: firstString(t, "linkedin_url", "linkedin"),
		}, true
	default:
		return person{}, false
	}
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
