package user

// AliasMap resolves login tokens and their configured name variants to users.
// It is built once per import run and handed to the code that needs it.
type AliasMap map[string]User

// NewAliasMap indexes users by token and adds every alias configured for a token.
// Aliases pointing to unknown tokens are ignored.
func NewAliasMap(users []User, aliases map[string][]string) AliasMap {
	m := make(AliasMap, len(users))
	for _, u := range users {
		m[NormalizeToken(u.Token)] = u
	}
	for token, names := range aliases {
		u, ok := m[NormalizeToken(token)]
		if !ok {
			continue
		}
		for _, name := range names {
			alias := NormalizeToken(name)
			if _, taken := m[alias]; taken {
				continue
			}
			m[alias] = u
		}
	}
	return m
}

func (m AliasMap) Resolve(token string) (User, bool) {
	u, ok := m[NormalizeToken(token)]
	return u, ok
}
