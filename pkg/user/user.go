package user

import "strings"

type User struct {
	Id      int
	TogglId *int64
	Name    string
	// Token is the lower-cased login name used to match calendar entries and config sections.
	Token  string
	Active bool
	// Overtime is the working time balance in hours.
	Overtime float64
}

func NormalizeToken(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}
