package user

import "time"

const (
	UserTypeCompany   = "company"
	UserTypeCandidate = "candidate"
	UserTypeAdmin     = "admin"
)

type User struct {
	ID                 string
	Email              string
	CreatedAtHumanised string
	CreatedAt          time.Time
	// Type is the user type requested by the sign on token that created or
	// signed in the user, empty for a plain login
	Type string
}

// IsValidType reports whether t is one of the known user types
func IsValidType(t string) bool {
	switch t {
	case UserTypeCompany, UserTypeCandidate, UserTypeAdmin:
		return true
	}
	return false
}
