package profile

import (
	"strings"
	"time"
)

type Profile struct {
	ID        string
	UserType  string
	FirstName *string
	LastName  *string
	AvatarURL *string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Email is only populated by listings joined with users
	Email string
}

// DisplayName joins first and last name, falling back to the email
func (p Profile) DisplayName() string {
	var parts []string
	if p.FirstName != nil && *p.FirstName != "" {
		parts = append(parts, *p.FirstName)
	}
	if p.LastName != nil && *p.LastName != "" {
		parts = append(parts, *p.LastName)
	}
	if len(parts) == 0 {
		return p.Email
	}
	return strings.Join(parts, " ")
}

// TypeLabel is the capitalised user type shown in the dashboard header
func (p Profile) TypeLabel() string {
	if p.UserType == "" {
		return ""
	}
	return strings.ToUpper(p.UserType[:1]) + p.UserType[1:]
}
