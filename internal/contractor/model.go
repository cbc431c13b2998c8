package contractor

import "time"

const (
	StatusProposed     = "Proposed"
	StatusInterviewing = "Interviewing"
	StatusHired        = "Hired"
)

// MatchedDeveloper is a developer proposed or placed on a company request
type MatchedDeveloper struct {
	ID              string
	RequestID       string
	RoleID          *string
	RoleTitle       string
	DeveloperName   string
	DeveloperSkills []string
	SeniorityLevel  string
	HourlyRate      *int
	Status          string
	StartDate       *time.Time
	Notes           string
	CreatedAt       time.Time
}
