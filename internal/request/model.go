package request

import (
	"time"

	"github.com/gosimple/slug"
)

const (
	StatusAwaitingMatch = "Awaiting Match"
	StatusInReview      = "In Review"
	StatusInterviewing  = "Interviewing"
	StatusHired         = "Hired"
)

var Statuses = []string{StatusAwaitingMatch, StatusInReview, StatusInterviewing, StatusHired}

func IsValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

type CompanyRequest struct {
	ID                string
	UserID            *string
	ProfileID         *string
	CompanyName       string
	CompanyWebsite    *string
	CompanySummary    *string
	ContactName       string
	WorkEmail         string
	Role              string
	CompanySize       string
	TimeZoneRegion    string
	TimeZoneOverlap   string
	IsASAP            bool
	StartDate         *time.Time
	EstimatedDuration string
	WeeklyHours       string
	MonthlyBudget     string
	Notes             string
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	DeveloperRoles     []DeveloperRole
	OwnerName          string
	CreatedAtHumanized string
}

type DeveloperRole struct {
	ID                 string
	RequestID          string
	RoleTitle          string
	RequiredTechStack  []string
	NiceToHaveSkills   string
	SeniorityLevel     string
	PreferredLanguages []string
	NumberOfDevelopers int
	JobDescription     *string
	CreatedAt          time.Time
}

// TotalDevelopers sums the developers asked for across all roles
func (r CompanyRequest) TotalDevelopers() int {
	n := 0
	for _, role := range r.DeveloperRoles {
		n += role.NumberOfDevelopers
	}
	return n
}

// Anchor identifies the request on the admin dashboard, e.g. acme-inc-3f2a9c1b
func (r CompanyRequest) Anchor() string {
	id := r.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return slug.Make(r.CompanyName + " " + id)
}
