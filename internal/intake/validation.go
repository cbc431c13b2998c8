package intake

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	websiteRe    = regexp.MustCompile(`^https?://(?:www\.)?[\w-]+(\.[\w-]+)+(?:[\w.,@?^=%&:/~+#-]*[\w@?^=%&/~+#-])?$`)
	schemePrefix = regexp.MustCompile(`(?i)^https?://`)
)

// FormatWebsiteURL prefixes https:// when no http or https scheme is present
func FormatWebsiteURL(url string) string {
	if strings.TrimSpace(url) == "" {
		return ""
	}
	if !schemePrefix.MatchString(url) {
		return "https://" + url
	}
	return url
}

func IsEmail(v string) bool {
	return emailRe.MatchString(v)
}

func ValidateStep1(f FormData) Errors {
	errs := Errors{}
	if strings.TrimSpace(f.CompanyName) == "" {
		errs["companyName"] = "Company name is required"
	}
	if strings.TrimSpace(f.CompanyWebsite) == "" {
		errs["companyWebsite"] = "Company website is required"
	} else if !websiteRe.MatchString(FormatWebsiteURL(strings.TrimSpace(f.CompanyWebsite))) {
		errs["companyWebsite"] = "Please enter a valid website address"
	}
	if strings.TrimSpace(f.ContactName) == "" {
		errs["contactName"] = "Contact name is required"
	}
	validateWorkEmail(f.WorkEmail, errs)
	if strings.TrimSpace(f.Role) == "" {
		errs["role"] = "Role/Title is required"
	}
	if f.CompanySize == "" {
		errs["companySize"] = "Company size is required"
	}
	if f.TimeZoneRegion == "" {
		errs["timeZoneRegion"] = "Time zone region is required"
	}
	if f.TimeZoneOverlap == "" {
		errs["timeZoneOverlap"] = "Time zone overlap preference is required"
	}
	return errs
}

func ValidateStep2(f FormData) Errors {
	errs := Errors{}
	for i, role := range f.DeveloperRoles {
		if role.RoleTitle == "" {
			errs[roleKey(i, "roleTitle")] = "Role title is required"
		}
		if len(role.RequiredTechStack) == 0 {
			errs[roleKey(i, "requiredTechStack")] = "At least one technology is required"
		}
		if role.SeniorityLevel == "" {
			errs[roleKey(i, "seniorityLevel")] = "Seniority level is required"
		}
		if role.NumberOfDevelopers < 1 {
			errs[roleKey(i, "numberOfDevelopers")] = "Number of developers must be at least 1"
		}
	}
	return errs
}

// ValidateStep3 checks budget and timeline. A start date before the day of now is rejected
func ValidateStep3(f FormData, now time.Time) Errors {
	errs := Errors{}
	if !f.IsASAP {
		if f.StartDate == nil {
			errs["startDate"] = "Start date is required when not ASAP"
		} else {
			y, m, d := now.Date()
			if f.StartDate.Before(time.Date(y, m, d, 0, 0, 0, 0, now.Location())) {
				errs["startDate"] = "Start date cannot be in the past"
			}
		}
	}
	if f.EstimatedDuration == "" {
		errs["estimatedDuration"] = "Estimated duration is required"
	}
	if f.WeeklyHours == "" {
		errs["weeklyHours"] = "Weekly hours is required"
	}
	if f.MonthlyBudget == "" {
		errs["monthlyBudget"] = "Monthly budget is required"
	}
	return errs
}

// ValidateSubmission is the final check run before anything is sent or stored
func ValidateSubmission(f FormData) Errors {
	errs := Errors{}
	if strings.TrimSpace(f.CompanyName) == "" {
		errs["companyName"] = "Company name is required"
	}
	if strings.TrimSpace(f.ContactName) == "" {
		errs["contactName"] = "Contact name is required"
	}
	validateWorkEmail(f.WorkEmail, errs)
	if len(f.DeveloperRoles) == 0 {
		errs["developerRoles"] = "At least one developer role is required"
	}
	for i, role := range f.DeveloperRoles {
		if strings.TrimSpace(role.RoleTitle) == "" {
			errs[roleKey(i, "roleTitle")] = "Role title is required"
		}
		if len(role.RequiredTechStack) == 0 {
			errs[roleKey(i, "requiredTechStack")] = "At least one technology is required"
		}
	}
	return errs
}

func validateWorkEmail(email string, errs Errors) {
	if strings.TrimSpace(email) == "" {
		errs["workEmail"] = "Work email is required"
	} else if !IsEmail(email) {
		errs["workEmail"] = "Please enter a valid email address"
	}
}

func roleKey(i int, field string) string {
	return fmt.Sprintf("developerRoles[%d].%s", i, field)
}
