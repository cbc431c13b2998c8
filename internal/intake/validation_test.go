package intake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validStep1() FormData {
	return FormData{
		CompanyName:     "Acme",
		CompanyWebsite:  "acme.io",
		ContactName:     "Jane Doe",
		WorkEmail:       "jane@acme.io",
		Role:            "CTO",
		CompanySize:     "11–50",
		TimeZoneRegion:  "Central Europe",
		TimeZoneOverlap: "Partial overlap",
	}
}

func TestFormatWebsiteURL(t *testing.T) {
	assert.Equal(t, "", FormatWebsiteURL(""))
	assert.Equal(t, "", FormatWebsiteURL("   "))
	assert.Equal(t, "https://acme.io", FormatWebsiteURL("acme.io"))
	assert.Equal(t, "http://acme.io", FormatWebsiteURL("http://acme.io"))
	assert.Equal(t, "HTTPS://acme.io", FormatWebsiteURL("HTTPS://acme.io"))
}

func TestValidateStep1(t *testing.T) {
	assert.True(t, ValidateStep1(validStep1()).Valid())

	errs := ValidateStep1(FormData{})
	assert.Equal(t, "Company name is required", errs["companyName"])
	assert.Equal(t, "Company website is required", errs["companyWebsite"])
	assert.Equal(t, "Contact name is required", errs["contactName"])
	assert.Equal(t, "Work email is required", errs["workEmail"])
	assert.Equal(t, "Role/Title is required", errs["role"])
	assert.Equal(t, "Company size is required", errs["companySize"])
	assert.Equal(t, "Time zone region is required", errs["timeZoneRegion"])
	assert.Equal(t, "Time zone overlap preference is required", errs["timeZoneOverlap"])
	assert.Len(t, errs, 8)

	f := validStep1()
	f.CompanyWebsite = "not a website"
	f.WorkEmail = "jane@acme"
	errs = ValidateStep1(f)
	assert.Equal(t, "Please enter a valid website address", errs["companyWebsite"])
	assert.Equal(t, "Please enter a valid email address", errs["workEmail"])
}

func TestValidateStep1AcceptsWebsitePaths(t *testing.T) {
	f := validStep1()
	for _, site := range []string{"https://www.acme.co.uk", "acme.io/about-us", "sub.acme.dev/path?q=1#top"} {
		f.CompanyWebsite = site
		assert.True(t, ValidateStep1(f).Valid(), site)
	}
}

func TestValidateStep2(t *testing.T) {
	f := FormData{DeveloperRoles: []DeveloperRole{
		{RoleTitle: "Backend", RequiredTechStack: []string{"Go"}, SeniorityLevel: "Senior", NumberOfDevelopers: 1},
		{NumberOfDevelopers: 0},
	}}
	errs := ValidateStep2(f)
	assert.Len(t, errs, 4)
	assert.Equal(t, "Role title is required", errs["developerRoles[1].roleTitle"])
	assert.Equal(t, "At least one technology is required", errs["developerRoles[1].requiredTechStack"])
	assert.Equal(t, "Seniority level is required", errs["developerRoles[1].seniorityLevel"])
	assert.Equal(t, "Number of developers must be at least 1", errs["developerRoles[1].numberOfDevelopers"])
}

func TestValidateStep3(t *testing.T) {
	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)

	errs := ValidateStep3(FormData{}, now)
	assert.Equal(t, "Start date is required when not ASAP", errs["startDate"])
	assert.Equal(t, "Estimated duration is required", errs["estimatedDuration"])
	assert.Equal(t, "Weekly hours is required", errs["weeklyHours"])
	assert.Equal(t, "Monthly budget is required", errs["monthlyBudget"])

	f := FormData{IsASAP: true, EstimatedDuration: "Ongoing", WeeklyHours: "40", MonthlyBudget: "$8k+"}
	assert.True(t, ValidateStep3(f, now).Valid())

	yesterday := time.Date(2026, 5, 9, 0, 0, 0, 0, time.UTC)
	f.IsASAP = false
	f.StartDate = &yesterday
	assert.Equal(t, "Start date cannot be in the past", ValidateStep3(f, now)["startDate"])

	today := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	f.StartDate = &today
	assert.True(t, ValidateStep3(f, now).Valid())
}

func TestValidateSubmission(t *testing.T) {
	errs := ValidateSubmission(FormData{WorkEmail: "nope"})
	assert.Equal(t, "Company name is required", errs["companyName"])
	assert.Equal(t, "Contact name is required", errs["contactName"])
	assert.Equal(t, "Please enter a valid email address", errs["workEmail"])
	assert.Equal(t, "At least one developer role is required", errs["developerRoles"])

	f := validStep1()
	f.DeveloperRoles = []DeveloperRole{{RoleTitle: " ", NumberOfDevelopers: 1}}
	errs = ValidateSubmission(f)
	assert.Len(t, errs, 2)
	assert.Contains(t, errs, "developerRoles[0].roleTitle")
	assert.Contains(t, errs, "developerRoles[0].requiredTechStack")
}
