package intake

import (
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

const DateLayout = "2006-01-02"

var strict = bluemonday.StrictPolicy()

// sanitize strips any markup, html/template escapes the rest when rendering
func sanitize(v string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(v)))
}

func option(opts []Option, v string) string {
	if hasOption(opts, v) {
		return v
	}
	return ""
}

func pick(opts []string, values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if hasString(opts, v) && !hasString(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// ApplyStep copies the posted values of the given wizard step into the form
func ApplyStep(f *FormData, step int, v url.Values) {
	switch step {
	case StepCompany:
		applyCompany(f, v)
	case StepRoles:
		applyRoles(f, v)
	case StepBudget:
		applyBudget(f, v)
	}
}

func applyCompany(f *FormData, v url.Values) {
	f.CompanyName = sanitize(v.Get("company_name"))
	f.CompanyWebsite = FormatWebsiteURL(sanitize(v.Get("company_website")))
	f.ContactName = sanitize(v.Get("contact_name"))
	f.WorkEmail = strings.TrimSpace(v.Get("work_email"))
	f.Role = sanitize(v.Get("role"))
	f.CompanySize = option(CompanySizes, v.Get("company_size"))
	f.TimeZoneRegion = option(TimeZoneRegions, v.Get("time_zone_region"))
	f.TimeZoneOverlap = option(TimeZoneOverlaps, v.Get("time_zone_overlap"))
}

func applyRoles(f *FormData, v url.Values) {
	for i := range f.DeveloperRoles {
		role := &f.DeveloperRoles[i]
		role.RoleTitle = option(RoleTitles, v.Get(roleField("role_title", i)))
		role.RequiredTechStack = pick(TechOptions, v[roleField("tech_stack", i)])
		role.NiceToHaveSkills = sanitize(v.Get(roleField("nice_to_have", i)))
		role.SeniorityLevel = option(SeniorityLevels, v.Get(roleField("seniority", i)))
		role.PreferredLanguages = pick(LanguageOptions, v[roleField("languages", i)])
		n, err := strconv.Atoi(strings.TrimSpace(v.Get(roleField("number_of_developers", i))))
		if err != nil {
			n = 1
		}
		role.NumberOfDevelopers = n
	}
	f.HasJobDescription = v.Get("has_job_description") != ""
	f.JobDescription = sanitize(v.Get("job_description"))
}

func applyBudget(f *FormData, v url.Values) {
	f.IsASAP = v.Get("is_asap") != ""
	f.StartDate = nil
	if !f.IsASAP {
		if d, err := time.Parse(DateLayout, strings.TrimSpace(v.Get("start_date"))); err == nil {
			f.StartDate = &d
		}
	}
	f.EstimatedDuration = option(EstimatedDurations, v.Get("estimated_duration"))
	f.WeeklyHours = option(WeeklyHours, v.Get("weekly_hours"))
	f.MonthlyBudget = option(MonthlyBudgets, v.Get("monthly_budget"))
	f.Notes = sanitize(v.Get("notes"))
}

func roleField(name string, i int) string {
	return fmt.Sprintf("%s_%d", name, i)
}
