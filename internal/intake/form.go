package intake

import "time"

// DeveloperRole is one role requested in step 2 of the wizard
type DeveloperRole struct {
	ID                 string
	RoleTitle          string
	RequiredTechStack  []string
	NiceToHaveSkills   string
	SeniorityLevel     string
	PreferredLanguages []string
	NumberOfDevelopers int
}

type FormData struct {
	// company and contact
	CompanyName     string
	CompanyWebsite  string
	ContactName     string
	WorkEmail       string
	Role            string
	CompanySize     string
	TimeZoneRegion  string
	TimeZoneOverlap string

	// developer roles
	DeveloperRoles    []DeveloperRole
	HasJobDescription bool
	JobDescription    string

	// budget and timeline
	StartDate         *time.Time
	IsASAP            bool
	EstimatedDuration string
	WeeklyHours       string
	MonthlyBudget     string
	Notes             string
}

// Errors maps a form field to its validation message
type Errors map[string]string

func (e Errors) Valid() bool {
	return len(e) == 0
}

type Option struct {
	Value string
	Label string
}

var CompanySizes = []Option{
	{"1–10", "1–10 employees"},
	{"11–50", "11–50 employees"},
	{"51–200", "51–200 employees"},
	{"200+", "200+ employees"},
}

var TimeZoneRegions = []Option{
	{"US Eastern", "US Eastern (EST/EDT, UTC-5/4)"},
	{"US Central", "US Central (CST/CDT, UTC-6/5)"},
	{"US Mountain", "US Mountain (MST/MDT, UTC-7/6)"},
	{"US Pacific", "US Pacific (PST/PDT, UTC-8/7)"},
	{"UK/Ireland", "UK/Ireland (GMT/BST, UTC+0/1)"},
	{"Central Europe", "Central Europe (CET/CEST, UTC+1/2)"},
	{"Eastern Europe", "Eastern Europe (EET/EEST, UTC+2/3)"},
	{"Other", "Other"},
}

var TimeZoneOverlaps = []Option{
	{"Full overlap", "Full overlap with my time zone"},
	{"Partial overlap", "Partial overlap is sufficient"},
	{"No preference", "No preference"},
}

var RoleTitles = []Option{
	{"Frontend", "Frontend Developer"},
	{"Backend", "Backend Developer"},
	{"Full-stack", "Full-stack Developer"},
	{"Mobile", "Mobile Developer"},
	{"DevOps", "DevOps Engineer"},
	{"AI/ML", "AI/ML Engineer"},
	{"Tech Lead", "Tech Lead"},
	{"Product Engineer", "Product Engineer"},
	{"Other", "Other"},
}

var SeniorityLevels = []Option{
	{"Junior", "Junior"},
	{"Mid", "Mid"},
	{"Senior", "Senior"},
	{"Lead", "Lead"},
}

var EstimatedDurations = []Option{
	{"<1 month", "Less than 1 month"},
	{"1–3 months", "1–3 months"},
	{"3–6 months", "3–6 months"},
	{"Ongoing", "Ongoing"},
}

var WeeklyHours = []Option{
	{"20", "20 hours per week"},
	{"30", "30 hours per week"},
	{"40", "40 hours per week (full-time)"},
}

var MonthlyBudgets = []Option{
	{"<$3k", "Less than $3,000"},
	{"$3k–$5k", "$3,000–$5,000"},
	{"$5k–$8k", "$5,000–$8,000"},
	{"$8k+", "$8,000+"},
}

var TechOptions = []string{
	"React", "Angular", "Vue", "Next.js", "Node.js", "Express", "Nest.js",
	"Python", "Django", "FastAPI", "Ruby", "Ruby on Rails", "PHP", "Laravel",
	"Java", "Spring Boot", "C#", ".NET", "Go", "Rust", "Swift", "Kotlin",
	"TypeScript", "JavaScript", "HTML/CSS", "GraphQL", "REST", "MongoDB",
	"PostgreSQL", "MySQL", "Redis", "AWS", "GCP", "Azure", "Docker", "Kubernetes",
}

var LanguageOptions = []string{
	"English", "Spanish", "French", "German", "Portuguese", "Italian",
	"Dutch", "Russian", "Mandarin", "Japanese", "Korean", "Arabic",
	"Hindi", "Bengali", "Polish", "Ukrainian", "Turkish", "Vietnamese",
}

func hasOption(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}

func hasString(opts []string, v string) bool {
	for _, o := range opts {
		if o == v {
			return true
		}
	}
	return false
}
