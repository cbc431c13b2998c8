package request

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const requestColumns = `r.id, r.user_id, r.profile_id, r.company_name, r.company_website, r.company_summary, r.contact_name, r.work_email,
	r.role, r.company_size, r.time_zone_region, r.time_zone_overlap, r.is_asap, r.start_date, r.estimated_duration,
	r.weekly_hours, r.monthly_budget, r.notes, r.status, r.created_at, r.updated_at`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

// SaveRequest stores a company request together with its developer roles
// returns the id of the new request
func (r *Repository) SaveRequest(ctx context.Context, req CompanyRequest, roles []DeveloperRole) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.Status == "" {
		req.Status = StatusAwaitingMatch
	}
	t := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO company_requests (id, user_id, profile_id, company_name, company_website, contact_name, work_email, role, company_size, time_zone_region, time_zone_overlap, is_asap, start_date, estimated_duration, weekly_hours, monthly_budget, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		req.ID,
		req.UserID,
		req.ProfileID,
		req.CompanyName,
		req.CompanyWebsite,
		req.ContactName,
		req.WorkEmail,
		req.Role,
		req.CompanySize,
		req.TimeZoneRegion,
		req.TimeZoneOverlap,
		req.IsASAP,
		req.StartDate,
		req.EstimatedDuration,
		req.WeeklyHours,
		req.MonthlyBudget,
		req.Notes,
		req.Status,
		t,
		t,
	)
	if err != nil {
		return "", errors.Wrap(err, "unable to insert company request")
	}
	for i, role := range roles {
		roleID := uuid.New().String()
		_, err := tx.ExecContext(ctx,
			`INSERT INTO developer_roles (id, request_id, role_title, required_tech_stack, nice_to_have_skills, seniority_level, preferred_languages, number_of_developers, job_description, position, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			roleID,
			req.ID,
			role.RoleTitle,
			pq.Array(role.RequiredTechStack),
			role.NiceToHaveSkills,
			role.SeniorityLevel,
			pq.Array(role.PreferredLanguages),
			role.NumberOfDevelopers,
			role.JobDescription,
			i,
			t,
			t,
		)
		if err != nil {
			return "", errors.Wrap(err, "unable to insert developer role")
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return req.ID, nil
}

// RequestsForUser returns the requests owned by userID, newest first, with their roles
func (r *Repository) RequestsForUser(userID string) ([]CompanyRequest, error) {
	rows, err := r.db.Query(`SELECT `+requestColumns+`, '' FROM company_requests r WHERE r.user_id = $1 ORDER BY r.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	requests, err := scanRequests(rows)
	if err != nil {
		return requests, err
	}
	return requests, r.attachRoles(requests)
}

// AllRequests returns every request, newest first, with roles and the owner's name
func (r *Repository) AllRequests() ([]CompanyRequest, error) {
	rows, err := r.db.Query(`SELECT ` + requestColumns + `, TRIM(COALESCE(p.first_name, '') || ' ' || COALESCE(p.last_name, ''))
		FROM company_requests r
		LEFT JOIN profiles p ON p.id = r.profile_id
		ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, err
	}
	requests, err := scanRequests(rows)
	if err != nil {
		return requests, err
	}
	return requests, r.attachRoles(requests)
}

// ClaimRequestsByEmail assigns requests submitted before sign in to the user
// with the matching work email. Returns how many requests were claimed
func (r *Repository) ClaimRequestsByEmail(userID, email string) (int64, error) {
	res, err := r.db.Exec(
		`UPDATE company_requests
		SET user_id = $1, profile_id = (SELECT id FROM profiles WHERE id = $1), updated_at = NOW()
		WHERE user_id IS NULL AND lower(work_email) = lower($2)`, userID, email)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *Repository) UpdateRequestStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE company_requests SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	return err
}

// RequestsMissingSummary returns requests with a website and no company summary yet
func (r *Repository) RequestsMissingSummary(limit int) ([]CompanyRequest, error) {
	rows, err := r.db.Query(`SELECT `+requestColumns+`, '' FROM company_requests r WHERE r.company_website IS NOT NULL AND r.company_summary IS NULL ORDER BY r.created_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return scanRequests(rows)
}

func (r *Repository) SaveCompanySummary(id, summary string) error {
	_, err := r.db.Exec(`UPDATE company_requests SET company_summary = $1, updated_at = NOW() WHERE id = $2`, summary, id)
	return err
}

func (r *Repository) attachRoles(requests []CompanyRequest) error {
	if len(requests) == 0 {
		return nil
	}
	ids := make([]string, 0, len(requests))
	byID := make(map[string]int, len(requests))
	for i, req := range requests {
		ids = append(ids, req.ID)
		byID[req.ID] = i
	}
	rows, err := r.db.Query(
		`SELECT id, request_id, role_title, required_tech_stack, nice_to_have_skills, seniority_level, preferred_languages, number_of_developers, job_description, created_at
		FROM developer_roles
		WHERE request_id = ANY($1)
		ORDER BY position ASC, created_at ASC`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var role DeveloperRole
		var title, niceToHave, seniority sql.NullString
		var count sql.NullInt64
		err := rows.Scan(
			&role.ID,
			&role.RequestID,
			&title,
			pq.Array(&role.RequiredTechStack),
			&niceToHave,
			&seniority,
			pq.Array(&role.PreferredLanguages),
			&count,
			&role.JobDescription,
			&role.CreatedAt,
		)
		if err != nil {
			return err
		}
		role.RoleTitle = title.String
		role.NiceToHaveSkills = niceToHave.String
		role.SeniorityLevel = seniority.String
		role.NumberOfDevelopers = int(count.Int64)
		if i, ok := byID[role.RequestID]; ok {
			requests[i].DeveloperRoles = append(requests[i].DeveloperRoles, role)
		}
	}
	return rows.Err()
}

func scanRequests(rows *sql.Rows) ([]CompanyRequest, error) {
	defer rows.Close()
	requests := make([]CompanyRequest, 0)
	for rows.Next() {
		var req CompanyRequest
		var role, size, region, overlap, duration, hours, budget, notes sql.NullString
		var isASAP sql.NullBool
		var startDate sql.NullTime
		err := rows.Scan(
			&req.ID,
			&req.UserID,
			&req.ProfileID,
			&req.CompanyName,
			&req.CompanyWebsite,
			&req.CompanySummary,
			&req.ContactName,
			&req.WorkEmail,
			&role,
			&size,
			&region,
			&overlap,
			&isASAP,
			&startDate,
			&duration,
			&hours,
			&budget,
			&notes,
			&req.Status,
			&req.CreatedAt,
			&req.UpdatedAt,
			&req.OwnerName,
		)
		if err != nil {
			return requests, err
		}
		req.Role = role.String
		req.CompanySize = size.String
		req.TimeZoneRegion = region.String
		req.TimeZoneOverlap = overlap.String
		req.IsASAP = isASAP.Bool
		if startDate.Valid {
			sd := startDate.Time
			req.StartDate = &sd
		}
		req.EstimatedDuration = duration.String
		req.WeeklyHours = hours.String
		req.MonthlyBudget = budget.String
		req.Notes = notes.String
		req.OwnerName = strings.TrimSpace(req.OwnerName)
		req.CreatedAtHumanized = humanize.Time(req.CreatedAt.UTC())
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return requests, err
	}
	return requests, nil
}
