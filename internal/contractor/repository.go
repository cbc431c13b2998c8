package contractor

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

// HiredContractorsForUser returns the hired developers across all requests owned by userID
func (r *Repository) HiredContractorsForUser(userID string) ([]MatchedDeveloper, error) {
	rows, err := r.db.Query(
		`SELECT m.id, m.request_id, m.role_id, COALESCE(d.role_title, ''), m.developer_name, m.developer_skills,
		m.seniority_level, m.hourly_rate, m.status, m.start_date, m.notes, m.created_at
		FROM matched_developers m
		JOIN company_requests c ON c.id = m.request_id
		LEFT JOIN developer_roles d ON d.id = m.role_id
		WHERE c.user_id = $1 AND m.status = $2
		ORDER BY m.start_date DESC NULLS LAST`, userID, StatusHired)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	devs := make([]MatchedDeveloper, 0)
	for rows.Next() {
		var m MatchedDeveloper
		var seniority, status, notes sql.NullString
		var rate sql.NullInt64
		var startDate sql.NullTime
		err := rows.Scan(
			&m.ID,
			&m.RequestID,
			&m.RoleID,
			&m.RoleTitle,
			&m.DeveloperName,
			pq.Array(&m.DeveloperSkills),
			&seniority,
			&rate,
			&status,
			&startDate,
			&notes,
			&m.CreatedAt,
		)
		if err != nil {
			return devs, err
		}
		m.SeniorityLevel = seniority.String
		m.Status = status.String
		m.Notes = notes.String
		if rate.Valid {
			v := int(rate.Int64)
			m.HourlyRate = &v
		}
		if startDate.Valid {
			sd := startDate.Time
			m.StartDate = &sd
		}
		devs = append(devs, m)
	}
	if err := rows.Err(); err != nil {
		return devs, err
	}
	return devs, nil
}

func (r *Repository) SaveMatchedDeveloper(m MatchedDeveloper) (string, error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Status == "" {
		m.Status = StatusProposed
	}
	t := time.Now().UTC()
	_, err := r.db.Exec(
		`INSERT INTO matched_developers (id, request_id, role_id, developer_name, developer_skills, seniority_level, hourly_rate, status, start_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.ID,
		m.RequestID,
		m.RoleID,
		m.DeveloperName,
		pq.Array(m.DeveloperSkills),
		m.SeniorityLevel,
		m.HourlyRate,
		m.Status,
		m.StartDate,
		m.Notes,
		t,
		t,
	)
	if err != nil {
		return "", errors.Wrap(err, "unable to save matched developer")
	}
	return m.ID, nil
}
