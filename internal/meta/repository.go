package meta

import (
	"database/sql"
	"time"
)

const (
	KeyLastSignOnTokenCleanup = "last_sign_on_token_cleanup"
	KeyLastCompanyEnrichment  = "last_company_enrichment"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

func (r *Repository) GetValue(key string) (string, error) {
	res := r.db.QueryRow(`SELECT value FROM meta WHERE key = $1`, key)
	var val string
	err := res.Scan(&val)
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *Repository) SetValue(key, val string) error {
	_, err := r.db.Exec(`INSERT INTO meta (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, val)
	return err
}

// Touch records now as the last run time of the task stored under key
func (r *Repository) Touch(key string) error {
	return r.SetValue(key, time.Now().UTC().Format(time.RFC3339))
}

// LastRun returns when the task stored under key last ran, zero time if never
func (r *Repository) LastRun(key string) (time.Time, error) {
	val, err := r.GetValue(key)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, val)
}
