package profile

import (
	"database/sql"
	"errors"
	"time"
)

var ErrProfileNotFound = errors.New("profile not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

func (r *Repository) GetProfile(id string) (Profile, error) {
	p := Profile{}
	row := r.db.QueryRow(`SELECT id, user_type, first_name, last_name, avatar_url, created_at, updated_at FROM profiles WHERE id = $1`, id)
	err := row.Scan(&p.ID, &p.UserType, &p.FirstName, &p.LastName, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return p, ErrProfileNotFound
	}
	if err != nil {
		return p, err
	}
	return p, nil
}

func (r *Repository) CreateProfile(p Profile) error {
	t := time.Now().UTC()
	_, err := r.db.Exec(
		`INSERT INTO profiles (id, user_type, first_name, last_name, avatar_url, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.UserType, p.FirstName, p.LastName, p.AvatarURL, t, t,
	)
	return err
}

func (r *Repository) UpdateProfileType(id, userType string) error {
	res, err := r.db.Exec(`UPDATE profiles SET user_type = $1, updated_at = NOW() WHERE id = $2`, userType, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// ProfilesByType lists profiles of the given user type, newest first
func (r *Repository) ProfilesByType(userType string) ([]Profile, error) {
	profiles := make([]Profile, 0)
	rows, err := r.db.Query(
		`SELECT p.id, p.user_type, p.first_name, p.last_name, p.avatar_url, p.created_at, p.updated_at, u.email
		FROM profiles p
		JOIN users u ON u.id = p.id
		WHERE p.user_type = $1
		ORDER BY p.created_at DESC`, userType)
	if err != nil {
		return profiles, err
	}
	defer rows.Close()
	for rows.Next() {
		p := Profile{}
		if err := rows.Scan(&p.ID, &p.UserType, &p.FirstName, &p.LastName, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt, &p.Email); err != nil {
			return profiles, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return profiles, err
	}
	return profiles, nil
}
