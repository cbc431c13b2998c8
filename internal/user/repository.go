package user

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

var ErrTokenNotFound = errors.New("token not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

func (r *Repository) SaveTokenSignOn(email, token, userType string) error {
	if _, err := r.db.Exec(`INSERT INTO user_sign_on_token (token, email, user_type, created_at) VALUES ($1, $2, $3, $4)`, token, strings.ToLower(email), userType, time.Now().UTC()); err != nil {
		return err
	}
	return nil
}

// GetOrCreateUserFromToken consumes a sign on token and creates or gets the existing user
// returns the user struct, whether the user existed already and an error.
// Tokens are single use and rejected once older than ttl
func (r *Repository) GetOrCreateUserFromToken(token string, ttl time.Duration) (User, bool, error) {
	u := User{}
	tx, err := r.db.Begin()
	if err != nil {
		return u, false, err
	}
	defer tx.Rollback()
	var tokenEmail, userType string
	var tokenCreatedAt time.Time
	row := tx.QueryRow(`DELETE FROM user_sign_on_token WHERE token = $1 RETURNING email, user_type, created_at`, token)
	if err := row.Scan(&tokenEmail, &userType, &tokenCreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return u, false, ErrTokenNotFound
		}
		return u, false, err
	}
	if tokenCreatedAt.Before(time.Now().UTC().Add(-ttl)) {
		// the expired token is gone either way
		if err := tx.Commit(); err != nil {
			return u, false, err
		}
		return u, false, ErrTokenNotFound
	}
	var id, email sql.NullString
	var createdAt sql.NullTime
	row = tx.QueryRow(`SELECT id, email, created_at FROM users WHERE email = $1`, tokenEmail)
	if err := row.Scan(&id, &email, &createdAt); err != nil && err != sql.ErrNoRows {
		return u, false, err
	}
	u.Type = userType
	if !email.Valid {
		// user not found create new one
		u.ID = uuid.New().String()
		u.Email = tokenEmail
		u.CreatedAt = time.Now().UTC()
		u.CreatedAtHumanised = humanize.Time(u.CreatedAt)
		if _, err := tx.Exec(`INSERT INTO users (id, email, created_at) VALUES ($1, $2, $3)`, u.ID, u.Email, u.CreatedAt); err != nil {
			return User{}, false, err
		}
		if err := tx.Commit(); err != nil {
			return User{}, false, err
		}
		return u, false, nil
	}
	if err := tx.Commit(); err != nil {
		return User{}, false, err
	}
	u.ID = id.String
	u.Email = email.String
	u.CreatedAt = createdAt.Time
	u.CreatedAtHumanised = humanize.Time(u.CreatedAt.UTC())

	return u, true, nil
}

func (r *Repository) DeleteUserByEmail(email string) error {
	_, err := r.db.Exec(`DELETE FROM users WHERE email = $1`, strings.ToLower(email))
	return err
}

// DeleteExpiredUserSignOnTokens deletes user_sign_on_tokens created before now - ttl
// returns how many tokens were removed
func (r *Repository) DeleteExpiredUserSignOnTokens(ttl time.Duration) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM user_sign_on_token WHERE created_at < $1`, time.Now().UTC().Add(-ttl))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *Repository) GetUser(email string) (User, error) {
	u := User{}
	row := r.db.QueryRow(`SELECT id, email, created_at FROM users WHERE email = $1`, strings.ToLower(email))
	if err := row.Scan(&u.ID, &u.Email, &u.CreatedAt); err != nil {
		return u, err
	}
	u.CreatedAtHumanised = humanize.Time(u.CreatedAt.UTC())
	return u, nil
}

func (r *Repository) GetUserByID(id string) (User, error) {
	u := User{}
	row := r.db.QueryRow(`SELECT id, email, created_at FROM users WHERE id = $1`, id)
	if err := row.Scan(&u.ID, &u.Email, &u.CreatedAt); err != nil {
		return u, err
	}
	u.CreatedAtHumanised = humanize.Time(u.CreatedAt.UTC())
	return u, nil
}
