package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"
)

const (
	SessionName = "____qb"
	jwtKey      = "jwt"
	issuer      = "quibly"
)

func HTTPSMiddleware(next http.Handler, env string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env != "dev" && r.Header.Get("X-Forwarded-Proto") != "https" {
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func LoggingMiddleware(next http.Handler) http.Handler {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info().
			Str("Host", r.Host).
			Str("method", r.Method).
			Stringer("url", r.URL).
			Str("x-forwarded-for", r.Header.Get("x-forwarded-for")).
			Msg("req")
		next.ServeHTTP(w, r)
	})
}

func HeadersMiddleware(next http.Handler, env string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env != "dev" {
			// filter out HeadlessChrome user agent
			if strings.Contains(r.Header.Get("User-Agent"), "HeadlessChrome") {
				w.WriteHeader(http.StatusTeapot)
				return
			}
			w.Header().Set("Content-Security-Policy", "upgrade-insecure-requests")
			w.Header().Set("X-Frame-Options", "deny")
			w.Header().Set("X-XSS-Protection", "1; mode=block")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			w.Header().Set("Referrer-Policy", "origin")
		}
		next.ServeHTTP(w, r)
	})
}

func GzipMiddleware(next http.Handler) http.Handler {
	return gziphandler.GzipHandler(next)
}

type UserJWT struct {
	IsAdmin   bool      `json:"is_admin"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	jwt.RegisteredClaims
}

// SignUserJWT returns a HS256 token for claims valid for ttl
func SignUserJWT(claims UserJWT, ttl time.Duration, key []byte) (string, error) {
	now := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   claims.UserID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// Session returns the cookie session of r. A cookie that no longer decodes,
// after a key rotation for instance, is replaced by a fresh session which
// overwrites it on the next save
func Session(r *http.Request, sessionStore sessions.Store) (*sessions.Session, error) {
	sess, err := sessionStore.Get(r, SessionName)
	if sess == nil {
		if err == nil {
			err = errors.New("session store returned no session")
		}
		return nil, err
	}
	if err != nil {
		sess.IsNew = true
	}
	return sess, nil
}

// SaveUserJWT stores a signed token for claims into the session cookie
func SaveUserJWT(w http.ResponseWriter, r *http.Request, sessionStore sessions.Store, claims UserJWT, ttl time.Duration, key []byte) error {
	ss, err := SignUserJWT(claims, ttl, key)
	if err != nil {
		return err
	}
	sess, err := Session(r, sessionStore)
	if err != nil {
		return err
	}
	sess.Values[jwtKey] = ss
	return sess.Save(r, w)
}

// ClearUserJWT removes the token from the session cookie, other session values survive
func ClearUserJWT(w http.ResponseWriter, r *http.Request, sessionStore sessions.Store) error {
	sess, err := Session(r, sessionStore)
	if err != nil {
		return err
	}
	delete(sess.Values, jwtKey)
	return sess.Save(r, w)
}

func GetUserFromJWT(r *http.Request, sessionStore sessions.Store, key []byte) (*UserJWT, error) {
	sess, err := sessionStore.Get(r, SessionName)
	if err != nil {
		return nil, errors.New("could not find cookie")
	}
	tk, ok := sess.Values[jwtKey].(string)
	if !ok {
		return nil, errors.New("could not find jwt in session")
	}
	token, err := jwt.ParseWithClaims(tk, &UserJWT{}, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, errors.New("token is invalid or expired")
	}
	claims, ok := token.Claims.(*UserJWT)
	if !ok || claims.UserID == "" {
		return nil, errors.New("could not convert jwt claims to UserJWT")
	}
	return claims, nil
}

// LoginRedirectPath is where anonymous visitors of path are sent
func LoginRedirectPath(path string) string {
	return "/login?next=" + url.QueryEscape(path)
}

func UserAuthenticatedMiddleware(sessionStore sessions.Store, key []byte, next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := GetUserFromJWT(r, sessionStore, key); err != nil {
			http.Redirect(w, r, LoginRedirectPath(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next(w, r)
	})
}

func MachineAuthenticatedMiddleware(machineToken string, next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("x-machine-token")
		if token == "" || token != machineToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next(w, r)
	})
}
