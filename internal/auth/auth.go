package auth

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
	"github.com/quibly/quibly/internal/middleware"
	"github.com/quibly/quibly/internal/profile"
	"github.com/quibly/quibly/internal/user"
	"github.com/rs/zerolog"
)

const UnknownDashboardFlash = "We couldn't determine your dashboard type. Please contact support."

type UserStore interface {
	GetUserByID(id string) (user.User, error)
}

type ProfileStore interface {
	GetProfile(id string) (profile.Profile, error)
	CreateProfile(p profile.Profile) error
}

// State is who is behind a request. Both fields are nil for anonymous visitors,
// Profile can be nil for a signed in user whose profile could not be loaded
type State struct {
	User    *user.User
	Profile *profile.Profile
}

func (s State) SignedIn() bool {
	return s.User != nil
}

func (s State) UserType() string {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.UserType
}

func (s State) IsAdmin() bool {
	return s.UserType() == user.UserTypeAdmin
}

type Loader struct {
	sessionStore sessions.Store
	jwtKey       []byte
	users        UserStore
	profiles     ProfileStore
	adminEmail   string
	log          zerolog.Logger
}

func NewLoader(sessionStore sessions.Store, jwtKey []byte, users UserStore, profiles ProfileStore, adminEmail string, log zerolog.Logger) *Loader {
	return &Loader{
		sessionStore: sessionStore,
		jwtKey:       jwtKey,
		users:        users,
		profiles:     profiles,
		adminEmail:   strings.ToLower(adminEmail),
		log:          log,
	}
}

// Load resolves the session of r into a State. It never fails, problems
// degrade to anonymous or to a user without a profile
func (l *Loader) Load(r *http.Request) State {
	claims, err := middleware.GetUserFromJWT(r, l.sessionStore, l.jwtKey)
	if err != nil {
		return State{}
	}
	u, err := l.users.GetUserByID(claims.UserID)
	if err != nil {
		l.log.Warn().Err(err).Str("user_id", claims.UserID).Msg("unable to load user for session")
		return State{}
	}
	u.Type = claims.Type
	state := State{User: &u}
	p, err := l.EnsureProfile(u)
	if err != nil {
		l.log.Error().Err(err).Str("user_id", u.ID).Msg("unable to load profile")
		return state
	}
	state.Profile = &p
	return state
}

// EnsureProfile loads the profile of u, creating the default one when it does not exist yet
func (l *Loader) EnsureProfile(u user.User) (profile.Profile, error) {
	p, err := l.profiles.GetProfile(u.ID)
	if err == nil {
		p.Email = u.Email
		return p, nil
	}
	if !errors.Is(err, profile.ErrProfileNotFound) {
		return p, err
	}
	err = l.profiles.CreateProfile(profile.Profile{ID: u.ID, UserType: DefaultUserType(u.Email, l.adminEmail, u.Type)})
	if err != nil {
		return p, errors.Wrap(err, "unable to create default profile")
	}
	p, err = l.profiles.GetProfile(u.ID)
	if err != nil {
		return p, err
	}
	p.Email = u.Email
	return p, nil
}

// DefaultUserType picks the type of the profile created on first sign in
func DefaultUserType(email, adminEmail, requested string) string {
	if adminEmail != "" && strings.EqualFold(email, adminEmail) {
		return user.UserTypeAdmin
	}
	if requested == user.UserTypeCompany || requested == user.UserTypeCandidate {
		return requested
	}
	return user.UserTypeCompany
}

// DashboardPath is where a visitor of the root path belongs. The flash is
// only set when the profile carries a type we do not know about
func DashboardPath(s State) (string, string) {
	if !s.SignedIn() {
		return "/login", ""
	}
	if s.Profile == nil {
		return "/dashboard", ""
	}
	switch s.Profile.UserType {
	case user.UserTypeCompany:
		return "/dashboard/company", ""
	case user.UserTypeCandidate:
		return "/dashboard/candidate", ""
	case user.UserTypeAdmin:
		return "/dashboard/admin", ""
	}
	return "/dashboard", UnknownDashboardFlash
}

// RolePath decides whether s may see a page reserved to userType. An empty
// path means access is granted, otherwise it is where to redirect. The
// candidate page only turns away profiles of another type
func RolePath(s State, userType string) string {
	if !s.SignedIn() {
		return "/login"
	}
	if s.Profile == nil {
		switch userType {
		case user.UserTypeCompany:
			return "/dashboard"
		case user.UserTypeCandidate:
			return ""
		}
		return "/"
	}
	if s.Profile.UserType != userType {
		return "/"
	}
	return ""
}
