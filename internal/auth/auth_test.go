package auth

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/quibly/quibly/internal/middleware"
	"github.com/quibly/quibly/internal/profile"
	"github.com/quibly/quibly/internal/user"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

type fakeUsers map[string]user.User

func (f fakeUsers) GetUserByID(id string) (user.User, error) {
	u, ok := f[id]
	if !ok {
		return u, sql.ErrNoRows
	}
	return u, nil
}

type fakeProfiles struct {
	profiles  map[string]profile.Profile
	getErr    error
	createErr error
	created   []profile.Profile
}

func (f *fakeProfiles) GetProfile(id string) (profile.Profile, error) {
	if f.getErr != nil {
		return profile.Profile{}, f.getErr
	}
	p, ok := f.profiles[id]
	if !ok {
		return p, profile.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfiles) CreateProfile(p profile.Profile) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, p)
	f.profiles[p.ID] = p
	return nil
}

func sessionRequest(t *testing.T, store sessions.Store, claims middleware.UserJWT) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, middleware.SaveUserJWT(rec, httptest.NewRequest(http.MethodGet, "/", nil), store, claims, time.Hour, testKey))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func newLoader(users fakeUsers, profiles *fakeProfiles) (*Loader, sessions.Store) {
	store := sessions.NewCookieStore(testKey)
	return NewLoader(store, testKey, users, profiles, "Admin@Quibly.io", zerolog.Nop()), store
}

func TestLoadAnonymous(t *testing.T) {
	l, _ := newLoader(fakeUsers{}, &fakeProfiles{profiles: map[string]profile.Profile{}})

	s := l.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, s.SignedIn())
	assert.Nil(t, s.Profile)
	path, flash := DashboardPath(s)
	assert.Equal(t, "/login", path)
	assert.Empty(t, flash)
}

func TestLoadUnknownUserIsAnonymous(t *testing.T) {
	l, store := newLoader(fakeUsers{}, &fakeProfiles{profiles: map[string]profile.Profile{}})

	s := l.Load(sessionRequest(t, store, middleware.UserJWT{UserID: "gone"}))
	assert.False(t, s.SignedIn())
}

func TestLoadExistingProfile(t *testing.T) {
	users := fakeUsers{"u1": {ID: "u1", Email: "jane@acme.io"}}
	profiles := &fakeProfiles{profiles: map[string]profile.Profile{"u1": {ID: "u1", UserType: user.UserTypeCandidate}}}
	l, store := newLoader(users, profiles)

	s := l.Load(sessionRequest(t, store, middleware.UserJWT{UserID: "u1"}))
	require.NotNil(t, s.Profile)
	assert.Equal(t, user.UserTypeCandidate, s.UserType())
	assert.Equal(t, "jane@acme.io", s.Profile.Email)
	assert.Empty(t, profiles.created)
	path, _ := DashboardPath(s)
	assert.Equal(t, "/dashboard/candidate", path)
}

func TestLoadCreatesDefaultProfileOnce(t *testing.T) {
	users := fakeUsers{"u1": {ID: "u1", Email: "jane@acme.io"}, "a1": {ID: "a1", Email: "admin@quibly.io"}}
	profiles := &fakeProfiles{profiles: map[string]profile.Profile{}}
	l, store := newLoader(users, profiles)

	s := l.Load(sessionRequest(t, store, middleware.UserJWT{UserID: "u1"}))
	require.NotNil(t, s.Profile)
	assert.Equal(t, user.UserTypeCompany, s.UserType())

	s = l.Load(sessionRequest(t, store, middleware.UserJWT{UserID: "u1"}))
	require.NotNil(t, s.Profile)
	assert.Len(t, profiles.created, 1)

	s = l.Load(sessionRequest(t, store, middleware.UserJWT{UserID: "a1"}))
	assert.True(t, s.IsAdmin())
	path, _ := DashboardPath(s)
	assert.Equal(t, "/dashboard/admin", path)
}

func TestLoadProfileFailureKeepsUser(t *testing.T) {
	users := fakeUsers{"u1": {ID: "u1", Email: "jane@acme.io"}}
	l, store := newLoader(users, &fakeProfiles{profiles: map[string]profile.Profile{}, getErr: errors.New("db down")})

	s := l.Load(sessionRequest(t, store, middleware.UserJWT{UserID: "u1"}))
	assert.True(t, s.SignedIn())
	assert.Nil(t, s.Profile)
	path, _ := DashboardPath(s)
	assert.Equal(t, "/dashboard", path)

	l, store = newLoader(users, &fakeProfiles{profiles: map[string]profile.Profile{}, createErr: errors.New("duplicate")})
	s = l.Load(sessionRequest(t, store, middleware.UserJWT{UserID: "u1"}))
	assert.True(t, s.SignedIn())
	assert.Nil(t, s.Profile)
}

func TestDefaultUserType(t *testing.T) {
	assert.Equal(t, user.UserTypeAdmin, DefaultUserType("ADMIN@quibly.io", "admin@quibly.io", user.UserTypeCandidate))
	assert.Equal(t, user.UserTypeCandidate, DefaultUserType("dev@x.io", "admin@quibly.io", user.UserTypeCandidate))
	assert.Equal(t, user.UserTypeCompany, DefaultUserType("dev@x.io", "admin@quibly.io", user.UserTypeAdmin))
	assert.Equal(t, user.UserTypeCompany, DefaultUserType("dev@x.io", "", ""))
}

func TestDashboardPathUnknownType(t *testing.T) {
	s := State{User: &user.User{ID: "u1"}, Profile: &profile.Profile{UserType: "recruiter"}}
	path, flash := DashboardPath(s)
	assert.Equal(t, "/dashboard", path)
	assert.Equal(t, UnknownDashboardFlash, flash)
}

func TestRolePath(t *testing.T) {
	company := State{User: &user.User{ID: "u1"}, Profile: &profile.Profile{UserType: user.UserTypeCompany}}
	noProfile := State{User: &user.User{ID: "u1"}}

	assert.Equal(t, "/login", RolePath(State{}, user.UserTypeCompany))
	assert.Equal(t, "", RolePath(company, user.UserTypeCompany))
	assert.Equal(t, "/", RolePath(company, user.UserTypeAdmin))
	assert.Equal(t, "/", RolePath(company, user.UserTypeCandidate))
	assert.Equal(t, "/dashboard", RolePath(noProfile, user.UserTypeCompany))
	assert.Equal(t, "/", RolePath(noProfile, user.UserTypeAdmin))
	assert.Equal(t, "", RolePath(noProfile, user.UserTypeCandidate))
}
