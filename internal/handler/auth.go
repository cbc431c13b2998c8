package handler

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/quibly/quibly/internal/auth"
	"github.com/quibly/quibly/internal/intake"
	"github.com/quibly/quibly/internal/middleware"
	"github.com/quibly/quibly/internal/request"
	"github.com/quibly/quibly/internal/server"
	"github.com/quibly/quibly/internal/user"
)

const (
	magicLinkSentFlash = "Magic link sent! Check your email for the login link."
	invalidLinkFlash   = "Your sign in link is invalid or has expired. Please request a new one."
)

// IndexPageHandler sends every visitor of the root path to where they belong
func IndexPageHandler(svr server.Server, loader *auth.Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path, flash := auth.DashboardPath(loader.Load(r))
		if flash != "" {
			svr.AddFlash(w, r, flash)
		}
		svr.Redirect(w, r, http.StatusFound, path)
	}
}

func LoginPageHandler(svr server.Server, loader *auth.Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := loader.Load(r)
		if state.SignedIn() {
			svr.Redirect(w, r, http.StatusFound, "/")
			return
		}
		svr.Render(w, http.StatusOK, "login.html", map[string]interface{}{
			"Flashes":   svr.Flashes(w, r),
			"Protected": r.URL.Query().Get("next") != "",
		})
	}
}

func RequestTokenSignOn(svr server.Server, links *auth.MagicLinks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := strings.TrimSpace(r.FormValue("email"))
		if !svr.IsEmail(email) {
			svr.AddFlash(w, r, "Please enter a valid email address")
			svr.Redirect(w, r, http.StatusSeeOther, "/login")
			return
		}
		if err := links.SendMagicLink(r.Context(), email, ""); err != nil {
			svr.Log(err, "unable to send magic link")
			svr.AddFlash(w, r, "Failed to send magic link")
			svr.Redirect(w, r, http.StatusSeeOther, "/login")
			return
		}
		svr.AddFlash(w, r, magicLinkSentFlash)
		svr.Redirect(w, r, http.StatusSeeOther, "/login")
	}
}

// VerifyTokenSignOn consumes the magic link token, starts the session and
// hands over any request submitted with the same email before signing in
func VerifyTokenSignOn(svr server.Server, loader *auth.Loader, userRepo *user.Repository, requestRepo *request.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := svr.GetConfig()
		token := r.URL.Query().Get("token")
		u, _, err := userRepo.GetOrCreateUserFromToken(token, cfg.SignOnTokenTTL)
		if err != nil {
			if !errors.Is(err, user.ErrTokenNotFound) {
				svr.Log(err, "unable to validate sign on token")
			}
			svr.AddFlash(w, r, invalidLinkFlash)
			svr.Redirect(w, r, http.StatusFound, "/login")
			return
		}
		claims := middleware.UserJWT{
			UserID:    u.ID,
			Email:     u.Email,
			IsAdmin:   u.Email == cfg.AdminEmail,
			Type:      u.Type,
			CreatedAt: u.CreatedAt,
		}
		if err := middleware.SaveUserJWT(w, r, svr.SessionStore, claims, cfg.SessionTTL, svr.GetJWTSigningKey()); err != nil {
			svr.Log(err, "unable to save jwt into session cookie")
			svr.AddFlash(w, r, invalidLinkFlash)
			svr.Redirect(w, r, http.StatusFound, "/login")
			return
		}
		if _, err := loader.EnsureProfile(u); err != nil {
			svr.Log(err, "unable to ensure profile after sign on")
		}
		claimed, err := requestRepo.ClaimRequestsByEmail(u.ID, u.Email)
		if err != nil {
			svr.Log(err, "unable to claim requests by email")
		} else if claimed > 0 {
			logger := svr.Logger()
			logger.Info().Str("user_id", u.ID).Int64("claimed", claimed).Msg("claimed company requests")
		}
		svr.Redirect(w, r, http.StatusFound, "/")
	}
}

func SignOutHandler(svr server.Server, drafts *intake.DraftStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if id := svr.ClearDraftID(w, r); id != "" {
			if err := drafts.Delete(id); err != nil {
				svr.Log(err, "unable to delete intake draft on sign out")
			}
		}
		if err := middleware.ClearUserJWT(w, r, svr.SessionStore); err != nil {
			svr.Log(err, "unable to clear session")
		}
		svr.Redirect(w, r, http.StatusSeeOther, "/login")
	}
}
