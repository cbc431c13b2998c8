package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/quibly/quibly/internal/auth"
	"github.com/quibly/quibly/internal/contractor"
	"github.com/quibly/quibly/internal/intake"
	"github.com/quibly/quibly/internal/profile"
	"github.com/quibly/quibly/internal/request"
	"github.com/quibly/quibly/internal/server"
	"github.com/quibly/quibly/internal/user"
)

// adminOnly runs next only for signed in admins
func adminOnly(svr server.Server, loader *auth.Loader, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if path := auth.RolePath(loader.Load(r), user.UserTypeAdmin); path != "" {
			svr.Redirect(w, r, http.StatusSeeOther, path)
			return
		}
		next(w, r)
	}
}

func UpdateRequestStatusHandler(svr server.Server, loader *auth.Loader, requestRepo *request.Repository) http.HandlerFunc {
	return adminOnly(svr, loader, func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		status := r.FormValue("status")
		if !request.IsValidStatus(status) {
			svr.AddFlash(w, r, "Unknown request status")
			svr.Redirect(w, r, http.StatusSeeOther, "/dashboard/admin?tab=requests")
			return
		}
		if err := requestRepo.UpdateRequestStatus(id, status); err != nil {
			svr.Log(err, "unable to update request status")
			svr.AddFlash(w, r, "Failed to update request status")
			svr.Redirect(w, r, http.StatusSeeOther, "/dashboard/admin?tab=requests")
			return
		}
		svr.AddFlash(w, r, "Request status updated")
		svr.Redirect(w, r, http.StatusSeeOther, "/dashboard/admin?tab=requests")
	})
}

func AddMatchedDeveloperHandler(svr server.Server, loader *auth.Loader, contractorRepo *contractor.Repository) http.HandlerFunc {
	return adminOnly(svr, loader, func(w http.ResponseWriter, r *http.Request) {
		m, err := parseMatchedDeveloper(mux.Vars(r)["id"], r)
		if err != nil {
			svr.AddFlash(w, r, err.Error())
			svr.Redirect(w, r, http.StatusSeeOther, "/dashboard/admin?tab=requests")
			return
		}
		if _, err := contractorRepo.SaveMatchedDeveloper(m); err != nil {
			svr.Log(err, "unable to save matched developer")
			svr.AddFlash(w, r, "Failed to add developer")
			svr.Redirect(w, r, http.StatusSeeOther, "/dashboard/admin?tab=requests")
			return
		}
		svr.AddFlash(w, r, "Developer added to request")
		svr.Redirect(w, r, http.StatusSeeOther, "/dashboard/admin?tab=requests")
	})
}

func parseMatchedDeveloper(requestID string, r *http.Request) (contractor.MatchedDeveloper, error) {
	m := contractor.MatchedDeveloper{
		RequestID:      requestID,
		DeveloperName:  strings.TrimSpace(r.FormValue("developer_name")),
		SeniorityLevel: strings.TrimSpace(r.FormValue("seniority_level")),
		Status:         r.FormValue("status"),
		Notes:          strings.TrimSpace(r.FormValue("notes")),
	}
	if m.DeveloperName == "" {
		return m, errors.New("Developer name is required")
	}
	switch m.Status {
	case "", contractor.StatusProposed, contractor.StatusInterviewing, contractor.StatusHired:
	default:
		return m, errors.New("Unknown developer status")
	}
	if roleID := r.FormValue("role_id"); roleID != "" {
		m.RoleID = &roleID
	}
	for _, s := range strings.Split(r.FormValue("developer_skills"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			m.DeveloperSkills = append(m.DeveloperSkills, s)
		}
	}
	if v := r.FormValue("hourly_rate"); v != "" {
		rate, err := strconv.Atoi(v)
		if err != nil || rate < 0 {
			return m, errors.New("Hourly rate must be a positive number")
		}
		m.HourlyRate = &rate
	}
	if v := r.FormValue("start_date"); v != "" {
		d, err := time.Parse(intake.DateLayout, v)
		if err != nil {
			return m, errors.New("Start date is invalid")
		}
		m.StartDate = &d
	}
	return m, nil
}

func UpdateProfileTypeHandler(svr server.Server, loader *auth.Loader, profileRepo *profile.Repository) http.HandlerFunc {
	return adminOnly(svr, loader, func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		userType := r.FormValue("user_type")
		back := "/dashboard/admin?tab=" + pickTab(r, tabCompanies, tabCandidates)
		if !user.IsValidType(userType) {
			svr.AddFlash(w, r, "Unknown user type")
			svr.Redirect(w, r, http.StatusSeeOther, back)
			return
		}
		if err := profileRepo.UpdateProfileType(id, userType); err != nil {
			if !errors.Is(err, profile.ErrProfileNotFound) {
				svr.Log(err, "unable to update profile type")
			}
			svr.AddFlash(w, r, "Failed to update user type")
			svr.Redirect(w, r, http.StatusSeeOther, back)
			return
		}
		svr.AddFlash(w, r, "User type updated")
		svr.Redirect(w, r, http.StatusSeeOther, back)
	})
}
