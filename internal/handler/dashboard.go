package handler

import (
	"net/http"

	"github.com/quibly/quibly/internal/auth"
	"github.com/quibly/quibly/internal/contractor"
	"github.com/quibly/quibly/internal/profile"
	"github.com/quibly/quibly/internal/request"
	"github.com/quibly/quibly/internal/server"
	"github.com/quibly/quibly/internal/user"
)

const (
	tabRequests    = "requests"
	tabContractors = "contractors"
	tabCompanies   = "companies"
	tabCandidates  = "candidates"
)

// pickTab returns the requested tab when it is one of allowed, else the first one
func pickTab(r *http.Request, allowed ...string) string {
	tab := r.URL.Query().Get("tab")
	for _, a := range allowed {
		if a == tab {
			return tab
		}
	}
	return allowed[0]
}

func dashboardData(svr server.Server, w http.ResponseWriter, r *http.Request, state auth.State) map[string]interface{} {
	return map[string]interface{}{
		"State":   state,
		"Flashes": svr.Flashes(w, r),
	}
}

// DashboardPageHandler is the fallback dashboard for users whose profile has
// no known type yet
func DashboardPageHandler(svr server.Server, loader *auth.Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := loader.Load(r)
		if path, flash := auth.DashboardPath(state); flash == "" && path != "/dashboard" {
			svr.Redirect(w, r, http.StatusFound, path)
			return
		}
		svr.Render(w, http.StatusOK, "dashboard.html", dashboardData(svr, w, r, state))
	}
}

func CompanyDashboardPageHandler(svr server.Server, loader *auth.Loader, requestRepo *request.Repository, contractorRepo *contractor.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := loader.Load(r)
		if path := auth.RolePath(state, user.UserTypeCompany); path != "" {
			svr.Redirect(w, r, http.StatusFound, path)
			return
		}
		data := dashboardData(svr, w, r, state)
		tab := pickTab(r, tabRequests, tabContractors)
		data["Tab"] = tab
		switch tab {
		case tabRequests:
			requests, err := requestRepo.RequestsForUser(state.User.ID)
			if err != nil {
				svr.Log(err, "unable to retrieve requests for user")
				data["Error"] = "Failed to load your requests"
			}
			data["Requests"] = requests
		case tabContractors:
			contractors, err := contractorRepo.HiredContractorsForUser(state.User.ID)
			if err != nil {
				svr.Log(err, "unable to retrieve hired contractors for user")
				data["Error"] = "Failed to load your contractors"
			}
			data["Contractors"] = contractors
		}
		svr.Render(w, http.StatusOK, "dashboard-company.html", data)
	}
}

func CandidateDashboardPageHandler(svr server.Server, loader *auth.Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := loader.Load(r)
		if path := auth.RolePath(state, user.UserTypeCandidate); path != "" {
			svr.Redirect(w, r, http.StatusFound, path)
			return
		}
		svr.Render(w, http.StatusOK, "dashboard-candidate.html", dashboardData(svr, w, r, state))
	}
}

func AdminDashboardPageHandler(svr server.Server, loader *auth.Loader, requestRepo *request.Repository, profileRepo *profile.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := loader.Load(r)
		if path := auth.RolePath(state, user.UserTypeAdmin); path != "" {
			svr.Redirect(w, r, http.StatusFound, path)
			return
		}
		data := dashboardData(svr, w, r, state)
		tab := pickTab(r, tabRequests, tabCompanies, tabCandidates)
		data["Tab"] = tab
		data["Statuses"] = request.Statuses
		data["UserTypes"] = []string{user.UserTypeCompany, user.UserTypeCandidate, user.UserTypeAdmin}
		switch tab {
		case tabRequests:
			requests, err := requestRepo.AllRequests()
			if err != nil {
				svr.Log(err, "unable to retrieve all requests")
				data["Error"] = "Failed to load requests"
			}
			data["Requests"] = requests
		case tabCompanies:
			profiles, err := profileRepo.ProfilesByType(user.UserTypeCompany)
			if err != nil {
				svr.Log(err, "unable to retrieve company profiles")
				data["Error"] = "Failed to load companies"
			}
			data["Profiles"] = profiles
		case tabCandidates:
			profiles, err := profileRepo.ProfilesByType(user.UserTypeCandidate)
			if err != nil {
				svr.Log(err, "unable to retrieve candidate profiles")
				data["Error"] = "Failed to load candidates"
			}
			data["Profiles"] = profiles
		}
		svr.Render(w, http.StatusOK, "dashboard-admin.html", data)
	}
}
