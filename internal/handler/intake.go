package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/quibly/quibly/internal/auth"
	"github.com/quibly/quibly/internal/intake"
	"github.com/quibly/quibly/internal/server"
)

const (
	submittedFlash = "Request Submitted Successfully! Check your email for a magic link to access your dashboard."

	// the remove button of each role posts this prefix followed by the role id
	removeRoleAction = "remove_role:"
)

func renderIntake(svr server.Server, w http.ResponseWriter, r *http.Request, status int, state auth.State, wiz intake.Wizard, errs intake.Errors, flashes []string) {
	if errs == nil {
		errs = intake.Errors{}
	}
	svr.Render(w, status, "company-intake.html", map[string]interface{}{
		"State":              state,
		"Wizard":             wiz,
		"Form":               wiz.Form,
		"Errors":             map[string]string(errs),
		"Flashes":            flashes,
		"StepTitles":         intake.StepTitles,
		"CompanySizes":       intake.CompanySizes,
		"TimeZoneRegions":    intake.TimeZoneRegions,
		"TimeZoneOverlaps":   intake.TimeZoneOverlaps,
		"RoleTitles":         intake.RoleTitles,
		"SeniorityLevels":    intake.SeniorityLevels,
		"EstimatedDurations": intake.EstimatedDurations,
		"WeeklyHours":        intake.WeeklyHours,
		"MonthlyBudgets":     intake.MonthlyBudgets,
		"TechOptions":        intake.TechOptions,
		"LanguageOptions":    intake.LanguageOptions,
		"Today":              time.Now().UTC().Format(intake.DateLayout),
	})
}

func CompanyIntakePageHandler(svr server.Server, loader *auth.Loader, drafts *intake.DraftStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := loader.Load(r)
		id := svr.DraftID(w, r, intake.NewDraftID)
		wiz, err := drafts.Load(id)
		if err != nil {
			svr.Log(err, "unable to load intake draft")
		}
		if r.URL.Query().Get("new") != "" && wiz.Confirmed() {
			wiz = intake.NewWizard()
		}
		if wiz.Form.WorkEmail == "" && state.SignedIn() {
			wiz.Form.WorkEmail = state.User.Email
		}
		if wiz.Confirmed() {
			// the confirmation is shown once, the next visit starts a new request
			if err := drafts.Delete(id); err != nil {
				svr.Log(err, "unable to delete submitted intake draft")
			}
		}
		renderIntake(svr, w, r, http.StatusOK, state, wiz, nil, svr.Flashes(w, r))
	}
}

// CompanyIntakeStepHandler applies one wizard action. Inputs of the current step
// are always kept, moving forward requires the step to be valid
func CompanyIntakeStepHandler(svr server.Server, loader *auth.Loader, drafts *intake.DraftStore, submitter *intake.Submitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			svr.TEXT(w, http.StatusBadRequest, "invalid form")
			return
		}
		state := loader.Load(r)
		id := svr.DraftID(w, r, intake.NewDraftID)
		wiz, err := drafts.Load(id)
		if err != nil {
			svr.Log(err, "unable to load intake draft")
		}
		if wiz.Confirmed() {
			wiz = intake.NewWizard()
		}
		intake.ApplyStep(&wiz.Form, wiz.Step, r.PostForm)

		var errs intake.Errors
		action := r.PostForm.Get("action")
		if strings.HasPrefix(action, removeRoleAction) {
			wiz.RemoveRole(strings.TrimPrefix(action, removeRoleAction))
		}
		switch action {
		case "prev":
			wiz.Prev()
		case "add_role":
			wiz.AddRole()
		case "next":
			errs = validateStep(wiz)
			if errs.Valid() {
				wiz.Next()
			}
		case "submit":
			errs = validateStep(wiz)
			if !errs.Valid() || wiz.Step != intake.StepBudget {
				break
			}
			userID, profileID := "", ""
			if state.SignedIn() {
				userID = state.User.ID
			}
			if state.Profile != nil {
				profileID = state.Profile.ID
			}
			res, err := submitter.Submit(r.Context(), wiz.Form, userID, profileID)
			var verr intake.ValidationError
			switch {
			case errors.As(err, &verr):
				errs = verr.Errors
				saveDraft(svr, drafts, id, wiz)
				renderIntake(svr, w, r, http.StatusUnprocessableEntity, state, wiz, errs, []string{err.Error()})
				return
			case err != nil:
				svr.Log(err, "unable to submit company request")
				saveDraft(svr, drafts, id, wiz)
				renderIntake(svr, w, r, http.StatusInternalServerError, state, wiz, nil, []string{"Failed to submit your request"})
				return
			}
			wiz.Next()
			if res.Note != "" {
				svr.AddFlash(w, r, res.Note)
			}
			svr.AddFlash(w, r, submittedFlash)
		}
		saveDraft(svr, drafts, id, wiz)
		if !errs.Valid() {
			renderIntake(svr, w, r, http.StatusUnprocessableEntity, state, wiz, errs, nil)
			return
		}
		svr.Redirect(w, r, http.StatusSeeOther, "/company-intake")
	}
}

func validateStep(wiz intake.Wizard) intake.Errors {
	switch wiz.Step {
	case intake.StepCompany:
		return intake.ValidateStep1(wiz.Form)
	case intake.StepRoles:
		return intake.ValidateStep2(wiz.Form)
	case intake.StepBudget:
		return intake.ValidateStep3(wiz.Form, time.Now().UTC())
	}
	return intake.Errors{}
}

func saveDraft(svr server.Server, drafts *intake.DraftStore, id string, wiz intake.Wizard) {
	if id == "" {
		return
	}
	if err := drafts.Save(id, wiz); err != nil {
		svr.Log(err, "unable to save intake draft")
	}
}

func CandidateIntakePageHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svr.Render(w, http.StatusOK, "candidate-intake.html", nil)
	}
}
