package intake

import (
	"context"

	"github.com/pkg/errors"
	"github.com/quibly/quibly/internal/request"
	"github.com/quibly/quibly/internal/user"
	"github.com/rs/zerolog"
)

const SaveFailedNote = "We've sent you a magic link, but there was an issue saving your request. Please try again after logging in."

type MagicLinkSender interface {
	SendMagicLink(ctx context.Context, email, userType string) error
}

type RequestStore interface {
	SaveRequest(ctx context.Context, req request.CompanyRequest, roles []request.DeveloperRole) (string, error)
}

type Notifier interface {
	NotifyNewRequest(ctx context.Context, req request.CompanyRequest, roles []request.DeveloperRole) error
}

type ValidationError struct {
	Errors Errors
}

func (e ValidationError) Error() string {
	return "Please check the form for errors and try again."
}

type Result struct {
	RequestID string
	// Note is set when the magic link went out but the request was not stored
	Note string
}

type Submitter struct {
	links    MagicLinkSender
	requests RequestStore
	notifier Notifier
	log      zerolog.Logger
}

// NewSubmitter wires the submission steps, notifier may be nil
func NewSubmitter(links MagicLinkSender, requests RequestStore, notifier Notifier, log zerolog.Logger) *Submitter {
	return &Submitter{links: links, requests: requests, notifier: notifier, log: log}
}

// Submit validates the form, sends the magic link and then stores the request.
// Once the link is out the submission counts as done even if storing fails
func (s *Submitter) Submit(ctx context.Context, f FormData, userID, profileID string) (Result, error) {
	if errs := ValidateSubmission(f); !errs.Valid() {
		return Result{}, ValidationError{Errors: errs}
	}
	if err := s.links.SendMagicLink(ctx, f.WorkEmail, user.UserTypeCompany); err != nil {
		return Result{}, errors.Wrap(err, "unable to send magic link")
	}
	req, roles := PrepareForSubmission(f, userID)
	if profileID != "" {
		req.ProfileID = &profileID
	}
	id, err := s.requests.SaveRequest(ctx, req, roles)
	if err != nil {
		s.log.Error().Err(err).Str("email", f.WorkEmail).Msg("unable to save company request")
		return Result{Note: SaveFailedNote}, nil
	}
	req.ID = id
	if s.notifier != nil {
		if err := s.notifier.NotifyNewRequest(ctx, req, roles); err != nil {
			s.log.Warn().Err(err).Str("request_id", id).Msg("unable to notify about new request")
		}
	}
	return Result{RequestID: id}, nil
}

// PrepareForSubmission maps the wizard form to the stored request and its roles
func PrepareForSubmission(f FormData, userID string) (request.CompanyRequest, []request.DeveloperRole) {
	req := request.CompanyRequest{
		CompanyName:       f.CompanyName,
		ContactName:       f.ContactName,
		WorkEmail:         f.WorkEmail,
		Role:              f.Role,
		CompanySize:       f.CompanySize,
		TimeZoneRegion:    f.TimeZoneRegion,
		TimeZoneOverlap:   f.TimeZoneOverlap,
		IsASAP:            f.IsASAP,
		EstimatedDuration: f.EstimatedDuration,
		WeeklyHours:       f.WeeklyHours,
		MonthlyBudget:     f.MonthlyBudget,
		Notes:             f.Notes,
		Status:            request.StatusAwaitingMatch,
	}
	if f.CompanyWebsite != "" {
		website := FormatWebsiteURL(f.CompanyWebsite)
		req.CompanyWebsite = &website
	}
	if f.StartDate != nil && !f.IsASAP {
		sd := f.StartDate.UTC()
		req.StartDate = &sd
	}
	if userID != "" {
		uid := userID
		req.UserID = &uid
	}
	var jobDescription *string
	if f.HasJobDescription {
		jd := f.JobDescription
		jobDescription = &jd
	}
	roles := make([]request.DeveloperRole, 0, len(f.DeveloperRoles))
	for _, r := range f.DeveloperRoles {
		roles = append(roles, request.DeveloperRole{
			RoleTitle:          r.RoleTitle,
			RequiredTechStack:  r.RequiredTechStack,
			NiceToHaveSkills:   r.NiceToHaveSkills,
			SeniorityLevel:     r.SeniorityLevel,
			PreferredLanguages: r.PreferredLanguages,
			NumberOfDevelopers: r.NumberOfDevelopers,
			JobDescription:     jobDescription,
		})
	}
	req.DeveloperRoles = roles
	return req, roles
}
