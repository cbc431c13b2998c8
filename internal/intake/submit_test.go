package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quibly/quibly/internal/request"
	"github.com/quibly/quibly/internal/user"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLinks struct {
	err      error
	sentTo   []string
	userType string
}

func (f *fakeLinks) SendMagicLink(ctx context.Context, email, userType string) error {
	f.sentTo = append(f.sentTo, email)
	f.userType = userType
	return f.err
}

type fakeStore struct {
	err   error
	req   request.CompanyRequest
	roles []request.DeveloperRole
	calls int
}

func (f *fakeStore) SaveRequest(ctx context.Context, req request.CompanyRequest, roles []request.DeveloperRole) (string, error) {
	f.calls++
	f.req = req
	f.roles = roles
	if f.err != nil {
		return "", f.err
	}
	return "req-1", nil
}

type fakeNotifier struct {
	err   error
	calls int
	id    string
}

func (f *fakeNotifier) NotifyNewRequest(ctx context.Context, req request.CompanyRequest, roles []request.DeveloperRole) error {
	f.calls++
	f.id = req.ID
	return f.err
}

func completeForm() FormData {
	f := validStep1()
	f.CompanyWebsite = "acme.io"
	f.DeveloperRoles = []DeveloperRole{
		{ID: "a", RoleTitle: "Backend", RequiredTechStack: []string{"Go"}, SeniorityLevel: "Senior", NumberOfDevelopers: 2},
		{ID: "b", RoleTitle: "Frontend", RequiredTechStack: []string{"React"}, SeniorityLevel: "Mid", NumberOfDevelopers: 1},
	}
	f.IsASAP = true
	f.EstimatedDuration = "Ongoing"
	f.WeeklyHours = "40"
	f.MonthlyBudget = "$8k+"
	return f
}

func TestSubmitSendsLinkThenStoresAndNotifies(t *testing.T) {
	links, store, notifier := &fakeLinks{}, &fakeStore{}, &fakeNotifier{}
	s := NewSubmitter(links, store, notifier, zerolog.Nop())

	res, err := s.Submit(context.Background(), completeForm(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "req-1", res.RequestID)
	assert.Empty(t, res.Note)
	assert.Equal(t, []string{"jane@acme.io"}, links.sentTo)
	assert.Equal(t, user.UserTypeCompany, links.userType)
	assert.Equal(t, 1, store.calls)
	assert.Len(t, store.roles, 2)
	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, "req-1", notifier.id)
}

func TestSubmitValidationFailureSendsNothing(t *testing.T) {
	links, store := &fakeLinks{}, &fakeStore{}
	s := NewSubmitter(links, store, nil, zerolog.Nop())
	f := completeForm()
	f.WorkEmail = ""

	_, err := s.Submit(context.Background(), f, "", "")
	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Work email is required", verr.Errors["workEmail"])
	assert.Equal(t, "Please check the form for errors and try again.", err.Error())
	assert.Empty(t, links.sentTo)
	assert.Zero(t, store.calls)
}

func TestSubmitMagicLinkFailureAborts(t *testing.T) {
	links, store := &fakeLinks{err: errors.New("rate limited")}, &fakeStore{}
	s := NewSubmitter(links, store, nil, zerolog.Nop())

	_, err := s.Submit(context.Background(), completeForm(), "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
	assert.Zero(t, store.calls)
}

func TestSubmitStoreFailureStillSucceedsWithNote(t *testing.T) {
	links, store, notifier := &fakeLinks{}, &fakeStore{err: errors.New("db down")}, &fakeNotifier{}
	s := NewSubmitter(links, store, notifier, zerolog.Nop())

	res, err := s.Submit(context.Background(), completeForm(), "", "")
	require.NoError(t, err)
	assert.Equal(t, SaveFailedNote, res.Note)
	assert.Empty(t, res.RequestID)
	assert.Zero(t, notifier.calls)
}

func TestSubmitNotifierFailureIsIgnored(t *testing.T) {
	s := NewSubmitter(&fakeLinks{}, &fakeStore{}, &fakeNotifier{err: errors.New("telegram down")}, zerolog.Nop())

	res, err := s.Submit(context.Background(), completeForm(), "user-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "req-1", res.RequestID)
}

func TestPrepareForSubmission(t *testing.T) {
	f := completeForm()
	f.HasJobDescription = false
	f.JobDescription = "ignored"

	req, roles := PrepareForSubmission(f, "")
	require.NotNil(t, req.CompanyWebsite)
	assert.Equal(t, "https://acme.io", *req.CompanyWebsite)
	assert.Nil(t, req.UserID)
	assert.Nil(t, req.StartDate)
	assert.Equal(t, request.StatusAwaitingMatch, req.Status)
	require.Len(t, roles, 2)
	assert.Nil(t, roles[0].JobDescription)
	assert.Equal(t, 3, req.TotalDevelopers())

	start := time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC)
	f.IsASAP = false
	f.StartDate = &start
	f.CompanyWebsite = ""
	f.HasJobDescription = true
	f.JobDescription = "Ship it"
	req, roles = PrepareForSubmission(f, "user-1")
	assert.Nil(t, req.CompanyWebsite)
	require.NotNil(t, req.UserID)
	assert.Equal(t, "user-1", *req.UserID)
	require.NotNil(t, req.StartDate)
	assert.True(t, start.Equal(*req.StartDate))
	for _, r := range roles {
		require.NotNil(t, r.JobDescription)
		assert.Equal(t, "Ship it", *r.JobDescription)
	}
}

func TestPrepareForSubmissionKeepsEmptyJobDescriptionWhenChecked(t *testing.T) {
	f := DefaultFormData()
	f.HasJobDescription = true
	f.JobDescription = ""
	_, roles := PrepareForSubmission(f, "")
	require.Len(t, roles, 1)
	require.NotNil(t, roles[0].JobDescription)
	assert.Equal(t, "", *roles[0].JobDescription)
}
