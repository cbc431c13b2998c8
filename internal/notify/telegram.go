package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/bot-api/telegram"
	"github.com/quibly/quibly/internal/request"
)

// Telegram posts new company requests to the admin channel
type Telegram struct {
	api       *telegram.API
	channelID int64
	adminURL  string
}

// NewTelegram returns nil when no api token is configured, a nil *Telegram
// silently drops notifications
func NewTelegram(apiToken string, channelID int64, adminURL string) *Telegram {
	if apiToken == "" {
		return nil
	}
	return &Telegram{api: telegram.New(apiToken), channelID: channelID, adminURL: adminURL}
}

func (t *Telegram) NotifyNewRequest(ctx context.Context, req request.CompanyRequest, roles []request.DeveloperRole) error {
	if t == nil {
		return nil
	}
	_, err := t.api.SendMessage(ctx, telegram.NewMessage(t.channelID, NewRequestMessage(req, roles, t.adminURL)))
	return err
}

func NewRequestMessage(req request.CompanyRequest, roles []request.DeveloperRole, adminURL string) string {
	var b strings.Builder
	suffix := "s"
	if len(roles) == 1 {
		suffix = ""
	}
	fmt.Fprintf(&b, "New request from %s – %d role%s\n\n", req.CompanyName, len(roles), suffix)
	for _, r := range roles {
		fmt.Fprintf(&b, "• %d× %s %s (%s)\n", r.NumberOfDevelopers, r.SeniorityLevel, r.RoleTitle, strings.Join(r.RequiredTechStack, ", "))
	}
	fmt.Fprintf(&b, "\n%s <%s>", req.ContactName, req.WorkEmail)
	if req.MonthlyBudget != "" {
		fmt.Fprintf(&b, "\nBudget %s per dev/month", req.MonthlyBudget)
	}
	if adminURL != "" {
		fmt.Fprintf(&b, "\n\n%s#%s", adminURL, req.Anchor())
	}
	return b.String()
}
