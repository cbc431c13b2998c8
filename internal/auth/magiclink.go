package auth

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

type TokenStore interface {
	SaveTokenSignOn(email, token, userType string) error
}

type Mailer interface {
	SendMagicLink(ctx context.Context, to, link string) error
}

// MagicLinks issues single use sign on tokens and mails them as links to /verify
type MagicLinks struct {
	tokens  TokenStore
	mailer  Mailer
	siteURL func(path string) string
}

func NewMagicLinks(tokens TokenStore, mailer Mailer, siteURL func(path string) string) *MagicLinks {
	return &MagicLinks{tokens: tokens, mailer: mailer, siteURL: siteURL}
}

func (m *MagicLinks) SendMagicLink(ctx context.Context, email, userType string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	k, err := ksuid.NewRandom()
	if err != nil {
		return errors.Wrap(err, "unable to generate token")
	}
	if err := m.tokens.SaveTokenSignOn(email, k.String(), userType); err != nil {
		return errors.Wrap(err, "unable to save sign on token")
	}
	return m.mailer.SendMagicLink(ctx, email, m.Link(k.String()))
}

func (m *MagicLinks) Link(token string) string {
	return m.siteURL("/verify?token=" + url.QueryEscape(token))
}
