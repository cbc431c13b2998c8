package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const defaultBaseURL = "https://api.sendinblue.com"

var magicLinkTmpl = template.Must(template.New("magic-link").Parse(
	`<p>Hi,</p>
<p>Click the link below to sign in to {{.SiteName}}. The link can be used once.</p>
<p><a href="{{.Link}}">Sign in to {{.SiteName}}</a></p>
<p>If you did not ask for this email you can safely ignore it.</p>`))

type Client struct {
	senderAddress  string
	noReplyAddress string
	siteName       string
	client         *http.Client
	apiKey         string
	baseURL        string
}

type Address struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type EmailMessage struct {
	Sender      Address   `json:"sender"`
	To          []Address `json:"to"`
	Subject     string    `json:"subject"`
	ReplyTo     Address   `json:"replyTo,omitempty"`
	TextContent string    `json:"textContent,omitempty"`
	HtmlContent string    `json:"htmlContent,omitempty"`
}

func NewClient(apiKey, senderAddress, noReplyAddress, siteName string) Client {
	return Client{
		client:         &http.Client{Timeout: 10 * time.Second},
		apiKey:         apiKey,
		senderAddress:  senderAddress,
		siteName:       siteName,
		noReplyAddress: noReplyAddress,
		baseURL:        defaultBaseURL,
	}
}

func (e Client) SupportSenderAddress() string {
	return e.senderAddress
}

func (e Client) NoReplySenderAddress() string {
	return e.noReplyAddress
}

// SendMagicLink mails the sign on link to the given address
func (e Client) SendMagicLink(ctx context.Context, to, link string) error {
	var body bytes.Buffer
	err := magicLinkTmpl.Execute(&body, struct {
		SiteName string
		Link     string
	}{e.siteName, link})
	if err != nil {
		return errors.Wrap(err, "unable to render magic link email")
	}
	return e.SendHTMLEmail(
		ctx,
		Address{Name: e.siteName, Email: e.noReplyAddress},
		Address{Email: to},
		Address{Name: e.siteName, Email: e.senderAddress},
		fmt.Sprintf("Your %s sign in link", e.siteName),
		body.String(),
	)
}

func (e Client) SendHTMLEmail(ctx context.Context, from, to, replyTo Address, subject, text string) error {
	msg := EmailMessage{
		Sender:      from,
		ReplyTo:     replyTo,
		Subject:     subject,
		To:          []Address{to},
		HtmlContent: text,
	}
	reqData, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/v3/smtp/email", bytes.NewReader(reqData))
	if err != nil {
		return err
	}
	req.Header.Add("api-key", e.apiKey)
	req.Header.Add("content-type", "application/json")
	res, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		errBody, err := io.ReadAll(res.Body)
		if err != nil {
			errBody = []byte(`unable to read body`)
		}
		return fmt.Errorf("got status code %d when sending email: err %s", res.StatusCode, string(errBody))
	}
	return nil
}
