package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMagicLink(t *testing.T) {
	var got EmailMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/smtp/email", r.URL.Path)
		assert.Equal(t, "xkeysib", r.Header.Get("api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient("xkeysib", "support@quibly.io", "no-reply@quibly.io", "Quibly")
	c.baseURL = srv.URL

	require.NoError(t, c.SendMagicLink(context.Background(), "jane@acme.io", "https://quibly.io/verify?token=abc"))
	assert.Equal(t, "no-reply@quibly.io", got.Sender.Email)
	assert.Equal(t, "support@quibly.io", got.ReplyTo.Email)
	require.Len(t, got.To, 1)
	assert.Equal(t, "jane@acme.io", got.To[0].Email)
	assert.Equal(t, "Your Quibly sign in link", got.Subject)
	assert.Contains(t, got.HtmlContent, `href="https://quibly.io/verify?token=abc"`)
}

func TestSendHTMLEmailErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"unauthorized"}`))
	}))
	defer srv.Close()

	c := NewClient("bad", "support@quibly.io", "no-reply@quibly.io", "Quibly")
	c.baseURL = srv.URL

	err := c.SendHTMLEmail(context.Background(), Address{}, Address{Email: "jane@acme.io"}, Address{}, "hi", "<p>hi</p>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got status code 401")
	assert.Contains(t, err.Error(), "unauthorized")
}
