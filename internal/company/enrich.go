package company

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/quibly/quibly/internal/request"
	"github.com/rs/zerolog"
)

// Info is what can be learned about a company from its website
type Info struct {
	Description string
	Twitter     string
	Github      string
	Linkedin    string
}

// Summary is the text stored alongside the request and shown to admins
func (i Info) Summary() string {
	lines := make([]string, 0, 4)
	if i.Description != "" {
		lines = append(lines, i.Description)
	}
	if i.Twitter != "" {
		lines = append(lines, "Twitter: "+i.Twitter)
	}
	if i.Github != "" {
		lines = append(lines, "GitHub: "+i.Github)
	}
	if i.Linkedin != "" {
		lines = append(lines, "LinkedIn: "+i.Linkedin)
	}
	return strings.Join(lines, "\n")
}

// Parse extracts the description meta tag, falling back to the page title, and social links
func Parse(r io.Reader) (Info, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Info{}, err
	}
	info := Info{Description: strings.TrimSpace(doc.Find("title").First().Text())}
	doc.Find("meta").Each(func(i int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		if name == "" {
			name, _ = s.Attr("property")
		}
		content, _ := s.Attr("content")
		content = strings.TrimSpace(content)
		if content == "" {
			return
		}
		switch {
		case strings.EqualFold(name, "description"):
			info.Description = content
		case strings.EqualFold(name, "twitter:site"):
			info.Twitter = "https://twitter.com/" + strings.Trim(content, "@")
		}
	})
	doc.Find("a").Each(func(i int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		switch {
		case info.Github == "" && strings.Contains(href, "github.com/"):
			info.Github = href
		case info.Linkedin == "" && strings.Contains(href, "linkedin.com/"):
			info.Linkedin = href
		case info.Twitter == "" && strings.Contains(href, "twitter.com/"):
			info.Twitter = href
		}
	})
	return info, nil
}

type Enricher struct {
	client *http.Client
	log    zerolog.Logger
}

// ErrForbiddenAddress is returned when a website resolves to a non public address
var ErrForbiddenAddress = errors.New("address is not publicly routable")

// NewEnricher uses client as is, a nil client gets one that only dials public addresses
func NewEnricher(client *http.Client, log zerolog.Logger) *Enricher {
	if client == nil {
		client = PublicClient(15 * time.Second)
	}
	return &Enricher{client: client, log: log}
}

// PublicClient refuses connections to loopback, private, link local and
// unspecified addresses. The check runs on the resolved ip so redirects and
// dns names pointing inside the network are caught too
func PublicClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout: 5 * time.Second,
		Control: func(network, address string, _ syscall.RawConn) error {
			host, _, err := net.SplitHostPort(address)
			if err != nil {
				return err
			}
			if !IsPublicIP(net.ParseIP(host)) {
				return errors.Wrapf(ErrForbiddenAddress, "dial %s", address)
			}
			return nil
		},
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	return &http.Client{Timeout: timeout, Transport: transport}
}

func IsPublicIP(ip net.IP) bool {
	if ip == nil {
		return false
	}
	return !(ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast())
}

func (e *Enricher) Fetch(ctx context.Context, url string) (Info, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return Info{}, fmt.Errorf("unsupported website url %q", url)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Info{}, err
	}
	req.Header.Set("User-Agent", "quibly-enrich/1.0")
	res, err := e.client.Do(req)
	if err != nil {
		return Info{}, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return Info{}, fmt.Errorf("GET %s: status code error: %d %s", url, res.StatusCode, res.Status)
	}
	return Parse(io.LimitReader(res.Body, 2<<20))
}

type SummaryStore interface {
	RequestsMissingSummary(limit int) ([]request.CompanyRequest, error)
	SaveCompanySummary(id, summary string) error
}

// Run enriches up to limit requests that have a website but no summary.
// Returns how many summaries were saved
func (e *Enricher) Run(ctx context.Context, store SummaryStore, limit int) (int, error) {
	reqs, err := store.RequestsMissingSummary(limit)
	if err != nil {
		return 0, err
	}
	e.log.Info().Int("requests", len(reqs)).Msg("enriching company requests")
	saved := 0
	for _, req := range reqs {
		if req.CompanyWebsite == nil {
			continue
		}
		info, err := e.Fetch(ctx, *req.CompanyWebsite)
		if err != nil {
			e.log.Warn().Err(err).Str("request_id", req.ID).Msg("unable to fetch company website")
			continue
		}
		summary := info.Summary()
		if summary == "" {
			continue
		}
		if err := store.SaveCompanySummary(req.ID, summary); err != nil {
			e.log.Error().Err(err).Str("request_id", req.ID).Msg("unable to save company summary")
			continue
		}
		saved++
	}
	return saved, nil
}
