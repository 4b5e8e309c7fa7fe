package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/uniwatch/uniwatch/internal/logger"
)

const loginTimeout = 30 * time.Second

// Credentials holds the account used against the login service.
type Credentials struct {
	Username string
	Password string
	LoginURL string
}

// Configured reports whether a login can be attempted.
func (c Credentials) Configured() bool {
	return c.Username != "" && c.Password != "" && c.LoginURL != ""
}

// CAS logs into a CAS-style single sign-on endpoint and keeps the
// resulting session cookies. Sessions are cached per service URL so
// repeated cycles reuse one login.
type CAS struct {
	creds Credentials
	log   logger.Interface

	mu       sync.Mutex
	sessions map[string]string
}

var _ Provider = (*CAS)(nil)

// NewCAS creates a login-backed provider.
func NewCAS(creds Credentials, log logger.Interface) *CAS {
	return &CAS{
		creds:    creds,
		log:      log.WithComponent("auth"),
		sessions: make(map[string]string),
	}
}

// CookieHeader returns a session cookie header for the service,
// performing the login flow on first use.
func (c *CAS) CookieHeader(ctx context.Context, serviceURL string) (string, error) {
	if !c.creds.Configured() {
		return "", ErrNotConfigured
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if header, ok := c.sessions[serviceURL]; ok {
		return header, nil
	}

	header, err := c.login(ctx, serviceURL)
	if err != nil {
		return "", err
	}
	c.sessions[serviceURL] = header
	return header, nil
}

// Reset drops all cached sessions, forcing fresh logins.
func (c *CAS) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions = make(map[string]string)
}

// login walks the form-based flow: fetch the login page, extract the
// flow execution token, submit credentials and collect the cookies the
// service hands back through the redirect chain.
func (c *CAS) login(ctx context.Context, serviceURL string) (string, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return "", fmt.Errorf("create cookie jar: %w", err)
	}
	client := &http.Client{Jar: jar, Timeout: loginTimeout}

	loginPage := c.creds.LoginURL + "?service=" + url.QueryEscape(serviceURL)

	form, action, err := c.fetchLoginForm(ctx, client, loginPage)
	if err != nil {
		return "", err
	}
	form.Set("username", c.creds.Username)
	form.Set("password", c.creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, action, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("%w: status %d", ErrLoginFailed, resp.StatusCode)
	}

	target, err := url.Parse(serviceURL)
	if err != nil {
		return "", fmt.Errorf("parse service url: %w", err)
	}
	header := cookieHeader(jar.Cookies(target))
	if header == "" {
		return "", fmt.Errorf("%w: no session cookies", ErrLoginFailed)
	}

	c.log.Info("login succeeded", "service", serviceURL)
	return header, nil
}

// fetchLoginForm loads the login page and returns the hidden form
// fields plus the URL the form posts to.
func (c *CAS) fetchLoginForm(ctx context.Context, client *http.Client, pageURL string) (url.Values, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create login page request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("parse login page: %w", err)
	}

	form := doc.Find("form").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return sel.Find(`input[name="username"]`).Length() > 0
	}).First()
	if form.Length() == 0 {
		return nil, "", ErrNoLoginForm
	}

	values := url.Values{}
	form.Find(`input[type="hidden"]`).Each(func(_ int, input *goquery.Selection) {
		name, ok := input.Attr("name")
		if !ok {
			return
		}
		values.Set(name, input.AttrOr("value", ""))
	})

	action := resp.Request.URL.String()
	if attr, ok := form.Attr("action"); ok && attr != "" {
		if resolved, perr := resp.Request.URL.Parse(attr); perr == nil {
			action = resolved.String()
		}
	}

	return values, action, nil
}

// cookieHeader joins cookies into a Cookie request header value.
func cookieHeader(cookies []*http.Cookie) string {
	pairs := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		pairs = append(pairs, ck.Name+"="+ck.Value)
	}
	return strings.Join(pairs, "; ")
}
