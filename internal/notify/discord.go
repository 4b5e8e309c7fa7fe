package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/uniwatch/uniwatch/internal/domain"
	"github.com/uniwatch/uniwatch/internal/logger"
)

const (
	defaultRequestTimeout = 10 * time.Second
	maxErrorBodyBytes     = 2048
)

// Discord delivers posts as Discord-compatible webhook embeds.
type Discord struct {
	client *http.Client
	log    logger.Interface
}

// Ensure Discord implements Notifier
var _ Notifier = (*Discord)(nil)

// NewDiscord creates a webhook notifier.
func NewDiscord(log logger.Interface) *Discord {
	return &Discord{
		client: &http.Client{Timeout: defaultRequestTimeout},
		log:    log.WithComponent("notify"),
	}
}

// webhookPayload is the body posted to the webhook endpoint.
type webhookPayload struct {
	Content  string  `json:"content,omitempty"`
	Username string  `json:"username,omitempty"`
	Embeds   []embed `json:"embeds,omitempty"`
}

type embed struct {
	Title       string       `json:"title,omitempty"`
	URL         string       `json:"url,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
	Author      *embedAuthor `json:"author,omitempty"`
	Thumbnail   *embedMedia  `json:"thumbnail,omitempty"`
	Fields      []embedField `json:"fields,omitempty"`
}

type embedAuthor struct {
	Name    string `json:"name"`
	URL     string `json:"url,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
}

type embedMedia struct {
	URL string `json:"url"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Deliver sends one post to the destination webhook.
func (d *Discord) Deliver(ctx context.Context, post domain.Post, dest Destination) error {
	payload := webhookPayload{
		Content:  roleMention(dest.Role),
		Username: dest.Username,
		Embeds:   []embed{embedFromPost(post)},
	}
	return d.post(ctx, dest.WebhookURL, payload)
}

// Report sends a plain operational failure message.
func (d *Discord) Report(ctx context.Context, dest Destination, message string) error {
	payload := webhookPayload{
		Content:  message,
		Username: dest.Username,
	}
	return d.post(ctx, dest.WebhookURL, payload)
}

// post marshals and sends one webhook payload.
func (d *Discord) post(ctx context.Context, webhookURL string, payload webhookPayload) error {
	if webhookURL == "" {
		return ErrNoWebhook
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	requestID := uuid.NewString()
	d.log.Debug("sending webhook message", "request_id", requestID)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		d.log.Error("webhook rejected message",
			"request_id", requestID,
			"status", resp.StatusCode,
			"body", string(detail),
		)
		return fmt.Errorf("%w: status %d", ErrDeliveryFailed, resp.StatusCode)
	}

	d.log.Debug("webhook message accepted", "request_id", requestID, "status", resp.StatusCode)
	return nil
}

// embedFromPost converts a domain post into the webhook embed shape.
func embedFromPost(p domain.Post) embed {
	e := embed{
		Title:       p.Title,
		URL:         p.URL,
		Description: p.Description,
		Color:       p.Color,
	}

	if !p.Timestamp.IsZero() {
		e.Timestamp = p.Timestamp.UTC().Format(time.RFC3339)
	}
	if p.Author != nil {
		e.Author = &embedAuthor{
			Name:    p.Author.Name,
			URL:     p.Author.URL,
			IconURL: p.Author.IconURL,
		}
	}
	if p.Thumbnail != "" {
		e.Thumbnail = &embedMedia{URL: p.Thumbnail}
	}
	for _, f := range p.Fields {
		e.Fields = append(e.Fields, embedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}

	return e
}

// roleMention formats a role ID as a mention, or "" for no role.
func roleMention(role string) string {
	if role == "" {
		return ""
	}
	return "<@&" + role + ">"
}
