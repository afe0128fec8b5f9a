package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hrportal-backend/internal/events"
)

// SlackClient posts reviewer notifications to an incoming webhook.
type SlackClient struct {
	webhookURL string
	baseURL    string
	client     *http.Client
}

type SlackMessage struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks"`
}

type Block struct {
	Type   string  `json:"type"`
	Text   *Text   `json:"text,omitempty"`
	Fields []*Text `json:"fields,omitempty"`
}

type Text struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

// NewSlackClient returns a client posting to webhookURL. baseURL is the
// public address of the portal, used to link the pending list.
func NewSlackClient(webhookURL, baseURL string) *SlackClient {
	return &SlackClient{
		webhookURL: webhookURL,
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

// Publish implements events.Publisher. Unknown event types are ignored.
func (c *SlackClient) Publish(ctx context.Context, _ string, event any) error {
	var message SlackMessage
	switch ev := event.(type) {
	case events.AccountRegistered:
		message = c.buildRegisteredMessage(ev)
	case events.AccountApproved:
		message = c.buildApprovedMessage(ev)
	default:
		return nil
	}
	return c.sendMessage(ctx, message)
}

func (c *SlackClient) buildRegisteredMessage(ev events.AccountRegistered) SlackMessage {
	summary := fmt.Sprintf("New HR registration awaiting review: %s (%s)", ev.Email, ev.CompanyName)

	blocks := []Block{
		{
			Type: "header",
			Text: &Text{Type: "plain_text", Text: "📝 HR account pending review", Emoji: true},
		},
		{
			Type: "section",
			Fields: []*Text{
				{Type: "mrkdwn", Text: "*Email:*\n" + ev.Email},
				{Type: "mrkdwn", Text: "*Company:*\n" + ev.CompanyName},
				{Type: "mrkdwn", Text: "*Document:*\n" + ev.VerificationDoc},
			},
		},
	}
	if c.baseURL != "" {
		blocks = append(blocks, Block{
			Type: "section",
			Text: &Text{Type: "mrkdwn", Text: fmt.Sprintf("<%s/admin/pending_hr|Open pending list>", c.baseURL)},
		})
	}

	return SlackMessage{Text: summary, Blocks: blocks}
}

func (c *SlackClient) buildApprovedMessage(ev events.AccountApproved) SlackMessage {
	summary := fmt.Sprintf("HR account %s approved", ev.AccountID)
	return SlackMessage{
		Text: summary,
		Blocks: []Block{
			{Type: "section", Text: &Text{Type: "mrkdwn", Text: "✅ " + summary}},
		},
	}
}

func (c *SlackClient) sendMessage(ctx context.Context, message SlackMessage) error {
	reqBody, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("slack error: %s", string(body))
	}

	return nil
}
