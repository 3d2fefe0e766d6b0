// Package twilio is a minimal Twilio REST client for the SMS channel:
// send a message, list inbound messages, verify credentials.
package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexhuynh/fit-outreach/internal/entity"
)

type Client struct {
	accountSID string
	authToken  string
	fromNumber string
	baseURL    string
	http       *http.Client
}

func NewClient(accountSID, authToken, fromNumber string) *Client {
	return &Client{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		baseURL:    "https://api.twilio.com/2010-04-01",
		http:       &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientForTest points the client at a stub server.
func NewClientForTest(baseURL string) *Client {
	c := NewClient("AC_test", "token", "+15555550100")
	c.baseURL = baseURL
	return c
}

// Authenticate verifies the credentials by fetching the account. Called
// once at startup; a failure here is fatal.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.accountSID == "" || c.authToken == "" {
		return fmt.Errorf("twilio credentials not configured")
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("twilio account fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("twilio auth failed (status %d): %s", resp.StatusCode, string(body))
	}

	var account accountResponse
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return fmt.Errorf("twilio account decode failed: %w", err)
	}
	return nil
}

// Send delivers one SMS and returns the provider message SID.
func (c *Client) Send(ctx context.Context, to, body string) (string, error) {
	form := url.Values{
		"To":   {to},
		"From": {c.fromNumber},
		"Body": {body},
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("twilio send failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return "", fmt.Errorf("twilio rejected message (code %d): %s", apiErr.Code, apiErr.Message)
		}
		return "", fmt.Errorf("twilio send returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var msg messageResponse
	if err := json.Unmarshal(respBody, &msg); err != nil {
		return "", fmt.Errorf("twilio response decode failed: %w", err)
	}
	if msg.ErrorCode != nil {
		return "", fmt.Errorf("twilio message error %d: %s", *msg.ErrorCode, msg.ErrorMessage)
	}
	return msg.SID, nil
}

// ListInbound fetches messages sent to our number since the given time.
func (c *Client) ListInbound(ctx context.Context, since time.Time) ([]entity.Reply, error) {
	params := url.Values{
		"To":        {c.fromNumber},
		"DateSent>": {since.UTC().Format("2006-01-02")},
		"PageSize":  {"100"},
	}
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json?%s", c.baseURL, c.accountSID, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twilio message listing failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("twilio message listing returned status %d: %s", resp.StatusCode, string(body))
	}

	var result listMessagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("twilio listing decode failed: %w", err)
	}

	replies := make([]entity.Reply, 0, len(result.Messages))
	for _, msg := range result.Messages {
		received, _ := time.Parse(time.RFC1123Z, msg.DateSent)
		replies = append(replies, entity.Reply{
			Channel:    entity.ChannelSMS,
			From:       msg.From,
			Body:       msg.Body,
			MessageID:  msg.SID,
			ReceivedAt: received,
		})
	}
	return replies, nil
}
