// Package msgraph is the Microsoft Graph client backing both the OneDrive
// workbook lead store and the Outlook email channel.
package msgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/alexhuynh/fit-outreach/internal/entity"
)

type Client struct {
	tenantID     string
	clientID     string
	clientSecret string
	workbookID   string
	worksheet    string
	senderEmail  string
	senderName   string

	baseURL  string
	loginURL string
	http     *http.Client

	// mu guards the cached token; the client is shared between the HTTP
	// handlers and the scheduled worker in server mode.
	mu          sync.Mutex
	token       string
	tokenExpiry time.Time

	// appendMu serializes AppendRow's fetch-then-patch sequence.
	appendMu sync.Mutex
}

func NewClient(tenantID, clientID, clientSecret, workbookID, worksheet, senderEmail, senderName string) *Client {
	return &Client{
		tenantID:     tenantID,
		clientID:     clientID,
		clientSecret: clientSecret,
		workbookID:   workbookID,
		worksheet:    worksheet,
		senderEmail:  senderEmail,
		senderName:   senderName,
		baseURL:      "https://graph.microsoft.com/v1.0",
		loginURL:     "https://login.microsoftonline.com",
		http:         &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientForTest points the client at a stub server.
func NewClientForTest(baseURL, loginURL string) *Client {
	c := NewClient("tenant", "client", "secret", "wb", "Leads", "trainer@example.com", "Trainer")
	c.baseURL = baseURL
	c.loginURL = loginURL
	return c
}

// Authenticate acquires a client-credentials token. Called once at startup;
// a failure here is fatal.
func (c *Client) Authenticate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticateLocked(ctx)
}

// authenticateLocked requires c.mu held. Holding the lock across the token
// request single-flights the refresh: concurrent callers wait instead of
// racing for a new token.
func (c *Client) authenticateLocked(ctx context.Context) error {
	if c.tenantID == "" || c.clientID == "" || c.clientSecret == "" {
		return fmt.Errorf("graph credentials not configured")
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"scope":         {"https://graph.microsoft.com/.default"},
	}

	endpoint := fmt.Sprintf("%s/%s/oauth2/v2.0/token", c.loginURL, c.tenantID)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("graph token request failed: %w", err)
	}
	defer resp.Body.Close()

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return fmt.Errorf("graph token decode failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK || token.AccessToken == "" {
		return fmt.Errorf("graph auth failed (status %d): %s %s", resp.StatusCode, token.Error, token.ErrorDesc)
	}

	c.token = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	return nil
}

func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Refresh a minute early so a request never rides an expiring token.
	if c.token != "" && time.Until(c.tokenExpiry) > time.Minute {
		return c.token, nil
	}
	if err := c.authenticateLocked(ctx); err != nil {
		return "", err
	}
	return c.token, nil
}

// do performs one authenticated Graph request and returns the response body.
func (c *Client) do(ctx context.Context, method, endpoint string, payload any) ([]byte, int, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, 0, err
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("graph request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return body, resp.StatusCode, nil
}

func (c *Client) worksheetPath() string {
	// App-only tokens have no /me; go through the sender's drive.
	return fmt.Sprintf("/users/%s/drive/items/%s/workbook/worksheets('%s')", c.senderEmail, c.workbookID, c.worksheet)
}

// FetchRows returns the worksheet's used range, header row included.
func (c *Client) FetchRows(ctx context.Context) ([][]string, error) {
	body, status, err := c.do(ctx, "GET", c.worksheetPath()+"/usedRange", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("graph usedRange returned status %d: %s", status, string(body))
	}

	var result rangeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("graph usedRange decode failed: %w", err)
	}

	rows := make([][]string, 0, len(result.Values))
	for _, raw := range result.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			if cell == nil {
				row = append(row, "")
				continue
			}
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteFields patches one single-cell range per field. The workbook API has
// no multi-range transaction, so a failure mid-loop leaves a partial row.
func (c *Client) WriteFields(ctx context.Context, rowNumber int, fields map[int]string) error {
	for col, value := range fields {
		address := fmt.Sprintf("%c%d", 'A'+col, rowNumber)
		endpoint := fmt.Sprintf("%s/range(address='%s')", c.worksheetPath(), address)

		body, status, err := c.do(ctx, "PATCH", endpoint, rangePatch{Values: [][]string{{value}}})
		if err != nil {
			return err
		}
		if status != http.StatusOK {
			return fmt.Errorf("graph range patch %s returned status %d: %s", address, status, string(body))
		}
	}
	return nil
}

// AppendRow writes a full row right after the current used range. The
// fetch-then-patch is a read-modify-write, so appends are serialized per
// client; concurrent captures would otherwise target the same row.
func (c *Client) AppendRow(ctx context.Context, values []string) error {
	c.appendMu.Lock()
	defer c.appendMu.Unlock()

	rows, err := c.FetchRows(ctx)
	if err != nil {
		return err
	}
	next := len(rows) + 1

	address := fmt.Sprintf("A%d:%c%d", next, 'A'+len(values)-1, next)
	endpoint := fmt.Sprintf("%s/range(address='%s')", c.worksheetPath(), address)

	body, status, err := c.do(ctx, "PATCH", endpoint, rangePatch{Values: [][]string{values}})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("graph append returned status %d: %s", status, string(body))
	}
	return nil
}

// Send delivers one email through the sender's mailbox. Graph answers 202
// on success.
func (c *Client) Send(ctx context.Context, msg entity.OutboundEmail) error {
	headers := make([]messageHeader, 0, len(msg.Headers))
	for name, value := range msg.Headers {
		headers = append(headers, messageHeader{Name: name, Value: value})
	}

	payload := sendMailRequest{
		Message: graphMessage{
			Subject: msg.Subject,
			Body:    messageBody{ContentType: "HTML", Content: msg.HTMLBody},
			ToRecipients: []recipient{
				{EmailAddress: emailAddress{Address: msg.To}},
			},
			From: &recipient{
				EmailAddress: emailAddress{Address: c.senderEmail, Name: c.senderName},
			},
			InternetMessageHeaders: headers,
		},
		SaveToSentItems: true,
	}

	endpoint := fmt.Sprintf("/users/%s/sendMail", c.senderEmail)
	body, status, err := c.do(ctx, "POST", endpoint, payload)
	if err != nil {
		return err
	}
	if status != http.StatusAccepted {
		return fmt.Errorf("graph sendMail returned status %d: %s", status, string(body))
	}
	return nil
}

// ListInbound fetches inbox messages received since the given time. The
// reply type is left empty; classification happens in the scanner.
func (c *Client) ListInbound(ctx context.Context, since time.Time) ([]entity.Reply, error) {
	params := url.Values{
		"$top":     {"50"},
		"$orderby": {"receivedDateTime desc"},
		"$filter":  {fmt.Sprintf("receivedDateTime ge %s", since.UTC().Format(time.RFC3339))},
	}
	endpoint := fmt.Sprintf("/users/%s/mailFolders/inbox/messages?%s", c.senderEmail, params.Encode())

	body, status, err := c.do(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("graph inbox listing returned status %d: %s", status, string(body))
	}

	var result listMessagesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("graph inbox decode failed: %w", err)
	}

	replies := make([]entity.Reply, 0, len(result.Value))
	for _, msg := range result.Value {
		received, _ := time.Parse(time.RFC3339, msg.ReceivedDateTime)
		replies = append(replies, entity.Reply{
			Channel:    entity.ChannelEmail,
			From:       msg.From.EmailAddress.Address,
			Subject:    msg.Subject,
			Body:       msg.Body.Content,
			MessageID:  msg.ID,
			ReceivedAt: received,
		})
	}
	return replies, nil
}
