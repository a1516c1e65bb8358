package helpdesk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	ErrNotConfigured = errors.New("helpdesk not configured")
	ErrNotFound      = errors.New("ticket not found")
)

// maxPages bounds how many list pages one ListTickets call follows.
const maxPages = 10

// Options configures a Client. APIToken takes precedence over client
// credentials.
type Options struct {
	BaseURL      string
	APIToken     string
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// Client reads tickets from a Zendesk-style REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds an authenticated client. It returns ErrNotConfigured when
// the base URL or credentials are missing.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, ErrNotConfigured
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid helpdesk base url: %w", err)
	}

	var ts oauth2.TokenSource
	switch {
	case strings.TrimSpace(opts.APIToken) != "":
		ts = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: strings.TrimSpace(opts.APIToken), TokenType: "Bearer"})
	case opts.ClientID != "" && opts.ClientSecret != "" && opts.TokenURL != "":
		cc := &clientcredentials.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			TokenURL:     opts.TokenURL,
			Scopes:       []string{"read"},
		}
		ts = cc.TokenSource(ctx)
	default:
		return nil, ErrNotConfigured
	}

	return &Client{baseURL: base, http: oauth2.NewClient(ctx, ts)}, nil
}

// ListTickets returns tickets across pages, newest pages last.
func (c *Client) ListTickets(ctx context.Context) ([]Ticket, error) {
	next := c.baseURL + "/api/v2/tickets.json"
	tickets := []Ticket{}
	for page := 0; next != "" && page < maxPages; page++ {
		var resp ticketListResponse
		if err := c.getJSON(ctx, next, &resp); err != nil {
			return nil, err
		}
		for _, w := range resp.Tickets {
			tickets = append(tickets, w.toTicket())
		}
		next = ""
		if resp.NextPage != nil {
			next = *resp.NextPage
		}
	}
	return tickets, nil
}

// GetTicket returns one ticket by id.
func (c *Client) GetTicket(ctx context.Context, id string) (Ticket, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Ticket{}, ErrNotFound
	}
	var resp ticketResponse
	if err := c.getJSON(ctx, c.baseURL+"/api/v2/tickets/"+url.PathEscape(id)+".json", &resp); err != nil {
		return Ticket{}, err
	}
	return resp.Ticket.toTicket(), nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("helpdesk request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("helpdesk status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode helpdesk response: %w", err)
	}
	return nil
}
