package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultAPIBase is the public GitHub REST endpoint.
const DefaultAPIBase = "https://api.github.com"

// maxAvatarBytes bounds avatar downloads.
const maxAvatarBytes = 4 << 20

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("github: %s: HTTP %d", e.URL, e.Code)
}

// Client is a minimal GitHub REST client.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// NewClient returns a client for base (DefaultAPIBase when empty). A
// non-empty token is sent as a bearer token.
func NewClient(base, token string, hc *http.Client) *Client {
	if base == "" {
		base = DefaultAPIBase
	}
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{base: strings.TrimRight(base, "/"), token: token, http: hc}
}

// Profile fetches GET /users/{user}.
func (c *Client) Profile(ctx context.Context, user string) (*Profile, error) {
	var p Profile
	if err := c.getJSON(ctx, "/users/"+url.PathEscape(user), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Repos lists the user's own repositories, most starred first.
func (c *Client) Repos(ctx context.Context, user string, n int) ([]Repo, error) {
	q := url.Values{}
	q.Set("sort", "stars")
	q.Set("direction", "desc")
	q.Set("per_page", strconv.Itoa(n))
	q.Set("type", "owner")

	var repos []Repo
	if err := c.getJSON(ctx, "/users/"+url.PathEscape(user)+"/repos", q, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// Avatar downloads the image at u.
func (c *Client) Avatar(ctx context.Context, u string) ([]byte, error) {
	resp, err := c.do(ctx, u, "image/*")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAvatarBytes))
	if err != nil {
		return nil, fmt.Errorf("github: read avatar: %w", err)
	}
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	resp, err := c.do(ctx, u, "application/vnd.github+json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("github: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, u, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("github: build request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", "lantern")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github: GET %s: %w", u, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{URL: u, Code: resp.StatusCode}
	}
	return resp, nil
}
