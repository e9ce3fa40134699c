// Package client is a Go client for the GiftLink API. It keeps the session
// token and display name of the logged in user in a SessionStore and sends
// the token with every request.
package client

import (
	"bytes"
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

type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("giftlink: %d %s", e.Status, e.Message)
}

type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Name      string `json:"name"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Gift struct {
	ID          string  `json:"_id,omitempty"`
	AppID       string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Category    string  `json:"category,omitempty"`
	Condition   string  `json:"condition,omitempty"`
	AgeDays     int     `json:"age_days,omitempty"`
	AgeYears    float64 `json:"age_years,omitempty"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
	DateAdded   int64   `json:"date_added,omitempty"`
	CreatedBy   string  `json:"createdBy,omitempty"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// ProfileUpdate fields are only sent when non-empty
type ProfileUpdate struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Name      string `json:"name,omitempty"`
	Password  string `json:"password,omitempty"`
}

type SearchQuery struct {
	Name        string
	Category    string
	Condition   string
	MaxAgeYears *int
}

type Client struct {
	BaseURL  string
	HTTP     *http.Client
	Sessions SessionStore
}

func New(baseURL string, sessions SessionStore) *Client {
	if sessions == nil {
		sessions = &MemorySessionStore{}
	}

	return &Client{
		BaseURL:  strings.TrimSuffix(baseURL, "/"),
		HTTP:     &http.Client{Timeout: 30 * time.Second},
		Sessions: sessions,
	}
}

// Session returns the currently stored session
func (c *Client) Session() (Session, error) {
	return c.Sessions.Load()
}

func (c *Client) Register(ctx context.Context, r RegisterRequest) (*AuthResponse, error) {
	var res AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, r, &res); err != nil {
		return nil, err
	}

	return &res, c.login(&res)
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var res AuthResponse
	body := map[string]string{"email": email, "password": password}

	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &res); err != nil {
		return nil, err
	}

	return &res, c.login(&res)
}

// UpdateProfile edits the logged in user. The stored session is replaced
// with the freshly issued token.
func (c *Client) UpdateProfile(ctx context.Context, u ProfileUpdate) (*AuthResponse, error) {
	s, err := c.Sessions.Load()
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Email", s.Email)

	var res AuthResponse
	if err := c.do(ctx, http.MethodPut, "/api/auth/update", header, u, &res); err != nil {
		return nil, err
	}

	return &res, c.login(&res)
}

func (c *Client) Logout() error {
	return c.Sessions.Clear()
}

func (c *Client) Gifts(ctx context.Context) ([]Gift, error) {
	var gifts []Gift
	err := c.do(ctx, http.MethodGet, "/api/gifts", nil, nil, &gifts)
	return gifts, err
}

func (c *Client) Gift(ctx context.Context, id string) (*Gift, error) {
	var gift Gift
	if err := c.do(ctx, http.MethodGet, "/api/gifts/"+url.PathEscape(id), nil, nil, &gift); err != nil {
		return nil, err
	}

	return &gift, nil
}

func (c *Client) CreateGift(ctx context.Context, g Gift) (*Gift, error) {
	var gift Gift
	if err := c.do(ctx, http.MethodPost, "/api/gifts", nil, g, &gift); err != nil {
		return nil, err
	}

	return &gift, nil
}

func (c *Client) Search(ctx context.Context, q SearchQuery) ([]Gift, error) {
	v := url.Values{}

	if q.Name != "" {
		v.Set("name", q.Name)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Condition != "" {
		v.Set("condition", q.Condition)
	}
	if q.MaxAgeYears != nil {
		v.Set("age_years", strconv.Itoa(*q.MaxAgeYears))
	}

	path := "/api/search"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}

	var gifts []Gift
	err := c.do(ctx, http.MethodGet, path, nil, nil, &gifts)
	return gifts, err
}

func (c *Client) login(res *AuthResponse) error {
	name := strings.TrimSpace(res.User.FirstName + " " + res.User.LastName)

	return c.Sessions.Save(Session{
		Token:    res.Token,
		UserName: name,
		Email:    res.User.Email,
	})
}

func (c *Client) do(ctx context.Context, method, path string, header http.Header, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}

	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if s, err := c.Sessions.Load(); err == nil && s.IsLoggedIn() {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
		Errors  []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}

	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return apiErr
	}

	switch {
	case body.Message != "":
		apiErr.Message = body.Message
	case len(body.Errors) > 0:
		msgs := make([]string, len(body.Errors))
		for i, e := range body.Errors {
			msgs[i] = e.Message
		}
		apiErr.Message = strings.Join(msgs, "; ")
	}

	return apiErr
}
