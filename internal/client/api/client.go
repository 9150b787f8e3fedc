// Package api implements the HTTP client for the RealHome server. The
// session cookie issued at signin is held in the client's cookie jar and
// sent automatically on subsequent calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// User is the server's public account view.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Listing mirrors the server's listing resource.
type Listing struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Address       string   `json:"address"`
	Type          string   `json:"type"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     int      `json:"bathrooms"`
	RegularPrice  int64    `json:"regularPrice"`
	DiscountPrice int64    `json:"discountPrice"`
	Offer         bool     `json:"offer"`
	Parking       bool     `json:"parking"`
	Furnished     bool     `json:"furnished"`
	ImageURLs     []string `json:"imageUrls"`
	UserRef       string   `json:"userRef"`
}

// ListingPayload is the creation request body.
type ListingPayload struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Address       string   `json:"address"`
	Type          string   `json:"type"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     int      `json:"bathrooms"`
	RegularPrice  int64    `json:"regularPrice"`
	DiscountPrice int64    `json:"discountPrice"`
	Offer         bool     `json:"offer"`
	Parking       bool     `json:"parking"`
	Furnished     bool     `json:"furnished"`
	ImageURLs     []string `json:"imageUrls"`
}

// UploadTicket is the server's answer to a presign request.
type UploadTicket struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
}

// APIError is a server-reported failure with its HTTP status and the
// user-visible message from the error envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}, nil
}

// HTTPClient exposes the underlying client (with its cookie jar) so other
// components, like the uploader, can reuse the same transport.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

func (c *Client) SignUp(ctx context.Context, username, email, password string) error {
	payload := map[string]string{"username": username, "email": email, "password": password}
	return c.post(ctx, "/api/auth/signup", payload, nil)
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*User, error) {
	payload := map[string]string{"email": email, "password": password}
	user := &User{}
	if err := c.post(ctx, "/api/auth/signin", payload, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Client) GoogleSignIn(ctx context.Context, email, name, photo string) (*User, error) {
	payload := map[string]string{"email": email, "name": name, "photo": photo}
	user := &User{}
	if err := c.post(ctx, "/api/auth/google", payload, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	return c.post(ctx, "/api/auth/signout", struct{}{}, nil)
}

func (c *Client) PresignUpload(ctx context.Context, fileName string, size int64) (*UploadTicket, error) {
	payload := map[string]any{"fileName": fileName, "size": size}
	ticket := &UploadTicket{}
	if err := c.post(ctx, "/api/upload/presign", payload, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (c *Client) CreateListing(ctx context.Context, payload ListingPayload) (*Listing, error) {
	listing := &Listing{}
	if err := c.post(ctx, "/api/listing/create", payload, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (c *Client) GetListing(ctx context.Context, id string) (*Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/listing/"+id, nil)
	if err != nil {
		return nil, err
	}

	listing := &Listing{}
	if err := c.do(req, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var envelope struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		if envelope.Message == "" {
			envelope.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.Message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
