package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/dinostories/internal/client/models"
)

// DefaultTimeout bounds every API call so a dead network cannot hang the
// network-attempt phase indefinitely.
const DefaultTimeout = 15 * time.Second

// TokenSource supplies the current bearer token, or "" when anonymous.
// The auth service implements it; injecting the source keeps the gateway
// free of ambient session state.
type TokenSource interface {
	Token() string
}

// HTTPClient talks to the story API over JSON and multipart HTTP.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
}

// NewHTTPClient returns a gateway for baseURL (e.g. "https://story-api.example.dev/v1").
// A nil client gets DefaultTimeout; a nil tokens source means requests are
// sent unauthenticated.
func NewHTTPClient(baseURL string, client *http.Client, tokens TokenSource) *HTTPClient {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), client: client, tokens: tokens}
}

// envelope is the common response wrapper of the story API.
type envelope struct {
	Error       bool            `json:"error"`
	Message     string          `json:"message"`
	LoginResult *LoginResult    `json:"loginResult,omitempty"`
	UserID      string          `json:"userId,omitempty"`
	ListStory   []models.Story `json:"listStory,omitempty"`
	Story       *models.Story  `json:"story,omitempty"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	env, err := c.postJSON(ctx, "/login", body)
	if err != nil {
		return nil, err
	}
	if env.LoginResult == nil {
		return nil, fmt.Errorf("login response missing loginResult")
	}
	return env.LoginResult, nil
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*RegisterResult, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	env, err := c.postJSON(ctx, "/register", body)
	if err != nil {
		return nil, err
	}
	return &RegisterResult{UserID: env.UserID, Message: env.Message}, nil
}

func (c *HTTPClient) Stories(ctx context.Context) ([]models.Story, error) {
	env, err := c.get(ctx, "/stories")
	if err != nil {
		return nil, err
	}
	result := make([]models.Story, 0, len(env.ListStory))
	for _, s := range env.ListStory {
		result = append(result, s.Normalize())
	}
	return result, nil
}

func (c *HTTPClient) Story(ctx context.Context, id string) (*models.Story, error) {
	env, err := c.get(ctx, "/stories/"+id)
	if err != nil {
		return nil, err
	}
	if env.Story == nil {
		return nil, fmt.Errorf("story response missing story")
	}
	s := env.Story.Normalize()
	return &s, nil
}

func (c *HTTPClient) CreateStory(ctx context.Context, req CreateStoryRequest) (*models.Story, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("description", req.Description); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if req.Lat != nil && req.Lon != nil {
		if err := mw.WriteField("lat", strconv.FormatFloat(*req.Lat, 'f', -1, 64)); err != nil {
			return nil, fmt.Errorf("failed to build multipart body: %w", err)
		}
		if err := mw.WriteField("lon", strconv.FormatFloat(*req.Lon, 'f', -1, 64)); err != nil {
			return nil, fmt.Errorf("failed to build multipart body: %w", err)
		}
	}
	if len(req.Photo) > 0 {
		name := req.PhotoName
		if name == "" {
			name = "photo.jpg"
		}
		fw, err := mw.CreateFormFile("photo", name)
		if err != nil {
			return nil, fmt.Errorf("failed to build multipart body: %w", err)
		}
		if _, err := fw.Write(req.Photo); err != nil {
			return nil, fmt.Errorf("failed to build multipart body: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}

	env, err := c.do(ctx, http.MethodPost, "/stories", &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	if env.Story != nil {
		s := env.Story.Normalize()
		return &s, nil
	}
	// the public API acknowledges creation without echoing the record
	s := models.Story{
		Description: req.Description,
		Lat:         req.Lat,
		Lon:         req.Lon,
	}.Normalize()
	return &s, nil
}

func (c *HTTPClient) get(ctx context.Context, path string) (*envelope, error) {
	return c.do(ctx, http.MethodGet, path, nil, "")
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, body any) (*envelope, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(b), "application/json")
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	var env envelope
	if len(data) > 0 {
		// tolerate non-JSON error pages, the status check below decides
		_ = json.Unmarshal(data, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Message: env.Message}
	}
	return &env, nil
}
