// Package api - HTTP-клиент SafeWalk API v1 для клиентских компонентов
package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	v1 "github.com/shenikar/safewalk/internal/handler/http/v1"
)

const defaultTimeout = 15 * time.Second

// Error - ответ сервера с кодом не 2xx; Message берется из поля "error" тела
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// IsStatus проверяет, что err - ответ сервера с указанным кодом
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient заменяет http.Client, например для тестов
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New создает клиент; baseURL включает префикс API, например http://localhost:8080/api/v1
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*v1.AuthResponse, error) {
	var resp v1.AuthResponse
	req := v1.RegisterRequest{Username: username, Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*v1.AuthResponse, error) {
	var resp v1.AuthResponse
	req := v1.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
}

func (c *Client) Me(ctx context.Context, token string) (*v1.UserResponse, error) {
	var resp v1.UserResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListContacts(ctx context.Context, token string) ([]*v1.ContactResponse, error) {
	var resp []*v1.ContactResponse
	if err := c.do(ctx, http.MethodGet, "/contacts", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) AddContact(ctx context.Context, token, name, phone string) (*v1.ContactResponse, error) {
	var resp v1.ContactResponse
	req := v1.ContactRequest{Name: name, Phone: phone}
	if err := c.do(ctx, http.MethodPost, "/contacts", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateContact(ctx context.Context, token string, id uuid.UUID, name, phone string) (*v1.ContactResponse, error) {
	var resp v1.ContactResponse
	req := v1.ContactRequest{Name: name, Phone: phone}
	if err := c.do(ctx, http.MethodPut, "/contacts/"+id.String(), token, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteContact(ctx context.Context, token string, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/contacts/"+id.String(), token, nil, nil)
}

func (c *Client) NearbyPlaces(ctx context.Context, token string, lat, lon, radius float64) (*v1.NearbyPlacesResponse, error) {
	var resp v1.NearbyPlacesResponse
	if err := c.do(ctx, http.MethodGet, "/places/nearby?"+locationQuery(lat, lon, radius).Encode(), token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Geocode(ctx context.Context, token, address string) (*v1.GeocodeResponse, error) {
	var resp v1.GeocodeResponse
	query := url.Values{"address": {address}}
	if err := c.do(ctx, http.MethodGet, "/geocode?"+query.Encode(), token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SendSOS(ctx context.Context, token string, lat, lon float64) (*v1.AlertResponse, error) {
	return c.sendAlert(ctx, "/alerts/sos", token, lat, lon)
}

func (c *Client) SendFalseAlarm(ctx context.Context, token string, lat, lon float64) (*v1.AlertResponse, error) {
	return c.sendAlert(ctx, "/alerts/false-alarm", token, lat, lon)
}

func (c *Client) sendAlert(ctx context.Context, path, token string, lat, lon float64) (*v1.AlertResponse, error) {
	var resp v1.AlertResponse
	req := v1.LocationRequest{Latitude: &lat, Longitude: &lon}
	if err := c.do(ctx, http.MethodPost, path, token, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateIncident(ctx context.Context, token string, req v1.CreateIncidentRequest) (uuid.UUID, error) {
	var resp v1.CreateIncidentResponse
	if err := c.do(ctx, http.MethodPost, "/incidents", token, req, &resp); err != nil {
		return uuid.Nil, err
	}
	return resp.ID, nil
}

func (c *Client) ListIncidents(ctx context.Context, token string, page, pageSize int) ([]*v1.IncidentResponse, error) {
	var resp []*v1.IncidentResponse
	query := url.Values{"page": {strconv.Itoa(page)}, "pageSize": {strconv.Itoa(pageSize)}}
	if err := c.do(ctx, http.MethodGet, "/incidents?"+query.Encode(), token, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) NearbyIncidents(ctx context.Context, token string, lat, lon, radius float64) ([]*v1.IncidentResponse, error) {
	var resp []*v1.IncidentResponse
	if err := c.do(ctx, http.MethodGet, "/incidents/nearby?"+locationQuery(lat, lon, radius).Encode(), token, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetIncident(ctx context.Context, token string, id uuid.UUID) (*v1.IncidentResponse, error) {
	var resp v1.IncidentResponse
	if err := c.do(ctx, http.MethodGet, "/incidents/"+id.String(), token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AddComment(ctx context.Context, token string, incidentID uuid.UUID, content string) (*v1.CommentResponse, error) {
	var resp v1.CommentResponse
	req := v1.CommentRequest{Content: content}
	if err := c.do(ctx, http.MethodPost, "/incidents/"+incidentID.String()+"/comments", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StreamIncidents читает живую ленту до отмены ctx, закрытия потока сервером или ошибки fn
func (c *Client) StreamIncidents(ctx context.Context, token string, fn func(kind string, event v1.FeedEventResponse) error) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/incidents/stream", token, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	// Таймаут клиента оборвал бы долгий поток, поэтому копия без него
	streamClient := *c.httpClient
	streamClient.Timeout = 0
	resp, err := streamClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to open incident stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	var kind string
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			kind = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			var event v1.FeedEventResponse
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data:")), &event); err != nil {
				return fmt.Errorf("failed to decode feed event: %w", err)
			}
			if err := fn(kind, event); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to read incident stream: %w", err)
	}
	return nil
}

func locationQuery(lat, lon, radius float64) url.Values {
	query := url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon": {strconv.FormatFloat(lon, 'f', -1, 64)},
	}
	if radius > 0 {
		query.Set("radius", strconv.FormatFloat(radius, 'f', -1, 64))
	}
	return query
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, token, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(raw))
	}
	if body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}
	return &Error{StatusCode: resp.StatusCode, Message: body.Error}
}
