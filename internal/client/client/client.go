package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

// Client is the files API as seen by the CLI.
type Client interface {
	Register(ctx context.Context, email, password string) (*models.UserView, error)
	Connect(ctx context.Context, email, password string) (string, error)
	Disconnect(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*models.UserView, error)
	Upload(ctx context.Context, token string, req models.UploadRequest) (*models.FileView, error)
	Show(ctx context.Context, token, id string) (*models.FileView, error)
	List(ctx context.Context, token, parentID string, page int) ([]models.FileView, error)
	Publish(ctx context.Context, token, id string) (*models.FileView, error)
	Unpublish(ctx context.Context, token, id string) (*models.FileView, error)
	Data(ctx context.Context, token, id, size string) (*Content, error)
	Status(ctx context.Context) (*Status, error)
}

// Content is a downloaded payload.
type Content struct {
	ContentType string
	Data        []byte
}

// Status mirrors GET /status.
type Status struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

// HTTPClient implements Client over net/http.
type HTTPClient struct {
	base       *url.URL
	httpClient *http.Client
}

func NewHTTPClient(server string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(server, "/"))
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", server)
	}
	return &HTTPClient{base: u, httpClient: &http.Client{Timeout: timeout}}, nil
}

func (c *HTTPClient) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, token string, body any, header http.Header) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), rd)
	if err != nil {
		return nil, err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.TokenHeaderName, token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var eb struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&eb) == nil {
			apiErr.Reason = eb.Error
		}
		return nil, apiErr
	}

	return resp, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, query url.Values, token string, body, out any) error {
	resp, err := c.do(ctx, method, path, query, token, body, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) (*models.UserView, error) {
	var u models.UserView
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/users", nil, "", body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Connect exchanges credentials for a session token.
func (c *HTTPClient) Connect(ctx context.Context, email, password string) (string, error) {
	basic := "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
	resp, err := c.do(ctx, http.MethodGet, "/connect", nil, "", nil, http.Header{"Authorization": {basic}})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode connect: %w", err)
	}
	if out.Token == "" {
		return "", errors.New("server returned an empty token")
	}
	return out.Token, nil
}

func (c *HTTPClient) Disconnect(ctx context.Context, token string) error {
	return c.doJSON(ctx, http.MethodGet, "/disconnect", nil, token, nil, nil)
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*models.UserView, error) {
	var u models.UserView
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, token, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Upload(ctx context.Context, token string, req models.UploadRequest) (*models.FileView, error) {
	var f models.FileView
	if err := c.doJSON(ctx, http.MethodPost, "/files", nil, token, req, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *HTTPClient) Show(ctx context.Context, token, id string) (*models.FileView, error) {
	var f models.FileView
	if err := c.doJSON(ctx, http.MethodGet, "/files/"+url.PathEscape(id), nil, token, nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *HTTPClient) List(ctx context.Context, token, parentID string, page int) ([]models.FileView, error) {
	q := url.Values{}
	if parentID != "" {
		q.Set("parentId", parentID)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	var list []models.FileView
	if err := c.doJSON(ctx, http.MethodGet, "/files", q, token, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) Publish(ctx context.Context, token, id string) (*models.FileView, error) {
	var f models.FileView
	if err := c.doJSON(ctx, http.MethodPut, "/files/"+url.PathEscape(id)+"/publish", nil, token, nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *HTTPClient) Unpublish(ctx context.Context, token, id string) (*models.FileView, error) {
	var f models.FileView
	if err := c.doJSON(ctx, http.MethodPut, "/files/"+url.PathEscape(id)+"/unpublish", nil, token, nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Data downloads the content of id, or of its size variant when size is set.
func (c *HTTPClient) Data(ctx context.Context, token, id, size string) (*Content, error) {
	q := url.Values{}
	if size != "" {
		q.Set("size", size)
	}
	resp, err := c.do(ctx, http.MethodGet, "/files/"+url.PathEscape(id)+"/data", q, token, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return &Content{ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}

func (c *HTTPClient) Status(ctx context.Context) (*Status, error) {
	var st Status
	if err := c.doJSON(ctx, http.MethodGet, "/status", nil, "", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}
