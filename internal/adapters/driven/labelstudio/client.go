// Package labelstudio implements the remote project ports against the Label
// Studio HTTP API.
package labelstudio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/variantlabs/annosync/internal/core/domain"
	"github.com/variantlabs/annosync/internal/core/ports/driven"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// requestRate is the client-side throttle, in requests per second. Label
	// Studio publishes no rate-limit headers, so the client throttles
	// proactively.
	requestRate = 10

	// requestBurst is the throttle's burst allowance.
	requestBurst = 5
)

// Ensure Client implements the interface.
var _ driven.ProjectService = (*Client)(nil)

// Client is a Label Studio API client. It authenticates every request with
// the configured API token and throttles proactively.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	limiter *rate.Limiter
}

// NewClient creates a client for a Label Studio server.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: trimSlash(baseURL),
		token:   token,
		httpc:   &http.Client{Timeout: DefaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(requestRate), requestBurst),
	}
}

// GetProject resolves an existing project, fetching its parameters. An
// unreachable server or a missing project yields domain.ErrConnectivity.
func (c *Client) GetProject(ctx context.Context, id int) (driven.Project, error) {
	var params domain.ProjectParams
	status, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/projects/%d/", id), nil, nil, &params)
	if err != nil || status != http.StatusOK {
		return nil, fmt.Errorf("%w: could not locate project %d (cannot connect to server or project no longer exists)",
			domain.ErrConnectivity, id)
	}
	return &project{client: c, params: params}, nil
}

// CreateProject creates a new project with the given title and label config.
func (c *Client) CreateProject(ctx context.Context, title, labelConfig string) (driven.Project, error) {
	body, err := json.Marshal(map[string]string{
		"title":        title,
		"label_config": labelConfig,
	})
	if err != nil {
		return nil, fmt.Errorf("encode project: %w", err)
	}
	var params domain.ProjectParams
	status, err := c.do(ctx, http.MethodPost, "/api/projects/", nil, jsonBody(body), &params)
	if err != nil {
		return nil, fmt.Errorf("%w: create project: %v", domain.ErrConnectivity, err)
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return nil, fmt.Errorf("create project: server returned %d", status)
	}
	return &project{client: c, params: params}, nil
}

// requestBody carries a request payload and its content type.
type requestBody struct {
	reader      io.Reader
	contentType string
}

func jsonBody(b []byte) *requestBody {
	return &requestBody{reader: bytes.NewReader(b), contentType: "application/json"}
}

// do executes one API request: throttle, authenticate, send, decode. The
// response status is returned alongside any transport error so callers can
// react to statuses like the 404 that ends task pagination. A non-2xx status
// is not itself an error here.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body *requestBody, out any) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		reader = body.reader
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", body.contentType)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// pageQuery builds the pagination query parameters.
func pageQuery(page, pageSize int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	return q
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
