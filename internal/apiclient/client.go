// Package apiclient is a client for the ocpctl cluster-management API.
package apiclient

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

	"github.com/tsanders-rh/ocpconsole/pkg/types"
)

const (
	clustersPath = "/api/v1/clusters"
	versionsPath = "/api/v1/openshift-versions"

	// listPageSize is the largest page the API accepts
	listPageSize = 100
)

// Config holds client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls the cluster-management API. Calls are attempted once.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
}

// New creates a client for the API at cfg.BaseURL
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse API URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("API URL %q must be absolute", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// WithToken returns a copy of the client that authenticates with token
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

type tokenKey struct{}

// ContextWithToken attaches the caller's access token to ctx. A token in the
// context takes precedence over the client's own.
func ContextWithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func (c *Client) tokenFor(ctx context.Context) string {
	if token, ok := ctx.Value(tokenKey{}).(string); ok {
		return token
	}
	return c.token
}

// paginatedClusters mirrors the API's paginated list response
type paginatedClusters struct {
	Data       []types.Cluster `json:"data"`
	Pagination struct {
		Page       int `json:"page"`
		PerPage    int `json:"per_page"`
		Total      int `json:"total"`
		TotalPages int `json:"total_pages"`
	} `json:"pagination"`
}

// ListClusters returns every cluster visible to the caller
func (c *Client) ListClusters(ctx context.Context) ([]types.Cluster, error) {
	var clusters []types.Cluster

	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(listPageSize))

		var resp paginatedClusters
		if err := c.do(ctx, http.MethodGet, clustersPath, q, nil, &resp); err != nil {
			return nil, fmt.Errorf("list clusters: %w", err)
		}

		clusters = append(clusters, resp.Data...)

		if len(resp.Data) == 0 || page >= resp.Pagination.TotalPages {
			break
		}
	}

	return clusters, nil
}

// CreateCluster creates a cluster record
func (c *Client) CreateCluster(ctx context.Context, params types.ClusterCreateParams) (*types.Cluster, error) {
	var cluster types.Cluster
	if err := c.do(ctx, http.MethodPost, clustersPath, nil, params, &cluster); err != nil {
		return nil, fmt.Errorf("create cluster: %w", err)
	}
	if cluster.ID == "" {
		return nil, fmt.Errorf("create cluster: response carries no cluster ID")
	}
	return &cluster, nil
}

// ListOpenshiftVersions returns the platform versions clusters can be created with
func (c *Client) ListOpenshiftVersions(ctx context.Context) ([]types.OpenshiftVersion, error) {
	var resp struct {
		Versions []types.OpenshiftVersion `json:"versions"`
	}
	if err := c.do(ctx, http.MethodGet, versionsPath, nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("list OpenShift versions: %w", err)
	}
	return resp.Versions, nil
}

// Ping checks the API health endpoint
func (c *Client) Ping(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, nil); err != nil {
		return fmt.Errorf("ping API: %w", err)
	}
	return nil
}

// do sends a request and decodes a JSON response into out. Non-2xx
// responses are returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	u.RawQuery = query.Encode()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokenFor(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
