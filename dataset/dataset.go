// (c) Copyright ZeroEval Inc. 2026

// Package dataset provides a client for ZeroEval datasets and experiments.
// Datasets are versioned collections of rows stored in a workspace; an
// experiment applies a task and a set of evaluators over a dataset's rows and
// reports the results back to the workspace.
package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/zeroeval/zeroeval-go"
	"github.com/zeroeval/zeroeval-go/logger"
)

const defaultBaseURL = "https://api.zeroeval.com"

// maxResponseBodySize caps response body reads to prevent unbounded memory
// allocation from rogue responses.
const maxResponseBodySize int64 = 10 * 1024 * 1024

// Row is a single dataset record. Keys are column names.
type Row map[string]interface{}

// Dataset is a versioned collection of rows stored in a workspace
type Dataset struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Version     int    `json:"version,omitempty"`
	Rows        []Row  `json:"rows,omitempty"`
}

// Client calls the ZeroEval dataset and experiment endpoints
type Client struct {
	apiKey      string
	baseURL     string
	workspaceID string
	client      *http.Client
	logger      zeroeval.LeveledLogger

	mu sync.Mutex
}

// NewClient creates a dataset client configured from the ZEROEVAL_API_KEY,
// ZEROEVAL_API_URL and ZEROEVAL_WORKSPACE_ID environment variables. The
// workspace is discovered from the API key on first use if not provided.
func NewClient() *Client {
	baseURL := os.Getenv("ZEROEVAL_API_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		apiKey:      os.Getenv("ZEROEVAL_API_KEY"),
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		workspaceID: os.Getenv("ZEROEVAL_WORKSPACE_ID"),
		client:      &http.Client{},
		logger:      logger.New(nil),
	}
}

// WithAPIKey sets the API key for the client
func (c *Client) WithAPIKey(apiKey string) *Client {
	c.apiKey = apiKey
	return c
}

// WithBaseURL sets the base URL of the API
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

// WithWorkspaceID sets the workspace the client operates on, skipping discovery
func (c *Client) WithWorkspaceID(workspaceID string) *Client {
	c.workspaceID = workspaceID
	return c
}

// WithHTTPClient sets a custom HTTP client
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.client = httpClient
	return c
}

// WithLogger sets the logger used by the client
func (c *Client) WithLogger(l zeroeval.LeveledLogger) *Client {
	c.logger = l
	return c
}

// Create registers a new dataset in the workspace. Rows provided on the
// dataset are uploaded as version 1.
func (c *Client) Create(ctx context.Context, ds Dataset) (*Dataset, error) {
	if ds.Name == "" {
		return nil, fmt.Errorf("dataset name is required")
	}

	path, err := c.workspacePath(ctx, "datasets")
	if err != nil {
		return nil, err
	}

	var created Dataset
	if err := c.postJSON(ctx, path, ds, &created); err != nil {
		return nil, fmt.Errorf("failed to create dataset %q: %w", ds.Name, err)
	}

	return &created, nil
}

// Push appends rows to the named dataset, producing a new version. It returns
// the dataset descriptor with the new version number.
func (c *Client) Push(ctx context.Context, name string, rows []Row) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows to push")
	}

	path, err := c.workspacePath(ctx, "datasets/"+url.PathEscape(name)+"/rows")
	if err != nil {
		return nil, err
	}

	payload := struct {
		Rows []Row `json:"rows"`
	}{Rows: rows}

	var ds Dataset
	if err := c.postJSON(ctx, path, payload, &ds); err != nil {
		return nil, fmt.Errorf("failed to push rows to dataset %q: %w", name, err)
	}

	return &ds, nil
}

// Pull fetches the named dataset with its rows. A version of 0 fetches the
// latest version.
func (c *Client) Pull(ctx context.Context, name string, version int) (*Dataset, error) {
	path, err := c.workspacePath(ctx, "datasets/"+url.PathEscape(name))
	if err != nil {
		return nil, err
	}

	if version > 0 {
		path += "?version=" + strconv.Itoa(version)
	}

	var ds Dataset
	if err := c.getJSON(ctx, path, &ds); err != nil {
		return nil, fmt.Errorf("failed to pull dataset %q: %w", name, err)
	}

	return &ds, nil
}

// workspacePath resolves the workspace-scoped path for the given suffix,
// discovering the workspace from the API key if necessary
func (c *Client) workspacePath(ctx context.Context, suffix string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.workspaceID == "" {
		var ws struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}

		if err := c.getJSON(ctx, "/v1/workspaces/current", &ws); err != nil {
			return "", fmt.Errorf("failed to discover workspace: %w", err)
		}

		c.logger.Debug("discovered workspace ", ws.ID, " (", ws.Name, ")")
		c.workspaceID = ws.ID
	}

	return "/workspaces/" + c.workspaceID + "/" + suffix, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body interface{}, out interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error marshaling body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if c.apiKey == "" {
		return fmt.Errorf("API key is not set")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpClient := c.client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	res, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer res.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBodySize))
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("non-2xx status %d: %s", res.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("error unmarshaling response body (status %d): %w", res.StatusCode, err)
	}

	return nil
}
