// (c) Copyright ZeroEval Inc. 2026

// Package gateway provides a client for the ZeroEval LLM gateway: an
// OpenAI-compatible chat completions surface with multi-provider model access
// and A/B test traffic splitting behind the /proxy endpoint.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const (
	defaultBaseURL = "https://api.zeroeval.com"

	chatCompletionsEndpoint = "/v1/chat/completions"
	modelsEndpoint          = "/v1/models"

	proxyChatCompletionsEndpoint = "/proxy/chat/completions"
	proxyModelsEndpoint          = "/proxy/models"
)

// variantModelPrefix marks model identifiers that address an A/B test rather
// than a concrete provider model. Requests carrying it must go through the
// /proxy surface, which is the only one that performs traffic-split routing.
const variantModelPrefix = "zeroeval/"

// maxResponseBodySize caps response body reads to prevent unbounded memory
// allocation from rogue responses.
const maxResponseBodySize int64 = 10 * 1024 * 1024

// Client calls the ZeroEval gateway endpoints
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a gateway client configured from the ZEROEVAL_API_KEY and
// ZEROEVAL_API_URL environment variables
func NewClient() *Client {
	baseURL := os.Getenv("ZEROEVAL_API_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		apiKey:  os.Getenv("ZEROEVAL_API_KEY"),
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// WithAPIKey sets the API key for the client
func (c *Client) WithAPIKey(apiKey string) *Client {
	c.apiKey = apiKey
	return c
}

// WithBaseURL sets the base URL of the gateway
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

// WithHTTPClient sets a custom HTTP client
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.client = httpClient
	return c
}

// VariantModel renders the model identifier that routes a request through an
// A/B test: the gateway splits traffic between the variants configured for
// the given test. Direct "provider/model" identifiers bypass routing.
func VariantModel(testID string) string {
	return variantModelPrefix + testID
}

// completionsPath picks the chat completions surface for a request. Variant
// models are routed through /proxy, everything else addresses the direct
// gateway surface.
func completionsPath(model string) string {
	if strings.HasPrefix(model, variantModelPrefix) {
		return proxyChatCompletionsEndpoint
	}

	return chatCompletionsEndpoint
}

// ChatCompletion sends a chat completion request to the gateway. A model of
// the form "zeroeval/<TEST_ID>" is routed through the /proxy surface, where
// the gateway splits traffic across the test's variants, while
// "provider/model" identifiers address a concrete model directly.
func (c *Client) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("API key is not set")
	}

	var resp ChatCompletionResponse
	if err := c.postJSON(ctx, completionsPath(req.Model), req, &resp); err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	return &resp, nil
}

// Models lists the models available through the gateway
func (c *Client) Models(ctx context.Context) (*ModelList, error) {
	var list ModelList
	if err := c.getJSON(ctx, modelsEndpoint, &list); err != nil {
		return nil, err
	}

	return &list, nil
}

// ProxyModels lists the models and A/B tests available behind the proxy endpoint
func (c *Client) ProxyModels(ctx context.Context) (*ModelList, error) {
	var list ModelList
	if err := c.getJSON(ctx, proxyModelsEndpoint, &list); err != nil {
		return nil, err
	}

	return &list, nil
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
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
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

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("error unmarshaling response body (status %d): %w", res.StatusCode, err)
	}

	return nil
}
