// (c) Copyright ZeroEval Inc. 2026

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ChatCompletionStream yields the chunks of a streaming chat completion as
// they arrive from the gateway. The caller must Close the stream when done.
type ChatCompletionStream struct {
	body    io.ReadCloser
	scanner *sseScanner
	ctx     context.Context

	// CompletionID is the ID of the completion, populated after the first
	// received chunk. It can be used to attach signals to the completion.
	CompletionID string
}

// Recv returns the next chunk of the streaming completion. It returns io.EOF
// when the stream has finished.
func (s *ChatCompletionStream) Recv() (*ChatCompletionChunk, error) {
	if err := s.ctx.Err(); err != nil {
		return nil, err
	}

	payload, err := s.scanner.Next()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}

		return nil, fmt.Errorf("SSE read error: %w", err)
	}

	var chunk ChatCompletionChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return nil, fmt.Errorf("failed to parse streaming chunk: %w", err)
	}

	if s.CompletionID == "" {
		s.CompletionID = chunk.ID
	}

	return &chunk, nil
}

// Close releases the underlying connection. Safe to call multiple times.
func (s *ChatCompletionStream) Close() error {
	return s.body.Close()
}

// StreamChatCompletion sends a streaming chat completion request and returns
// a stream yielding incremental deltas as SSE events arrive from the gateway.
// Usage reporting is enabled, so the final chunk carries token counts.
func (c *Client) StreamChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionStream, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("API key is not set")
	}

	streamEnabled := true
	req.Stream = &streamEnabled
	req.StreamOptions = &StreamOptions{IncludeUsage: true}

	jsonBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("error marshaling body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath(req.Model), bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpClient := c.client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error sending stream request: %w", err)
	}

	// For non-2xx responses, read the body and close it before returning the error
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()

		errorBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
		if readErr != nil {
			return nil, fmt.Errorf("non-2xx status %d (failed to read body: %v)", resp.StatusCode, readErr)
		}

		return nil, fmt.Errorf("non-2xx status %d: %s", resp.StatusCode, string(errorBody))
	}

	return &ChatCompletionStream{
		body:    resp.Body,
		scanner: newSSEScanner(resp.Body),
		ctx:     ctx,
	}, nil
}
