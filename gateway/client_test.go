// (c) Copyright ZeroEval Inc. 2026

package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "/v1/chat/completions", req.URL.Path)
		require.Equal(t, "Bearer test-key", req.Header.Get("Authorization"))

		var body ChatCompletionRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, "openai/gpt-4o", body.Model)

		json.NewEncoder(w).Encode(ChatCompletionResponse{
			ID:    "cmpl-42",
			Model: "openai/gpt-4o",
			Choices: []Choice{
				{Message: ChatMessage{Role: "assistant", Content: "hello"}},
			},
			Usage: &Usage{PromptTokens: 3, CompletionTokens: 1, TotalTokens: 4},
		})
	}))
	defer srv.Close()

	client := NewClient().WithAPIKey("test-key").WithBaseURL(srv.URL)

	resp, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
		Model: "openai/gpt-4o",
		Messages: []ChatMessage{
			{Role: "user", Content: "hi"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "cmpl-42", resp.ID)
	assert.Equal(t, "hello", resp.Choices[0].Message.Content)
	assert.Equal(t, 4, resp.Usage.TotalTokens)
}

func TestClient_ChatCompletion_VariantRouting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "/proxy/chat/completions", req.URL.Path)

		var body ChatCompletionRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, "zeroeval/test-123", body.Model)

		json.NewEncoder(w).Encode(ChatCompletionResponse{
			ID:    "cmpl-1",
			Model: "openai/gpt-4o-mini",
			Choices: []Choice{
				{Message: ChatMessage{Role: "assistant", Content: "variant says hi"}},
			},
		})
	}))
	defer srv.Close()

	client := NewClient().WithAPIKey("test-key").WithBaseURL(srv.URL)

	resp, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
		Model: VariantModel("test-123"),
		Messages: []ChatMessage{
			{Role: "user", Content: "hi"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "variant says hi", resp.Choices[0].Message.Content)
}

func TestClient_ChatCompletion_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(ChatCompletionResponse{ID: "cmpl-42"})
	}))
	defer srv.Close()

	client := NewClient().WithAPIKey("test-key").WithBaseURL(srv.URL)

	_, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{Model: "openai/gpt-4o"})
	assert.Error(t, err)
}

func TestClient_ChatCompletion_NoAPIKey(t *testing.T) {
	client := (&Client{}).WithBaseURL("https://zeroeval.example.com")

	_, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{Model: "openai/gpt-4o"})
	assert.Error(t, err)
}

func TestClient_ChatCompletion_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, `{"error": "unknown model"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient().WithAPIKey("test-key").WithBaseURL(srv.URL)

	_, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{Model: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown model")
}

func TestClient_Models(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "/v1/models", req.URL.Path)

		json.NewEncoder(w).Encode(ModelList{
			Object: "list",
			Data: []Model{
				{ID: "openai/gpt-4o", Object: "model"},
				{ID: "anthropic/claude-sonnet-4", Object: "model"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient().WithAPIKey("test-key").WithBaseURL(srv.URL)

	list, err := client.Models(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Data, 2)
	assert.Equal(t, "openai/gpt-4o", list.Data[0].ID)
}

func TestClient_ProxyModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "/proxy/models", req.URL.Path)

		json.NewEncoder(w).Encode(ModelList{
			Object: "list",
			Data:   []Model{{ID: "zeroeval/test-1", Object: "model"}},
		})
	}))
	defer srv.Close()

	client := NewClient().WithAPIKey("test-key").WithBaseURL(srv.URL)

	list, err := client.ProxyModels(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "zeroeval/test-1", list.Data[0].ID)
}

func TestVariantModel(t *testing.T) {
	assert.Equal(t, "zeroeval/test-1", VariantModel("test-1"))
}
