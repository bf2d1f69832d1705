// (c) Copyright ZeroEval Inc. 2026

package dataset

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Create(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "/workspaces/ws-1/datasets", req.URL.Path)
		require.Equal(t, "Bearer test-key", req.Header.Get("Authorization"))

		var ds Dataset
		require.NoError(t, json.NewDecoder(req.Body).Decode(&ds))
		assert.Equal(t, "qa-pairs", ds.Name)

		ds.ID = "ds-1"
		ds.Version = 1
		json.NewEncoder(w).Encode(ds)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	created, err := client.Create(context.Background(), Dataset{
		Name: "qa-pairs",
		Rows: []Row{{"question": "2+2?", "answer": "4"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "ds-1", created.ID)
	assert.Equal(t, 1, created.Version)
}

func TestClient_Create_NoName(t *testing.T) {
	client := newTestClient("https://zeroeval.example.com")

	_, err := client.Create(context.Background(), Dataset{})
	assert.Error(t, err)
}

func TestClient_Push(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "/workspaces/ws-1/datasets/qa-pairs/rows", req.URL.Path)

		var payload struct {
			Rows []Row `json:"rows"`
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
		assert.Len(t, payload.Rows, 2)

		json.NewEncoder(w).Encode(Dataset{Name: "qa-pairs", Version: 2})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	ds, err := client.Push(context.Background(), "qa-pairs", []Row{
		{"question": "2+2?", "answer": "4"},
		{"question": "3+3?", "answer": "6"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Version)
}

func TestClient_Push_NoRows(t *testing.T) {
	client := newTestClient("https://zeroeval.example.com")

	_, err := client.Push(context.Background(), "qa-pairs", nil)
	assert.Error(t, err)
}

func TestClient_Pull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "/workspaces/ws-1/datasets/qa-pairs", req.URL.Path)
		assert.Equal(t, "3", req.URL.Query().Get("version"))

		json.NewEncoder(w).Encode(Dataset{
			Name:    "qa-pairs",
			Version: 3,
			Rows:    []Row{{"question": "2+2?", "answer": "4"}},
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	ds, err := client.Pull(context.Background(), "qa-pairs", 3)
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Version)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "4", ds.Rows[0]["answer"])
}

func TestClient_WorkspaceDiscovery(t *testing.T) {
	var discoveries int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Path {
		case "/v1/workspaces/current":
			discoveries++
			json.NewEncoder(w).Encode(map[string]string{"id": "ws-42", "name": "playground"})
		case "/workspaces/ws-42/datasets/qa-pairs":
			json.NewEncoder(w).Encode(Dataset{Name: "qa-pairs", Version: 1})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient().WithAPIKey("test-key").WithBaseURL(srv.URL).WithWorkspaceID("")

	_, err := client.Pull(context.Background(), "qa-pairs", 0)
	require.NoError(t, err)

	// the workspace is cached after the first lookup
	_, err = client.Pull(context.Background(), "qa-pairs", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, discoveries)
}

func newTestClient(baseURL string) *Client {
	return NewClient().WithAPIKey("test-key").WithBaseURL(baseURL).WithWorkspaceID("ws-1")
}
