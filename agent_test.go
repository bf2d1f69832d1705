// (c) Copyright ZeroEval Inc. 2026

package zeroeval

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backendServer is a minimal in-memory ZeroEval backend used to drive the
// connection handshake in tests
type backendServer struct {
	mu          sync.Mutex
	spanBatches [][]Span
	signals     []Signal
	testSignals []TestSignal
}

func (s *backendServer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	switch {
	case req.URL.Path == "/health":
		w.WriteHeader(http.StatusOK)
	case req.URL.Path == "/v1/workspaces/current":
		json.NewEncoder(w).Encode(workspaceResponse{ID: "ws-1", Name: "playground"})
	case req.URL.Path == "/workspaces/ws-1/spans" && req.Method == http.MethodHead:
		w.WriteHeader(http.StatusOK)
	case req.URL.Path == "/workspaces/ws-1/spans" && req.Method == http.MethodPost:
		var spans []Span
		if err := json.NewDecoder(req.Body).Decode(&spans); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		s.spanBatches = append(s.spanBatches, spans)
		s.mu.Unlock()
	case req.URL.Path == "/workspaces/ws-1/signals":
		var sig Signal
		if err := json.NewDecoder(req.Body).Decode(&sig); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		s.signals = append(s.signals, sig)
		s.mu.Unlock()
	case req.URL.Path == "/workspaces/ws-1/tests/signals":
		var sig TestSignal
		if err := json.NewDecoder(req.Body).Decode(&sig); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		s.testSignals = append(s.testSignals, sig)
		s.mu.Unlock()
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *backendServer) SpanBatches() [][]Span {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]Span(nil), s.spanBatches...)
}

func Test_agentS_Handshake(t *testing.T) {
	backend := &backendServer{}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	agent := newAgent(srv.URL, "test-key", "", nil)

	require.Eventually(t, agent.Ready, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "ws-1", agent.getWorkspaceID())
}

func Test_agentS_Handshake_PreconfiguredWorkspace(t *testing.T) {
	backend := &backendServer{}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	agent := newAgent(srv.URL, "test-key", "ws-1", nil)

	require.Eventually(t, agent.Ready, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "ws-1", agent.getWorkspaceID())
}

func Test_agentS_SendSpans(t *testing.T) {
	backend := &backendServer{}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	agent := newAgent(srv.URL, "test-key", "ws-1", nil)
	require.Eventually(t, agent.Ready, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, agent.SendSpans([]Span{
		{ID: "ab", TraceID: "cd", Name: "task", Kind: "intermediate", Status: "ok"},
	}))

	batches := backend.SpanBatches()
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 1)
	assert.Equal(t, "task", batches[0][0].Name)
}

func Test_agentS_SendSpans_NoWorkspace(t *testing.T) {
	backend := &backendServer{}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	agent := newAgent(srv.URL, "test-key", "", nil)

	// before the handshake resolves a workspace there is nowhere to send
	_, err := agent.makeWorkspaceURL("spans")
	if err == nil {
		t.Skip("handshake finished before the call")
	}

	assert.ErrorIs(t, err, ErrAgentNotReady)
}

func Test_agentS_Auth(t *testing.T) {
	var (
		mu         sync.Mutex
		authHeader string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/health" {
			mu.Lock()
			authHeader = req.Header.Get("Authorization")
			mu.Unlock()
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	agent := newAgent(srv.URL, "test-key", "ws-1", nil)
	require.Eventually(t, agent.Ready, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "Bearer test-key", authHeader)
}
