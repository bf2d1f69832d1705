// (c) Copyright ZeroEval Inc. 2026

package zeroeval

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const (
	// DefaultAPIURL is the base URL of the hosted ZeroEval backend
	DefaultAPIURL = "https://api.zeroeval.com"

	backendHealthURL    = "/health"
	backendWorkspaceURL = "/v1/workspaces/current"

	clientTimeout = 5 * time.Second
)

// ErrAgentNotReady is returned on attempts to send data before the connection
// handshake with the backend has finished
var ErrAgentNotReady = errors.New("backend connection is not ready")

// AgentClient is a client for the ZeroEval ingestion backend
type AgentClient interface {
	// Ready returns whether the client has finished the handshake and is ready
	// to send data
	Ready() bool
	// SendSpans sends a batch of collected spans to the backend
	SendSpans(spans []Span) error
	// SendSignal delivers a signal to the backend
	SendSignal(sig Signal) error
	// SendTestSignal delivers A/B test feedback to the backend
	SendTestSignal(sig TestSignal) error
}

// workspaceResponse is the backend reply to the workspace discovery request
type workspaceResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type agentS struct {
	baseURL string
	apiKey  string

	mu          sync.RWMutex
	workspaceID string

	fsm    *fsmS
	client *http.Client
	logger LeveledLogger
}

func newAgent(baseURL, apiKey, workspaceID string, logger LeveledLogger) *agentS {
	if logger == nil {
		logger = defaultLogger
	}

	if baseURL == "" {
		baseURL = DefaultAPIURL
	}

	logger.Debug("initializing backend client for ", baseURL)

	agent := &agentS{
		baseURL:     baseURL,
		apiKey:      apiKey,
		workspaceID: workspaceID,
		client:      &http.Client{Timeout: clientTimeout},
		logger:      logger,
	}
	agent.fsm = newFSM(agent)

	return agent
}

// Ready returns whether the backend handshake has finished and the client is
// ready to send data
func (agent *agentS) Ready() bool {
	return agent.fsm.fsm.Current() == "ready"
}

// SendSpans sends a batch of collected spans to the backend
func (agent *agentS) SendSpans(spans []Span) error {
	url, err := agent.makeWorkspaceURL("spans")
	if err != nil {
		return err
	}

	if _, err := agent.request(url, http.MethodPost, spans); err != nil {
		agent.logger.Error("failed to send spans to the backend: ", err)
		agent.reset()

		return err
	}

	return nil
}

// SendSignal delivers a signal to the backend
func (agent *agentS) SendSignal(sig Signal) error {
	url, err := agent.makeWorkspaceURL("signals")
	if err != nil {
		return err
	}

	if _, err := agent.request(url, http.MethodPost, sig); err != nil {
		agent.logger.Error("failed to send signal ", sig.Name, " to the backend: ", err)

		return err
	}

	return nil
}

// SendTestSignal delivers A/B test feedback to the backend. Repeated delivery
// for the same (completion_id, name) pair overwrites the stored value.
func (agent *agentS) SendTestSignal(sig TestSignal) error {
	url, err := agent.makeWorkspaceURL("tests/signals")
	if err != nil {
		return err
	}

	if _, err := agent.request(url, http.MethodPost, sig); err != nil {
		agent.logger.Error("failed to send test signal ", sig.Name, " to the backend: ", err)

		return err
	}

	return nil
}

func (agent *agentS) setLogger(l LeveledLogger) {
	agent.logger = l
}

func (agent *agentS) setWorkspaceID(id string) {
	agent.mu.Lock()
	defer agent.mu.Unlock()
	agent.workspaceID = id
}

func (agent *agentS) getWorkspaceID() string {
	agent.mu.RLock()
	defer agent.mu.RUnlock()
	return agent.workspaceID
}

// makeWorkspaceURL renders a backend URL scoped to the discovered workspace
func (agent *agentS) makeWorkspaceURL(suffix string) (string, error) {
	ws := agent.getWorkspaceID()
	if ws == "" {
		return "", ErrAgentNotReady
	}

	return fmt.Sprintf("%s/workspaces/%s/%s", agent.baseURL, ws, suffix), nil
}

func (agent *agentS) makeURL(path string) string {
	return agent.baseURL + path
}

func (agent *agentS) head(url string) (string, error) {
	return agent.fullRequestResponse(url, http.MethodHead, nil, nil, "")
}

func (agent *agentS) request(url string, method string, data interface{}) (string, error) {
	return agent.fullRequestResponse(url, method, data, nil, "")
}

func (agent *agentS) requestResponse(url string, method string, data interface{}, ret interface{}) (string, error) {
	return agent.fullRequestResponse(url, method, data, ret, "")
}

func (agent *agentS) fullRequestResponse(url string, method string, data interface{}, body interface{}, header string) (string, error) {
	var buf io.Reader
	if data != nil {
		j, err := json.Marshal(data)
		if err != nil {
			return "", err
		}

		buf = bytes.NewReader(j)
	}

	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	if agent.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+agent.apiKey)
	}

	resp, err := agent.client.Do(req)
	if err != nil {
		agent.logger.Info(err, " ", url)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := errors.New(resp.Status)
		// 404s are expected while the workspace is still being registered in
		// the backend, don't pollute the log before the handshake is done
		if !agent.fsm.fsm.Is("announced") {
			agent.logger.Info(err, " ", url)
		}

		return "", err
	}

	if body != nil {
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}

		if err := json.Unmarshal(b, body); err != nil {
			return "", err
		}
	}

	var ret string
	if header != "" {
		ret = resp.Header.Get(header)
	}

	return ret, nil
}

func (agent *agentS) reset() {
	agent.fsm.reset()
}
