// (c) Copyright ZeroEval Inc. 2026

package zeroeval

import (
	"context"
	"time"

	f "github.com/looplab/fsm"
)

const (
	eInit     = "init"
	eLookup   = "lookup"
	eAnnounce = "announce"
	eTest     = "test"

	retryPeriod    = 30 * time.Second
	maximumRetries = 2
)

// fsmS drives the backend connection handshake: the backend is first checked
// for reachability, then the workspace is discovered using the configured API
// key, and finally the ingest route is probed before the client is considered
// ready to send data.
type fsmS struct {
	agent   *agentS
	fsm     *f.FSM
	timer   *time.Timer
	retries int
}

func newFSM(agent *agentS) *fsmS {
	agent.logger.Debug("initializing backend connection state machine")

	r := &fsmS{
		agent:   agent,
		retries: maximumRetries,
	}

	r.fsm = f.NewFSM(
		"none",
		f.Events{
			{Name: eInit, Src: []string{"none", "unannounced", "announced", "ready"}, Dst: "init"},
			{Name: eLookup, Src: []string{"init"}, Dst: "unannounced"},
			{Name: eAnnounce, Src: []string{"unannounced"}, Dst: "announced"},
			{Name: eTest, Src: []string{"announced"}, Dst: "ready"}},
		f.Callbacks{
			"enter_init":        r.lookupBackend,
			"enter_unannounced": r.announceWorkspace,
			"enter_announced":   r.testBackend,
			"enter_ready":       r.ready})

	r.fsm.Event(context.Background(), eInit)

	return r
}

func (r *fsmS) scheduleRetry(e *f.Event, cb func(ctx context.Context, e *f.Event)) {
	r.timer = time.NewTimer(retryPeriod)
	go func() {
		<-r.timer.C
		cb(context.Background(), e)
	}()
}

// lookupBackend checks that the configured backend is reachable before
// attempting the workspace handshake
func (r *fsmS) lookupBackend(ctx context.Context, e *f.Event) {
	r.agent.logger.Debug("checking backend reachability at ", r.agent.baseURL)

	go func() {
		_, err := r.agent.request(r.agent.makeURL(backendHealthURL), "GET", nil)
		if err != nil {
			r.agent.logger.Error("cannot connect to the ZeroEval backend, scheduling retry")
			r.scheduleRetry(e, r.lookupBackend)

			return
		}

		r.agent.logger.Debug("backend lookup success")
		r.retries = maximumRetries
		r.fsm.Event(context.Background(), eLookup)
	}()
}

// announceWorkspace resolves the workspace associated with the configured API
// key. A workspace ID provided via options or environment skips the discovery
// request.
func (r *fsmS) announceWorkspace(ctx context.Context, e *f.Event) {
	if ws := r.agent.getWorkspaceID(); ws != "" {
		r.agent.logger.Debug("using preconfigured workspace ", ws)
		r.retries = maximumRetries
		go r.fsm.Event(context.Background(), eAnnounce)

		return
	}

	r.agent.logger.Debug("discovering workspace")

	go func() {
		var resp workspaceResponse
		_, err := r.agent.requestResponse(r.agent.makeURL(backendWorkspaceURL), "GET", nil, &resp)
		if err != nil || resp.ID == "" {
			r.agent.logger.Error("cannot resolve the workspace, scheduling retry")
			r.retries--
			if r.retries > 0 {
				r.scheduleRetry(e, r.announceWorkspace)
			} else {
				r.retries = maximumRetries
				r.fsm.Event(context.Background(), eInit)
			}

			return
		}

		r.agent.logger.Info("workspace resolved: ", resp.ID)
		r.agent.setWorkspaceID(resp.ID)
		r.retries = maximumRetries
		r.fsm.Event(context.Background(), eAnnounce)
	}()
}

// testBackend probes the span ingest route before declaring the connection ready
func (r *fsmS) testBackend(ctx context.Context, e *f.Event) {
	r.agent.logger.Debug("testing communication with the backend")

	go func() {
		url, err := r.agent.makeWorkspaceURL("spans")
		if err == nil {
			_, err = r.agent.head(url)
		}

		if err != nil {
			r.agent.logger.Error("backend is not yet ready, scheduling retry")
			r.retries--
			if r.retries > 0 {
				r.scheduleRetry(e, r.testBackend)
			} else {
				r.retries = maximumRetries
				r.fsm.Event(context.Background(), eInit)
			}

			return
		}

		r.retries = maximumRetries
		r.fsm.Event(context.Background(), eTest)
	}()
}

func (r *fsmS) ready(ctx context.Context, e *f.Event) {
	r.agent.logger.Info("backend connection established")
}

func (r *fsmS) reset() {
	r.retries = maximumRetries
	r.fsm.Event(context.Background(), eInit)
}
