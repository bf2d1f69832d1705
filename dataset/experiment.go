// (c) Copyright ZeroEval Inc. 2026

package dataset

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	ot "github.com/opentracing/opentracing-go"
	"github.com/zeroeval/zeroeval-go"
)

// DefaultConcurrency is the number of rows processed in parallel when an
// experiment does not specify its own limit
const DefaultConcurrency = 4

// Task produces an output for a single dataset row
type Task func(ctx context.Context, row Row) (interface{}, error)

// Evaluator scores a task output against the row it was produced from. The
// returned value must be a string, bool, int or float, matching the types
// accepted for signals.
type Evaluator struct {
	Name string
	Fn   func(ctx context.Context, row Row, output interface{}) (interface{}, error)
}

// Experiment applies a task and a set of evaluators over the rows of a dataset
type Experiment struct {
	Name        string
	Dataset     *Dataset
	Task        Task
	Evaluators  []Evaluator
	Concurrency int
}

// RowResult is the outcome of running an experiment's task and evaluators on
// a single dataset row
type RowResult struct {
	RowIndex   int                    `json:"row_index"`
	Output     interface{}            `json:"output,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Scores     map[string]interface{} `json:"scores,omitempty"`
	TraceID    string                 `json:"trace_id,omitempty"`
	StartedAt  time.Time              `json:"started_at"`
	DurationMs float64                `json:"duration_ms"`
}

// RunExperiment executes the experiment's task over every dataset row with a
// bounded worker pool, applies the evaluators to each output and posts the
// per-row results to the workspace. Evaluator scores are also emitted as
// trace signals when the collector is initialized. Results are returned in
// row order. Canceling ctx aborts rows that have not started yet.
func (c *Client) RunExperiment(ctx context.Context, exp Experiment) ([]RowResult, error) {
	if exp.Task == nil {
		return nil, fmt.Errorf("experiment task is required")
	}

	if exp.Dataset == nil || len(exp.Dataset.Rows) == 0 {
		return nil, fmt.Errorf("experiment dataset has no rows")
	}

	concurrency := exp.Concurrency
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	if concurrency > len(exp.Dataset.Rows) {
		concurrency = len(exp.Dataset.Rows)
	}

	experimentID, err := c.createExperiment(ctx, exp)
	if err != nil {
		return nil, err
	}

	sess := zeroeval.NewSession(exp.Name)
	ctx = zeroeval.ContextWithSession(ctx, sess)

	indices := make(chan int)
	results := make([]RowResult, len(exp.Dataset.Rows))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for ix := range indices {
				results[ix] = c.runRow(ctx, experimentID, exp, ix)
			}
		}()
	}

feed:
	for ix := range exp.Dataset.Rows {
		select {
		case indices <- ix:
		case <-ctx.Done():
			break feed
		}
	}
	close(indices)

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}

	return results, nil
}

// runRow executes the task and evaluators for a single row. Task panics and
// errors are captured in the result rather than aborting the run.
func (c *Client) runRow(ctx context.Context, experimentID string, exp Experiment, ix int) RowResult {
	row := exp.Dataset.Rows[ix]

	res := RowResult{
		RowIndex:  ix,
		StartedAt: time.Now(),
	}

	sp, ctx := zeroeval.StartSpanFromContext(ctx, "experiment.row")
	defer sp.Finish()

	sp.SetTag("experiment.name", exp.Name)
	sp.SetTag("experiment.row", ix)
	zeroeval.SetInput(sp, row)

	if sc, ok := sp.Context().(zeroeval.SpanContext); ok {
		res.TraceID = zeroeval.FormatLongID(sc.TraceIDHi, sc.TraceID)
	}

	output, err := c.runTask(ctx, exp.Task, row)
	res.DurationMs = float64(time.Since(res.StartedAt)) / float64(time.Millisecond)

	if err != nil {
		res.Error = err.Error()
		sp.SetTag("error", true)
	} else {
		res.Output = output
		zeroeval.SetOutput(sp, output)
		res.Scores = c.evaluate(ctx, sp, exp, row, output)
	}

	if err := c.postResult(ctx, experimentID, res); err != nil {
		c.logger.Warn("failed to post result for row ", ix, ": ", err)
	}

	return res
}

func (c *Client) runTask(ctx context.Context, task Task, row Row) (output interface{}, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("task panicked: %v", p)
		}
	}()

	return task(ctx, row)
}

// evaluate applies the experiment's evaluators to a task output and emits
// each score as a signal on the row's span
func (c *Client) evaluate(ctx context.Context, sp ot.Span, exp Experiment, row Row, output interface{}) map[string]interface{} {
	if len(exp.Evaluators) == 0 {
		return nil
	}

	scores := make(map[string]interface{}, len(exp.Evaluators))
	for _, ev := range exp.Evaluators {
		score, err := ev.Fn(ctx, row, output)
		if err != nil {
			c.logger.Warn("evaluator ", ev.Name, " failed: ", err)
			continue
		}

		scores[ev.Name] = score

		if err := zeroeval.SendSpanSignal(sp, ev.Name, score); err != nil {
			c.logger.Debug("failed to send score signal ", ev.Name, ": ", err)
		}
	}

	return scores
}

// createExperiment registers the experiment run in the workspace and returns
// its ID
func (c *Client) createExperiment(ctx context.Context, exp Experiment) (string, error) {
	path, err := c.workspacePath(ctx, "experiments")
	if err != nil {
		return "", err
	}

	payload := struct {
		Name           string `json:"name"`
		Dataset        string `json:"dataset"`
		DatasetVersion int    `json:"dataset_version,omitempty"`
	}{
		Name:           exp.Name,
		Dataset:        exp.Dataset.Name,
		DatasetVersion: exp.Dataset.Version,
	}

	var created struct {
		ID string `json:"id"`
	}

	if err := c.postJSON(ctx, path, payload, &created); err != nil {
		return "", fmt.Errorf("failed to create experiment %q: %w", exp.Name, err)
	}

	return created.ID, nil
}

// postResult delivers a single row result to the workspace
func (c *Client) postResult(ctx context.Context, experimentID string, res RowResult) error {
	path, err := c.workspacePath(ctx, "experiments/"+url.PathEscape(experimentID)+"/results")
	if err != nil {
		return err
	}

	return c.postJSON(ctx, path, res, nil)
}
