// (c) Copyright ZeroEval Inc. 2026

package gateway

import (
	"bufio"
	"io"
	"strings"
)

// maxSSELineSize is the maximum size of a single SSE line (1 MB). The default
// bufio.Scanner limit is 64 KiB, which is too small for large SSE events such
// as tool-call arguments or long completions. If a line exceeds this limit
// the scanner returns a wrapped bufio.ErrTooLong via the Next() error path.
const maxSSELineSize = 1 * 1024 * 1024

// sseScanner reads Server-Sent Events (SSE) from an io.Reader. It handles
// multi-line data fields, skips comments and empty lines, and detects the
// [DONE] sentinel used by OpenAI-compatible APIs.
type sseScanner struct {
	scanner *bufio.Scanner
}

func newSSEScanner(reader io.Reader) *sseScanner {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSSELineSize)
	return &sseScanner{
		scanner: scanner,
	}
}

// Next returns the next SSE data payload as a string. It skips empty lines
// and comment lines (starting with ':'). Multi-line data fields (multiple
// consecutive "data:" lines) are joined with newlines into a single payload.
//
// Returns io.EOF when no more events are available or the [DONE] sentinel is
// encountered.
func (s *sseScanner) Next() (string, error) {
	var dataLines []string

	for s.scanner.Scan() {
		line := s.scanner.Text()

		// Empty line signals end of an event; flush accumulated data lines
		if line == "" {
			if len(dataLines) > 0 {
				return strings.Join(dataLines, "\n"), nil
			}
			continue
		}

		// Skip SSE comments
		if strings.HasPrefix(line, ":") {
			continue
		}

		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			// Other SSE fields (event:, id:, retry:) are not used by the gateway
			continue
		}

		data = strings.TrimPrefix(data, " ")
		if data == "[DONE]" {
			return "", io.EOF
		}

		dataLines = append(dataLines, data)
	}

	if err := s.scanner.Err(); err != nil {
		return "", err
	}

	if len(dataLines) > 0 {
		return strings.Join(dataLines, "\n"), nil
	}

	return "", io.EOF
}
