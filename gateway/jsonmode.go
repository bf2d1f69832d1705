// (c) Copyright ZeroEval Inc. 2026

package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ParseJSONOutput unmarshals a model completion that was requested in JSON
// mode into out. Models occasionally produce near-JSON (unquoted keys,
// trailing commas, markdown fences); when plain unmarshaling fails the
// content is repaired and parsed again.
func ParseJSONOutput(content string, out interface{}) error {
	content = stripMarkdownFences(content)

	if err := json.Unmarshal([]byte(content), out); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(content)
		if repairErr != nil {
			return fmt.Errorf("failed to unmarshal model output: %w (repair failed: %v)", err, repairErr)
		}

		if err := json.Unmarshal([]byte(repaired), out); err != nil {
			return fmt.Errorf("failed to unmarshal repaired model output: %w", err)
		}
	}

	return nil
}

// stripMarkdownFences removes the ```json ... ``` wrappers that some models
// add around JSON output despite the requested response format
func stripMarkdownFences(content string) string {
	content = strings.TrimSpace(content)

	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")

	return strings.TrimSpace(content)
}
