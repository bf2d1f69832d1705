// (c) Copyright ZeroEval Inc. 2026

package zeroeval

import "strings"

// IntegrationDisabled reports whether a named integration has been turned off
// via options or the ZEROEVAL_DISABLED_INTEGRATIONS environment variable.
// Instrumentation wrappers consult it before activating and fall back to the
// original, untraced implementation when disabled.
func IntegrationDisabled(name string) bool {
	if sensor == nil || sensor.options == nil {
		return false
	}

	disabled := sensor.options.Tracer.DisabledIntegrations
	if disabled == nil {
		return false
	}

	return disabled[strings.ToLower(name)]
}
