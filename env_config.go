// (c) Copyright ZeroEval Inc. 2026

package zeroeval

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// envConfig holds the set of environment variables recognized by the SDK
type envConfig struct {
	APIKey               string `env:"ZEROEVAL_API_KEY"`
	APIURL               string `env:"ZEROEVAL_API_URL"`
	ServiceName          string `env:"ZEROEVAL_SERVICE_NAME"`
	WorkspaceID          string `env:"ZEROEVAL_WORKSPACE_ID"`
	Debug                bool   `env:"ZEROEVAL_DEBUG"`
	DisabledIntegrations string `env:"ZEROEVAL_DISABLED_INTEGRATIONS"`
	Secrets              string `env:"ZEROEVAL_SECRETS"`
}

// applyEnvConfig overrides zero-value option fields with their ZEROEVAL_*
// environment counterparts. Explicitly provided option values always win.
func applyEnvConfig(opts *Options) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		defaultLogger.Warn("failed to parse environment configuration: ", err)
	}

	if opts.APIKey == "" {
		opts.APIKey = cfg.APIKey
	}

	if opts.APIURL == "" {
		opts.APIURL = cfg.APIURL
	}

	if opts.Service == "" {
		opts.Service = cfg.ServiceName
	}

	if opts.WorkspaceID == "" {
		opts.WorkspaceID = cfg.WorkspaceID
	}

	if cfg.Debug && opts.LogLevel < Debug {
		opts.LogLevel = Debug
	}

	if cfg.DisabledIntegrations != "" {
		parseDisabledIntegrations(cfg.DisabledIntegrations, &opts.Tracer)
	}

	if cfg.Secrets != "" {
		m, err := parseSecrets(cfg.Secrets)
		if err != nil {
			defaultLogger.Warn("failed to parse ZEROEVAL_SECRETS: ", err, ", falling back to the default matcher")
		} else {
			opts.Tracer.Secrets = m
		}
	}
}

// parseDisabledIntegrations processes the ZEROEVAL_DISABLED_INTEGRATIONS value,
// a comma-separated list of integration names, and updates the
// TracerOptions.DisabledIntegrations map accordingly:
//
//	ZEROEVAL_DISABLED_INTEGRATIONS := name1[,name2,...]
func parseDisabledIntegrations(value string, opts *TracerOptions) {
	if opts.DisabledIntegrations == nil {
		opts.DisabledIntegrations = make(map[string]bool)
	}

	for _, item := range strings.Split(value, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			opts.DisabledIntegrations[item] = true
		}
	}
}

// parseSecrets parses the matcher configuration string passed via ZEROEVAL_SECRETS.
// The configuration string is expected to have the following format:
//
//	ZEROEVAL_SECRETS := <matcher>:<term>[,<term>]
//
// Where `matcher` is one of:
// * `equals` - matches a string if it's contained in the terms list
// * `equals-ignore-case` is a case-insensitive version of `equals`
// * `contains` matches a string if it contains any of the terms list values
// * `contains-ignore-case` is a case-insensitive version of `contains`
// * `regex` matches a string if it fully matches any of the regular expressions provided in the terms list
//
// This function returns an error if there is no matcher configuration provided.
func parseSecrets(s string) (Matcher, error) {
	if s == "" {
		return nil, errors.New("empty value for secret matcher configuration")
	}

	ind := strings.Index(s, ":")
	if ind < 0 {
		return nil, fmt.Errorf("malformed secret matcher configuration: %q", s)
	}

	matcher, config := strings.TrimSpace(s[:ind]), strings.Split(s[ind+1:], ",")

	return NamedMatcher(matcher, config)
}
