package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/jeebeez/another-signal/internal/table"
)

var errSessionSecret = errors.New("ui.session_secret must be at least 16 characters")

var outputModes = []string{"auto", "text", "markdown", "json", "csv"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(outputModes, strings.ToLower(c.OutputFormat)) {
		errs = append(errs, fmt.Errorf("output must be one of %s, got %q", strings.Join(outputModes, "|"), c.OutputFormat))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	u, err := url.Parse(c.API.BaseURL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("api.base_url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("api.base_url must be an http or https URL, got %q", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api.timeout must be positive"))
	}
	if c.Cache.StaleTime < 0 {
		errs = append(errs, errors.New("cache.stale_time must not be negative"))
	}

	if !validPort(c.UI.Port) {
		errs = append(errs, fmt.Errorf("ui.port %d is out of range", c.UI.Port))
	}
	if !slices.Contains(table.PageSizes, c.PageSize) {
		errs = append(errs, fmt.Errorf("page_size must be one of %v, got %d", table.PageSizes, c.PageSize))
	}
	if len(c.UI.SessionSecret) < sessionSecretMinLen {
		errs = append(errs, errSessionSecret)
	}
	if c.UI.RefreshInterval < 0 {
		errs = append(errs, errors.New("ui.refresh_interval must not be negative"))
	}

	if !validPort(c.DevAPI.Port) {
		errs = append(errs, fmt.Errorf("devapi.port %d is out of range", c.DevAPI.Port))
	}
	if c.DevAPI.Latency < 0 {
		errs = append(errs, errors.New("devapi.latency must not be negative"))
	}

	return errors.Join(errs...)
}

func validPort(p int) bool {
	return p >= 0 && p <= 65535
}
