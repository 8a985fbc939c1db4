package devapi

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jeebeez/another-signal/pkg/core"
)

//go:embed fixtures/default.yaml
var defaultFixture []byte

// Fixture is the seed data of the reference backend.
type Fixture struct {
	Accounts []FixtureAccount `yaml:"accounts"`
}

// FixtureAccount is one account with the prospects scoped to it.
type FixtureAccount struct {
	core.Account `yaml:",inline"`
	Prospects    []core.Prospect `yaml:"prospects,omitempty"`
}

// ParseFixture decodes and validates a YAML fixture.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadFixture reads the fixture at path. An empty path loads the built-in fixture.
func LoadFixture(path string) (*Fixture, error) {
	if path == "" {
		return DefaultFixture()
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return ParseFixture(data)
}

// DefaultFixture returns the built-in sample data.
func DefaultFixture() (*Fixture, error) {
	return ParseFixture(defaultFixture)
}

// Validate checks that every account has a unique, non-blank name.
func (f *Fixture) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(f.Accounts))
	for i, a := range f.Accounts {
		name := a.Name
		switch {
		case strings.TrimSpace(name) == "":
			errs = append(errs, fmt.Errorf("accounts[%d]: name is required", i))
		case seen[name]:
			errs = append(errs, fmt.Errorf("accounts[%d]: duplicate account name %q", i, name))
		}
		if a.Employees < 0 {
			errs = append(errs, fmt.Errorf("accounts[%d]: employees must not be negative", i))
		}
		seen[name] = true
	}
	return errors.Join(errs...)
}
