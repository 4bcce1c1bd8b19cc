package config

import (
	"os"
	"strconv"

	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/router"
)

// Script is a navigation scenario run by `vroute simulate` against a
// memory history.
type Script struct {
	// Base is the router base path.
	Base string `json:"base,omitempty" toml:"base" yaml:"base,omitempty"`

	// Initial is the starting reference. Empty seeds the base path.
	Initial string `json:"initial,omitempty" toml:"initial" yaml:"initial,omitempty"`

	// Routes are declared before the first step.
	Routes []router.RouteDef `json:"routes,omitempty" toml:"routes" yaml:"routes,omitempty"`

	// Redirects navigate again whenever the location path matches From.
	Redirects []Redirect `json:"redirects,omitempty" toml:"redirects" yaml:"redirects,omitempty"`

	// Steps run in order.
	Steps []Step `json:"steps" toml:"steps" yaml:"steps"`
}

// Redirect replaces the location with To whenever the path matches the
// exact pattern From.
type Redirect struct {
	From string `json:"from" toml:"from" yaml:"from"`
	To   string `json:"to" toml:"to" yaml:"to"`
}

// Step is one scripted action. Exactly one field is set.
type Step struct {
	// Push navigates with a new history entry.
	Push string `json:"push,omitempty" toml:"push" yaml:"push,omitempty"`

	// Replace navigates replacing the current entry.
	Replace string `json:"replace,omitempty" toml:"replace" yaml:"replace,omitempty"`

	// Go moves through the history by delta, like history.go.
	Go int `json:"go,omitempty" toml:"go" yaml:"go,omitempty"`

	// Batch runs its steps in one update pass.
	Batch []Step `json:"batch,omitempty" toml:"batch" yaml:"batch,omitempty"`
}

// Kind names the step's action.
func (s Step) Kind() string {
	switch {
	case len(s.Batch) > 0:
		return "batch"
	case s.Push != "":
		return "push"
	case s.Replace != "":
		return "replace"
	case s.Go != 0:
		return "go"
	}
	return ""
}

// LoadScript reads a script from path. The format follows the extension.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeConfigRead).WithInput(path).Wrap(err)
	}

	var s Script
	if err := Decode(path, data, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that every step names exactly one action.
func (s *Script) Validate() error {
	if err := router.ValidateDefs(s.Base, s.Routes, router.Utils{}); err != nil {
		return errors.New(errors.CodeConfigInvalid).
			WithInput("routes").
			WithDetail(err.Error()).
			Wrap(err)
	}
	for _, r := range s.Redirects {
		if r.From == "" || r.To == "" {
			return invalid("redirects", r.From+" -> "+r.To, "Redirects need both from and to")
		}
	}
	return validateSteps(s.Steps, "steps")
}

func validateSteps(steps []Step, at string) error {
	for i, step := range steps {
		set := 0
		if step.Push != "" {
			set++
		}
		if step.Replace != "" {
			set++
		}
		if step.Go != 0 {
			set++
		}
		if len(step.Batch) > 0 {
			set++
			if err := validateSteps(step.Batch, at+".batch"); err != nil {
				return err
			}
		}
		if set != 1 {
			return invalid(at, strconv.Itoa(i), "Each step sets exactly one of push, replace, go or batch")
		}
	}
	return nil
}
