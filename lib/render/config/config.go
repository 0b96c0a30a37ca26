package config

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

var (
	ErrNoPlaceholders            = errors.New("config: must define at least one (1) placeholder")
	ErrPlaceholderMustHaveToken  = errors.New("config.Placeholder: must set token")
	ErrDuplicatePlaceholder      = errors.New("config.Placeholder: token is declared more than once")
	ErrUnknownSource             = errors.New("config.Placeholder: unknown source")
	ErrUnknownPolicy             = errors.New("config.Placeholder: unknown when_absent policy")
	ErrSourceWithScrub           = errors.New("config.Placeholder: a token with a source always has a value, when_absent must not be scrub")
	ErrTokenContainsLineBreak    = errors.New("config.Placeholder: token must fit on one line")
	ErrDuplicateSourceAssignment = errors.New("config.Placeholder: source is bound to more than one token")
)

// Source names the input whose content hash fills a placeholder.
type Source string

const (
	SourceNone       Source = ""
	SourceStylesheet Source = "stylesheet"
	SourceScript     Source = "script"
)

// Policy decides what happens to a placeholder when no value is supplied
// for it.
type Policy string

const (
	PolicyUnknown  Policy = ""
	PolicyPreserve Policy = "preserve"
	PolicyScrub    Policy = "scrub"
)

type Placeholder struct {
	Token      string `yaml:"token"`
	Source     Source `yaml:"source,omitempty"`
	WhenAbsent Policy `yaml:"when_absent,omitempty"`
}

// Policy returns the effective absent policy. Unset means preserve.
func (p Placeholder) Policy() Policy {
	if p.WhenAbsent == PolicyUnknown {
		return PolicyPreserve
	}

	return p.WhenAbsent
}

func (p Placeholder) Valid() error {
	var errs []error

	if p.Token == "" {
		errs = append(errs, ErrPlaceholderMustHaveToken)
	}

	for _, r := range p.Token {
		if r == '\n' || r == '\r' {
			errs = append(errs, ErrTokenContainsLineBreak)
			break
		}
	}

	switch p.Source {
	case SourceNone, SourceStylesheet, SourceScript:
		// okay
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownSource, p.Source))
	}

	switch p.WhenAbsent {
	case PolicyUnknown, PolicyPreserve:
		// okay
	case PolicyScrub:
		if p.Source != SourceNone {
			errs = append(errs, ErrSourceWithScrub)
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownPolicy, p.WhenAbsent))
	}

	if len(errs) != 0 {
		return fmt.Errorf("config: placeholder entry for %q is not valid:\n%w", p.Token, errors.Join(errs...))
	}

	return nil
}

type Config struct {
	Placeholders []Placeholder `yaml:"placeholders"`
}

func (c Config) Valid() error {
	var errs []error

	if len(c.Placeholders) == 0 {
		errs = append(errs, ErrNoPlaceholders)
	}

	seenTokens := map[string]bool{}
	seenSources := map[Source]string{}

	for _, p := range c.Placeholders {
		if err := p.Valid(); err != nil {
			errs = append(errs, err)
		}

		if seenTokens[p.Token] {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicatePlaceholder, p.Token))
		}
		seenTokens[p.Token] = true

		if p.Source == SourceNone {
			continue
		}

		if other, ok := seenSources[p.Source]; ok {
			errs = append(errs, fmt.Errorf("%w: %s is used by %q and %q", ErrDuplicateSourceAssignment, p.Source, other, p.Token))
		}
		seenSources[p.Source] = p.Token
	}

	if len(errs) != 0 {
		return fmt.Errorf("config is not valid:\n%w", errors.Join(errs...))
	}

	return nil
}

// TokenFor returns the token bound to src, if any.
func (c Config) TokenFor(src Source) (string, bool) {
	for _, p := range c.Placeholders {
		if p.Source == src {
			return p.Token, true
		}
	}

	return "", false
}

// Policies returns the absent policy of every token that has no source.
func (c Config) Policies() map[string]Policy {
	result := map[string]Policy{}

	for _, p := range c.Placeholders {
		if p.Source != SourceNone {
			continue
		}

		result[p.Token] = p.Policy()
	}

	return result
}

// Load decodes and validates a placeholder document. Unknown fields are
// rejected so a typo in a policy name does not silently become preserve.
func Load(fin io.Reader, fname string) (*Config, error) {
	var c Config

	dec := yaml.NewDecoder(fin)
	dec.KnownFields(true)

	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("can't parse placeholder config YAML %s: %w", fname, err)
	}

	if err := c.Valid(); err != nil {
		return nil, fmt.Errorf("placeholder config %s: %w", fname, err)
	}

	return &c, nil
}
