// Package render substitutes fixed placeholder tokens in page templates.
//
// This is deliberately not a template language: tokens are literal strings,
// matched byte for byte.
package render

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/airmon/assetgz/lib/render/config"
)

// Renderer replaces placeholder tokens with values. Tokens without a value
// are left alone unless their policy says to scrub them.
type Renderer struct {
	policies map[string]config.Policy
}

// New creates a Renderer. policies holds the absent policy for tokens that
// may not receive a value; tokens not listed are preserved.
func New(policies map[string]config.Policy) *Renderer {
	return &Renderer{
		policies: maps.Clone(policies),
	}
}

// Render replaces every occurrence of each token in subs with its value.
// The text is scanned once from left to right and replaced values are never
// scanned again. When two tokens match at the same position the longer one
// wins.
func (r *Renderer) Render(text string, subs map[string]string) string {
	values := make(map[string]string, len(subs)+len(r.policies))

	for token, policy := range r.policies {
		if policy == config.PolicyScrub {
			values[token] = ""
		}
	}

	for token, value := range subs {
		if token == "" {
			continue
		}
		values[token] = value
	}

	if len(values) == 0 {
		return text
	}

	tokens := slices.SortedFunc(maps.Keys(values), func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	oldnew := make([]string, 0, len(tokens)*2)
	for _, token := range tokens {
		oldnew = append(oldnew, token, values[token])
	}

	return strings.NewReplacer(oldnew...).Replace(text)
}
