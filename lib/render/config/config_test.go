package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/airmon/assetgz/data"
)

func TestPlaceholderValid(t *testing.T) {
	var tests = []struct {
		name string
		ph   Placeholder
		err  error
	}{
		{
			name: "stylesheet hash",
			ph: Placeholder{
				Token:  "__STYLE_HASH__",
				Source: SourceStylesheet,
			},
			err: nil,
		},
		{
			name: "legacy token scrubbed",
			ph: Placeholder{
				Token:      "__CHART_HASH__",
				WhenAbsent: PolicyScrub,
			},
			err: nil,
		},
		{
			name: "no token",
			ph: Placeholder{
				Source: SourceScript,
			},
			err: ErrPlaceholderMustHaveToken,
		},
		{
			name: "unknown source",
			ph: Placeholder{
				Token:  "__CHART_HASH__",
				Source: "chart",
			},
			err: ErrUnknownSource,
		},
		{
			name: "unknown policy",
			ph: Placeholder{
				Token:      "__CHART_HASH__",
				WhenAbsent: "delete",
			},
			err: ErrUnknownPolicy,
		},
		{
			name: "scrub with source",
			ph: Placeholder{
				Token:      "__SCRIPT_HASH__",
				Source:     SourceScript,
				WhenAbsent: PolicyScrub,
			},
			err: ErrSourceWithScrub,
		},
		{
			name: "multiline token",
			ph: Placeholder{
				Token: "__A\nB__",
			},
			err: ErrTokenContainsLineBreak,
		},
	}

	for _, cs := range tests {
		cs := cs
		t.Run(cs.name, func(t *testing.T) {
			err := cs.ph.Valid()
			if err == nil && cs.err == nil {
				return
			}

			if !errors.Is(err, cs.err) {
				t.Logf("got wrong error from Valid()")
				t.Logf("wanted: %v", cs.err)
				t.Logf("got:    %v", err)
				t.Errorf("got invalid error from check")
			}
		})
	}
}

func TestPlaceholderPolicyDefaultsToPreserve(t *testing.T) {
	p := Placeholder{Token: "__X__"}
	if got := p.Policy(); got != PolicyPreserve {
		t.Errorf("wanted %q, got: %q", PolicyPreserve, got)
	}
}

func TestConfigValidKnownGood(t *testing.T) {
	finfos, err := os.ReadDir("testdata/good")
	if err != nil {
		t.Fatal(err)
	}

	for _, st := range finfos {
		st := st
		t.Run(st.Name(), func(t *testing.T) {
			fin, err := os.Open(filepath.Join("testdata", "good", st.Name()))
			if err != nil {
				t.Fatal(err)
			}
			defer fin.Close()

			c, err := Load(fin, st.Name())
			if err != nil {
				t.Fatal(err)
			}

			if len(c.Placeholders) == 0 {
				t.Error("wanted more than 0 placeholders, got zero")
			}
		})
	}
}

func TestConfigValidBad(t *testing.T) {
	finfos, err := os.ReadDir("testdata/bad")
	if err != nil {
		t.Fatal(err)
	}

	for _, st := range finfos {
		st := st
		t.Run(st.Name(), func(t *testing.T) {
			fin, err := os.Open(filepath.Join("testdata", "bad", st.Name()))
			if err != nil {
				t.Fatal(err)
			}
			defer fin.Close()

			if _, err := Load(fin, st.Name()); err == nil {
				t.Fatal("validation should have failed but didn't somehow")
			} else {
				t.Log(err)
			}
		})
	}
}

func TestBuiltinPlaceholders(t *testing.T) {
	fin, err := data.Placeholders.Open("placeholders.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer fin.Close()

	c, err := Load(fin, "(data)/placeholders.yaml")
	if err != nil {
		t.Fatalf("can't parse builtin placeholders: %v", err)
	}

	for src, want := range map[Source]string{
		SourceStylesheet: "__STYLE_HASH__",
		SourceScript:     "__SCRIPT_HASH__",
	} {
		got, ok := c.TokenFor(src)
		if !ok {
			t.Errorf("no token bound to %s", src)
			continue
		}
		if got != want {
			t.Errorf("%s: wanted %q, got: %q", src, want, got)
		}
	}

	policies := c.Policies()
	if len(policies) != 1 {
		t.Fatalf("wanted 1 sourceless placeholder, got: %v", policies)
	}
	if policies["__CHART_HASH__"] != PolicyScrub {
		t.Errorf("wanted __CHART_HASH__ to be scrubbed, got: %q", policies["__CHART_HASH__"])
	}
}

func TestDuplicateTokenReported(t *testing.T) {
	c := Config{Placeholders: []Placeholder{
		{Token: "__A__", Source: SourceStylesheet},
		{Token: "__A__", Source: SourceScript},
	}}

	if err := c.Valid(); !errors.Is(err, ErrDuplicatePlaceholder) {
		t.Errorf("wanted %v, got: %v", ErrDuplicatePlaceholder, err)
	}
}
