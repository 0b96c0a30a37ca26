package internal

import (
	"errors"
	"strings"
	"testing"
)

func TestContentHash(t *testing.T) {
	for _, tt := range []struct {
		name string
		alg  HashAlgorithm
		data string
		want string
	}{
		{"sha1 empty", HashSHA1, "", "da39a3ee"},
		{"sha1 abc", HashSHA1, "abc", "a9993e36"},
		{"sha1 css", HashSHA1, "body{}", "a4c0dac4"},
		{"sha1 js", HashSHA1, "console.log(1)", "ccb093eb"},
		{"sha256 empty", HashSHA256, "", "e3b0c442"},
		{"sha256 abc", HashSHA256, "abc", "ba7816bf"},
		{"blake3 empty", HashBLAKE3, "", "af1349b9"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.alg.ContentHash([]byte(tt.data))
			if got != tt.want {
				t.Errorf("wanted %q, got: %q", tt.want, got)
			}
		})
	}
}

func TestContentHashShape(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("a"),
		[]byte(strings.Repeat("x", 1<<16)),
		{0x00, 0xff, 0x10},
	}

	for _, alg := range []HashAlgorithm{HashSHA1, HashSHA256, HashBLAKE3} {
		for _, in := range inputs {
			got := alg.ContentHash(in)
			if len(got) != 8 {
				t.Errorf("%s: wanted 8 characters, got %d (%q)", alg, len(got), got)
			}
			if strings.Trim(got, "0123456789abcdef") != "" {
				t.Errorf("%s: %q is not lowercase hex", alg, got)
			}
			if again := alg.ContentHash(in); again != got {
				t.Errorf("%s: hash is not stable: %q != %q", alg, got, again)
			}
		}
	}
}

func TestContentHashChangesWithContent(t *testing.T) {
	a := ContentHash([]byte("body{color:red}"))
	b := ContentHash([]byte("body{color:blue}"))
	if a == b {
		t.Errorf("different content produced the same hash %q", a)
	}
}

func TestParseHashAlgorithm(t *testing.T) {
	for _, tt := range []struct {
		in      string
		want    HashAlgorithm
		wantErr error
	}{
		{"", HashSHA1, nil},
		{"sha1", HashSHA1, nil},
		{"sha256", HashSHA256, nil},
		{"blake3", HashBLAKE3, nil},
		{"md5", "", ErrUnknownHashAlgorithm},
	} {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHashAlgorithm(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("wanted error %v, got: %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("wanted %q, got: %q", tt.want, got)
			}
		})
	}
}
