// Package manifest describes the files produced by a build and renders the
// integration hints the firmware build needs to link them in.
package manifest

import (
	"log/slog"
	"mime"
	"path"
	"strings"
	"unicode"

	"github.com/airmon/assetgz/lib/compress"
)

// Artifact is one compressed file written by the pipeline.
type Artifact struct {
	Source         string // name of the uncompressed file, e.g. page.html
	Name           string // name of the compressed file, e.g. page.html.gz
	Encoding       compress.Encoding
	RawSize        int
	CompressedSize int
}

func (a Artifact) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("source", a.Source),
		slog.String("name", a.Name),
		slog.String("encoding", a.Encoding.String()),
		slog.Int("raw_size", a.RawSize),
		slog.Int("compressed_size", a.CompressedSize),
	)
}

// Manifest lists the artifacts of one run in the order they were written.
type Manifest struct {
	EmbedPrefix string
	Artifacts   []Artifact
}

// Embedded returns the gzip artifacts, which are the ones linked into the
// firmware.
func (m *Manifest) Embedded() []Artifact {
	return m.filter(func(a Artifact) bool { return a.Encoding == compress.EncodingGzip })
}

// Extra returns artifacts in any other encoding.
func (m *Manifest) Extra() []Artifact {
	return m.filter(func(a Artifact) bool { return a.Encoding != compress.EncodingGzip })
}

func (m *Manifest) filter(keep func(Artifact) bool) []Artifact {
	var result []Artifact
	for _, a := range m.Artifacts {
		if keep(a) {
			result = append(result, a)
		}
	}
	return result
}

// SymbolBase is the name the linker derives for an embedded gzip copy of
// source: dots become underscores and "_gz" is appended.
func SymbolBase(source string) string {
	return strings.ReplaceAll(source, ".", "_") + "_gz"
}

func StartSymbol(source string) string {
	return "_binary_" + SymbolBase(source) + "_start"
}

func EndSymbol(source string) string {
	return "_binary_" + SymbolBase(source) + "_end"
}

// ContentType is the Content-Type the web server should send for source.
func ContentType(source string) string {
	switch path.Ext(source) {
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".js", ".mjs":
		return "application/javascript; charset=utf-8"
	}

	if ct := mime.TypeByExtension(path.Ext(source)); ct != "" {
		return ct
	}

	return "application/octet-stream"
}

// URI is the request path the web server serves source under.
func URI(source string) string {
	return "/" + source
}

// GuardName turns a header file name into an include guard macro. A name
// that would start with a digit gets a leading underscore.
func GuardName(fname string) string {
	var sb strings.Builder
	for i, r := range strings.ToUpper(path.Base(fname)) {
		if i == 0 && unicode.IsDigit(r) {
			sb.WriteByte('_')
		}
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
