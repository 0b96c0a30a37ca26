package manifest

import (
	"fmt"
	"io"
	"strings"
)

var rule = strings.Repeat("=", 50)

// Report writes the hints printed after a successful run: the EMBED_FILES
// entries for CMakeLists.txt and the extern declarations for webserver.c.
func Report(w io.Writer, m *Manifest) error {
	var sb strings.Builder

	sb.WriteString(rule + "\n")
	writeEmbedFiles(&sb, m)
	sb.WriteString("\n")
	writeHandlers(&sb, m)
	writeExtraFiles(&sb, m)
	sb.WriteString(rule + "\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// Header writes a C header declaring the start and end symbols of every
// embedded artifact.
func Header(w io.Writer, m *Manifest, guard string) error {
	var sb strings.Builder

	sb.WriteString("// Code generated by assetgz. DO NOT EDIT.\n\n")
	fmt.Fprintf(&sb, "#ifndef %s\n#define %s\n\n", guard, guard)
	sb.WriteString("#include <stdint.h>\n")

	for _, a := range m.Embedded() {
		fmt.Fprintf(&sb, "\n// %s (%s), URI: %s\n", a.Source, ContentType(a.Source), URI(a.Source))
		fmt.Fprintf(&sb, "extern const uint8_t %s[];\n", StartSymbol(a.Source))
		fmt.Fprintf(&sb, "extern const uint8_t %s[];\n", EndSymbol(a.Source))
	}

	fmt.Fprintf(&sb, "\n#endif // %s\n", guard)

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeEmbedFiles(sb *strings.Builder, m *Manifest) {
	sb.WriteString("Add these files to EMBED_FILES in CMakeLists.txt:\n")
	for _, a := range m.Embedded() {
		fmt.Fprintf(sb, "    %q\n", m.EmbedPrefix+a.Name)
	}
}

func writeHandlers(sb *strings.Builder, m *Manifest) {
	sb.WriteString("Add these handlers to webserver.c:\n")
	for _, a := range m.Embedded() {
		fmt.Fprintf(sb, "  // %s (%s)\n", a.Source, ContentType(a.Source))
		fmt.Fprintf(sb, "  extern const uint8_t %s[];\n", StartSymbol(a.Source))
		fmt.Fprintf(sb, "  extern const uint8_t %s[];\n", EndSymbol(a.Source))
		fmt.Fprintf(sb, "  // URI: %s\n\n", URI(a.Source))
	}
}

// writeExtraFiles lists zstd and brotli siblings. It writes nothing when
// only gzip was produced.
func writeExtraFiles(sb *strings.Builder, m *Manifest) {
	extra := m.Extra()
	if len(extra) == 0 {
		return
	}

	sb.WriteString("Also written (not for EMBED_FILES):\n")
	for _, a := range extra {
		fmt.Fprintf(sb, "    %s (Content-Encoding: %s)\n", a.Name, a.Encoding)
	}
	sb.WriteString("\n")
}
