package lib

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
)

// console writes the human-facing progress and diagnostics. Colour is only
// used when w is a terminal.
type console struct {
	w       io.Writer
	verbose bool

	good  lipgloss.Style
	bad   lipgloss.Style
	muted lipgloss.Style
}

func newConsole(w io.Writer, verbose bool) *console {
	r := lipgloss.NewRenderer(w)

	return &console{
		w:       w,
		verbose: verbose,
		good:    r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		bad:     r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func (c *console) printf(format string, args ...any) {
	fmt.Fprintf(c.w, format, args...)
}

// detailf prints only in verbose mode.
func (c *console) detailf(format string, args ...any) {
	if !c.verbose {
		return
	}
	fmt.Fprintf(c.w, format, args...)
}

func (c *console) successf(format string, args ...any) {
	fmt.Fprintf(c.w, "%s %s", c.good.Render("✓"), fmt.Sprintf(format, args...))
}

func (c *console) errorf(format string, args ...any) {
	fmt.Fprintf(c.w, "%s %s", c.bad.Render("Error:"), fmt.Sprintf(format, args...))
}

// listDir prints the entries of dir, directories with a trailing slash.
// Only used in verbose mode to help locate misplaced inputs.
func (c *console) listDir(dir string) {
	if !c.verbose {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		c.printf("\ncan't list %s: %v\n", dir, err)
		return
	}

	c.printf("\n%s\n", c.muted.Render("Contents of "+filepath.Clean(dir)+":"))
	for _, e := range entries {
		if e.IsDir() {
			c.printf("  %s/\n", e.Name())
		} else {
			c.printf("  %s\n", e.Name())
		}
	}
}
