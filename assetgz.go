// Package assetgz contains the version number and the fixed file layout of
// the assetgz build step.
package assetgz

// Version is the current version of assetgz.
//
// This variable is set at build time using the -X linker flag. If not set,
// it defaults to "devel".
var Version = "devel"

// File names read from the input directory.
const (
	TemplateFile   = "page.template.html"
	StylesheetFile = "style.css"
	ScriptFile     = "script.js"
)

// PageFile is the rendered template, written next to the compressed artifacts.
const PageFile = "page.html"

// DefaultInputDir is where assets are looked up when no directory is configured.
const DefaultInputDir = "data"

// DefaultEmbedPrefix is the path prefix the consuming firmware build uses for
// embedded files.
const DefaultEmbedPrefix = "data/"

// HashLength is the number of hex characters kept from a content digest.
const HashLength = 8
