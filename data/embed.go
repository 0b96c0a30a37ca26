// Package data holds the built-in placeholder declarations.
package data

import "embed"

var (
	//go:embed placeholders.yaml
	Placeholders embed.FS
)
