package lib

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"

	"github.com/airmon/assetgz/data"
	"github.com/airmon/assetgz/lib/render/config"
)

const builtinPlaceholders = "placeholders.yaml"

// LoadPlaceholdersOrDefault reads the placeholder declarations from fname,
// or the built-in ones when fname is empty.
func LoadPlaceholdersOrDefault(fname string) (*config.Config, error) {
	doc, name, err := placeholderDocument(fname)
	if err != nil {
		return nil, err
	}

	return config.Load(bytes.NewReader(doc), name)
}

// placeholderDocument returns the raw YAML together with the name used for
// it in error messages.
func placeholderDocument(fname string) ([]byte, string, error) {
	if fname == "" {
		doc, err := fs.ReadFile(data.Placeholders, builtinPlaceholders)
		if err != nil {
			return nil, "", fmt.Errorf("[unexpected] can't read builtin %s: %w", builtinPlaceholders, err)
		}
		return doc, "(builtin)/" + builtinPlaceholders, nil
	}

	doc, err := os.ReadFile(fname)
	if err != nil {
		return nil, "", fmt.Errorf("can't read placeholder file: %w", err)
	}
	return doc, fname, nil
}
