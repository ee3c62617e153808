// Package journal places the rendered recap into a notes directory.
package journal

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Write stores the document as <dir>/<label>.md and returns the path. A
// non-empty summary is appended under its own heading; the document portion
// is written byte-for-byte as rendered.
func Write(dir, label, document, summary string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, "failed to create journal directory")
	}

	content := document
	if summary != "" {
		content += "\n## Summary\n\n" + summary + "\n"
	}

	path := filepath.Join(dir, label+".md")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", errors.Wrap(err, "failed to write journal file")
	}
	return path, nil
}
