// Package writer applies output files to disk idempotently and classifies
// every decision as create, update or unchanged.
package writer

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/klauern/agentsync/internal/model"
)

// Serialize renders a text or JSON output file exactly as it is written.
// JSON uses two-space indentation, no HTML escaping, and a trailing newline.
func Serialize(f model.OutputFile) (string, error) {
	switch f.Kind {
	case model.KindText:
		return f.Text, nil
	case model.KindJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(f.JSON); err != nil {
			return "", fmt.Errorf("failed to serialize %q: %w", f.Path, err)
		}
		return buf.String(), nil
	case model.KindSymlink:
		return "", fmt.Errorf("symlink %q has no content", f.Path)
	default:
		return "", fmt.Errorf("unknown output kind %q for %q", f.Kind, f.Path)
	}
}

// Fingerprint returns the hex SHA-256 of the UTF-8 bytes of content.
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
