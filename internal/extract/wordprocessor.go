package extract

import (
	"fmt"
	"strings"

	"github.com/lu4p/cat"
)

// extractWordProcessor decodes .docx, .odt and .rtf content; the format is sniffed from the bytes.
func extractWordProcessor(content []byte) (string, error) {
	text, err := cat.FromBytes(content)
	if err != nil {
		return "", fmt.Errorf("decode document: %w", err)
	}
	return strings.TrimSpace(text), nil
}
