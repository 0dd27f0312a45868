package e2e

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// SupportedFileExtensions is the list of file extensions used in E2E file-based tests.
// Markdown-family files carry frontmatter; .xlsx goes through the spreadsheet extractor.
// PDF and word-processor formats are covered by internal/extract tests.
var SupportedFileExtensions = []string{
	".md", ".markdown", ".mdx", ".txt", ".xlsx",
}

// MinimalFile returns the bytes of a minimal file of the given extension holding doc.
// Markdown-family files get the document's frontmatter; other types hold the title and content.
func MinimalFile(ext string, doc E2EDocument) ([]byte, error) {
	switch ext {
	case ".md", ".markdown", ".mdx":
		return []byte(doc.Markdown()), nil
	case ".txt":
		return []byte(doc.Title + "\n\n" + doc.Content + "\n"), nil
	case ".xlsx":
		return minimalXlsx(doc.Title, doc.Content)
	default:
		return nil, fmt.Errorf("unsupported fixture extension %q", ext)
	}
}

func minimalXlsx(lines ...string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	for i, line := range lines {
		if err := f.SetCellValue("Sheet1", fmt.Sprintf("A%d", i+1), line); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
