package keyword

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/hyperjump/mdindex/internal/models"
)

// TermDictionary provides access to the term dictionary for spell checking.
type TermDictionary interface {
	// GetAllTerms returns all unique terms in the dictionary.
	GetAllTerms() ([]string, error)
	// GetTermFrequency returns the number of documents containing term.
	GetTermFrequency(term string) (int, error)
}

var dictionaryFields = []string{"name", "body", "title", "tags"}

// MemDictionary is a TermDictionary over an in-memory Bleve index of one document set.
// It lives only as long as the query that built it.
type MemDictionary struct {
	index bleve.Index
}

// NewMemDictionary indexes docs into a memory-only Bleve index using the standard analyzer
// (lowercase, unicode tokenization, English stop words).
func NewMemDictionary(docs []*models.Document) (*MemDictionary, error) {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	textFieldMapping.Store = false
	for _, f := range dictionaryFields {
		docMapping.AddFieldMappingsAt(f, textFieldMapping)
	}
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory index: %w", err)
	}
	batch := index.NewBatch()
	for i, doc := range docs {
		title := ""
		if v, ok := doc.Frontmatter.Get("title"); ok && v != nil {
			title = fmt.Sprint(v)
		}
		fields := map[string]interface{}{
			"name":  splitName(doc.Name),
			"body":  doc.Body,
			"title": title,
			"tags":  strings.Join(doc.Tags(), " "),
		}
		if err := batch.Index(strconv.Itoa(i), fields); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("failed to index %s: %w", doc.Path, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("failed to index documents: %w", err)
	}
	return &MemDictionary{index: index}, nil
}

// splitName turns "release_notes-2024.md" into "release notes 2024 md" so each part is a term.
func splitName(name string) string {
	return strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(name)
}

// GetAllTerms returns the unique terms across all indexed fields, in field order.
func (d *MemDictionary) GetAllTerms() ([]string, error) {
	var terms []string
	seen := make(map[string]struct{})
	for _, field := range dictionaryFields {
		dict, err := d.index.FieldDict(field)
		if err != nil {
			return nil, fmt.Errorf("field dictionary %s: %w", field, err)
		}
		for {
			entry, err := dict.Next()
			if err != nil || entry == nil {
				break
			}
			if _, ok := seen[entry.Term]; !ok {
				seen[entry.Term] = struct{}{}
				terms = append(terms, entry.Term)
			}
		}
		_ = dict.Close()
	}
	return terms, nil
}

// GetTermFrequency returns how many documents contain term in any field.
func (d *MemDictionary) GetTermFrequency(term string) (int, error) {
	queries := make([]blevequery.Query, 0, len(dictionaryFields))
	for _, field := range dictionaryFields {
		q := bleve.NewTermQuery(strings.ToLower(term))
		q.SetField(field)
		queries = append(queries, q)
	}
	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(queries...))
	req.Size = 0
	res, err := d.index.Search(req)
	if err != nil {
		return 0, fmt.Errorf("failed to count term %q: %w", term, err)
	}
	return int(res.Total), nil
}

// Close releases the index.
func (d *MemDictionary) Close() error {
	return d.index.Close()
}
