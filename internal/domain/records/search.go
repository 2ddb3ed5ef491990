package records

import (
	"fmt"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"
)

// searchDocument is the indexed projection of a record
type searchDocument struct {
	Description string `json:"item_description"`
	Supplier    string `json:"supplier"`
	SKU         string `json:"sku"`
	Category    string `json:"cost_category"`
	PONumber    string `json:"po_number"`
}

// SearchHit is a search result pointing back into the dataset.
type SearchHit struct {
	Index int // record index in the collection
	Score float64
}

// SearchIndex provides full-text lookup over the record collection for the
// data-table search box. The index is in-memory and rebuilt from the dataset
// whenever the collection changes.
type SearchIndex struct {
	index bleve.Index
}

// NewSearchIndex creates an empty in-memory search index.
func NewSearchIndex() (*SearchIndex, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}
	return &SearchIndex{index: index}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = simple.Name

	keywordField := bleve.NewTextFieldMapping()
	keywordField.Analyzer = keyword.Name

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("item_description", textField)
	docMapping.AddFieldMappingsAt("supplier", textField)
	docMapping.AddFieldMappingsAt("sku", keywordField)
	docMapping.AddFieldMappingsAt("cost_category", keywordField)
	docMapping.AddFieldMappingsAt("po_number", keywordField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = simple.Name
	return indexMapping
}

// Rebuild replaces the index contents with the given records. Document IDs
// are the records' collection indices.
func (si *SearchIndex) Rebuild(recs []Record) error {
	count, err := si.index.DocCount()
	if err != nil {
		return fmt.Errorf("failed to read index size: %w", err)
	}

	batch := si.index.NewBatch()
	// Stale documents must go first, otherwise deleted records keep matching.
	for i := uint64(0); i < count; i++ {
		batch.Delete(strconv.FormatUint(i, 10))
	}
	for i := range recs {
		doc := searchDocument{
			Description: recs[i].Description,
			Supplier:    recs[i].Supplier,
			SKU:         recs[i].SKU,
			Category:    recs[i].CostCategory,
			PONumber:    recs[i].PONumber,
		}
		if err := batch.Index(strconv.Itoa(i), doc); err != nil {
			return fmt.Errorf("failed to index record %d: %w", i, err)
		}
	}
	return si.index.Batch(batch)
}

// Search returns up to limit hits for the query, best match first. The query
// matches descriptions and suppliers as free text and SKU/PO numbers exactly.
func (si *SearchIndex) Search(query string, limit int) ([]SearchHit, error) {
	if limit <= 0 {
		limit = 50
	}
	q := bleve.NewDisjunctionQuery(
		bleve.NewMatchQuery(query),
		bleve.NewPrefixQuery(query),
		bleve.NewTermQuery(query),
	)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	res, err := si.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]SearchHit, 0, len(res.Hits))
	for _, h := range res.Hits {
		idx, err := strconv.Atoi(h.ID)
		if err != nil {
			continue
		}
		hits = append(hits, SearchHit{Index: idx, Score: h.Score})
	}
	return hits, nil
}

// Close releases the index resources.
func (si *SearchIndex) Close() error { return si.index.Close() }
