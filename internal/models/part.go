package models

import (
	"strings"
	"time"
)

// OptionKind identifies one of the search form dropdowns.
type OptionKind string

const (
	OptionManufacturer OptionKind = "manufacturer"
	OptionPartGroup    OptionKind = "partgroup"
	OptionPartType     OptionKind = "parttype"
)

// FilterOption is a single dropdown entry: the internal form value and
// the label shown to the user. Only ever produced by scraping.
type FilterOption struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// OptionVocabulary holds every option of one dropdown, replaced
// wholesale on refresh.
type OptionVocabulary struct {
	Kind        OptionKind     `json:"kind"`
	Options     []FilterOption `json:"options"`
	Count       int            `json:"count"`
	LastUpdated time.Time      `json:"last_updated"`
}

// Find looks up an option by its label, case-insensitively.
func (v *OptionVocabulary) Find(label string) (FilterOption, bool) {
	for _, opt := range v.Options {
		if strings.EqualFold(opt.Text, label) {
			return opt, true
		}
	}
	return FilterOption{}, false
}

// SearchQuery describes one part search. PartNumber is required and
// may contain * wildcards; the filters are human-readable labels.
type SearchQuery struct {
	PartNumber   string `json:"part_number"`
	Manufacturer string `json:"manufacturer,omitempty"`
	PartGroup    string `json:"part_group,omitempty"`
	PartType     string `json:"part_type,omitempty"`
	PartName     string `json:"part_name,omitempty"`
}

// Normalized returns a copy with every field trimmed and lower-cased,
// suitable for use as a cache key.
func (q SearchQuery) Normalized() SearchQuery {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	return SearchQuery{
		PartNumber:   norm(q.PartNumber),
		Manufacturer: norm(q.Manufacturer),
		PartGroup:    norm(q.PartGroup),
		PartType:     norm(q.PartType),
		PartName:     norm(q.PartName),
	}
}

// CacheKey folds the normalized query into a single string.
func (q SearchQuery) CacheKey() string {
	n := q.Normalized()
	return strings.Join([]string{n.PartNumber, n.Manufacturer, n.PartGroup, n.PartType, n.PartName}, "|")
}

// PartRecord is one scraped listing. Price stays an opaque string in
// whatever currency the site rendered; Specifications defaults to an
// empty JSON object.
type PartRecord struct {
	Name           string `json:"name"`
	PartNumber     string `json:"part_number"`
	Brand          string `json:"brand"`
	Price          string `json:"price"`
	URL            string `json:"url"`
	ImageURL       string `json:"image_url"`
	Specifications string `json:"specifications"`
}

// SearchResult wraps the extracted records together with the echoed
// query parameters. Absent filters are echoed as "All".
type SearchResult struct {
	Parts        []PartRecord `json:"parts"`
	Count        int          `json:"count"`
	SearchTerm   string       `json:"search_term"`
	Manufacturer string       `json:"manufacturer"`
	PartGroup    string       `json:"part_group"`
	RetrievedAt  time.Time    `json:"retrieved_at"`
}
