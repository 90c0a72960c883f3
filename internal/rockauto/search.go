package rockauto

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/VladimirNTS/Rockauto-Rest-API/internal/models"
)

// Searcher is the search surface the cache decorator and the API layer
// consume.
type Searcher interface {
	Search(ctx context.Context, query models.SearchQuery) (*models.SearchResult, error)
}

// Search runs one part-number search against the upstream form.
// Whatever goes wrong underneath (session, token, filters, request,
// extraction), callers see a single *SearchError carrying the cause.
func (c *Client) Search(ctx context.Context, query models.SearchQuery) (*models.SearchResult, error) {
	result, err := c.search(ctx, query)
	if err != nil {
		return nil, &SearchError{Query: query.PartNumber, Cause: err}
	}
	return result, nil
}

func (c *Client) search(ctx context.Context, query models.SearchQuery) (*models.SearchResult, error) {
	c.ensureSession(ctx)

	// The token embedded in the search form is short-lived and
	// distinct from the session _nck token; it has to be re-read on
	// every search.
	res, err := c.http.R().SetContext(ctx).Get(partSearchPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch parts search page: %w", err)
	}
	if res.IsError() {
		return nil, &UpstreamStatusError{StatusCode: res.StatusCode(), URL: c.baseURL + partSearchPath}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse parts search page: %w", err)
	}

	tokenInput := doc.Find(`input[name="_nck"]`)
	if tokenInput.Length() == 0 {
		return nil, ErrTokenMissing
	}
	token := tokenInput.AttrOr("value", "")

	manufacturerValue, err := c.resolveFilter(ctx, models.OptionManufacturer, query.Manufacturer)
	if err != nil {
		return nil, err
	}
	partGroupValue, err := c.resolveFilter(ctx, models.OptionPartGroup, query.PartGroup)
	if err != nil {
		return nil, err
	}
	partTypeValue, err := c.resolveFilter(ctx, models.OptionPartType, query.PartType)
	if err != nil {
		return nil, err
	}

	form := map[string]string{
		"_nck":         token,
		"dopartsearch": "1",
		"partsearch[partnum][partsearch_007]":      query.PartNumber,
		"partsearch[manufacturer][partsearch_007]": manufacturerValue,
		"partsearch[partgroup][partsearch_007]":    partGroupValue,
		"partsearch[parttype][partsearch_007]":     partTypeValue,
		"partsearch[partname][partsearch_007]":     query.PartName,
		"partsearch[do][partsearch_007]":           "Search",
	}

	searchRes, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		SetHeader("Referer", c.baseURL+partSearchPath).
		Post(partSearchPath)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	if searchRes.IsError() {
		return nil, &UpstreamStatusError{StatusCode: searchRes.StatusCode(), URL: c.baseURL + partSearchPath}
	}

	resultDoc, err := goquery.NewDocumentFromReader(bytes.NewReader(searchRes.Body()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results page: %w", err)
	}

	parts := c.extractor.Extract(resultDoc)

	return &models.SearchResult{
		Parts:        parts,
		Count:        len(parts),
		SearchTerm:   query.PartNumber,
		Manufacturer: orAll(query.Manufacturer),
		PartGroup:    orAll(query.PartGroup),
		RetrievedAt:  time.Now(),
	}, nil
}

// resolveFilter maps a filter label to its form value. Empty and "all"
// labels skip the vocabulary fetch entirely; an unmatched label drops
// the filter instead of failing the search.
func (c *Client) resolveFilter(ctx context.Context, kind models.OptionKind, label string) (string, error) {
	if label == "" || strings.EqualFold(label, "all") {
		return "", nil
	}

	vocab, err := c.Vocabulary(ctx, kind, true)
	if err != nil {
		return "", err
	}

	return c.resolveLabel(vocab, label), nil
}

func orAll(label string) string {
	if label == "" {
		return "All"
	}
	return label
}
