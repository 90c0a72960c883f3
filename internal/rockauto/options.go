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

// Element ids of the three dropdowns on the parts search form.
var selectIDs = map[models.OptionKind]string{
	models.OptionManufacturer: "manufacturer_partsearch_007",
	models.OptionPartGroup:    "partgroup_partsearch_007",
	models.OptionPartType:     "parttype_partsearch_007",
}

// Vocabulary returns the dropdown options for the given kind. A cached
// vocabulary is returned as-is when useCache is true; it is refreshed
// only through InvalidateOptions, never on a timer. A missing select
// element means the page layout changed and yields ErrUpstreamFormat
// rather than a falsely-empty vocabulary.
func (c *Client) Vocabulary(ctx context.Context, kind models.OptionKind, useCache bool) (*models.OptionVocabulary, error) {
	id, ok := selectIDs[kind]
	if !ok {
		return nil, fmt.Errorf("unknown option kind %q", kind)
	}

	if useCache {
		c.vocabMu.RLock()
		cached := c.vocabs[kind]
		c.vocabMu.RUnlock()
		if cached != nil {
			return cached, nil
		}
	}

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

	sel := doc.Find("select#" + id)
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%s dropdown missing: %w", kind, ErrUpstreamFormat)
	}

	var options []models.FilterOption
	sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
		text := strings.TrimSpace(opt.Text())
		if text == "" {
			return
		}
		options = append(options, models.FilterOption{
			Value: opt.AttrOr("value", ""),
			Text:  text,
		})
	})

	vocab := &models.OptionVocabulary{
		Kind:        kind,
		Options:     options,
		Count:       len(options),
		LastUpdated: time.Now(),
	}

	c.vocabMu.Lock()
	c.vocabs[kind] = vocab
	c.vocabMu.Unlock()

	return vocab, nil
}

// InvalidateOptions drops all cached vocabularies.
func (c *Client) InvalidateOptions() {
	c.vocabMu.Lock()
	c.vocabs = make(map[models.OptionKind]*models.OptionVocabulary)
	c.vocabMu.Unlock()
}

// resolveLabel translates a human-readable filter label into its form
// value. Absent labels and "all" mean no filtering; an unmatched label
// also resolves to no filter, dropping it rather than failing the
// search (a deliberate availability-over-strictness trade-off).
func (c *Client) resolveLabel(vocab *models.OptionVocabulary, label string) string {
	if label == "" || strings.EqualFold(label, "all") {
		return ""
	}
	if opt, ok := vocab.Find(label); ok {
		return opt.Value
	}
	c.logger.Debug("filter label not found, searching without it", "kind", vocab.Kind, "label", label)
	return ""
}
