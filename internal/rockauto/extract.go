package rockauto

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/VladimirNTS/Rockauto-Rest-API/internal/models"
)

// Defaults used when a field cannot be extracted from a listing block.
// A missing field never invalidates the row.
const (
	unknownField = "Unknown"
	defaultPrice = "0"
	emptySpecs   = "{}"
)

// Extractor turns a search results page into part records. Every
// field of every listing block is extracted independently, so one
// broken block cannot take down the rest of the page.
type Extractor struct {
	baseURL string
	logger  *slog.Logger
}

func NewExtractor(baseURL string, logger *slog.Logger) *Extractor {
	return &Extractor{
		baseURL: baseURL,
		logger:  logger.With("component", "extractor"),
	}
}

// Extract returns one record per listing container, in document order.
// A page with no containers is a valid empty result, not an error. A
// row whose extraction panics is logged and dropped; its siblings are
// unaffected.
func (e *Extractor) Extract(doc *goquery.Document) []models.PartRecord {
	parts := []models.PartRecord{}

	doc.Find(`div[id^='listingcontainer[']`).Each(func(i int, row *goquery.Selection) {
		record, err := e.extractRow(row)
		if err != nil {
			e.logger.Warn("dropping unparseable listing row", "index", i, "error", err)
			return
		}
		parts = append(parts, record)
	})

	return parts
}

func (e *Extractor) extractRow(row *goquery.Selection) (record models.PartRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("row extraction panicked: %v", r)
		}
	}()

	record = models.PartRecord{
		Name:           unknownField,
		Brand:          unknownField,
		Price:          defaultPrice,
		Specifications: emptySpecs,
	}

	if href := row.Find("a.ra-btn-moreinfo").AttrOr("href", ""); href != "" {
		record.URL = e.absoluteURL(href)
	}

	if name := row.Find("span.span-link-underline-remover").First().Text(); name != "" {
		// Listing names carry the "Info" button caption as a suffix.
		record.Name = strings.TrimSpace(strings.ReplaceAll(name, "Info", ""))
	}

	if brand := row.Find("span.listing-final-manufacturer.no-text-select").First().Text(); brand != "" {
		record.Brand = strings.TrimSpace(brand)
	}

	if price := e.findPrice(row); price != "" {
		record.Price = price
	}

	if number := row.Find("span.listing-final-partnumber.no-text-select").First().Text(); number != "" {
		record.PartNumber = strings.TrimSpace(number)
	}

	if src := row.Find(`img[id^='inlineimg_thumb[']`).AttrOr("src", ""); src != "" {
		record.ImageURL = e.absoluteURL(src)
	}

	return record, nil
}

// findPrice locates the displayed-price span, whose id has the shape
// dprice[<n>][v].
func (e *Extractor) findPrice(row *goquery.Selection) string {
	price := ""
	row.Find(`span[id^='dprice[']`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !strings.HasSuffix(sel.AttrOr("id", ""), "[v]") {
			return true
		}
		price = strings.TrimSpace(sel.Text())
		return false
	})
	return price
}

func (e *Extractor) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return e.baseURL + href
}
