package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/VladimirNTS/Rockauto-Rest-API/internal/database"
	"github.com/VladimirNTS/Rockauto-Rest-API/internal/events"
	"github.com/VladimirNTS/Rockauto-Rest-API/internal/models"
	"github.com/VladimirNTS/Rockauto-Rest-API/internal/rockauto"
)

// PriceConverter normalizes a scraped price string into the target
// currency. Conversion failures are non-fatal: the record's cost just
// stays zero.
type PriceConverter interface {
	Convert(ctx context.Context, price string) (float64, error)
}

// VocabularyProvider exposes the dropdown vocabularies.
type VocabularyProvider interface {
	Vocabulary(ctx context.Context, kind models.OptionKind, useCache bool) (*models.OptionVocabulary, error)
}

// SearchRecorder persists completed searches. May be nil when the
// database is disabled.
type SearchRecorder interface {
	InsertSearch(ctx context.Context, s *database.SearchLog) error
}

// EventPublisher announces completed searches. May be nil when events
// are disabled.
type EventPublisher interface {
	PublishSearchCompleted(ctx context.Context, p *events.SearchCompletedPayload) error
}

type Handlers struct {
	searcher  rockauto.Searcher
	options   VocabularyProvider
	converter PriceConverter
	recorder  SearchRecorder
	publisher EventPublisher
	logger    *slog.Logger
}

func NewHandlers(searcher rockauto.Searcher, options VocabularyProvider, converter PriceConverter,
	recorder SearchRecorder, publisher EventPublisher, logger *slog.Logger) *Handlers {
	return &Handlers{
		searcher:  searcher,
		options:   options,
		converter: converter,
		recorder:  recorder,
		publisher: publisher,
		logger:    logger.With("component", "api"),
	}
}

// BrandItem mirrors the brands wire shape consumed by the parts
// ordering platform.
type BrandItem struct {
	Number  string `json:"number"`
	Brand   string `json:"brand"`
	DesText string `json:"des_text"`
}

type BrandsResponse struct {
	Result string      `json:"result"`
	Data   []BrandItem `json:"data"`
}

// OfferItem mirrors the offers wire shape: the fixed quantity and
// delivery fields are contract constants, not scraped data.
type OfferItem struct {
	OEM            string         `json:"oem"`
	MakeName       string         `json:"make_name"`
	DetailName     string         `json:"detail_name"`
	Cost           float64        `json:"cost"`
	Qnt            int            `json:"qnt"`
	MinDeliveryDay int            `json:"min_delivery_day"`
	MaxDeliveryDay int            `json:"max_delivery_day"`
	MinQnt         int            `json:"min_qnt"`
	SupLogo        string         `json:"sup_logo"`
	StatGroup      int            `json:"stat_group"`
	SystemHash     string         `json:"system_hash"`
	Weight         float64        `json:"weight"`
	Volume         float64        `json:"volume"`
	SysInfo        map[string]any `json:"sys_info"`
}

type OffersResponse struct {
	Result string      `json:"result"`
	Data   []OfferItem `json:"data"`
}

type BatchArticle struct {
	OEM      string `json:"oem"`
	MakeName string `json:"make_name"`
}

type BatchRequest struct {
	OEMList  []string       `json:"oem_list"`
	Articles []BatchArticle `json:"articles"`
}

// GetBrandsByOEM handles GET /search/get_brands_by_oem.
func (h *Handlers) GetBrandsByOEM(w http.ResponseWriter, r *http.Request) {
	oem := r.URL.Query().Get("oem")
	if oem == "" {
		respondError(w, http.StatusBadRequest, "oem is required")
		return
	}

	result, err := h.runSearch(r.Context(), models.SearchQuery{PartNumber: oem})
	if err != nil {
		h.logger.Error("brand search failed", "oem", oem, "error", err)
		respondError(w, http.StatusBadGateway, "upstream search failed")
		return
	}

	data := make([]BrandItem, 0, len(result.Parts))
	for _, part := range result.Parts {
		data = append(data, BrandItem{
			Number:  part.PartNumber,
			Brand:   part.Brand,
			DesText: part.Name,
		})
	}

	respondJSON(w, http.StatusOK, BrandsResponse{Result: "ok", Data: data})
}

// GetOffersByOEMAndMakeName handles GET /search/get_offers_by_oem_and_make_name.
func (h *Handlers) GetOffersByOEMAndMakeName(w http.ResponseWriter, r *http.Request) {
	oem := r.URL.Query().Get("oem")
	if oem == "" {
		respondError(w, http.StatusBadRequest, "oem is required")
		return
	}
	makeName := r.URL.Query().Get("make_name")
	text := r.URL.Query().Get("text")

	result, err := h.runSearch(r.Context(), models.SearchQuery{
		PartNumber:   text + oem,
		Manufacturer: makeName,
	})
	if err != nil {
		h.logger.Error("offer search failed", "oem", oem, "make_name", makeName, "error", err)
		respondError(w, http.StatusBadGateway, "upstream search failed")
		return
	}

	data := make([]OfferItem, 0, len(result.Parts))
	for _, part := range result.Parts {
		data = append(data, h.offerFromPart(r.Context(), part, "ROCKAUTO"))
	}

	respondJSON(w, http.StatusOK, OffersResponse{Result: "ok", Data: data})
}

// GetOffersBatch handles POST /search/get_offers_by_oem_and_make_name
// with a body of articles. Individual article failures are skipped so
// one dead lookup cannot sink the batch.
func (h *Handlers) GetOffersBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	data := make([]OfferItem, 0)
	for _, article := range req.Articles {
		if article.OEM == "" {
			continue
		}
		result, err := h.runSearch(r.Context(), models.SearchQuery{
			PartNumber:   article.OEM,
			Manufacturer: article.MakeName,
		})
		if err != nil {
			h.logger.Warn("batch article search failed", "oem", article.OEM, "error", err)
			continue
		}
		for _, part := range result.Parts {
			data = append(data, h.offerFromPart(r.Context(), part, "BERG"))
		}
	}

	respondJSON(w, http.StatusOK, OffersResponse{Result: "ok", Data: data})
}

// GetOptions handles GET /options/{kind}.
func (h *Handlers) GetOptions(w http.ResponseWriter, r *http.Request) {
	var kind models.OptionKind
	switch chi.URLParam(r, "kind") {
	case "manufacturers":
		kind = models.OptionManufacturer
	case "part-groups":
		kind = models.OptionPartGroup
	case "part-types":
		kind = models.OptionPartType
	default:
		respondError(w, http.StatusNotFound, "unknown option kind")
		return
	}

	vocab, err := h.options.Vocabulary(r.Context(), kind, true)
	if err != nil {
		h.logger.Error("vocabulary fetch failed", "kind", kind, "error", err)
		respondError(w, http.StatusBadGateway, "failed to fetch options")
		return
	}

	respondJSON(w, http.StatusOK, vocab)
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// runSearch performs the search and fans out the best-effort side
// effects (search log, lifecycle event).
func (h *Handlers) runSearch(ctx context.Context, query models.SearchQuery) (*models.SearchResult, error) {
	start := time.Now()
	result, err := h.searcher.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if h.recorder != nil {
		log := &database.SearchLog{
			PartNumber:   query.PartNumber,
			Manufacturer: query.Manufacturer,
			PartGroup:    query.PartGroup,
			ResultCount:  result.Count,
			DurationMS:   time.Since(start).Milliseconds(),
		}
		if err := h.recorder.InsertSearch(ctx, log); err != nil {
			h.logger.Warn("failed to record search", "error", err)
		}
	}

	if h.publisher != nil {
		payload := &events.SearchCompletedPayload{
			PartNumber:   query.PartNumber,
			Manufacturer: query.Manufacturer,
			ResultCount:  result.Count,
		}
		if err := h.publisher.PublishSearchCompleted(ctx, payload); err != nil {
			h.logger.Warn("failed to publish search event", "error", err)
		}
	}

	return result, nil
}

func (h *Handlers) offerFromPart(ctx context.Context, part models.PartRecord, supLogo string) OfferItem {
	cost := 0.0
	if converted, err := h.converter.Convert(ctx, part.Price); err == nil {
		cost = converted
	} else {
		h.logger.Debug("price conversion failed", "price", part.Price, "error", err)
	}

	return OfferItem{
		OEM:        part.PartNumber,
		MakeName:   part.Brand,
		DetailName: part.Name,
		Cost:       cost,
		Qnt:        25,
		MinQnt:     2,
		SupLogo:    supLogo,
		SysInfo:    map[string]any{},
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
