package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tavernarpg/storefront/internal/domain"
)

// Catalog is the read-only product surface the handlers need. Upstream
// failures degrade to empty results; these routes never 5xx on catalog
// unavailability.
type Catalog interface {
	FetchAll(ctx context.Context, limit int) []domain.Product
	FetchByHandle(ctx context.Context, handle string) *domain.Product
	FetchByIDs(ctx context.Context, ids []string) []domain.Product
}

type ProductHandler struct {
	catalog Catalog
}

func NewProductHandler(catalog Catalog) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// GET /products?limit=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	products := h.catalog.FetchAll(r.Context(), limit)
	respondJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// GET /products/{handle}
func (h *ProductHandler) GetByHandle(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")

	product := h.catalog.FetchByHandle(r.Context(), handle)
	if product == nil {
		respondError(w, http.StatusNotFound, "Produto não encontrado", "")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

type productIDsRequestDTO struct {
	IDs []string `json:"ids"`
}

// POST /products/ids
func (h *ProductHandler) GetByIDs(w http.ResponseWriter, r *http.Request) {
	var req productIDsRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IDs == nil {
		respondError(w, http.StatusBadRequest, "IDs devem ser um array", "")
		return
	}
	if len(req.IDs) == 0 {
		respondJSON(w, http.StatusOK, map[string]interface{}{"products": []domain.Product{}})
		return
	}

	products := h.catalog.FetchByIDs(r.Context(), req.IDs)
	respondJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// GET /products/search?q=
// Word-containment match over name+description; name matches rank first;
// capped at 10 results.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	if query == "" {
		respondJSON(w, http.StatusOK, map[string]interface{}{"products": []domain.Product{}})
		return
	}

	all := h.catalog.FetchAll(r.Context(), 100)
	words := strings.Fields(query)

	filtered := make([]domain.Product, 0)
	for _, p := range all {
		haystack := strings.ToLower(p.Name + " " + p.Description)
		match := true
		for _, word := range words {
			if !strings.Contains(haystack, word) {
				match = false
				break
			}
		}
		if match {
			filtered = append(filtered, p)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		iName := strings.Contains(strings.ToLower(filtered[i].Name), query)
		jName := strings.Contains(strings.ToLower(filtered[j].Name), query)
		return iName && !jName
	})

	if len(filtered) > 10 {
		filtered = filtered[:10]
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"products": filtered})
}
