package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/storepulse/storepulse/internal/search"
	"github.com/storepulse/storepulse/internal/service"
)

type SearchHandler struct {
	service *service.SearchService
}

func NewSearchHandler(service *service.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search handles GET /api/v1/search
func (h *SearchHandler) Search(c *gin.Context) {
	query := search.Query{
		Keyword:  c.Query("q"),
		Field:    strings.TrimSpace(c.Query("field")),
		Category: strings.TrimSpace(c.Query("category")),
	}

	if fuzzy, err := strconv.ParseBool(c.DefaultQuery("fuzzy", "true")); err == nil {
		query.Fuzzy = fuzzy
	} else {
		query.Fuzzy = true
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		query.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "0")); err == nil && size > 0 {
		query.PageSize = size
	}

	page, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, search.ErrUnknownField) {
			errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		errorResponse(c, http.StatusInternalServerError, "search failed")
		log.Error().Err(err).Msg("search request failed")
		return
	}

	c.JSON(http.StatusOK, page)
}

// Autocomplete handles GET /api/v1/search/autocomplete
func (h *SearchHandler) Autocomplete(c *gin.Context) {
	prefix := c.Query("q")
	field := strings.TrimSpace(c.DefaultQuery("field", "name"))

	limit := 0
	if parsed, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil && parsed > 0 {
		limit = parsed
	}

	suggestions, err := h.service.Autocomplete(c.Request.Context(), field, prefix, limit)
	if err != nil {
		if errors.Is(err, search.ErrUnknownField) {
			errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		errorResponse(c, http.StatusInternalServerError, "autocomplete failed")
		log.Error().Err(err).Msg("autocomplete request failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
}
