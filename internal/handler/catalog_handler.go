package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sar-academy/eval-api/internal/models"
	"github.com/sar-academy/eval-api/pkg/response"
)

type catalogProvider interface {
	Year() int
	Areas() []string
	AreaCatalog(area string) (*models.AreaCatalog, error)
	Participants(area string) ([]models.Participant, error)
}

// CatalogHandler serves the read-only area, question and participant catalogs.
type CatalogHandler struct {
	catalog catalogProvider
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(catalog catalogProvider) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Areas godoc
// @Summary List evaluation areas
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/areas [get]
func (h *CatalogHandler) Areas(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{
		"year":  h.catalog.Year(),
		"areas": h.catalog.Areas(),
	}, nil)
}

// Questions godoc
// @Summary Question set and evaluator for an area
// @Tags Catalog
// @Produce json
// @Param area path string true "Area"
// @Success 200 {object} response.Envelope
// @Router /catalog/areas/{area}/questions [get]
func (h *CatalogHandler) Questions(c *gin.Context) {
	bundle, err := h.catalog.AreaCatalog(c.Param("area"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bundle, nil)
}

// Participants godoc
// @Summary Participant roster for an area
// @Tags Catalog
// @Produce json
// @Param area path string true "Area"
// @Success 200 {object} response.Envelope
// @Router /catalog/areas/{area}/participants [get]
func (h *CatalogHandler) Participants(c *gin.Context) {
	roster, err := h.catalog.Participants(c.Param("area"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster, nil)
}
