package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sar-academy/eval-api/internal/dto"
	"github.com/sar-academy/eval-api/internal/models"
	appErrors "github.com/sar-academy/eval-api/pkg/errors"
	"github.com/sar-academy/eval-api/pkg/response"
)

type evaluationService interface {
	Submit(ctx context.Context, req dto.SubmitEvaluationRequest) (*dto.SubmitEvaluationResponse, error)
	Latest(ctx context.Context, participant, area string) (*models.EvaluationRecord, error)
	GetByID(ctx context.Context, id string) (*models.EvaluationRecord, error)
	History(ctx context.Context, filter models.EvaluationFilter) (*dto.EvaluationHistoryResponse, error)
	RenderPDF(ctx context.Context, id, lang string) ([]byte, string, error)
}

// EvaluationHandler exposes evaluation record endpoints.
type EvaluationHandler struct {
	service evaluationService
}

// NewEvaluationHandler constructs the handler.
func NewEvaluationHandler(service evaluationService) *EvaluationHandler {
	return &EvaluationHandler{service: service}
}

// Submit godoc
// @Summary Save a new evaluation
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param payload body dto.SubmitEvaluationRequest true "Evaluation payload"
// @Success 201 {object} response.Envelope
// @Router /evaluations [post]
func (h *EvaluationHandler) Submit(c *gin.Context) {
	var req dto.SubmitEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid evaluation payload"))
		return
	}
	result, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Latest godoc
// @Summary Latest evaluation for a participant in an area
// @Tags Evaluations
// @Produce json
// @Param nombre query string true "Participant name"
// @Param area query string true "Area"
// @Success 200 {object} response.Envelope
// @Router /evaluations/latest [get]
func (h *EvaluationHandler) Latest(c *gin.Context) {
	participant := c.Query("nombre")
	area := c.Query("area")
	if participant == "" || area == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "nombre and area required"))
		return
	}
	record, err := h.service.Latest(c.Request.Context(), participant, area)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// History godoc
// @Summary Evaluation history, newest first
// @Tags Evaluations
// @Produce json
// @Param nombre query string false "Participant name"
// @Param area query string false "Area"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /evaluations [get]
func (h *EvaluationHandler) History(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))
	result, err := h.service.History(c.Request.Context(), models.EvaluationFilter{
		ParticipantName: c.Query("nombre"),
		Area:            c.Query("area"),
		Page:            page,
		PageSize:        pageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Records, &result.Pagination)
}

// Get godoc
// @Summary Single evaluation by ID
// @Tags Evaluations
// @Produce json
// @Param id path string true "Evaluation ID"
// @Success 200 {object} response.Envelope
// @Router /evaluations/{id} [get]
func (h *EvaluationHandler) Get(c *gin.Context) {
	record, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// DownloadPDF godoc
// @Summary Printable evaluation document
// @Tags Evaluations
// @Produce application/pdf
// @Param id path string true "Evaluation ID"
// @Param lang query string false "Language (es|en)" default(es)
// @Success 200 {file} binary
// @Router /evaluations/{id}/pdf [get]
func (h *EvaluationHandler) DownloadPDF(c *gin.Context) {
	lang := c.DefaultQuery("lang", "es")
	payload, filename, err := h.service.RenderPDF(c.Request.Context(), c.Param("id"), lang)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", payload)
}
