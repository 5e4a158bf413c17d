package dto

import (
	"github.com/sar-academy/eval-api/internal/models"
)

// SubmittedItem is one answered question in a submission payload.
type SubmittedItem struct {
	Description string `json:"descripcion" validate:"required"`
	Score       int    `json:"calificacion"`
	Observation string `json:"observaciones"`
}

// SubmitEvaluationRequest captures POST /evaluations payload. The record
// timestamp is not part of the payload: it is assigned at save time.
type SubmitEvaluationRequest struct {
	ParticipantName string          `json:"nombre" validate:"required"`
	Area            string          `json:"area" validate:"required"`
	Items           []SubmittedItem `json:"evaluaciones" validate:"required,min=1,dive"`
	Conclusion      string          `json:"conclusion"`
}

// SubmitEvaluationResponse returns the stored record along with per-item
// warnings for entries that were dropped before save.
type SubmitEvaluationResponse struct {
	Record   *models.EvaluationRecord `json:"record"`
	Warnings []models.ItemWarning     `json:"warnings,omitempty"`
}

// EvaluationHistoryResponse is the paginated history listing.
type EvaluationHistoryResponse struct {
	Records    []models.EvaluationRecord `json:"records"`
	Pagination models.Pagination         `json:"pagination"`
}
