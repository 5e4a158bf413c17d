package dto

import "github.com/sar-academy/eval-api/internal/models"

// ExportRequest captures POST /exports payload.
type ExportRequest struct {
	Type            models.ExportType `json:"type"`
	EvaluationID    string            `json:"evaluationId,omitempty"`
	ParticipantName string            `json:"participant,omitempty"`
	Area            string            `json:"area,omitempty"`
	Language        string            `json:"language,omitempty"`
}

// ExportJobResponse is returned after enqueueing an export.
type ExportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ExportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ExportStatusResponse exposes job progress metadata.
type ExportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ExportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
