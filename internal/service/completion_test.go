package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sar-academy/eval-api/internal/models"
)

func tenQuestions() []string {
	qs := make([]string, 10)
	for i := range qs {
		qs[i] = fmt.Sprintf("Pregunta %d", i+1)
	}
	return qs
}

func TestCompleteItemsFillsMissingQuestions(t *testing.T) {
	submitted := []models.EvaluationItem{
		{Description: "Pregunta 3", Score: 4, Observation: "bien"},
		{Description: "Pregunta 7", Score: 2},
	}

	result := CompleteItems(tenQuestions(), submitted)
	require.Len(t, result, 10)

	assert.Equal(t, 4, result[2].Score)
	assert.Equal(t, "bien", result[2].Observation)
	assert.Equal(t, 2, result[6].Score)

	for i, item := range result {
		assert.Equal(t, fmt.Sprintf("Pregunta %d", i+1), item.Description)
		if i != 2 && i != 6 {
			assert.Zero(t, item.Score)
			assert.Empty(t, item.Observation)
		}
	}
}

func TestCompleteItemsIdempotent(t *testing.T) {
	submitted := []models.EvaluationItem{
		{Description: "Pregunta 1", Score: 5},
	}
	first := CompleteItems(tenQuestions(), submitted)
	second := CompleteItems(tenQuestions(), first)
	assert.Equal(t, first, second)
}

func TestCompleteItemsPreservesUncataloguedItems(t *testing.T) {
	submitted := []models.EvaluationItem{
		{Description: "Observación libre", Score: 3, Observation: "extra"},
		{Description: "Pregunta 2", Score: 1},
	}
	result := CompleteItems(tenQuestions(), submitted)
	require.Len(t, result, 11)
	assert.Equal(t, "Observación libre", result[10].Description)
	assert.Equal(t, 3, result[10].Score)
}

func TestCompleteItemsMatchesCaseInsensitively(t *testing.T) {
	submitted := []models.EvaluationItem{
		{Description: "  pregunta 5 ", Score: 4},
	}
	result := CompleteItems(tenQuestions(), submitted)
	require.Len(t, result, 10)
	// canonical catalog spelling wins
	assert.Equal(t, "Pregunta 5", result[4].Description)
	assert.Equal(t, 4, result[4].Score)
}

func TestCompleteItemsEmptySubmission(t *testing.T) {
	result := CompleteItems(tenQuestions(), nil)
	require.Len(t, result, 10)
	for _, item := range result {
		assert.Zero(t, item.Score)
	}
}
