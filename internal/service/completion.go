package service

import (
	"strings"

	"github.com/sar-academy/eval-api/internal/models"
)

// CompleteItems merges a submitted item list against the catalog question
// set for the area. Every catalog question appears exactly once in the
// result, in catalog order, carrying the submitted score and observation
// when the question was answered and zero values otherwise. Submitted items
// that do not match any catalog question are preserved after the catalog
// block, in submission order. The merge is idempotent: applying it to its
// own output returns the same list.
func CompleteItems(catalogQuestions []string, submitted []models.EvaluationItem) []models.EvaluationItem {
	byDescription := make(map[string]models.EvaluationItem, len(submitted))
	for _, item := range submitted {
		key := normalizeDescription(item.Description)
		if _, exists := byDescription[key]; !exists {
			byDescription[key] = item
		}
	}

	result := make([]models.EvaluationItem, 0, len(catalogQuestions)+len(submitted))
	inCatalog := make(map[string]bool, len(catalogQuestions))
	for _, question := range catalogQuestions {
		key := normalizeDescription(question)
		inCatalog[key] = true
		if item, ok := byDescription[key]; ok {
			item.Description = question
			result = append(result, item)
			continue
		}
		result = append(result, models.EvaluationItem{Description: question})
	}

	seen := make(map[string]bool, len(submitted))
	for _, item := range submitted {
		key := normalizeDescription(item.Description)
		if inCatalog[key] || seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, item)
	}
	return result
}

func normalizeDescription(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
