package models

import "time"

// Question is one catalog entry for an area, ordered by Number.
type Question struct {
	Year        int    `json:"year"`
	Area        string `json:"area"`
	Number      int    `json:"number"`
	Description string `json:"description"`
}

// Participant is one evaluable person loaded from the roster.
type Participant struct {
	Area   string     `json:"area"`
	Name   string     `json:"nombre"`
	Email  string     `json:"email"`
	Phone  string     `json:"contacto"`
	Union  string     `json:"union_federacion"`
	Joined *time.Time `json:"fecha,omitempty"`
}

// AreaCatalog bundles the year-scoped catalog for a single area.
type AreaCatalog struct {
	Area      string   `json:"area"`
	Year      int      `json:"year"`
	Evaluator string   `json:"evaluator"`
	Questions []string `json:"questions"`
}
