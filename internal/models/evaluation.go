package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ScoreMin and ScoreMax bound the accepted score range for a single item.
const (
	ScoreMin = 0
	ScoreMax = 5
)

// ValidScore reports whether s is one of the six accepted values.
func ValidScore(s int) bool {
	return s >= ScoreMin && s <= ScoreMax
}

// EvaluationItem is one scored question inside an evaluation. Description is
// the natural key within a record.
type EvaluationItem struct {
	Description string `json:"descripcion"`
	Score       int    `json:"calificacion"`
	Observation string `json:"observaciones"`
}

// EvaluationItems is the ordered item list persisted as a JSONB column.
type EvaluationItems []EvaluationItem

// Value marshals the item list to JSON for persistence.
func (it EvaluationItems) Value() (driver.Value, error) {
	if it == nil {
		it = EvaluationItems{}
	}
	data, err := json.Marshal(it)
	if err != nil {
		return nil, fmt.Errorf("marshal evaluation items: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the item list.
func (it *EvaluationItems) Scan(value interface{}) error {
	if value == nil {
		*it = EvaluationItems{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for EvaluationItems", value)
	}
	if len(data) == 0 {
		*it = EvaluationItems{}
		return nil
	}
	if err := json.Unmarshal(data, it); err != nil {
		return fmt.Errorf("unmarshal evaluation items: %w", err)
	}
	return nil
}

// Total sums the item scores.
func (it EvaluationItems) Total() int {
	total := 0
	for _, item := range it {
		total += item.Score
	}
	return total
}

// EvaluationRecord is one completed evaluation for one participant, one area,
// one submission event. Records are immutable once written: saving always
// inserts a new row, never updates an existing one.
type EvaluationRecord struct {
	ID              string          `db:"id" json:"id"`
	Seq             int64           `db:"seq" json:"seq"`
	ParticipantName string          `db:"participant_name" json:"nombre"`
	Area            string          `db:"area" json:"area"`
	EvaluatedAt     time.Time       `db:"evaluated_at" json:"fecha"`
	EvaluatorName   string          `db:"evaluator_name" json:"evaluador"`
	Items           EvaluationItems `db:"items" json:"evaluaciones"`
	Conclusion      string          `db:"conclusion" json:"conclusion"`
}

// EvaluationFilter narrows history listings.
type EvaluationFilter struct {
	ParticipantName string
	Area            string
	Page            int
	PageSize        int
}

// ItemWarning reports a submitted item that was rejected before save.
type ItemWarning struct {
	Description string `json:"description"`
	Reason      string `json:"reason"`
}
