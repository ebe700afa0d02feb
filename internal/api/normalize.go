package api

import (
	"bytes"
	"encoding/json"

	"github.com/pybo-board/pybo-client/internal/models"
)

// NormalizeQuestionList tolerates the three list envelopes the backend has
// shipped over time: a bare array, the paged {total, items} envelope, and
// the legacy {questions} envelope. It is a compatibility shim for the
// list-questions endpoint only, not a general parser. A body matching none
// of the shapes yields a format error.
func NormalizeQuestionList(body []byte) (*models.QuestionPage, error) {
	// Bare validated array.
	var arr []json.RawMessage
	if err := json.Unmarshal(body, &arr); err == nil {
		items, ok := decodeQuestions(arr)
		if !ok {
			return nil, formatError("question list element has an unexpected shape")
		}
		return &models.QuestionPage{Total: len(items), Items: items}, nil
	}

	var env struct {
		Total     *int              `json:"total"`
		Items     []json.RawMessage `json:"items"`
		Questions []json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, formatError("question list response is not valid JSON")
	}

	// Paged envelope, then the legacy one.
	for _, raw := range [][]json.RawMessage{env.Items, env.Questions} {
		if raw == nil {
			continue
		}
		items, ok := decodeQuestions(raw)
		if !ok {
			return nil, formatError("question list element has an unexpected shape")
		}
		total := len(items)
		if env.Total != nil {
			total = *env.Total
		}
		return &models.QuestionPage{Total: total, Items: items}, nil
	}

	return nil, formatError("question list response matches no known envelope")
}

// decodeQuestions validates each element against the minimal question shape
// (numeric id, string subject/content/create_date) and decodes the batch.
func decodeQuestions(raw []json.RawMessage) ([]models.Question, bool) {
	items := make([]models.Question, 0, len(raw))
	for _, r := range raw {
		var probe struct {
			ID         json.Number `json:"id"`
			Subject    *string     `json:"subject"`
			Content    *string     `json:"content"`
			CreateDate *string     `json:"create_date"`
		}
		dec := json.NewDecoder(bytes.NewReader(r))
		dec.UseNumber()
		if err := dec.Decode(&probe); err != nil {
			return nil, false
		}
		if probe.ID == "" || probe.Subject == nil || probe.Content == nil || probe.CreateDate == nil {
			return nil, false
		}
		if _, err := probe.ID.Int64(); err != nil {
			return nil, false
		}

		var q models.Question
		if err := json.Unmarshal(r, &q); err != nil {
			return nil, false
		}
		items = append(items, q)
	}
	return items, true
}
