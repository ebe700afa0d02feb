package models

// Question is a top-level board post. Answers are embedded only on the
// detail response; list responses carry questions without them.
type Question struct {
	ID         int64    `json:"id"`
	Subject    string   `json:"subject"`
	Content    string   `json:"content"`
	CreateDate string   `json:"create_date"`
	User       *User    `json:"user,omitempty"`
	Answers    []Answer `json:"answers,omitempty"`
}

// QuestionWrite is the request body for creating or updating a question.
type QuestionWrite struct {
	Subject string `json:"subject" validate:"required,notblank"`
	Content string `json:"content" validate:"required,notblank"`
}

// QuestionPage is one page of a question listing.
//
// Invariants for any page the UI displays: 0 <= len(Items) <= the requested
// size, and page*size < Total whenever Items is non-empty.
type QuestionPage struct {
	Total int        `json:"total"`
	Items []Question `json:"items"`
}

// ListRequest carries the query parameters of the list-questions operation.
type ListRequest struct {
	Page    int
	Size    int
	Keyword string
}
