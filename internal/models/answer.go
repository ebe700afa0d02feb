package models

// Answer is a reply scoped to one question. The owning question is addressed
// by path parameter on the wire, not embedded here.
type Answer struct {
	ID         int64  `json:"id"`
	Content    string `json:"content"`
	CreateDate string `json:"create_date"`
	User       *User  `json:"user,omitempty"`
}

// AnswerWrite is the request body for creating or updating an answer.
type AnswerWrite struct {
	Content string `json:"content" validate:"required,notblank"`
}
