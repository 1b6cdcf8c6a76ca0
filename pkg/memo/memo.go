// Package memo implements the memo surface: a flat collection of titled
// notes with single and bulk creation.
package memo

import (
	"github.com/getmockd/recstore/pkg/validation"
)

// Memo is a stored note.
type Memo struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (m Memo) GetID() int { return m.ID }

func (m Memo) WithID(id int) Memo {
	m.ID = id
	return m
}

// Input is the body of a create or full update.
type Input struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// TitleInput is the body of PUT /memos/{id}/title.
type TitleInput struct {
	Title string `json:"title"`
}

const (
	msgInvalidMemo  = "Field 'title' is required and must be a non-empty string; 'content' must be a string."
	msgInvalidTitle = "Field 'title' is required and must be a non-empty string."
	msgNotAList     = "Field 'memos' must be a list."
)

var memoSchema = validation.MustCompile("memo", msgInvalidMemo, `{
	"type": "object",
	"required": ["title"],
	"properties": {
		"title":   {"type": "string", "minLength": 1},
		"content": {"type": "string"}
	}
}`)

var titleSchema = validation.MustCompile("memo-title", msgInvalidTitle, `{
	"type": "object",
	"required": ["title"],
	"properties": {
		"title": {"type": "string", "minLength": 1}
	}
}`)
