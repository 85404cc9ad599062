package dto

import "time"

type LanguageCreateRequest struct {
	Name    string  `json:"name"`
	Code    string  `json:"code"`
	FlagURL *string `json:"flag_url"`
}

type LanguageResponse struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Code    string  `json:"code"`
	FlagURL *string `json:"flag_url,omitempty"`
}

type CourseCreateRequest struct {
	LanguageID int64  `json:"language_id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Level      string `json:"level"`
}

type CourseUpdateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Level   string `json:"level"`
}

type CourseResponse struct {
	ID         int64     `json:"id"`
	LanguageID int64     `json:"language_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Level      string    `json:"level"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type QuestionCreateRequest struct {
	CourseID int64    `json:"course_id"`
	Prompt   string   `json:"prompt"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

type QuestionUpdateRequest struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

type QuestionResponse struct {
	ID       int64    `json:"id"`
	CourseID int64    `json:"course_id"`
	Prompt   string   `json:"prompt"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

type QuestionGenerateRequest struct {
	CourseID int64 `json:"course_id"`
	Count    int   `json:"count"`
}

type QuestionGenerateResponse struct {
	Created   int                `json:"created"`
	Questions []QuestionResponse `json:"questions"`
}

type DeleteResponse struct {
	OK bool `json:"ok"`
}
