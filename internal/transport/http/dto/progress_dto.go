package dto

type EnrollRequest struct {
	LanguageID int64 `json:"language_id"`
}

type ProgressUpdateRequest struct {
	Percentage *int     `json:"percentage"`
	Completed  *bool    `json:"completed"`
	Lessons    []string `json:"lessons"`
}

type ProgressResponse struct {
	ID         int64    `json:"id"`
	UserID     int64    `json:"user_id"`
	LanguageID int64    `json:"language_id"`
	Percentage int      `json:"percentage"`
	Completed  bool     `json:"completed"`
	Lessons    []string `json:"lessons"`
}
