package dto

type ProfileUpdateRequest struct {
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
}

type ProfileResponse struct {
	UserID      int64   `json:"user_id"`
	DisplayName string  `json:"display_name"`
	Bio         string  `json:"bio"`
	ImageURL    *string `json:"image_url,omitempty"`
}

type AccountResponse struct {
	ID        int64            `json:"id"`
	Email     string           `json:"email"`
	FullName  string           `json:"full_name"`
	Role      string           `json:"role"`
	IsPremium bool             `json:"is_premium"`
	Profile   *ProfileResponse `json:"profile,omitempty"`
}
