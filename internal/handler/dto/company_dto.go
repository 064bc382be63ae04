package dto

// CreateCompanyRequest — запрос создания компании
type CreateCompanyRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsVisible   *bool  `json:"is_visible"`
}

// UpdateCompanyRequest — частичное обновление компании
type UpdateCompanyRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsVisible   *bool   `json:"is_visible"`
}

// UpdateProfileRequest — частичное обновление профиля пользователя
type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}
