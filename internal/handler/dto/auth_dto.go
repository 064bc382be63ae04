package dto

// RegisterRequest — запрос регистрации пользователя
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest — запрос входа
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest — запрос обновления пары токенов
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
