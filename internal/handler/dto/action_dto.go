package dto

// InviteRequest — приглашение пользователя в компанию
type InviteRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// DecisionRequest — решение по приглашению или заявке
type DecisionRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// MemberRequest — адресация участника компании
type MemberRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}
