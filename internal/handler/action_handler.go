package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizium-api/internal/handler/dto"
	"github.com/yourusername/quizium-api/internal/middleware"
	"github.com/yourusername/quizium-api/internal/service"
)

// ActionHandler обрабатывает переходы ролей: приглашения, заявки,
// исключение и назначение администраторов
type ActionHandler struct {
	actionService *service.ActionService
}

// NewActionHandler создает новый обработчик переходов ролей
func NewActionHandler(actionService *service.ActionService) *ActionHandler {
	return &ActionHandler{actionService: actionService}
}

// CreateInvite приглашает пользователя в компанию
func (h *ActionHandler) CreateInvite(c *gin.Context) {
	var req dto.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action, err := h.actionService.CreateInvite(paramUint(c, "companyID"), middleware.UserID(c), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, action)
}

// CancelInvite отменяет приглашение
func (h *ActionHandler) CancelInvite(c *gin.Context) {
	if err := h.actionService.CancelInvite(paramUint(c, "actionID"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invite cancelled"})
}

// RespondToInvite принимает или отклоняет приглашение
func (h *ActionHandler) RespondToInvite(c *gin.Context) {
	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action, err := h.actionService.RespondToInvite(paramUint(c, "actionID"), middleware.UserID(c), *req.Accept)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, action)
}

// CreateRequest подает заявку на вступление в компанию
func (h *ActionHandler) CreateRequest(c *gin.Context) {
	action, err := h.actionService.CreateRequest(paramUint(c, "companyID"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, action)
}

// CancelRequest отменяет заявку на вступление
func (h *ActionHandler) CancelRequest(c *gin.Context) {
	if err := h.actionService.CancelRequest(paramUint(c, "actionID"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request cancelled"})
}

// RespondToRequest принимает или отклоняет заявку на вступление
func (h *ActionHandler) RespondToRequest(c *gin.Context) {
	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action, err := h.actionService.RespondToRequest(paramUint(c, "actionID"), middleware.UserID(c), *req.Accept)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, action)
}

// RemoveUser исключает участника из компании
func (h *ActionHandler) RemoveUser(c *gin.Context) {
	var req dto.MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.actionService.RemoveUser(paramUint(c, "companyID"), req.UserID, middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User removed from company"})
}

// AssignAdmin назначает участника администратором
func (h *ActionHandler) AssignAdmin(c *gin.Context) {
	var req dto.MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action, err := h.actionService.AssignAdmin(paramUint(c, "companyID"), req.UserID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, action)
}

// RemoveAdmin снимает администратора до участника
func (h *ActionHandler) RemoveAdmin(c *gin.Context) {
	var req dto.MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action, err := h.actionService.RemoveAdmin(paramUint(c, "companyID"), req.UserID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, action)
}

// ListMyRequests возвращает заявки текущего пользователя
func (h *ActionHandler) ListMyRequests(c *gin.Context) {
	page, pageSize := pagination(c)
	actions, total, err := h.actionService.ListUserRequests(middleware.UserID(c), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": actions, "total": total, "page": page, "page_size": pageSize})
}

// ListMyInvites возвращает приглашения текущего пользователя
func (h *ActionHandler) ListMyInvites(c *gin.Context) {
	page, pageSize := pagination(c)
	actions, total, err := h.actionService.ListUserInvites(middleware.UserID(c), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": actions, "total": total, "page": page, "page_size": pageSize})
}

// ListCompanyRequests возвращает заявки на вступление в компанию
func (h *ActionHandler) ListCompanyRequests(c *gin.Context) {
	page, pageSize := pagination(c)
	actions, total, err := h.actionService.ListCompanyRequests(paramUint(c, "companyID"), middleware.UserID(c), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": actions, "total": total, "page": page, "page_size": pageSize})
}

// ListCompanyInvited возвращает приглашенных в компанию
func (h *ActionHandler) ListCompanyInvited(c *gin.Context) {
	page, pageSize := pagination(c)
	actions, total, err := h.actionService.ListCompanyInvited(paramUint(c, "companyID"), middleware.UserID(c), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": actions, "total": total, "page": page, "page_size": pageSize})
}

// ListCompanyMembers возвращает участников компании
func (h *ActionHandler) ListCompanyMembers(c *gin.Context) {
	page, pageSize := pagination(c)
	actions, total, err := h.actionService.ListCompanyMembers(paramUint(c, "companyID"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": actions, "total": total, "page": page, "page_size": pageSize})
}

// ListCompanyAdmins возвращает администраторов компании
func (h *ActionHandler) ListCompanyAdmins(c *gin.Context) {
	page, pageSize := pagination(c)
	actions, total, err := h.actionService.ListCompanyAdmins(paramUint(c, "companyID"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": actions, "total": total, "page": page, "page_size": pageSize})
}
