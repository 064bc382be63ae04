package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizium-api/internal/handler/dto"
	"github.com/yourusername/quizium-api/internal/middleware"
	"github.com/yourusername/quizium-api/internal/service"
)

// CompanyHandler обрабатывает запросы, связанные с компаниями
type CompanyHandler struct {
	companyService *service.CompanyService
}

// NewCompanyHandler создает новый обработчик компаний
func NewCompanyHandler(companyService *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// CreateCompany создает компанию, владельцем становится текущий пользователь
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isVisible := true
	if req.IsVisible != nil {
		isVisible = *req.IsVisible
	}

	company, err := h.companyService.CreateCompany(middleware.UserID(c), req.Name, req.Description, isVisible)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, company)
}

// GetCompany возвращает компанию по ID
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	company, err := h.companyService.GetCompanyByID(paramUint(c, "companyID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// ListCompanies возвращает список компаний с пагинацией
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	page, pageSize := pagination(c)

	companies, total, err := h.companyService.ListCompanies(page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"companies": companies, "total": total, "page": page, "page_size": pageSize})
}

// UpdateCompany обновляет компанию. Только владелец.
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	var req dto.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	company, err := h.companyService.UpdateCompany(paramUint(c, "companyID"), middleware.UserID(c), req.Name, req.Description, req.IsVisible)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// DeleteCompany удаляет компанию. Только владелец.
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	if err := h.companyService.DeleteCompany(paramUint(c, "companyID"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Company deleted"})
}
