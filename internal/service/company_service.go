package service

import (
	"fmt"
	"log"

	"github.com/yourusername/quizium-api/internal/domain/entity"
	"github.com/yourusername/quizium-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizium-api/internal/pkg/errors"
)

// CompanyService предоставляет методы для работы с компаниями
type CompanyService struct {
	companyRepo repository.CompanyRepository
}

// NewCompanyService создает новый сервис компаний
func NewCompanyService(companyRepo repository.CompanyRepository) *CompanyService {
	return &CompanyService{companyRepo: companyRepo}
}

// CreateCompany создает новую компанию, владельцем становится создатель
func (s *CompanyService) CreateCompany(ownerID uint, name, description string, isVisible bool) (*entity.Company, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: company name is required", apperrors.ErrValidation)
	}

	company := &entity.Company{
		Name:        name,
		Description: description,
		IsVisible:   isVisible,
		OwnerID:     ownerID,
	}
	if err := s.companyRepo.Create(company); err != nil {
		return nil, err
	}

	log.Printf("[CompanyService] Создана компания %d (%q), владелец %d", company.ID, company.Name, ownerID)
	return company, nil
}

// GetCompanyByID возвращает компанию по ID
func (s *CompanyService) GetCompanyByID(id uint) (*entity.Company, error) {
	return s.companyRepo.GetByID(id)
}

// ListCompanies возвращает список компаний с пагинацией
func (s *CompanyService) ListCompanies(page, pageSize int) ([]entity.Company, int64, error) {
	limit, offset := normalizePage(page, pageSize)
	return s.companyRepo.List(limit, offset)
}

// UpdateCompany обновляет компанию. Только владелец.
func (s *CompanyService) UpdateCompany(companyID, actorID uint, name, description *string, isVisible *bool) (*entity.Company, error) {
	company, err := s.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if !company.IsOwnedBy(actorID) {
		return nil, fmt.Errorf("%w: only the owner can update the company", apperrors.ErrForbidden)
	}

	if name != nil {
		if *name == "" {
			return nil, fmt.Errorf("%w: company name is required", apperrors.ErrValidation)
		}
		company.Name = *name
	}
	if description != nil {
		company.Description = *description
	}
	if isVisible != nil {
		company.IsVisible = *isVisible
	}

	if err := s.companyRepo.Update(company); err != nil {
		return nil, err
	}
	return company, nil
}

// DeleteCompany удаляет компанию. Только владелец.
func (s *CompanyService) DeleteCompany(companyID, actorID uint) error {
	company, err := s.companyRepo.GetByID(companyID)
	if err != nil {
		return err
	}
	if !company.IsOwnedBy(actorID) {
		return fmt.Errorf("%w: only the owner can delete the company", apperrors.ErrForbidden)
	}
	return s.companyRepo.Delete(companyID)
}
