package services

import (
	"rentpro_backend/internal/models"
	"rentpro_backend/internal/repositories"
	"rentpro_backend/internal/services/dto"
	"rentpro_backend/pkg/apperrors"
)

type CustomerService interface {
	Create(req *dto.CreateCustomerRequest) (*models.Customer, error)
	Get(id string) (*models.Customer, error)
	List(criteria repositories.CustomerCriteria) (*dto.CustomerListResponse, error)
	Update(id string, req *dto.UpdateCustomerRequest) (*models.Customer, error)
	Delete(id string) error
}

type CustomerServiceImpl struct {
	repo repositories.CustomerRepository
}

func NewCustomerService(repo repositories.CustomerRepository) CustomerService {
	return &CustomerServiceImpl{repo: repo}
}

func (s *CustomerServiceImpl) Create(req *dto.CreateCustomerRequest) (*models.Customer, error) {
	customer := &models.Customer{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		GSTNumber:     req.GSTNumber,
		Active:        true,
	}

	if err := s.repo.Create(customer); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return customer, nil
}

func (s *CustomerServiceImpl) Get(id string) (*models.Customer, error) {
	customer, err := s.repo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCustomerNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return customer, nil
}

func (s *CustomerServiceImpl) List(criteria repositories.CustomerCriteria) (*dto.CustomerListResponse, error) {
	customers, total, err := s.repo.Find(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.CustomerListResponse{Customers: customers, Total: total}, nil
}

func (s *CustomerServiceImpl) Update(id string, req *dto.UpdateCustomerRequest) (*models.Customer, error) {
	customer := &models.Customer{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		GSTNumber:     req.GSTNumber,
	}
	customer.ID = id
	if req.Active != nil {
		customer.Active = *req.Active
	} else {
		customer.Active = true
	}

	if err := s.repo.Update(customer); err != nil {
		if apperrors.Is(err, repositories.ErrCustomerNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	return s.Get(id)
}

func (s *CustomerServiceImpl) Delete(id string) error {
	if err := s.repo.Delete(id); err != nil {
		if apperrors.Is(err, repositories.ErrCustomerNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}
