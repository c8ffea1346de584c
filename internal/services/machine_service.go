package services

import (
	"rentpro_backend/internal/models"
	"rentpro_backend/internal/repositories"
	"rentpro_backend/internal/services/dto"
	"rentpro_backend/pkg/apperrors"
)

type MachineService interface {
	Create(req *dto.CreateMachineRequest) (*models.Machine, error)
	Get(id string) (*models.Machine, error)
	List(criteria repositories.MachineCriteria) (*dto.MachineListResponse, error)
	Update(id string, req *dto.UpdateMachineRequest) (*models.Machine, error)
	SetActive(id string, active bool) (*models.Machine, error)
	Delete(id string) error
}

type MachineServiceImpl struct {
	repo repositories.MachineRepository
}

func NewMachineService(repo repositories.MachineRepository) MachineService {
	return &MachineServiceImpl{repo: repo}
}

func (s *MachineServiceImpl) Create(req *dto.CreateMachineRequest) (*models.Machine, error) {
	machine := &models.Machine{
		Label:        req.Label,
		SerialNumber: req.SerialNumber,
		Category:     req.Category,
		Manufacturer: req.Manufacturer,
		ModelName:    req.ModelName,
		YearOfMake:   req.YearOfMake,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		Active:       true,
	}

	if err := s.repo.Create(machine); err != nil {
		if apperrors.Is(err, repositories.ErrMachineLabelConflict) {
			return nil, apperrors.ErrAlreadyExists(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return machine, nil
}

func (s *MachineServiceImpl) Get(id string) (*models.Machine, error) {
	machine, err := s.repo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrMachineNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return machine, nil
}

func (s *MachineServiceImpl) List(criteria repositories.MachineCriteria) (*dto.MachineListResponse, error) {
	machines, total, err := s.repo.Find(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.MachineListResponse{Machines: machines, Total: total}, nil
}

func (s *MachineServiceImpl) Update(id string, req *dto.UpdateMachineRequest) (*models.Machine, error) {
	machine := &models.Machine{
		Label:        req.Label,
		SerialNumber: req.SerialNumber,
		Category:     req.Category,
		Manufacturer: req.Manufacturer,
		ModelName:    req.ModelName,
		YearOfMake:   req.YearOfMake,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
	}
	machine.ID = id
	if req.Active != nil {
		machine.Active = *req.Active
	} else {
		machine.Active = true
	}

	if err := s.repo.Update(machine); err != nil {
		if apperrors.Is(err, repositories.ErrMachineNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	return s.Get(id)
}

// SetActive переключает машину между активным и выведенным из парка
// состоянием. Деактивация подавляет будущие сканы её документов, но уже
// созданные notification jobs остаются (аудит).
func (s *MachineServiceImpl) SetActive(id string, active bool) (*models.Machine, error) {
	if err := s.repo.SetActive(id, active); err != nil {
		if apperrors.Is(err, repositories.ErrMachineNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return s.Get(id)
}

func (s *MachineServiceImpl) Delete(id string) error {
	if err := s.repo.Delete(id); err != nil {
		if apperrors.Is(err, repositories.ErrMachineNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}
