package services

import (
	"rentpro_backend/internal/models"
	"rentpro_backend/internal/repositories"
	"rentpro_backend/internal/services/dto"
	"rentpro_backend/pkg/apperrors"
)

type ServiceRecordService interface {
	Create(machineID string, req *dto.CreateServiceRecordRequest) (*models.ServiceRecord, error)
	Get(id string) (*models.ServiceRecord, error)
	ListByMachine(machineID string, page, pageSize int) (*dto.ServiceRecordListResponse, error)
	Update(id string, req *dto.UpdateServiceRecordRequest) (*models.ServiceRecord, error)
	Delete(id string) error
}

type ServiceRecordServiceImpl struct {
	repo     repositories.ServiceRecordRepository
	machines repositories.MachineRepository
}

func NewServiceRecordService(repo repositories.ServiceRecordRepository, machines repositories.MachineRepository) ServiceRecordService {
	return &ServiceRecordServiceImpl{repo: repo, machines: machines}
}

func (s *ServiceRecordServiceImpl) Create(machineID string, req *dto.CreateServiceRecordRequest) (*models.ServiceRecord, error) {
	if _, err := s.machines.FindByID(machineID); err != nil {
		if apperrors.Is(err, repositories.ErrMachineNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	record := &models.ServiceRecord{
		MachineID:   machineID,
		PerformedAt: req.PerformedAt,
		Description: req.Description,
		Vendor:      req.Vendor,
		Cost:        req.Cost,
		HoursMeter:  req.HoursMeter,
		NextDueAt:   req.NextDueAt,
	}

	if err := s.repo.Create(record); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return record, nil
}

func (s *ServiceRecordServiceImpl) Get(id string) (*models.ServiceRecord, error) {
	record, err := s.repo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrServiceRecordNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return record, nil
}

func (s *ServiceRecordServiceImpl) ListByMachine(machineID string, page, pageSize int) (*dto.ServiceRecordListResponse, error) {
	if _, err := s.machines.FindByID(machineID); err != nil {
		if apperrors.Is(err, repositories.ErrMachineNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	offset := (page - 1) * pageSize
	records, total, err := s.repo.FindByMachine(machineID, pageSize, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.ServiceRecordListResponse{Records: records, Total: total}, nil
}

func (s *ServiceRecordServiceImpl) Update(id string, req *dto.UpdateServiceRecordRequest) (*models.ServiceRecord, error) {
	record := &models.ServiceRecord{
		PerformedAt: req.PerformedAt,
		Description: req.Description,
		Vendor:      req.Vendor,
		Cost:        req.Cost,
		HoursMeter:  req.HoursMeter,
		NextDueAt:   req.NextDueAt,
	}
	record.ID = id

	if err := s.repo.Update(record); err != nil {
		if apperrors.Is(err, repositories.ErrServiceRecordNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	return s.Get(id)
}

func (s *ServiceRecordServiceImpl) Delete(id string) error {
	if err := s.repo.Delete(id); err != nil {
		if apperrors.Is(err, repositories.ErrServiceRecordNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}
