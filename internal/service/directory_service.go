package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hamrokrishi/advisory-service/internal/errs"
	"github.com/hamrokrishi/advisory-service/internal/model"
)

// DirectoryServicer — read-only office/technician lookups.
type DirectoryServicer interface {
	ListOffices(ctx context.Context) ([]model.Office, error)
	ListActiveTechnicians(ctx context.Context, officeID uint64) ([]model.Technician, error)
	GetOffice(ctx context.Context, id uint64) (*model.Office, error)
	GetTechnician(ctx context.Context, id uint64) (*model.Technician, error)
}

// DirectoryService reads the office/technician reference data. It never
// writes; administrators maintain the directory out of band.
type DirectoryService struct {
	db *gorm.DB
}

func NewDirectoryService(db *gorm.DB) *DirectoryService {
	return &DirectoryService{db: db}
}

func (s *DirectoryService) ListOffices(ctx context.Context) ([]model.Office, error) {
	var offices []model.Office
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&offices).Error; err != nil {
		return nil, err
	}
	return offices, nil
}

func (s *DirectoryService) GetOffice(ctx context.Context, id uint64) (*model.Office, error) {
	var o model.Office
	if err := s.db.WithContext(ctx).First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrOfficeNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (s *DirectoryService) GetTechnician(ctx context.Context, id uint64) (*model.Technician, error) {
	var t model.Technician
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTechnicianNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListActiveTechnicians returns an office's active staff in name order.
// An office with no active staff yields an empty slice, not an error.
func (s *DirectoryService) ListActiveTechnicians(ctx context.Context, officeID uint64) ([]model.Technician, error) {
	var technicians []model.Technician
	err := s.db.WithContext(ctx).
		Where("office_id = ? AND is_active = ?", officeID, true).
		Order("name ASC").
		Find(&technicians).Error
	if err != nil {
		return nil, err
	}
	return technicians, nil
}

// OpenTicketCounts returns, per technician of the office, the number of
// tickets not yet answered or closed. Technicians with no such tickets
// are absent from the map.
func (s *DirectoryService) OpenTicketCounts(ctx context.Context, officeID uint64) (map[uint64]int64, error) {
	var rows []struct {
		TechnicianID uint64
		N            int64
	}
	err := s.db.WithContext(ctx).
		Model(&model.Ticket{}).
		Select("technician_id, COUNT(*) AS n").
		Where("office_id = ? AND status IN ?", officeID, []model.TicketStatus{
			model.TicketStatusOpen,
			model.TicketStatusAssigned,
			model.TicketStatusInProgress,
		}).
		Group("technician_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint64]int64, len(rows))
	for _, r := range rows {
		counts[r.TechnicianID] = r.N
	}
	return counts, nil
}
