package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hamrokrishi/advisory-service/internal/assign"
	"github.com/hamrokrishi/advisory-service/internal/errs"
	"github.com/hamrokrishi/advisory-service/internal/model"
)

// TicketServicer is what the handlers depend on; tests substitute a fake.
type TicketServicer interface {
	Create(ctx context.Context, in CreateTicketInput) (*model.Ticket, error)
	GetByID(ctx context.Context, id uint64) (*model.Ticket, error)
	List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]model.Ticket, int64, error)
	MarkViewed(ctx context.Context, id uint64, viewer model.SenderType) (*model.Ticket, error)
	Close(ctx context.Context, id uint64) (*model.Ticket, error)
}

// CreateTicketInput — a farmer's initial submission. Image blobs are
// already in object storage; only their URLs arrive here.
type CreateTicketInput struct {
	FarmerID           string
	OfficeID           uint64
	CropName           string
	ProblemTitle       string
	ProblemDescription string
	ImageURLs          []string
}

type TicketService struct {
	db        *gorm.DB
	directory *DirectoryService
}

func NewTicketService(db *gorm.DB, directory *DirectoryService) *TicketService {
	return &TicketService{db: db, directory: directory}
}

// Create assigns a technician and writes the ticket plus its initial
// messages in one transaction. The first message carries the problem
// description and the first image; images 2..N become their own
// image-only messages so read order is preserved.
//
// The assignment runs over a snapshot of open-ticket counts without a
// lock; two near-simultaneous creations for one office may both pick the
// same least-loaded technician, which is a tolerated imbalance.
func (s *TicketService) Create(ctx context.Context, in CreateTicketInput) (*model.Ticket, error) {
	if _, err := s.directory.GetOffice(ctx, in.OfficeID); err != nil {
		return nil, err
	}
	technicians, err := s.directory.ListActiveTechnicians(ctx, in.OfficeID)
	if err != nil {
		return nil, err
	}
	counts, err := s.directory.OpenTicketCounts(ctx, in.OfficeID)
	if err != nil {
		return nil, err
	}
	technicianID, ok := assign.SelectTechnician(technicians, counts)
	if !ok {
		return nil, errs.ErrNoTechnician
	}

	ticket := &model.Ticket{
		FarmerID:            in.FarmerID,
		OfficeID:            in.OfficeID,
		TechnicianID:        technicianID,
		CropName:            in.CropName,
		ProblemTitle:        in.ProblemTitle,
		ProblemDescription:  in.ProblemDescription,
		Status:              model.TicketStatusOpen,
		HasUnreadTechnician: true,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ticket).Error; err != nil {
			return err
		}
		first := &model.Message{
			TicketID:    ticket.ID,
			SenderType:  model.SenderFarmer,
			SenderID:    in.FarmerID,
			MessageText: in.ProblemDescription,
		}
		if len(in.ImageURLs) > 0 {
			first.ImageURL = in.ImageURLs[0]
		}
		if err := tx.Create(first).Error; err != nil {
			return err
		}
		if len(in.ImageURLs) > 1 {
			for _, u := range in.ImageURLs[1:] {
				if err := tx.Create(&model.Message{
					TicketID:   ticket.ID,
					SenderType: model.SenderFarmer,
					SenderID:   in.FarmerID,
					ImageURL:   u,
				}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	var t model.Ticket
	err := s.db.WithContext(ctx).
		Preload("Office").
		Preload("Technician").
		First(&t, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns tickets most recently active first, with office and
// technician reference data attached for display.
func (s *TicketService) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]model.Ticket, int64, error) {
	var items []model.Ticket
	var total int64
	tx := s.db.WithContext(ctx).Model(&model.Ticket{})
	for k, v := range filter {
		tx = tx.Where(k, v)
	}
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if offset > 0 {
		tx = tx.Offset(offset)
	}
	err := tx.Preload("Office").
		Preload("Technician").
		Order("updated_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// MarkViewed clears the viewer's own unread flag, records when that role
// last looked at the ticket, and advances a not-yet-opened ticket to
// in_progress. Idempotent: viewing again changes nothing but the
// timestamp.
func (s *TicketService) MarkViewed(ctx context.Context, id uint64, viewer model.SenderType) (*model.Ticket, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	changes := map[string]interface{}{}
	switch viewer {
	case model.SenderFarmer:
		changes["has_unread_farmer"] = false
		changes["farmer_viewed_at"] = now
	case model.SenderTechnician:
		changes["has_unread_technician"] = false
		changes["technician_viewed_at"] = now
	default:
		return nil, fmt.Errorf("unknown viewer role %q", viewer)
	}
	if t.Status.AwaitingFirstView() {
		changes["status"] = model.TicketStatusInProgress
	}
	if err := s.db.WithContext(ctx).Model(t).Updates(changes).Error; err != nil {
		return nil, err
	}
	// Updates does not refresh every field on the struct; re-read so the
	// caller sees the transition it caused.
	return s.GetByID(ctx, id)
}

// Close is terminal and legal from any state; closing an already-closed
// ticket is a no-op.
func (s *TicketService) Close(ctx context.Context, id uint64) (*model.Ticket, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status == model.TicketStatusClosed {
		return t, nil
	}
	now := time.Now()
	changes := map[string]interface{}{
		"status":    model.TicketStatusClosed,
		"closed_at": now,
	}
	if err := s.db.WithContext(ctx).Model(t).Updates(changes).Error; err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}
