package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/hamrokrishi/advisory-service/internal/errs"
	"github.com/hamrokrishi/advisory-service/internal/model"
)

// MessageServicer is what the handlers depend on; tests substitute a fake.
type MessageServicer interface {
	Post(ctx context.Context, in PostMessageInput) (*model.Message, *model.Ticket, error)
	List(ctx context.Context, ticketID uint64) ([]model.Message, error)
}

type PostMessageInput struct {
	TicketID    uint64
	SenderType  model.SenderType
	SenderID    string
	MessageText string
	ImageURL    string
}

// MessageService owns a ticket's append-only conversation log.
type MessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// Post appends a message and mutates the parent ticket in one
// transaction: the recipient role's unread flag is set, and a technician
// reply flips the status to answered. Farmer messages never change
// status. Posting to a closed ticket is rejected.
//
// Returns the inserted message and the mutated ticket.
func (s *MessageService) Post(ctx context.Context, in PostMessageInput) (*model.Message, *model.Ticket, error) {
	if strings.TrimSpace(in.MessageText) == "" && strings.TrimSpace(in.ImageURL) == "" {
		return nil, nil, errs.ErrEmptyMessage
	}
	if in.SenderType != model.SenderFarmer && in.SenderType != model.SenderTechnician {
		return nil, nil, fmt.Errorf("unknown sender role %q", in.SenderType)
	}

	var ticket model.Ticket
	if err := s.db.WithContext(ctx).First(&ticket, in.TicketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errs.ErrTicketNotFound
		}
		return nil, nil, err
	}
	if ticket.Status == model.TicketStatusClosed {
		return nil, nil, errs.ErrTicketClosed
	}

	msg := &model.Message{
		TicketID:    ticket.ID,
		SenderType:  in.SenderType,
		SenderID:    in.SenderID,
		MessageText: strings.TrimSpace(in.MessageText),
		ImageURL:    strings.TrimSpace(in.ImageURL),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		changes := map[string]interface{}{}
		switch in.SenderType {
		case model.SenderTechnician:
			changes["has_unread_farmer"] = true
			changes["status"] = model.TicketStatusAnswered
		case model.SenderFarmer:
			changes["has_unread_technician"] = true
		}
		// Updates also bumps updated_at, keeping "most recently
		// active" list order correct.
		return tx.Model(&ticket).Updates(changes).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return msg, &ticket, nil
}

// List returns a ticket's conversation oldest first. The id tie-break
// keeps order stable for messages created within the same clock tick.
func (s *MessageService) List(ctx context.Context, ticketID uint64) ([]model.Message, error) {
	var messages []model.Message
	err := s.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
