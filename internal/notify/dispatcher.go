// Package notify hands ticket activity off to the notification side
// channel. Every hand-off is fire-and-forget: a failure here never fails
// the write that triggered it.
package notify

import (
	"context"
	"log"
	"time"

	"github.com/hamrokrishi/advisory-service/internal/model"
)

// ContactDirectory resolves the reference data a notification needs.
// Satisfied by service.DirectoryService.
type ContactDirectory interface {
	GetOffice(ctx context.Context, id uint64) (*model.Office, error)
	GetTechnician(ctx context.Context, id uint64) (*model.Technician, error)
}

// Dispatcher prefers the Kafka event channel; when no brokers are
// configured it falls back to direct technician email where an address
// is on file. The farmer's contact details live outside this service, so
// farmer-facing events always go through the event channel and carry the
// farmer id for the downstream worker to resolve.
type Dispatcher struct {
	producer  NotificationProducer
	mailer    *Mailer
	directory ContactDirectory
}

func NewDispatcher(producer NotificationProducer, mailer *Mailer, directory ContactDirectory) *Dispatcher {
	return &Dispatcher{producer: producer, mailer: mailer, directory: directory}
}

func (d *Dispatcher) ticketPayload(t *model.Ticket, office *model.Office, technician *model.Technician) map[string]interface{} {
	payload := map[string]interface{}{
		"ticket_id":     int64(t.ID),
		"farmer_id":     t.FarmerID,
		"technician_id": int64(t.TechnicianID),
		"office_id":     int64(t.OfficeID),
		"crop_name":     t.CropName,
		"problem_title": t.ProblemTitle,
		"status":        string(t.Status),
	}
	if office != nil {
		payload["office_name"] = office.Name
	}
	if technician != nil {
		payload["technician_name"] = technician.Name
		payload["technician_email"] = technician.Email
		payload["technician_phone"] = technician.Phone
	}
	return payload
}

// TicketCreated notifies the assigned technician about a new ticket.
func (d *Dispatcher) TicketCreated(ctx context.Context, t *model.Ticket, imageURLs []string) {
	office, err := d.directory.GetOffice(ctx, t.OfficeID)
	if err != nil {
		log.Printf("notify: office %d lookup: %v", t.OfficeID, err)
	}
	technician, err := d.directory.GetTechnician(ctx, t.TechnicianID)
	if err != nil {
		log.Printf("notify: technician %d lookup: %v", t.TechnicianID, err)
	}

	if d.producer != nil && d.producer.Active() {
		payload := d.ticketPayload(t, office, technician)
		payload["image_urls"] = imageURLs
		d.producer.ProduceNotification(ctx, "ticket.created", payload)
		return
	}
	if office != nil && technician != nil {
		if err := d.mailer.SendNewTicket(technician, office, t, imageURLs); err != nil {
			log.Printf("notify: mail technician %d for ticket %d: %v", technician.ID, t.ID, err)
		}
	}
}

// TicketAnswered notifies the farmer that the technician replied.
func (d *Dispatcher) TicketAnswered(ctx context.Context, t *model.Ticket, m *model.Message) {
	if d.producer == nil || !d.producer.Active() {
		// No event channel and no farmer address on file; nothing to
		// hand off.
		return
	}
	office, err := d.directory.GetOffice(ctx, t.OfficeID)
	if err != nil {
		log.Printf("notify: office %d lookup: %v", t.OfficeID, err)
	}
	technician, err := d.directory.GetTechnician(ctx, t.TechnicianID)
	if err != nil {
		log.Printf("notify: technician %d lookup: %v", t.TechnicianID, err)
	}
	payload := d.ticketPayload(t, office, technician)
	payload["message_id"] = int64(m.ID)
	if m.ImageURL != "" {
		payload["image_urls"] = []string{m.ImageURL}
	}
	d.producer.ProduceNotification(ctx, "ticket.answered", payload)
}

// TicketCreatedAsync runs TicketCreated in its own goroutine so the API
// response never waits on the side channel. The event should go out even
// if the request is cancelled, hence the detached context.
func (d *Dispatcher) TicketCreatedAsync(t *model.Ticket, imageURLs []string) {
	if d == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		d.TicketCreated(ctx, t, imageURLs)
	}()
}

// TicketAnsweredAsync runs TicketAnswered in its own goroutine.
func (d *Dispatcher) TicketAnsweredAsync(t *model.Ticket, m *model.Message) {
	if d == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		d.TicketAnswered(ctx, t, m)
	}()
}
