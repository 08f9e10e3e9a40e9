package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamrokrishi/advisory-service/internal/model"
)

type capturedEvent struct {
	event   string
	payload map[string]interface{}
}

type fakeProducer struct {
	active bool
	events []capturedEvent
}

func (f *fakeProducer) Active() bool { return f.active }

func (f *fakeProducer) ProduceNotification(_ context.Context, event string, payload map[string]interface{}) {
	f.events = append(f.events, capturedEvent{event: event, payload: payload})
}

type fakeDirectory struct {
	office     *model.Office
	technician *model.Technician
}

func (f *fakeDirectory) GetOffice(context.Context, uint64) (*model.Office, error) {
	return f.office, nil
}

func (f *fakeDirectory) GetTechnician(context.Context, uint64) (*model.Technician, error) {
	return f.technician, nil
}

func testTicket() *model.Ticket {
	return &model.Ticket{
		ID:           7,
		FarmerID:     "farmer-1",
		OfficeID:     1,
		TechnicianID: 2,
		CropName:     "Rice",
		ProblemTitle: "Yellow leaves",
		Status:       model.TicketStatusOpen,
	}
}

func TestTicketCreatedProducesEvent(t *testing.T) {
	producer := &fakeProducer{active: true}
	dir := &fakeDirectory{
		office:     &model.Office{ID: 1, Name: "Kathmandu AKC"},
		technician: &model.Technician{ID: 2, Name: "Anita", Email: "anita@akc.example"},
	}
	d := NewDispatcher(producer, NewMailer("", 0, "", "", ""), dir)

	d.TicketCreated(context.Background(), testTicket(), []string{"https://blob.example/a.jpg"})

	require.Len(t, producer.events, 1)
	ev := producer.events[0]
	assert.Equal(t, "ticket.created", ev.event)
	assert.Equal(t, "Kathmandu AKC", ev.payload["office_name"])
	assert.Equal(t, "anita@akc.example", ev.payload["technician_email"])
	assert.Equal(t, []string{"https://blob.example/a.jpg"}, ev.payload["image_urls"])
	assert.Equal(t, int64(7), ev.payload["ticket_id"])
}

func TestTicketAnsweredCarriesMessage(t *testing.T) {
	producer := &fakeProducer{active: true}
	dir := &fakeDirectory{
		office:     &model.Office{ID: 1, Name: "Kathmandu AKC"},
		technician: &model.Technician{ID: 2, Name: "Anita"},
	}
	d := NewDispatcher(producer, NewMailer("", 0, "", "", ""), dir)

	d.TicketAnswered(context.Background(), testTicket(), &model.Message{ID: 42, ImageURL: "https://blob.example/x.jpg"})

	require.Len(t, producer.events, 1)
	ev := producer.events[0]
	assert.Equal(t, "ticket.answered", ev.event)
	assert.Equal(t, "farmer-1", ev.payload["farmer_id"])
	assert.Equal(t, int64(42), ev.payload["message_id"])
}

func TestTicketAnsweredNoChannelIsNoop(t *testing.T) {
	producer := &fakeProducer{active: false}
	d := NewDispatcher(producer, NewMailer("", 0, "", "", ""), &fakeDirectory{})

	d.TicketAnswered(context.Background(), testTicket(), &model.Message{ID: 1})
	assert.Empty(t, producer.events)
}

func TestInactiveProducerConstruction(t *testing.T) {
	p := NewProducer(nil, "advisory.notifications")
	assert.False(t, p.Active())
	// No-op paths must be safe to call.
	p.ProduceNotification(context.Background(), "ticket.created", nil)
	assert.NoError(t, p.Close())

	p = NewProducer([]string{"localhost:9092"}, "")
	assert.False(t, p.Active())
}

func TestMailerDisabledSkipsSend(t *testing.T) {
	m := NewMailer("", 587, "", "", "no-reply@example")
	assert.False(t, m.Enabled())
	err := m.SendNewTicket(&model.Technician{Email: "x@example"}, &model.Office{}, testTicket(), nil)
	assert.NoError(t, err)
}
