package notify

import (
	"fmt"
	"strings"

	mail "gopkg.in/mail.v2"

	"github.com/hamrokrishi/advisory-service/internal/model"
)

// Mailer sends technician-facing email over SMTP. With no host
// configured it is disabled and every send is a silent no-op.
type Mailer struct {
	dialer *mail.Dialer
	from   string
}

func NewMailer(host string, port int, username, password, from string) *Mailer {
	m := &Mailer{from: from}
	if host != "" {
		m.dialer = mail.NewDialer(host, port, username, password)
	}
	return m
}

func (m *Mailer) Enabled() bool {
	return m != nil && m.dialer != nil
}

// SendNewTicket mails the assigned technician about a freshly created
// ticket. Technicians without an email address are skipped.
func (m *Mailer) SendNewTicket(technician *model.Technician, office *model.Office, t *model.Ticket, imageURLs []string) error {
	if !m.Enabled() || technician == nil || technician.Email == "" {
		return nil
	}
	var body strings.Builder
	fmt.Fprintf(&body, "Namaste %s,\n\n", technician.Name)
	fmt.Fprintf(&body, "A new support ticket has been assigned to you at %s.\n\n", office.Name)
	fmt.Fprintf(&body, "Ticket:  #%d\n", t.ID)
	fmt.Fprintf(&body, "Crop:    %s\n", t.CropName)
	fmt.Fprintf(&body, "Problem: %s\n\n", t.ProblemTitle)
	fmt.Fprintf(&body, "%s\n", t.ProblemDescription)
	if len(imageURLs) > 0 {
		body.WriteString("\nPhotos:\n")
		for _, u := range imageURLs {
			fmt.Fprintf(&body, "  %s\n", u)
		}
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", technician.Email)
	msg.SetHeader("Subject", fmt.Sprintf("New ticket #%d: %s (%s)", t.ID, t.ProblemTitle, t.CropName))
	msg.SetBody("text/plain", body.String())
	return m.dialer.DialAndSend(msg)
}
