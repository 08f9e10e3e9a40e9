// Package errs holds the domain error values shared by services and
// handlers.
package errs

import "errors"

var (
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrOfficeNotFound     = errors.New("office not found")
	ErrTechnicianNotFound = errors.New("technician not found")

	// ErrNoTechnician means the office has no active technician to
	// assign; ticket creation writes nothing in this case.
	ErrNoTechnician = errors.New("no active technician for office")

	// ErrEmptyMessage means a message post carried neither text nor an
	// image.
	ErrEmptyMessage = errors.New("message requires text or an image")

	// ErrTicketClosed means a message was posted to a closed ticket;
	// closed conversations are never silently reopened.
	ErrTicketClosed = errors.New("ticket is closed")
)
