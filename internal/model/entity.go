package model

import "time"

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusAssigned   TicketStatus = "assigned"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusAnswered   TicketStatus = "answered"
	TicketStatusClosed     TicketStatus = "closed"
)

// AwaitingFirstView reports whether the ticket has not yet been opened by
// anyone. "assigned" is an older synonym for "open" kept so rows written
// by previous clients stay valid.
func (s TicketStatus) AwaitingFirstView() bool {
	return s == TicketStatusOpen || s == TicketStatusAssigned
}

type SenderType string

const (
	SenderFarmer     SenderType = "farmer"
	SenderTechnician SenderType = "technician"
	SenderSystem     SenderType = "system"
)

// Office is a support location (Agriculture Knowledge Centre). Reference
// data maintained by administrators.
type Office struct {
	ID       uint64 `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	District string `gorm:"type:varchar(128);index" json:"district,omitempty"`
	Phone    string `gorm:"type:varchar(32)" json:"phone,omitempty"`
	Email    string `gorm:"type:varchar(255)" json:"email,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Technician is a staff member attached to exactly one office.
type Technician struct {
	ID             uint64 `gorm:"primaryKey" json:"id"`
	OfficeID       uint64 `gorm:"index;not null" json:"office_id"`
	Name           string `gorm:"type:varchar(255);not null" json:"name"`
	Title          string `gorm:"type:varchar(128)" json:"title,omitempty"`
	Phone          string `gorm:"type:varchar(32)" json:"phone,omitempty"`
	Email          string `gorm:"type:varchar(255)" json:"email,omitempty"`
	Specialization string `gorm:"type:varchar(128)" json:"specialization,omitempty"`
	IsActive       bool   `gorm:"index;not null" json:"is_active"`
	IsPrimary      bool   `gorm:"not null" json:"is_primary"`

	CreatedAt time.Time `json:"created_at"`
}

// Ticket is a farmer's support request. office_id and technician_id are
// written once at creation and never reassigned.
type Ticket struct {
	ID                 uint64       `gorm:"primaryKey" json:"id"`
	FarmerID           string       `gorm:"index;not null" json:"farmer_id"`
	OfficeID           uint64       `gorm:"index;not null" json:"office_id"`
	TechnicianID       uint64       `gorm:"index;not null" json:"technician_id"`
	CropName           string       `gorm:"type:varchar(128);not null" json:"crop_name"`
	ProblemTitle       string       `gorm:"type:varchar(255);not null" json:"problem_title"`
	ProblemDescription string       `gorm:"type:text;not null" json:"problem_description"`
	Status             TicketStatus `gorm:"type:varchar(32);index;not null" json:"status"`

	HasUnreadFarmer     bool       `gorm:"not null" json:"has_unread_farmer"`
	HasUnreadTechnician bool       `gorm:"not null" json:"has_unread_technician"`
	FarmerViewedAt      *time.Time `json:"farmer_viewed_at,omitempty"`
	TechnicianViewedAt  *time.Time `json:"technician_viewed_at,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `gorm:"index" json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`

	Office     *Office     `gorm:"foreignKey:OfficeID" json:"office,omitempty"`
	Technician *Technician `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`
}

// Message is one entry in a ticket's conversation. Immutable once
// created; carries text, an image URL, or both, never neither.
type Message struct {
	ID         uint64     `gorm:"primaryKey" json:"id"`
	TicketID   uint64     `gorm:"index;not null" json:"ticket_id"`
	SenderType SenderType `gorm:"type:varchar(16);not null" json:"sender_type"`
	SenderID   string     `gorm:"type:varchar(64)" json:"sender_id,omitempty"`

	MessageText string `gorm:"type:text" json:"message_text,omitempty"`
	ImageURL    string `gorm:"type:text" json:"image_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
