package models

import (
	"eventspark/src/types"
	"time"
)

// CheckInLog is append-only. EventID is 0 when the scanned code matched no ticket,
// so it carries no foreign key; rows are removed explicitly with their event.
type CheckInLog struct {
	ID              uint                `gorm:"primarykey" json:"id"`
	TicketID        *uint               `gorm:"index" json:"ticket_id,omitempty"`
	EventID         uint                `gorm:"index;not null" json:"event_id"`
	ScannedAt       time.Time           `gorm:"not null" json:"scanned_at"`
	ScannedByUserID uint                `gorm:"not null" json:"scanned_by"`
	Result          types.CheckInResult `gorm:"size:30;not null" json:"result"`
	RawCode         string              `gorm:"size:200" json:"raw_code"`
	Message         string              `gorm:"size:400" json:"message"`

	Ticket *Ticket `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}
