package models

import (
	"eventspark/src/types"
	"time"
)

type Ticket struct {
	ID                uint               `gorm:"primarykey" json:"id"`
	OrderItemID       uint               `gorm:"index;not null" json:"order_item_id"`
	EventID           uint               `gorm:"index;not null" json:"event_id"`
	TicketNumber      string             `gorm:"size:50;not null;uniqueIndex" json:"ticket_number"`
	QrCodeValue       string             `gorm:"size:200;not null" json:"qr_code_value"`
	Status            types.TicketStatus `gorm:"size:20;default:'active';index" json:"status"`
	CheckedInAt       *time.Time         `json:"checked_in_at,omitempty"`
	CheckedInByUserID *uint              `json:"checked_in_by,omitempty"`
	CreatedAt         time.Time          `gorm:"autoCreateTime" json:"created_at,omitempty"`

	OrderItem *OrderItem `json:"order_item,omitempty"`
	Event     *Event     `gorm:"constraint:OnDelete:CASCADE" json:"event,omitempty"`
}
