package models

import (
	"eventspark/src/types"
	"time"
)

type Event struct {
	ID            uint              `gorm:"primarykey" json:"id"`
	OrganizerID   uint              `gorm:"index;not null" json:"organizer_id"`
	CategoryID    *uint             `gorm:"index" json:"category_id,omitempty"`
	Title         string            `gorm:"size:200;not null" json:"title"`
	Description   string            `gorm:"not null" json:"description"`
	VenueName     string            `gorm:"size:200;not null" json:"venue_name"`
	VenueAddress  *string           `gorm:"size:400" json:"venue_address,omitempty"`
	City          string            `gorm:"size:100;not null;index" json:"city"`
	StartDateTime time.Time         `gorm:"index;not null" json:"start_date_time"`
	EndDateTime   time.Time         `gorm:"not null" json:"end_date_time"`
	Status        types.EventStatus `gorm:"size:20;default:'draft';index" json:"status"`
	ImagePath     *string           `gorm:"size:400" json:"image_path,omitempty"`
	MaxCapacity   *uint             `json:"max_capacity,omitempty"`
	Version       uint              `gorm:"not null;default:1" json:"version"`

	Organizer   *User          `gorm:"foreignKey:OrganizerID;constraint:OnDelete:RESTRICT" json:"-"`
	Category    *EventCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	TicketTypes []TicketType   `gorm:"constraint:OnDelete:CASCADE" json:"ticket_types,omitempty"`

	types.Timestamps
}

type EventCategory struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Slug      string    `gorm:"size:100;uniqueIndex" json:"slug"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
}
