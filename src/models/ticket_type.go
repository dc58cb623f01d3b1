package models

import (
	"eventspark/src/types"
	"time"

	"github.com/shopspring/decimal"
)

type TicketType struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	EventID       uint            `gorm:"index;not null" json:"event_id"`
	Name          string          `gorm:"size:100;not null" json:"name"`
	Description   *string         `gorm:"size:400" json:"description,omitempty"`
	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	TotalQuantity int             `gorm:"not null" json:"total_quantity"`
	SaleStart     *time.Time      `json:"sale_start,omitempty"`
	SaleEnd       *time.Time      `json:"sale_end,omitempty"`
	Version       uint            `gorm:"not null;default:1" json:"version"`

	Event *Event `json:"-"`

	Stats *types.InventoryStats `gorm:"-" json:"stats,omitempty"`

	types.Timestamps
}

// OnSale reports whether at falls inside the optional sale window.
func (t *TicketType) OnSale(at time.Time) bool {
	if t.SaleStart != nil && at.Before(*t.SaleStart) {
		return false
	}
	if t.SaleEnd != nil && at.After(*t.SaleEnd) {
		return false
	}
	return true
}
