package models

import (
	"eventspark/src/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	ID               uint              `gorm:"primarykey" json:"id"`
	BuyerID          uint              `gorm:"index;not null" json:"buyer_id"`
	EventID          uint              `gorm:"index;not null" json:"event_id"`
	Status           types.OrderStatus `gorm:"size:20;default:'pending'" json:"status"`
	TotalAmount      decimal.Decimal   `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	PaymentReference string            `gorm:"size:100" json:"payment_reference"`
	EmailSnapshot    string            `gorm:"size:256" json:"email"`
	FullNameSnapshot string            `gorm:"size:200" json:"full_name"`

	Buyer *User       `gorm:"foreignKey:BuyerID" json:"-"`
	Event *Event      `gorm:"foreignKey:EventID;constraint:OnDelete:RESTRICT" json:"event,omitempty"`
	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`

	types.Timestamps
}

type OrderItem struct {
	ID                     uint            `gorm:"primarykey" json:"id"`
	OrderID                uint            `gorm:"index;not null" json:"order_id"`
	TicketTypeID           uint            `gorm:"index;not null" json:"ticket_type_id"`
	Quantity               int             `gorm:"not null" json:"quantity"`
	UnitPrice              decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	TicketTypeNameSnapshot string          `gorm:"size:100;not null" json:"ticket_type_name"`
	LineTotal              decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"line_total"`

	Order      *Order      `json:"-"`
	TicketType *TicketType `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Tickets    []Ticket    `gorm:"constraint:OnDelete:CASCADE" json:"tickets,omitempty"`
}

func (i *OrderItem) BeforeSave(tx *gorm.DB) error {
	i.LineTotal = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2)
	return nil
}
