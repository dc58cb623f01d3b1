package common

import (
	"context"
	"eventspark/src/lib"
	"eventspark/src/models"
	"eventspark/src/models/scopes"
	"eventspark/src/types"
	"log"
	"time"

	"gorm.io/gorm"
)

// findBuyerOrder hides orders of other buyers as not found.
func findBuyerOrder(tx *gorm.DB, user types.CurrentUser, orderID uint) (*models.Order, error) {
	if err := requireAuthenticated(user); err != nil {
		return nil, err
	}
	var order models.Order
	if err := tx.
		Preload("Event").
		Scopes(scopes.WithID(orderID)).
		Where("buyer_id = ?", user.ID).
		First(&order).
		Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &order, nil
}

// OrderPayment is the confirmation view shown after checkout.
func OrderPayment(ctx context.Context, db *gorm.DB, user types.CurrentUser, orderID uint) (*models.Order, error) {
	return findBuyerOrder(db.WithContext(ctx), user, orderID)
}

func OrderDetails(ctx context.Context, db *gorm.DB, user types.CurrentUser, orderID uint) (*models.Order, error) {
	tx := db.WithContext(ctx)
	order, err := findBuyerOrder(tx, user, orderID)
	if err != nil {
		return nil, err
	}
	if err := tx.
		Preload("Tickets", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Where("order_id = ?", order.ID).
		Order("id ASC").
		Find(&order.Items).
		Error; err != nil {
		return nil, err
	}
	return order, nil
}

func ListMyOrders(ctx context.Context, db *gorm.DB, user types.CurrentUser) ([]models.Order, error) {
	if err := requireAuthenticated(user); err != nil {
		return nil, err
	}
	orders := make([]models.Order, 0)
	if err := db.
		WithContext(ctx).
		Preload("Event").
		Preload("Items").
		Where("buyer_id = ?", user.ID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).
		Error; err != nil {
		return nil, err
	}
	return orders, nil
}

type MyTicket struct {
	ID             uint               `json:"id"`
	TicketNumber   string             `json:"ticket_number"`
	Status         types.TicketStatus `json:"status"`
	EventID        uint               `json:"event_id"`
	EventTitle     string             `json:"event_title"`
	TicketTypeName string             `json:"ticket_type_name"`
	OrderID        uint               `json:"order_id"`
	CheckedInAt    *time.Time         `json:"checked_in_at,omitempty"`
}

func ListMyTickets(ctx context.Context, db *gorm.DB, user types.CurrentUser) ([]MyTicket, error) {
	if err := requireAuthenticated(user); err != nil {
		return nil, err
	}
	tickets := make([]MyTicket, 0)
	if err := db.
		WithContext(ctx).
		Model(&models.Ticket{}).
		Select("tickets.id, tickets.ticket_number, tickets.status, tickets.event_id, events.title AS event_title, order_items.ticket_type_name_snapshot AS ticket_type_name, order_items.order_id, tickets.checked_in_at").
		Joins("JOIN order_items ON order_items.id = tickets.order_item_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN events ON events.id = tickets.event_id").
		Where("orders.buyer_id = ?", user.ID).
		Order("tickets.event_id ASC").
		Order("tickets.id ASC").
		Scan(&tickets).
		Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

// findBuyerTicket resolves a ticket the user bought.
func findBuyerTicket(tx *gorm.DB, user types.CurrentUser, ticketID uint) (*models.Ticket, error) {
	if err := requireAuthenticated(user); err != nil {
		return nil, err
	}
	var ticket models.Ticket
	if err := tx.
		Select("tickets.*").
		Joins("JOIN order_items ON order_items.id = tickets.order_item_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("tickets.id = ? AND orders.buyer_id = ?", ticketID, user.ID).
		First(&ticket).
		Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &ticket, nil
}

// TicketQr renders the ticket's QR payload as PNG, served from cache when present.
func TicketQr(ctx context.Context, db *gorm.DB, user types.CurrentUser, ticketID uint) ([]byte, *models.Ticket, error) {
	ticket, err := findBuyerTicket(db.WithContext(ctx), user, ticketID)
	if err != nil {
		return nil, nil, err
	}
	key := lib.QrCacheKey(ticket.TicketNumber)
	if png, ok := lib.CacheGet(ctx, key); ok {
		return png, ticket, nil
	}
	png, err := lib.RenderQrPNG(ticket.QrCodeValue)
	if err != nil {
		log.Printf("Error rendering QR for ticket [%d]: %s\n", ticket.ID, err.Error())
		return nil, nil, err
	}
	lib.CacheSet(ctx, key, png, lib.QR_CACHE_TTL)
	return png, ticket, nil
}
