package common

import (
	"context"
	"eventspark/src/lib"
	"eventspark/src/models"
	"eventspark/src/models/scopes"
	"eventspark/src/types"
	"eventspark/src/utils"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	MSG_EMPTY_SELECTION   = "Please select at least one ticket."
	MSG_TYPES_UNAVAILABLE = "One or more selected ticket types are no longer available."
	MSG_EVENT_NOT_ON_SALE = "This event is not available for purchase."
)

// normalizeLines drops non-positive quantities and merges repeated ticket types, keeping first-seen order.
func normalizeLines(lines []types.CartLine) []types.CartLine {
	index := make(map[uint]int, len(lines))
	merged := make([]types.CartLine, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		if i, ok := index[line.TicketTypeID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.TicketTypeID] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

func findPublishedEvent(tx *gorm.DB, id uint) (*models.Event, error) {
	event, err := findEvent(tx, id)
	if err != nil {
		return nil, err
	}
	if event.Status != types.EVENT_PUBLISHED {
		return nil, types.NewValidationError(MSG_EVENT_NOT_ON_SALE)
	}
	return event, nil
}

// priceCart resolves prices from stored ticket types and checks inventory for every line,
// collecting all violations. With lock set the ticket type rows stay locked until tx ends.
func priceCart(tx *gorm.DB, event *models.Event, lines []types.CartLine, lock bool) (*types.Cart, map[uint]*models.TicketType, error) {
	lines = normalizeLines(lines)
	if len(lines) == 0 {
		return nil, nil, types.NewValidationError(MSG_EMPTY_SELECTION)
	}
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.TicketTypeID)
	}

	q := tx.Where("event_id = ?", event.ID).Scopes(scopes.WithIDs(ids...)).Order("id ASC")
	if lock {
		q = q.Clauses(forUpdate())
	}
	var ticketTypes []models.TicketType
	if err := q.Find(&ticketTypes).Error; err != nil {
		return nil, nil, err
	}
	byID := make(map[uint]*models.TicketType, len(ticketTypes))
	for i := range ticketTypes {
		byID[ticketTypes[i].ID] = &ticketTypes[i]
	}

	var messages []string
	if len(ticketTypes) != len(ids) {
		messages = append(messages, MSG_TYPES_UNAVAILABLE)
	}
	sold, err := activeSoldCounts(tx, ids)
	if err != nil {
		return nil, nil, err
	}

	at := now()
	cart := types.Cart{
		EventID:    event.ID,
		EventTitle: event.Title,
		EventStart: event.StartDateTime,
		VenueName:  event.VenueName,
		Lines:      make([]types.PricedCartLine, 0, len(lines)),
		Total:      decimal.Zero,
	}
	for _, line := range lines {
		tt, ok := byID[line.TicketTypeID]
		if !ok {
			continue
		}
		remaining := int64(tt.TotalQuantity) - sold[tt.ID]
		switch {
		case !tt.OnSale(at):
			messages = append(messages, fmt.Sprintf("Ticket type '%s' is not on sale.", tt.Name))
		case remaining <= 0:
			messages = append(messages, fmt.Sprintf("Ticket type '%s' is sold out.", tt.Name))
		case int64(line.Quantity) > remaining:
			messages = append(messages, fmt.Sprintf("Cannot buy %d '%s' tickets - only %d left.", line.Quantity, tt.Name, remaining))
		}
		lineTotal := tt.Price.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		cart.Lines = append(cart.Lines, types.PricedCartLine{
			TicketTypeID: tt.ID,
			Name:         tt.Name,
			UnitPrice:    tt.Price,
			Quantity:     line.Quantity,
			LineTotal:    lineTotal,
		})
		cart.Total = cart.Total.Add(lineTotal)
	}
	if len(messages) > 0 {
		return nil, nil, types.NewValidationError(messages...)
	}
	return &cart, byID, nil
}

// PurchaseOptions lists a published event's ticket types by price with remaining counts.
func PurchaseOptions(ctx context.Context, db *gorm.DB, eventID uint) (*models.Event, error) {
	tx := db.WithContext(ctx)
	event, err := findPublishedEvent(tx, eventID)
	if err != nil {
		return nil, err
	}
	ticketTypes := make([]models.TicketType, 0)
	if err := tx.Where("event_id = ?", eventID).Order("price ASC").Order("id ASC").Find(&ticketTypes).Error; err != nil {
		return nil, err
	}
	if err := attachInventory(tx, ticketTypes); err != nil {
		return nil, err
	}
	event.TicketTypes = ticketTypes
	return event, nil
}

// PreviewCart validates a selection and prices it without persisting anything.
func PreviewCart(ctx context.Context, db *gorm.DB, user types.CurrentUser, eventID uint, lines []types.CartLine) (*types.Cart, error) {
	if err := requireAuthenticated(user); err != nil {
		return nil, err
	}
	tx := db.WithContext(ctx)
	event, err := findPublishedEvent(tx, eventID)
	if err != nil {
		return nil, err
	}
	cart, _, err := priceCart(tx, event, lines, false)
	return cart, err
}

// Checkout creates a completed order with its items and one ticket per unit. The ticket type
// rows are locked between the inventory count and the inserts so concurrent buyers are serialized
// per type; any failure rolls back every row.
func Checkout(ctx context.Context, db *gorm.DB, user types.CurrentUser, eventID uint, lines []types.CartLine) (*models.Order, error) {
	if err := requireAuthenticated(user); err != nil {
		return nil, err
	}
	var order models.Order
	var issued int
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := findPublishedEvent(tx, eventID)
		if err != nil {
			return err
		}
		cart, byID, err := priceCart(tx, event, lines, true)
		if err != nil {
			return err
		}

		var buyer models.User
		if err := tx.Select("id", "email", "name").Where("id = ?", user.ID).First(&buyer).Error; err != nil {
			return notFoundOr(err)
		}
		order = models.Order{
			BuyerID:          buyer.ID,
			EventID:          event.ID,
			Status:           types.ORDER_COMPLETED,
			TotalAmount:      cart.Total,
			PaymentReference: utils.NewPaymentReference(),
			EmailSnapshot:    buyer.Email,
			FullNameSnapshot: buyer.Name,
		}
		if err := tx.Omit("Items").Create(&order).Error; err != nil {
			return err
		}
		for _, line := range cart.Lines {
			tt := byID[line.TicketTypeID]
			item := models.OrderItem{
				OrderID:                order.ID,
				TicketTypeID:           tt.ID,
				Quantity:               line.Quantity,
				UnitPrice:              tt.Price,
				TicketTypeNameSnapshot: tt.Name,
			}
			if err := tx.Omit("Tickets").Create(&item).Error; err != nil {
				return err
			}
			tickets := make([]models.Ticket, 0, line.Quantity)
			for range line.Quantity {
				number := utils.NewTicketNumber(event.ID, tt.ID)
				tickets = append(tickets, models.Ticket{
					OrderItemID:  item.ID,
					EventID:      event.ID,
					TicketNumber: number,
					QrCodeValue:  number,
					Status:       types.TICKET_ACTIVE,
				})
			}
			if err := tx.CreateInBatches(&tickets, 100).Error; err != nil {
				return err
			}
			item.Tickets = tickets
			order.Items = append(order.Items, item)
			issued += len(tickets)
		}
		return nil
	})
	if err != nil {
		if _, ok := types.IsValidationError(err); ok {
			lib.CheckoutTotal.WithLabelValues("rejected").Inc()
			log.Printf("Checkout rejected for user [%d] on event [%d]: %s\n", user.ID, eventID, err.Error())
		} else {
			lib.CheckoutTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}
	lib.CheckoutTotal.WithLabelValues("completed").Inc()
	lib.TicketsIssuedTotal.Add(float64(issued))
	log.Printf("Order [%d] completed for user [%d]: %d tickets\n", order.ID, user.ID, issued)
	return &order, nil
}
