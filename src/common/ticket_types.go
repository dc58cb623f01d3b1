package common

import (
	"context"
	"eventspark/src/models"
	"eventspark/src/types"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxTicketQuantity = 100000

func validateTicketTypeBody(body *types.CreateTicketTypeRequestBody) (*models.TicketType, error) {
	var messages []string
	tt := models.TicketType{
		Name:          strings.TrimSpace(body.Name),
		Description:   trimOptional(body.Description),
		Price:         body.Price.Round(2),
		TotalQuantity: body.TotalQuantity,
	}
	if tt.Name == "" {
		messages = append(messages, "Name is required.")
	}
	if tt.Price.LessThan(decimal.Zero) {
		messages = append(messages, "Price must be zero or greater.")
	}
	if tt.TotalQuantity < 0 || tt.TotalQuantity > maxTicketQuantity {
		messages = append(messages, fmt.Sprintf("Total quantity must be between 0 and %d.", maxTicketQuantity))
	}
	start, err := parseOptionalTime(body.SaleStart)
	if err != nil {
		messages = append(messages, "Sale start is invalid.")
	}
	end, err := parseOptionalTime(body.SaleEnd)
	if err != nil {
		messages = append(messages, "Sale end is invalid.")
	}
	if start != nil && end != nil && !end.After(*start) {
		messages = append(messages, "Sale end must be after sale start.")
	}
	tt.SaleStart = start
	tt.SaleEnd = end
	if len(messages) > 0 {
		return nil, types.NewValidationError(messages...)
	}
	return &tt, nil
}

// ListTicketTypes returns an event's ticket types by price with sold and remaining counts.
func ListTicketTypes(ctx context.Context, db *gorm.DB, user types.CurrentUser, eventID uint) ([]models.TicketType, error) {
	tx := db.WithContext(ctx)
	if _, err := findManagedEvent(tx, user, eventID); err != nil {
		return nil, err
	}
	ticketTypes := make([]models.TicketType, 0)
	if err := tx.Where("event_id = ?", eventID).Order("price ASC").Order("id ASC").Find(&ticketTypes).Error; err != nil {
		return nil, err
	}
	if err := attachInventory(tx, ticketTypes); err != nil {
		return nil, err
	}
	return ticketTypes, nil
}

func CreateTicketType(ctx context.Context, db *gorm.DB, user types.CurrentUser, eventID uint, body *types.CreateTicketTypeRequestBody) (*models.TicketType, error) {
	tx := db.WithContext(ctx)
	if _, err := findManagedEvent(tx, user, eventID); err != nil {
		return nil, err
	}
	tt, err := validateTicketTypeBody(body)
	if err != nil {
		return nil, err
	}
	tt.EventID = eventID
	tt.Version = 1
	if err := tx.Create(tt).Error; err != nil {
		log.Printf("Error creating ticket type for event [%d]: %s\n", eventID, err.Error())
		return nil, err
	}
	return tt, nil
}

// UpdateTicketType locks the row so the quantity check and the write see the same sold count.
func UpdateTicketType(ctx context.Context, db *gorm.DB, user types.CurrentUser, id uint, body *types.UpdateTicketTypeRequestBody) (*models.TicketType, error) {
	fields, err := validateTicketTypeBody(&body.CreateTicketTypeRequestBody)
	if err != nil {
		return nil, err
	}
	var updated models.TicketType
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tt models.TicketType
		if err := tx.Clauses(forUpdate()).Where("id = ?", id).First(&tt).Error; err != nil {
			return notFoundOr(err)
		}
		if _, err := findManagedEvent(tx, user, tt.EventID); err != nil {
			return err
		}
		if tt.Version != body.Version {
			return types.ErrConcurrencyConflict
		}
		sold, err := activeSoldCounts(tx, []uint{tt.ID})
		if err != nil {
			return err
		}
		if int64(fields.TotalQuantity) < sold[tt.ID] {
			return types.NewValidationError(fmt.Sprintf("Total quantity cannot be lower than the %d tickets already sold.", sold[tt.ID]))
		}
		if err := updateVersioned(tx, &models.TicketType{}, id, body.Version, map[string]any{
			"name":           fields.Name,
			"description":    fields.Description,
			"price":          fields.Price,
			"total_quantity": fields.TotalQuantity,
			"sale_start":     fields.SaleStart,
			"sale_end":       fields.SaleEnd,
		}); err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTicketType is refused once any order item references the type.
func DeleteTicketType(ctx context.Context, db *gorm.DB, user types.CurrentUser, id uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tt models.TicketType
		if err := tx.Where("id = ?", id).First(&tt).Error; err != nil {
			return notFoundOr(err)
		}
		if _, err := findManagedEvent(tx, user, tt.EventID); err != nil {
			return err
		}
		var items int64
		if err := tx.Model(&models.OrderItem{}).Where("ticket_type_id = ?", id).Count(&items).Error; err != nil {
			return err
		}
		if items > 0 {
			return types.NewValidationError(fmt.Sprintf("Ticket type '%s' cannot be deleted because it has been ordered.", tt.Name))
		}
		return tx.Delete(&models.TicketType{}, id).Error
	})
}
