package common

import (
	"context"
	"eventspark/src/lib"
	"eventspark/src/models"
	"eventspark/src/types"
	"log"
	"strconv"

	"gorm.io/gorm"
)

// RefreshInventoryGauge publishes the remaining count of every ticket type of a published event.
func RefreshInventoryGauge(ctx context.Context, db *gorm.DB) error {
	tx := db.WithContext(ctx)
	var ticketTypes []models.TicketType
	if err := tx.
		Joins("JOIN events ON events.id = ticket_types.event_id").
		Where("events.status = ?", types.EVENT_PUBLISHED).
		Select("ticket_types.*").
		Find(&ticketTypes).
		Error; err != nil {
		log.Printf("Error loading ticket types for inventory gauge: %s\n", err.Error())
		return err
	}
	if err := attachInventory(tx, ticketTypes); err != nil {
		log.Printf("Error counting inventory: %s\n", err.Error())
		return err
	}
	lib.TicketTypeRemaining.Reset()
	for _, tt := range ticketTypes {
		lib.TicketTypeRemaining.
			WithLabelValues(strconv.FormatUint(uint64(tt.EventID), 10), strconv.FormatUint(uint64(tt.ID), 10)).
			Set(float64(tt.Stats.Remaining))
	}
	return nil
}
