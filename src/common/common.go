package common

import (
	"errors"
	"eventspark/src/config"
	"eventspark/src/models"
	"eventspark/src/models/scopes"
	"eventspark/src/types"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// now is replaced in tests that need a fixed clock.
var now = func() time.Time { return time.Now().UTC() }

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.ErrNotFound
	}
	return err
}

func requireAuthenticated(user types.CurrentUser) error {
	if !user.Authenticated() {
		return types.ErrUnauthenticated
	}
	return nil
}

func requireManage(user types.CurrentUser, event *models.Event) error {
	if err := requireAuthenticated(user); err != nil {
		return err
	}
	if !user.CanManage(event.OrganizerID) {
		return types.ErrForbidden
	}
	return nil
}

func findEvent(tx *gorm.DB, id uint) (*models.Event, error) {
	var event models.Event
	if err := tx.Scopes(scopes.WithID(id)).First(&event).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &event, nil
}

// findManagedEvent loads an event and checks the caller may manage it.
func findManagedEvent(tx *gorm.DB, user types.CurrentUser, id uint) (*models.Event, error) {
	if err := requireAuthenticated(user); err != nil {
		return nil, err
	}
	event, err := findEvent(tx, id)
	if err != nil {
		return nil, err
	}
	if err := requireManage(user, event); err != nil {
		return nil, err
	}
	return event, nil
}

type soldRow struct {
	TicketTypeID uint
	Sold         int64
}

// activeSoldCounts counts Active tickets per ticket type.
func activeSoldCounts(tx *gorm.DB, ticketTypeIDs []uint) (map[uint]int64, error) {
	sold := make(map[uint]int64, len(ticketTypeIDs))
	if len(ticketTypeIDs) == 0 {
		return sold, nil
	}
	var rows []soldRow
	if err := tx.
		Model(&models.Ticket{}).
		Select("order_items.ticket_type_id AS ticket_type_id, COUNT(tickets.id) AS sold").
		Joins("JOIN order_items ON order_items.id = tickets.order_item_id").
		Where("tickets.status = ? AND order_items.ticket_type_id IN ?", types.TICKET_ACTIVE, ticketTypeIDs).
		Group("order_items.ticket_type_id").
		Scan(&rows).
		Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		sold[r.TicketTypeID] = r.Sold
	}
	return sold, nil
}

func attachInventory(tx *gorm.DB, ticketTypes []models.TicketType) error {
	ids := make([]uint, 0, len(ticketTypes))
	for _, tt := range ticketTypes {
		ids = append(ids, tt.ID)
	}
	sold, err := activeSoldCounts(tx, ids)
	if err != nil {
		return err
	}
	for i := range ticketTypes {
		s := sold[ticketTypes[i].ID]
		ticketTypes[i].Stats = &types.InventoryStats{
			Sold:      s,
			Remaining: max(int64(ticketTypes[i].TotalQuantity)-s, 0),
		}
	}
	return nil
}

func forUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

// parseTime reads the API datetime layout and normalizes to UTC.
func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(config.TIME_PARSE_FORMAT, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func parseOptionalTime(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := parseTime(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
