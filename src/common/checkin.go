package common

import (
	"context"
	"errors"
	"eventspark/src/config"
	"eventspark/src/lib"
	"eventspark/src/models"
	"eventspark/src/types"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
)

// CheckIn validates a scanned code and journals the attempt. Every outcome writes a CheckInLog
// except a scan by someone who does not organize the ticket's event, which fails with ErrForbidden
// before anything is recorded. A blank code is logged as Other with event id 0.
func CheckIn(ctx context.Context, db *gorm.DB, user types.CurrentUser, rawCode string) (*types.CheckInOutcome, error) {
	if err := requireAuthenticated(user); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(rawCode)
	var outcome types.CheckInOutcome
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scannedAt := now()
		entry := models.CheckInLog{
			ScannedAt:       scannedAt,
			ScannedByUserID: user.ID,
			RawCode:         truncate(code, 200),
		}

		if code == "" {
			entry.Result = types.CHECKIN_OTHER
			entry.Message = "Empty code."
			outcome = types.CheckInOutcome{Result: types.CHECKIN_OTHER, Message: "Please scan or enter a ticket code."}
			return tx.Create(&entry).Error
		}

		var ticket models.Ticket
		err := tx.
			Clauses(forUpdate()).
			Where("ticket_number = ?", code).
			First(&ticket).
			Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			entry.Result = types.CHECKIN_INVALID_CODE
			entry.Message = "Ticket not found."
			outcome = types.CheckInOutcome{Result: types.CHECKIN_INVALID_CODE, Message: "Invalid code - ticket not found."}
			return tx.Create(&entry).Error
		}
		if err != nil {
			return err
		}

		event, err := findEvent(tx, ticket.EventID)
		if err != nil {
			return err
		}
		if event.OrganizerID != user.ID {
			log.Printf("User [%d] is not the organizer of event [%d]; scan of ticket [%d] refused\n", user.ID, event.ID, ticket.ID)
			return types.ErrForbidden
		}

		var order models.Order
		if err := tx.
			Select("orders.id", "orders.email_snapshot").
			Joins("JOIN order_items ON order_items.order_id = orders.id").
			Where("order_items.id = ?", ticket.OrderItemID).
			First(&order).
			Error; err != nil {
			return notFoundOr(err)
		}

		entry.TicketID = &ticket.ID
		entry.EventID = ticket.EventID
		outcome = types.CheckInOutcome{
			TicketNumber: ticket.TicketNumber,
			EventID:      event.ID,
			EventTitle:   event.Title,
		}

		switch {
		case ticket.Status != types.TICKET_ACTIVE:
			entry.Result = types.CHECKIN_CANCELLED_TICKET
			entry.Message = fmt.Sprintf("Ticket is not active (status: %s).", ticket.Status)
			outcome.Result = types.CHECKIN_CANCELLED_TICKET
			outcome.Message = fmt.Sprintf("Ticket %s is not active (status: %s).", ticket.TicketNumber, ticket.Status)
		case ticket.CheckedInAt != nil:
			entry.Result = types.CHECKIN_ALREADY_CHECKED_IN
			entry.Message = "Ticket already checked in."
			outcome.Result = types.CHECKIN_ALREADY_CHECKED_IN
			outcome.Message = fmt.Sprintf("Ticket %s already checked in at %s.", ticket.TicketNumber, ticket.CheckedInAt.UTC().Format(config.TIME_PARSE_FORMAT))
			outcome.BuyerEmail = order.EmailSnapshot
			outcome.CheckedInAt = ticket.CheckedInAt
		default:
			res := tx.
				Model(&models.Ticket{}).
				Where("id = ? AND checked_in_at IS NULL", ticket.ID).
				Updates(map[string]any{"checked_in_at": scannedAt, "checked_in_by_user_id": user.ID})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return types.ErrConcurrencyConflict
			}
			entry.Result = types.CHECKIN_SUCCESS
			entry.Message = "Check-in success."
			outcome.Result = types.CHECKIN_SUCCESS
			outcome.Message = fmt.Sprintf("Success! Ticket %s checked in.", ticket.TicketNumber)
			outcome.BuyerEmail = order.EmailSnapshot
			outcome.CheckedInAt = &scannedAt
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		if errors.Is(err, types.ErrForbidden) {
			lib.CheckInTotal.WithLabelValues("forbidden").Inc()
		}
		return nil, err
	}
	lib.CheckInTotal.WithLabelValues(string(outcome.Result)).Inc()
	return &outcome, nil
}

func ListCheckInLogs(ctx context.Context, db *gorm.DB, user types.CurrentUser, eventID uint) ([]models.CheckInLog, error) {
	tx := db.WithContext(ctx)
	if _, err := findManagedEvent(tx, user, eventID); err != nil {
		return nil, err
	}
	logs := make([]models.CheckInLog, 0)
	if err := tx.
		Where("event_id = ?", eventID).
		Order("scanned_at DESC").
		Order("id DESC").
		Find(&logs).
		Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
