package common

import (
	"bytes"
	"context"
	"eventspark/src/config"
	"eventspark/src/models"
	"eventspark/src/types"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type eventAggregate struct {
	EventID          uint
	TicketsSold      int64
	TicketsCheckedIn int64
	Revenue          decimal.Decimal
}

// aggregateTickets computes sold, checked-in and revenue per event over tickets joined to their order items.
func aggregateTickets(tx *gorm.DB, eventIDs []uint) (map[uint]eventAggregate, error) {
	out := make(map[uint]eventAggregate, len(eventIDs))
	if len(eventIDs) == 0 {
		return out, nil
	}
	var rows []eventAggregate
	if err := tx.
		Model(&models.Ticket{}).
		Select(
			"tickets.event_id AS event_id, "+
				"SUM(CASE WHEN tickets.status = ? THEN 1 ELSE 0 END) AS tickets_sold, "+
				"SUM(CASE WHEN tickets.checked_in_at IS NOT NULL THEN 1 ELSE 0 END) AS tickets_checked_in, "+
				"COALESCE(SUM(CASE WHEN tickets.status = ? THEN order_items.unit_price ELSE 0 END), 0) AS revenue",
			types.TICKET_ACTIVE, types.TICKET_ACTIVE,
		).
		Joins("JOIN order_items ON order_items.id = tickets.order_item_id").
		Where("tickets.event_id IN ?", eventIDs).
		Group("tickets.event_id").
		Scan(&rows).
		Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		r.Revenue = r.Revenue.Round(2)
		out[r.EventID] = r
	}
	return out, nil
}

func statsRows(tx *gorm.DB, events []models.Event) ([]types.EventStatsRow, error) {
	ids := make([]uint, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	agg, err := aggregateTickets(tx, ids)
	if err != nil {
		return nil, err
	}
	rows := make([]types.EventStatsRow, 0, len(events))
	for _, e := range events {
		a := agg[e.ID]
		rows = append(rows, types.EventStatsRow{
			EventID:          e.ID,
			Title:            e.Title,
			StartDateTime:    e.StartDateTime,
			Status:           e.Status,
			TicketsSold:      a.TicketsSold,
			TicketsCheckedIn: a.TicketsCheckedIn,
			NoShows:          a.TicketsSold - a.TicketsCheckedIn,
			Revenue:          a.Revenue,
		})
	}
	return rows, nil
}

func summarize(rows []types.EventStatsRow) types.OrganizerDashboard {
	d := types.OrganizerDashboard{Events: rows, TotalEvents: len(rows), TotalRevenue: decimal.Zero}
	for _, r := range rows {
		d.TotalTicketsSold += r.TicketsSold
		d.TotalTicketsCheckedIn += r.TicketsCheckedIn
		d.TotalRevenue = d.TotalRevenue.Add(r.Revenue)
	}
	return d
}

func EventStats(ctx context.Context, db *gorm.DB, user types.CurrentUser, eventID uint) (*types.EventStatsRow, error) {
	tx := db.WithContext(ctx)
	event, err := findManagedEvent(tx, user, eventID)
	if err != nil {
		return nil, err
	}
	rows, err := statsRows(tx, []models.Event{*event})
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func OrganizerDashboard(ctx context.Context, db *gorm.DB, user types.CurrentUser) (*types.OrganizerDashboard, error) {
	events, err := ListMyEvents(ctx, db, user)
	if err != nil {
		return nil, err
	}
	rows, err := statsRows(db.WithContext(ctx), events)
	if err != nil {
		return nil, err
	}
	d := summarize(rows)
	return &d, nil
}

// AdminDashboard reports over every event. Revenue is the sum of order totals.
func AdminDashboard(ctx context.Context, db *gorm.DB, user types.CurrentUser) (*types.AdminDashboard, error) {
	if err := requireAuthenticated(user); err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, types.ErrForbidden
	}
	tx := db.WithContext(ctx)
	events := make([]models.Event, 0)
	if err := tx.Order("start_date_time ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	rows, err := statsRows(tx, events)
	if err != nil {
		return nil, err
	}
	d := types.AdminDashboard{OrganizerDashboard: summarize(rows)}
	at := now()
	for _, e := range events {
		if e.StartDateTime.Before(at) {
			d.TotalPastEvents++
		} else {
			d.TotalUpcomingEvents++
		}
	}
	if err := tx.Model(&models.Order{}).Count(&d.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.User{}).Count(&d.TotalUsers).Error; err != nil {
		return nil, err
	}
	var revenue decimal.NullDecimal
	if err := tx.Model(&models.Order{}).Select("SUM(total_amount)").Scan(&revenue).Error; err != nil {
		return nil, err
	}
	d.TotalRevenue = decimal.Zero
	if revenue.Valid {
		d.TotalRevenue = revenue.Decimal.Round(2)
	}
	return &d, nil
}

type exportRow struct {
	ID                     uint
	TicketNumber           string
	Status                 types.TicketStatus
	CheckedInAt            *time.Time
	EventTitle             string
	TicketTypeNameSnapshot string
	UnitPrice              decimal.Decimal
	EmailSnapshot          string
}

var csvHeader = []string{"TicketId", "TicketNumber", "Event", "TicketType", "Price", "BuyerEmail", "Status", "CheckedInAt"}

// csvQuote always quotes and doubles inner quotes; encoding/csv only quotes when needed.
func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportEventTicketsCsv dumps one row per ticket of the event and returns the body and file name.
func ExportEventTicketsCsv(ctx context.Context, db *gorm.DB, user types.CurrentUser, eventID uint) ([]byte, string, error) {
	tx := db.WithContext(ctx)
	if _, err := findManagedEvent(tx, user, eventID); err != nil {
		return nil, "", err
	}
	var rows []exportRow
	if err := tx.
		Model(&models.Ticket{}).
		Select("tickets.id, tickets.ticket_number, tickets.status, tickets.checked_in_at, events.title AS event_title, order_items.ticket_type_name_snapshot, order_items.unit_price, orders.email_snapshot").
		Joins("JOIN events ON events.id = tickets.event_id").
		Joins("JOIN order_items ON order_items.id = tickets.order_item_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("tickets.event_id = ?", eventID).
		Order("tickets.id ASC").
		Scan(&rows).
		Error; err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	buf.WriteString(strings.Join(csvHeader, ",") + "\n")
	for _, r := range rows {
		checkedInAt := ""
		if r.CheckedInAt != nil {
			checkedInAt = r.CheckedInAt.UTC().Format(config.CSV_TIME_FORMAT)
		}
		fields := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			csvQuote(r.TicketNumber),
			csvQuote(r.EventTitle),
			csvQuote(r.TicketTypeNameSnapshot),
			r.UnitPrice.StringFixed(2),
			csvQuote(r.EmailSnapshot),
			csvQuote(r.Status.Label()),
			csvQuote(checkedInAt),
		}
		buf.WriteString(strings.Join(fields, ",") + "\n")
	}
	return buf.Bytes(), fmt.Sprintf("event-%d-tickets.csv", eventID), nil
}
