package common

import (
	"eventspark/src/models"
	"eventspark/src/types"
	"eventspark/src/utils"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(models.All()...))
	return gdb
}

func seedUser(t *testing.T, db *gorm.DB, email string, roles ...string) types.CurrentUser {
	t.Helper()
	user := models.User{Email: email, Name: strings.Split(email, "@")[0], PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	for _, r := range roles {
		require.NoError(t, db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Role{Name: r}).Error)
		require.NoError(t, db.Model(&user).Association("Roles").Append(&models.Role{Name: r}))
	}
	return types.CurrentUser{ID: user.ID, Email: user.Email, Name: user.Name, Roles: roles}
}

func seedEvent(t *testing.T, db *gorm.DB, organizerID uint, title string, status types.EventStatus, city string, start time.Time) *models.Event {
	t.Helper()
	event := models.Event{
		OrganizerID:   organizerID,
		Title:         title,
		Description:   title + " description",
		VenueName:     "Main Hall",
		City:          city,
		StartDateTime: start.UTC(),
		EndDateTime:   start.UTC().Add(3 * time.Hour),
		Status:        status,
		Version:       1,
	}
	require.NoError(t, db.Create(&event).Error)
	return &event
}

func seedTicketType(t *testing.T, db *gorm.DB, eventID uint, name string, price int64, quantity int) *models.TicketType {
	t.Helper()
	tt := models.TicketType{
		EventID:       eventID,
		Name:          name,
		Price:         decimal.NewFromInt(price),
		TotalQuantity: quantity,
		Version:       1,
	}
	require.NoError(t, db.Create(&tt).Error)
	return &tt
}

// seedSoldTickets issues n Active tickets of tt to buyer through one order.
func seedSoldTickets(t *testing.T, db *gorm.DB, tt *models.TicketType, buyer types.CurrentUser, n int) []models.Ticket {
	t.Helper()
	order := models.Order{
		BuyerID:          buyer.ID,
		EventID:          tt.EventID,
		Status:           types.ORDER_COMPLETED,
		TotalAmount:      tt.Price.Mul(decimal.NewFromInt(int64(n))),
		PaymentReference: utils.NewPaymentReference(),
		EmailSnapshot:    buyer.Email,
		FullNameSnapshot: buyer.Name,
	}
	require.NoError(t, db.Create(&order).Error)
	item := models.OrderItem{
		OrderID:                order.ID,
		TicketTypeID:           tt.ID,
		Quantity:               n,
		UnitPrice:              tt.Price,
		TicketTypeNameSnapshot: tt.Name,
	}
	require.NoError(t, db.Create(&item).Error)
	tickets := make([]models.Ticket, 0, n)
	for range n {
		number := utils.NewTicketNumber(tt.EventID, tt.ID)
		tickets = append(tickets, models.Ticket{
			OrderItemID:  item.ID,
			EventID:      tt.EventID,
			TicketNumber: number,
			QrCodeValue:  number,
			Status:       types.TICKET_ACTIVE,
		})
	}
	if n > 0 {
		require.NoError(t, db.CreateInBatches(&tickets, 100).Error)
	}
	return tickets
}

func count(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func validationMessages(t *testing.T, err error) []string {
	t.Helper()
	verr, ok := types.IsValidationError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	return verr.Messages
}

func day(year int, month time.Month, d, hour int) time.Time {
	return time.Date(year, month, d, hour, 0, 0, 0, time.UTC)
}
