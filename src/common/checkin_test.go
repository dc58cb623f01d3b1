package common

import (
	"context"
	"eventspark/src/models"
	"eventspark/src/types"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInUnknownCode(t *testing.T) {
	db := newTestDB(t)
	org := seedUser(t, db, "org@example.com")

	outcome, err := CheckIn(context.Background(), db, org, "  NOPE-123  ")
	require.NoError(t, err)
	assert.Equal(t, types.CHECKIN_INVALID_CODE, outcome.Result)
	assert.Equal(t, "Invalid code - ticket not found.", outcome.Message)

	var logs []models.CheckInLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, types.CHECKIN_INVALID_CODE, logs[0].Result)
	assert.Equal(t, "NOPE-123", logs[0].RawCode)
	assert.Equal(t, uint(0), logs[0].EventID)
	assert.Nil(t, logs[0].TicketID)
	assert.Equal(t, "Ticket not found.", logs[0].Message)
	assert.Equal(t, org.ID, logs[0].ScannedByUserID)
}

func TestCheckInLongMultibyteCodeIsLogged(t *testing.T) {
	db := newTestDB(t)
	org := seedUser(t, db, "org@example.com")
	code := "a" + strings.Repeat("é", 249)

	outcome, err := CheckIn(context.Background(), db, org, code)
	require.NoError(t, err)
	assert.Equal(t, types.CHECKIN_INVALID_CODE, outcome.Result)

	var entry models.CheckInLog
	require.NoError(t, db.First(&entry).Error)
	assert.True(t, utf8.ValidString(entry.RawCode))
	assert.LessOrEqual(t, len(entry.RawCode), 200)
	assert.True(t, strings.HasPrefix(code, entry.RawCode))
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	s := "a" + strings.Repeat("é", 150)
	cut := truncate(s, 200)
	assert.True(t, utf8.ValidString(cut))
	assert.Len(t, cut, 199)
	assert.Equal(t, "abc", truncate("abc", 200))
	assert.Equal(t, "", truncate("éé", 1))
}

func TestCheckInBlankCodeIsLogged(t *testing.T) {
	db := newTestDB(t)
	org := seedUser(t, db, "org@example.com")

	outcome, err := CheckIn(context.Background(), db, org, "   ")
	require.NoError(t, err)
	assert.Equal(t, types.CHECKIN_OTHER, outcome.Result)
	assert.Equal(t, "Please scan or enter a ticket code.", outcome.Message)
	assert.Equal(t, int64(1), count(t, db, &models.CheckInLog{}, "result = ? AND event_id = 0", types.CHECKIN_OTHER))
}

func TestCheckInSucceedsExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	org := seedUser(t, db, "org@example.com")
	buyer := seedUser(t, db, "buyer@example.com")
	event := seedEvent(t, db, org.ID, "Concert", types.EVENT_PUBLISHED, "Calgary", day(2030, 5, 1, 18))
	ga := seedTicketType(t, db, event.ID, "GA", 50, 100)
	ticket := seedSoldTickets(t, db, ga, buyer, 1)[0]
	ctx := context.Background()

	first, err := CheckIn(ctx, db, org, ticket.TicketNumber)
	require.NoError(t, err)
	assert.Equal(t, types.CHECKIN_SUCCESS, first.Result)
	assert.Equal(t, "Success! Ticket "+ticket.TicketNumber+" checked in.", first.Message)
	assert.Equal(t, buyer.Email, first.BuyerEmail)
	assert.Equal(t, event.ID, first.EventID)

	var stored models.Ticket
	require.NoError(t, db.First(&stored, ticket.ID).Error)
	require.NotNil(t, stored.CheckedInAt)
	require.NotNil(t, stored.CheckedInByUserID)
	assert.Equal(t, org.ID, *stored.CheckedInByUserID)
	checkedInAt := *stored.CheckedInAt

	restore := now
	now = func() time.Time { return time.Now().UTC().Add(time.Hour) }
	t.Cleanup(func() { now = restore })

	second, err := CheckIn(ctx, db, org, ticket.TicketNumber)
	require.NoError(t, err)
	assert.Equal(t, types.CHECKIN_ALREADY_CHECKED_IN, second.Result)
	assert.Contains(t, second.Message, "already checked in at")
	assert.Equal(t, buyer.Email, second.BuyerEmail)

	require.NoError(t, db.First(&stored, ticket.ID).Error)
	assert.True(t, checkedInAt.Equal(*stored.CheckedInAt))

	assert.Equal(t, int64(1), count(t, db, &models.CheckInLog{}, "ticket_id = ? AND result = ?", ticket.ID, types.CHECKIN_SUCCESS))
	assert.Equal(t, int64(1), count(t, db, &models.CheckInLog{}, "ticket_id = ? AND result = ?", ticket.ID, types.CHECKIN_ALREADY_CHECKED_IN))
}

func TestCheckInCancelledTicket(t *testing.T) {
	db := newTestDB(t)
	org := seedUser(t, db, "org@example.com")
	buyer := seedUser(t, db, "buyer@example.com")
	event := seedEvent(t, db, org.ID, "Concert", types.EVENT_PUBLISHED, "Calgary", day(2030, 5, 1, 18))
	ga := seedTicketType(t, db, event.ID, "GA", 50, 100)
	ticket := seedSoldTickets(t, db, ga, buyer, 1)[0]
	require.NoError(t, db.Model(&models.Ticket{}).Where("id = ?", ticket.ID).Update("status", types.TICKET_REFUNDED).Error)

	outcome, err := CheckIn(context.Background(), db, org, ticket.TicketNumber)
	require.NoError(t, err)
	assert.Equal(t, types.CHECKIN_CANCELLED_TICKET, outcome.Result)
	assert.Equal(t, "Ticket "+ticket.TicketNumber+" is not active (status: refunded).", outcome.Message)

	var stored models.Ticket
	require.NoError(t, db.First(&stored, ticket.ID).Error)
	assert.Nil(t, stored.CheckedInAt)
	assert.Equal(t, int64(1), count(t, db, &models.CheckInLog{}, "ticket_id = ? AND event_id = ?", ticket.ID, event.ID))
}

func TestCheckInByNonOrganizerWritesNoLog(t *testing.T) {
	db := newTestDB(t)
	org := seedUser(t, db, "org@example.com")
	stranger := seedUser(t, db, "stranger@example.com")
	admin := seedUser(t, db, "admin@example.com", types.ROLE_ADMIN)
	buyer := seedUser(t, db, "buyer@example.com")
	event := seedEvent(t, db, org.ID, "Concert", types.EVENT_PUBLISHED, "Calgary", day(2030, 5, 1, 18))
	ga := seedTicketType(t, db, event.ID, "GA", 50, 100)
	ticket := seedSoldTickets(t, db, ga, buyer, 1)[0]
	ctx := context.Background()

	_, err := CheckIn(ctx, db, stranger, ticket.TicketNumber)
	assert.ErrorIs(t, err, types.ErrForbidden)
	_, err = CheckIn(ctx, db, admin, ticket.TicketNumber)
	assert.ErrorIs(t, err, types.ErrForbidden)

	assert.Equal(t, int64(0), count(t, db, &models.CheckInLog{}, ""))
	var stored models.Ticket
	require.NoError(t, db.First(&stored, ticket.ID).Error)
	assert.Nil(t, stored.CheckedInAt)
}

func TestListCheckInLogsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	org := seedUser(t, db, "org@example.com")
	buyer := seedUser(t, db, "buyer@example.com")
	event := seedEvent(t, db, org.ID, "Concert", types.EVENT_PUBLISHED, "Calgary", day(2030, 5, 1, 18))
	ga := seedTicketType(t, db, event.ID, "GA", 50, 100)
	ticket := seedSoldTickets(t, db, ga, buyer, 1)[0]
	ctx := context.Background()

	_, err := CheckIn(ctx, db, org, ticket.TicketNumber)
	require.NoError(t, err)
	restore := now
	now = func() time.Time { return time.Now().UTC().Add(time.Minute) }
	t.Cleanup(func() { now = restore })
	_, err = CheckIn(ctx, db, org, ticket.TicketNumber)
	require.NoError(t, err)

	logs, err := ListCheckInLogs(ctx, db, org, event.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, types.CHECKIN_ALREADY_CHECKED_IN, logs[0].Result)
	assert.Equal(t, types.CHECKIN_SUCCESS, logs[1].Result)

	_, err = ListCheckInLogs(ctx, db, buyer, event.ID)
	assert.ErrorIs(t, err, types.ErrForbidden)
}
