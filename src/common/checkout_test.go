package common

import (
	"context"
	"eventspark/src/lib"
	"eventspark/src/models"
	"eventspark/src/types"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutIssuesOrderItemAndTickets(t *testing.T) {
	db := newTestDB(t)
	org := seedUser(t, db, "org@example.com")
	buyer := seedUser(t, db, "buyer@example.com")
	event := seedEvent(t, db, org.ID, "Concert", types.EVENT_PUBLISHED, "Calgary", day(2030, 5, 1, 18))
	ga := seedTicketType(t, db, event.ID, "GA", 50, 100)
	issuedBefore := testutil.ToFloat64(lib.TicketsIssuedTotal)

	order, err := Checkout(context.Background(), db, buyer, event.ID, []types.CartLine{{TicketTypeID: ga.ID, Quantity: 3}})
	require.NoError(t, err)

	assert.Equal(t, types.ORDER_COMPLETED, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(150)), order.TotalAmount.String())
	assert.Equal(t, "150.00", order.TotalAmount.StringFixed(2))
	assert.True(t, strings.HasPrefix(order.PaymentReference, "TEST-"))
	assert.Equal(t, buyer.Email, order.EmailSnapshot)

	assert.Equal(t, int64(1), count(t, db, &models.Order{}, ""))
	var items []models.OrderItem
	require.NoError(t, db.Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.True(t, items[0].UnitPrice.Equal(decimal.NewFromInt(50)))
	assert.True(t, items[0].LineTotal.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "GA", items[0].TicketTypeNameSnapshot)

	var tickets []models.Ticket
	require.NoError(t, db.Find(&tickets).Error)
	require.Len(t, tickets, 3)
	seen := map[string]bool{}
	for _, tk := range tickets {
		assert.False(t, seen[tk.TicketNumber])
		seen[tk.TicketNumber] = true
		assert.Equal(t, tk.TicketNumber, tk.QrCodeValue)
		assert.Equal(t, types.TICKET_ACTIVE, tk.Status)
		assert.Equal(t, event.ID, tk.EventID)
		assert.LessOrEqual(t, len(tk.TicketNumber), 40)
	}
	assert.Equal(t, issuedBefore+3, testutil.ToFloat64(lib.TicketsIssuedTotal))
}

func TestCheckoutNotEnoughLeft(t *testing.T) {
	db := newTestDB(t)
	org := seedUser(t, db, "org@example.com")
	buyer := seedUser(t, db, "buyer@example.com")
	event := seedEvent(t, db, org.ID, "Concert", types.EVENT_PUBLISHED, "Calgary", day(2030, 5, 1, 18))
	ga := seedTicketType(t, db, event.ID, "GA", 50, 100)
	seedSoldTickets(t, db, ga, buyer, 98)
	ordersBefore := count(t, db, &models.Order{}, "")

	_, err := Checkout(context.Background(), db, buyer, event.ID, []types.CartLine{{TicketTypeID: ga.ID, Quantity: 3}})
	msgs := validationMessages(t, err)
	assert.Equal(t, []string{"Cannot buy 3 'GA' tickets - only 2 left."}, msgs)
	assert.Equal(t, ordersBefore, count(t, db, &models.Order{}, ""))
	assert.Equal(t, int64(98), count(t, db, &models.Ticket{}, ""))
}

func TestCheckoutRejectsEmptySelection(t *testing.T) {
	db := newTestDB(t)
	org := seedUser(t, db, "org@example.com")
	buyer := seedUser(t, db, "buyer@example.com")
	event := seedEvent(t, db, org.ID, "Concert", types.EVENT_PUBLISHED, "Calgary", day(2030, 5, 1, 18))
	ga := seedTicketType(t, db, event.ID, "GA", 50, 100)
	vip := seedTicketType(t, db, event.ID, "VIP", 150, 10)

	_, err := Checkout(context.Background(), db, buyer, event.ID, []types.CartLine{
		{TicketTypeID: ga.ID, Quantity: 0},
		{TicketTypeID: vip.ID, Quantity: 0},
	})
	assert.Equal(t, []string{MSG_EMPTY_SELECTION}, validationMessages(t, err))
	assert.Equal(t, int64(0), count(t, db, &models.Order{}, ""))
}

func TestCheckoutAccumulatesLineErrors(t *testing.T) {
	db := newTestDB(t)
	org := seedUser(t, db, "org@example.com")
	buyer := seedUser(t, db, "buyer@example.com")
	event := seedEvent(t, db, org.ID, "Concert", types.EVENT_PUBLISHED, "Calgary", day(2030, 5, 1, 18))
	ga := seedTicketType(t, db, event.ID, "GA", 50, 5)
	vip := seedTicketType(t, db, event.ID, "VIP", 150, 2)
	seedSoldTickets(t, db, vip, buyer, 2)
	seedSoldTickets(t, db, ga, buyer, 4)
	ticketsBefore := count(t, db, &models.Ticket{}, "")

	_, err := Checkout(context.Background(), db, buyer, event.ID, []types.CartLine{
		{TicketTypeID: ga.ID, Quantity: 2},
		{TicketTypeID: vip.ID, Quantity: 1},
	})
	assert.Equal(t, []string{
		"Cannot buy 2 'GA' tickets - only 1 left.",
		"Ticket type 'VIP' is sold out.",
	}, validationMessages(t, err))
	assert.Equal(t, ticketsBefore, count(t, db, &models.Ticket{}, ""))
}

func TestCheckoutRejectsForeignTicketType(t *testing.T) {
	db := newTestDB(t)
	org := seedUser(t, db, "org@example.com")
	buyer := seedUser(t, db, "buyer@example.com")
	event := seedEvent(t, db, org.ID, "Concert", types.EVENT_PUBLISHED, "Calgary", day(2030, 5, 1, 18))
	other := seedEvent(t, db, org.ID, "Other", types.EVENT_PUBLISHED, "Calgary", day(2030, 5, 2, 18))
	ga := seedTicketType(t, db, event.ID, "GA", 50, 5)
	foreign := seedTicketType(t, db, other.ID, "GA", 50, 5)

	_, err := Checkout(context.Background(), db, buyer, event.ID, []types.CartLine{
		{TicketTypeID: ga.ID, Quantity: 1},
		{TicketTypeID: foreign.ID, Quantity: 1},
	})
	assert.Equal(t, []string{MSG_TYPES_UNAVAILABLE}, validationMessages(t, err))
	assert.Equal(t, int64(0), count(t, db, &models.Order{}, ""))
}

func TestCheckoutRequiresPublishedEvent(t *testing.T) {
	db := newTestDB(t)
	org := seedUser(t, db, "org@example.com")
	buyer := seedUser(t, db, "buyer@example.com")
	event := seedEvent(t, db, org.ID, "Concert", types.EVENT_DRAFT, "Calgary", day(2030, 5, 1, 18))
	ga := seedTicketType(t, db, event.ID, "GA", 50, 5)
	ctx := context.Background()

	_, err := Checkout(ctx, db, buyer, event.ID, []types.CartLine{{TicketTypeID: ga.ID, Quantity: 1}})
	assert.Equal(t, []string{MSG_EVENT_NOT_ON_SALE}, validationMessages(t, err))

	_, err = Checkout(ctx, db, buyer, 9999, []types.CartLine{{TicketTypeID: ga.ID, Quantity: 1}})
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = Checkout(ctx, db, types.CurrentUser{}, event.ID, []types.CartLine{{TicketTypeID: ga.ID, Quantity: 1}})
	assert.ErrorIs(t, err, types.ErrUnauthenticated)
}

func TestCheckoutMergesDuplicateLines(t *testing.T) {
	db := newTestDB(t)
	org := seedUser(t, db, "org@example.com")
	buyer := seedUser(t, db, "buyer@example.com")
	event := seedEvent(t, db, org.ID, "Concert", types.EVENT_PUBLISHED, "Calgary", day(2030, 5, 1, 18))
	ga := seedTicketType(t, db, event.ID, "GA", 20, 5)

	order, err := Checkout(context.Background(), db, buyer, event.ID, []types.CartLine{
		{TicketTypeID: ga.ID, Quantity: 2},
		{TicketTypeID: ga.ID, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(60)))
}

func TestCheckoutHonorsSaleWindow(t *testing.T) {
	db := newTestDB(t)
	org := seedUser(t, db, "org@example.com")
	buyer := seedUser(t, db, "buyer@example.com")
	event := seedEvent(t, db, org.ID, "Concert", types.EVENT_PUBLISHED, "Calgary", day(2030, 5, 1, 18))
	early := seedTicketType(t, db, event.ID, "Early Bird", 20, 5)
	saleEnd := day(2030, 1, 1, 0)
	require.NoError(t, db.Model(early).Update("sale_end", saleEnd).Error)

	restore := now
	now = func() time.Time { return day(2030, 2, 1, 0) }
	t.Cleanup(func() { now = restore })

	_, err := Checkout(context.Background(), db, buyer, event.ID, []types.CartLine{{TicketTypeID: early.ID, Quantity: 1}})
	assert.Equal(t, []string{"Ticket type 'Early Bird' is not on sale."}, validationMessages(t, err))
}

// sqlite runs these on one connection; the row lock itself is covered by TestCheckoutLocksTicketTypes.
func TestCheckoutConcurrentBuyersNeverOversell(t *testing.T) {
	db := newTestDB(t)
	org := seedUser(t, db, "org@example.com")
	event := seedEvent(t, db, org.ID, "Concert", types.EVENT_PUBLISHED, "Calgary", day(2030, 5, 1, 18))
	ga := seedTicketType(t, db, event.ID, "GA", 50, 5)
	buyers := make([]types.CurrentUser, 10)
	for i := range buyers {
		buyers[i] = seedUser(t, db, "buyer"+string(rune('a'+i))+"@example.com")
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, rejected := 0, 0
	for _, b := range buyers {
		wg.Add(1)
		go func(b types.CurrentUser) {
			defer wg.Done()
			_, err := Checkout(context.Background(), db, b, event.ID, []types.CartLine{{TicketTypeID: ga.ID, Quantity: 1}})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if _, ok := types.IsValidationError(err); ok {
				rejected++
			}
		}(b)
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 5, rejected)
	assert.Equal(t, int64(5), count(t, db, &models.Ticket{}, "status = ?", types.TICKET_ACTIVE))
}

func TestPreviewCartPersistsNothing(t *testing.T) {
	db := newTestDB(t)
	org := seedUser(t, db, "org@example.com")
	buyer := seedUser(t, db, "buyer@example.com")
	event := seedEvent(t, db, org.ID, "Concert", types.EVENT_PUBLISHED, "Calgary", day(2030, 5, 1, 18))
	ga := seedTicketType(t, db, event.ID, "GA", 50, 100)
	vip := seedTicketType(t, db, event.ID, "VIP", 125, 10)

	cart, err := PreviewCart(context.Background(), db, buyer, event.ID, []types.CartLine{
		{TicketTypeID: vip.ID, Quantity: 1},
		{TicketTypeID: ga.ID, Quantity: 2},
	})
	require.NoError(t, err)
	require.Len(t, cart.Lines, 2)
	assert.Equal(t, "VIP", cart.Lines[0].Name)
	assert.True(t, cart.Lines[1].LineTotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, cart.Total.Equal(decimal.NewFromInt(225)))
	assert.Equal(t, "Concert", cart.EventTitle)
	assert.Equal(t, int64(0), count(t, db, &models.Order{}, ""))
}

func TestPurchaseOptionsRemaining(t *testing.T) {
	db := newTestDB(t)
	org := seedUser(t, db, "org@example.com")
	buyer := seedUser(t, db, "buyer@example.com")
	event := seedEvent(t, db, org.ID, "Concert", types.EVENT_PUBLISHED, "Calgary", day(2030, 5, 1, 18))
	vip := seedTicketType(t, db, event.ID, "VIP", 125, 10)
	ga := seedTicketType(t, db, event.ID, "GA", 50, 100)
	seedSoldTickets(t, db, ga, buyer, 7)

	got, err := PurchaseOptions(context.Background(), db, event.ID)
	require.NoError(t, err)
	require.Len(t, got.TicketTypes, 2)
	assert.Equal(t, ga.ID, got.TicketTypes[0].ID)
	assert.Equal(t, int64(93), got.TicketTypes[0].Stats.Remaining)
	assert.Equal(t, vip.ID, got.TicketTypes[1].ID)
	assert.Equal(t, int64(10), got.TicketTypes[1].Stats.Remaining)
}
