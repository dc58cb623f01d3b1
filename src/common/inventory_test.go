package common

import (
	"context"
	"eventspark/src/lib"
	"eventspark/src/types"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshInventoryGauge(t *testing.T) {
	db := newTestDB(t)
	org := seedUser(t, db, "org@example.com")
	buyer := seedUser(t, db, "buyer@example.com")
	live := seedEvent(t, db, org.ID, "Live", types.EVENT_PUBLISHED, "Calgary", day(2030, 5, 1, 18))
	draft := seedEvent(t, db, org.ID, "Draft", types.EVENT_DRAFT, "Calgary", day(2030, 5, 1, 18))
	ga := seedTicketType(t, db, live.ID, "GA", 50, 100)
	seedTicketType(t, db, draft.ID, "GA", 50, 100)
	seedSoldTickets(t, db, ga, buyer, 3)

	require.NoError(t, RefreshInventoryGauge(context.Background(), db))

	assert.Equal(t, 1, testutil.CollectAndCount(lib.TicketTypeRemaining))
	remaining := lib.TicketTypeRemaining.WithLabelValues(strconv.FormatUint(uint64(live.ID), 10), strconv.FormatUint(uint64(ga.ID), 10))
	assert.Equal(t, float64(97), testutil.ToFloat64(remaining))
}
