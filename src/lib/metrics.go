package lib

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckoutTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventspark_checkout_total",
		Help: "Checkout attempts by result.",
	}, []string{"result"})

	TicketsIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventspark_tickets_issued_total",
		Help: "Tickets issued by successful checkouts.",
	})

	CheckInTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventspark_checkin_total",
		Help: "Check-in scans by result.",
	}, []string{"result"})

	TicketTypeRemaining = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "eventspark_ticket_type_remaining",
		Help: "Remaining inventory per ticket type of published events.",
	}, []string{"event_id", "ticket_type_id"})
)
