package types

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Timestamps struct {
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

type EventStatus string

const (
	EVENT_DRAFT     EventStatus = "draft"
	EVENT_PUBLISHED EventStatus = "published"
	EVENT_CANCELLED EventStatus = "cancelled"
)

func (s EventStatus) Valid() bool {
	return s == EVENT_DRAFT || s == EVENT_PUBLISHED || s == EVENT_CANCELLED
}

type OrderStatus string

const (
	ORDER_PENDING   OrderStatus = "pending"
	ORDER_COMPLETED OrderStatus = "completed"
	ORDER_CANCELLED OrderStatus = "cancelled"
	ORDER_REFUNDED  OrderStatus = "refunded"
)

type TicketStatus string

const (
	TICKET_ACTIVE    TicketStatus = "active"
	TICKET_CANCELLED TicketStatus = "cancelled"
	TICKET_REFUNDED  TicketStatus = "refunded"
)

type CheckInResult string

const (
	CHECKIN_SUCCESS            CheckInResult = "success"
	CHECKIN_ALREADY_CHECKED_IN CheckInResult = "already_checked_in"
	CHECKIN_INVALID_CODE       CheckInResult = "invalid_code"
	CHECKIN_CANCELLED_TICKET   CheckInResult = "cancelled_ticket"
	CHECKIN_OTHER              CheckInResult = "other"
)

const (
	ROLE_ADMIN     = "Admin"
	ROLE_ORGANIZER = "Organizer"
	ROLE_ATTENDEE  = "Attendee"
)

var DefaultRoles = []string{ROLE_ADMIN, ROLE_ORGANIZER, ROLE_ATTENDEE}

// CurrentUser is the identity an operation runs as. The zero value is an anonymous caller.
type CurrentUser struct {
	ID    uint
	Email string
	Name  string
	Roles []string
}

func (u CurrentUser) Authenticated() bool {
	return u.ID > 0
}

func (u CurrentUser) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

func (u CurrentUser) IsAdmin() bool {
	return u.HasRole(ROLE_ADMIN)
}

// CanManage reports whether u may manage a resource owned by organizerID.
func (u CurrentUser) CanManage(organizerID uint) bool {
	return u.Authenticated() && (u.ID == organizerID || u.IsAdmin())
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type EventListQuery struct {
	Search     string `form:"search"`
	CategoryID *uint  `form:"category"`
	City       string `form:"city"`
	From       string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page,default=1"`
	PageSize   int    `form:"page_size,default=10"`
}

type EventListFilter struct {
	Search     string
	CategoryID *uint
	City       string
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}

type CreateEventRequestBody struct {
	Title         string       `json:"title" binding:"required,max=200"`
	Description   string       `json:"description" binding:"required"`
	VenueName     string       `json:"venue_name" binding:"required,max=200"`
	VenueAddress  *string      `json:"venue_address,omitempty" binding:"omitempty,max=400"`
	City          string       `json:"city" binding:"required,max=100"`
	CategoryID    *uint        `json:"category_id,omitempty"`
	StartDateTime string       `json:"start_date_time" binding:"required,eventdate" time_format:"2006-01-02 15:04:05 -07:00"`
	EndDateTime   string       `json:"end_date_time" binding:"required,eventdate,gtdate=StartDateTime" time_format:"2006-01-02 15:04:05 -07:00"`
	Status        *EventStatus `json:"status,omitempty" binding:"omitempty,oneof=draft published cancelled"`
	ImagePath     *string      `json:"image_path,omitempty" binding:"omitempty,max=400"`
	MaxCapacity   *uint        `json:"max_capacity,omitempty"`
}

type UpdateEventRequestBody struct {
	CreateEventRequestBody
	Version uint `json:"version" binding:"required"`
}

type UpdateEventStatusRequestBody struct {
	NewStatus EventStatus `json:"new_status" binding:"required,oneof=draft published cancelled"`
	Version   uint        `json:"version" binding:"required"`
}

type CreateTicketTypeRequestBody struct {
	Name          string          `json:"name" binding:"required,max=100"`
	Description   *string         `json:"description,omitempty" binding:"omitempty,max=400"`
	Price         decimal.Decimal `json:"price"`
	TotalQuantity int             `json:"total_quantity" binding:"min=0,max=100000"`
	SaleStart     *string         `json:"sale_start,omitempty" binding:"omitempty,saledate" time_format:"2006-01-02 15:04:05 -07:00"`
	SaleEnd       *string         `json:"sale_end,omitempty" binding:"omitempty,saledate,gtdate=SaleStart" time_format:"2006-01-02 15:04:05 -07:00"`
}

type UpdateTicketTypeRequestBody struct {
	CreateTicketTypeRequestBody
	Version uint `json:"version" binding:"required"`
}

type CartLine struct {
	TicketTypeID uint `json:"ticket_type_id" binding:"required"`
	Quantity     int  `json:"quantity" binding:"min=0"`
}

type CheckoutRequestBody struct {
	Lines []CartLine `json:"lines" binding:"required,dive"`
}

type CheckInRequestBody struct {
	Code string `json:"code"`
}

type CreateCategoryRequestBody struct {
	Name string `json:"name" binding:"required,max=100"`
}

type RegisterUserRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,max=200"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type PricedCartLine struct {
	TicketTypeID uint            `json:"ticket_type_id"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

type Cart struct {
	EventID    uint             `json:"event_id"`
	EventTitle string           `json:"event_title"`
	EventStart time.Time        `json:"event_start"`
	VenueName  string           `json:"venue_name"`
	Lines      []PricedCartLine `json:"lines"`
	Total      decimal.Decimal  `json:"total"`
}

type InventoryStats struct {
	Sold      int64 `json:"sold"`
	Remaining int64 `json:"remaining"`
}

type EventStatsRow struct {
	EventID          uint            `json:"event_id"`
	Title            string          `json:"title"`
	StartDateTime    time.Time       `json:"start_date_time"`
	Status           EventStatus     `json:"status"`
	TicketsSold      int64           `json:"tickets_sold"`
	TicketsCheckedIn int64           `json:"tickets_checked_in"`
	NoShows          int64           `json:"no_shows"`
	Revenue          decimal.Decimal `json:"revenue"`
}

type OrganizerDashboard struct {
	Events                []EventStatsRow `json:"events"`
	TotalEvents           int             `json:"total_events"`
	TotalTicketsSold      int64           `json:"total_tickets_sold"`
	TotalTicketsCheckedIn int64           `json:"total_tickets_checked_in"`
	TotalRevenue          decimal.Decimal `json:"total_revenue"`
}

type AdminDashboard struct {
	OrganizerDashboard
	TotalUpcomingEvents int   `json:"total_upcoming_events"`
	TotalPastEvents     int   `json:"total_past_events"`
	TotalOrders         int64 `json:"total_orders"`
	TotalUsers          int64 `json:"total_users"`
}

type CheckInOutcome struct {
	Result       CheckInResult `json:"result"`
	Message      string        `json:"message"`
	TicketNumber string        `json:"ticket_number,omitempty"`
	BuyerEmail   string        `json:"buyer_email,omitempty"`
	EventID      uint          `json:"event_id,omitempty"`
	EventTitle   string        `json:"event_title,omitempty"`
	CheckedInAt  *time.Time    `json:"checked_in_at,omitempty"`
}

// Label is the display form used in exports, e.g. "Active".
func (s TicketStatus) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}
