package models

type Role struct {
	Name string `gorm:"primarykey;size:50" json:"name"`

	Users []User `gorm:"many2many:user_roles;" json:"-"`
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&Role{},
		&User{},
		&EventCategory{},
		&Event{},
		&TicketType{},
		&Order{},
		&OrderItem{},
		&Ticket{},
		&CheckInLog{},
	}
}
