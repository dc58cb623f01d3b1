package models

import (
	"eventspark/src/types"
	"time"
)

type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	Name         string     `gorm:"size:200" json:"name,omitempty"`
	Email        string     `gorm:"size:256;uniqueIndex;not null" json:"email,omitempty"`
	PasswordHash string     `json:"-"`
	LastActive   *time.Time `json:"last_active,omitempty"`

	Roles []Role `gorm:"many2many:user_roles;" json:"roles,omitempty"`

	types.Timestamps
}

func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

func (u *User) AsCurrentUser() types.CurrentUser {
	return types.CurrentUser{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Roles: u.RoleNames(),
	}
}
