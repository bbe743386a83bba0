package models

import (
	"time"
)

const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

type Authority struct {
	ID   uint   `gorm:"primaryKey" json:"-"`
	Name string `gorm:"uniqueIndex;size:40;not null" json:"name"`
}

type User struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Username    string      `gorm:"uniqueIndex;not null" json:"username"`
	Password    string      `gorm:"not null" json:"-"` // Hash
	Authorities []Authority `gorm:"many2many:user_authorities" json:"authorities"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// HasAuthority reports whether the user carries the named authority.
// Works both for persisted users and for transient users rebuilt from
// access token claims.
func (u *User) HasAuthority(name string) bool {
	for _, a := range u.Authorities {
		if a.Name == name {
			return true
		}
	}
	return false
}

// AuthorityNames flattens the authority set for token claims.
func (u *User) AuthorityNames() []string {
	names := make([]string, len(u.Authorities))
	for i, a := range u.Authorities {
		names[i] = a.Name
	}
	return names
}
