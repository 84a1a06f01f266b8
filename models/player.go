package models

import "time"

type PlayerRole string

const (
	RoleAdmin    PlayerRole = "admin"
	RoleOperator PlayerRole = "operator"
	RolePlayer   PlayerRole = "player"
)

type Player struct {
	ID        int        `json:"id" db:"id"`
	FirstName string     `json:"first_name" db:"first_name"`
	LastName  string     `json:"last_name" db:"last_name"`
	Nickname  string     `json:"nickname" db:"nickname"`
	Role      PlayerRole `json:"role" db:"role"`
	PinHash   *string    `json:"-" db:"pin_hash"`
	PhotoKey  *string    `json:"-" db:"photo_key"`
	PhotoURL  *string    `json:"photo_url,omitempty" db:"-"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

type Credentials struct {
	Nickname string `json:"nickname"`
	Pin      string `json:"pin"`
}
