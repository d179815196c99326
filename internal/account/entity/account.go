package entity

import "time"

// Role tiers. Transitions only move user -> chef or user -> admin; there is
// no demotion path.
const (
	RoleUser  = "user"
	RoleChef  = "chef"
	RoleAdmin = "admin"
)

const (
	StatusActive = "active"
	StatusFraud  = "fraud"
)

// Account represents a row in the `accounts` table. Email is the natural
// key; ChefID is set once when a chef elevation is approved and never
// retracted afterwards.
type Account struct {
	ID          int64     `db:"id" json:"id"`
	Email       string    `db:"email" json:"email"`
	DisplayName string    `db:"display_name" json:"displayName"`
	PhotoURL    string    `db:"photo_url" json:"photoURL"`
	Address     string    `db:"address" json:"address"`
	Role        string    `db:"role" json:"role"`
	Status      string    `db:"status" json:"status"`
	ChefID      *string   `db:"chef_id" json:"chefId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
