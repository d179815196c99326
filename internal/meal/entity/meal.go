package entity

import "time"

// Meal represents a listing in the meal catalog. Chef email and chef
// identifier are snapshotted from the owning account at creation time.
type Meal struct {
	ID          string    `db:"id" json:"id"`
	ChefEmail   string    `db:"chef_email" json:"chefEmail"`
	ChefName    string    `db:"chef_name" json:"chefName"`
	ChefID      string    `db:"chef_id" json:"chefId"`
	Name        string    `db:"name" json:"name"`
	ImageURL    string    `db:"image_url" json:"imageURL"`
	Price       float64   `db:"price" json:"price"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
