package entity

import "time"

// Favorite links a user account to a meal listing. At most one row exists
// per (user email, meal) pair.
type Favorite struct {
	ID        string    `db:"id" json:"id"`
	UserEmail string    `db:"user_email" json:"userEmail"`
	MealID    string    `db:"meal_id" json:"mealId"`
	MealName  string    `db:"meal_name" json:"mealName"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
