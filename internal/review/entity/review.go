package entity

import "time"

// Review is a user's rating of a meal. One review per (user email, meal).
type Review struct {
	ID           string    `db:"id" json:"id"`
	MealID       string    `db:"meal_id" json:"mealId"`
	UserEmail    string    `db:"user_email" json:"userEmail"`
	ReviewerName string    `db:"reviewer_name" json:"reviewerName"`
	Rating       int       `db:"rating" json:"rating"`
	Comment      string    `db:"comment" json:"comment"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
