package models

import "time"

type MenuItem struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	CategoryID   string    `json:"category_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Cost         float64   `json:"cost"` // ingredient cost; zero when unknown
	Available    bool      `json:"available"`
	CreatedAt    time.Time `json:"created_at"`
}

type Category struct {
	ID           string `json:"id"`
	RestaurantID string `json:"restaurant_id"`
	Name         string `json:"name"`
	Position     int    `json:"position"`
}
