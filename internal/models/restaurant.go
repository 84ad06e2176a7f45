package models

import "time"

type Restaurant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SlugName  string    `json:"slug_name"`
	Cuisine   string    `json:"cuisine"`
	Town      string    `json:"town"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}
