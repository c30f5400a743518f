package places

import "time"

type Place struct {
	ID            int       `json:"id"`
	GooglePlaceID string    `json:"googleplaceID"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Category struct {
	ID       int    `json:"id"`
	Category string `json:"category"`
	PlaceID  int    `json:"placeID"`
}

// News is user-submitted and hidden from public listings until an admin
// approves it.
type News struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	Approved bool   `json:"approved"`
	PlaceID  int    `json:"placeID"`
	UserID   int    `json:"userID"`
}
