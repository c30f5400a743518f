package comments

import "time"

type Comment struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	UserID    int       `json:"userID"`
	PlaceID   int       `json:"placeID"`
	CreatedAt time.Time `json:"createdAt"`
}

// WithAuthor decorates a comment with the author's username for listings
// that are rendered without a separate user lookup.
type WithAuthor struct {
	Comment
	UserName string `json:"userName"`
}
