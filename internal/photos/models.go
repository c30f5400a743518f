package photos

import "time"

// Photo is the storage record. Location is the path under the upload
// directory that the static file route serves.
type Photo struct {
	ID          int       `json:"id"`
	Location    string    `json:"location"`
	ContentType string    `json:"type"`
	Approved    bool      `json:"approved"`
	UserID      int       `json:"userID"`
	PlaceID     int       `json:"placeID"`
	CreatedAt   time.Time `json:"createdAt"`
}

// View is the public rendering of a photo: names instead of ids.
type View struct {
	ID          int    `json:"id"`
	Location    string `json:"location"`
	ContentType string `json:"type"`
	UserName    string `json:"userName"`
	PlaceName   string `json:"placeName"`
}
