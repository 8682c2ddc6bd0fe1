package model

// Song represents one metadata record in a user's library.
// OwnerEmail is the partition key: every song belongs to exactly one
// account, and the library only ever shows an account its own subset.
type Song struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Singer        string  `json:"singer"`
	Album         string  `json:"album,omitempty"`
	Year          int     `json:"year"`
	Duration      float64 `json:"duration,omitempty"` // seconds
	AudioURL      string  `json:"audio_url,omitempty"`
	CoverImageURL string  `json:"cover_image_url,omitempty"`
	OwnerEmail    string  `json:"userEmail"`
}
