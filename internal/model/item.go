package model

// Item is the domain model for a todo entry.
// ID and the creation stamps are fixed at creation; Text and Checked change in place.
type Item struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	CreatedDate string `json:"createdDate"`
	CreatedTime string `json:"createdTime"`
	Checked     bool   `json:"checked"`
}
