package model

// Post is a read-only record. Posts enter the system through seed data;
// there is no create/update/delete API for them. UserID references a User
// by id but is not enforced against the users collection.
type Post struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}
