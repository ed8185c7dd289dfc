package domain

import "time"

// Comment is a reader remark on a chapter. Comments carry their own
// like-membership set and counter, independent of the chapter's likes.
type Comment struct {
	ID        string    `json:"id"`
	ChapterID string    `json:"chapter_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Likes     int64     `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}
