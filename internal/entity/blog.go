package entity

import "time"

type BlogStatus string

const (
	BlogStatusPublished BlogStatus = "published"
	BlogStatusDraft     BlogStatus = "draft"
)

func (s BlogStatus) Valid() bool {
	return s == BlogStatusPublished || s == BlogStatusDraft
}

type Blog struct {
	ID          string     `db:"id"`
	Title       string     `db:"title"`
	Slug        string     `db:"slug"`
	Content     string     `db:"content"`
	CategoryID  string     `db:"category_id"`
	CoverImage  string     `db:"cover_image"`
	Status      BlogStatus `db:"status"`
	PublishedAt *time.Time `db:"published_at"`
	ReadTime    string     `db:"read_time"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

type BlogCategory struct {
	ID           string    `db:"id"`
	Title        string    `db:"title"`
	Slug         string    `db:"slug"`
	Description  string    `db:"description"`
	ThumbnailURL string    `db:"thumbnail_url"`
	CreatedAt    time.Time `db:"created_at"`
}
