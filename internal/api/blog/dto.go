package blogs

import "time"

type CreateCategoryRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=2000"`
}

type CategoryResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
}

type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

type CategoryDetailResponse struct {
	Category CategoryResponse `json:"category"`
	Blogs    []BlogResponse   `json:"blogs"`
}

type CreateBlogRequest struct {
	Title      string `json:"title" validate:"required,max=256"`
	Content    string `json:"content" validate:"required"`
	CategoryID string `json:"category_id" validate:"required"`
	Slug       string `json:"slug" validate:"omitempty,max=256"`
	Status     string `json:"status" validate:"omitempty,oneof=published draft"`
}

// UpdateBlogRequest replaces title and content; the other fields change only when sent.
type UpdateBlogRequest struct {
	Title      string `json:"title" validate:"required,max=256"`
	Content    string `json:"content" validate:"required"`
	CategoryID string `json:"category_id" validate:"omitempty"`
	Status     string `json:"status" validate:"omitempty,oneof=published draft"`
}

type ListBlogsRequest struct {
	CategoryID    string
	Page          int
	Limit         int
	PublishedOnly bool
}

type BlogCategoryRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type BlogResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Slug        string           `json:"slug"`
	Content     string           `json:"content"`
	CategoryID  string           `json:"category_id"`
	Category    *BlogCategoryRef `json:"category,omitempty"`
	CoverImage  string           `json:"cover_image"`
	Status      string           `json:"status"`
	PublishedAt *time.Time       `json:"published_at"`
	ReadTime    string           `json:"read_time"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type BlogListResponse struct {
	Blogs []BlogResponse `json:"blogs"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
