package contact

import "time"

// PageSize is fixed; the inbox has no page size control.
const PageSize = 10

type SubmitRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=320"`
	Subject string `json:"subject" validate:"required,max=300"`
	Message string `json:"message" validate:"required,max=10000"`
}

type ListRequest struct {
	Search string
	Page   int
}

type MessageResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type Stats struct {
	Total         int `json:"total"`
	ThisMonth     int `json:"this_month"`
	UniqueSenders int `json:"unique_senders"`
}

type ListResponse struct {
	Messages   []MessageResponse `json:"messages"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
	PageSize   int               `json:"page_size"`
	Stats      Stats             `json:"stats"`
}
