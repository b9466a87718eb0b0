package cv

import "time"

type UploadCVRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

type CVResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	FilePath  string    `json:"file_path"`
	IsActive  bool      `json:"is_active"`
	Size      int64     `json:"size"`
	PublicURL string    `json:"public_url"`
	CreatedAt time.Time `json:"created_at"`
}

type CVListResponse struct {
	CVs []CVResponse `json:"cvs"`
}
