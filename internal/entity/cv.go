package entity

import "time"

type CV struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	FilePath  string    `db:"file_path"`
	IsActive  bool      `db:"is_active"`
	Size      int64     `db:"size"`
	CreatedAt time.Time `db:"created_at"`
}
