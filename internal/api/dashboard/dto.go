package dashboard

type Counts struct {
	Blogs           int `db:"blogs"`
	PublishedBlogs  int `db:"published_blogs"`
	Categories      int `db:"categories"`
	CVs             int `db:"cvs"`
	ContactMessages int `db:"contact_messages"`
}

type DashboardResponse struct {
	Blogs           int    `json:"blogs"`
	PublishedBlogs  int    `json:"published_blogs"`
	Categories      int    `json:"categories"`
	CVs             int    `json:"cvs"`
	ContactMessages int    `json:"contact_messages"`
	ActiveCVTitle   string `json:"active_cv_title"`
}
