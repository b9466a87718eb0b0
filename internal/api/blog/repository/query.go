package blogRepository

const (
	blogColumns = `
			b.id,
			b.title,
			b.slug,
			b.content,
			b.category_id,
			b.cover_image,
			b.status,
			b.published_at,
			b.read_time,
			b.created_at,
			b.updated_at,
			c.title AS category_title,
			c.slug AS category_slug`

	queryCreateBlog = `
		INSERT INTO blogs (
			id,
			title,
			slug,
			content,
			category_id,
			cover_image,
			status,
			published_at,
			read_time,
			created_at,
			updated_at
		) VALUES (
			:id,
			:title,
			:slug,
			:content,
			:category_id,
			:cover_image,
			:status,
			:published_at,
			:read_time,
			:created_at,
			:updated_at
		)
	`

	queryGetBlogByID = `
		SELECT` + blogColumns + `
		FROM blogs b
		LEFT JOIN blog_categories c ON c.id = b.category_id
		WHERE b.id = :id
	`

	querySlugExists = `
		SELECT COUNT(*)
		FROM blogs
		WHERE slug = :slug
	`

	queryGetBlogs = `
		SELECT` + blogColumns + `
		FROM blogs b
		LEFT JOIN blog_categories c ON c.id = b.category_id
		WHERE (:category_id = '' OR b.category_id = :category_id)
			AND (:status = '' OR b.status = :status)
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountBlogs = `
		SELECT COUNT(*)
		FROM blogs b
		WHERE (:category_id = '' OR b.category_id = :category_id)
			AND (:status = '' OR b.status = :status)
	`

	queryCountBlogsByCategory = `
		SELECT COUNT(*)
		FROM blogs
		WHERE category_id = :category_id
	`

	queryUpdateBlog = `
		UPDATE blogs
		SET
			title = :title,
			content = :content,
			category_id = :category_id,
			cover_image = :cover_image,
			status = :status,
			published_at = :published_at,
			read_time = :read_time,
			updated_at = :updated_at
		WHERE id = :id
	`

	queryDeleteBlog = `
		DELETE FROM blogs
		WHERE id = :id
	`

	queryCreateCategory = `
		INSERT INTO blog_categories (
			id,
			title,
			slug,
			description,
			thumbnail_url,
			created_at
		) VALUES (
			:id,
			:title,
			:slug,
			:description,
			:thumbnail_url,
			:created_at
		)
	`

	queryGetAllCategories = `
		SELECT
			id,
			title,
			slug,
			description,
			thumbnail_url,
			created_at
		FROM blog_categories
		ORDER BY created_at DESC, id DESC
	`

	queryGetCategoryByID = `
		SELECT
			id,
			title,
			slug,
			description,
			thumbnail_url,
			created_at
		FROM blog_categories
		WHERE id = :id
	`

	queryGetCategoryBySlug = `
		SELECT
			id,
			title,
			slug,
			description,
			thumbnail_url,
			created_at
		FROM blog_categories
		WHERE slug = :slug
	`

	queryDeleteCategory = `
		DELETE FROM blog_categories
		WHERE id = :id
	`
)
