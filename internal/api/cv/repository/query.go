package cvRepository

const (
	queryCreateCV = `
		INSERT INTO cvs (
			id,
			title,
			file_path,
			is_active,
			size,
			created_at
		) VALUES (
			:id,
			:title,
			:file_path,
			:is_active,
			:size,
			:created_at
		)
	`

	queryGetAllCVs = `
		SELECT
			id,
			title,
			file_path,
			is_active,
			size,
			created_at
		FROM cvs
		ORDER BY created_at DESC, id DESC
	`

	queryGetCVByID = `
		SELECT
			id,
			title,
			file_path,
			is_active,
			size,
			created_at
		FROM cvs
		WHERE id = :id
	`

	queryGetActiveCV = `
		SELECT
			id,
			title,
			file_path,
			is_active,
			size,
			created_at
		FROM cvs
		WHERE is_active = TRUE
	`

	queryDeactivateAll = `
		UPDATE cvs
		SET is_active = FALSE
		WHERE is_active = TRUE
	`

	queryActivateCV = `
		UPDATE cvs
		SET is_active = TRUE
		WHERE id = :id
	`

	queryDeleteCV = `
		DELETE FROM cvs
		WHERE id = :id
	`
)
