package contactRepository

const (
	queryCreateMessage = `
		INSERT INTO contact_messages (
			id,
			name,
			email,
			subject,
			message,
			created_at
		) VALUES (
			:id,
			:name,
			:email,
			:subject,
			:message,
			:created_at
		)
	`

	queryGetAllMessages = `
		SELECT
			id,
			name,
			email,
			subject,
			message,
			created_at
		FROM contact_messages
		ORDER BY created_at DESC, id DESC
	`

	queryGetMessageByID = `
		SELECT
			id,
			name,
			email,
			subject,
			message,
			created_at
		FROM contact_messages
		WHERE id = :id
	`

	queryDeleteMessage = `
		DELETE FROM contact_messages
		WHERE id = :id
	`
)
