package authRepository

const (
	queryCreateAdmin = `
INSERT INTO admins (id, email, password_hash, created_at, updated_at)
VALUES (:id, :email, :password_hash, :created_at, :updated_at)`

	queryGetAdminByEmail = `
SELECT id, email, password_hash, created_at, updated_at
FROM admins
    WHERE email = :email`
)
