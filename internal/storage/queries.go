package storage

const (
	// Account queries
	GetUserAccountsQuery = `
		SELECT id, user_id, kind, number, last4, card_type, token, network, created_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at
	`

	// Создать счет пользователя
	CreateAccountQuery = `
		INSERT INTO accounts (id, user_id, kind, number, last4, card_type, token, network)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, user_id, kind, number, last4, card_type, token, network, created_at
	`

	// Record queries: сырые записи хранятся как jsonb, набор их полей
	// зависит от продюсера и заранее не фиксируется
	GetRecordByIDQuery = `
		SELECT payload
		FROM transaction_records
		WHERE id = $1 AND user_id = $2
	`

	// Записи пользователя за период, новые первыми
	GetUserRecordsQuery = `
		SELECT payload
		FROM transaction_records
		WHERE user_id = $1
		  AND created_at >= $2
		  AND created_at < $3
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`

	CountUserRecordsQuery = `
		SELECT COUNT(*)
		FROM transaction_records
		WHERE user_id = $1
		  AND created_at >= $2
		  AND created_at < $3
	`

	UpsertRecordQuery = `
		INSERT INTO transaction_records (id, user_id, payload, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload
	`

	// User queries
	CreateUserQuery = `
		INSERT INTO users (id, username, email, password_hash, display_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, username, email, display_name, created_at, updated_at
	`

	GetUserByUsernameQuery = `
		SELECT id, username, email, password_hash, display_name, created_at, updated_at
		FROM users
		WHERE username = $1
	`

	GetUserByIDQuery = `
		SELECT id, username, email, password_hash, display_name, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	CheckUserExistsByUsernameQuery = `
		SELECT EXISTS(
			SELECT 1
			FROM users
			WHERE username = $1
		)
	`

	CheckUserExistsByEmailQuery = `
		SELECT EXISTS(
			SELECT 1
			FROM users
			WHERE email = $1
		)
	`
)
