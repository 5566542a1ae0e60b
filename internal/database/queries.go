package database

const (
	// User queries
	queryGetActiveUsers = `
		SELECT id, name, email, created_at, updated_at
		FROM users
		WHERE active = 1
		ORDER BY created_at`

	queryInsertUser = `
		INSERT OR IGNORE INTO users (id, name, email) VALUES (?, ?, ?)`

	queryGetUserById = `
		SELECT id, name, email, created_at, updated_at
		FROM users
		WHERE id = ? AND active = 1`

	queryGetUserByEmail = `
		SELECT id, name, email, created_at, updated_at
		FROM users
		WHERE email = ? AND active = 1`

	// Balance queries
	queryGetBalance = `
		SELECT id, user_id, total_balance, available_balance, staked_amount, total_rewards, version, updated_at
		FROM balances
		WHERE user_id = ?`

	queryInsertBalance = `
		INSERT OR IGNORE INTO balances (id, user_id) VALUES (?, ?)`

	queryUpdateBalance = `
		UPDATE balances
		SET total_balance = ?, available_balance = ?, staked_amount = ?, total_rewards = ?,
		    version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND version = ?`

	// Position queries
	queryInsertPosition = `
		INSERT INTO positions (
			id, user_id, plan_id, plan_name, amount, daily_rate, lock_period_days,
			status, total_rewards, start_date, last_accrued_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetActivePosition = `
		SELECT id, user_id, plan_id, plan_name, amount, daily_rate, lock_period_days,
		       status, total_rewards, start_date, end_date, last_accrued_at, version
		FROM positions
		WHERE id = ? AND user_id = ? AND status = 'active'`

	queryGetPositionById = `
		SELECT id, user_id, plan_id, plan_name, amount, daily_rate, lock_period_days,
		       status, total_rewards, start_date, end_date, last_accrued_at, version
		FROM positions
		WHERE id = ?`

	queryListUserPositions = `
		SELECT id, user_id, plan_id, plan_name, amount, daily_rate, lock_period_days,
		       status, total_rewards, start_date, end_date, last_accrued_at, version
		FROM positions
		WHERE user_id = ?
		ORDER BY start_date, rowid`

	queryListUserPositionsByStatus = `
		SELECT id, user_id, plan_id, plan_name, amount, daily_rate, lock_period_days,
		       status, total_rewards, start_date, end_date, last_accrued_at, version
		FROM positions
		WHERE user_id = ? AND status = ?
		ORDER BY start_date, rowid`

	queryListAllActivePositions = `
		SELECT id, user_id, plan_id, plan_name, amount, daily_rate, lock_period_days,
		       status, total_rewards, start_date, end_date, last_accrued_at, version
		FROM positions
		WHERE status = 'active'
		ORDER BY start_date, rowid`

	queryWithdrawPosition = `
		UPDATE positions
		SET status = 'withdrawn', end_date = ?, total_rewards = ?,
		    version = version + 1
		WHERE id = ? AND status = 'active' AND version = ?`

	queryAccruePosition = `
		UPDATE positions
		SET total_rewards = ?, last_accrued_at = ?, version = version + 1
		WHERE id = ? AND status = 'active' AND version = ?`

	// Transaction queries
	queryInsertTransaction = `
		INSERT INTO transactions (id, user_id, type, amount, status, position_id, reference, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryListTransactions = `
		SELECT id, user_id, type, amount, status, position_id, reference, metadata, created_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`
)
