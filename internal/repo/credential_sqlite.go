package repo

import "database/sql"

type SQLiteCredentialRepository struct {
	sqlCredentialRepository
}

func NewSQLiteCredentialRepository(db *sql.DB, sealer *Sealer) *SQLiteCredentialRepository {
	return &SQLiteCredentialRepository{
		sqlCredentialRepository{
			db:     db,
			sealer: sealer,
			queries: credentialQueries{
				get: `SELECT user_id, access_token, item_id, updated_at FROM credentials WHERE user_id = ?`,
				upsert: `INSERT INTO credentials (user_id, access_token, item_id, updated_at) VALUES (?, ?, ?, ?)
					ON CONFLICT (user_id) DO UPDATE SET access_token = excluded.access_token, item_id = excluded.item_id, updated_at = excluded.updated_at`,
				delete: `DELETE FROM credentials WHERE user_id = ?`,
			},
		},
	}
}
