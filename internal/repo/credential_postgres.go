package repo

import "database/sql"

type PostgresCredentialRepository struct {
	sqlCredentialRepository
}

func NewPostgresCredentialRepository(db *sql.DB, sealer *Sealer) *PostgresCredentialRepository {
	return &PostgresCredentialRepository{
		sqlCredentialRepository{
			db:     db,
			sealer: sealer,
			queries: credentialQueries{
				get: `SELECT user_id, access_token, item_id, updated_at FROM credentials WHERE user_id = $1`,
				upsert: `INSERT INTO credentials (user_id, access_token, item_id, updated_at) VALUES ($1, $2, $3, $4)
					ON CONFLICT (user_id) DO UPDATE SET access_token = EXCLUDED.access_token, item_id = EXCLUDED.item_id, updated_at = EXCLUDED.updated_at`,
				delete: `DELETE FROM credentials WHERE user_id = $1`,
			},
		},
	}
}
