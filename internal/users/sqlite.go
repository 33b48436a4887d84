package users

import (
	"database/sql"
	"time"

	"vsftpd-manager/internal/models"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	username TEXT PRIMARY KEY,
	home_dir TEXT NOT NULL,
	quota_mb INTEGER NOT NULL DEFAULT 100,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// MetadataRepository stores the per-user attributes the daemon's flat
// credential file has no room for.
type MetadataRepository struct {
	db *sql.DB
}

func NewMetadata(dbPath string) (*MetadataRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &MetadataRepository{db: db}, nil
}

func (r *MetadataRepository) Put(info models.UserInfo) error {
	createdAt := info.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.Exec(
		`INSERT INTO users (username, home_dir, quota_mb, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(username) DO UPDATE SET home_dir = excluded.home_dir, quota_mb = excluded.quota_mb`,
		info.Username, info.HomeDir, info.QuotaMB, createdAt,
	)
	return err
}

func (r *MetadataRepository) Get(username string) (models.UserInfo, error) {
	var info models.UserInfo
	var createdAt sql.NullTime
	err := r.db.QueryRow(
		"SELECT username, home_dir, quota_mb, created_at FROM users WHERE username = ?",
		username,
	).Scan(&info.Username, &info.HomeDir, &info.QuotaMB, &createdAt)
	if err != nil {
		return models.UserInfo{}, err
	}
	if createdAt.Valid {
		info.CreatedAt = createdAt.Time
	}
	return info, nil
}

func (r *MetadataRepository) Delete(username string) error {
	_, err := r.db.Exec("DELETE FROM users WHERE username = ?", username)
	return err
}

func (r *MetadataRepository) Close() error {
	return r.db.Close()
}
