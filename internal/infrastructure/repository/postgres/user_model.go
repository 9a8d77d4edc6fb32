package postgres

import "time"

type userTableModel struct {
	ID           int64     `db:"id"`
	PublicID     string    `db:"public_id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsFirstTime  bool      `db:"is_first_time"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type userInsertModel struct {
	PublicID     string    `db:"public_id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsFirstTime  bool      `db:"is_first_time"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
