package postgres

import "time"

type teamTableModel struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Tag       string    `db:"tag"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
