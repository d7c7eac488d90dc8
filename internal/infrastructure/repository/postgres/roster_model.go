package postgres

import (
	"database/sql"
	"time"
)

type playerTableModel struct {
	ID              string         `db:"id"`
	TeamID          string         `db:"team_id"`
	Name            string         `db:"name"`
	Role            string         `db:"role"`
	IsSubstitute    bool           `db:"is_substitute"`
	PrimaryPlayerID sql.NullString `db:"primary_player_id"`
	SubstituteOrder int            `db:"substitute_order"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}
