package postgres

import "time"

type matchTableModel struct {
	ID        string    `db:"id"`
	TeamID    string    `db:"team_id"`
	MatchDate time.Time `db:"match_date"`
	Winner    string    `db:"winner"`
	MatchType string    `db:"match_type"`
	Notes     string    `db:"notes"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type matchSideTableModel struct {
	MatchID   string `db:"match_id"`
	SideIndex int    `db:"side_index"`
	Color     string `db:"color"`
	Name      string `db:"name"`
	Picks1    []byte `db:"picks_phase1"`
	Picks2    []byte `db:"picks_phase2"`
	Bans1     []byte `db:"bans_phase1"`
	Bans2     []byte `db:"bans_phase2"`
}
