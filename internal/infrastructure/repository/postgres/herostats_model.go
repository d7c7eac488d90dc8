package postgres

type outcomeTableModel struct {
	ID       string `db:"id"`
	PlayerID string `db:"player_id"`
	MatchID  string `db:"match_id"`
	TeamID   string `db:"team_id"`
	Hero     string `db:"hero"`
	Lane     string `db:"lane"`
	Win      bool   `db:"win"`
}

type matchupTableModel struct {
	ID        string `db:"id"`
	PlayerID  string `db:"player_id"`
	MatchID   string `db:"match_id"`
	TeamID    string `db:"team_id"`
	Hero      string `db:"hero"`
	EnemyHero string `db:"enemy_hero"`
	Lane      string `db:"lane"`
	Win       bool   `db:"win"`
}
