package team

import "fmt"

// Team owns a roster and a match history.
type Team struct {
	ID   string
	Name string
	Tag  string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	return nil
}
