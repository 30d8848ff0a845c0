package team

import "fmt"

// Team is a club known to the local store. Teams are identified by
// exact name when feed records are reconciled, so Name is unique.
type Team struct {
	ID      string
	Name    string
	Short   string
	LogoURL string
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
