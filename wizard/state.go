// Package wizard implements the casino onboarding flow: per-step
// validation rules, the resume-step calculator and the orchestrator that
// sequences the steps against the setup server actions.
package wizard

import "github.com/yeremiapane/casino-floor/models"

// Wizard steps
const (
	StepCasinoBasics = iota
	StepGameSettings
	StepTables
	StepParTargets
	StepReview

	TotalSteps
)

// State is the in-memory snapshot the wizard works on. It is rehydrated
// from the server on load and discarded on completion.
type State struct {
	Settings *models.CasinoSettings `json:"settings"`
	Games    []models.GameSetting   `json:"games"`
	Tables   []models.GamingTable   `json:"tables"`
}

// Clone returns a copy whose slices can be modified independently.
func (s State) Clone() State {
	out := State{
		Games:  append([]models.GameSetting(nil), s.Games...),
		Tables: append([]models.GamingTable(nil), s.Tables...),
	}
	if s.Settings != nil {
		settings := *s.Settings
		out.Settings = &settings
	}
	return out
}

// StepName returns a short label for a step index.
func StepName(step int) string {
	switch step {
	case StepCasinoBasics:
		return "casino_basics"
	case StepGameSettings:
		return "game_settings"
	case StepTables:
		return "tables"
	case StepParTargets:
		return "par_targets"
	case StepReview:
		return "review"
	}
	return "unknown"
}
