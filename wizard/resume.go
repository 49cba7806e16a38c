package wizard

import "github.com/yeremiapane/casino-floor/models"

// ComputeResumeStep picks the entry step from persisted counts alone.
// Par targets are optional, so a casino with games and tables resumes at
// the par step rather than the review.
func ComputeResumeStep(settings *models.CasinoSettings, gameCount, tableCount int) int {
	switch {
	case settings == nil || blank(settings.Timezone) || blank(settings.TableBankMode):
		return StepCasinoBasics
	case gameCount == 0:
		return StepGameSettings
	case tableCount == 0:
		return StepTables
	default:
		return StepParTargets
	}
}

// ComputeClientResumeStep rewinds serverStep to the first earlier step
// whose content fails validation, e.g. duplicate table labels. Applying
// it to its own output returns the same step.
func ComputeClientResumeStep(serverStep int, state State) int {
	if serverStep >= TotalSteps {
		serverStep = TotalSteps - 1
	}
	for step := 0; step < serverStep; step++ {
		if !ValidateStep(step, state).Valid {
			return step
		}
	}
	if serverStep < 0 {
		return 0
	}
	return serverStep
}

// ResumeStep combines both passes for a freshly loaded state.
func ResumeStep(state State) int {
	server := ComputeResumeStep(state.Settings, len(state.Games), len(state.Tables))
	return ComputeClientResumeStep(server, state)
}
