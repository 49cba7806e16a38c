package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/casino-floor/models"
)

func TestComputeResumeStep(t *testing.T) {
	noBankMode := completeSettings()
	noBankMode.TableBankMode = ""

	cases := []struct {
		name     string
		settings *models.CasinoSettings
		games    int
		tables   int
		want     int
	}{
		{"nothing configured", nil, 3, 3, StepCasinoBasics},
		{"bank mode missing", noBankMode, 3, 3, StepCasinoBasics},
		{"no games", completeSettings(), 0, 0, StepGameSettings},
		{"no tables", completeSettings(), 2, 0, StepTables},
		{"everything present", completeSettings(), 2, 4, StepParTargets},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComputeResumeStep(tc.settings, tc.games, tc.tables))
		})
	}
}

func TestClientResumeRewindsToFailingStep(t *testing.T) {
	state := State{
		Settings: completeSettings(),
		Games:    []models.GameSetting{{ID: "g1", GameType: models.GameBaccarat}},
		Tables: []models.GamingTable{
			{Label: "BAC-1", GameType: models.GameBaccarat, GameSettingsID: ptr("g1")},
			{Label: "bac-1", GameType: models.GameBaccarat, GameSettingsID: ptr("g1")},
		},
	}
	server := ComputeResumeStep(state.Settings, len(state.Games), len(state.Tables))
	assert.Equal(t, StepParTargets, server)
	assert.Equal(t, StepTables, ComputeClientResumeStep(server, state))
}

func TestClientResumeIsIdempotent(t *testing.T) {
	states := []State{
		{},
		{Settings: completeSettings()},
		{Settings: completeSettings(), Games: []models.GameSetting{{GameType: models.GamePoker}}},
		{
			Settings: completeSettings(),
			Games:    []models.GameSetting{{GameType: models.GamePoker}, {GameType: models.GamePoker}},
			Tables:   []models.GamingTable{{Label: "P1", GameType: models.GamePoker}},
		},
	}
	for _, state := range states {
		for server := 0; server < TotalSteps; server++ {
			once := ComputeClientResumeStep(server, state)
			twice := ComputeClientResumeStep(once, state)
			assert.Equal(t, once, twice)
		}
	}
}

func TestClientResumeClampsOutOfRange(t *testing.T) {
	assert.Equal(t, 0, ComputeClientResumeStep(-3, State{}))
	full := State{
		Settings: completeSettings(),
		Games:    []models.GameSetting{{GameType: models.GamePoker}},
		Tables:   []models.GamingTable{{Label: "P1", GameType: models.GamePoker}},
	}
	assert.Equal(t, TotalSteps-1, ComputeClientResumeStep(99, full))
}
