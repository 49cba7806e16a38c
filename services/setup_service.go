package services

import (
	"context"

	"github.com/yeremiapane/casino-floor/database"
	"github.com/yeremiapane/casino-floor/models"
	"github.com/yeremiapane/casino-floor/utils"
	"github.com/yeremiapane/casino-floor/wizard"
)

// SetupService exposes the setup procedures as server actions. Inputs are
// checked before the store is touched and every failure comes back as an
// error envelope.
type SetupService struct {
	store *database.Store
}

var _ wizard.SetupActions = (*SetupService)(nil)

func NewSetupService(store *database.Store) *SetupService {
	return &SetupService{store: store}
}

// run performs the shared action steps: input schema, capability, call,
// envelope.
func run[T any](ctx context.Context, capability string, input any, call func() (T, error)) utils.Envelope[T] {
	if input != nil {
		if err := wizard.ValidateInput(input); err != nil {
			return utils.FailureFrom[T](ctx, err)
		}
	}
	if _, err := Authorize(ctx, capability); err != nil {
		return utils.FailureFrom[T](ctx, err)
	}
	data, err := call()
	if err != nil {
		return utils.FailureFrom[T](ctx, err)
	}
	return utils.Success(ctx, data)
}

func (s *SetupService) GetSetupState(ctx context.Context) utils.Envelope[wizard.State] {
	return run(ctx, CapSetup, nil, func() (wizard.State, error) {
		return s.store.GetSetupState(ctx)
	})
}

func (s *SetupService) UpdateCasinoSettings(ctx context.Context, in wizard.SettingsInput) utils.Envelope[*models.CasinoSettings] {
	return run(ctx, CapSetup, in, func() (*models.CasinoSettings, error) {
		return s.store.UpdateCasinoSettings(ctx, in)
	})
}

func (s *SetupService) SeedGameSettings(ctx context.Context, in wizard.SeedGamesInput) utils.Envelope[[]models.GameSetting] {
	return run(ctx, CapSetup, in, func() ([]models.GameSetting, error) {
		return s.store.SeedGameSettings(ctx, in.GameTypes)
	})
}

func (s *SetupService) CreateGameSetting(ctx context.Context, in wizard.GameInput) utils.Envelope[*models.GameSetting] {
	return run(ctx, CapSetup, in, func() (*models.GameSetting, error) {
		return s.store.CreateGameSetting(ctx, in)
	})
}

func (s *SetupService) UpdateGameSetting(ctx context.Context, id string, in wizard.GameInput) utils.Envelope[*models.GameSetting] {
	return run(ctx, CapSetup, in, func() (*models.GameSetting, error) {
		return s.store.UpdateGameSetting(ctx, id, in)
	})
}

func (s *SetupService) DeleteGameSetting(ctx context.Context, id string) utils.Envelope[string] {
	return run(ctx, CapSetup, nil, func() (string, error) {
		if err := s.store.DeleteGameSetting(ctx, id); err != nil {
			return "", err
		}
		return id, nil
	})
}

func (s *SetupService) UpsertGamingTable(ctx context.Context, in wizard.TableInput) utils.Envelope[*models.GamingTable] {
	return run(ctx, CapSetup, in, func() (*models.GamingTable, error) {
		return s.store.UpsertGamingTable(ctx, in)
	})
}

func (s *SetupService) UpdateTableParTarget(ctx context.Context, in wizard.ParTargetInput) utils.Envelope[*models.GamingTable] {
	return run(ctx, CapSetup, in, func() (*models.GamingTable, error) {
		table, err := s.store.UpdateTableParTarget(ctx, in)
		if err == nil && table.ParTotalCents != nil {
			utils.InfoLogger.Infof("Par for table %s set to %s", table.Label, utils.FormatCents(*table.ParTotalCents))
		}
		return table, err
	})
}

func (s *SetupService) CompleteSetup(ctx context.Context) utils.Envelope[*models.CasinoSettings] {
	return run(ctx, CapSetup, nil, func() (*models.CasinoSettings, error) {
		settings, err := s.store.CompleteSetup(ctx)
		if err == nil {
			utils.InfoLogger.Infof("Setup completed for casino %s", settings.CasinoID)
		}
		return settings, err
	})
}

func (s *SetupService) SkipSetup(ctx context.Context) utils.Envelope[*models.CasinoSettings] {
	return run(ctx, CapSetup, nil, func() (*models.CasinoSettings, error) {
		settings, err := s.store.SkipSetup(ctx)
		if err == nil {
			utils.InfoLogger.Infof("Setup skipped for casino %s", settings.CasinoID)
		}
		return settings, err
	})
}
