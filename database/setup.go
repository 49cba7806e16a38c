package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeremiapane/casino-floor/models"
	"github.com/yeremiapane/casino-floor/utils"
	"github.com/yeremiapane/casino-floor/wizard"
	"gorm.io/gorm"
)

// GetSetupState loads everything the setup wizard needs for the caller's
// casino. Settings is nil when the casino was never configured.
func (s *Store) GetSetupState(ctx context.Context) (wizard.State, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return wizard.State{}, err
	}
	db := s.DB.WithContext(ctx)

	var state wizard.State
	var settings models.CasinoSettings
	err = db.Scopes(tenant(actor.CasinoID)).Take(&settings).Error
	switch {
	case err == nil:
		state.Settings = &settings
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return wizard.State{}, err
	}

	if err := db.Scopes(tenant(actor.CasinoID)).Order("created_at ASC, code ASC").Find(&state.Games).Error; err != nil {
		return wizard.State{}, err
	}
	if err := db.Scopes(tenant(actor.CasinoID)).Order("created_at ASC, label ASC").Find(&state.Tables).Error; err != nil {
		return wizard.State{}, err
	}
	return state, nil
}

// UpdateCasinoSettings writes the casino basics, creating the row on first
// use.
func (s *Store) UpdateCasinoSettings(ctx context.Context, in wizard.SettingsInput) (*models.CasinoSettings, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	var settings models.CasinoSettings
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Scopes(tenant(actor.CasinoID)).Take(&settings).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			settings = models.CasinoSettings{CasinoID: actor.CasinoID, SetupStatus: models.SetupNotStarted}
		}
		settings.Timezone = in.Timezone
		settings.GamingDayStartTime = in.GamingDayStartTime
		settings.TableBankMode = in.TableBankMode
		if settings.SetupStatus == models.SetupNotStarted {
			settings.SetupStatus = models.SetupInProgress
		}
		return tx.Save(&settings).Error
	})
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// SeedGameSettings installs the default variants of each game type. Codes
// already present are left alone, so seeding twice is harmless. It returns
// the full game list of the casino.
func (s *Store) SeedGameSettings(ctx context.Context, gameTypes []string) ([]models.GameSetting, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	var games []models.GameSetting
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, gt := range gameTypes {
			defaults, ok := defaultGames[gt]
			if !ok {
				return utils.NewAppError(utils.CodeValidation, fmt.Sprintf("unknown game type %q", gt))
			}
			for _, d := range defaults {
				var count int64
				if err := tx.Model(&models.GameSetting{}).Scopes(tenant(actor.CasinoID)).
					Where("code = ?", d.Code).Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					continue
				}
				game := d
				game.CasinoID = actor.CasinoID
				game.GameType = gt
				if err := tx.Create(&game).Error; err != nil {
					return err
				}
			}
		}
		return tx.Scopes(tenant(actor.CasinoID)).Order("created_at ASC, code ASC").Find(&games).Error
	})
	if err != nil {
		return nil, err
	}
	return games, nil
}

func applyGameInput(g *models.GameSetting, in wizard.GameInput) {
	g.GameType = in.GameType
	g.Code = in.Code
	g.Name = in.Name
	g.VariantName = in.VariantName
	g.HouseEdge = in.HouseEdge
	g.DecisionsPerHour = in.DecisionsPerHour
	g.SeatsAvailable = in.SeatsAvailable
	g.MinBet = in.MinBet
	g.MaxBet = in.MaxBet
}

func (s *Store) CreateGameSetting(ctx context.Context, in wizard.GameInput) (*models.GameSetting, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	game := models.GameSetting{CasinoID: actor.CasinoID}
	applyGameInput(&game, in)
	if err := s.DB.WithContext(ctx).Create(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Store) UpdateGameSetting(ctx context.Context, id string, in wizard.GameInput) (*models.GameSetting, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	var game models.GameSetting
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(tenant(actor.CasinoID)).Take(&game, "id = ?", id).Error; err != nil {
			return fmt.Errorf("game setting %s: %w", id, err)
		}
		applyGameInput(&game, in)
		return tx.Save(&game).Error
	})
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// DeleteGameSetting removes a variant and unlinks the tables that used it.
func (s *Store) DeleteGameSetting(ctx context.Context, id string) error {
	actor, err := s.actor(ctx)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.GamingTable{}).Scopes(tenant(actor.CasinoID)).
			Where("game_settings_id = ?", id).Update("game_settings_id", nil).Error; err != nil {
			return err
		}
		res := tx.Scopes(tenant(actor.CasinoID)).Delete(&models.GameSetting{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("game setting %s: %w", id, gorm.ErrRecordNotFound)
		}
		return nil
	})
}

// UpsertGamingTable creates a table, or updates it when in.ID is set. A
// variant link must point at a game of the same casino and type.
func (s *Store) UpsertGamingTable(ctx context.Context, in wizard.TableInput) (*models.GamingTable, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	var table models.GamingTable
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.GameSettingsID != nil && *in.GameSettingsID != "" {
			var game models.GameSetting
			if err := tx.Scopes(tenant(actor.CasinoID)).Take(&game, "id = ?", *in.GameSettingsID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return utils.NewAppError(utils.CodeForeignKeyViolation, fmt.Sprintf("game setting %s does not exist", *in.GameSettingsID))
				}
				return err
			}
			if game.GameType != in.GameType {
				return utils.NewAppError(utils.CodeValidation, fmt.Sprintf("game setting %s is %s, table is %s", game.ID, game.GameType, in.GameType))
			}
		}

		if in.ID != "" {
			if err := tx.Scopes(tenant(actor.CasinoID)).Take(&table, "id = ?", in.ID).Error; err != nil {
				return fmt.Errorf("gaming table %s: %w", in.ID, err)
			}
		} else {
			table = models.GamingTable{CasinoID: actor.CasinoID, Status: models.TableActive}
		}

		table.Label = in.Label
		table.Pit = in.Pit
		table.GameType = in.GameType
		table.GameSettingsID = nil
		if in.GameSettingsID != nil && *in.GameSettingsID != "" {
			id := *in.GameSettingsID
			table.GameSettingsID = &id
		}
		if in.Status != "" {
			table.Status = in.Status
		}
		return tx.Save(&table).Error
	})
	if err != nil {
		return nil, err
	}
	return &table, nil
}

// UpdateTableParTarget sets or clears a table's par.
func (s *Store) UpdateTableParTarget(ctx context.Context, in wizard.ParTargetInput) (*models.GamingTable, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	var table models.GamingTable
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(tenant(actor.CasinoID)).Take(&table, "id = ?", in.TableID).Error; err != nil {
			return fmt.Errorf("gaming table %s: %w", in.TableID, err)
		}
		now := s.now()
		staffID := actor.StaffID
		table.ParTotalCents = in.ParTotalCents
		table.ParUpdatedAt = &now
		table.ParUpdatedBy = &staffID
		return tx.Save(&table).Error
	})
	if err != nil {
		return nil, err
	}
	return &table, nil
}

// CompleteSetup marks the casino ready. Completing an already ready casino
// returns the stored row unchanged.
func (s *Store) CompleteSetup(ctx context.Context) (*models.CasinoSettings, error) {
	return s.markReady(ctx, true)
}

// SkipSetup marks the casino ready without the completion stamp.
func (s *Store) SkipSetup(ctx context.Context) (*models.CasinoSettings, error) {
	return s.markReady(ctx, false)
}

func (s *Store) markReady(ctx context.Context, stamp bool) (*models.CasinoSettings, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	var settings models.CasinoSettings
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Scopes(tenant(actor.CasinoID)).Take(&settings).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if stamp {
				return utils.NewAppError(utils.CodePrecondition, "casino settings have not been configured")
			}
			settings = models.CasinoSettings{CasinoID: actor.CasinoID}
		} else if err != nil {
			return err
		}
		if settings.SetupStatus == models.SetupReady {
			return nil
		}

		settings.SetupStatus = models.SetupReady
		if stamp {
			now := s.now()
			staffID := actor.StaffID
			settings.SetupCompletedAt = &now
			settings.SetupCompletedBy = &staffID
		}
		return tx.Save(&settings).Error
	})
	if err != nil {
		return nil, err
	}
	return &settings, nil
}
