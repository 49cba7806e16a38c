package wizard

import (
	"errors"
	"fmt"
	"strings"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/yeremiapane/casino-floor/utils"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type SettingsInput struct {
	Timezone           string `json:"timezone" validate:"required,timezone"`
	GamingDayStartTime string `json:"gamingDayStartTime" validate:"required,datetime=15:04"`
	TableBankMode      string `json:"tableBankMode" validate:"required,oneof=INVENTORY_COUNT IMPREST_TO_PAR"`
}

type SeedGamesInput struct {
	GameTypes []string `json:"gameTypes" validate:"required,min=1,dive,oneof=blackjack poker roulette baccarat pai_gow carnival"`
}

type GameInput struct {
	GameType         string  `json:"gameType" validate:"required,oneof=blackjack poker roulette baccarat pai_gow carnival"`
	Code             string  `json:"code" validate:"required,max=50"`
	Name             string  `json:"name" validate:"required,max=100"`
	VariantName      string  `json:"variantName" validate:"max=100"`
	HouseEdge        float64 `json:"houseEdge" validate:"gte=0,lte=100"`
	DecisionsPerHour int     `json:"decisionsPerHour" validate:"gte=0"`
	SeatsAvailable   int     `json:"seatsAvailable" validate:"gte=0,lte=20"`
	MinBet           *int64  `json:"minBet" validate:"omitempty,gte=0"`
	MaxBet           *int64  `json:"maxBet" validate:"omitempty,gte=0"`
}

// TableInput creates a table, or updates it when ID is set.
type TableInput struct {
	ID             string  `json:"id" validate:"omitempty,uuid"`
	Label          string  `json:"label" validate:"required,max=50"`
	Pit            string  `json:"pit" validate:"max=50"`
	GameType       string  `json:"gameType" validate:"required,oneof=blackjack poker roulette baccarat pai_gow carnival"`
	GameSettingsID *string `json:"gameSettingsId" validate:"omitempty,uuid"`
	Status         string  `json:"status" validate:"omitempty,oneof=active inactive closed"`
}

// ParTargetInput sets a table's par; a nil amount clears it.
type ParTargetInput struct {
	TableID       string `json:"tableId" validate:"required,uuid"`
	ParTotalCents *int64 `json:"parTotalCents" validate:"omitempty,gte=0"`
}

// ValidateInput checks an input schema and returns a VALIDATION_ERROR
// AppError describing the first failing fields.
func ValidateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return utils.NewAppError(utils.CodeValidation, err.Error())
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return utils.NewAppError(utils.CodeValidation, "invalid input: "+strings.Join(msgs, "; "))
}
