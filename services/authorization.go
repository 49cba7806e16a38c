package services

import (
	"context"
	"fmt"

	"github.com/yeremiapane/casino-floor/models"
	"github.com/yeremiapane/casino-floor/utils"
)

// Capabilities
const (
	CapSetup             = "setup"
	CapTableSessionWrite = "table_session.write"
	CapFloorRead         = "floor.read"
)

var capabilityRoles = map[string][]string{
	CapSetup:             {models.RoleAdmin},
	CapTableSessionWrite: {models.RoleAdmin, models.RolePitBoss},
	CapFloorRead:         {models.RoleAdmin, models.RolePitBoss, models.RoleDealer, models.RoleCashier, models.RoleCompliance},
}

// Authorize returns the actor bound to ctx when its role grants capability.
func Authorize(ctx context.Context, capability string) (utils.Actor, error) {
	actor, ok := utils.ActorFrom(ctx)
	if !ok {
		return utils.Actor{}, utils.NewAppError(utils.CodeUnauthorized, "authentication required")
	}
	for _, role := range capabilityRoles[capability] {
		if actor.Role == role {
			return actor, nil
		}
	}
	return utils.Actor{}, utils.NewAppError(utils.CodeForbidden, fmt.Sprintf("role %s lacks %s", actor.Role, capability))
}

// Allowed reports whether a role grants capability.
func Allowed(role, capability string) bool {
	for _, r := range capabilityRoles[capability] {
		if r == role {
			return true
		}
	}
	return false
}
