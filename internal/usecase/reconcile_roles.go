package usecase

import (
	"context"
	"log/slog"

	"idp-hub/internal/domain"
)

// ReconcileRoles applies a requested set of role additions and removals for
// a user against one client's role catalog. The planning is pure
// (domain.PlanReconciliation); this usecase fetches the catalog snapshot
// and issues the batched grant/revoke calls.
type ReconcileRoles struct {
	roles  domain.RoleStore
	logger *slog.Logger
}

// NewReconcileRoles creates a role reconciler.
func NewReconcileRoles(roles domain.RoleStore, logger *slog.Logger) *ReconcileRoles {
	return &ReconcileRoles{roles: roles, logger: logger}
}

// Execute fetches the client's role catalog once and validates both the add
// and remove sets against that same snapshot. Unknown names are skipped and
// reported as warnings. The grant call runs before the revoke call; if the
// grant fails the revoke is not attempted and the error propagates — an
// upstream failure is never folded into warnings.
func (uc *ReconcileRoles) Execute(ctx context.Context, token, realm, userID string, client *domain.ClientRecord, add, remove []string) (*domain.ReconcileResult, error) {
	catalog, err := uc.roles.ListClientRoles(ctx, token, realm, client.ID)
	if err != nil {
		return nil, err
	}

	plan := domain.PlanReconciliation(catalog, add, remove)

	if len(plan.Add) > 0 {
		if err := uc.roles.GrantClientRoles(ctx, token, realm, userID, client.ID, plan.Add); err != nil {
			return nil, err
		}
	}

	if len(plan.Remove) > 0 {
		if err := uc.roles.RevokeClientRoles(ctx, token, realm, userID, client.ID, plan.Remove); err != nil {
			return nil, err
		}
	}

	result := &domain.ReconcileResult{
		Added:    domain.Names(plan.Add),
		Removed:  domain.Names(plan.Remove),
		Warnings: plan.Warnings,
	}

	uc.logger.InfoContext(ctx, "roles reconciled",
		"realm", realm,
		"user_id", userID,
		"client_id", client.ID,
		"added", len(result.Added),
		"removed", len(result.Removed),
		"warnings", len(result.Warnings))

	return result, nil
}
