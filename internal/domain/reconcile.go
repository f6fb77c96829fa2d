package domain

import (
	"fmt"
	"strings"
)

// ReconcilePlan is the pure outcome of projecting requested role names
// through one catalog snapshot. Warnings record names skipped because they
// are absent from the catalog; they never represent upstream failures.
type ReconcilePlan struct {
	Add      []RoleDescriptor
	Remove   []RoleDescriptor
	Warnings []string
}

// ReconcileResult reports what a reconciliation actually applied.
type ReconcileResult struct {
	Added    []string
	Removed  []string
	Warnings []string
}

// PlanReconciliation resolves the requested add/remove name sets against a
// single role-catalog snapshot. Both sets are validated against the same
// snapshot; unknown names are dropped and reported as warnings.
func PlanReconciliation(catalog []RoleDescriptor, add, remove []string) ReconcilePlan {
	byName := make(map[string]RoleDescriptor, len(catalog))
	for _, role := range catalog {
		byName[role.Name] = role
	}

	var plan ReconcilePlan

	roles, missing := project(byName, add)
	plan.Add = roles
	if len(missing) > 0 {
		plan.Warnings = append(plan.Warnings,
			fmt.Sprintf("roles to add not found: %s", strings.Join(missing, ", ")))
	}

	roles, missing = project(byName, remove)
	plan.Remove = roles
	if len(missing) > 0 {
		plan.Warnings = append(plan.Warnings,
			fmt.Sprintf("roles to remove not found: %s", strings.Join(missing, ", ")))
	}

	return plan
}

// project maps requested names through the catalog, splitting them into
// resolved descriptors and missing names. Order follows the request.
func project(byName map[string]RoleDescriptor, names []string) ([]RoleDescriptor, []string) {
	var roles []RoleDescriptor
	var missing []string
	for _, name := range names {
		if role, ok := byName[name]; ok {
			roles = append(roles, role)
		} else {
			missing = append(missing, name)
		}
	}
	return roles, missing
}

// Names extracts the role names from a descriptor slice.
func Names(roles []RoleDescriptor) []string {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = role.Name
	}
	return names
}
