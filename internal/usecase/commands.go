package usecase

import (
	"context"
	"fmt"
	"strings"

	"idp-hub/internal/domain"
)

func (d *Dispatcher) createUser(ctx context.Context, token string, args domain.CreateUserArgs) (string, error) {
	user := domain.NewUser{
		Username:  args.Username,
		Email:     args.Email,
		FirstName: args.FirstName,
		LastName:  args.LastName,
		Enabled:   true,
	}
	if args.Enabled != nil {
		user.Enabled = *args.Enabled
	}
	if args.EmailVerified != nil {
		user.EmailVerified = *args.EmailVerified
	}
	for _, cred := range args.Credentials {
		user.Credentials = append(user.Credentials, domain.Credential{
			Type:      cred.Type,
			Value:     cred.Value,
			Temporary: cred.Temporary,
		})
	}

	id, err := d.api.CreateUser(ctx, token, args.Realm, user)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("User '%s' created in realm '%s' with ID: %s", args.Username, args.Realm, id), nil
}

func (d *Dispatcher) deleteUser(ctx context.Context, token string, args domain.DeleteUserArgs) (string, error) {
	if err := d.api.DeleteUser(ctx, token, args.Realm, args.UserID); err != nil {
		return "", err
	}
	return fmt.Sprintf("User '%s' deleted from realm '%s'.", args.UserID, args.Realm), nil
}

func (d *Dispatcher) listRealms(ctx context.Context, token string) (string, error) {
	realms, err := d.api.ListRealms(ctx, token)
	if err != nil {
		return "", err
	}
	if len(realms) == 0 {
		return "No realms found.", nil
	}

	var b strings.Builder
	b.WriteString("Realms:")
	for _, realm := range realms {
		b.WriteString("\n- ")
		b.WriteString(realm)
	}
	return b.String(), nil
}

func (d *Dispatcher) listUsers(ctx context.Context, token string, args domain.ListUsersArgs) (string, error) {
	users, err := d.api.ListUsers(ctx, token, args.Realm)
	if err != nil {
		return "", err
	}
	if len(users) == 0 {
		return fmt.Sprintf("No users found in realm '%s'.", args.Realm), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Users in realm '%s':", args.Realm)
	for _, user := range users {
		fmt.Fprintf(&b, "\n- %s (%s)", user.Username, user.ID)
	}
	return b.String(), nil
}

func (d *Dispatcher) listRoles(ctx context.Context, token string, args domain.ListRolesArgs) (string, error) {
	client, err := d.resolver.Execute(ctx, token, args.Realm, args.ClientID)
	if err != nil {
		return "", err
	}

	roles, err := d.api.ListClientRoles(ctx, token, args.Realm, client.ID)
	if err != nil {
		return "", err
	}
	if len(roles) == 0 {
		return fmt.Sprintf("No roles found for client '%s' in realm '%s'.", client.ClientID, args.Realm), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Roles for client '%s' in realm '%s':", client.ClientID, args.Realm)
	for _, role := range roles {
		b.WriteString("\n- ")
		b.WriteString(role.Name)
	}
	return b.String(), nil
}

func (d *Dispatcher) updateUserRoles(ctx context.Context, token string, args domain.UpdateUserRolesArgs) (string, error) {
	client, err := d.resolver.Execute(ctx, token, args.Realm, args.ClientID)
	if err != nil {
		return "", err
	}

	result, err := d.reconciler.Execute(ctx, token, args.Realm, args.UserID, client, args.RolesToAdd, args.RolesToRemove)
	if err != nil {
		return "", err
	}

	lines := []string{
		fmt.Sprintf("Updated roles for user '%s' on client '%s'.", args.UserID, client.ClientID),
	}
	if len(result.Added) > 0 {
		lines = append(lines, "Added: "+strings.Join(result.Added, ", "))
	}
	if len(result.Removed) > 0 {
		lines = append(lines, "Removed: "+strings.Join(result.Removed, ", "))
	}
	if len(result.Warnings) > 0 {
		lines = append(lines, "Warnings: "+strings.Join(result.Warnings, "; "))
	}
	return strings.Join(lines, "\n"), nil
}

func (d *Dispatcher) resetUserPassword(ctx context.Context, token string, args domain.ResetUserPasswordArgs) (string, error) {
	if err := d.api.SetUserPassword(ctx, token, args.Realm, args.UserID, args.Password, args.Temporary); err != nil {
		return "", err
	}

	note := "Password change on next login is not required."
	if args.Temporary {
		note = "Password change on next login is required."
	}
	return fmt.Sprintf("Password reset for user '%s' in realm '%s'. %s", args.UserID, args.Realm, note), nil
}
