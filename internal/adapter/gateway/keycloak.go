package gateway

import (
	"context"
	"fmt"
	"time"

	"idp-hub/internal/domain"

	"github.com/Nerzal/gocloak/v13"
)

// loginRealm is the realm the administrator authenticates against. The SDK
// uses the fixed admin-cli client for this exchange.
const loginRealm = "master"

// KeycloakGateway implements domain.AdminAPI on top of the gocloak SDK.
type KeycloakGateway struct {
	client *gocloak.GoCloak
}

// NewKeycloakGateway creates a Keycloak gateway with a bounded per-call
// timeout so a stalled upstream call cannot stall a command indefinitely.
func NewKeycloakGateway(baseURL string, timeout time.Duration) *KeycloakGateway {
	client := gocloak.NewClient(baseURL)
	client.RestyClient().SetTimeout(timeout)
	return &KeycloakGateway{client: client}
}

// Authenticate exchanges the administrator credentials for an access token.
func (g *KeycloakGateway) Authenticate(ctx context.Context, username, password string) (string, error) {
	jwt, err := g.client.LoginAdmin(ctx, username, password, loginRealm)
	if err != nil {
		return "", fmt.Errorf("admin login: %w", err)
	}
	return jwt.AccessToken, nil
}

// CreateUser creates a user and returns its canonical id.
func (g *KeycloakGateway) CreateUser(ctx context.Context, token, realm string, user domain.NewUser) (string, error) {
	representation := gocloak.User{
		Username:      gocloak.StringP(user.Username),
		Email:         gocloak.StringP(user.Email),
		FirstName:     gocloak.StringP(user.FirstName),
		LastName:      gocloak.StringP(user.LastName),
		Enabled:       gocloak.BoolP(user.Enabled),
		EmailVerified: gocloak.BoolP(user.EmailVerified),
	}

	if len(user.Credentials) > 0 {
		credentials := make([]gocloak.CredentialRepresentation, 0, len(user.Credentials))
		for _, cred := range user.Credentials {
			credentials = append(credentials, gocloak.CredentialRepresentation{
				Type:      gocloak.StringP(cred.Type),
				Value:     gocloak.StringP(cred.Value),
				Temporary: gocloak.BoolP(cred.Temporary),
			})
		}
		representation.Credentials = &credentials
	}

	id, err := g.client.CreateUser(ctx, token, realm, representation)
	if err != nil {
		return "", &domain.UpstreamError{Op: "create user", Cause: err}
	}
	return id, nil
}

// DeleteUser deletes a user by canonical id.
func (g *KeycloakGateway) DeleteUser(ctx context.Context, token, realm, userID string) error {
	if err := g.client.DeleteUser(ctx, token, realm, userID); err != nil {
		return &domain.UpstreamError{Op: "delete user", Cause: err}
	}
	return nil
}

// ListRealms returns all realm names visible to the admin session.
func (g *KeycloakGateway) ListRealms(ctx context.Context, token string) ([]string, error) {
	realms, err := g.client.GetRealms(ctx, token)
	if err != nil {
		return nil, &domain.UpstreamError{Op: "list realms", Cause: err}
	}

	names := make([]string, 0, len(realms))
	for _, realm := range realms {
		if realm.Realm != nil {
			names = append(names, *realm.Realm)
		}
	}
	return names, nil
}

// ListUsers returns the (username, id) projection of a realm's users.
func (g *KeycloakGateway) ListUsers(ctx context.Context, token, realm string) ([]domain.UserSummary, error) {
	users, err := g.client.GetUsers(ctx, token, realm, gocloak.GetUsersParams{})
	if err != nil {
		return nil, &domain.UpstreamError{Op: "list users", Cause: err}
	}

	summaries := make([]domain.UserSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, domain.UserSummary{
			ID:       gocloak.PString(user.ID),
			Username: gocloak.PString(user.Username),
		})
	}
	return summaries, nil
}

// FindClientByID looks up a client by canonical id. Errors are returned
// as-is; the resolver treats any failure as a miss and falls back to a scan.
func (g *KeycloakGateway) FindClientByID(ctx context.Context, token, realm, id string) (*domain.ClientRecord, error) {
	client, err := g.client.GetClient(ctx, token, realm, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}
	return &domain.ClientRecord{
		ID:       gocloak.PString(client.ID),
		ClientID: gocloak.PString(client.ClientID),
	}, nil
}

// ListClients returns all clients registered in a realm.
func (g *KeycloakGateway) ListClients(ctx context.Context, token, realm string) ([]domain.ClientRecord, error) {
	clients, err := g.client.GetClients(ctx, token, realm, gocloak.GetClientsParams{})
	if err != nil {
		return nil, &domain.UpstreamError{Op: "list clients", Cause: err}
	}

	records := make([]domain.ClientRecord, 0, len(clients))
	for _, client := range clients {
		records = append(records, domain.ClientRecord{
			ID:       gocloak.PString(client.ID),
			ClientID: gocloak.PString(client.ClientID),
		})
	}
	return records, nil
}

// ListClientRoles returns the role catalog of one client.
func (g *KeycloakGateway) ListClientRoles(ctx context.Context, token, realm, clientID string) ([]domain.RoleDescriptor, error) {
	roles, err := g.client.GetClientRoles(ctx, token, realm, clientID, gocloak.GetRoleParams{})
	if err != nil {
		return nil, &domain.UpstreamError{Op: "list client roles", Cause: err}
	}

	descriptors := make([]domain.RoleDescriptor, 0, len(roles))
	for _, role := range roles {
		descriptors = append(descriptors, domain.RoleDescriptor{
			ID:   gocloak.PString(role.ID),
			Name: gocloak.PString(role.Name),
		})
	}
	return descriptors, nil
}

// GrantClientRoles issues one batched role-grant call.
func (g *KeycloakGateway) GrantClientRoles(ctx context.Context, token, realm, userID, clientID string, roles []domain.RoleDescriptor) error {
	if err := g.client.AddClientRolesToUser(ctx, token, realm, clientID, userID, toGocloakRoles(roles)); err != nil {
		return &domain.UpstreamError{Op: "grant client roles", Cause: err}
	}
	return nil
}

// RevokeClientRoles issues one batched role-revoke call.
func (g *KeycloakGateway) RevokeClientRoles(ctx context.Context, token, realm, userID, clientID string, roles []domain.RoleDescriptor) error {
	if err := g.client.DeleteClientRolesFromUser(ctx, token, realm, clientID, userID, toGocloakRoles(roles)); err != nil {
		return &domain.UpstreamError{Op: "revoke client roles", Cause: err}
	}
	return nil
}

// SetUserPassword sets a new password credential for a user.
func (g *KeycloakGateway) SetUserPassword(ctx context.Context, token, realm, userID, password string, temporary bool) error {
	if err := g.client.SetPassword(ctx, token, userID, realm, password, temporary); err != nil {
		return &domain.UpstreamError{Op: "set user password", Cause: err}
	}
	return nil
}

func toGocloakRoles(roles []domain.RoleDescriptor) []gocloak.Role {
	converted := make([]gocloak.Role, 0, len(roles))
	for _, role := range roles {
		converted = append(converted, gocloak.Role{
			ID:   gocloak.StringP(role.ID),
			Name: gocloak.StringP(role.Name),
		})
	}
	return converted
}
