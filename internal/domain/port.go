package domain

import "context"

// Authenticator exchanges admin credentials for an access token at the
// provider's token endpoint.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
}

// ClientDirectory looks up clients registered within a realm.
type ClientDirectory interface {
	// FindClientByID treats id as a canonical id. A failed or empty lookup
	// is not terminal; callers fall back to ListClients.
	FindClientByID(ctx context.Context, token, realm, id string) (*ClientRecord, error)
	ListClients(ctx context.Context, token, realm string) ([]ClientRecord, error)
}

// RoleStore reads a client's role catalog and applies batched grant and
// revoke calls for a user.
type RoleStore interface {
	ListClientRoles(ctx context.Context, token, realm, clientID string) ([]RoleDescriptor, error)
	GrantClientRoles(ctx context.Context, token, realm, userID, clientID string, roles []RoleDescriptor) error
	RevokeClientRoles(ctx context.Context, token, realm, userID, clientID string, roles []RoleDescriptor) error
}

// AdminAPI is the full surface this service consumes from the identity
// provider's administrative API.
type AdminAPI interface {
	Authenticator
	ClientDirectory
	RoleStore

	CreateUser(ctx context.Context, token, realm string, user NewUser) (string, error)
	DeleteUser(ctx context.Context, token, realm, userID string) error
	ListRealms(ctx context.Context, token string) ([]string, error)
	ListUsers(ctx context.Context, token, realm string) ([]UserSummary, error)
	SetUserPassword(ctx context.Context, token, realm, userID, password string, temporary bool) error
}

// NewUser carries the fields for user creation.
type NewUser struct {
	Username      string
	Email         string
	FirstName     string
	LastName      string
	Enabled       bool
	EmailVerified bool
	Credentials   []Credential
}

// Credential is a user credential supplied at creation time.
type Credential struct {
	Type      string
	Value     string
	Temporary bool
}

// UserSummary is the (username, id) projection returned by list-users.
type UserSummary struct {
	ID       string
	Username string
}

// ClientRecord is a read-only projection of a registered client.
// ID is the opaque canonical id; ClientID is the human-readable handle,
// unique within a realm.
type ClientRecord struct {
	ID       string
	ClientID string
}

// RoleDescriptor is a role within a client's catalog. Names are unique
// within one client.
type RoleDescriptor struct {
	ID   string
	Name string
}
