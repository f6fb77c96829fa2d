package domain

// Command names accepted by the dispatcher.
const (
	CmdCreateUser        = "create-user"
	CmdDeleteUser        = "delete-user"
	CmdListRealms        = "list-realms"
	CmdListUsers         = "list-users"
	CmdListRoles         = "list-roles"
	CmdUpdateUserRoles   = "update-user-roles"
	CmdResetUserPassword = "reset-user-password"
)

// Envelope is the uniform per-command response. It is constructed exactly
// once per invocation and never mutated after being returned.
type Envelope struct {
	Succeeded bool   `json:"succeeded"`
	Message   string `json:"message"`
	IsError   bool   `json:"isError,omitempty"`
}

// OK builds a success envelope.
func OK(message string) Envelope {
	return Envelope{Succeeded: true, Message: message}
}

// Fail builds an error envelope.
func Fail(message string) Envelope {
	return Envelope{Message: message, IsError: true}
}

// CreateUserArgs are the arguments for create-user.
type CreateUserArgs struct {
	Realm         string           `json:"realm" mapstructure:"realm" validate:"required"`
	Username      string           `json:"username" mapstructure:"username" validate:"required"`
	Email         string           `json:"email" mapstructure:"email" validate:"required,email"`
	FirstName     string           `json:"firstName" mapstructure:"firstName" validate:"required"`
	LastName      string           `json:"lastName" mapstructure:"lastName" validate:"required"`
	Enabled       *bool            `json:"enabled" mapstructure:"enabled"`
	EmailVerified *bool            `json:"emailVerified" mapstructure:"emailVerified"`
	Credentials   []CredentialArgs `json:"credentials" mapstructure:"credentials" validate:"omitempty,dive"`
}

// CredentialArgs is one entry of the optional credentials list.
type CredentialArgs struct {
	Type      string `json:"type" mapstructure:"type" validate:"required"`
	Value     string `json:"value" mapstructure:"value" validate:"required"`
	Temporary bool   `json:"temporary" mapstructure:"temporary"`
}

// DeleteUserArgs are the arguments for delete-user.
type DeleteUserArgs struct {
	Realm  string `json:"realm" mapstructure:"realm" validate:"required"`
	UserID string `json:"userId" mapstructure:"userId" validate:"required"`
}

// ListRealmsArgs are the arguments for list-realms. None are required.
type ListRealmsArgs struct{}

// ListUsersArgs are the arguments for list-users.
type ListUsersArgs struct {
	Realm string `json:"realm" mapstructure:"realm" validate:"required"`
}

// ListRolesArgs are the arguments for list-roles. ClientID may be either
// the canonical id or the human-readable handle.
type ListRolesArgs struct {
	Realm    string `json:"realm" mapstructure:"realm" validate:"required"`
	ClientID string `json:"clientId" mapstructure:"clientId" validate:"required"`
}

// UpdateUserRolesArgs are the arguments for update-user-roles. At least one
// of RolesToAdd / RolesToRemove must be non-empty; the dispatcher enforces
// this before any upstream call (an explicitly empty list and an absent one
// are treated alike).
type UpdateUserRolesArgs struct {
	Realm         string   `json:"realm" mapstructure:"realm" validate:"required"`
	UserID        string   `json:"userId" mapstructure:"userId" validate:"required"`
	ClientID      string   `json:"clientId" mapstructure:"clientId" validate:"required"`
	RolesToAdd    []string `json:"rolesToAdd" mapstructure:"rolesToAdd"`
	RolesToRemove []string `json:"rolesToRemove" mapstructure:"rolesToRemove"`
}

// ResetUserPasswordArgs are the arguments for reset-user-password.
type ResetUserPasswordArgs struct {
	Realm     string `json:"realm" mapstructure:"realm" validate:"required"`
	UserID    string `json:"userId" mapstructure:"userId" validate:"required"`
	Password  string `json:"password" mapstructure:"password" validate:"required"`
	Temporary bool   `json:"temporary" mapstructure:"temporary"`
}

// FieldSpec documents one argument field for the discovery endpoint.
type FieldSpec struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// CommandDescriptor documents one command: its name and the shape of its
// arguments. The catalog mirrors the validation tags on the typed argument
// structs; it exists so callers can discover the surface without trying
// commands blind.
type CommandDescriptor struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Required    []FieldSpec `json:"required"`
	Optional    []FieldSpec `json:"optional,omitempty"`
}

// Commands returns the descriptor catalog for all supported commands, in
// stable order.
func Commands() []CommandDescriptor {
	realm := FieldSpec{Name: "realm", Type: "string", Description: "target realm"}
	userID := FieldSpec{Name: "userId", Type: "string", Description: "canonical user id"}
	clientID := FieldSpec{Name: "clientId", Type: "string", Description: "client canonical id or handle"}

	return []CommandDescriptor{
		{
			Name:        CmdCreateUser,
			Description: "Create a new user in a realm",
			Required: []FieldSpec{
				realm,
				{Name: "username", Type: "string"},
				{Name: "email", Type: "string", Description: "must be a well-formed email address"},
				{Name: "firstName", Type: "string"},
				{Name: "lastName", Type: "string"},
			},
			Optional: []FieldSpec{
				{Name: "enabled", Type: "boolean", Description: "defaults to true"},
				{Name: "emailVerified", Type: "boolean"},
				{Name: "credentials", Type: "list", Description: "list of {type, value, temporary}"},
			},
		},
		{
			Name:        CmdDeleteUser,
			Description: "Delete a user from a realm",
			Required:    []FieldSpec{realm, userID},
		},
		{
			Name:        CmdListRealms,
			Description: "List all realm names",
		},
		{
			Name:        CmdListUsers,
			Description: "List users in a realm",
			Required:    []FieldSpec{realm},
		},
		{
			Name:        CmdListRoles,
			Description: "List role names for a client",
			Required:    []FieldSpec{realm, clientID},
		},
		{
			Name:        CmdUpdateUserRoles,
			Description: "Add and/or remove client roles for a user",
			Required:    []FieldSpec{realm, userID, clientID},
			Optional: []FieldSpec{
				{Name: "rolesToAdd", Type: "list", Description: "role names to grant; at least one of rolesToAdd/rolesToRemove is required"},
				{Name: "rolesToRemove", Type: "list", Description: "role names to revoke; at least one of rolesToAdd/rolesToRemove is required"},
			},
		},
		{
			Name:        CmdResetUserPassword,
			Description: "Set a new password for a user",
			Required:    []FieldSpec{realm, userID, {Name: "password", Type: "string"}},
			Optional: []FieldSpec{
				{Name: "temporary", Type: "boolean", Description: "require a password change on next login; defaults to false"},
			},
		},
	}
}
