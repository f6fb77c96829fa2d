package usecase

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"idp-hub/internal/domain"
	"idp-hub/utils/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAdminAPI implements domain.AdminAPI in memory, recording every
// upstream call so tests can assert what the dispatcher touched.
type fakeAdminAPI struct {
	authErr     error
	createdID   string
	createErr   error
	createdUser domain.NewUser
	deleteErr   error
	realms      []string
	users       []domain.UserSummary
	clients     []domain.ClientRecord
	directMiss  bool
	roles       []domain.RoleDescriptor
	grantErr    error
	passwordErr error

	calls []string
}

func (f *fakeAdminAPI) record(name string) {
	f.calls = append(f.calls, name)
}

func (f *fakeAdminAPI) upstreamCalls() int {
	count := 0
	for _, call := range f.calls {
		if call != "authenticate" {
			count++
		}
	}
	return count
}

func (f *fakeAdminAPI) Authenticate(_ context.Context, _, _ string) (string, error) {
	f.record("authenticate")
	if f.authErr != nil {
		return "", f.authErr
	}
	return "token-" + uuid.NewString(), nil
}

func (f *fakeAdminAPI) CreateUser(_ context.Context, _, _ string, user domain.NewUser) (string, error) {
	f.record("createUser")
	if f.createErr != nil {
		return "", f.createErr
	}
	f.createdUser = user
	return f.createdID, nil
}

func (f *fakeAdminAPI) DeleteUser(_ context.Context, _, _, _ string) error {
	f.record("deleteUser")
	return f.deleteErr
}

func (f *fakeAdminAPI) ListRealms(_ context.Context, _ string) ([]string, error) {
	f.record("listRealms")
	return f.realms, nil
}

func (f *fakeAdminAPI) ListUsers(_ context.Context, _, _ string) ([]domain.UserSummary, error) {
	f.record("listUsers")
	return f.users, nil
}

func (f *fakeAdminAPI) FindClientByID(_ context.Context, _, _, id string) (*domain.ClientRecord, error) {
	f.record("findClientByID")
	if f.directMiss {
		return nil, errors.New("404 not found")
	}
	for i := range f.clients {
		if f.clients[i].ID == id {
			return &f.clients[i], nil
		}
	}
	return nil, errors.New("404 not found")
}

func (f *fakeAdminAPI) ListClients(_ context.Context, _, _ string) ([]domain.ClientRecord, error) {
	f.record("listClients")
	return f.clients, nil
}

func (f *fakeAdminAPI) ListClientRoles(_ context.Context, _, _, _ string) ([]domain.RoleDescriptor, error) {
	f.record("listClientRoles")
	return f.roles, nil
}

func (f *fakeAdminAPI) GrantClientRoles(_ context.Context, _, _, _, _ string, _ []domain.RoleDescriptor) error {
	f.record("grantClientRoles")
	return f.grantErr
}

func (f *fakeAdminAPI) RevokeClientRoles(_ context.Context, _, _, _, _ string, _ []domain.RoleDescriptor) error {
	f.record("revokeClientRoles")
	return nil
}

func (f *fakeAdminAPI) SetUserPassword(_ context.Context, _, _, _, _ string, _ bool) error {
	f.record("setUserPassword")
	return f.passwordErr
}

func newTestDispatcher(api *fakeAdminAPI) *Dispatcher {
	logger := slog.Default()
	sessions := NewSessionManager(api, "admin", "secret", 5*time.Minute, logger)
	resolver := NewResolveClient(api, logger)
	reconciler := NewReconcileRoles(api, logger)
	return NewDispatcher(validator.New(), sessions, api, resolver, reconciler, logger)
}

func TestDispatch_MissingRequiredFields(t *testing.T) {
	// For every command, dropping any single required field must produce an
	// error envelope naming that field.
	completeArgs := map[string]map[string]any{
		domain.CmdCreateUser: {
			"realm":     "demo",
			"username":  "alice",
			"email":     "a@x.com",
			"firstName": "A",
			"lastName":  "L",
		},
		domain.CmdDeleteUser: {
			"realm":  "demo",
			"userId": "u1",
		},
		domain.CmdListUsers: {
			"realm": "demo",
		},
		domain.CmdListRoles: {
			"realm":    "demo",
			"clientId": "app",
		},
		domain.CmdUpdateUserRoles: {
			"realm":      "demo",
			"userId":     "u1",
			"clientId":   "app",
			"rolesToAdd": []any{"admin"},
		},
		domain.CmdResetUserPassword: {
			"realm":    "demo",
			"userId":   "u1",
			"password": "hunter2!",
		},
	}
	// rolesToAdd is conditionally required; dropping it is covered by the
	// no-op rejection test below.
	conditional := map[string]bool{"rolesToAdd": true}

	for command, args := range completeArgs {
		for missing := range args {
			if conditional[missing] {
				continue
			}
			t.Run(command+"/without_"+missing, func(t *testing.T) {
				api := &fakeAdminAPI{}
				d := newTestDispatcher(api)

				partial := map[string]any{}
				for k, v := range args {
					if k != missing {
						partial[k] = v
					}
				}

				env := d.Dispatch(context.Background(), command, partial)

				assert.True(t, env.IsError)
				assert.False(t, env.Succeeded)
				assert.Contains(t, env.Message, missing)
				assert.Empty(t, api.calls, "no upstream call on validation failure")
			})
		}
	}
}

func TestDispatch_ValidationCollectsAllViolations(t *testing.T) {
	api := &fakeAdminAPI{}
	d := newTestDispatcher(api)

	env := d.Dispatch(context.Background(), domain.CmdCreateUser, map[string]any{
		"email": "not-an-email",
	})

	assert.True(t, env.IsError)
	assert.Contains(t, env.Message, "realm")
	assert.Contains(t, env.Message, "username")
	assert.Contains(t, env.Message, "firstName")
	assert.Contains(t, env.Message, "lastName")
	assert.Contains(t, env.Message, "email must be a valid email address")
}

func TestDispatch_WrongShapeField(t *testing.T) {
	api := &fakeAdminAPI{}
	d := newTestDispatcher(api)

	env := d.Dispatch(context.Background(), domain.CmdDeleteUser, map[string]any{
		"realm":  "demo",
		"userId": 42,
	})

	assert.True(t, env.IsError)
	assert.Contains(t, env.Message, "userId")
	assert.Empty(t, api.calls)
}

func TestDispatch_UpdateUserRolesNoOpRejectedBeforeUpstream(t *testing.T) {
	cases := map[string]map[string]any{
		"both_absent": {
			"realm":    "demo",
			"userId":   "u1",
			"clientId": "app",
		},
		"both_empty": {
			"realm":         "demo",
			"userId":        "u1",
			"clientId":      "app",
			"rolesToAdd":    []any{},
			"rolesToRemove": []any{},
		},
	}

	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			api := &fakeAdminAPI{}
			d := newTestDispatcher(api)

			env := d.Dispatch(context.Background(), domain.CmdUpdateUserRoles, args)

			assert.True(t, env.IsError)
			assert.Contains(t, env.Message, "rolesToAdd")
			assert.Contains(t, env.Message, "rolesToRemove")
			assert.Empty(t, api.calls, "no upstream call, not even the credential exchange")
		})
	}
}

func TestDispatch_UnknownCommand(t *testing.T) {
	api := &fakeAdminAPI{}
	d := newTestDispatcher(api)

	env := d.Dispatch(context.Background(), "frobnicate", map[string]any{})

	assert.True(t, env.IsError)
	assert.Contains(t, env.Message, "unknown command")
	assert.Contains(t, env.Message, "frobnicate")
	assert.Empty(t, api.calls)
}

func TestDispatch_AuthenticationFailure(t *testing.T) {
	api := &fakeAdminAPI{authErr: errors.New("invalid_grant: bad credentials")}
	d := newTestDispatcher(api)

	env := d.Dispatch(context.Background(), domain.CmdListRealms, map[string]any{})

	assert.True(t, env.IsError)
	assert.Contains(t, env.Message, "Authentication with identity provider failed")
	assert.Contains(t, env.Message, "invalid_grant")
	assert.Equal(t, 0, api.upstreamCalls())

	// The process keeps serving: a later invocation retries the exchange.
	api.authErr = nil
	api.realms = []string{"master"}
	env = d.Dispatch(context.Background(), domain.CmdListRealms, map[string]any{})
	assert.True(t, env.Succeeded)
}

func TestDispatch_SessionReusedAcrossCommands(t *testing.T) {
	api := &fakeAdminAPI{realms: []string{"master", "demo"}}
	d := newTestDispatcher(api)

	d.Dispatch(context.Background(), domain.CmdListRealms, map[string]any{})
	d.Dispatch(context.Background(), domain.CmdListRealms, map[string]any{})

	exchanges := 0
	for _, call := range api.calls {
		if call == "authenticate" {
			exchanges++
		}
	}
	assert.Equal(t, 1, exchanges, "two commands within the window share one exchange")
}

func TestDispatch_CreateUserScenario(t *testing.T) {
	generated := uuid.NewString()
	api := &fakeAdminAPI{createdID: generated}
	d := newTestDispatcher(api)

	env := d.Dispatch(context.Background(), domain.CmdCreateUser, map[string]any{
		"realm":     "demo",
		"username":  "alice",
		"email":     "a@x.com",
		"firstName": "A",
		"lastName":  "L",
	})

	assert.False(t, env.IsError)
	assert.True(t, env.Succeeded)
	assert.Contains(t, env.Message, generated)
	assert.Contains(t, env.Message, "alice")
}

func TestDispatch_ListRolesClientNotFoundScenario(t *testing.T) {
	api := &fakeAdminAPI{
		directMiss: true,
		clients:    []domain.ClientRecord{{ID: "abc-123", ClientID: "app"}},
	}
	d := newTestDispatcher(api)

	env := d.Dispatch(context.Background(), domain.CmdListRoles, map[string]any{
		"realm":    "demo",
		"clientId": "unknown-id",
	})

	assert.True(t, env.IsError)
	assert.Equal(t, "Client 'unknown-id' not found in realm 'demo'.", env.Message)
}

func TestDispatch_UpdateUserRolesPartialSuccessScenario(t *testing.T) {
	api := &fakeAdminAPI{
		clients: []domain.ClientRecord{{ID: "client-id-1", ClientID: "app"}},
		roles:   []domain.RoleDescriptor{{ID: "r1", Name: "admin"}},
	}
	d := newTestDispatcher(api)

	env := d.Dispatch(context.Background(), domain.CmdUpdateUserRoles, map[string]any{
		"realm":      "demo",
		"userId":     "u1",
		"clientId":   "app",
		"rolesToAdd": []any{"admin", "ghost"},
	})

	require.True(t, env.Succeeded)
	assert.Contains(t, env.Message, "Added: admin")
	assert.Contains(t, env.Message, "roles to add not found")
	assert.Contains(t, env.Message, "ghost")
}

func TestDispatch_ListRolesByHandle(t *testing.T) {
	api := &fakeAdminAPI{
		directMiss: true,
		clients:    []domain.ClientRecord{{ID: "abc-123", ClientID: "app"}},
		roles:      []domain.RoleDescriptor{{ID: "r1", Name: "admin"}, {ID: "r2", Name: "viewer"}},
	}
	d := newTestDispatcher(api)

	env := d.Dispatch(context.Background(), domain.CmdListRoles, map[string]any{
		"realm":    "demo",
		"clientId": "app",
	})

	require.True(t, env.Succeeded)
	assert.Contains(t, env.Message, "admin")
	assert.Contains(t, env.Message, "viewer")
}

func TestDispatch_ListUsers(t *testing.T) {
	api := &fakeAdminAPI{
		users: []domain.UserSummary{
			{ID: "u1", Username: "alice"},
			{ID: "u2", Username: "bob"},
		},
	}
	d := newTestDispatcher(api)

	env := d.Dispatch(context.Background(), domain.CmdListUsers, map[string]any{"realm": "demo"})

	require.True(t, env.Succeeded)
	assert.Contains(t, env.Message, "alice (u1)")
	assert.Contains(t, env.Message, "bob (u2)")
}

func TestDispatch_DeleteUser(t *testing.T) {
	api := &fakeAdminAPI{}
	d := newTestDispatcher(api)

	env := d.Dispatch(context.Background(), domain.CmdDeleteUser, map[string]any{
		"realm":  "demo",
		"userId": "u1",
	})

	require.True(t, env.Succeeded)
	assert.Contains(t, env.Message, "deleted")
	assert.Contains(t, env.Message, "u1")
}

func TestDispatch_ResetUserPassword(t *testing.T) {
	api := &fakeAdminAPI{}
	d := newTestDispatcher(api)

	env := d.Dispatch(context.Background(), domain.CmdResetUserPassword, map[string]any{
		"realm":     "demo",
		"userId":    "u1",
		"password":  "hunter2!",
		"temporary": true,
	})

	require.True(t, env.Succeeded)
	assert.Contains(t, env.Message, "Password change on next login is required.")
}

func TestDispatch_UpstreamFailureRenderedAsEnvelope(t *testing.T) {
	api := &fakeAdminAPI{createErr: errors.New("409 user exists")}
	d := newTestDispatcher(api)

	env := d.Dispatch(context.Background(), domain.CmdCreateUser, map[string]any{
		"realm":     "demo",
		"username":  "alice",
		"email":     "a@x.com",
		"firstName": "A",
		"lastName":  "L",
	})

	assert.True(t, env.IsError)
	assert.Contains(t, env.Message, "409 user exists")
}

func TestDispatch_CreateUserDefaultsEnabled(t *testing.T) {
	api := &fakeAdminAPI{createdID: "id-1"}
	d := newTestDispatcher(api)

	env := d.Dispatch(context.Background(), domain.CmdCreateUser, map[string]any{
		"realm":     "demo",
		"username":  "alice",
		"email":     "a@x.com",
		"firstName": "A",
		"lastName":  "L",
		"credentials": []any{
			map[string]any{"type": "password", "value": "hunter2!", "temporary": true},
		},
	})

	require.True(t, env.Succeeded)
	assert.True(t, api.createdUser.Enabled, "enabled defaults to true when absent")
	require.Len(t, api.createdUser.Credentials, 1)
	assert.Equal(t, "password", api.createdUser.Credentials[0].Type)
	assert.True(t, api.createdUser.Credentials[0].Temporary)
}
