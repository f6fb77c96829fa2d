package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"idp-hub/internal/domain"
	"idp-hub/utils/validator"

	"github.com/mitchellh/mapstructure"
)

// Dispatcher runs one command invocation end to end: validate the raw
// arguments, acquire a live admin session, execute the command-specific
// logic, and render the outcome as a response envelope. Every failure mode
// below the dispatcher is caught here; nothing escapes to the transport
// layer.
type Dispatcher struct {
	validator  *validator.Validator
	sessions   *SessionManager
	api        domain.AdminAPI
	resolver   *ResolveClient
	reconciler *ReconcileRoles
	logger     *slog.Logger
}

// NewDispatcher wires the dispatcher with its collaborators.
func NewDispatcher(v *validator.Validator, sessions *SessionManager, api domain.AdminAPI, resolver *ResolveClient, reconciler *ReconcileRoles, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		validator:  v,
		sessions:   sessions,
		api:        api,
		resolver:   resolver,
		reconciler: reconciler,
		logger:     logger,
	}
}

// Dispatch executes the named command against the raw argument object and
// always returns an envelope. A panic in command logic is recovered and
// rendered as an error envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, raw map[string]any) (env domain.Envelope) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			d.logger.ErrorContext(ctx, "panic in command execution", "command", name, "panic", r)
			env = domain.Fail(fmt.Sprintf("Internal error executing '%s'.", name))
		}
		d.logger.InfoContext(ctx, "command dispatched",
			"command", name,
			"succeeded", env.Succeeded,
			"latency_ms", time.Since(start).Milliseconds())
	}()

	message, err := d.execute(ctx, name, raw)
	if err != nil {
		return envelopeForError(err)
	}
	return domain.OK(message)
}

// execute runs the command pipeline: validation, then session acquisition,
// then the command body. Argument validation happens before any upstream
// call, so a malformed or no-op request never touches the provider.
func (d *Dispatcher) execute(ctx context.Context, name string, raw map[string]any) (string, error) {
	run, err := d.prepare(name, raw)
	if err != nil {
		return "", err
	}

	token, err := d.sessions.Ensure(ctx)
	if err != nil {
		return "", err
	}

	return run(ctx, token)
}

// command is the executable body of a validated invocation.
type command func(ctx context.Context, token string) (string, error)

// prepare decodes and validates raw arguments for the named command and
// returns its executable body. All violations are collected before
// reporting.
func (d *Dispatcher) prepare(name string, raw map[string]any) (command, error) {
	switch name {
	case domain.CmdCreateUser:
		var args domain.CreateUserArgs
		if err := d.decode(raw, &args); err != nil {
			return nil, err
		}
		return func(ctx context.Context, token string) (string, error) {
			return d.createUser(ctx, token, args)
		}, nil

	case domain.CmdDeleteUser:
		var args domain.DeleteUserArgs
		if err := d.decode(raw, &args); err != nil {
			return nil, err
		}
		return func(ctx context.Context, token string) (string, error) {
			return d.deleteUser(ctx, token, args)
		}, nil

	case domain.CmdListRealms:
		return d.listRealms, nil

	case domain.CmdListUsers:
		var args domain.ListUsersArgs
		if err := d.decode(raw, &args); err != nil {
			return nil, err
		}
		return func(ctx context.Context, token string) (string, error) {
			return d.listUsers(ctx, token, args)
		}, nil

	case domain.CmdListRoles:
		var args domain.ListRolesArgs
		if err := d.decode(raw, &args); err != nil {
			return nil, err
		}
		return func(ctx context.Context, token string) (string, error) {
			return d.listRoles(ctx, token, args)
		}, nil

	case domain.CmdUpdateUserRoles:
		var args domain.UpdateUserRolesArgs
		if err := d.decode(raw, &args); err != nil {
			return nil, err
		}
		// A role update naming no roles is a no-op request; reject it
		// before the session exchange, not just before the reconciler.
		if len(args.RolesToAdd) == 0 && len(args.RolesToRemove) == 0 {
			reason := "at least one of rolesToAdd or rolesToRemove must be provided"
			return nil, &domain.ValidationError{Violations: map[string]string{
				"rolesToAdd":    reason,
				"rolesToRemove": reason,
			}}
		}
		return func(ctx context.Context, token string) (string, error) {
			return d.updateUserRoles(ctx, token, args)
		}, nil

	case domain.CmdResetUserPassword:
		var args domain.ResetUserPasswordArgs
		if err := d.decode(raw, &args); err != nil {
			return nil, err
		}
		return func(ctx context.Context, token string) (string, error) {
			return d.resetUserPassword(ctx, token, args)
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCommand, name)
	}
}

// decode maps the raw argument object onto a typed struct and validates it.
// Shape mismatches from decoding and declarative violations are both
// reported as *domain.ValidationError.
func (d *Dispatcher) decode(raw map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: out,
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(raw); err != nil {
		return decodeViolations(err)
	}

	return d.validator.Validate(out)
}

// decodeViolations converts mapstructure decode failures into field-level
// violations so shape errors read the same as declarative ones.
func decodeViolations(err error) error {
	var merr *mapstructure.Error
	if !errors.As(err, &merr) {
		return &domain.ValidationError{Violations: map[string]string{"arguments": err.Error()}}
	}

	violations := make(map[string]string, len(merr.Errors))
	for _, msg := range merr.Errors {
		violations[fieldFromDecodeError(msg)] = msg
	}
	return &domain.ValidationError{Violations: violations}
}

// fieldFromDecodeError extracts the quoted field name from a mapstructure
// error message, e.g. "cannot decode 'realm' ..." yields "realm".
func fieldFromDecodeError(msg string) string {
	start := strings.Index(msg, "'")
	if start == -1 {
		return "arguments"
	}
	rest := msg[start+1:]
	end := strings.Index(rest, "'")
	if end == -1 {
		return "arguments"
	}
	return rest[:end]
}

// envelopeForError renders the error taxonomy into a uniform envelope.
func envelopeForError(err error) domain.Envelope {
	var validationErr *domain.ValidationError
	var authErr *domain.AuthenticationError
	var notFoundErr *domain.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		return domain.Fail("Invalid arguments: " + validationErr.Detail())

	case errors.As(err, &authErr):
		return domain.Fail("Authentication with identity provider failed: " + authErr.Cause.Error())

	case errors.As(err, &notFoundErr):
		return domain.Fail(notFoundErr.Error())

	case errors.Is(err, domain.ErrUnknownCommand):
		return domain.Fail(err.Error())

	default:
		return domain.Fail("Command failed: " + err.Error())
	}
}
