package usecase

import (
	"context"
	"log/slog"

	"idp-hub/internal/domain"
)

// ResolveClient turns an ambiguous client identifier into exactly one
// canonical client record. Callers legitimately supply either the opaque
// canonical id or the human-readable handle; the provider's direct-lookup
// endpoint only accepts the former reliably, hence the two-step fallback.
type ResolveClient struct {
	directory domain.ClientDirectory
	logger    *slog.Logger
}

// NewResolveClient creates a client resolver.
func NewResolveClient(directory domain.ClientDirectory, logger *slog.Logger) *ResolveClient {
	return &ResolveClient{directory: directory, logger: logger}
}

// Execute resolves identifier within realm. It first attempts a direct
// lookup treating identifier as a canonical id; if that errors or returns
// nothing it lists the realm's clients and scans for an exact,
// case-sensitive match on handle or canonical id. Handles are unique per
// realm, so the first match wins. Returns *domain.NotFoundError when
// nothing matches.
func (uc *ResolveClient) Execute(ctx context.Context, token, realm, identifier string) (*domain.ClientRecord, error) {
	record, err := uc.directory.FindClientByID(ctx, token, realm, identifier)
	if err == nil && record != nil {
		return record, nil
	}
	if err != nil {
		uc.logger.DebugContext(ctx, "direct client lookup missed, scanning realm",
			"realm", realm, "identifier", identifier, "error", err)
	}

	clients, err := uc.directory.ListClients(ctx, token, realm)
	if err != nil {
		return nil, err
	}

	for i := range clients {
		if clients[i].ClientID == identifier || clients[i].ID == identifier {
			return &clients[i], nil
		}
	}

	return nil, &domain.NotFoundError{Kind: "Client", Identifier: identifier, Realm: realm}
}
