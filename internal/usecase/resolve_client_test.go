package usecase

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"idp-hub/internal/domain"

	"github.com/stretchr/testify/assert"
)

// fakeDirectory implements domain.ClientDirectory for testing.
type fakeDirectory struct {
	direct     *domain.ClientRecord
	directErr  error
	clients    []domain.ClientRecord
	listErr    error
	listCalled bool
}

func (f *fakeDirectory) FindClientByID(_ context.Context, _, _, _ string) (*domain.ClientRecord, error) {
	return f.direct, f.directErr
}

func (f *fakeDirectory) ListClients(_ context.Context, _, _ string) ([]domain.ClientRecord, error) {
	f.listCalled = true
	return f.clients, f.listErr
}

func TestResolveClient_DirectLookupHit(t *testing.T) {
	directory := &fakeDirectory{
		direct: &domain.ClientRecord{ID: "abc-123", ClientID: "app"},
	}
	uc := NewResolveClient(directory, slog.Default())

	record, err := uc.Execute(context.Background(), "token", "demo", "abc-123")

	assert.NoError(t, err)
	assert.Equal(t, "abc-123", record.ID)
	assert.False(t, directory.listCalled, "direct hit must not list all clients")
}

func TestResolveClient_FallbackByHandle(t *testing.T) {
	directory := &fakeDirectory{
		directErr: errors.New("404 not found"),
		clients: []domain.ClientRecord{
			{ID: "abc-123", ClientID: "app"},
			{ID: "def-456", ClientID: "other"},
		},
	}
	uc := NewResolveClient(directory, slog.Default())

	record, err := uc.Execute(context.Background(), "token", "demo", "app")

	assert.NoError(t, err)
	assert.Equal(t, "abc-123", record.ID)
	assert.True(t, directory.listCalled)
}

func TestResolveClient_FallbackByCanonicalID(t *testing.T) {
	directory := &fakeDirectory{
		directErr: errors.New("400 bad request"),
		clients: []domain.ClientRecord{
			{ID: "abc-123", ClientID: "app"},
		},
	}
	uc := NewResolveClient(directory, slog.Default())

	record, err := uc.Execute(context.Background(), "token", "demo", "abc-123")

	assert.NoError(t, err)
	assert.Equal(t, "app", record.ClientID)
}

func TestResolveClient_MatchIsCaseSensitive(t *testing.T) {
	directory := &fakeDirectory{
		directErr: errors.New("404 not found"),
		clients: []domain.ClientRecord{
			{ID: "abc-123", ClientID: "App"},
		},
	}
	uc := NewResolveClient(directory, slog.Default())

	_, err := uc.Execute(context.Background(), "token", "demo", "app")

	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestResolveClient_NotFound(t *testing.T) {
	directory := &fakeDirectory{
		directErr: errors.New("404 not found"),
		clients: []domain.ClientRecord{
			{ID: "abc-123", ClientID: "app"},
		},
	}
	uc := NewResolveClient(directory, slog.Default())

	_, err := uc.Execute(context.Background(), "token", "demo", "unknown-id")

	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Client 'unknown-id' not found in realm 'demo'.", notFound.Error())
}

func TestResolveClient_ListFailurePropagates(t *testing.T) {
	listErr := errors.New("permission denied")
	directory := &fakeDirectory{
		directErr: errors.New("404 not found"),
		listErr:   listErr,
	}
	uc := NewResolveClient(directory, slog.Default())

	_, err := uc.Execute(context.Background(), "token", "demo", "app")

	assert.ErrorIs(t, err, listErr)
}

func TestResolveClient_DirectLookupReturnsNothing(t *testing.T) {
	// A nil record without an error also falls through to the scan.
	directory := &fakeDirectory{
		clients: []domain.ClientRecord{
			{ID: "abc-123", ClientID: "app"},
		},
	}
	uc := NewResolveClient(directory, slog.Default())

	record, err := uc.Execute(context.Background(), "token", "demo", "app")

	assert.NoError(t, err)
	assert.Equal(t, "abc-123", record.ID)
	assert.True(t, directory.listCalled)
}
