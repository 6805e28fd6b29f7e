package usecase

import (
	"context"
	"time"

	"github.com/naka-gawa/github-stats-box/internal/domain"
	"github.com/stretchr/testify/mock"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the behavior of the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchViewerProfile(ctx context.Context) (*domain.ViewerProfile, error) {
	args := m.Called(ctx)
	// The returned profile is nil when an error is simulated.
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ViewerProfile), args.Error(1)
}

func (m *mockFetcher) FetchTotalCommitCount(ctx context.Context, login string) (int, error) {
	args := m.Called(ctx, login)
	return args.Int(0), args.Error(1)
}

func (m *mockFetcher) FetchPublicDiskUsage(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockFetcher) FetchRecentHistory(ctx context.Context, since time.Time) ([]domain.RepositoryHistory, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RepositoryHistory), args.Error(1)
}

func (m *mockFetcher) FetchCommitFiles(ctx context.Context, ref domain.CommitRef) ([]domain.FileDelta, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FileDelta), args.Error(1)
}

// mockStore is a mock implementation of gateway.DocumentStore.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) ReadDocument(ctx context.Context, id string) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *mockStore) WriteDocument(ctx context.Context, id, fileName, content, newFileName string) error {
	args := m.Called(ctx, id, fileName, content, newFileName)
	return args.Error(0)
}
