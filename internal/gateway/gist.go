package gateway

import (
	"context"
	"net/http"
	"sort"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/github-stats-box/internal/domain"
	apperrors "github.com/naka-gawa/github-stats-box/internal/errors"
	"github.com/naka-gawa/github-stats-box/internal/logger"
)

// DocumentStore reads and writes the gists reports are published to.
type DocumentStore interface {
	ReadDocument(ctx context.Context, id string) (*domain.Document, error)
	// WriteDocument replaces fileName's content. A non-empty newFileName renames the file.
	WriteDocument(ctx context.Context, id, fileName, content, newFileName string) error
}

// GistStore is the DocumentStore backed by the GitHub gists API.
type GistStore struct {
	client *github.Client
	logger *logger.Logger
}

// NewGistStore creates a GistStore using the shared authenticated client.
func NewGistStore(httpClient *http.Client, logger *logger.Logger) *GistStore {
	return &GistStore{client: github.NewClient(httpClient), logger: logger}
}

// ReadDocument fetches a gist. Files are returned sorted by name since the API
// response is a JSON object with no defined order.
func (s *GistStore) ReadDocument(ctx context.Context, id string) (*domain.Document, error) {
	gist, _, err := s.client.Gists.Get(ctx, id)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeTransport, "failed to read gist %s", id)
	}

	files := make([]domain.DocumentFile, 0, len(gist.Files))
	for name, file := range gist.Files {
		files = append(files, domain.DocumentFile{Name: string(name), Content: file.GetContent()})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return &domain.Document{ID: id, Files: files}, nil
}

// WriteDocument patches a single file of a gist.
func (s *GistStore) WriteDocument(ctx context.Context, id, fileName, content, newFileName string) error {
	file := github.GistFile{Content: github.String(content)}
	if newFileName != "" {
		file.Filename = github.String(newFileName)
	}
	patch := &github.Gist{
		Files: map[github.GistFilename]github.GistFile{
			github.GistFilename(fileName): file,
		},
	}
	if _, _, err := s.client.Gists.Edit(ctx, id, patch); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeTransport, "failed to edit gist %s", id)
	}
	s.logger.Debugf("Patched gist %s file %q", id, fileName)
	return nil
}
