package usecase

import (
	"context"

	"github.com/naka-gawa/github-stats-box/internal/domain"
	apperrors "github.com/naka-gawa/github-stats-box/internal/errors"
	"github.com/naka-gawa/github-stats-box/internal/gateway"
	"github.com/naka-gawa/github-stats-box/internal/logger"
)

// SyncResult tells whether a sync wrote to the gist.
type SyncResult int

const (
	SyncSkipped SyncResult = iota
	SyncUnchanged
	SyncUpdated
)

func (r SyncResult) String() string {
	switch r {
	case SyncUnchanged:
		return "unchanged"
	case SyncUpdated:
		return "updated"
	default:
		return "skipped"
	}
}

// SyncRequest describes one report to publish.
type SyncRequest struct {
	DocumentID string
	// FileName selects the gist file by exact name. Empty applies the default rule in SelectFile.
	FileName string
	Content  string
	// NewFileName renames the file on write when set.
	NewFileName string
}

// SyncGate writes a report to its gist only when the stored content differs.
type SyncGate struct {
	store  gateway.DocumentStore
	logger *logger.Logger
}

// NewSyncGate creates a new SyncGate instance.
func NewSyncGate(store gateway.DocumentStore, logger *logger.Logger) *SyncGate {
	return &SyncGate{store: store, logger: logger}
}

// Sync reads the gist, compares the selected file byte for byte and writes at most once.
// An empty report is never written: the gists API rejects blank content or deletes the file.
func (g *SyncGate) Sync(ctx context.Context, req SyncRequest) (SyncResult, error) {
	if req.Content == "" {
		g.logger.With("gist", req.DocumentID).Warn("Report is empty; leaving the gist untouched")
		return SyncSkipped, nil
	}

	doc, err := g.store.ReadDocument(ctx, req.DocumentID)
	if err != nil {
		return SyncSkipped, err
	}
	remote, err := g.SelectFile(doc, req.FileName)
	if err != nil {
		return SyncSkipped, err
	}

	log := g.logger.With("gist", remote.ID).With("file", remote.SelectedFileName)
	if remote.StoredContent == req.Content {
		log.Info("Nothing to update")
		return SyncUnchanged, nil
	}

	if err := g.store.WriteDocument(ctx, remote.ID, remote.SelectedFileName, req.Content, req.NewFileName); err != nil {
		return SyncSkipped, err
	}
	log.Infof("Updated gist with the following content:\n%s", req.Content)
	return SyncUpdated, nil
}

// SelectFile picks the gist file a report is compared against:
//   - the file named fileName when it is set;
//   - otherwise the only file;
//   - otherwise the file whose name sorts first.
//
// A gist without files, or without the named file, is a parse error.
func (g *SyncGate) SelectFile(doc *domain.Document, fileName string) (domain.RemoteDocument, error) {
	if len(doc.Files) == 0 {
		return domain.RemoteDocument{}, apperrors.Parse("gist %s has no files", doc.ID)
	}

	if fileName != "" {
		for _, f := range doc.Files {
			if f.Name == fileName {
				return remoteDocument(doc.ID, f), nil
			}
		}
		return domain.RemoteDocument{}, apperrors.Parse("gist %s has no file named %q", doc.ID, fileName)
	}

	selected := doc.Files[0]
	for _, f := range doc.Files[1:] {
		if f.Name < selected.Name {
			selected = f
		}
	}
	if len(doc.Files) > 1 {
		g.logger.Warnf("Gist %s has %d files; using %q. Set a file name to choose another.", doc.ID, len(doc.Files), selected.Name)
	}
	return remoteDocument(doc.ID, selected), nil
}

func remoteDocument(id string, f domain.DocumentFile) domain.RemoteDocument {
	return domain.RemoteDocument{ID: id, SelectedFileName: f.Name, StoredContent: f.Content}
}
