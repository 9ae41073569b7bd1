package session

import (
	"context"
	"fmt"
	"time"
)

// DocumentFetcher fetches the rendered requirements document for a project.
type DocumentFetcher interface {
	Export(ctx context.Context, projectID string) (string, error)
}

// Saver hands an exported document to the host. It returns where the
// document ended up. A failed Save must not leave a partial file behind.
type Saver interface {
	Save(name string, content []byte) (string, error)
}

// ExportFilename is the deterministic download name for a project export.
func ExportFilename(projectID string, at time.Time) string {
	return fmt.Sprintf("requirements_%s_%s.txt", projectID, at.UTC().Format(time.DateOnly))
}

// Exporter fetches a document snapshot and passes it to a Saver. It never
// touches the message log or summary.
type Exporter struct {
	docs  DocumentFetcher
	saver Saver
	now   func() time.Time
}

// NewExporter creates an Exporter. A nil now uses time.Now.
func NewExporter(docs DocumentFetcher, saver Saver, now func() time.Time) *Exporter {
	if now == nil {
		now = time.Now
	}
	return &Exporter{docs: docs, saver: saver, now: now}
}

// Export fetches and saves the document, returning the saved location.
// The filename date is taken when Export is called.
func (e *Exporter) Export(ctx context.Context, projectID string) (string, error) {
	if e.saver == nil {
		return "", ErrNoSaver
	}
	name := ExportFilename(projectID, e.now())

	doc, err := e.docs.Export(ctx, projectID)
	if err != nil {
		return "", fmt.Errorf("fetch export: %w", err)
	}

	path, err := e.saver.Save(name, []byte(doc))
	if err != nil {
		return "", fmt.Errorf("save export: %w", err)
	}
	return path, nil
}
