package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berth-dev/elicit/internal/testutil"
)

func TestExportFilename(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)

	tests := []struct {
		name      string
		projectID string
		at        time.Time
		want      string
	}{
		{
			name:      "utc",
			projectID: "p1",
			at:        time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC),
			want:      "requirements_p1_2026-10-14.txt",
		},
		{
			name:      "numeric id",
			projectID: "42",
			at:        time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
			want:      "requirements_42_2025-01-02.txt",
		},
		{
			name:      "local evening rolls to next utc day",
			projectID: "p1",
			at:        time.Date(2026, 10, 14, 21, 0, 0, 0, est),
			want:      "requirements_p1_2026-10-15.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExportFilename(tt.projectID, tt.at))
		})
	}
}

func TestExporterSavesDocument(t *testing.T) {
	fake := testutil.NewFakeAssistant()
	fake.SetDocument("SRS body")
	saver := testutil.NewMemorySaver()
	at := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	ex := NewExporter(fake, saver, func() time.Time { return at })

	path, err := ex.Export(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "mem://requirements_p1_2026-10-14.txt", path)
	assert.Equal(t, "SRS body", string(saver.Files["requirements_p1_2026-10-14.txt"]))
}

func TestExporterFailures(t *testing.T) {
	t.Run("fetch", func(t *testing.T) {
		fake := testutil.NewFakeAssistant()
		fake.FailExport(testutil.ErrFake)
		saver := testutil.NewMemorySaver()

		_, err := NewExporter(fake, saver, nil).Export(context.Background(), "p1")
		require.ErrorIs(t, err, testutil.ErrFake)
		assert.Empty(t, saver.Names(), "no file on fetch failure")
	})

	t.Run("save", func(t *testing.T) {
		fake := testutil.NewFakeAssistant()
		fake.SetDocument("doc")
		saver := testutil.NewMemorySaver()
		saver.Err = errors.New("disk full")

		_, err := NewExporter(fake, saver, nil).Export(context.Background(), "p1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("no saver", func(t *testing.T) {
		fake := testutil.NewFakeAssistant()
		_, err := NewExporter(fake, nil, nil).Export(context.Background(), "p1")
		require.ErrorIs(t, err, ErrNoSaver)
		assert.Zero(t, fake.ExportCalls())
	})
}
