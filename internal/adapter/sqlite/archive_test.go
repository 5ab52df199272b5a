package sqlite_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/recon-data-etl/internal/adapter/sqlite"
	"github.com/couchcryptid/recon-data-etl/internal/domain"
)

const sampleEarl = `000
URNT15 KNHC 051406
AF308 1006A EARL HDOB 09 20220905
181830 2006N 06141W 9236 00794 0115 +201 +173 123041 041 021 002 00
181900 2004N 06140W 9236 00792 0114 +200 +171 124040 042 /// /// 03
$$`

const sampleKay = `000
URPN12 KNHC 051208
AF309 0112E KAY HDOB 12 20220905
120200 1712N 10605W 8512 01456 0042 +162 +129 193034 036 028 005 00
$$`

func openTestArchive(t *testing.T) *sqlite.Archive {
	t.Helper()

	path := filepath.Join(t.TempDir(), "archive.db")
	a, err := sqlite.Open(path, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func decodeSample(t *testing.T, text string) domain.DecodedMessage {
	t.Helper()

	msg, err := domain.ParseRawMessage(domain.RawMessage{Value: []byte(text)})
	require.NoError(t, err)
	return domain.EnrichMessage(msg)
}

func TestArchive_StoreAndList(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2022, time.September, 5, 14, 30, 0, 0, time.UTC))
	domain.SetClock(fake)
	t.Cleanup(func() { domain.SetClock(nil) })

	a := openTestArchive(t)
	ctx := context.Background()

	earl := decodeSample(t, sampleEarl)
	require.NoError(t, a.StoreMessage(ctx, earl))

	fake.Advance(time.Minute)
	kay := decodeSample(t, sampleKay)
	require.NoError(t, a.StoreMessage(ctx, kay))

	summaries, err := a.RecentMessages(ctx, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// most recently processed first
	assert.Equal(t, kay.ID, summaries[0].ID)
	assert.Equal(t, "AF309 0112E KAY", summaries[0].MissionID)
	assert.Equal(t, "KAY", summaries[0].StormName)
	assert.Equal(t, domain.BasinEastPacific, summaries[0].Basin)
	assert.Equal(t, 12, summaries[0].ObsNumber)
	assert.Equal(t, 1, summaries[0].Observations)

	assert.Equal(t, earl.ID, summaries[1].ID)
	assert.Equal(t, "EARL", summaries[1].StormName)
	assert.Equal(t, 2, summaries[1].Observations)
	assert.True(t, summaries[1].Date.Equal(time.Date(2022, time.September, 5, 0, 0, 0, 0, time.UTC)))
}

func TestArchive_StoreIsIdempotent(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()

	msg := decodeSample(t, sampleEarl)
	require.NoError(t, a.StoreMessage(ctx, msg))
	require.NoError(t, a.StoreMessage(ctx, msg))

	summaries, err := a.RecentMessages(ctx, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].Observations)
}

func TestArchive_RecentMessagesLimit(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()

	require.NoError(t, a.StoreMessage(ctx, decodeSample(t, sampleEarl)))
	require.NoError(t, a.StoreMessage(ctx, decodeSample(t, sampleKay)))

	summaries, err := a.RecentMessages(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}

func TestArchive_LoadBatch(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()

	event, err := domain.SerializeMessage(decodeSample(t, sampleEarl))
	require.NoError(t, err)

	require.NoError(t, a.LoadBatch(ctx, []domain.OutputEvent{event}))

	summaries, err := a.RecentMessages(ctx, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "AF308 1006A EARL", summaries[0].MissionID)
	assert.Equal(t, 2, summaries[0].Observations)
}

func TestArchive_LoadBatchRejectsGarbage(t *testing.T) {
	a := openTestArchive(t)

	err := a.LoadBatch(context.Background(), []domain.OutputEvent{
		{Key: []byte("bad"), Value: []byte("not json")},
	})
	assert.Error(t, err)
}

func TestArchive_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	ctx := context.Background()

	a, err := sqlite.Open(path, slog.Default())
	require.NoError(t, err)
	require.NoError(t, a.StoreMessage(ctx, decodeSample(t, sampleEarl)))
	require.NoError(t, a.Close())

	reopened, err := sqlite.Open(path, slog.Default())
	require.NoError(t, err)
	defer reopened.Close()

	summaries, err := reopened.RecentMessages(ctx, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "EARL", summaries[0].StormName)
}
