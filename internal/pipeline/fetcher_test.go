package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/photocast/internal/common"
	"github.com/dmitrijs2005/photocast/internal/logging"
	"github.com/dmitrijs2005/photocast/internal/models"
)

func TestFetchAll_AccumulatesLiveRecordsAcrossPages(t *testing.T) {
	client := newFakeClient()
	client.pages = []*models.DiffPage{
		{
			Diff: []*models.EncryptedFile{
				{ID: 1, UpdationTime: 5},
				{ID: 2, UpdationTime: 3, IsDeleted: true},
				{ID: 3, UpdationTime: 4},
			},
			HasMore: true,
		},
		{
			Diff: []*models.EncryptedFile{
				{ID: 4, UpdationTime: 9},
			},
			HasMore: false,
		},
	}

	f := NewFetcher(client, logging.NewNop())
	live, err := f.FetchAll(context.Background())
	require.NoError(t, err)

	require.Len(t, live, 3, "deleted records must be dropped")
	require.Equal(t, int64(1), live[0].ID)
	require.Equal(t, int64(3), live[1].ID)
	require.Equal(t, int64(4), live[2].ID)

	// Cursor starts at zero and advances to the page maximum.
	require.Equal(t, []int64{0, 5}, client.sinceSeen)
}

func TestFetchAll_CursorNeverMovesBackward(t *testing.T) {
	client := newFakeClient()
	client.pages = []*models.DiffPage{
		{Diff: []*models.EncryptedFile{{ID: 1, UpdationTime: 10}}, HasMore: true},
		// A page whose entries are older than the cursor.
		{Diff: []*models.EncryptedFile{{ID: 2, UpdationTime: 4}}, HasMore: true},
		{Diff: []*models.EncryptedFile{{ID: 3, UpdationTime: 12}}, HasMore: false},
	}

	f := NewFetcher(client, logging.NewNop())
	_, err := f.FetchAll(context.Background())
	require.NoError(t, err)

	require.Equal(t, []int64{0, 10, 10}, client.sinceSeen)
}

func TestFetchAll_EmptyCollection(t *testing.T) {
	client := newFakeClient()
	client.pages = []*models.DiffPage{{HasMore: false}}

	f := NewFetcher(client, logging.NewNop())
	live, err := f.FetchAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, live)
}

func TestFetchAll_PageFailurePropagates(t *testing.T) {
	client := newFakeClient()
	client.diffErr = common.ErrRemote

	f := NewFetcher(client, logging.NewNop())
	_, err := f.FetchAll(context.Background())
	require.ErrorIs(t, err, common.ErrRemote)
}
