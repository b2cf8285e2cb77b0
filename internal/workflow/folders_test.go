package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akuznecov/skyvault/internal/common"
)

func TestCreateFolderTrimsName(t *testing.T) {
	w, _, _, _ := newTestWorkflow()
	require.NoError(t, w.Activate(context.Background()))

	require.NoError(t, w.CreateFolder(context.Background(), "  docs  ", nil))

	snap := w.CurrentSnapshot()
	require.Len(t, snap.Folders, 1)
	assert.Equal(t, "docs", snap.Folders[0].Name)
}

func TestCreateFolderEmptyNameRejected(t *testing.T) {
	w, _, meta, _ := newTestWorkflow()
	require.NoError(t, w.Activate(context.Background()))

	for _, name := range []string{"", "   ", "\t\n"} {
		err := w.CreateFolder(context.Background(), name, nil)
		assert.ErrorIs(t, err, common.ErrEmptyFolderName)
	}
	meta.mu.Lock()
	assert.Empty(t, meta.folders)
	meta.mu.Unlock()
}

func TestSelectFolderRefetchesFiles(t *testing.T) {
	w, provider, meta, _ := newTestWorkflow()
	require.NoError(t, w.Activate(context.Background()))
	userID := provider.session.UserID

	folder, err := meta.InsertFolder(context.Background(), userID, "docs", nil)
	require.NoError(t, err)
	_, err = meta.InsertFile(context.Background(), fileRecord(userID, nil, "root.txt"))
	require.NoError(t, err)
	_, err = meta.InsertFile(context.Background(), fileRecord(userID, &folder.ID, "nested.txt"))
	require.NoError(t, err)

	w.SelectFolder(context.Background(), &folder.ID)
	snap := w.CurrentSnapshot()
	require.NotNil(t, snap.SelectedFolderID)
	require.Len(t, snap.Files, 1)
	assert.Equal(t, "nested.txt", snap.Files[0].OriginalName)

	w.SelectFolder(context.Background(), nil)
	snap = w.CurrentSnapshot()
	assert.Nil(t, snap.SelectedFolderID)
	require.Len(t, snap.Files, 1)
	assert.Equal(t, "root.txt", snap.Files[0].OriginalName)
}

func TestDeleteFolderCascadesFiles(t *testing.T) {
	w, provider, meta, _ := newTestWorkflow()
	require.NoError(t, w.Activate(context.Background()))
	userID := provider.session.UserID

	folder, err := meta.InsertFolder(context.Background(), userID, "docs", nil)
	require.NoError(t, err)
	_, err = meta.InsertFile(context.Background(), fileRecord(userID, &folder.ID, "nested.txt"))
	require.NoError(t, err)
	_, err = meta.InsertFile(context.Background(), fileRecord(userID, nil, "root.txt"))
	require.NoError(t, err)

	require.NoError(t, w.DeleteFolder(context.Background(), folder.ID))

	snap := w.CurrentSnapshot()
	assert.Empty(t, snap.Folders)
	require.Len(t, snap.Files, 1)
	assert.Equal(t, "root.txt", snap.Files[0].OriginalName)
	meta.mu.Lock()
	assert.Len(t, meta.files, 1)
	meta.mu.Unlock()
}

func TestDeleteSelectedFolderResetsSelection(t *testing.T) {
	w, provider, meta, _ := newTestWorkflow()
	require.NoError(t, w.Activate(context.Background()))

	folder, err := meta.InsertFolder(context.Background(), provider.session.UserID, "docs", nil)
	require.NoError(t, err)
	w.SelectFolder(context.Background(), &folder.ID)
	require.NotNil(t, w.CurrentSnapshot().SelectedFolderID)

	require.NoError(t, w.DeleteFolder(context.Background(), folder.ID))
	assert.Nil(t, w.CurrentSnapshot().SelectedFolderID)
}

func TestDeleteFolderCascadeFailureStillDeletesFolder(t *testing.T) {
	w, provider, meta, _ := newTestWorkflow()
	require.NoError(t, w.Activate(context.Background()))
	userID := provider.session.UserID

	folder, err := meta.InsertFolder(context.Background(), userID, "docs", nil)
	require.NoError(t, err)
	_, err = meta.InsertFile(context.Background(), fileRecord(userID, &folder.ID, "nested.txt"))
	require.NoError(t, err)
	meta.cascadeErr = errors.New("db timeout")

	// Lenient ordering: the folder record goes away even though its files
	// could not be removed, stranding them with a dangling folder id.
	require.NoError(t, w.DeleteFolder(context.Background(), folder.ID))

	assert.Empty(t, w.CurrentSnapshot().Folders)
	meta.mu.Lock()
	assert.Len(t, meta.files, 1)
	meta.mu.Unlock()
}

func TestDeleteFolderRecordFailureSurfaced(t *testing.T) {
	w, provider, meta, _ := newTestWorkflow()
	require.NoError(t, w.Activate(context.Background()))

	folder, err := meta.InsertFolder(context.Background(), provider.session.UserID, "docs", nil)
	require.NoError(t, err)
	meta.deleteFolderErr = &common.StoreError{Kind: "connectivity", Err: errors.New("db timeout")}

	err = w.DeleteFolder(context.Background(), folder.ID)
	require.Error(t, err)
	assert.NotEmpty(t, w.CurrentSnapshot().Err)
	// Listings are refreshed regardless of the failure.
	require.Len(t, w.CurrentSnapshot().Folders, 1)
}
