package testing

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marmos91/mountscope/pkg/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleTable is a small but representative mount table: a root mount with a
// peer group, a proc mount, and a snap squashfs mount on a loop device.
const sampleTable = `26 1 8:1 / / rw,relatime shared:1 - ext4 /dev/sda1 rw,errors=remount-ro
40 26 0:25 / /proc rw,nosuid,nodev,noexec,relatime shared:2 - proc proc rw
81 26 7:4 / /snap/core/8039 ro,nodev,relatime shared:39 - squashfs /dev/loop4 ro
`

// TestSnapshot builds a parsed snapshot with the given name from the sample
// table.
func TestSnapshot(t *testing.T, name string) *snapshot.Snapshot {
	t.Helper()

	snap, err := snapshot.CaptureReader(strings.NewReader(sampleTable), "testdata")
	require.NoError(t, err, "sample table must parse")
	snap.Name = name
	return snap
}

func (suite *StoreTestSuite) RunSaveTests(test *testing.T) {
	test.Run("Save_Success", suite.TestSave_Success)
	test.Run("Save_Duplicate", suite.TestSave_Duplicate)
	test.Run("Save_EmptyName", suite.TestSave_EmptyName)
}

func (suite *StoreTestSuite) RunGetTests(test *testing.T) {
	test.Run("Get_RoundTrip", suite.TestGet_RoundTrip)
	test.Run("Get_NotFound", suite.TestGet_NotFound)
}

func (suite *StoreTestSuite) RunListTests(test *testing.T) {
	test.Run("List_Empty", suite.TestList_Empty)
	test.Run("List_SortedByName", suite.TestList_SortedByName)
}

func (suite *StoreTestSuite) RunDeleteTests(test *testing.T) {
	test.Run("Delete_Success", suite.TestDelete_Success)
	test.Run("Delete_NotFound", suite.TestDelete_NotFound)
}

// TestSave_Success verifies a snapshot can be saved and shows up in listings.
func (suite *StoreTestSuite) TestSave_Success(test *testing.T) {
	store := suite.NewStore()
	defer store.Close()
	ctx := context.Background()

	snap := TestSnapshot(test, "baseline")
	require.NoError(test, store.Save(ctx, snap))

	infos, err := store.List(ctx)
	require.NoError(test, err)
	require.Len(test, infos, 1)
	assert.Equal(test, "baseline", infos[0].Name)
	assert.Equal(test, 3, infos[0].RecordCount)
}

// TestSave_Duplicate verifies that reusing a name fails with ErrAlreadyExists.
func (suite *StoreTestSuite) TestSave_Duplicate(test *testing.T) {
	store := suite.NewStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(test, store.Save(ctx, TestSnapshot(test, "dup")))

	err := store.Save(ctx, TestSnapshot(test, "dup"))
	var storeErr *snapshot.StoreError
	require.ErrorAs(test, err, &storeErr)
	assert.Equal(test, snapshot.ErrAlreadyExists, storeErr.Code)
}

// TestSave_EmptyName verifies that a nameless snapshot is rejected.
func (suite *StoreTestSuite) TestSave_EmptyName(test *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	err := store.Save(context.Background(), TestSnapshot(test, ""))
	var storeErr *snapshot.StoreError
	require.ErrorAs(test, err, &storeErr)
	assert.Equal(test, snapshot.ErrInvalidArgument, storeErr.Code)
}

// TestGet_RoundTrip verifies that a stored snapshot comes back with identical
// metadata and byte-identical records.
func (suite *StoreTestSuite) TestGet_RoundTrip(test *testing.T) {
	store := suite.NewStore()
	defer store.Close()
	ctx := context.Background()

	saved := TestSnapshot(test, "roundtrip")
	require.NoError(test, store.Save(ctx, saved))

	got, err := store.Get(ctx, "roundtrip")
	require.NoError(test, err)

	assert.Equal(test, saved.ID, got.ID)
	assert.Equal(test, saved.Hostname, got.Hostname)
	assert.Equal(test, saved.Source, got.Source)
	assert.WithinDuration(test, saved.CapturedAt, got.CapturedAt, time.Second)
	assert.Equal(test, saved.RecordCount, got.RecordCount)

	require.Len(test, got.Records, len(saved.Records))
	for i := range saved.Records {
		assert.Equal(test, saved.Records[i].String(), got.Records[i].String())
	}
}

// TestGet_NotFound verifies that a missing name fails with ErrNotFound.
func (suite *StoreTestSuite) TestGet_NotFound(test *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	_, err := store.Get(context.Background(), "missing")
	var storeErr *snapshot.StoreError
	require.ErrorAs(test, err, &storeErr)
	assert.Equal(test, snapshot.ErrNotFound, storeErr.Code)
	assert.Equal(test, "missing", storeErr.Name)
}

// TestList_Empty verifies a fresh store lists nothing.
func (suite *StoreTestSuite) TestList_Empty(test *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	infos, err := store.List(context.Background())
	require.NoError(test, err)
	assert.Empty(test, infos)
}

// TestList_SortedByName verifies listings come back sorted by name
// regardless of save order.
func (suite *StoreTestSuite) TestList_SortedByName(test *testing.T) {
	store := suite.NewStore()
	defer store.Close()
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(test, store.Save(ctx, TestSnapshot(test, name)))
	}

	infos, err := store.List(ctx)
	require.NoError(test, err)
	require.Len(test, infos, 3)
	assert.Equal(test, "alpha", infos[0].Name)
	assert.Equal(test, "mid", infos[1].Name)
	assert.Equal(test, "zeta", infos[2].Name)

	// Every listed snapshot keeps its own identity.
	ids := map[uuid.UUID]bool{}
	for _, info := range infos {
		ids[info.ID] = true
	}
	assert.Len(test, ids, 3)
}

// TestDelete_Success verifies deletion removes both the listing and the body.
func (suite *StoreTestSuite) TestDelete_Success(test *testing.T) {
	store := suite.NewStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(test, store.Save(ctx, TestSnapshot(test, "doomed")))
	require.NoError(test, store.Delete(ctx, "doomed"))

	_, err := store.Get(ctx, "doomed")
	var storeErr *snapshot.StoreError
	require.ErrorAs(test, err, &storeErr)
	assert.Equal(test, snapshot.ErrNotFound, storeErr.Code)

	infos, err := store.List(ctx)
	require.NoError(test, err)
	assert.Empty(test, infos)

	// The name is reusable after deletion.
	assert.NoError(test, store.Save(ctx, TestSnapshot(test, "doomed")))
}

// TestDelete_NotFound verifies deleting a missing name fails with ErrNotFound.
func (suite *StoreTestSuite) TestDelete_NotFound(test *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	err := store.Delete(context.Background(), "missing")
	var storeErr *snapshot.StoreError
	require.ErrorAs(test, err, &storeErr)
	assert.Equal(test, snapshot.ErrNotFound, storeErr.Code)
}
