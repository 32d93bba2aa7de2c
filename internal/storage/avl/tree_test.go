package avl

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luobolong/disk-avl/internal/storage"
)

// createTestTree opens a fresh tree in a temporary directory.
func createTestTree(t *testing.T) (*Tree, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.avl")

	tree, err := Open(path, DefaultOptions())
	require.NoError(t, err)

	t.Cleanup(func() {
		if !tree.closed {
			tree.Close()
		}
	})
	return tree, path
}

func insertAll(t *testing.T, tree *Tree, keys ...int32) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, tree.Insert(k), "insert %d", k)
	}
}

func requireFound(t *testing.T, tree *Tree, key int32, want bool) {
	t.Helper()
	found, err := tree.Search(key)
	require.NoError(t, err)
	require.Equal(t, want, found, "search %d", key)
}

func rootKey(t *testing.T, tree *Tree) int32 {
	t.Helper()
	root, err := tree.Root()
	require.NoError(t, err)
	n, err := tree.Node(root)
	require.NoError(t, err)
	return n.Key
}

// patchFile overwrites four bytes of a closed tree file.
func patchFile(t *testing.T, path string, off int64, v uint32) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)
	defer f.Close()

	var buf [4]byte
	storage.ByteOrder.PutUint32(buf[:], v)
	_, err = f.WriteAt(buf[:], off)
	require.NoError(t, err)
}

// =============================================================================
// Open / Close
// =============================================================================

func TestOpenCreatesEmptyTree(t *testing.T) {
	tree, path := createTestTree(t)

	root, err := tree.Root()
	require.NoError(t, err)
	assert.Equal(t, Null, root)

	h, err := tree.Height()
	require.NoError(t, err)
	assert.Equal(t, int32(-1), h)

	empty, err := tree.IsEmpty()
	require.NoError(t, err)
	assert.True(t, empty)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(storage.HeaderSize), info.Size())
	assert.Equal(t, path, tree.Path())
}

func TestOpenMissingWithoutCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.avl")

	_, err := Open(path, DefaultOptions().WithCreateIfNew(false))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestOpenRejectsDanglingRoot(t *testing.T) {
	tree, path := createTestTree(t)
	insertAll(t, tree, 1)
	require.NoError(t, tree.Close())

	patchFile(t, path, storage.RootPointerOffset, 1000)

	_, err := Open(path, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrInvalidOffset)
}

func TestCloseTwice(t *testing.T) {
	tree, _ := createTestTree(t)

	require.NoError(t, tree.Close())
	assert.ErrorIs(t, tree.Close(), ErrTreeClosed)
}

func TestOperationsAfterClose(t *testing.T) {
	tree, _ := createTestTree(t)
	require.NoError(t, tree.Close())

	assert.ErrorIs(t, tree.Insert(1), ErrTreeClosed)

	_, err := tree.Search(1)
	assert.ErrorIs(t, err, ErrTreeClosed)

	_, err = tree.Delete(1)
	assert.ErrorIs(t, err, ErrTreeClosed)

	assert.ErrorIs(t, tree.Verify(), ErrTreeClosed)
	assert.ErrorIs(t, tree.Sync(), ErrTreeClosed)
}

func TestNewDoesNotOwnFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.avl")
	f, err := storage.Open(path, storage.DefaultOptions())
	require.NoError(t, err)
	defer f.Close()

	tree := New(f, nil)
	require.NoError(t, tree.Insert(7))
	require.NoError(t, tree.Close())

	assert.False(t, f.IsClosed())
}

// =============================================================================
// Insert
// =============================================================================

func TestInsertSingle(t *testing.T) {
	tree, path := createTestTree(t)
	insertAll(t, tree, 42)

	root, err := tree.Root()
	require.NoError(t, err)
	assert.Equal(t, Offset(storage.HeaderSize), root)

	n, err := tree.Node(root)
	require.NoError(t, err)
	assert.Equal(t, NodeInfo{Offset: root, Left: Null, Right: Null, Height: 0, Key: 42}, n)
	assert.True(t, n.IsLeaf())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(storage.HeaderSize+storage.RecordSize), info.Size())
}

func TestInsertRotateLeftLayout(t *testing.T) {
	tree, path := createTestTree(t)
	insertAll(t, tree, 1, 2, 3)
	require.NoError(t, tree.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	expected := []byte{
		0x00, 0x00, 0x00, 0x14, // root -> record of key 2
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00, 0x24, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x02,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x03,
	}
	assert.Equal(t, expected, data)
}

func TestInsertRotations(t *testing.T) {
	tests := []struct {
		name     string
		keys     []int32
		wantRoot int32
	}{
		{"right-right", []int32{1, 2, 3}, 2},
		{"left-left", []int32{3, 2, 1}, 2},
		{"left-right", []int32{3, 1, 2}, 2},
		{"right-left", []int32{1, 3, 2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, _ := createTestTree(t)
			insertAll(t, tree, tt.keys...)

			assert.Equal(t, tt.wantRoot, rootKey(t, tree))

			h, err := tree.Height()
			require.NoError(t, err)
			assert.Equal(t, int32(1), h)
			require.NoError(t, tree.Verify())
		})
	}
}

func TestInsertDuplicate(t *testing.T) {
	tree, path := createTestTree(t)
	insertAll(t, tree, 1, 2, 3)
	require.NoError(t, tree.Sync())

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	err = tree.Insert(2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateKey)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestInsertExtremeKeys(t *testing.T) {
	tree, _ := createTestTree(t)
	insertAll(t, tree, math.MaxInt32, math.MinInt32, 0, -1, 1)

	keys, err := tree.Keys()
	require.NoError(t, err)
	assert.Equal(t, []int32{math.MinInt32, -1, 0, 1, math.MaxInt32}, keys)
	require.NoError(t, tree.Verify())
}

// Scenario B: ascending inserts stay logarithmic.
func TestInsertAscendingHeightBound(t *testing.T) {
	tree, _ := createTestTree(t)
	for k := int32(1); k <= 10; k++ {
		require.NoError(t, tree.Insert(k))
	}

	h, err := tree.Height()
	require.NoError(t, err)
	assert.LessOrEqual(t, h, int32(math.Ceil(math.Log2(11))))
	require.NoError(t, tree.Verify())
}

// =============================================================================
// Search
// =============================================================================

func TestSearchEmpty(t *testing.T) {
	tree, _ := createTestTree(t)
	requireFound(t, tree, 0, false)
}

// Scenario A.
func TestInsertSearchDelete(t *testing.T) {
	tree, _ := createTestTree(t)
	insertAll(t, tree, 1, 2, 3, 4, 5)

	requireFound(t, tree, 3, true)
	requireFound(t, tree, 6, false)

	deleted, err := tree.Delete(3)
	require.NoError(t, err)
	assert.True(t, deleted)

	requireFound(t, tree, 3, false)
	for _, k := range []int32{1, 2, 4, 5} {
		requireFound(t, tree, k, true)
	}
	require.NoError(t, tree.Verify())
}

// =============================================================================
// Delete
// =============================================================================

// Scenario C: the two-child case copies the successor into the node.
func TestDeleteTwoChildren(t *testing.T) {
	tree, _ := createTestTree(t)
	insertAll(t, tree, 5, 3, 8, 1, 4, 7, 9)

	rootBefore, err := tree.Root()
	require.NoError(t, err)

	deleted, err := tree.Delete(5)
	require.NoError(t, err)
	require.True(t, deleted)

	rootAfter, err := tree.Root()
	require.NoError(t, err)
	assert.Equal(t, rootBefore, rootAfter)
	assert.Equal(t, int32(7), rootKey(t, tree))

	requireFound(t, tree, 5, false)
	for _, k := range []int32{1, 3, 4, 7, 8, 9} {
		requireFound(t, tree, k, true)
	}
	require.NoError(t, tree.Verify())
}

func TestDeleteLeafAndSingleChild(t *testing.T) {
	tree, _ := createTestTree(t)
	insertAll(t, tree, 2, 1, 3, 4)

	// 3 has a single right child.
	deleted, err := tree.Delete(3)
	require.NoError(t, err)
	assert.True(t, deleted)

	// 1 is a leaf.
	deleted, err = tree.Delete(1)
	require.NoError(t, err)
	assert.True(t, deleted)

	keys, err := tree.Keys()
	require.NoError(t, err)
	assert.Equal(t, []int32{2, 4}, keys)
	require.NoError(t, tree.Verify())
}

func TestDeleteRebalances(t *testing.T) {
	tree, _ := createTestTree(t)
	insertAll(t, tree, 2, 1, 3, 4)

	// Removing 1 leaves 2 right-heavy by two.
	_, err := tree.Delete(1)
	require.NoError(t, err)

	assert.Equal(t, int32(3), rootKey(t, tree))
	require.NoError(t, tree.Verify())
}

func TestDeleteLastKey(t *testing.T) {
	tree, _ := createTestTree(t)
	insertAll(t, tree, 9)

	deleted, err := tree.Delete(9)
	require.NoError(t, err)
	assert.True(t, deleted)

	root, err := tree.Root()
	require.NoError(t, err)
	assert.Equal(t, Null, root)
}

func TestDeleteAbsentIsNoop(t *testing.T) {
	tree, path := createTestTree(t)
	insertAll(t, tree, 1, 2, 3)
	require.NoError(t, tree.Sync())

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	deleted, err := tree.Delete(10)
	require.NoError(t, err)
	assert.False(t, deleted)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDeleteZeroesRecord(t *testing.T) {
	tree, _ := createTestTree(t)
	insertAll(t, tree, 1, 2, 3)

	_, err := tree.Delete(1)
	require.NoError(t, err)

	n, err := tree.Node(Offset(storage.HeaderSize))
	require.NoError(t, err)
	assert.Equal(t, NodeInfo{Offset: Offset(storage.HeaderSize)}, n)
}

func TestFileNeverShrinks(t *testing.T) {
	tree, _ := createTestTree(t)
	rng := rand.New(rand.NewSource(7))

	var last int64
	for i := 0; i < 500; i++ {
		k := int32(rng.Intn(64))
		if rng.Intn(2) == 0 {
			err := tree.Insert(k)
			if err != nil {
				require.ErrorIs(t, err, ErrDuplicateKey)
			}
		} else {
			_, err := tree.Delete(k)
			require.NoError(t, err)
		}

		size := tree.file.Size()
		require.GreaterOrEqual(t, size, last)
		last = size
	}
}

// =============================================================================
// Persistence
// =============================================================================

// Scenario D.
func TestReopenPreservesTree(t *testing.T) {
	tree, path := createTestTree(t)
	insertAll(t, tree, 5, 3, 8, 1, 4)
	_, err := tree.Delete(3)
	require.NoError(t, err)

	root, err := tree.Root()
	require.NoError(t, err)
	require.NoError(t, tree.Close())

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	reopened, err := Open(path, DefaultOptions())
	require.NoError(t, err)
	defer reopened.Close()

	gotRoot, err := reopened.Root()
	require.NoError(t, err)
	assert.Equal(t, root, gotRoot)

	keys, err := reopened.Keys()
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 4, 5, 8}, keys)

	require.NoError(t, reopened.Verify())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	insertAll(t, reopened, 3)
	requireFound(t, reopened, 3, true)
	require.NoError(t, reopened.Verify())
}

func TestReadOnlyTree(t *testing.T) {
	tree, path := createTestTree(t)
	insertAll(t, tree, 1, 2, 3)
	require.NoError(t, tree.Close())

	ro, err := Open(path, DefaultOptions().WithReadOnly(true))
	require.NoError(t, err)
	defer ro.Close()

	assert.True(t, ro.IsReadOnly())
	requireFound(t, ro, 2, true)

	assert.ErrorIs(t, ro.Insert(4), storage.ErrReadOnly)

	_, err = ro.Delete(1)
	assert.ErrorIs(t, err, storage.ErrReadOnly)

	require.NoError(t, ro.Verify())
}

func TestSyncOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync.avl")
	tree, err := Open(path, DefaultOptions().WithSyncOnWrite(true))
	require.NoError(t, err)
	defer tree.Close()

	insertAll(t, tree, 3, 1, 2)
	require.NoError(t, tree.Verify())
}

// =============================================================================
// Random operations
// =============================================================================

func TestRandomOperationsMatchModel(t *testing.T) {
	tree, _ := createTestTree(t)
	rng := rand.New(rand.NewSource(42))
	model := make(map[int32]bool)

	for i := 0; i < 2000; i++ {
		k := int32(rng.Intn(200)) - 100

		switch rng.Intn(3) {
		case 0, 1:
			err := tree.Insert(k)
			if model[k] {
				require.ErrorIs(t, err, ErrDuplicateKey)
			} else {
				require.NoError(t, err)
				model[k] = true
			}
		default:
			deleted, err := tree.Delete(k)
			require.NoError(t, err)
			require.Equal(t, model[k], deleted)
			delete(model, k)
		}

		require.NoError(t, tree.Verify(), "after op %d", i)
	}

	expected := make([]int32, 0, len(model))
	for k := range model {
		expected = append(expected, k)
	}
	sort.Slice(expected, func(i, j int) bool { return expected[i] < expected[j] })

	keys, err := tree.Keys()
	require.NoError(t, err)
	if len(expected) == 0 {
		assert.Empty(t, keys)
	} else {
		assert.Equal(t, expected, keys)
	}

	for k := int32(-100); k < 100; k++ {
		requireFound(t, tree, k, model[k])
	}
}

func TestHeightStaysLogarithmic(t *testing.T) {
	tree, _ := createTestTree(t)
	rng := rand.New(rand.NewSource(1))

	const n = 1000
	for _, k := range rng.Perm(n) {
		require.NoError(t, tree.Insert(int32(k)))
	}

	h, err := tree.Height()
	require.NoError(t, err)
	// 1.44 * log2(n + 2)
	assert.LessOrEqual(t, float64(h), 1.44*math.Log2(n+2))
}

func TestConcurrentInserts(t *testing.T) {
	tree, _ := createTestTree(t)

	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(base int32) {
			defer wg.Done()
			for i := int32(0); i < perWorker; i++ {
				assert.NoError(t, tree.Insert(base+i))
			}
		}(int32(w * perWorker))
	}
	wg.Wait()

	n, err := tree.Len()
	require.NoError(t, err)
	assert.Equal(t, workers*perWorker, n)
	require.NoError(t, tree.Verify())
}

// =============================================================================
// Node access
// =============================================================================

func TestNullDereference(t *testing.T) {
	tree, _ := createTestTree(t)

	_, err := tree.key(Null)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNullDereference))
	assert.True(t, errors.IsAssertionFailure(err))

	_, err = tree.left(Null)
	assert.True(t, errors.Is(err, ErrNullDereference))

	_, err = tree.Node(Null)
	assert.True(t, errors.Is(err, ErrNullDereference))

	h, err := tree.height(Null)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), h)
}

func TestNodeOutOfRange(t *testing.T) {
	tree, _ := createTestTree(t)
	insertAll(t, tree, 1)

	for _, off := range []Offset{2, 8, 20, 1 << 20} {
		_, err := tree.Node(off)
		assert.ErrorIs(t, err, storage.ErrInvalidOffset, "offset %s", off)
	}
}

func TestOffsetString(t *testing.T) {
	assert.Equal(t, "null", Null.String())
	assert.Equal(t, "0x14", Offset(20).String())
	assert.True(t, Null.IsNull())
	assert.False(t, Offset(4).IsNull())
}
