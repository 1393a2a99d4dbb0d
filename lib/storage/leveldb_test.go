package storage

import (
	"fmt"
	"io/ioutil"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/errors"
)

func TestLevelDBBackendInitFileStorage(t *testing.T) {
	path, err := ioutil.TempDir("/tmp", "agora")
	require.NoError(t, err)
	defer CleanDB(path)

	st, err := NewTestFileLevelDBBackend(path)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.New("showme", "findme"))

	var fetched string
	require.NoError(t, st.Get("showme", &fetched))
	require.Equal(t, "findme", fetched)
}

func TestLevelDBBackendInitMemStorage(t *testing.T) {
	st, err := NewTestMemoryLevelDBBackend()
	require.NoError(t, err)
	defer st.Close()
}

func TestLevelDBBackendNew(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	input := map[int]string{
		90: "99",
		91: "91",
		92: "92",
	}
	require.NoError(t, st.New("showme", input))

	fetched := map[int]string{}
	require.NoError(t, st.Get("showme", &fetched))
	require.Equal(t, input, fetched)

	// New refuses a key that exists
	require.Equal(t, errors.StorageRecordAlreadyExists, st.New("showme", input))
}

func TestLevelDBBackendHas(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	exists, err := st.Has("showme")
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, st.New("showme", 10))

	exists, err = st.Has("showme")
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, st.Remove("showme"))

	exists, err = st.Has("showme")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestLevelDBBackendGetRaw(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	require.NoError(t, st.New("showme", "input"))

	_, err := st.GetRaw("vacuum")
	require.Equal(t, errors.StorageRecordDoesNotExist, err)
}

func TestLevelDBBackendSet(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	// Set needs an existing record
	require.Equal(t, errors.StorageRecordDoesNotExist, st.Set("showme", 20))

	require.NoError(t, st.New("showme", 20))
	require.NoError(t, st.Set("showme", 21))

	var fetched int
	require.NoError(t, st.Get("showme", &fetched))
	require.Equal(t, 21, fetched)
}

func TestLevelDBBackendRemove(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	require.Equal(t, errors.StorageRecordDoesNotExist, st.Remove("showme"))

	require.NoError(t, st.New("showme", 20))
	require.NoError(t, st.Remove("showme"))

	exists, err := st.Has("showme")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestLevelDBBackendManyRecords(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	expected := map[string]string{}
	for i := 0; i < 1000; i++ {
		key := uuid.New().String()
		expected[key] = uuid.New().String()
		require.NoError(t, st.New(key, expected[key]))
	}

	for key, value := range expected {
		var fetched string
		require.NoError(t, st.Get(key, &fetched))
		require.Equal(t, value, fetched)
	}
}

func storeSequentialKeys(t *testing.T, st *LevelDBBackend, total int) []string {
	keys := make([]string, 0, total)
	for i := 0; i < total; i++ {
		key := fmt.Sprintf("%03d", i)
		require.NoError(t, st.New(key, 0))
		keys = append(keys, key)
	}

	return keys
}

func collectKeys(it func() (IterItem, bool)) []string {
	var collected []string
	for {
		v, hasNext := it()
		if !hasNext {
			break
		}
		collected = append(collected, string(v.Key))
	}

	return collected
}

func TestLevelDBIterator(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	expected := storeSequentialKeys(t, st, 300)

	it, closeFunc := st.GetIterator("", NewDefaultListOptions(false, nil, 0))
	defer closeFunc()

	v, hasNext := it()
	require.True(t, hasNext)
	require.Equal(t, uint64(1), v.N)
	require.Equal(t, expected[0], string(v.Key))

	require.Equal(t, expected[1:], collectKeys(it))
}

func TestLevelDBIteratorPrefix(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, st.New(fmt.Sprintf("election-%d", i), i))
	}
	require.NoError(t, st.New("voter-0", 0))

	it, closeFunc := st.GetIterator("election-", NewDefaultListOptions(false, nil, 0))
	defer closeFunc()

	collected := collectKeys(it)
	require.Len(t, collected, 5)
	for i, key := range collected {
		require.Equal(t, fmt.Sprintf("election-%d", i), key)
	}
}

func TestLevelDBIteratorSeek(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	expected := storeSequentialKeys(t, st, 300)

	it, closeFunc := st.GetIterator("", NewDefaultListOptions(false, []byte("100"), 0))
	defer closeFunc()

	require.Equal(t, expected[100:], collectKeys(it))
}

func TestLevelDBIteratorLimit(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	expected := storeSequentialKeys(t, st, 300)

	it, closeFunc := st.GetIterator("", NewDefaultListOptions(false, nil, 100))
	defer closeFunc()

	require.Equal(t, expected[:100], collectKeys(it))
}

func TestLevelDBIteratorReverseOrder(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	expected := storeSequentialKeys(t, st, 30)

	it, closeFunc := st.GetIterator("", NewDefaultListOptions(true, nil, 0))
	defer closeFunc()

	collected := collectKeys(it)
	require.Len(t, collected, len(expected))
	for i, key := range expected {
		require.Equal(t, key, collected[len(collected)-1-i])
	}
}

func TestLevelDBIteratorReverseSeek(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	storeSequentialKeys(t, st, 300)

	it, closeFunc := st.GetIterator("", NewDefaultListOptions(true, []byte("100"), 0))
	defer closeFunc()

	collected := collectKeys(it)
	require.Len(t, collected, 101)
	require.Equal(t, "100", collected[0])
	require.Equal(t, "000", collected[len(collected)-1])
}

func TestLevelDBIteratorReverseSeekPastEnd(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	storeSequentialKeys(t, st, 30)

	// a cursor past the last key falls back to the last item
	it, closeFunc := st.GetIterator("", NewDefaultListOptions(true, []byte("999"), 0))
	defer closeFunc()

	collected := collectKeys(it)
	require.Len(t, collected, 30)
	require.Equal(t, "029", collected[0])
}

func TestLevelDBBackendTransactionCommit(t *testing.T) {
	dbpath := fmt.Sprintf("/tmp/%s", common.GetUniqueIDFromUUID())
	defer os.RemoveAll(dbpath)

	st, err := NewTestFileLevelDBBackend(dbpath)
	require.NoError(t, err)
	defer st.Close()

	ts, err := st.OpenTransaction()
	require.NoError(t, err)

	require.NoError(t, ts.New("showme", "findme"))

	var returned string
	require.NoError(t, ts.Get("showme", &returned))
	require.Equal(t, "findme", returned)

	require.NoError(t, ts.Commit())

	var committed string
	require.NoError(t, st.Get("showme", &committed))
	require.Equal(t, "findme", committed)
}

func TestLevelDBBackendTransactionDiscard(t *testing.T) {
	dbpath := fmt.Sprintf("/tmp/%s", common.GetUniqueIDFromUUID())
	defer os.RemoveAll(dbpath)

	st, err := NewTestFileLevelDBBackend(dbpath)
	require.NoError(t, err)
	defer st.Close()

	ts, err := st.OpenTransaction()
	require.NoError(t, err)

	require.NoError(t, ts.New("showme", "findme"))
	require.NoError(t, ts.Discard())

	var fetched string
	require.Equal(t, errors.StorageRecordDoesNotExist, st.Get("showme", &fetched))
}

func TestLevelDBBackendTransactionNested(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	ts, err := st.OpenTransaction()
	require.NoError(t, err)
	defer ts.Discard()

	_, err = ts.OpenTransaction()
	require.Error(t, err)
}
