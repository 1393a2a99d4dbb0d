package storage

import (
	"encoding/json"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	leveldbIterator "github.com/syndtr/goleveldb/leveldb/iterator"
	leveldbOpt "github.com/syndtr/goleveldb/leveldb/opt"
	leveldbStorage "github.com/syndtr/goleveldb/leveldb/storage"
	leveldbUtil "github.com/syndtr/goleveldb/leveldb/util"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/errors"
)

// LevelDBCore is the slice of *leveldb.DB the backend relies on, also
// satisfied by *leveldb.Transaction.
type LevelDBCore interface {
	Has([]byte, *leveldbOpt.ReadOptions) (bool, error)
	Get([]byte, *leveldbOpt.ReadOptions) ([]byte, error)
	NewIterator(*leveldbUtil.Range, *leveldbOpt.ReadOptions) leveldbIterator.Iterator
	Put([]byte, []byte, *leveldbOpt.WriteOptions) error
	Delete([]byte, *leveldbOpt.WriteOptions) error
}

// LevelDBBackend is the node's record store. Every record is stored as
// json under a prefixed key. A backend wrapping *leveldb.Transaction
// gives the apply path its all or nothing writes.
type LevelDBBackend struct {
	DB *leveldb.DB

	Core LevelDBCore
}

func setLevelDBCoreError(err error) error {
	if err == nil {
		return nil
	}

	return errors.NewError(
		errors.StorageCoreError.Code,
		fmt.Sprintf("%s: %s", errors.StorageCoreError.Message, err.Error()),
	)
}

func NewStorage(config *Config) (*LevelDBBackend, error) {
	st := &LevelDBBackend{}
	if err := st.Init(config); err != nil {
		return nil, err
	}

	return st, nil
}

func (st *LevelDBBackend) Init(config *Config) error {
	var db *leveldb.DB
	var err error

	switch config.Scheme {
	case "file":
		db, err = leveldb.OpenFile(config.Path, nil)
	case "memory":
		db, err = leveldb.Open(leveldbStorage.NewMemStorage(), nil)
	}
	if err != nil {
		return setLevelDBCoreError(err)
	}

	st.DB = db
	st.Core = db

	return nil
}

func (st *LevelDBBackend) Close() error {
	return st.DB.Close()
}

// OpenTransaction returns a backend whose writes stay invisible to the
// parent until Commit.
func (st *LevelDBBackend) OpenTransaction() (*LevelDBBackend, error) {
	if _, ok := st.Core.(*leveldb.Transaction); ok {
		return nil, errors.New("already inside a transaction")
	}

	transaction, err := st.Core.(*leveldb.DB).OpenTransaction()
	if err != nil {
		return nil, setLevelDBCoreError(err)
	}

	return &LevelDBBackend{
		DB:   st.DB,
		Core: transaction,
	}, nil
}

func (st *LevelDBBackend) Discard() error {
	ts, ok := st.Core.(*leveldb.Transaction)
	if !ok {
		return setLevelDBCoreError(errors.New("not inside a transaction"))
	}

	ts.Discard()
	return nil
}

func (st *LevelDBBackend) Commit() error {
	ts, ok := st.Core.(*leveldb.Transaction)
	if !ok {
		return setLevelDBCoreError(errors.New("not inside a transaction"))
	}

	return setLevelDBCoreError(ts.Commit())
}

func (st *LevelDBBackend) makeKey(key string) []byte {
	return []byte(key)
}

func (st *LevelDBBackend) Has(k string) (bool, error) {
	ok, err := st.Core.Has(st.makeKey(k), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return false, nil
		}
		return false, setLevelDBCoreError(err)
	}

	return ok, nil
}

func (st *LevelDBBackend) GetRaw(k string) ([]byte, error) {
	exists, err := st.Has(k)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.StorageRecordDoesNotExist
	}

	b, err := st.Core.Get(st.makeKey(k), nil)
	return b, setLevelDBCoreError(err)
}

func (st *LevelDBBackend) Get(k string, i interface{}) error {
	b, err := st.GetRaw(k)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(b, &i); err != nil {
		return setLevelDBCoreError(err)
	}

	return nil
}

func encodeValue(v interface{}) ([]byte, error) {
	if serializable, ok := v.(common.Serializable); ok {
		return serializable.Serialize()
	}

	return common.EncodeJSONValue(v)
}

// New writes a record under a key that must not exist yet.
func (st *LevelDBBackend) New(k string, v interface{}) error {
	encoded, err := encodeValue(v)
	if err != nil {
		return setLevelDBCoreError(err)
	}

	exists, err := st.Has(k)
	if err != nil {
		return err
	}
	if exists {
		return errors.StorageRecordAlreadyExists
	}

	return setLevelDBCoreError(st.Core.Put(st.makeKey(k), encoded, nil))
}

// Set overwrites a record that must exist already.
func (st *LevelDBBackend) Set(k string, v interface{}) error {
	encoded, err := encodeValue(v)
	if err != nil {
		return setLevelDBCoreError(err)
	}

	exists, err := st.Has(k)
	if err != nil {
		return err
	}
	if !exists {
		return errors.StorageRecordDoesNotExist
	}

	return setLevelDBCoreError(st.Core.Put(st.makeKey(k), encoded, nil))
}

func (st *LevelDBBackend) Remove(k string) error {
	exists, err := st.Has(k)
	if err != nil {
		return err
	}
	if !exists {
		return errors.StorageRecordDoesNotExist
	}

	return setLevelDBCoreError(st.Core.Delete(st.makeKey(k), nil))
}

// GetIterator walks the keys under prefix. iterFunc hands out one item
// per call until hasNext comes back false; the item of that last call
// is past the end and must be ignored. closeFunc releases the
// underlying iterator and is safe to call at any point.
func (st *LevelDBBackend) GetIterator(prefix string, option ListOptions) (func() (IterItem, bool), func()) {
	var reverse bool
	var cursor []byte
	var limit uint64
	if option != nil {
		reverse = option.Reverse()
		cursor = option.Cursor()
		limit = option.Limit()
	}

	var dbRange *leveldbUtil.Range
	if len(prefix) > 0 {
		dbRange = leveldbUtil.BytesPrefix(st.makeKey(prefix))
	}

	iter := st.Core.NewIterator(dbRange, nil)

	seeked := false
	if cursor != nil {
		seeked = iter.Seek(cursor)
	}

	var funcNext func() bool
	var hasUnsent bool
	if reverse {
		funcNext = iter.Prev
		// without a cursor, or with one past the end, start from the last item
		if !seeked && !iter.Last() {
			iter.Release()
			return func() (IterItem, bool) { return IterItem{}, false }, func() {}
		}
		hasUnsent = true
	} else {
		funcNext = iter.Next
		hasUnsent = seeked
	}

	var n uint64
	return func() (IterItem, bool) {
			if hasUnsent {
				hasUnsent = false
				n++
				return IterItem{N: n, Key: iter.Key(), Value: iter.Value()}, true
			}

			if !funcNext() {
				iter.Release()
				return IterItem{}, false
			}

			if limit != 0 && n >= limit {
				defer iter.Release()
				n++
				return IterItem{N: n, Key: iter.Key(), Value: iter.Value()}, false
			}
			n++
			return IterItem{N: n, Key: iter.Key(), Value: iter.Value()}, true
		},
		func() {
			iter.Release()
		}
}
