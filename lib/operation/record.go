package operation

import (
	"encoding/json"
	"fmt"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/common/observer"
	"boscoin.io/agora/lib/errors"
	"boscoin.io/agora/lib/storage"
)

// Record is an accepted operation as stored. the storage should support,
//  * find by `Hash`
//
//  * get list in applied order
//  * get list by `Source` and applied order

// models
//  * 'operation record'
// 	- 'op-hash-<Record.Hash>': `Record`
// 	- 'op-seq-<sequence>': `Record.Hash`
// 	- 'op-source-<Record.Source>-<sequence>': `Record.Hash`
//  * 'operation count'
// 	- 'op-count-': uint64

const (
	RecordPrefixHash   string = "op-hash-"
	RecordPrefixSeq    string = "op-seq-"
	RecordPrefixSource string = "op-source-"
	RecordKeyCount     string = "op-count-"
)

type Record struct {
	Hash      string        `json:"hash"`
	Source    string        `json:"source"`
	Type      OperationType `json:"type"`
	Sequence  uint64        `json:"sequence"`
	Operation Operation     `json:"operation"`
	AppliedAt string        `json:"applied_at"`
}

func NewRecord(op Operation, sequence uint64) *Record {
	return &Record{
		Hash:      op.H.Hash,
		Source:    op.B.Source,
		Type:      op.B.Type,
		Sequence:  sequence,
		Operation: op,
		AppliedAt: common.NowISO8601(),
	}
}

func (r *Record) String() string {
	return string(common.MustMarshalJSON(r))
}

func GetRecordKey(hash string) string {
	return fmt.Sprintf("%s%s", RecordPrefixHash, hash)
}

func GetRecordSeqKey(sequence uint64) string {
	return fmt.Sprintf("%s%020d", RecordPrefixSeq, sequence)
}

func GetRecordSourceKeyPrefix(source string) string {
	return fmt.Sprintf("%s%s-", RecordPrefixSource, source)
}

func (r *Record) NewRecordSourceKey() string {
	return fmt.Sprintf("%s%020d", GetRecordSourceKeyPrefix(r.Source), r.Sequence)
}

func (r *Record) Save(st *storage.LevelDBBackend) (err error) {
	key := GetRecordKey(r.Hash)

	var exists bool
	if exists, err = st.Has(key); err != nil {
		return
	} else if exists {
		return errors.DuplicatedOperation
	}

	if err = st.New(key, r); err != nil {
		return
	}
	if err = st.New(GetRecordSeqKey(r.Sequence), r.Hash); err != nil {
		return
	}
	if err = st.New(r.NewRecordSourceKey(), r.Hash); err != nil {
		return
	}

	event := "saved"
	event += " " + fmt.Sprintf("source-%s", r.Source)
	event += " " + fmt.Sprintf("source-type-%s%s", r.Source, r.Type)
	event += " " + fmt.Sprintf("hash-%s", r.Hash)
	observer.OperationObserver.Trigger(event, r)

	return nil
}

// SaveRecord assigns the next sequence number to `op` and stores the
// record with its index keys. The caller runs it inside the same storage
// transaction as the operation's effects.
func SaveRecord(st *storage.LevelDBBackend, op Operation) (r *Record, err error) {
	var sequence uint64
	if sequence, err = GetRecordCount(st); err != nil {
		return
	}

	r = NewRecord(op, sequence)
	if err = r.Save(st); err != nil {
		r = nil
		return
	}

	if err = setRecordCount(st, sequence+1); err != nil {
		r = nil
		return
	}

	return
}

func ExistsRecord(st *storage.LevelDBBackend, hash string) (bool, error) {
	return st.Has(GetRecordKey(hash))
}

func GetRecord(st *storage.LevelDBBackend, hash string) (r *Record, err error) {
	var exists bool
	if exists, err = ExistsRecord(st, hash); err != nil {
		return
	} else if !exists {
		err = errors.OperationNotFound
		return
	}

	err = st.Get(GetRecordKey(hash), &r)

	return
}

// GetRecordCount returns how many operations have been applied, which is
// also the sequence number the next one will get.
func GetRecordCount(st *storage.LevelDBBackend) (count uint64, err error) {
	var exists bool
	if exists, err = st.Has(RecordKeyCount); err != nil {
		return
	} else if !exists {
		return
	}

	err = st.Get(RecordKeyCount, &count)

	return
}

func setRecordCount(st *storage.LevelDBBackend, count uint64) (err error) {
	var exists bool
	if exists, err = st.Has(RecordKeyCount); err != nil {
		return
	}

	if exists {
		err = st.Set(RecordKeyCount, count)
	} else {
		err = st.New(RecordKeyCount, count)
	}

	return
}

func LoadRecordsInsideIterator(
	st *storage.LevelDBBackend,
	iterFunc func() (storage.IterItem, bool),
	closeFunc func(),
) (
	func() (*Record, bool, []byte),
	func(),
) {

	return (func() (*Record, bool, []byte) {
			item, hasNext := iterFunc()
			if !hasNext {
				return nil, false, item.Key
			}

			var hash string
			json.Unmarshal(item.Value, &hash)

			r, err := GetRecord(st, hash)
			if err != nil {
				return nil, false, item.Key
			}

			return r, hasNext, item.Key
		}), (func() {
			closeFunc()
		})
}

func GetRecords(st *storage.LevelDBBackend, options storage.ListOptions) (
	func() (*Record, bool, []byte),
	func(),
) {
	iterFunc, closeFunc := st.GetIterator(RecordPrefixSeq, options)

	return LoadRecordsInsideIterator(st, iterFunc, closeFunc)
}

func GetRecordsBySource(st *storage.LevelDBBackend, source string, options storage.ListOptions) (
	func() (*Record, bool, []byte),
	func(),
) {
	iterFunc, closeFunc := st.GetIterator(GetRecordSourceKeyPrefix(source), options)

	return LoadRecordsInsideIterator(st, iterFunc, closeFunc)
}
