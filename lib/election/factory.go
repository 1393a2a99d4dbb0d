package election

import (
	"encoding/json"
	"fmt"
	"time"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/errors"
	"boscoin.io/agora/lib/storage"
)

// models
//  * 'factory'
// 	- 'ef-factory-<Factory.Address>': `Factory`
//  * 'deployed'
// 	- 'ef-deployed-<Factory.Address>-<sequence>': `Election.Address`
//
// The deployed index is append only; `ElectionCount` is both the next
// sequence number and the length of the index.

const FactoryPrefix string = "ef-factory-"
const FactoryDeployedPrefix string = "ef-deployed-"

// Factory creates elections and remembers every one it created, in order.
// The registry reference is fixed at genesis and handed to every election.
type Factory struct {
	Address       string `json:"address"`
	Manager       string `json:"manager"`
	Registry      string `json:"registry"`
	ElectionCount uint64 `json:"election_count"`
	CreatedAt     string `json:"created_at"`
}

func NewFactory(manager, registry string) *Factory {
	f := &Factory{
		Manager:   manager,
		Registry:  registry,
		CreatedAt: common.NowISO8601(),
	}
	f.Address = NewHandle("factory", manager, registry, f.CreatedAt)

	return f
}

func (f *Factory) String() string {
	return string(common.MustMarshalJSON(f))
}

func GetFactoryKey(address string) string {
	return fmt.Sprintf("%s%s", FactoryPrefix, address)
}

func GetFactoryDeployedKey(factory string, sequence uint64) string {
	return fmt.Sprintf("%s%s-%020d", FactoryDeployedPrefix, factory, sequence)
}

func GetFactoryDeployedKeyPrefix(factory string) string {
	return fmt.Sprintf("%s%s-", FactoryDeployedPrefix, factory)
}

func (f *Factory) Save(st *storage.LevelDBBackend) (err error) {
	key := GetFactoryKey(f.Address)

	var exists bool
	if exists, err = st.Has(key); err != nil {
		return
	}

	if exists {
		err = st.Set(key, f)
	} else {
		err = st.New(key, f)
	}

	return
}

func ExistsFactory(st *storage.LevelDBBackend, address string) (bool, error) {
	return st.Has(GetFactoryKey(address))
}

func GetFactory(st *storage.LevelDBBackend, address string) (f *Factory, err error) {
	var exists bool
	if exists, err = ExistsFactory(st, address); err != nil {
		return
	} else if !exists {
		err = errors.FactoryNotFound
		return
	}

	err = st.Get(GetFactoryKey(address), &f)

	return
}

// CreateElection makes a new election owned by the caller, bound to the
// factory's registry, and appends it to the deployed index. Only the
// factory manager may call it; the caller becomes the election manager.
func CreateElection(st *storage.LevelDBBackend, factory, caller, title, description, start string, timeLimit int64, publicKey string) (e *Election, err error) {
	var f *Factory
	if f, err = GetFactory(st, factory); err != nil {
		return
	}

	if f.Manager != caller {
		err = errors.NotFactoryManager
		return
	}

	if timeLimit < 0 {
		err = errors.InvalidOperation.Clone().SetData("error", "negative time limit")
		return
	}

	var startTime time.Time
	if startTime, err = common.ParseISO8601(start); err != nil {
		err = errors.InvalidOperation.Clone().SetData("error", "unparsable start time")
		return
	}
	endTime := startTime.Add(time.Duration(timeLimit) * time.Second)

	e = NewElection(caller, f.Address, f.Registry, title, description, startTime, endTime, publicKey)
	if err = e.Save(st); err != nil {
		e = nil
		return
	}

	if err = st.New(GetFactoryDeployedKey(f.Address, f.ElectionCount), e.Address); err != nil {
		e = nil
		return
	}

	f.ElectionCount++
	if err = f.Save(st); err != nil {
		e = nil
		return
	}

	return
}

// GetDeployedElection resolves the handle at `index` of the deployed
// sequence.
func GetDeployedElection(st *storage.LevelDBBackend, factory string, index uint64) (address string, err error) {
	key := GetFactoryDeployedKey(factory, index)

	var exists bool
	if exists, err = st.Has(key); err != nil {
		return
	} else if !exists {
		err = errors.OutOfRangeIndex
		return
	}

	err = st.Get(key, &address)

	return
}

// GetDeployedElections walks the deployed index in creation order.
func GetDeployedElections(st *storage.LevelDBBackend, factory string, options storage.ListOptions) (func() (string, bool, []byte), func()) {
	iterFunc, closeFunc := st.GetIterator(GetFactoryDeployedKeyPrefix(factory), options)

	return (func() (string, bool, []byte) {
			item, hasNext := iterFunc()
			if !hasNext {
				return "", false, item.Key
			}

			var address string
			json.Unmarshal(item.Value, &address)
			return address, hasNext, item.Key
		}), (func() {
			closeFunc()
		})
}
