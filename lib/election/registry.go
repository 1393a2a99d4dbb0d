//
// Package election holds the domain records and the operations on them: the
// voter registry, the election factory and the election state machine. Every
// mutating function takes the caller address explicitly and checks it before
// touching storage; callers that need several writes to land together run
// them inside one storage transaction.
//
package election

import (
	"fmt"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/common/keypair"
	"boscoin.io/agora/lib/common/observer"
	"boscoin.io/agora/lib/errors"
	"boscoin.io/agora/lib/storage"
)

// models
//  * 'registry'
// 	- 'vr-registry-<Registry.Address>': `Registry`
//  * 'voter'
// 	- 'vr-voter-<Registry.Address>-<Voter.Address>': `Voter`
//  * 'count'
// 	- 'vr-count-<Registry.Address>': number of currently registered voters

const RegistryPrefix string = "vr-registry-"
const VoterPrefix string = "vr-voter-"
const VoterCountPrefix string = "vr-count-"

// Registry is the singleton eligibility authority. Only `Manager` may
// change who is registered under it.
type Registry struct {
	Address   string `json:"address"`
	Manager   string `json:"manager"`
	CreatedAt string `json:"created_at"`
}

type Voter struct {
	Registry   string `json:"registry"`
	Address    string `json:"address"`
	Name       string `json:"name"`
	Contact    string `json:"contact"`
	Registered bool   `json:"registered"`
	UpdatedAt  string `json:"updated_at"`
}

func NewRegistry(manager string) *Registry {
	r := &Registry{
		Manager:   manager,
		CreatedAt: common.NowISO8601(),
	}
	r.Address = NewHandle("registry", manager, r.CreatedAt)

	return r
}

func (r *Registry) String() string {
	return string(common.MustMarshalJSON(r))
}

func GetRegistryKey(address string) string {
	return fmt.Sprintf("%s%s", RegistryPrefix, address)
}

func GetVoterKey(registry, address string) string {
	return fmt.Sprintf("%s%s-%s", VoterPrefix, registry, address)
}

func GetVoterKeyPrefix(registry string) string {
	return fmt.Sprintf("%s%s-", VoterPrefix, registry)
}

func GetVoterCountKey(registry string) string {
	return fmt.Sprintf("%s%s", VoterCountPrefix, registry)
}

func (r *Registry) Save(st *storage.LevelDBBackend) (err error) {
	key := GetRegistryKey(r.Address)

	var exists bool
	if exists, err = st.Has(key); err != nil {
		return
	}

	if exists {
		err = st.Set(key, r)
	} else {
		err = st.New(key, r)
	}

	return
}

func ExistsRegistry(st *storage.LevelDBBackend, address string) (bool, error) {
	return st.Has(GetRegistryKey(address))
}

func GetRegistry(st *storage.LevelDBBackend, address string) (r *Registry, err error) {
	var exists bool
	if exists, err = ExistsRegistry(st, address); err != nil {
		return
	} else if !exists {
		err = errors.RegistryNotFound
		return
	}

	err = st.Get(GetRegistryKey(address), &r)

	return
}

func (v *Voter) String() string {
	return string(common.MustMarshalJSON(v))
}

func (v *Voter) Save(st *storage.LevelDBBackend) (err error) {
	key := GetVoterKey(v.Registry, v.Address)

	var exists bool
	if exists, err = st.Has(key); err != nil {
		return
	}

	if exists {
		err = st.Set(key, v)
	} else {
		err = st.New(key, v)
	}
	if err == nil {
		event := "saved"
		event += " " + fmt.Sprintf("address-%s", v.Address)
		observer.VoterObserver.Trigger(event, v)
	}

	return
}

func ExistsVoter(st *storage.LevelDBBackend, registry, address string) (bool, error) {
	return st.Has(GetVoterKey(registry, address))
}

func GetVoter(st *storage.LevelDBBackend, registry, address string) (v *Voter, err error) {
	var exists bool
	if exists, err = ExistsVoter(st, registry, address); err != nil {
		return
	} else if !exists {
		err = errors.VoterNotFound
		return
	}

	err = st.Get(GetVoterKey(registry, address), &v)

	return
}

// IsVoter reports whether `address` is currently registered. Unknown
// addresses are simply not voters.
func IsVoter(st *storage.LevelDBBackend, registry, address string) (bool, error) {
	exists, err := ExistsVoter(st, registry, address)
	if err != nil || !exists {
		return false, err
	}

	var v *Voter
	if err = st.Get(GetVoterKey(registry, address), &v); err != nil {
		return false, err
	}

	return v.Registered, nil
}

// GetVoterCount returns the maintained counter; it is never derived by
// scanning the voter records.
func GetVoterCount(st *storage.LevelDBBackend, registry string) (count uint64, err error) {
	key := GetVoterCountKey(registry)

	var exists bool
	if exists, err = st.Has(key); err != nil || !exists {
		return
	}

	err = st.Get(key, &count)

	return
}

func setVoterCount(st *storage.LevelDBBackend, registry string, count uint64) (err error) {
	key := GetVoterCountKey(registry)

	var exists bool
	if exists, err = st.Has(key); err != nil {
		return
	}

	if exists {
		err = st.Set(key, count)
	} else {
		err = st.New(key, count)
	}

	return
}

// RegisterVoter upserts the voter record under `registry` and marks it
// registered. The counter moves only when the voter was not registered
// before, so re-registering is idempotent. Only the registry manager may
// call it.
func RegisterVoter(st *storage.LevelDBBackend, registry, caller, address, name, contact string) (v *Voter, err error) {
	var r *Registry
	if r, err = GetRegistry(st, registry); err != nil {
		return
	}

	if r.Manager != caller {
		err = errors.NotRegistryManager
		return
	}

	if _, err = keypair.Parse(address); err != nil {
		err = errors.BadPublicAddress.Clone().SetData("address", address)
		return
	}

	var wasRegistered bool
	var exists bool
	if exists, err = ExistsVoter(st, registry, address); err != nil {
		return
	}
	if exists {
		if v, err = GetVoter(st, registry, address); err != nil {
			return
		}
		wasRegistered = v.Registered

		v.Name = name
		v.Contact = contact
		v.Registered = true
		v.UpdatedAt = common.NowISO8601()
	} else {
		v = &Voter{
			Registry:   registry,
			Address:    address,
			Name:       name,
			Contact:    contact,
			Registered: true,
			UpdatedAt:  common.NowISO8601(),
		}
	}

	if err = v.Save(st); err != nil {
		return
	}

	if !wasRegistered {
		var count uint64
		if count, err = GetVoterCount(st, registry); err != nil {
			return
		}
		if err = setVoterCount(st, registry, count+1); err != nil {
			return
		}
	}

	return
}

// UnregisterVoter keeps the voter record but flips it to unregistered. The
// counter moves only on a real transition. Only the registry manager may
// call it.
func UnregisterVoter(st *storage.LevelDBBackend, registry, caller, address string) (v *Voter, err error) {
	var r *Registry
	if r, err = GetRegistry(st, registry); err != nil {
		return
	}

	if r.Manager != caller {
		err = errors.NotRegistryManager
		return
	}

	if v, err = GetVoter(st, registry, address); err != nil {
		return
	}

	if !v.Registered {
		return
	}

	v.Registered = false
	v.UpdatedAt = common.NowISO8601()
	if err = v.Save(st); err != nil {
		return
	}

	var count uint64
	if count, err = GetVoterCount(st, registry); err != nil {
		return
	}
	if count > 0 {
		err = setVoterCount(st, registry, count-1)
	}

	return
}
