package election

import (
	"time"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/common/keypair"
	"boscoin.io/agora/lib/storage"
)

func TestMakeRegistry(st *storage.LevelDBBackend) (*Registry, *keypair.Full) {
	kp := keypair.Random()
	r := NewRegistry(kp.Address())
	if err := r.Save(st); err != nil {
		panic(err)
	}

	return r, kp
}

func TestMakeFactory(st *storage.LevelDBBackend, registry string) (*Factory, *keypair.Full) {
	kp := keypair.Random()
	f := NewFactory(kp.Address(), registry)
	if err := f.Save(st); err != nil {
		panic(err)
	}

	return f, kp
}

// TestMakeOpenElection saves an election whose window brackets the current
// time by one minute either side.
func TestMakeOpenElection(st *storage.LevelDBBackend, factory, registry string, options ...string) (*Election, *keypair.Full) {
	kp := keypair.Random()

	now := common.Now()
	e := NewElection(
		kp.Address(),
		factory,
		registry,
		"unittest election",
		"made by TestMakeOpenElection",
		now.Add(-time.Minute),
		now.Add(time.Minute),
		"test-public-key",
	)
	for _, name := range options {
		e.Options = append(e.Options, Option{Name: name})
	}

	if err := e.Save(st); err != nil {
		panic(err)
	}

	return e, kp
}

func TestRegisterVoter(st *storage.LevelDBBackend, r *Registry, manager *keypair.Full) *keypair.Full {
	kp := keypair.Random()
	if _, err := RegisterVoter(st, r.Address, manager.Address(), kp.Address(), "unittest voter", "voter@example.com"); err != nil {
		panic(err)
	}

	return kp
}
