package storage

import "os"

func CleanDB(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return
	}

	os.RemoveAll(path)

	return
}

func NewTestMemoryLevelDBBackend() (st *LevelDBBackend, err error) {
	st = &LevelDBBackend{}

	var config *Config
	if config, err = NewConfigFromString("memory://"); err != nil {
		return
	}
	if err = st.Init(config); err != nil {
		return
	}

	return
}

// NewTestStorage returns a memory backed LevelDBBackend for unit tests. It
// panics instead of returning an error so test setup stays short.
func NewTestStorage() *LevelDBBackend {
	st, err := NewTestMemoryLevelDBBackend()
	if err != nil {
		panic(err)
	}

	return st
}

func NewTestFileLevelDBBackend(path string) (st *LevelDBBackend, err error) {
	st = &LevelDBBackend{}

	var config *Config
	if config, err = NewConfigFromString("file://" + path); err != nil {
		return
	}
	if err = st.Init(config); err != nil {
		return
	}

	return
}
