package common

// Serializable is the stored and wire form of a record. Everything the
// storage layer persists goes through Serialize.
type Serializable interface {
	Serialize() ([]byte, error)
}
