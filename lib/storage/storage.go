package storage

type IterItem struct {
	N     uint64
	Key   []byte
	Value []byte
}

// Clone copies the key and value out of the iterator's internal buffers,
// which are reused on the next call.
func (i IterItem) Clone() IterItem {
	item := IterItem{N: i.N}

	item.Key = make([]byte, len(i.Key))
	copy(item.Key, i.Key)

	item.Value = make([]byte, len(i.Value))
	copy(item.Value, i.Value)

	return item
}
