package model

import (
	"fmt"
	"hash/fnv"
)

// IDAllocator hands out ids per node kind. An id is a hash of the node's qualified
// key, so adding or removing unrelated nodes leaves it unchanged. Collisions and
// duplicate keys are resolved by rehashing with an ordinal suffix.
type IDAllocator struct {
	used map[string]map[ID]bool
}

// NewIDAllocator returns an empty allocator.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{used: make(map[string]map[ID]bool)}
}

// Assign returns the id for key within kind.
func (a *IDAllocator) Assign(kind, key string) ID {
	used, ok := a.used[kind]
	if !ok {
		used = make(map[ID]bool)
		a.used[kind] = used
	}
	for n := 0; ; n++ {
		k := key
		if n > 0 {
			k = fmt.Sprintf("%s#%d", key, n)
		}
		id := HashID(k)
		if !used[id] {
			used[id] = true
			return id
		}
	}
}

// HashID maps a key into the positive 31-bit range; 0 is reserved for "no id".
func HashID(key string) ID {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	id := ID(h.Sum32() & 0x7fffffff)
	if id == 0 {
		id = 1
	}
	return id
}
