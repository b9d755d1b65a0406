// Package symbol manages symbols. Symbols are deduped strings represented as
// small integers.
package symbol

import (
	"sync"

	"github.com/grailbio/base/log"
	"github.com/uguisu-dev/uguisu/hash"
)

// ID represents an interned symbol.
type ID int32

const (
	// Invalid is a sentinel.
	Invalid = ID(0)
)

type idInfo struct {
	name string
	hash hash.Hash
}

// Singleton symbol intern table. Reads take the lock too; intern traffic is
// front-end only, so contention is not a concern.
type table struct {
	sync.RWMutex
	syms map[string]ID
	ids  []idInfo
}

var symbols = table{
	syms: map[string]ID{"(invalid)": Invalid},
	ids:  []idInfo{{"(invalid)", hash.String("(invalid)")}},
}

// Hash hashes a symbol.
func (id ID) Hash() hash.Hash {
	symbols.RLock()
	defer symbols.RUnlock()
	return symbols.ids[id].hash
}

// Str returns a human-readable string.
//
// Note: we don't call it String() since it makes the code deadlock prone.
func (id ID) Str() string {
	symbols.RLock()
	defer symbols.RUnlock()
	if int(id) >= len(symbols.ids) {
		log.Panicf("symboltable: id %d not found", id)
	}
	return symbols.ids[id].name
}

// Intern finds or creates an ID for the given string.
func Intern(v string) ID {
	if v == "" {
		log.Panicf("Empty symbol")
	}
	symbols.RLock()
	id, ok := symbols.syms[v]
	symbols.RUnlock()
	if ok {
		return id
	}

	symbols.Lock()
	defer symbols.Unlock()
	if id, ok := symbols.syms[v]; ok {
		return id
	}
	id = ID(len(symbols.ids))
	symbols.ids = append(symbols.ids, idInfo{v, hash.String(v)})
	symbols.syms[v] = id
	return id
}
