package asset

import (
	"hash/fnv"
	"strconv"
)

// Handle names an asset by the FNV-1a hash of its path. The zero Handle is
// invalid.
type Handle uint64

func HandleOf(path string) Handle {
	h := fnv.New64a()
	_, _ = h.Write([]byte(path))
	return Handle(h.Sum64())
}

func (h Handle) Valid() bool {
	return h != 0
}

func (h Handle) String() string {
	return strconv.FormatUint(uint64(h), 16)
}
