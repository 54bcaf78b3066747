package pool

import "sync"

// Slice pools for scratch slices used while writing one node.
var (
	uint64SlicePool = sync.Pool{
		New: func() any { return &[]uint64{} },
	}
	int64SlicePool = sync.Pool{
		New: func() any { return &[]int64{} },
	}
)

// GetUint64Slice retrieves an empty uint64 slice with at least the given capacity.
//
// The caller must call the returned cleanup function to return the slice to the pool.
// The slice must not be used after cleanup.
//
// Example:
//
//	lengths, cleanup := pool.GetUint64Slice(16)
//	defer cleanup()
//	lengths = append(lengths, 4)
func GetUint64Slice(capacity int) ([]uint64, func()) {
	ptr, _ := uint64SlicePool.Get().(*[]uint64)
	slice := (*ptr)[:0]

	if cap(slice) < capacity {
		slice = make([]uint64, 0, capacity)
	}

	return slice, func() {
		*ptr = slice[:0]
		uint64SlicePool.Put(ptr)
	}
}

// GetInt64Slice retrieves an empty int64 slice with at least the given capacity.
//
// The caller must call the returned cleanup function to return the slice to the pool.
func GetInt64Slice(capacity int) ([]int64, func()) {
	ptr, _ := int64SlicePool.Get().(*[]int64)
	slice := (*ptr)[:0]

	if cap(slice) < capacity {
		slice = make([]int64, 0, capacity)
	}

	return slice, func() {
		*ptr = slice[:0]
		int64SlicePool.Put(ptr)
	}
}
