package fio

import (
	"sync"
	"sync/atomic"
)

// Transfer buffers are large and short-lived per file, so they are
// recycled through a pool. Buffers come in one configured size at a
// time; a stale buffer of another size is simply dropped.
type bufferPool struct {
	pool      sync.Pool
	allocated int64 // atomic: total Get calls
	hits      int64 // atomic: Get calls satisfied from the pool
	inUse     int64 // atomic: buffers currently handed out
}

var transferPool bufferPool

func getBuffer(size int) []byte {
	atomic.AddInt64(&transferPool.allocated, 1)
	atomic.AddInt64(&transferPool.inUse, 1)
	if v := transferPool.pool.Get(); v != nil {
		buf := v.([]byte)
		if cap(buf) >= size {
			atomic.AddInt64(&transferPool.hits, 1)
			return buf[:size]
		}
	}
	return make([]byte, size)
}

func putBuffer(buf []byte) {
	if buf == nil {
		return
	}
	atomic.AddInt64(&transferPool.inUse, -1)
	transferPool.pool.Put(buf[:cap(buf)])
}

// PoolStats returns buffer pool counters: total requests, pool hits and
// buffers currently in use.
func PoolStats() (allocs, hits, inUse int64) {
	return atomic.LoadInt64(&transferPool.allocated),
		atomic.LoadInt64(&transferPool.hits),
		atomic.LoadInt64(&transferPool.inUse)
}
