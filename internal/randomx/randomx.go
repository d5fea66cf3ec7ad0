// Package randomx bridges to the RandomX C library (github.com/tevador/RandomX),
// the hash function the K2 PoW engine (spec §4.5) is built on. It mirrors
// the teacher's internal/postrs cgo bridge to libpost: a thin wrapper
// around the C API with Go-side lifetime management for the cache/
// dataset/VM triple.
package randomx

// #cgo LDFLAGS: -lrandomx -lstdc++
// #include <stdlib.h>
// #include "randomx.h"
//
// static randomx_flags defaultFlags() { return randomx_get_flags(); }
import "C"

import (
	"errors"
	"runtime"
	"unsafe"
)

// Mode selects between the Fast (full dataset, ~2 GiB, ~10x throughput)
// and Light (cache only, ~256 MiB) RandomX configurations (spec §4.5).
type Mode int

const (
	ModeLight Mode = iota
	ModeFast
)

var (
	ErrCacheAllocFailed   = errors.New("randomx: cache allocation failed")
	ErrDatasetAllocFailed = errors.New("randomx: dataset allocation failed")
	ErrVMAllocFailed      = errors.New("randomx: vm allocation failed")
)

// VM wraps a RandomX cache (+ optional dataset) and one virtual machine.
// It is single-owner: callers must not share a VM across goroutines
// without external synchronization (spec §5 "the RandomX VM is mutable
// and single-owner per worker thread").
type VM struct {
	mode    Mode
	flags   C.randomx_flags
	cache   *C.randomx_cache
	dataset *C.randomx_dataset
	vm      *C.randomx_vm
	key     []byte
}

// NewVM allocates a cache (and, in Fast mode, a full dataset) keyed by
// key, and creates the RandomX VM over it.
func NewVM(mode Mode, key []byte) (*VM, error) {
	flags := C.defaultFlags()
	if mode == ModeFast {
		flags |= C.RANDOMX_FLAG_FULL_MEM
	}

	cache := C.randomx_alloc_cache(flags)
	if cache == nil {
		return nil, ErrCacheAllocFailed
	}

	keyPtr := C.CBytes(key)
	defer C.free(keyPtr)
	C.randomx_init_cache(cache, keyPtr, C.size_t(len(key)))

	v := &VM{mode: mode, flags: flags, cache: cache, key: append([]byte(nil), key...)}

	if mode == ModeFast {
		dataset := C.randomx_alloc_dataset(flags)
		if dataset == nil {
			C.randomx_release_cache(cache)
			return nil, ErrDatasetAllocFailed
		}
		itemCount := C.randomx_dataset_item_count()
		initDataset(dataset, cache, itemCount)
		v.dataset = dataset
	}

	vm := C.randomx_create_vm(flags, cache, v.dataset)
	if vm == nil {
		v.Close()
		return nil, ErrVMAllocFailed
	}
	v.vm = vm

	runtime.SetFinalizer(v, (*VM).Close)
	return v, nil
}

// initDataset initializes the full dataset across the available CPUs,
// splitting the item range evenly, mirroring the reference RandomX
// miner's parallel dataset init.
func initDataset(dataset *C.randomx_dataset, cache *C.randomx_cache, itemCount C.ulong) {
	threads := runtime.NumCPU()
	if threads < 1 {
		threads = 1
	}
	per := uint64(itemCount) / uint64(threads)
	if per == 0 {
		C.randomx_init_dataset(dataset, cache, 0, itemCount)
		return
	}
	done := make(chan struct{}, threads)
	for t := 0; t < threads; t++ {
		start := uint64(t) * per
		count := per
		if t == threads-1 {
			count = uint64(itemCount) - start
		}
		go func(start, count uint64) {
			C.randomx_init_dataset(dataset, cache, C.ulong(start), C.ulong(count))
			done <- struct{}{}
		}(start, count)
	}
	for t := 0; t < threads; t++ {
		<-done
	}
}

// Key reports the key this VM was initialized with.
func (v *VM) Key() []byte { return v.key }

// Hash computes RandomX(key, input) and returns the 32-byte digest.
func (v *VM) Hash(input []byte) [32]byte {
	var out [32]byte
	inputPtr := C.CBytes(input)
	defer C.free(inputPtr)
	C.randomx_calculate_hash(v.vm, inputPtr, C.size_t(len(input)), unsafe.Pointer(&out[0]))
	return out
}

// Close releases the VM, dataset and cache. Safe to call multiple times.
func (v *VM) Close() error {
	runtime.SetFinalizer(v, nil)
	if v.vm != nil {
		C.randomx_destroy_vm(v.vm)
		v.vm = nil
	}
	if v.dataset != nil {
		C.randomx_release_dataset(v.dataset)
		v.dataset = nil
	}
	if v.cache != nil {
		C.randomx_release_cache(v.cache)
		v.cache = nil
	}
	return nil
}
