// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package symtable implements a symbol table: a map from string keys to
// caller-owned values, backed by a separate chaining hash table that grows
// through a fixed sequence of prime bucket counts.
//
// The table copies every key it stores and never looks inside the values,
// it only hands back what was put in. A Table is not safe for concurrent
// use; callers that share one must serialize every operation themselves.
package symtable

import (
	"github.com/matrixorigin/symtable/pkg/common/moerr"
	"github.com/matrixorigin/symtable/pkg/logutil"
	"github.com/matrixorigin/symtable/pkg/vm/mmu/host"
	"go.uber.org/zap"
)

type options struct {
	mmu        *host.Mmu
	logger     *zap.Logger
	capacities []int
}

// Option customizes a Table created by New or NewList.
type Option func(*options)

// WithMmu charges the bucket arrays and bindings of the table to m. Without
// it the table never runs out of memory on its own.
func WithMmu(m *host.Mmu) Option {
	return func(o *options) {
		o.mmu = m
	}
}

// WithLogger replaces the default "symtable" child of the global logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func withCapacities(capacities []int) Option {
	return func(o *options) {
		o.capacities = capacities
	}
}

// Table is a symbol table holding values of type V.
type Table[V any] struct {
	buckets []*binding[V]
	size    int
	growth  growthPolicy
	mmu     *host.Mmu
	logger  *zap.Logger
}

// New returns an empty hash table at the smallest capacity. It fails with
// ErrOOM only if the bucket array does not fit the memory budget.
func New[V any](opts ...Option) (*Table[V], error) {
	o := options{
		capacities: defaultCapacities,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logutil.GetNamedLogger("symtable")
	}

	t := &Table[V]{
		growth: newGrowthPolicy(o.capacities),
		mmu:    o.mmu,
		logger: o.logger,
	}
	n := t.growth.capacity()
	if err := t.alloc(bucketsSize[V](n)); err != nil {
		return nil, err
	}
	t.buckets = make([]*binding[V], n)
	return t, nil
}

// NewList returns a table that keeps every binding on a single chain and
// never grows.
func NewList[V any](opts ...Option) (*Table[V], error) {
	opts = append(opts[:len(opts):len(opts)], withCapacities(listCapacities))
	return New[V](opts...)
}

// Free releases every binding and the bucket array. The table must not be
// used afterwards; doing so panics.
func (t *Table[V]) Free() {
	t.mustBeAlive()
	for i, b := range t.buckets {
		for b != nil {
			next := b.next
			t.free(bindingSize[V](b.key))
			*b = binding[V]{}
			b = next
		}
		t.buckets[i] = nil
	}
	t.free(bucketsSize[V](len(t.buckets)))
	t.buckets = nil
	t.size = 0
}

// Len returns the number of bindings.
func (t *Table[V]) Len() int {
	t.mustBeAlive()
	return t.size
}

// Capacity returns the current bucket count.
func (t *Table[V]) Capacity() int {
	t.mustBeAlive()
	return len(t.buckets)
}

// Put adds a binding from key to value. It returns false, leaving the table
// unchanged, if key is already bound or if the binding cannot be allocated;
// only the latter comes with an error.
func (t *Table[V]) Put(key string, value V) (bool, error) {
	t.mustBeAlive()
	link := seek(t.locate(key), key)
	if *link != nil {
		return false, nil
	}
	if err := t.alloc(bindingSize[V](key)); err != nil {
		return false, err
	}
	*link = newBinding(key, value)
	t.size++

	if t.growth.shouldGrow(t.size) {
		t.grow()
	}
	return true, nil
}

// Replace swaps the value bound to key and returns the previous one. If key
// is absent the table is unchanged and ok is false.
func (t *Table[V]) Replace(key string, value V) (old V, ok bool) {
	t.mustBeAlive()
	b := *seek(t.locate(key), key)
	if b == nil {
		return old, false
	}
	old, b.value = b.value, value
	return old, true
}

// Contains reports whether key is bound.
func (t *Table[V]) Contains(key string) bool {
	t.mustBeAlive()
	return *seek(t.locate(key), key) != nil
}

// Get returns the value bound to key.
func (t *Table[V]) Get(key string) (value V, ok bool) {
	t.mustBeAlive()
	b := *seek(t.locate(key), key)
	if b == nil {
		return value, false
	}
	return b.value, true
}

// Remove unbinds key and returns the value it was bound to. If key is
// absent the table is unchanged and ok is false.
func (t *Table[V]) Remove(key string) (old V, ok bool) {
	t.mustBeAlive()
	link := seek(t.locate(key), key)
	b := *link
	if b == nil {
		return old, false
	}
	*link = b.next
	t.size--
	t.free(bindingSize[V](b.key))

	old = b.value
	*b = binding[V]{}
	return old, true
}

// Map calls fn once per binding with extra passed through untouched.
// Buckets are visited in index order and each chain in insertion order.
// fn must not add or remove bindings.
func (t *Table[V]) Map(fn func(key string, value V, extra any), extra any) error {
	t.mustBeAlive()
	if fn == nil {
		return moerr.NewInvalidArg("map callback", "nil")
	}
	for _, b := range t.buckets {
		for ; b != nil; b = b.next {
			fn(b.key, b.value, extra)
		}
	}
	return nil
}

func (t *Table[V]) locate(key string) **binding[V] {
	return &t.buckets[Hash(key, len(t.buckets))]
}

// grow moves every binding into a bucket array of the next capacity. The
// nodes themselves are relinked, so keys are neither copied nor released.
// If the new array cannot be allocated the table stays as it is.
func (t *Table[V]) grow() {
	from, to := len(t.buckets), t.growth.next()
	if err := t.alloc(bucketsSize[V](to)); err != nil {
		t.logger.Warn("skip symtable growth",
			zap.Int("capacity", from),
			zap.Int("next-capacity", to),
			zap.Int("size", t.size),
			zap.Error(err))
		return
	}

	buckets := make([]*binding[V], to)
	tails := make([]**binding[V], to)
	moved := 0
	for i, b := range t.buckets {
		for b != nil {
			next := b.next
			b.next = nil
			j := Hash(b.key, to)
			if tails[j] == nil {
				tails[j] = &buckets[j]
			}
			*tails[j] = b
			tails[j] = &b.next
			moved++
			b = next
		}
		t.buckets[i] = nil
	}
	if moved != t.size {
		panic(moerr.NewInternalError("symtable growth moved %d bindings, size is %d", moved, t.size))
	}

	t.free(bucketsSize[V](from))
	t.buckets = buckets
	t.size = moved
	t.growth.advance()
	t.logger.Debug("symtable grown",
		zap.Int("from", from),
		zap.Int("to", to),
		zap.Int("size", t.size))
}

func (t *Table[V]) alloc(size int64) error {
	if t.mmu == nil {
		return nil
	}
	return t.mmu.Alloc(size)
}

func (t *Table[V]) free(size int64) {
	if t.mmu == nil {
		return
	}
	t.mmu.Free(size)
}

func (t *Table[V]) mustBeAlive() {
	if t == nil || t.buckets == nil {
		panic(moerr.NewInvalidState("symtable is nil or already freed"))
	}
}
