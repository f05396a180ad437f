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

package symtable

import "unsafe"

type binding[V any] struct {
	key   string
	value V
	next  *binding[V]
}

func newBinding[V any](key string, value V) *binding[V] {
	return &binding[V]{
		key:   cloneKey(key),
		value: value,
	}
}

// cloneKey returns a copy of key backed by memory the table owns.
func cloneKey(key string) string {
	if len(key) == 0 {
		return ""
	}
	return string([]byte(key))
}

// seek walks the chain starting at link. It returns the link pointing at the
// binding for key, or the nil link at the end of the chain if key is absent,
// so callers can insert at the tail or unlink in place.
func seek[V any](link **binding[V], key string) **binding[V] {
	for *link != nil && (*link).key != key {
		link = &(*link).next
	}
	return link
}

// bindingSize is the number of bytes charged for a binding holding key.
func bindingSize[V any](key string) int64 {
	return int64(unsafe.Sizeof(binding[V]{})) + int64(len(key))
}

// bucketsSize is the number of bytes charged for a bucket array.
func bucketsSize[V any](n int) int64 {
	return int64(n) * int64(unsafe.Sizeof((*binding[V])(nil)))
}
