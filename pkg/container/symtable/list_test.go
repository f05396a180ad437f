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

import (
	"fmt"
	"testing"

	"github.com/matrixorigin/symtable/pkg/vm/mmu/host"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestList(t *testing.T) {
	tbl, err := NewList[int](WithLogger(zap.NewNop()))
	require.NoError(t, err)
	defer tbl.Free()
	require.Equal(t, 1, tbl.Capacity())

	var keys []string
	for i := 0; i < 2000; i++ {
		k := fmt.Sprintf("key-%d", i)
		keys = append(keys, k)
		mustPut(t, tbl, k, i)
	}
	require.Equal(t, 1, tbl.Capacity())
	require.Equal(t, 2000, tbl.Len())
	require.Equal(t, 2000, tbl.Stats().LongestChain)

	// a single chain is visited in insertion order
	var got []string
	require.NoError(t, tbl.Map(func(key string, _ int, _ any) {
		got = append(got, key)
	}, nil))
	require.Equal(t, keys, got)

	old, ok := tbl.Replace("key-10", -10)
	require.True(t, ok)
	require.Equal(t, 10, old)

	for _, k := range []string{"key-0", "key-1000", "key-1999"} {
		_, ok := tbl.Remove(k)
		require.True(t, ok)
		require.False(t, tbl.Contains(k))
	}
	require.Equal(t, 1997, tbl.Len())
	v, ok := tbl.Get("key-10")
	require.True(t, ok)
	require.Equal(t, -10, v)
}

func TestListOptions(t *testing.T) {
	m := host.New(1 << 20)
	opts := make([]Option, 1, 4)
	opts[0] = WithMmu(m)
	tbl, err := NewList[string](opts...)
	require.NoError(t, err)
	// the spare capacity of the caller's option slice is left alone
	require.Nil(t, opts[:2][1])
	require.Equal(t, bucketsSize[string](1), m.Size())
	tbl.Free()
	require.Equal(t, int64(0), m.Size())
}
