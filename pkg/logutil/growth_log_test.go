// Copyright 2022 Matrix Origin
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

package logutil_test

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/symtable/pkg/container/symtable"
	"github.com/matrixorigin/symtable/pkg/logutil"
	"github.com/matrixorigin/symtable/pkg/vm/mmu/host"
)

func readEntries(t *testing.T, filename string) []map[string]any {
	require.NoError(t, logutil.GetGlobalLogger().Sync())
	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var e map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &e), line)
		entries = append(entries, e)
	}
	return entries
}

func findEntry(entries []map[string]any, msg string) map[string]any {
	for _, e := range entries {
		if e["msg"] == msg {
			return e
		}
	}
	return nil
}

func TestSymTableGrowthLogs(t *testing.T) {
	defer logutil.SetupMOLogger(&logutil.LogConfig{Level: "info", Format: "console"})

	filename := filepath.Join(t.TempDir(), "symtable.log")
	logutil.SetupMOLogger(&logutil.LogConfig{Level: "debug", Format: "json", Filename: filename})

	t.Run("grown", func(t *testing.T) {
		tbl, err := symtable.New[int]()
		require.NoError(t, err)
		defer tbl.Free()
		for i := 0; i <= 509; i++ {
			ok, err := tbl.Put(fmt.Sprintf("key-%d", i), i)
			require.NoError(t, err)
			require.True(t, ok)
		}
		require.Equal(t, 1021, tbl.Capacity())

		e := findEntry(readEntries(t, filename), "symtable grown")
		require.NotNil(t, e)
		require.Equal(t, "symtable", e["name"])
		require.Equal(t, "DEBUG", e["level"])
		require.Equal(t, float64(509), e["from"])
		require.Equal(t, float64(1021), e["to"])
		require.Equal(t, float64(510), e["size"])
	})

	t.Run("skipped", func(t *testing.T) {
		mmu := host.New(1 << 20)
		tbl, err := symtable.New[int](symtable.WithMmu(mmu))
		require.NoError(t, err)
		defer tbl.Free()
		for i := 0; i < 509; i++ {
			_, err := tbl.Put(fmt.Sprintf("key-%d", i), i)
			require.NoError(t, err)
		}
		// leave room for one more binding but not for a bigger bucket array
		hog := mmu.Limit() - mmu.Size() - 256
		require.NoError(t, mmu.Alloc(hog))
		defer mmu.Free(hog)

		ok, err := tbl.Put("key-509", 509)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, 509, tbl.Capacity())

		e := findEntry(readEntries(t, filename), "skip symtable growth")
		require.NotNil(t, e)
		require.Equal(t, "symtable", e["name"])
		require.Equal(t, "WARN", e["level"])
		require.Equal(t, float64(509), e["capacity"])
		require.Equal(t, float64(1021), e["next-capacity"])
		require.Equal(t, float64(510), e["size"])
		require.Contains(t, e["error"], "out of memory")
	})
}
