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

import "golang.org/x/exp/slices"

// defaultCapacities is the bucket count sequence of a hash table. The last
// entry is terminal.
var defaultCapacities = []int{509, 1021, 2039, 4093, 8191, 16381, 32749, 65521}

// listCapacities keeps a table on one chain forever.
var listCapacities = []int{1}

type growthPolicy struct {
	seq    []int
	cursor int
}

func newGrowthPolicy(seq []int) growthPolicy {
	return growthPolicy{seq: slices.Clone(seq)}
}

func (g *growthPolicy) capacity() int {
	return g.seq[g.cursor]
}

func (g *growthPolicy) terminal() bool {
	return g.cursor == len(g.seq)-1
}

// shouldGrow reports whether a table holding size bindings has outgrown
// the current capacity and may still move to a bigger one.
func (g *growthPolicy) shouldGrow(size int) bool {
	return size > g.capacity() && !g.terminal()
}

// next returns the capacity following the current one. It must not be
// called at the terminal capacity.
func (g *growthPolicy) next() int {
	return g.seq[g.cursor+1]
}

func (g *growthPolicy) advance() {
	if !g.terminal() {
		g.cursor++
	}
}
