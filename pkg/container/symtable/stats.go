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

import "github.com/RoaringBitmap/roaring"

// Stats describes how bindings are spread over the buckets.
type Stats struct {
	Capacity     int
	Size         int
	UsedBuckets  int
	LongestChain int
	// Occupied holds the index of every non-empty bucket.
	Occupied *roaring.Bitmap
}

// LoadFactor is the average chain length over all buckets.
func (s Stats) LoadFactor() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.Size) / float64(s.Capacity)
}

// Stats walks every chain, it costs as much as a Map.
func (t *Table[V]) Stats() Stats {
	t.mustBeAlive()
	s := Stats{
		Capacity: len(t.buckets),
		Size:     t.size,
		Occupied: roaring.New(),
	}
	for i, b := range t.buckets {
		if b == nil {
			continue
		}
		s.Occupied.Add(uint32(i))
		n := 0
		for ; b != nil; b = b.next {
			n++
		}
		if n > s.LongestChain {
			s.LongestChain = n
		}
	}
	s.UsedBuckets = int(s.Occupied.GetCardinality())
	return s
}
