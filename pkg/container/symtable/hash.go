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

import "github.com/matrixorigin/symtable/pkg/common/moerr"

const hashMultiplier uint64 = 65599

// Hash maps key to a bucket index in [0, bucketCount).
//
// The accumulator is a wrapping uint64 fed byte by byte, multiply first and
// add second, and only the final value is reduced. Any change to that order,
// the multiplier or the accumulator width moves keys to different buckets.
func Hash(key string, bucketCount int) int {
	if bucketCount <= 0 {
		panic(moerr.NewInvalidArg("bucket count", bucketCount))
	}
	var h uint64
	for i := 0; i < len(key); i++ {
		h = h*hashMultiplier + uint64(key[i])
	}
	return int(h % uint64(bucketCount))
}
