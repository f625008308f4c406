// Copyright 2014 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package matrix implements configuration-matrix baking (spec §4.6): the
// Cartesian-product expansion of a matrix ConfigRecord into the ordered
// list of fully-scalar Baked configs a generate pass walks one at a time.
package matrix

import "github.com/builderer/builderer/config"

// Bake expands every sequence-valued axis of r via Cartesian product,
// holding scalar axes fixed, and returns the resulting baked configs in
// declaration order (the first declared varying axis varies slowest,
// matching spec §4.6 and scenario S3). varyingAxes is the subset of r's
// keys that were sequence-valued, in declaration order; callers use it to
// build each baked config's name slug.
//
// An empty sequence on any axis yields zero baked configs, per spec §8.
func Bake(r *config.Record) (baked []config.Baked, varyingAxes []string) {
	keys := r.Keys()

	var axisValues [][]config.Scalar
	scalarOnly := config.NewRecord()

	for _, k := range keys {
		v, _ := r.Get(k)
		if v.IsSeq() {
			varyingAxes = append(varyingAxes, k)
			axisValues = append(axisValues, v.Values())
			if len(v.Values()) == 0 {
				return nil, varyingAxes
			}
		} else {
			scalarOnly.Set(k, v)
		}
	}

	if len(varyingAxes) == 0 {
		b, ok := scalarOnly.ToBaked()
		if !ok {
			return nil, varyingAxes
		}
		return []config.Baked{b}, varyingAxes
	}

	combos := cartesian(axisValues)
	baked = make([]config.Baked, 0, len(combos))
	for _, combo := range combos {
		rec := config.NewRecord()
		axis := 0
		for _, k := range keys {
			v, _ := r.Get(k)
			if v.IsSeq() {
				rec.Set(k, config.Of(combo[axis]))
				axis++
				continue
			}
			rec.Set(k, v)
		}
		b, ok := rec.ToBaked()
		if !ok {
			continue
		}
		baked = append(baked, b)
	}
	return baked, varyingAxes
}

// cartesian returns the Cartesian product of axisValues such that the
// first axis varies slowest (outer loop), matching spec §4.6 scenario S3:
// architecture=[x86-64,arm64], build_config=[debug,release] bakes to
// [(x86-64,debug),(x86-64,release),(arm64,debug),(arm64,release)].
func cartesian(axisValues [][]config.Scalar) [][]config.Scalar {
	result := [][]config.Scalar{{}}
	for _, values := range axisValues {
		var next [][]config.Scalar
		for _, prefix := range result {
			for _, v := range values {
				combo := append(append([]config.Scalar(nil), prefix...), v)
				next = append(next, combo)
			}
		}
		result = next
	}
	return result
}
