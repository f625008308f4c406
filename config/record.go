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

// Package config implements ConfigRecords (spec §3): the mapping from
// string keys to scalar-or-sequence values that parameterizes a workspace,
// and the Baked form every conditional expression ultimately resolves
// against.
package config

import "fmt"

// Reserved config keys, per spec §3.
const (
	KeyPlatform     = "platform"
	KeyArchitecture = "architecture"
	KeyBuildTool    = "buildtool"
	KeyToolchain    = "toolchain"
	KeyBuildConfig  = "build_config"
	KeyBuildRoot    = "build_root"
	KeySandboxRoot  = "sandbox_root"
)

// Scalar is a string, number (int64/float64), or bool. It is an alias for
// interface{} rather than a distinct named type, so values of these kinds
// are stored as-is and compared directly with ==.
type Scalar = interface{}

// Value is one axis of a ConfigRecord: either a single scalar or a finite
// ordered sequence of scalars.
type Value struct {
	seq   []Scalar
	isSeq bool
}

// Of builds a scalar-valued axis.
func Of(v Scalar) Value {
	return Value{seq: []Scalar{v}}
}

// OfSeq builds a sequence-valued axis. An empty sequence is valid and, per
// spec §8, causes matrix baking to yield zero baked configs.
func OfSeq(vs ...Scalar) Value {
	return Value{seq: append([]Scalar(nil), vs...), isSeq: true}
}

// IsSeq reports whether this axis was declared as a sequence, regardless of
// its length; a one-element sequence is still a matrix axis.
func (v Value) IsSeq() bool { return v.isSeq }

// Values returns the axis's scalar values in declaration order.
func (v Value) Values() []Scalar { return v.seq }

// Scalar returns the axis's single value. Panics if the axis is a
// sequence; callers should check IsSeq first.
func (v Value) Scalar() Scalar {
	if v.isSeq {
		panic("config: Scalar() called on a sequence-valued axis")
	}
	if len(v.seq) == 0 {
		return nil
	}
	return v.seq[0]
}

// Record is an ordered mapping from config key to Value. Order is
// declaration order and determines Cartesian product order during matrix
// baking (spec §4.6) and the left-to-right composition of a baked config's
// name slug.
type Record struct {
	keys   []string
	values map[string]Value
}

// NewRecord builds an empty, ordered ConfigRecord.
func NewRecord() *Record {
	return &Record{values: make(map[string]Value)}
}

// Set inserts or overwrites an axis, preserving first-insertion order.
func (r *Record) Set(key string, v Value) *Record {
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
	return r
}

// Keys returns axis names in declaration order.
func (r *Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Get looks up an axis by key.
func (r *Record) Get(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// IsBaked reports whether every axis holds a scalar.
func (r *Record) IsBaked() bool {
	for _, k := range r.keys {
		if r.values[k].IsSeq() {
			return false
		}
	}
	return true
}

// Baked is a ConfigRecord all of whose axes are scalar, the only form
// conditional.Resolve accepts.
type Baked struct {
	keys   []string
	values map[string]Scalar
}

// ToBaked converts a fully-scalar Record into a Baked config. ok is false
// if any axis is still sequence-valued.
func (r *Record) ToBaked() (Baked, bool) {
	b := Baked{values: make(map[string]Scalar, len(r.keys))}
	for _, k := range r.keys {
		v := r.values[k]
		if v.IsSeq() {
			return Baked{}, false
		}
		b.keys = append(b.keys, k)
		b.values[k] = v.Scalar()
	}
	return b, true
}

// Get looks up a scalar by key.
func (b Baked) Get(key string) (Scalar, bool) {
	v, ok := b.values[key]
	return v, ok
}

// Keys returns axis names in declaration order.
func (b Baked) Keys() []string {
	return append([]string(nil), b.keys...)
}

// Slug assembles the stable, path/identifier-safe name for this baked
// config from the given axis names, in the order given, joined with ".".
// Callers (matrix baking) pass the subset of axes that actually varied
// across the matrix so unrelated scalar axes don't bloat the slug.
func (b Baked) Slug(axes ...string) string {
	s := ""
	for i, a := range axes {
		v, ok := b.values[a]
		if !ok {
			continue
		}
		if i > 0 && s != "" {
			s += "."
		}
		s += fmt.Sprintf("%v", v)
	}
	return s
}

func (b Baked) String() string {
	return fmt.Sprintf("%v", b.values)
}
