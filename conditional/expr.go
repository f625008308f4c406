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

// Package conditional implements the expression tree E over a baked
// ConfigRecord (spec §3 "Conditional expressions", §4.1). Scalar,
// Condition, Optional, and Switch are the sum type; Resolve is the single
// visitor every attribute value field is resolved through.
package conditional

import (
	"sort"

	"github.com/builderer/builderer/config"
	"github.com/builderer/builderer/errtag"
)

// Expr is any node of the conditional expression tree: a literal Scalar, a
// plain Seq, an Optional, or a Switch. Attribute values store a Seq of Expr
// uniformly, per spec §3's "Any attribute value field is, uniformly, a
// possibly-nested sequence of scalars and these expression variants."
type Expr interface {
	isExpr()
}

// scalar is a literal leaf value.
type scalar struct{ v config.Scalar }

func (scalar) isExpr() {}

// Scalar builds a literal leaf value.
func Scalar(v config.Scalar) Expr { return scalar{v: v} }

// Seq is a plain (unconditional) sequence of nested expressions.
type Seq []Expr

func (Seq) isExpr() {}

// Condition is a map from config key to either a scalar (equality test) or
// a set of scalars (membership test). An empty Condition is always true.
// Set membership is expressed with SetOf; a bare scalar is a single value.
type Condition map[string]ConditionValue

// ConditionValue is either a single scalar or a finite set of scalars.
type ConditionValue struct {
	scalar config.Scalar
	set    []config.Scalar
	isSet  bool
}

// Val builds an equality-test condition value.
func Val(v config.Scalar) ConditionValue { return ConditionValue{scalar: v} }

// SetOf builds a membership-test condition value.
func SetOf(vs ...config.Scalar) ConditionValue {
	return ConditionValue{set: append([]config.Scalar(nil), vs...), isSet: true}
}

// Case pairs a Condition with the value sequence a Switch yields when it is
// the first matching case. A default case is written as Case{Cond:
// Condition{}, Values: ...} since an empty Condition always holds.
type Case struct {
	Cond   Condition
	Values []Expr
}

// Optional yields Values when Cond holds under the active baked config,
// otherwise the empty sequence.
type Optional struct {
	Cond   Condition
	Values []Expr
}

func (Optional) isExpr() {}

// Switch yields the value sequence of the first Case whose condition holds;
// if none hold, the empty sequence (spec §3, §8 invariant 3).
type Switch struct {
	Cases []Case
}

func (Switch) isExpr() {}

// evalCondition evaluates c against a baked config: AND over keys; for a
// set value, membership. A key absent from cfg is a fatal UnknownConfigKey
// (spec §4.1 rule 5).
func evalCondition(c Condition, cfg config.Baked) (bool, error) {
	// Deterministic key iteration for reproducible error messages.
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		cv := c[k]
		actual, ok := cfg.Get(k)
		if !ok {
			return false, errtag.New(errtag.UnknownConfigKey, k,
				"condition references config key %q not present in baked config", k)
		}
		if cv.isSet {
			found := false
			for _, v := range cv.set {
				if v == actual {
					found = true
					break
				}
			}
			if !found {
				return false, nil
			}
		} else if cv.scalar != actual {
			return false, nil
		}
	}
	return true, nil
}

// Eval evaluates a top-level Condition (such as a target's condition
// attribute, spec §3 "Every target has an optional top-level condition")
// against a baked config, applying the same rules Resolve uses internally
// for Optional/Switch cases.
func Eval(c Condition, cfg config.Baked) (bool, error) {
	return evalCondition(c, cfg)
}


// Resolve flattens expr to a flat sequence of scalars against a baked
// config, in left-to-right, depth-first order, with empty branches
// dropped (spec §3, §4.1).
func Resolve(cfg config.Baked, expr Expr) ([]config.Scalar, error) {
	switch e := expr.(type) {
	case scalar:
		return []config.Scalar{e.v}, nil
	case Seq:
		var out []config.Scalar
		for _, sub := range e {
			vs, err := Resolve(cfg, sub)
			if err != nil {
				return nil, err
			}
			out = append(out, vs...)
		}
		return out, nil
	case Optional:
		hold, err := evalCondition(e.Cond, cfg)
		if err != nil {
			return nil, err
		}
		if !hold {
			return nil, nil
		}
		return Resolve(cfg, Seq(e.Values))
	case Switch:
		for _, c := range e.Cases {
			hold, err := evalCondition(c.Cond, cfg)
			if err != nil {
				return nil, err
			}
			if hold {
				return Resolve(cfg, Seq(c.Values))
			}
		}
		return nil, nil
	default:
		return nil, errtag.New(errtag.MatrixLeakage, "", "unresolvable conditional expression type %T", expr)
	}
}

// ResolveAll is a convenience for resolving a top-level attribute value,
// which is always a Seq per spec §3.
func ResolveAll(cfg config.Baked, values []Expr) ([]config.Scalar, error) {
	return Resolve(cfg, Seq(values))
}

// Literals wraps plain scalar values as an attribute value list, per the
// normalization rule of spec §4.2 ("scalars stored as singletons"). It is
// the common case for attributes that carry no conditionals at all.
func Literals(vals ...config.Scalar) []Expr {
	out := make([]Expr, len(vals))
	for i, v := range vals {
		out[i] = Scalar(v)
	}
	return out
}
