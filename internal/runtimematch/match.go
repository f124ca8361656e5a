// Package runtimematch implements the overload shape-matching algorithm
// spec §6's runtime test hook calls into: given a recorded call shape and a
// Definition's method overloads, find which overload (if any) the call
// matches, trying each in declaration order and preferring the match whose
// most severe mismatch is least severe. Installing the call-recording shim
// itself is the runtime hook's job, not this package's (spec §6: "The core
// contributes only the shape-matching algorithm; installation is out of
// scope").
package runtimematch

import (
	"fmt"

	"github.com/sigtools/sig/internal/sigast"
)

// Value is a minimal description of one argument or return value the
// runtime hook recorded. Checker is supplied by the caller (the runtime
// hook's own value representation) and reports whether the value satisfies
// a declared type; a nil Checker means only arity is checked, never type.
type Value struct {
	Checker func(t sigast.Type) bool
}

// CallShape is one recorded call: its positional arguments, keyword
// arguments by name, and whether a block was passed.
type CallShape struct {
	Positional []Value
	Keywords   map[string]Value
	HasBlock   bool
}

// MismatchKind tags the error taxonomy entries spec §7 lists under
// "Runtime checking". Argument-shape mismatches (arity, missing/unexpected
// block) are weighted lower than type mismatches, per spec §6, so a
// best-fit search prefers an overload that's merely the wrong shape of
// call over one that accepted the call but rejected a value's type.
type MismatchKind int

const (
	ArgumentError MismatchKind = iota
	ArgumentTypeError
	BlockArgumentError
	BlockArgumentTypeError
	MissingBlockError
	UnexpectedBlockError
)

// weight orders severity for best-diagnostic selection: lower is
// "more superficial", so it's preferred as the reported failure when no
// overload matches outright.
func (k MismatchKind) weight() int {
	switch k {
	case ArgumentError, MissingBlockError, UnexpectedBlockError:
		return 0
	case BlockArgumentError:
		return 1
	case ArgumentTypeError, BlockArgumentTypeError:
		return 2
	default:
		return 3
	}
}

// Mismatch is one reason a call shape failed to match an overload.
type Mismatch struct {
	Kind    MismatchKind
	Message string
}

// Result is the outcome of matching a call against one overload.
type Result struct {
	Overload   *sigast.Overload
	Mismatches []Mismatch
}

// Ok reports whether the call matched the overload with no mismatches.
func (r Result) Ok() bool { return len(r.Mismatches) == 0 }

func (r Result) worstWeight() int {
	w := -1
	for _, m := range r.Mismatches {
		if m.Kind.weight() > w {
			w = m.Kind.weight()
		}
	}
	return w
}

// Match tries every overload in order and returns the first exact match,
// or — if none match — the result with the lowest worst-mismatch weight
// (ties broken by declaration order), matching spec §6's "argument-shape
// errors are weighted lower than type errors when choosing the best
// diagnostic".
func Match(overloads []*sigast.Overload, call CallShape) Result {
	var best Result
	haveBest := false
	for _, ov := range overloads {
		if ov.IsSuper || ov.Fn == nil {
			continue
		}
		r := matchOne(ov, call)
		if r.Ok() {
			return r
		}
		if !haveBest || r.worstWeight() < best.worstWeight() {
			best = r
			haveBest = true
		}
	}
	return best
}

func matchOne(ov *sigast.Overload, call CallShape) Result {
	var mismatches []Mismatch
	ft := ov.Fn

	minPos := len(ft.RequiredPositionals)
	maxPos := minPos + len(ft.OptionalPositionals) + len(ft.TrailingPositionals)
	if ft.RestPositional != nil {
		maxPos = -1 // unbounded
	}
	n := len(call.Positional)
	if n < minPos || (maxPos >= 0 && n > maxPos) {
		mismatches = append(mismatches, Mismatch{
			Kind:    ArgumentError,
			Message: fmt.Sprintf("expected at least %d positional argument(s), got %d", minPos, n),
		})
	} else {
		for i, param := range positionalParams(ft, n) {
			if i >= n {
				break
			}
			checkValue(call.Positional[i], param.Type, &mismatches, ArgumentTypeError)
		}
	}

	for name, param := range ft.RequiredKeywords {
		val, ok := call.Keywords[name]
		if !ok {
			mismatches = append(mismatches, Mismatch{
				Kind:    ArgumentError,
				Message: fmt.Sprintf("missing required keyword argument %s", name),
			})
			continue
		}
		checkValue(val, param.Type, &mismatches, ArgumentTypeError)
	}
	for name, val := range call.Keywords {
		if _, required := ft.RequiredKeywords[name]; required {
			continue
		}
		if param, optional := ft.OptionalKeywords[name]; optional {
			checkValue(val, param.Type, &mismatches, ArgumentTypeError)
			continue
		}
		if ft.RestKeywords == nil {
			mismatches = append(mismatches, Mismatch{
				Kind:    ArgumentError,
				Message: fmt.Sprintf("unexpected keyword argument %s", name),
			})
			continue
		}
		checkValue(val, ft.RestKeywords.Type, &mismatches, ArgumentTypeError)
	}

	if ov.Block == nil && call.HasBlock {
		mismatches = append(mismatches, Mismatch{Kind: UnexpectedBlockError, Message: "no block expected"})
	} else if ov.Block != nil && ov.Block.Required && !call.HasBlock {
		mismatches = append(mismatches, Mismatch{Kind: MissingBlockError, Message: "a block is required"})
	}

	return Result{Overload: ov, Mismatches: mismatches}
}

func positionalParams(ft *sigast.FunctionType, n int) []sigast.Param {
	all := append(append([]sigast.Param(nil), ft.RequiredPositionals...), ft.OptionalPositionals...)
	if ft.RestPositional != nil {
		for len(all) < n-len(ft.TrailingPositionals) {
			all = append(all, *ft.RestPositional)
		}
	}
	all = append(all, ft.TrailingPositionals...)
	return all
}

func checkValue(v Value, t sigast.Type, mismatches *[]Mismatch, kind MismatchKind) {
	if v.Checker == nil {
		return
	}
	if !v.Checker(t) {
		*mismatches = append(*mismatches, Mismatch{Kind: kind, Message: "argument does not satisfy declared type"})
	}
}
