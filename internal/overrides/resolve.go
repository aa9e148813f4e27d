// Package overrides reduces fake-override members to the real declarations
// they stand for.
package overrides

import (
	"errors"
	"fmt"
	"slices"

	"irpack/internal/ir"
)

// ErrNoRealMember reports a fake override whose override edges never reach
// a concretely declared member.
var ErrNoRealMember = errors.New("no real member behind fake override")

// Resolve returns the most-derived real members a fake override stands for.
// A real declaration resolves to itself.
//
// The result is ordered by the length of the longest override chain below
// each member, descending, then by first discovery in a depth-first walk
// over the declared order of overridden symbols.
func Resolve(d ir.Declaration) ([]ir.Declaration, error) {
	switch d := d.(type) {
	case *ir.Function:
		fns, err := resolveFunction(d)
		if err != nil {
			return nil, err
		}
		out := make([]ir.Declaration, len(fns))
		for i, fn := range fns {
			out[i] = fn
		}
		return out, nil
	case *ir.Property:
		return resolveProperty(d)
	default:
		if d.Base().IsFakeOverride() {
			return nil, fmt.Errorf("%s %s: %w", d.Kind(), ir.NameOf(d), ErrNoRealMember)
		}
		return []ir.Declaration{d}, nil
	}
}

// Representative picks the single member a fake-override reference is
// compacted to: the first of Resolve.
func Representative(d ir.Declaration) (ir.Declaration, error) {
	reals, err := Resolve(d)
	if err != nil {
		return nil, err
	}
	return reals[0], nil
}

func resolveProperty(p *ir.Property) ([]ir.Declaration, error) {
	if !p.IsFakeOverride() {
		return []ir.Declaration{p}, nil
	}
	if p.Getter == nil {
		return nil, fmt.Errorf("property %s has no getter to follow: %w", p.Name, ErrNoRealMember)
	}
	getters, err := resolveFunction(p.Getter)
	if err != nil {
		return nil, err
	}
	var out []ir.Declaration
	for _, g := range getters {
		owner, ok := g.CorrespondingProperty.Owner().(*ir.Property)
		if !ok {
			return nil, fmt.Errorf("accessor %s has no property: %w", g.Name, ErrNoRealMember)
		}
		if !slices.Contains(out, ir.Declaration(owner)) {
			out = append(out, owner)
		}
	}
	return out, nil
}

func overridden(fn *ir.Function) ([]*ir.Function, error) {
	out := make([]*ir.Function, 0, len(fn.Overridden))
	for _, s := range fn.Overridden {
		target, ok := s.Owner().(*ir.Function)
		if !ok {
			return nil, fmt.Errorf("function %s overrides unbound or non-function symbol %s", fn.Name, s)
		}
		out = append(out, target)
	}
	return out, nil
}

func resolveFunction(fn *ir.Function) ([]*ir.Function, error) {
	if !fn.IsFakeOverride() {
		return []*ir.Function{fn}, nil
	}

	var candidates []*ir.Function
	visited := map[*ir.Function]bool{fn: true}
	var walk func(*ir.Function) error
	walk = func(f *ir.Function) error {
		parents, err := overridden(f)
		if err != nil {
			return err
		}
		for _, p := range parents {
			if visited[p] {
				continue
			}
			visited[p] = true
			if !p.IsFakeOverride() {
				candidates = append(candidates, p)
				continue
			}
			if err := walk(p); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(fn); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("function %s: %w", fn.Name, ErrNoRealMember)
	}

	kept := candidates[:0:0]
	for _, c := range candidates {
		shadowed := false
		for _, other := range candidates {
			if other == c {
				continue
			}
			reach, err := reachable(other)
			if err != nil {
				return nil, err
			}
			if reach[c] {
				shadowed = true
				break
			}
		}
		if !shadowed {
			kept = append(kept, c)
		}
	}

	depths := make(map[*ir.Function]int)
	for _, c := range kept {
		if _, err := depth(c, depths, map[*ir.Function]bool{}); err != nil {
			return nil, err
		}
	}
	slices.SortStableFunc(kept, func(a, b *ir.Function) int {
		return depths[b] - depths[a]
	})
	return kept, nil
}

// reachable returns every function reachable from f through override edges.
func reachable(f *ir.Function) (map[*ir.Function]bool, error) {
	seen := make(map[*ir.Function]bool)
	stack := []*ir.Function{f}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		parents, err := overridden(top)
		if err != nil {
			return nil, err
		}
		for _, p := range parents {
			if !seen[p] {
				seen[p] = true
				stack = append(stack, p)
			}
		}
	}
	return seen, nil
}

// depth is the length of the longest override chain below f.
func depth(f *ir.Function, memo map[*ir.Function]int, onPath map[*ir.Function]bool) (int, error) {
	if d, ok := memo[f]; ok {
		return d, nil
	}
	if onPath[f] {
		return 0, fmt.Errorf("function %s: override cycle", f.Name)
	}
	onPath[f] = true
	defer delete(onPath, f)
	parents, err := overridden(f)
	if err != nil {
		return 0, err
	}
	best := 0
	for _, p := range parents {
		d, err := depth(p, memo, onPath)
		if err != nil {
			return 0, err
		}
		best = max(best, d+1)
	}
	memo[f] = best
	return best, nil
}
