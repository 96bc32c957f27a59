package muck

import "fmt"

// Conflict records two accepted signatures that share name, scope, arity,
// and kind but differ in type details. Both are kept and emitted; the
// conflict is surfaced so an under-captured qualifier is visible to the
// operator instead of silently producing a wrong overload set.
type Conflict struct {
	Accepted Signature
	Incoming Signature
}

// String formats the conflict for stderr reporting.
func (c Conflict) String() string {
	return fmt.Sprintf("conflicting signatures for %s: %q (%s:%d) vs %q (%s:%d)",
		c.Accepted.QualifiedName(),
		c.Accepted.String(), c.Accepted.File, c.Accepted.Line,
		c.Incoming.String(), c.Incoming.File, c.Incoming.Line)
}

// Dedup reduces signatures in discovery order to one entry per distinct
// signature. Equivalent duplicates (the same declaration seen through
// multiple translation paths) are dropped silently; colliding but
// non-equivalent signatures are accepted anyway and reported as conflicts.
// Dedup never fails: conflicts are warnings, not errors.
func Dedup(sigs []Signature) ([]Signature, []Conflict) {
	var accepted []Signature
	var conflicts []Conflict

	for _, sig := range sigs {
		duplicate := false
		for _, a := range accepted {
			if a.Equivalent(sig) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		for _, a := range accepted {
			if a.CollidesWith(sig) {
				conflicts = append(conflicts, Conflict{Accepted: a, Incoming: sig})
				break
			}
		}

		accepted = append(accepted, sig)
	}

	return accepted, conflicts
}
