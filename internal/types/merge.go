package types

import (
	"github.com/fluxlang/fluxc/internal/errors"
)

// Merge computes the least upper bound of two types for contexts like list
// literal elements, if/else branches, and generic argument accumulation
// (spec §4.4.3). pos is used only to build the error when no merge exists.
func Merge(r Resolver, a, b Type, pos errors.Position) (Type, error) {
	if structurallyEqual(a, b) {
		return a, nil
	}
	if IsNothing(a) {
		return b, nil
	}
	if IsNothing(b) {
		return a, nil
	}
	if Assignable(r, b, a) {
		return b, nil
	}
	if Assignable(r, a, b) {
		return a, nil
	}
	return nil, errors.Wrap(errors.New("check", "TYP002", pos,
		"cannot merge incompatible types %s and %s", a.String(), b.String()))
}

// MergeAll folds Merge left to right over a non-empty slice.
func MergeAll(r Resolver, pos errors.Position, types ...Type) (Type, error) {
	if len(types) == 0 {
		return Nothing{}, nil
	}
	acc := types[0]
	for _, t := range types[1:] {
		merged, err := Merge(r, acc, t, pos)
		if err != nil {
			return nil, err
		}
		acc = merged
	}
	return acc, nil
}
