// Package boolean implements a boolean circuit value as a sum type with
// exactly three variants: a compile-time constant bit, a reference to a wire
// constrained to {0,1}, and the logical negation of such a reference.
package boolean

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/simpleworks/zkgadgets/r1cs"
)

// ErrMissingAssignment is returned when allocating under Constant mode
// without a value: a constant bit must be known at construction time.
var ErrMissingAssignment = errors.New("boolean: constant allocation requires a value")

// Boolean is a circuit bit. The interface is sealed; the three
// implementations are ConstBool, *AllocatedBool and NotBool.
type Boolean interface {
	// Value returns the cleartext bit and whether it is known under the
	// current assignment.
	Value() (bool, bool)

	isBoolean()
}

// ConstBool is a compile-time constant bit. It never touches the constraint
// system.
type ConstBool bool

func (ConstBool) isBoolean() {}

// Value implements Boolean.
func (b ConstBool) Value() (bool, bool) { return bool(b), true }

// AllocatedBool is a bit backed by an allocated wire, constrained once to be
// 0 or 1.
type AllocatedBool struct {
	sys    *r1cs.System
	wireID int
}

func (*AllocatedBool) isBoolean() {}

// WireID returns the id of the backing wire.
func (b *AllocatedBool) WireID() int { return b.wireID }

// Value implements Boolean; it reads the wire assignment from the system.
func (b *AllocatedBool) Value() (bool, bool) {
	v, ok := b.sys.WireValue(b.wireID)
	if !ok {
		return false, false
	}
	return v.IsOne(), true
}

// NotBool is the logical negation of an allocated bit. Negation is free:
// no wire, no constraint, only a sign flip in the bit's algebraic
// contribution ("one minus the value").
type NotBool struct {
	B *AllocatedBool
}

func (NotBool) isBoolean() {}

// Value implements Boolean.
func (b NotBool) Value() (bool, bool) {
	v, ok := b.B.Value()
	return !v, ok
}

// Alloc allocates a bit under the given mode. value may be nil during a
// setup-only pass: the wire is allocated and constrained, but carries no
// assignment. Constant mode allocates nothing and requires a value.
func Alloc(sys *r1cs.System, value *bool, mode r1cs.Mode) (Boolean, error) {
	if mode == r1cs.Constant {
		if value == nil {
			return nil, ErrMissingAssignment
		}
		return ConstBool(*value), nil
	}

	var assignment *fr.Element
	if value != nil {
		var v fr.Element
		if *value {
			v.SetOne()
		}
		assignment = &v
	}
	wireID := sys.NewWire(mode.WireVisibility(), assignment)

	if !sys.IsBoolean(wireID) {
		// b ⋅ (1 − b) == 0
		one := frOne()
		var minusOne fr.Element
		minusOne.Neg(&one)
		L := sys.AddTerm(nil, wireID, &one)
		R := sys.AddTerm(nil, sys.OneWireID(), &one)
		R = sys.AddTerm(R, wireID, &minusOne)
		sys.EnforceR1C(L, R, nil)
		sys.MarkBoolean(wireID)
	}

	return &AllocatedBool{sys: sys, wireID: wireID}, nil
}

// Not returns the logical negation of b. It costs nothing: constants fold,
// allocated bits are wrapped, negated bits are unwrapped.
func Not(b Boolean) Boolean {
	switch v := b.(type) {
	case ConstBool:
		return ConstBool(!v)
	case *AllocatedBool:
		return NotBool{B: v}
	case NotBool:
		return v.B
	}
	panic("boolean: unknown variant")
}

// AppendTerm folds the algebraic value of b, scaled by coeff, into l: a
// constant contributes coeff iff it is true, an allocated bit contributes
// coeff⋅wire, and a negated bit contributes coeff⋅1 − coeff⋅wire.
func AppendTerm(sys *r1cs.System, l r1cs.LinearCombination, b Boolean, coeff *fr.Element) r1cs.LinearCombination {
	switch v := b.(type) {
	case ConstBool:
		if v {
			l = sys.AddTerm(l, sys.OneWireID(), coeff)
		}
		return l
	case *AllocatedBool:
		return sys.AddTerm(l, v.wireID, coeff)
	case NotBool:
		var neg fr.Element
		neg.Neg(coeff)
		l = sys.AddTerm(l, sys.OneWireID(), coeff)
		return sys.AddTerm(l, v.B.wireID, &neg)
	}
	panic("boolean: unknown variant")
}

// Xor returns a bit equal to a ⊕ b. Xor with a constant folds for free; the
// general case allocates one bit and enforces (2a) ⋅ b == a + b − c.
func Xor(sys *r1cs.System, a, b Boolean) (Boolean, error) {
	if c, ok := a.(ConstBool); ok {
		if bool(c) {
			return Not(b), nil
		}
		return b, nil
	}
	if c, ok := b.(ConstBool); ok {
		if bool(c) {
			return Not(a), nil
		}
		return a, nil
	}

	var value *bool
	if av, aok := a.Value(); aok {
		if bv, bok := b.Value(); bok {
			v := av != bv
			value = &v
		}
	}
	res, err := Alloc(sys, value, r1cs.Witness)
	if err != nil {
		return nil, err
	}

	one := frOne()
	var two, minusOne fr.Element
	two.SetUint64(2)
	minusOne.Neg(&one)

	L := AppendTerm(sys, nil, a, &two)
	R := AppendTerm(sys, nil, b, &one)
	O := AppendTerm(sys, nil, a, &one)
	O = AppendTerm(sys, O, b, &one)
	O = AppendTerm(sys, O, res, &minusOne)
	sys.EnforceR1C(L, R, O)

	return res, nil
}

// And returns a bit equal to a ∧ b. And with a constant folds for free; the
// general case allocates one bit and enforces a ⋅ b == c.
func And(sys *r1cs.System, a, b Boolean) (Boolean, error) {
	if c, ok := a.(ConstBool); ok {
		if bool(c) {
			return b, nil
		}
		return ConstBool(false), nil
	}
	if c, ok := b.(ConstBool); ok {
		if bool(c) {
			return a, nil
		}
		return ConstBool(false), nil
	}

	var value *bool
	if av, aok := a.Value(); aok {
		if bv, bok := b.Value(); bok {
			v := av && bv
			value = &v
		}
	}
	res, err := Alloc(sys, value, r1cs.Witness)
	if err != nil {
		return nil, err
	}

	one := frOne()
	sys.EnforceR1C(
		AppendTerm(sys, nil, a, &one),
		AppendTerm(sys, nil, b, &one),
		AppendTerm(sys, nil, res, &one),
	)

	return res, nil
}

// IsEq returns a bit that is true iff a == b (xnor).
func IsEq(sys *r1cs.System, a, b Boolean) (Boolean, error) {
	x, err := Xor(sys, a, b)
	if err != nil {
		return nil, err
	}
	return Not(x), nil
}

// ConditionalEnforceEqual enforces a == b whenever cond is true, with the
// constraint cond ⋅ (a − b) == 0. When cond is false the constraint holds
// regardless of a and b.
func ConditionalEnforceEqual(sys *r1cs.System, a, b, cond Boolean) {
	if c, ok := cond.(ConstBool); ok && !bool(c) {
		return
	}

	one := frOne()
	var minusOne fr.Element
	minusOne.Neg(&one)

	diff := AppendTerm(sys, nil, a, &one)
	diff = AppendTerm(sys, diff, b, &minusOne)
	sys.EnforceR1C(AppendTerm(sys, nil, cond, &one), diff, nil)
}

// ConditionalEnforceNotEqual enforces a != b whenever cond is true. Two bits
// differ exactly when their sum is one, so the constraint is
// cond ⋅ (a + b − 1) == 0.
func ConditionalEnforceNotEqual(sys *r1cs.System, a, b, cond Boolean) {
	if c, ok := cond.(ConstBool); ok && !bool(c) {
		return
	}

	one := frOne()
	var minusOne fr.Element
	minusOne.Neg(&one)

	l := AppendTerm(sys, nil, a, &one)
	l = AppendTerm(sys, l, b, &one)
	l = sys.AddTerm(l, sys.OneWireID(), &minusOne)
	sys.EnforceR1C(AppendTerm(sys, nil, cond, &one), l, nil)
}

func frOne() fr.Element {
	var one fr.Element
	one.SetOne()
	return one
}
