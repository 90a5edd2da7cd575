// Package ints implements fixed-width signed integers as circuit gadgets.
//
// Int8 interprets 8 boolean circuit values, least significant first, as a
// signed two's-complement byte. It supports constant and allocated
// construction, bitwise equality, and modular addition enforced with a
// single rank-1 constraint.
package ints

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/simpleworks/zkgadgets/gadgets/boolean"
	"github.com/simpleworks/zkgadgets/r1cs"
)

const (
	int8Bits   = 8
	nbOperands = 2
)

var (
	// ErrOverflow is returned by AddMany when the cleartext sum of the
	// operands is not representable as a signed 8-bit value.
	ErrOverflow = errors.New("ints: addition result does not fit in 8 bits")

	// ErrBitWidth is returned when a result does not hold exactly 8 bits;
	// it indicates an implementation defect.
	ErrBitWidth = errors.New("ints: result does not hold exactly 8 bits")

	// ErrInconsistentValue is returned by Value when the bit assignments do
	// not decode to the stored cleartext value.
	ErrInconsistentValue = errors.New("ints: bit assignment does not decode to the stored value")

	// ErrUnknownValue is returned by Value when a bit has no assignment.
	ErrUnknownValue = errors.New("ints: value is not known")
)

// Int8 is a signed byte in the circuit: 8 bit cells, index 0 least
// significant, plus an optional cleartext value. Whenever the value is
// known, bit i equals bit i of its two's-complement pattern; the value is
// absent exactly when it was derived from an operand whose own value is
// absent.
type Int8 struct {
	bits  [int8Bits]boolean.Boolean
	value *int8
}

// Constant builds an Int8 from a compile-time constant by repeatedly testing
// the lowest bit and shifting right. It creates no wires and no constraints.
func Constant(value int8) Int8 {
	var res Int8
	tmp := value
	for i := range res.bits {
		res.bits[i] = boolean.ConstBool(tmp&1 == 1)
		tmp >>= 1
	}
	v := value
	res.value = &v
	return res
}

// Known wraps a known assignment for New.
func Known(v int8) func() (int8, bool) {
	return func() (int8, bool) { return v, true }
}

// Unknown is the assignment thunk of a setup-only pass.
func Unknown() (int8, bool) { return 0, false }

// New allocates an Int8 under the given mode. f yields the assignment and
// reports false during setup-only passes, in which case the 8 wires are
// allocated without values. Whenever the value is known, the allocated bits
// are its two's-complement pattern and decode back to it under a satisfying
// assignment.
func New(sys *r1cs.System, f func() (int8, bool), mode r1cs.Mode) (Int8, error) {
	var value *int8
	if f != nil {
		if v, ok := f(); ok {
			value = &v
		}
	}

	var res Int8
	for i := range res.bits {
		var bit *bool
		if value != nil {
			b := (*value>>i)&1 == 1
			bit = &b
		}
		cell, err := boolean.Alloc(sys, bit, mode)
		if err != nil {
			return Int8{}, err
		}
		res.bits[i] = cell
	}
	res.value = value
	return res, nil
}

// NewWitness allocates a privately witnessed Int8.
func NewWitness(sys *r1cs.System, f func() (int8, bool)) (Int8, error) {
	return New(sys, f, r1cs.Witness)
}

// NewInput allocates a public-input Int8.
func NewInput(sys *r1cs.System, f func() (int8, bool)) (Int8, error) {
	return New(sys, f, r1cs.Input)
}

// Bits returns the 8 bit cells, least significant first, for composition by
// other gadgets.
func (a Int8) Bits() []boolean.Boolean {
	res := make([]boolean.Boolean, int8Bits)
	copy(res, a.bits[:])
	return res
}

// Value recomputes the cleartext value from the bit assignments under signed
// two's-complement interpretation and checks it against the stored value.
// This is a consistency check on the construction, not a soundness
// mechanism.
func (a Int8) Value() (int8, error) {
	var pattern uint8
	for i, bit := range a.bits {
		b, ok := bit.Value()
		if !ok {
			return 0, fmt.Errorf("%w: bit %d has no assignment", ErrUnknownValue, i)
		}
		if b {
			pattern |= 1 << i
		}
	}
	v := int8(pattern)
	if a.value != nil && *a.value != v {
		return 0, fmt.Errorf("%w: bits decode to %d, stored value is %d", ErrInconsistentValue, v, *a.value)
	}
	return v, nil
}

// IsEq returns a bit that is true iff all 8 corresponding bit pairs of a and
// b are equal.
func (a Int8) IsEq(sys *r1cs.System, b Int8) (boolean.Boolean, error) {
	acc := boolean.Boolean(boolean.ConstBool(true))
	for i := range a.bits {
		eq, err := boolean.IsEq(sys, a.bits[i], b.bits[i])
		if err != nil {
			return nil, err
		}
		acc, err = boolean.And(sys, acc, eq)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// EnforceEqual enforces bitwise equality of a and b.
func (a Int8) EnforceEqual(sys *r1cs.System, b Int8) {
	a.ConditionalEnforceEqual(sys, b, boolean.ConstBool(true))
}

// ConditionalEnforceEqual enforces bitwise equality of a and b whenever cond
// holds; when cond is false the constraints are trivially satisfied.
func (a Int8) ConditionalEnforceEqual(sys *r1cs.System, b Int8, cond boolean.Boolean) {
	for i := range a.bits {
		boolean.ConditionalEnforceEqual(sys, a.bits[i], b.bits[i], cond)
	}
}

// ConditionalEnforceNotEqual enforces that a and b differ in at least one
// bit whenever cond holds.
func (a Int8) ConditionalEnforceNotEqual(sys *r1cs.System, b Int8, cond boolean.Boolean) error {
	eq, err := a.IsEq(sys, b)
	if err != nil {
		return err
	}
	boolean.ConditionalEnforceEqual(sys, eq, boolean.ConstBool(false), cond)
	return nil
}

// AddMany performs the modular addition of the operands. Every operand bit
// is folded into a single linear combination with a coefficient that doubles
// per position; result bits are then allocated to absorb the carry, each one
// subtracted at its weight, and a single rank-1 constraint enforces that the
// combination equals zero. The low 8 result bits are kept.
//
// The cleartext sum is tracked alongside and becomes permanently unknown the
// instant any operand value is unknown. A known sum outside [-128, 127]
// aborts with ErrOverflow: this is a cleartext sanity check, the discarded
// carry bits themselves stay unconstrained.
func AddMany(sys *r1cs.System, operands [nbOperands]Int8) (Int8, error) {
	// upper bound on the combined bit contributions; each operand's
	// unsigned pattern is at most 255
	maxValue := new(big.Int).Mul(big.NewInt(math.MaxUint8), big.NewInt(nbOperands))

	// running cleartext sum of the operand values, and the matching sum of
	// their unsigned bit patterns (what the linear combination adds up to)
	sum := new(big.Int)
	patternSum := new(big.Int)

	var lc r1cs.LinearCombination
	allConstants := true

	for _, op := range operands {
		if op.value == nil {
			sum = nil
			patternSum = nil
		} else if sum != nil {
			sum.Add(sum, big.NewInt(int64(*op.value)))
			patternSum.Add(patternSum, big.NewInt(int64(uint8(*op.value))))
		}

		var coeff fr.Element
		coeff.SetOne()
		for _, bit := range op.bits {
			if _, isConst := bit.(boolean.ConstBool); !isConst {
				allConstants = false
			}
			lc = boolean.AppendTerm(sys, lc, bit, &coeff)
			coeff.Double(&coeff)
		}
	}

	// reduce the cleartext sum into signed 8-bit range; a sum the
	// reduction actually changes is an overflow
	var modular *int8
	if sum != nil {
		wrapped := wrapSigned(sum)
		if wrapped.Cmp(sum) != 0 {
			return Int8{}, fmt.Errorf("%w: sum %s is outside [%d, %d]", ErrOverflow, sum, math.MinInt8, math.MaxInt8)
		}
		v := int8(wrapped.Int64())
		modular = &v
	}

	if allConstants && modular != nil {
		return Constant(*modular), nil
	}

	var resultBits []boolean.Boolean
	var coeff fr.Element
	coeff.SetOne()
	for i := 0; maxValue.Sign() != 0; i++ {
		var bit *bool
		if patternSum != nil {
			b := patternSum.Bit(i) == 1
			bit = &b
		}
		cell, err := boolean.Alloc(sys, bit, r1cs.Witness)
		if err != nil {
			return Int8{}, err
		}

		var minusCoeff fr.Element
		minusCoeff.Neg(&coeff)
		lc = boolean.AppendTerm(sys, lc, cell, &minusCoeff)

		resultBits = append(resultBits, cell)
		maxValue.Rsh(maxValue, 1)
		coeff.Double(&coeff)
	}

	// the single constraint of the gadget: the combination equals zero
	sys.EnforceR1C(nil, nil, lc)

	// discard the carry bits we don't care about
	if len(resultBits) > int8Bits {
		resultBits = resultBits[:int8Bits]
	}
	if len(resultBits) != int8Bits {
		return Int8{}, fmt.Errorf("%w: got %d bits", ErrBitWidth, len(resultBits))
	}

	var res Int8
	copy(res.bits[:], resultBits)
	res.value = modular
	return res, nil
}

// wrapSigned reduces v modulo 256 into [-128, 127]: bias into [0, 256),
// reduce, unbias.
func wrapSigned(v *big.Int) *big.Int {
	modulus := new(big.Int).Lsh(big.NewInt(1), int8Bits)
	shift := new(big.Int).Lsh(big.NewInt(1), int8Bits-1)
	res := new(big.Int).Add(v, shift)
	res.Mod(res, modulus)
	return res.Sub(res, shift)
}
