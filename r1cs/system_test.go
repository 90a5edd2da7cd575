package r1cs

import (
	"errors"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frFromUint64(v uint64) fr.Element {
	var e fr.Element
	e.SetUint64(v)
	return e
}

func TestNewSystemHasOneWire(t *testing.T) {
	sys := NewSystem()

	assert.Equal(t, 1, sys.NbWires())
	assert.Equal(t, 0, sys.NbConstraints())

	v, ok := sys.WireValue(sys.OneWireID())
	require.True(t, ok)
	assert.True(t, v.IsOne())
}

func TestTermPackUnpack(t *testing.T) {
	term := Pack(42, 7, Secret)

	wireID, coeffID, visibility := term.Unpack()
	assert.Equal(t, 42, wireID)
	assert.Equal(t, 7, coeffID)
	assert.Equal(t, Secret, visibility)
}

func TestTermSetters(t *testing.T) {
	var term Term
	term.SetWireID(123456)
	term.SetCoeffID(654321)
	term.SetVisibility(Public)

	assert.Equal(t, 123456, term.WireID())
	assert.Equal(t, 654321, term.CoeffID())
	assert.Equal(t, Public, term.Visibility())
}

func TestEnforceR1CSatisfied(t *testing.T) {
	sys := NewSystem()

	a := frFromUint64(3)
	b := frFromUint64(4)
	c := frFromUint64(12)
	one := frFromUint64(1)

	aID := sys.NewWire(Secret, &a)
	bID := sys.NewWire(Secret, &b)
	cID := sys.NewWire(Secret, &c)

	sys.EnforceR1C(
		sys.AddTerm(nil, aID, &one),
		sys.AddTerm(nil, bID, &one),
		sys.AddTerm(nil, cID, &one),
	)

	require.NoError(t, sys.IsSatisfied())
}

func TestEnforceR1CUnsatisfied(t *testing.T) {
	sys := NewSystem()

	a := frFromUint64(3)
	b := frFromUint64(4)
	c := frFromUint64(11)
	one := frFromUint64(1)

	aID := sys.NewWire(Secret, &a)
	bID := sys.NewWire(Secret, &b)
	cID := sys.NewWire(Secret, &c)

	sys.EnforceR1C(
		sys.AddTerm(nil, aID, &one),
		sys.AddTerm(nil, bID, &one),
		sys.AddTerm(nil, cID, &one),
	)

	err := sys.IsSatisfied()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsatisfied)
}

func TestEmptyLinearCombinationIsZero(t *testing.T) {
	sys := NewSystem()

	// 0 ⋅ 0 == 0
	sys.EnforceR1C(nil, nil, nil)
	require.NoError(t, sys.IsSatisfied())
}

func TestUnassignedWire(t *testing.T) {
	sys := NewSystem()
	one := frFromUint64(1)

	wID := sys.NewWire(Secret, nil)
	sys.EnforceR1C(nil, nil, sys.AddTerm(nil, wID, &one))

	err := sys.IsSatisfied()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnassignedWire)
}

func TestAddTermMergesCoefficients(t *testing.T) {
	sys := NewSystem()
	one := frFromUint64(1)
	v := frFromUint64(5)

	wID := sys.NewWire(Secret, &v)

	l := sys.AddTerm(nil, wID, &one)
	l = sys.AddTerm(l, wID, &one)
	require.Len(t, l, 1)

	got, err := sys.evalLC(l)
	require.NoError(t, err)
	expected := frFromUint64(10)
	assert.True(t, got.Equal(&expected))
}

func TestAddTermCancelsToZero(t *testing.T) {
	sys := NewSystem()
	one := frFromUint64(1)
	var minusOne fr.Element
	minusOne.Neg(&one)
	v := frFromUint64(5)

	wID := sys.NewWire(Secret, &v)

	l := sys.AddTerm(nil, wID, &one)
	l = sys.AddTerm(l, wID, &minusOne)
	assert.Len(t, l, 0)
}

func TestMarkBoolean(t *testing.T) {
	sys := NewSystem()
	wID := sys.NewWire(Secret, nil)

	assert.False(t, sys.IsBoolean(wID))
	sys.MarkBoolean(wID)
	assert.True(t, sys.IsBoolean(wID))
}

func TestWireCounts(t *testing.T) {
	sys := NewSystem()

	sys.NewWire(Public, nil)
	sys.NewWire(Secret, nil)
	sys.NewWire(Secret, nil)

	assert.Equal(t, 4, sys.NbWires())
	assert.Equal(t, 1, sys.NbPublicWires())
	assert.Equal(t, 2, sys.NbSecretWires())
}

func TestModeWireVisibility(t *testing.T) {
	assert.Equal(t, Public, Input.WireVisibility())
	assert.Equal(t, Secret, Witness.WireVisibility())
	assert.Equal(t, Unset, Constant.WireVisibility())
}

func TestUnsatisfiedErrorIsDescriptive(t *testing.T) {
	sys := NewSystem()
	one := frFromUint64(1)
	v := frFromUint64(2)

	wID := sys.NewWire(Secret, &v)
	// w == 0 does not hold for w = 2
	sys.EnforceR1C(nil, nil, sys.AddTerm(nil, wID, &one))

	err := sys.IsSatisfied()
	require.True(t, errors.Is(err, ErrUnsatisfied))
	assert.Contains(t, err.Error(), "constraint #0")
}
