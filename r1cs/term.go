// Copyright 2020 ConsenSys AG
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

package r1cs

// Visibility encodes who gets to see a wire's assignment once the circuit
// is handed to a proving backend.
type Visibility uint8

const (
	Unset Visibility = iota
	Internal
	Public
	Secret
)

func (v Visibility) String() string {
	switch v {
	case Internal:
		return "internal"
	case Public:
		return "public"
	case Secret:
		return "secret"
	default:
		return "unset"
	}
}

// Mode selects how a gadget value enters the circuit: baked into the
// coefficients (no wire), as a public input wire, or as a private witness
// wire.
type Mode uint8

const (
	Constant Mode = iota
	Input
	Witness
)

// WireVisibility returns the visibility of the wires allocated under m.
// Constant mode allocates no wire and maps to Unset.
func (m Mode) WireVisibility() Visibility {
	switch m {
	case Input:
		return Public
	case Witness:
		return Secret
	default:
		return Unset
	}
}

// Term is a lightweight (coefficient × wire) pair, no pointers.
// The lower 29 bits hold the wire id, the next 30 bits the coefficient index
// (in the system's coefficient table), the next 2 bits the wire visibility.
// If we support more than 500 millions wires, this breaks (not so soon.)
type Term uint64

const (
	_            uint64 = 0b00
	wirePublic   uint64 = 0b01
	wireSecret   uint64 = 0b11
	wireInternal uint64 = 0b10
)

const (
	nbBitsWireID     = 29
	nbBitsCoeffID    = 30
	nbBitsVisibility = 2
)

const (
	shiftWireID     = 0
	shiftCoeffID    = nbBitsWireID
	shiftVisibility = shiftCoeffID + nbBitsCoeffID
)

const (
	maskWireID     = uint64((1 << nbBitsWireID) - 1)
	maskCoeffID    = uint64((1<<nbBitsCoeffID)-1) << shiftCoeffID
	maskVisibility = uint64((1<<nbBitsVisibility)-1) << shiftVisibility
)

// Pack packs wireID, coeffID and the wire visibility into a Term.
func Pack(wireID, coeffID int, visibility Visibility) Term {
	var t Term
	t.SetWireID(wireID)
	t.SetCoeffID(coeffID)
	t.SetVisibility(visibility)
	return t
}

// Unpack returns the wireID, coeffID and visibility of the term.
func (t Term) Unpack() (wireID, coeffID int, visibility Visibility) {
	wireID = t.WireID()
	coeffID = t.CoeffID()
	visibility = t.Visibility()
	return
}

// Visibility returns the encoded Visibility attribute.
func (t Term) Visibility() Visibility {
	visibility := (uint64(t) & maskVisibility) >> shiftVisibility
	switch visibility {
	case wireInternal:
		return Internal
	case wirePublic:
		return Public
	case wireSecret:
		return Secret
	default:
		return Unset
	}
}

// SetVisibility updates the bits corresponding to the visibility with its encoding.
func (t *Term) SetVisibility(v Visibility) {
	visibility := uint64(0)
	switch v {
	case Internal:
		visibility = wireInternal
	case Public:
		visibility = wirePublic
	case Secret:
		visibility = wireSecret
	default:
		return
	}
	visibility <<= shiftVisibility
	*t = Term((uint64(*t) & (^maskVisibility)) | visibility)
}

// SetCoeffID updates the bits corresponding to the coeffID with cID.
func (t *Term) SetCoeffID(cID int) {
	_coeffID := uint64(cID)
	if (_coeffID & (maskCoeffID >> shiftCoeffID)) != uint64(cID) {
		panic("coeffID is too large, unsupported")
	}
	_coeffID <<= shiftCoeffID
	*t = Term((uint64(*t) & (^maskCoeffID)) | _coeffID)
}

// SetWireID updates the bits corresponding to the wireID with wID.
func (t *Term) SetWireID(wID int) {
	_wireID := uint64(wID)
	if (_wireID & maskWireID) != uint64(wID) {
		panic("wireID is too large, unsupported")
	}
	*t = Term((uint64(*t) & (^maskWireID)) | _wireID)
}

// WireID returns the wire id (see System data structure).
func (t Term) WireID() int {
	return int(uint64(t) & maskWireID)
}

// CoeffID returns the coefficient id (see System data structure).
func (t Term) CoeffID() int {
	return int((uint64(t) & maskCoeffID) >> shiftCoeffID)
}
