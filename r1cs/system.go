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

// Package r1cs implements a rank-1 constraint system over the BLS12-381
// scalar field: wire allocation with public/secret visibility, a
// deduplicated coefficient table, enforcement of L ⋅ R == O constraints and
// a satisfiability check against the assigned wire values.
package r1cs

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/rs/zerolog"

	"github.com/simpleworks/zkgadgets/logger"
)

var (
	// ErrWireOutOfRange is returned when a wire id does not designate an
	// allocated wire.
	ErrWireOutOfRange = errors.New("r1cs: wire id out of range")

	// ErrUnassignedWire is returned by IsSatisfied when a constraint
	// references a wire that has no assigned value (setup-only pass).
	ErrUnassignedWire = errors.New("r1cs: wire has no assigned value")

	// ErrUnsatisfied is returned by IsSatisfied when a constraint does not
	// hold under the current assignment.
	ErrUnsatisfied = errors.New("r1cs: constraint is not satisfied")
)

type wire struct {
	visibility Visibility
	value      fr.Element
	assigned   bool
}

// System collects the allocated wires and the rank-1 constraints that define
// a circuit. Wire 0 is the constant one-wire, public and assigned to 1.
//
// A System is an append-only structure built by a single goroutine; it is not
// safe for concurrent mutation. Once fully built it can be shared read-only.
type System struct {
	wires       []wire
	booleans    *bitset.BitSet // wire ids already constrained to {0,1}
	coeffs      []fr.Element
	coeffIDs    map[string]int
	constraints []R1C

	log zerolog.Logger
}

// NewSystem returns an empty constraint system, seeded with the one-wire.
func NewSystem() *System {
	s := &System{
		booleans: bitset.New(8),
		coeffIDs: make(map[string]int),
		log:      logger.Logger().With().Str("component", "r1cs").Logger(),
	}

	var one fr.Element
	one.SetOne()
	s.wires = append(s.wires, wire{visibility: Public, value: one, assigned: true})

	return s
}

// OneWireID returns the id of the constant one-wire.
func (s *System) OneWireID() int {
	return 0
}

// NewWire allocates a fresh wire with the given visibility. A nil value
// leaves the wire unassigned, which models a setup-only pass: the circuit
// shape is fully defined but IsSatisfied cannot run.
func (s *System) NewWire(v Visibility, value *fr.Element) int {
	w := wire{visibility: v}
	if value != nil {
		w.value = *value
		w.assigned = true
	}
	s.wires = append(s.wires, w)
	return len(s.wires) - 1
}

// WireValue returns the assigned value of the wire, if any.
func (s *System) WireValue(wireID int) (fr.Element, bool) {
	if wireID < 0 || wireID >= len(s.wires) {
		return fr.Element{}, false
	}
	w := s.wires[wireID]
	return w.value, w.assigned
}

// MarkBoolean records that the wire is constrained to be 0 or 1, so callers
// can avoid constraining it twice.
func (s *System) MarkBoolean(wireID int) {
	s.booleans.Set(uint(wireID))
}

// IsBoolean returns true if the wire was marked boolean.
func (s *System) IsBoolean(wireID int) bool {
	return s.booleans.Test(uint(wireID))
}

// NbWires returns the number of allocated wires, one-wire included.
func (s *System) NbWires() int {
	return len(s.wires)
}

// NbPublicWires returns the number of public wires, one-wire excluded.
func (s *System) NbPublicWires() int {
	n := 0
	for _, w := range s.wires[1:] {
		if w.visibility == Public {
			n++
		}
	}
	return n
}

// NbSecretWires returns the number of secret (witness) wires.
func (s *System) NbSecretWires() int {
	n := 0
	for _, w := range s.wires {
		if w.visibility == Secret {
			n++
		}
	}
	return n
}

// NbConstraints returns the number of enforced constraints.
func (s *System) NbConstraints() int {
	return len(s.constraints)
}

// coeffID deduplicates coefficients; it returns the entry where c is stored,
// appending it to the coefficient table on first use.
func (s *System) coeffID(c *fr.Element) int {
	key := c.Text(16)
	if id, ok := s.coeffIDs[key]; ok {
		return id
	}
	id := len(s.coeffs)
	s.coeffs = append(s.coeffs, *c)
	s.coeffIDs[key] = id
	return id
}

// MakeTerm packs a wire and a coefficient into a Term.
func (s *System) MakeTerm(wireID int, coeff *fr.Element) Term {
	if wireID < 0 || wireID >= len(s.wires) {
		panic(fmt.Errorf("%w: %d", ErrWireOutOfRange, wireID))
	}
	return Pack(wireID, s.coeffID(coeff), s.wires[wireID].visibility)
}

// AddTerm folds coeff⋅wire into l, merging with an existing term on the same
// wire. Terms whose coefficient cancels to zero are removed.
func (s *System) AddTerm(l LinearCombination, wireID int, coeff *fr.Element) LinearCombination {
	if coeff.IsZero() {
		return l
	}
	for i := range l {
		if l[i].WireID() == wireID {
			var c fr.Element
			c.Add(&s.coeffs[l[i].CoeffID()], coeff)
			if c.IsZero() {
				return append(l[:i], l[i+1:]...)
			}
			l[i].SetCoeffID(s.coeffID(&c))
			return l
		}
	}
	return append(l, s.MakeTerm(wireID, coeff))
}

// EnforceR1C appends the rank-1 constraint L ⋅ R == O to the system. An empty
// linear combination evaluates to zero, so EnforceR1C(nil, nil, l) enforces
// l == 0.
func (s *System) EnforceR1C(L, R, O LinearCombination) {
	s.constraints = append(s.constraints, R1C{L: L, R: R, O: O})
}

// evalLC evaluates the linear combination against the assigned wire values.
func (s *System) evalLC(l LinearCombination) (fr.Element, error) {
	var res fr.Element
	for _, t := range l {
		wireID := t.WireID()
		if wireID >= len(s.wires) {
			return res, fmt.Errorf("%w: %d", ErrWireOutOfRange, wireID)
		}
		w := s.wires[wireID]
		if !w.assigned {
			return res, fmt.Errorf("%w: %s", ErrUnassignedWire, s.WireToString(wireID))
		}
		var v fr.Element
		v.Mul(&s.coeffs[t.CoeffID()], &w.value)
		res.Add(&res, &v)
	}
	return res, nil
}

// IsSatisfied checks every constraint against the assigned wire values. It
// returns nil when the system is satisfied, and an error wrapping
// ErrUnsatisfied (or ErrUnassignedWire) otherwise.
func (s *System) IsSatisfied() error {
	start := time.Now()

	for i := range s.constraints {
		c := &s.constraints[i]
		l, err := s.evalLC(c.L)
		if err != nil {
			return err
		}
		r, err := s.evalLC(c.R)
		if err != nil {
			return err
		}
		o, err := s.evalLC(c.O)
		if err != nil {
			return err
		}
		var lr fr.Element
		lr.Mul(&l, &r)
		if !lr.Equal(&o) {
			return fmt.Errorf("%w: constraint #%d: %s", ErrUnsatisfied, i, c.String(s))
		}
	}

	s.log.Debug().
		Int("nbConstraints", len(s.constraints)).
		Dur("took", time.Since(start)).
		Msg("constraint system check done")

	return nil
}

// CoeffToString implements Resolver.
func (s *System) CoeffToString(coeffID int) string {
	return s.coeffs[coeffID].String()
}

// WireToString implements Resolver.
func (s *System) WireToString(wireID int) string {
	if wireID == 0 {
		return "1"
	}
	switch s.wires[wireID].visibility {
	case Public:
		return "p" + strconv.Itoa(wireID)
	case Secret:
		return "s" + strconv.Itoa(wireID)
	default:
		return "v" + strconv.Itoa(wireID)
	}
}
