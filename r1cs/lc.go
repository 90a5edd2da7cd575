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

import "strings"

// A LinearCombination is a linear combination of Term
type LinearCombination []Term

// Clone returns a copy of the underlying slice
func (l LinearCombination) Clone() LinearCombination {
	res := make(LinearCombination, len(l))
	copy(res, l)
	return res
}

func (l LinearCombination) String(r Resolver) string {
	sbb := NewStringBuilder(r)
	sbb.WriteLinearCombination(l)
	return sbb.String()
}

// R1C is a rank-1 constraint: L ⋅ R == O
type R1C struct {
	L, R, O LinearCombination
}

// WireIterator returns a function that iterates over all the wire ids of the
// constraint, returning -1 once exhausted.
func (r1c *R1C) WireIterator() func() int {
	curr := 0
	return func() int {
		if curr < len(r1c.L) {
			curr++
			return r1c.L[curr-1].WireID()
		}
		if curr < len(r1c.L)+len(r1c.R) {
			curr++
			return r1c.R[curr-1-len(r1c.L)].WireID()
		}
		if curr < len(r1c.L)+len(r1c.R)+len(r1c.O) {
			curr++
			return r1c.O[curr-1-len(r1c.L)-len(r1c.R)].WireID()
		}
		return -1
	}
}

// String formats a R1C as L⋅R == O
func (r1c *R1C) String(r Resolver) string {
	sbb := NewStringBuilder(r)
	sbb.WriteLinearCombination(r1c.L)
	sbb.WriteString(" ⋅ ")
	sbb.WriteLinearCombination(r1c.R)
	sbb.WriteString(" == ")
	sbb.WriteLinearCombination(r1c.O)
	return sbb.String()
}

// Resolver allows pretty printing of constraints.
type Resolver interface {
	CoeffToString(coeffID int) string
	WireToString(wireID int) string
}

// StringBuilder is a helper to build string from constraints, linear
// combinations or terms. It embeds a strings.Builder object for convenience.
type StringBuilder struct {
	strings.Builder
	Resolver
}

// NewStringBuilder returns a new StringBuilder.
func NewStringBuilder(r Resolver) *StringBuilder {
	return &StringBuilder{Resolver: r}
}

// WriteLinearCombination appends the linear combination to the current buffer
func (sbb *StringBuilder) WriteLinearCombination(l LinearCombination) {
	if len(l) == 0 {
		sbb.WriteByte('0')
		return
	}
	for i := 0; i < len(l); i++ {
		sbb.WriteTerm(l[i])
		if i+1 < len(l) {
			sbb.WriteString(" + ")
		}
	}
}

// WriteTerm appends the term to the current buffer
func (sbb *StringBuilder) WriteTerm(t Term) {
	cs := sbb.CoeffToString(t.CoeffID())
	ws := sbb.WireToString(t.WireID())
	if t.WireID() == 0 && ws == "1" {
		// the one-wire; just print the coefficient for clarity
		sbb.WriteString(cs)
		return
	}
	if cs == "1" {
		sbb.WriteString(ws)
		return
	}
	sbb.WriteString(cs)
	sbb.WriteString("⋅")
	sbb.WriteString(ws)
}
