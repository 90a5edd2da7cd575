// Package zkgadgets provides building blocks for zero-knowledge proof
// circuits: a rank-1 constraint system over the BLS12-381 scalar field, a
// three-variant boolean circuit value, and a signed 8-bit integer gadget
// with single-constraint modular addition.
//
// The constraint system lives in the r1cs package; gadgets compose on top of
// it and are passed the system explicitly on every call.
package zkgadgets

import "github.com/blang/semver/v4"

// Version of the zkgadgets library
var Version = semver.MustParse("0.1.0")
