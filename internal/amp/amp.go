// Package amp supplies the small set of fused complex-amplitude helpers
// the state-vector kernels in internal/eval reduce to. Go's builtin
// complex128 already gives us add/sub/mul/conj for free; this package only
// adds the pair-update primitive and the squared-modulus helper that show
// up on every gate application.
package amp

import "math/cmplx"

// FMA2 computes a*p0 + b*p1, the fused multiply-add used by every
// single-qubit pair update: psi' = a*psi0 + b*psi1.
func FMA2(a, b, p0, p1 complex128) complex128 {
	return a*p0 + b*p1
}

// Abs2 returns the squared modulus |z|^2, i.e. a probability contribution.
func Abs2(z complex128) float64 {
	re, im := real(z), imag(z)
	return re*re + im*im
}

// Norm2 returns the squared L2 norm of a slice of amplitudes.
func Norm2(psi []complex128) float64 {
	var total float64
	for _, z := range psi {
		total += Abs2(z)
	}
	return total
}

// Phase returns the argument of z in radians, matching cmplx.Phase.
func Phase(z complex128) float64 {
	return cmplx.Phase(z)
}
