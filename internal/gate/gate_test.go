package gate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func isUnitary(t *testing.T, m Matrix1) {
	t.Helper()
	d := m.Dagger()
	// M^dagger * M should be the identity within tolerance.
	r00 := d.A*m.A + d.B*m.C
	r01 := d.A*m.B + d.B*m.D
	r10 := d.C*m.A + d.D*m.C
	r11 := d.C*m.B + d.D*m.D
	require.InDelta(t, 1, real(r00), 1e-9)
	require.InDelta(t, 0, imag(r00), 1e-9)
	require.InDelta(t, 0, real(r01), 1e-9)
	require.InDelta(t, 1, real(r11), 1e-9)
	require.InDelta(t, 0, real(r10), 1e-9)
}

func TestIntrinsicsAreUnitary(t *testing.T) {
	kinds := []Kind{I, H, X, Y, Z, S, Sdg, T, Tdg, SX, SXdg}
	for _, k := range kinds {
		isUnitary(t, Matrix(k, nil))
	}
}

func TestParametrisedGatesAreUnitary(t *testing.T) {
	params := []float64{0.37, 1.21, -2.4}
	for _, k := range []Kind{Rx, Ry, Rz, U1, U2, U3} {
		isUnitary(t, Matrix(k, params))
	}
}

func TestRxPiFlipsToXUpToPhase(t *testing.T) {
	m := Matrix(Rx, []float64{math.Pi})
	// Rx(pi)|0> = -i|1>, so B should carry the -i global phase and A,D ~ 0.
	require.InDelta(t, 0, real(m.A), 1e-9)
	require.InDelta(t, 0, real(m.D), 1e-9)
	require.InDelta(t, -1, imag(m.B), 1e-9)
}

func TestControlledXIsCNOTMatrix(t *testing.T) {
	cx := Controlled(Matrix(X, nil))
	want := Matrix4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
		{0, 0, 1, 0},
	}
	require.Equal(t, want, cx)
}

func TestDaggerOfDaggerIsOriginal(t *testing.T) {
	for _, k := range []Kind{H, X, Y, Z, S, T} {
		m := Matrix(k, nil)
		dd := m.Dagger().Dagger()
		require.InDelta(t, real(m.A), real(dd.A), 1e-12)
		require.InDelta(t, real(m.D), real(dd.D), 1e-12)
	}
}
