// Package lattice builds initial conditions: particle positions on a
// face-centred cubic lattice and Maxwell-Boltzmann velocities.
package lattice

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ljsim/internal/dynamo"
)

// CellsPerSide returns a such that n = 4a³.
func CellsPerSide(n int) (int, error) {
	if n <= 0 || n%4 != 0 {
		return 0, fmt.Errorf("%w: got %d", dynamo.ErrParticleCount, n)
	}
	a := int(math.Round(math.Cbrt(float64(n / 4))))
	if 4*a*a*a != n {
		return 0, fmt.Errorf("%w: got %d", dynamo.ErrParticleCount, n)
	}
	return a, nil
}

// sublattices are the four FCC basis offsets in units of half a cell.
var sublattices = [4][3]float64{
	{0, 0, 0},
	{1, 1, 0},
	{1, 0, 1},
	{0, 1, 1},
}

// FCC places n = 4a³ particles in a cube of side length. The result holds
// the four sub-lattices one after another, each enumerated x-major with z
// varying fastest.
func FCC(n int, length float64) ([]r3.Vec, error) {
	a, err := CellsPerSide(n)
	if err != nil {
		return nil, err
	}

	cell := length / float64(a)
	half := cell / 2

	positions := make([]r3.Vec, 0, n)
	for _, off := range sublattices {
		for i := 0; i < a; i++ {
			for j := 0; j < a; j++ {
				for k := 0; k < a; k++ {
					positions = append(positions, r3.Vec{
						X: float64(i)*cell + off[0]*half,
						Y: float64(j)*cell + off[1]*half,
						Z: float64(k)*cell + off[2]*half,
					})
				}
			}
		}
	}

	return positions, nil
}
