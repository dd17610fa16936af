// Package forcefield evaluates Lennard-Jones forces and potential energy for
// every particle in a periodic cubic box.
//
// The evaluation is O(N²) per call. Small systems are handled on the calling
// goroutine using Newton's third law; larger systems split the particle rows
// across workers, each worker summing complete rows so no cross-worker
// reduction of forces is needed:
//
//	field := forcefield.New(length, forcefield.WithWorkers(8))
//	u := field.Evaluate(positions, forces)
//
// The force on particle i is Σ_j ForcePrefactor(|r_ij|)·r_ij, where r_ij is
// the minimum-image vector from j to i. The potential is ½ Σ_{i≠j} U(|r_ij|).
package forcefield
