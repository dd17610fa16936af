// Package dynamo provides the core types shared by the molecular dynamics
// packages.
//
// The package defines the data model of a Lennard-Jones simulation:
//
//   - [Frame]: positions, velocities and forces of every particle at one time slice
//   - [Trajectory]: pre-allocated sequence of frames owned by a single run
//   - [Params]: physical and numerical parameters of a run
//   - [Observer]: receiver of progress [Event]s emitted by the driver
//   - [Metric]: accumulator observing production frames
//
// All quantities are dimensionless (reduced Lennard-Jones units) and the box
// is a cube of side [Params.Length] with periodic boundaries.
//
// # Thread Safety
//
// A Trajectory is written by exactly one integrator. Distinct frames never
// alias, so readers may process completed frames concurrently.
package dynamo
