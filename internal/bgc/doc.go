// Package bgc provides the core records of the daily biogeochemistry engine.
//
// The package defines plain data records grouped by domain, the same way the
// engine reasons about mass:
//
//   - [WaterState], [CarbonState], [NitrogenState]: persistent pools plus the
//     lifetime source/sink accumulators used by the balance verifier
//   - [WaterFlux], [CarbonFlux], [NitrogenFlux]: one day of fluxes, zeroed by
//     the driver at the top of every day
//   - [EPC]: read-only ecophysiological constants of one vegetation type
//   - [Site]: soil and site parameters, with derived soil hydraulics
//   - [Day]: everything a pipeline stage may read or write for one day
//
// # Units
//
// Carbon and nitrogen pools are kg m⁻², water pools are kg H2O m⁻² (mm).
// Fluxes are per day.
//
// # Ownership
//
// A [State] and its [Flux] are owned by exactly one simulation for its whole
// lifetime. Nothing here is safe for concurrent use.
package bgc
