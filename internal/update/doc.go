// Package update applies a day's fluxes to the pools. The daily reducers
// run first; mortality and fire run afterwards on the updated pools.
package update
