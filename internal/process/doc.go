// Package process holds the daily flux computations. Each function reads
// state and met for one day and writes into the flux record; none of them
// mutates pools except PrecisionControl.
package process
