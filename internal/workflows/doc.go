// Package workflows orchestrates a complete cfgseal run.
//
// The CLI parses flags and renders messages; Seal does everything else:
// extraction, password acquisition, key derivation, encryption and the
// single write of the output container. Every abort path returns before
// the output file is touched.
package workflows
