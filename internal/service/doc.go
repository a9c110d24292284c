// Package service loads snapshots through the repository port and runs the
// availability and forecast computations over them.
//
// Files:
// - availability: per-person free capacity over a date window
// - forecast: weekly capacity forecast and its summary
// - snapshot: import and export of the whole people snapshot
package service
