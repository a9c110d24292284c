// Package httpapi groups HTTP handlers by domain so route behavior is easier to locate.
//
// Domain files:
// - availability
// - capacity forecast and summary
// - snapshot import and export
package httpapi
