// Package arbor holds build information for the arbor module.
package arbor

// Version is the arbor release version.
const Version = "0.1.0"
