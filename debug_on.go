//go:build texeldebug

package texel

// debugChecks turns programmer errors into panics.
const debugChecks = true
