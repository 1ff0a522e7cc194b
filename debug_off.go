//go:build !texeldebug

package texel

const debugChecks = false
