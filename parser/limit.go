//go:build !prddebug

package parser

// DefaultDepthLimit is the nesting limit of the recursive strategy.
const DefaultDepthLimit = 1500
