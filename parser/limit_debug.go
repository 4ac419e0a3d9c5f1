//go:build prddebug

package parser

// DefaultDepthLimit is the nesting limit of the recursive strategy, lowered in debug builds.
const DefaultDepthLimit = 300
