// Package internalcheck holds source policy tests for the rsakey packages.
//
// The tests load every package under pkg/rsakey with golang.org/x/tools and
// walk their syntax trees looking for patterns that leak or mishandle key
// material. The package has no API.
package internalcheck
