// Package timeutil provides the clock seam and duration formatting shared by
// the progress tracker and its periodic sweep.
package timeutil
