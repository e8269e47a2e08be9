package models

// Format is the closed set of bracket formats a tournament can declare.
type Format string

const (
	FormatSingleElimination Format = "single_elimination"
	FormatDoubleElimination Format = "double_elimination"
	FormatRoundRobin        Format = "round_robin"
	FormatSwiss             Format = "swiss"
)

// Known reports whether f is one of the declared formats, implemented or not.
func (f Format) Known() bool {
	switch f {
	case FormatSingleElimination, FormatDoubleElimination, FormatRoundRobin, FormatSwiss:
		return true
	}
	return false
}

// Implemented reports whether the engine can build a bracket for f.
func (f Format) Implemented() bool {
	return f == FormatSingleElimination
}
