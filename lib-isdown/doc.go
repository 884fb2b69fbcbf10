// Package isdown is the data model of isdown history files.
//
// A history file is a JSON array of Observation records in the order they
// were checked. The package also provides the composite status rule that
// decides whether a single Observation counts as "up".
package isdown
