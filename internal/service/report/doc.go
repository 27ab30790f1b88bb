// Package report builds the tables printed by the dst-clock diagnostic
// commands: transition days per year and the DST decision for one instant.
package report
