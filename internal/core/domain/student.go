package domain

import "fmt"

// studentIDPrefix is the fixed prefix of externally visible student
// identifiers, e.g. TPS2026001.
const studentIDPrefix = "TPS"

// CounterStudentID is the name of the persisted counter backing student
// identifier allocation.
const CounterStudentID = "studentId"

// FormatStudentID derives the external student identifier from a counter
// allocation. The counter value is zero-padded to three digits and widens
// naturally beyond 999. The result is a pure function of its inputs and is
// never recomputed for the same allocation.
func FormatStudentID(year int, value int64) string {
	return fmt.Sprintf("%s%d%03d", studentIDPrefix, year, value)
}
