package inventory

// Counted is one expected/actual pair.
type Counted struct {
	Expected int
	Actual   int
}

// Stats aggregates the outcomes of a count. Matched, Deficit and Surplus
// only include rows with a positive count; Missing counts the rows counted
// as zero. A row lands in at most one bucket.
type Stats struct {
	Total   int `json:"total"`
	Matched int `json:"matched"`
	Deficit int `json:"deficit"`
	Surplus int `json:"surplus"`
	Missing int `json:"missing"`
}

// ComputeStatistics tallies rows. The live count sheet and the report both
// use it, so they always agree.
func ComputeStatistics(rows []Counted) Stats {
	s := Stats{Total: len(rows)}
	for _, r := range rows {
		switch {
		case r.Actual == 0:
			s.Missing++
		case r.Actual == r.Expected:
			s.Matched++
		case r.Actual < r.Expected:
			s.Deficit++
		default:
			s.Surplus++
		}
	}
	return s
}
