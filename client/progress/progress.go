// Package progress reports byte-transfer progress for in-flight
// downloads, sampled once per tick of a configurable clock.
package progress

// Snapshot is an immutable point-in-time view of a transfer. Total is
// zero when the server never reported a usable content length.
type Snapshot struct {
	Downloaded uint64
	Total      uint64
}

// Fraction returns the completed share of the transfer, or zero when
// the total is unknown.
func (s Snapshot) Fraction() float64 {
	if s.Total == 0 {
		return 0
	}

	return float64(s.Downloaded) / float64(s.Total)
}

// Func receives snapshots while a transfer is in flight. Each
// snapshot supersedes the previous one; no history is retained.
type Func func(Snapshot)
