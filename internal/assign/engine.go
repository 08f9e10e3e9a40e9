// Package assign decides which technician owns a new ticket.
package assign

import "github.com/hamrokrishi/advisory-service/internal/model"

// SelectTechnician picks the owner for a new ticket from an office's
// technicians, given the count of each technician's not-yet-answered
// tickets. The slice is expected in the store's name order; inactive
// entries are skipped.
//
// A single technician flagged primary wins outright, regardless of load
// (an office's designated default contact). With zero or several
// primaries, the least-loaded technician wins; ties go to the first in
// the slice, so the result is deterministic for a fixed snapshot.
//
// Returns false when no active technician exists.
func SelectTechnician(technicians []model.Technician, openCounts map[uint64]int64) (uint64, bool) {
	var active []model.Technician
	for _, t := range technicians {
		if t.IsActive {
			active = append(active, t)
		}
	}
	if len(active) == 0 {
		return 0, false
	}

	var primary uint64
	primaries := 0
	for _, t := range active {
		if t.IsPrimary {
			primary = t.ID
			primaries++
		}
	}
	if primaries == 1 {
		return primary, true
	}

	best := active[0].ID
	bestCount := openCounts[active[0].ID]
	for _, t := range active[1:] {
		if c := openCounts[t.ID]; c < bestCount {
			best = t.ID
			bestCount = c
		}
	}
	return best, true
}
