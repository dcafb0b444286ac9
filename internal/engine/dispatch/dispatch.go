// Package dispatch decides which idle targets receive a build assignment.
package dispatch

import "go.trai.ch/pbuild/internal/core/domain"

// FreeSlots returns how many more workers may become active under limit.
func FreeSlots(records []domain.WorkerState, limit int) int {
	active := 0
	for i := range records {
		if records[i].Active {
			active++
		}
	}
	return limit - active
}

// Select returns the targets to assign now, in record order.
// A target is eligible only when it is ready, idle and not finished, and no
// more than FreeSlots targets are returned. Select does not mutate records.
func Select(records []domain.WorkerState, limit int) []domain.Target {
	free := FreeSlots(records, limit)
	if free <= 0 {
		return nil
	}

	var picked []domain.Target
	for i := range records {
		if len(picked) == free {
			break
		}
		if records[i].Eligible() {
			picked = append(picked, records[i].Target)
		}
	}
	return picked
}
