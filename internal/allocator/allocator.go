// Package allocator is the overlap-safe assignment engine shared by the bed
// ledger. A resource has capacity one; an assignment covers the half-open
// interval [start, end), with a nil end meaning "until explicitly released".
// The first accepted assignment wins; later conflicting requests are rejected,
// never queued and never displacing the holder.
package allocator

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medifront/frontdesk-backend/internal/pkg/apperror"
)

var (
	ErrConflict           = apperror.Conflict("resource already assigned for that period")
	ErrNoActiveAssignment = apperror.NotFound("no active assignment for resource")
	ErrInvalidInterval    = apperror.Validation("assignment end must be after start")
)

// Assignment records one occupant holding one resource over an interval.
// Assignments are history: releasing sets End, it never deletes the record.
type Assignment struct {
	ID         string     `json:"id"`
	ResourceID string     `json:"resourceId"`
	OccupantID string     `json:"occupantId"`
	Start      time.Time  `json:"start"`
	End        *time.Time `json:"end,omitempty"`
}

// activeAt reports whether the assignment covers the instant at.
func (a *Assignment) activeAt(at time.Time) bool {
	if at.Before(a.Start) {
		return false
	}
	return a.End == nil || at.Before(*a.End)
}

// overlaps implements the half-open interval test with absent ends treated as
// unbounded: aStart < bEnd && bStart < aEnd.
func overlaps(aStart time.Time, aEnd *time.Time, bStart time.Time, bEnd *time.Time) bool {
	if aEnd != nil && !bStart.Before(*aEnd) {
		return false
	}
	if bEnd != nil && !aStart.Before(*bEnd) {
		return false
	}
	return true
}

// Allocator owns every Assignment. Callers serialize mutations per resource
// key themselves (the services hold a keymutex across check, apply and
// persist); the internal lock only protects the maps.
type Allocator struct {
	mu         sync.RWMutex
	byResource map[string][]*Assignment
	byID       map[string]*Assignment
}

// New creates an empty Allocator.
func New() *Allocator {
	return &Allocator{
		byResource: make(map[string][]*Assignment),
		byID:       make(map[string]*Assignment),
	}
}

// Restore upserts an assignment without conflict checking. Used to seed the
// engine from persisted state at startup and to roll a record back after a
// failed snapshot write.
func (a *Allocator) Restore(as Assignment) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.removeLocked(as.ID)
	cp := as
	a.byID[cp.ID] = &cp
	a.byResource[cp.ResourceID] = append(a.byResource[cp.ResourceID], &cp)
}

// TryAssign assigns the resource to the occupant over [start, end) if no
// overlapping assignment exists. On conflict the returned error carries the
// resource and the occupant currently holding it.
func (a *Allocator) TryAssign(resourceID, occupantID string, start time.Time, end *time.Time) (Assignment, error) {
	if end != nil && !end.After(start) {
		return Assignment{}, ErrInvalidInterval
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if holder := a.conflictLocked(resourceID, start, end, ""); holder != nil {
		return Assignment{}, conflictError(resourceID, holder.OccupantID)
	}

	as := &Assignment{
		ID:         uuid.NewString(),
		ResourceID: resourceID,
		OccupantID: occupantID,
		Start:      start,
		End:        copyEnd(end),
	}
	a.byID[as.ID] = as
	a.byResource[resourceID] = append(a.byResource[resourceID], as)
	return *as, nil
}

// Release closes the assignment at the given instant, whether or not the
// instant falls inside its current interval: releasing on or after a planned
// end is still a release. Lifecycle guards belong to the caller. It returns
// the updated assignment plus the previous end so the caller can restore it
// if persisting the release fails.
func (a *Allocator) Release(assignmentID string, at time.Time) (Assignment, *time.Time, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	as, ok := a.byID[assignmentID]
	if !ok {
		return Assignment{}, nil, ErrNoActiveAssignment
	}
	prior := copyEnd(as.End)
	endAt := at
	as.End = &endAt
	return *as, prior, nil
}

// SetEnd overwrites an assignment's end without checks. Rollback hook for a
// failed persist after Release.
func (a *Allocator) SetEnd(assignmentID string, end *time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if as, ok := a.byID[assignmentID]; ok {
		as.End = copyEnd(end)
	}
}

// Reassign moves an existing assignment to a new resource and/or interval,
// re-running the overlap check with the assignment's own record excluded.
// It returns the updated assignment and a copy of the prior state for
// rollback via Restore.
func (a *Allocator) Reassign(assignmentID, resourceID string, start time.Time, end *time.Time) (Assignment, Assignment, error) {
	if end != nil && !end.After(start) {
		return Assignment{}, Assignment{}, ErrInvalidInterval
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	as, ok := a.byID[assignmentID]
	if !ok {
		return Assignment{}, Assignment{}, ErrNoActiveAssignment
	}
	prior := *as

	if holder := a.conflictLocked(resourceID, start, end, assignmentID); holder != nil {
		return Assignment{}, Assignment{}, conflictError(resourceID, holder.OccupantID)
	}

	if as.ResourceID != resourceID {
		a.detachLocked(as)
		as.ResourceID = resourceID
		a.byResource[resourceID] = append(a.byResource[resourceID], as)
	}
	as.Start = start
	as.End = copyEnd(end)
	return *as, prior, nil
}

// Retract removes an assignment entirely. Rollback hook for a failed persist
// after TryAssign, and the path behind administrative hard deletes.
func (a *Allocator) Retract(assignmentID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.removeLocked(assignmentID)
}

// ActiveAssignment returns the assignment covering the resource at the given
// instant, if any. This is the lookup behind every occupancy view.
func (a *Allocator) ActiveAssignment(resourceID string, at time.Time) (Assignment, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, as := range a.byResource[resourceID] {
		if as.activeAt(at) {
			return *as, true
		}
	}
	return Assignment{}, false
}

// IsAvailable reports whether [start, end) on the resource is free of
// overlapping assignments. Non-mutating twin of TryAssign.
func (a *Allocator) IsAvailable(resourceID string, start time.Time, end *time.Time) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.conflictLocked(resourceID, start, end, "") == nil
}

func (a *Allocator) conflictLocked(resourceID string, start time.Time, end *time.Time, excludeID string) *Assignment {
	for _, as := range a.byResource[resourceID] {
		if as.ID == excludeID {
			continue
		}
		if overlaps(as.Start, as.End, start, end) {
			return as
		}
	}
	return nil
}

func (a *Allocator) detachLocked(as *Assignment) {
	list := a.byResource[as.ResourceID]
	for i, other := range list {
		if other.ID == as.ID {
			a.byResource[as.ResourceID] = append(list[:i], list[i+1:]...)
			break
		}
	}
}

func (a *Allocator) removeLocked(assignmentID string) {
	as, ok := a.byID[assignmentID]
	if !ok {
		return
	}
	a.detachLocked(as)
	delete(a.byID, assignmentID)
}

func conflictError(resourceID, occupantID string) error {
	return ErrConflict.WithMeta(map[string]string{
		"resource_id": resourceID,
		"occupant_id": occupantID,
	})
}

func copyEnd(end *time.Time) *time.Time {
	if end == nil {
		return nil
	}
	cp := *end
	return &cp
}
