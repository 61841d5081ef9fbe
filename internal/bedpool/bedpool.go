// Package bedpool holds the fixed catalogue of beds. The set comes from
// configuration; adding or removing a physical bed is a deployment change,
// never a runtime operation.
package bedpool

import (
	"fmt"
	"strings"

	"github.com/medifront/frontdesk-backend/internal/pkg/apperror"
)

var ErrUnknownBed = apperror.NotFound("bed does not exist")

// Bed is a single-capacity allocatable unit, identified by its number
// (e.g. "B1").
type Bed struct {
	ID string `json:"id"`
}

// Pool is the immutable bed catalogue.
type Pool struct {
	beds  []Bed
	index map[string]struct{}
}

// New builds a Pool from the configured bed ids. Ids are trimmed; blanks and
// duplicates are rejected so availability math stays well-defined.
func New(ids []string) (*Pool, error) {
	p := &Pool{
		beds:  make([]Bed, 0, len(ids)),
		index: make(map[string]struct{}, len(ids)),
	}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("bed id cannot be empty")
		}
		if _, dup := p.index[id]; dup {
			return nil, fmt.Errorf("duplicate bed id %q", id)
		}
		p.index[id] = struct{}{}
		p.beds = append(p.beds, Bed{ID: id})
	}
	if len(p.beds) == 0 {
		return nil, fmt.Errorf("bed catalogue cannot be empty")
	}
	return p, nil
}

// DefaultIDs returns the stock catalogue "B1".."Bn".
func DefaultIDs(n int) []string {
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		ids = append(ids, fmt.Sprintf("B%d", i))
	}
	return ids
}

// List returns the catalogue in configured order. The slice is a copy.
func (p *Pool) List() []Bed {
	out := make([]Bed, len(p.beds))
	copy(out, p.beds)
	return out
}

// Exists reports whether the bed id is part of the catalogue.
func (p *Pool) Exists(id string) bool {
	_, ok := p.index[id]
	return ok
}
