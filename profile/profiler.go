// Package profile counts what write nodes do at run time and prints the
// results: how often each assignment site hit its specialized fast path,
// how often it widened its slot, and which kinds it wrote.
package profile

import (
	"fmt"

	"slotvm/frame"
)

// Site identifies one write node
type Site struct {
	Owner string // function / descriptor name
	Slot  string
	ID    int // distinguishes several assignment sites for one slot
}

func (s Site) String() string {
	return fmt.Sprintf("%s.%s#%d", s.Owner, s.Slot, s.ID)
}

// WriteStats holds the counters of one write site. A nil *WriteStats
// ignores all updates.
type WriteStats struct {
	Site      Site
	Writes    int64
	HotHits   int64 // guard satisfied, no widening
	Widenings int64 // registry kind changed by this site
	Rewrites  int64 // node replaced its cached specialization
	ByKind    [frame.KindObject + 1]int64
}

// Record counts one write stored with kind
func (s *WriteStats) Record(kind frame.Kind, hot bool) {
	if s == nil {
		return
	}
	s.Writes++
	if hot {
		s.HotHits++
	}
	if kind >= frame.KindIllegal && kind <= frame.KindObject {
		s.ByKind[kind]++
	}
}

// Widened counts a registry widening caused by this site
func (s *WriteStats) Widened() {
	if s == nil {
		return
	}
	s.Widenings++
}

// Rewritten counts a change of the node's cached specialization
func (s *WriteStats) Rewritten() {
	if s == nil {
		return
	}
	s.Rewrites++
}

// Profiler collects WriteStats per site. A nil *Profiler hands out nil
// stats, which makes profiling free to leave wired in.
type Profiler struct {
	sites map[Site]*WriteStats
	order []Site
}

// New creates an empty profiler
func New() *Profiler {
	return &Profiler{sites: make(map[Site]*WriteStats)}
}

// Stats returns the counters for site, creating them on first use
func (p *Profiler) Stats(site Site) *WriteStats {
	if p == nil {
		return nil
	}
	if s, ok := p.sites[site]; ok {
		return s
	}
	s := &WriteStats{Site: site}
	p.sites[site] = s
	p.order = append(p.order, site)
	return s
}

// Results returns the stats in first-use order
func (p *Profiler) Results() []*WriteStats {
	if p == nil {
		return nil
	}
	out := make([]*WriteStats, 0, len(p.order))
	for _, site := range p.order {
		out = append(out, p.sites[site])
	}
	return out
}

// Reset drops all counters
func (p *Profiler) Reset() {
	if p == nil {
		return
	}
	p.sites = make(map[Site]*WriteStats)
	p.order = nil
}
