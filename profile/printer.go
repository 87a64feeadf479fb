package profile

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"slotvm/frame"
)

// Printer renders profiler results to an injected writer
type Printer struct {
	out  io.Writer
	sort bool
}

// NewPrinter creates a printer. When sortResults is set, sites are listed
// by descending write count instead of first-use order.
func NewPrinter(out io.Writer, sortResults bool) *Printer {
	return &Printer{out: out, sort: sortResults}
}

func (p *Printer) banner(caption string, size int) {
	half := strings.Repeat("=", size/2)
	fmt.Fprintf(p.out, "%s %s %s\n", half, caption, half)
}

// PrintWriteResults prints one row per write site that executed at least once
func (p *Printer) PrintWriteResults(prof *Profiler) {
	results := prof.Results()
	if p.sort {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Writes > results[j].Writes
		})
	}

	rows := results[:0:0]
	for _, r := range results {
		if r.Writes > 0 {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return
	}

	p.banner("Write Specialization Results", 72)
	fmt.Fprintf(p.out, "%-40s%10s%10s%10s%10s\n", "Write Site", "Writes", "Hot", "Widen", "Rewrite")
	fmt.Fprintf(p.out, "%-40s%10s%10s%10s%10s\n", "==========", "======", "===", "=====", "=======")
	for _, r := range rows {
		fmt.Fprintf(p.out, "%-40s%10d%10d%10d%10d\n", r.Site, r.Writes, r.HotHits, r.Widenings, r.Rewrites)
	}

	totals := make(map[frame.Kind]int64)
	for _, r := range rows {
		for k, n := range r.ByKind {
			if n > 0 {
				totals[frame.Kind(k)] += n
			}
		}
	}
	kinds := maps.Keys(totals)
	slices.Sort(kinds)
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s=%d", k, totals[k]))
	}
	fmt.Fprintf(p.out, "Writes by kind: %s\n", strings.Join(parts, " "))
}

// PrintKinds prints the current kind of every slot in view
func (p *Printer) PrintKinds(view frame.KindView) {
	if view.Size() == 0 {
		return
	}
	p.banner("Slot Kinds: "+view.Name(), 40)
	fmt.Fprintf(p.out, "%-6s%-30s%-10s\n", "Index", "Slot", "Kind")
	for i := 0; i < view.Size(); i++ {
		fmt.Fprintf(p.out, "%-6d%-30s%-10s\n", i, view.SlotName(i), view.KindOf(i))
	}
}
