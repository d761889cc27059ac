package pool

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stats counts pool activity since New.
type Stats struct {
	AllocCalls    int64 // Allocate calls with a positive size
	AllocFastPath int64 // Served straight from a free list
	Refills       int64 // Free list was empty, blocks carved in a batch
	RefillBlocks  int64 // Blocks granted by refills, including the one returned
	PartialGrants int64 // Refills that got fewer blocks than RefillBatch

	GrowCalls    int64 // System requests for a new chunk, including failures
	GrowFailures int64 // System requests for a chunk that failed
	GrowBytes    int64 // Bytes obtained for chunks

	Spills      int64 // Chunk tails pushed onto a free list
	SpillBytes  int64 // Bytes recovered by spills
	Scavenges   int64 // Idle blocks of a larger class used as a chunk
	LastResorts int64 // Final system requests after a failed scavenge
	OutOfMemory int64 // Requests that failed with ErrOutOfMemory

	FreeCalls      int64 // Deallocate calls with a positive size
	OversizeAllocs int64 // Requests passed through to the system allocator
	OversizeFrees  int64 // Oversized blocks returned to the system allocator
	OversizeBytes  int64 // Bytes of oversized blocks currently outstanding
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool) Stats() Stats {
	return p.stats
}

// PrintStats writes a human-readable report of the counters and free lists to w.
func (p *Pool) PrintStats(w io.Writer) {
	s := p.stats
	pr := message.NewPrinter(language.English)

	pr.Fprintf(w, "\n=== POOL STATISTICS (%s) ===\n", p.cfg.Name)
	pr.Fprintf(w, "Alloc calls:        %d (fast: %d, refill: %d)\n",
		s.AllocCalls, s.AllocFastPath, s.Refills)
	pr.Fprintf(w, "Refill blocks:      %d (partial grants: %d)\n", s.RefillBlocks, s.PartialGrants)
	pr.Fprintf(w, "Free calls:         %d\n", s.FreeCalls)
	pr.Fprintf(w, "Grow calls:         %d (%d failed, %d bytes added)\n",
		s.GrowCalls, s.GrowFailures, s.GrowBytes)
	pr.Fprintf(w, "Chunks:             %d (%d bytes left in current)\n",
		len(p.chunk.chunks), p.chunk.available())
	pr.Fprintf(w, "Spills:             %d (%d bytes)\n", s.Spills, s.SpillBytes)
	pr.Fprintf(w, "Scavenges:          %d\n", s.Scavenges)
	pr.Fprintf(w, "Last resorts:       %d\n", s.LastResorts)
	pr.Fprintf(w, "Out of memory:      %d\n", s.OutOfMemory)
	pr.Fprintf(w, "Oversize:           %d allocs, %d frees, %d bytes outstanding\n",
		s.OversizeAllocs, s.OversizeFrees, s.OversizeBytes)

	var freeBlocks, freeBytes int64
	pr.Fprintf(w, "\nFree lists:\n")
	for class := range p.classes.numClasses {
		n := p.lists.len(class)
		if n == 0 {
			continue
		}
		size := p.classes.classSize(class)
		pr.Fprintf(w, "  Class %2d (%4d B): %d blocks\n", class, size, n)
		freeBlocks += int64(n)
		freeBytes += int64(n * size)
	}
	pr.Fprintf(w, "Total: %d free blocks, %d bytes free\n", freeBlocks, freeBytes)
	pr.Fprintf(w, "============================\n\n")
}
