package emit

import (
	"github.com/lljvm-go/jvmback/bitset"
	"github.com/lljvm-go/jvmback/ir"
	"nikand.dev/go/heap"
)

// blockJob is one pending block in the ordering heap, carrying its
// original position in ir.Func.Blocks as the sort key.
type blockJob struct {
	block *ir.Block
	index int
}

// blockSuccessors returns the blocks a terminator can fall into, read
// off whichever of its target fields its opcode populates.
func blockSuccessors(b *ir.Block) []*ir.Block {
	if len(b.Instr) == 0 {
		return nil
	}

	term := b.Instr[len(b.Instr)-1]
	switch term.Op {
	case ir.OpBr:
		return []*ir.Block{term.Target}
	case ir.OpCondBr:
		return []*ir.Block{term.TrueBlock, term.FalseBlock}
	case ir.OpSwitch:
		out := make([]*ir.Block, 0, len(term.Cases)+1)
		if term.Default != nil {
			out = append(out, term.Default)
		}
		for _, c := range term.Cases {
			out = append(out, c.Block)
		}
		return out
	case ir.OpInvoke:
		return []*ir.Block{term.NormalBlock, term.UnwindBlock}
	default:
		return nil
	}
}

// heapOrder walks blocks starting from seed, discovering the rest of
// the scope by following successor edges as it goes: each popped
// block's unclaimed, in-scope successors are pushed before moving on,
// so the heap always holds exactly the still-unvisited frontier — the
// same "push newly discovered candidates, pop the next one to process"
// shape back6.go's jobs heap uses to drive its single-pass code-layout
// walk. Draining by ascending original index keeps fallthrough-
// adjacent blocks together even though discovery order follows the CFG
// rather than Func.Blocks. A block the CFG walk never reaches from seed
// (dead code, or a second entry into this scope) is swept in afterward,
// in original-index order, as an additional seed.
func heapOrder(seed *ir.Block, blocks []*ir.Block, index map[*ir.Block]int) []*ir.Block {
	inScope := make(map[*ir.Block]bool, len(blocks))
	for _, b := range blocks {
		inScope[b] = true
	}

	h := heap.Heap[blockJob]{Less: func(d []blockJob, i, j int) bool { return d[i].index < d[j].index }}
	pushed := make(map[*ir.Block]bool, len(blocks))

	push := func(b *ir.Block) {
		if b == nil || !inScope[b] || pushed[b] {
			return
		}
		pushed[b] = true
		h.Push(blockJob{block: b, index: index[b]})
	}

	push(seed)

	out := make([]*ir.Block, 0, len(blocks))
	drain := func() {
		for h.Len() != 0 {
			b := h.Pop().block
			out = append(out, b)
			for _, s := range blockSuccessors(b) {
				push(s)
			}
		}
	}
	drain()

	for _, b := range blocks {
		push(b)
	}
	drain()

	return out
}

// LayoutStep is one step of a function's block-emission sequence: a
// block to emit, or — once a natural loop's body has been fully walked
// — the trailing back-edge goto to its header that closes the loop.
// Exactly one of Block/BackEdgeTo is set.
type LayoutStep struct {
	Block      *ir.Block
	BackEdgeTo *ir.Block
}

// BlockOrder lays out f's blocks so every natural loop's body is
// contiguous, nested loops fully contained within their parent's span,
// each loop closed by an explicit "goto <header>" back-edge once its
// body is walked, driven by the Loop tree the host's loop-analysis
// pass supplies (nil Loops falls back to f.Blocks order untouched, no
// back-edges synthesized).
func BlockOrder(f *ir.Func) []LayoutStep {
	if len(f.Loops) == 0 {
		steps := make([]LayoutStep, len(f.Blocks))
		for i, b := range f.Blocks {
			steps[i] = LayoutStep{Block: b}
		}
		return steps
	}

	index := make(map[*ir.Block]int, len(f.Blocks))
	for i, b := range f.Blocks {
		index[b] = i
	}

	headerLoop := map[*ir.Block]*ir.Loop{}
	var indexLoops func([]*ir.Loop)
	indexLoops = func(loops []*ir.Loop) {
		for _, lp := range loops {
			headerLoop[lp.Header] = lp
			indexLoops(lp.Children)
		}
	}
	indexLoops(f.Loops)

	// claimed tracks which blocks (by their original Func.Blocks
	// position, via index) the walk below has already placed, so a
	// block reachable through more than one path — the loop's own
	// heapOrder walk and the outer one both discover its header, say —
	// is placed exactly once.
	claimed := bitset.New(len(f.Blocks))

	var emitLoop func(lp *ir.Loop) []LayoutStep
	emitLoop = func(lp *ir.Loop) []LayoutStep {
		var out []LayoutStep
		for _, b := range heapOrder(lp.Header, lp.Blocks, index) {
			// The caller claimed lp.Header before recursing here; it
			// is still this loop's first block to place.
			if b != lp.Header {
				if claimed.IsSet(index[b]) {
					continue
				}
				claimed.Set(index[b])
			}

			if child, ok := headerLoop[b]; ok && child != lp {
				out = append(out, emitLoop(child)...)
			} else {
				out = append(out, LayoutStep{Block: b})
			}
		}
		out = append(out, LayoutStep{BackEdgeTo: lp.Header})
		return out
	}

	var out []LayoutStep
	for _, b := range heapOrder(f.Entry(), f.Blocks, index) {
		if claimed.IsSet(index[b]) {
			continue
		}
		claimed.Set(index[b])

		if lp, ok := headerLoop[b]; ok {
			out = append(out, emitLoop(lp)...)
		} else {
			out = append(out, LayoutStep{Block: b})
		}
	}

	return out
}
