package ir

import (
	"errors"
	"fmt"

	"github.com/Natalie359738/sway/internal/diag"
	"github.com/Natalie359738/sway/internal/irtype"
)

// FoldSummary counts what FoldConstAggregates did to one function.
type FoldSummary struct {
	// Full counts chains collapsed into a single constant.
	Full int
	// Partial counts chains folded into a constant base plus a retained
	// suffix of non-constant insertions.
	Partial int
	// Skipped counts chains left untouched (aliased intermediates, or a
	// leading non-constant element).
	Skipped int
	// Extracts counts extract_value instructions replaced by constants.
	Extracts int
}

// Add accumulates another summary into s.
func (s *FoldSummary) Add(o FoldSummary) {
	s.Full += o.Full
	s.Partial += o.Partial
	s.Skipped += o.Skipped
	s.Extracts += o.Extracts
}

func (s FoldSummary) String() string {
	return fmt.Sprintf("%d folded, %d partial, %d skipped, %d extracts",
		s.Full, s.Partial, s.Skipped, s.Extracts)
}

// FoldConstAggregates collapses chains of insert_value instructions
// rooted at an all-undefined constant aggregate.
//
// A chain whose every inserted element is a compile-time constant is
// replaced by one const instruction carrying the final aggregate. A
// chain with a non-constant element is folded up to that element: the
// constant prefix becomes a new const base and the first retained
// insert_value is rebased onto it. An intermediate chain value with any
// use outside the chain blocks folding of its chain entirely; the pass
// never deletes a definition the rest of the stream still observes.
//
// Structural errors (index paths that do not match the operand type) are
// recorded into bag and returned joined; each aborts only its own chain.
// The bag may be nil.
func FoldConstAggregates(f *Func, tys *irtype.Interner, bag *diag.Bag) (FoldSummary, error) {
	var sum FoldSummary
	var errs []error
	if f == nil {
		return sum, nil
	}

	processed := make(map[ValueID]bool)
	for {
		bi, ii := nextSeed(f, processed)
		if bi < 0 {
			break
		}
		seedRes := f.Blocks[bi].Instrs[ii].Result
		processed[seedRes] = true
		outcome, err := foldChain(f, tys, bag, BlockID(bi), ii)
		if err != nil {
			errs = append(errs, err)
		}
		sum.Add(outcome)
	}

	sum.Extracts = foldConstExtracts(f)
	return sum, errors.Join(errs...)
}

// nextSeed finds the next unprocessed const instruction producing an
// all-undefined aggregate. Returns (-1, -1) when none remain.
func nextSeed(f *Func, processed map[ValueID]bool) (int, int) {
	for bi := range f.Blocks {
		for ii := range f.Blocks[bi].Instrs {
			in := &f.Blocks[bi].Instrs[ii]
			if in.Kind != InstrConst || processed[in.Result] {
				continue
			}
			c := in.Const.Value
			if c.IsAggregate() && c.AllUndef() {
				return bi, ii
			}
		}
	}
	return -1, -1
}

// foldChain analyzes and rewrites the insert_value chain rooted at the
// seed const instruction at f.Blocks[b].Instrs[seedIdx].
func foldChain(f *Func, tys *irtype.Interner, bag *diag.Bag, b BlockID, seedIdx int) (FoldSummary, error) {
	blk := &f.Blocks[b]
	seed := &blk.Instrs[seedIdx]
	seedRes := seed.Result
	aggTy := seed.Const.Value.Type

	snapshot := seed.Const.Value.Clone()
	uses := f.UseCounts()

	// Walk the chain: each link is the insert_value (anywhere later in
	// the block) whose base is the previous link's result.
	var absorbed []int
	retained := -1
	cur := seedRes
	scan := seedIdx + 1
	for scan < len(blk.Instrs) {
		in := &blk.Instrs[scan]
		if in.Kind != InstrInsertValue || in.Insert.Base != cur {
			scan++
			continue
		}
		if _, ok := tys.IndexedType(aggTy, in.Insert.Indices); !ok {
			loc := diag.Locus{Fn: f.Name, Block: int32(b), Index: scan}
			bag.Add(diag.NewError(diag.OptInvalidIndexPath, loc,
				fmt.Sprintf("index path %v does not match type %s", in.Insert.Indices, tys.String(aggTy))))
			return FoldSummary{}, fmt.Errorf("%s: %w: path %v into %s",
				loc, ErrInvalidIndexPath, in.Insert.Indices, tys.String(aggTy))
		}
		elem, isConst := f.AsConst(in.Insert.Elem)
		if !isConst || !elem.FullyConcrete() {
			retained = scan
			break
		}
		next, ok := snapshot.ReplaceIndexed(in.Insert.Indices, elem)
		if !ok {
			// Shape mismatch between snapshot and type table.
			loc := diag.Locus{Fn: f.Name, Block: int32(b), Index: scan}
			bag.Add(diag.NewError(diag.OptInvalidIndexPath, loc,
				fmt.Sprintf("index path %v does not match aggregate shape", in.Insert.Indices)))
			return FoldSummary{}, fmt.Errorf("%s: %w: path %v", loc, ErrInvalidIndexPath, in.Insert.Indices)
		}
		snapshot = next
		absorbed = append(absorbed, scan)
		cur = in.Result
		scan++
	}

	if len(absorbed) == 0 {
		if retained >= 0 {
			// A chain exists but its first element is not constant;
			// rebasing onto the seed would be a no-op.
			return FoldSummary{Skipped: 1}, nil
		}
		return FoldSummary{}, nil
	}

	// Aliasing precondition: every intermediate result must have exactly
	// one use (the next link's base). The final result of a full fold is
	// exempt: its external uses are redirected to the new constant.
	last := len(absorbed) - 1
	for k, idx := range absorbed {
		if k == last && retained < 0 {
			continue
		}
		res := blk.Instrs[idx].Result
		if uses[res] != 1 {
			loc := diag.Locus{Fn: f.Name, Block: int32(b), Index: idx}
			bag.Add(diag.NewInfo(diag.OptAliasedIntermediate, loc,
				fmt.Sprintf("v%d has %d uses, chain left unfolded", res, uses[res])))
			return FoldSummary{Skipped: 1}, nil
		}
	}

	if retained < 0 {
		nc := f.NewConstValue(snapshot)
		lastRes := blk.Instrs[absorbed[last]].Result
		f.ReplaceUses(map[ValueID]ValueID{lastRes: nc})
		rewriteChain(f, b, seedIdx, absorbed, nc)
		return FoldSummary{Full: 1}, nil
	}

	// The retained instruction overwrites its own position, so the new
	// base leaves that position undefined even when the constant prefix
	// wrote it. Nothing ever observes the overwritten entry.
	retInd := blk.Instrs[retained].Insert.Indices
	retTy, _ := tys.IndexedType(aggTy, retInd)
	if cleared, ok := snapshot.ReplaceIndexed(retInd, UndefOf(tys, retTy)); ok {
		snapshot = cleared
	}
	nc := f.NewConstValue(snapshot)
	blk.Instrs[retained].Insert.Base = nc
	rewriteChain(f, b, seedIdx, absorbed, nc)
	return FoldSummary{Partial: 1}, nil
}

// rewriteChain inserts the new const instruction at the position of the
// first absorbed instruction and deletes absorbed instructions (and the
// seed) whose results have zero remaining uses. Deletions are decided
// against fresh use counts, then applied in one rebuild so the scan
// never reads a half-mutated stream.
func rewriteChain(f *Func, b BlockID, seedIdx int, absorbed []int, nc ValueID) {
	blk := &f.Blocks[b]
	uses := f.UseCounts()

	deleted := make(map[int]bool, len(absorbed)+1)
	for k := len(absorbed) - 1; k >= 0; k-- {
		idx := absorbed[k]
		in := &blk.Instrs[idx]
		if uses[in.Result] != 0 {
			// Still observed somewhere: logically redundant but kept.
			continue
		}
		deleted[idx] = true
		for _, op := range in.Operands() {
			if op >= 0 && int(op) < len(uses) {
				uses[op]--
			}
		}
	}
	if uses[blk.Instrs[seedIdx].Result] == 0 {
		deleted[seedIdx] = true
	}

	firstAbsorbed := absorbed[0]
	out := make([]Instr, 0, len(blk.Instrs)+1)
	for idx := range blk.Instrs {
		if idx == firstAbsorbed {
			out = append(out, Instr{
				Kind:   InstrConst,
				Result: nc,
				Const:  ConstInstr{Value: f.Values[nc].Const},
			})
		}
		if deleted[idx] {
			continue
		}
		out = append(out, blk.Instrs[idx])
	}
	blk.Instrs = out
}

// foldConstExtracts replaces extract_value instructions whose base
// resolves to a constant with the extracted constant, provided the
// addressed position is fully concrete. The instruction is rewritten in
// place into a const producing the same value id, so every existing use
// keeps observing the same value.
func foldConstExtracts(f *Func) int {
	n := 0
	for bi := range f.Blocks {
		for ii := range f.Blocks[bi].Instrs {
			in := &f.Blocks[bi].Instrs[ii]
			if in.Kind != InstrExtractValue {
				continue
			}
			base, ok := f.AsConst(in.Extract.Base)
			if !ok {
				continue
			}
			sub, ok := base.Indexed(in.Extract.Indices)
			if !ok || !sub.FullyConcrete() {
				continue
			}
			res := in.Result
			*in = Instr{
				Kind:   InstrConst,
				Result: res,
				Const:  ConstInstr{Value: sub},
			}
			f.Values[res] = Value{Kind: ValueConst, Type: sub.Type, Const: sub}
			n++
		}
	}
	return n
}
