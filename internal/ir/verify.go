package ir

import (
	"errors"
	"fmt"
)

// VerifyFolded is a read-only post-pass check: it fails when any
// insert_value instruction's base operand resolves, via constant
// propagation, to a fully concrete constant aggregate. Such an
// instruction should have been eliminated by FoldConstAggregates, so a
// hit means the pass did not reach its expected fixed point.
func VerifyFolded(f *Func) error {
	if f == nil {
		return nil
	}
	var errs []error
	for bi := range f.Blocks {
		for ii := range f.Blocks[bi].Instrs {
			in := &f.Blocks[bi].Instrs[ii]
			if in.Kind != InstrInsertValue {
				continue
			}
			base, ok := f.AsConst(in.Insert.Base)
			if !ok || !base.IsAggregate() || !base.FullyConcrete() {
				continue
			}
			errs = append(errs, fmt.Errorf("%s: bb%d[%d]: %w: insert_value on concrete base v%d",
				f.Name, bi, ii, ErrUnfoldedConstantAggregate, in.Insert.Base))
		}
	}
	return errors.Join(errs...)
}

// VerifyModuleFolded runs VerifyFolded over every function.
func VerifyModuleFolded(m *Module) error {
	if m == nil {
		return nil
	}
	var errs []error
	for _, f := range m.Funcs {
		if err := VerifyFolded(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
