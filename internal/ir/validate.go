package ir

import (
	"errors"
	"fmt"

	"github.com/Natalie359738/sway/internal/irtype"
)

// Validate checks module invariants.
// Returns error if any invariant is violated.
func Validate(m *Module, tys *irtype.Interner) error {
	if m == nil {
		return nil
	}
	var errs []error
	for _, f := range m.Funcs {
		if f == nil {
			continue
		}
		if err := ValidateFunc(f, tys); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateFunc checks one function's invariants: operand ids in range,
// results registered, index paths matching operand types, and constant
// aggregates whose field lists match their type's arity.
func ValidateFunc(f *Func, tys *irtype.Interner) error {
	if f == nil {
		return nil
	}
	var errs []error
	if err := validateOperands(f); err != nil {
		errs = append(errs, err)
	}
	if err := validateIndexPaths(f, tys); err != nil {
		errs = append(errs, err)
	}
	if err := validateConstants(f, tys); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// validateOperands checks that every operand and result id is in range.
func validateOperands(f *Func) error {
	var errs []error
	inRange := func(id ValueID) bool {
		return id >= 0 && int(id) < len(f.Values)
	}
	for bi := range f.Blocks {
		for ii := range f.Blocks[bi].Instrs {
			in := &f.Blocks[bi].Instrs[ii]
			if in.Result != NoValueID && !inRange(in.Result) {
				errs = append(errs, fmt.Errorf("bb%d[%d]: result v%d out of range", bi, ii, in.Result))
			}
			for _, op := range in.Operands() {
				if !inRange(op) {
					errs = append(errs, fmt.Errorf("bb%d[%d]: operand v%d out of range", bi, ii, op))
				}
			}
		}
	}
	return errors.Join(errs...)
}

// validateIndexPaths checks that every insert_value/extract_value path
// matches its base operand's type.
func validateIndexPaths(f *Func, tys *irtype.Interner) error {
	var errs []error
	for bi := range f.Blocks {
		for ii := range f.Blocks[bi].Instrs {
			in := &f.Blocks[bi].Instrs[ii]
			var base ValueID
			var indices []uint32
			switch in.Kind {
			case InstrInsertValue:
				base, indices = in.Insert.Base, in.Insert.Indices
			case InstrExtractValue:
				base, indices = in.Extract.Base, in.Extract.Indices
			default:
				continue
			}
			baseTy := f.ValueType(base)
			if _, ok := tys.IndexedType(baseTy, indices); !ok {
				errs = append(errs, fmt.Errorf("bb%d[%d]: %w: path %v into %s",
					bi, ii, ErrInvalidIndexPath, indices, tys.String(baseTy)))
			}
		}
	}
	return errors.Join(errs...)
}

// validateConstants checks that aggregate constants carry field lists
// matching their type's arity, recursively.
func validateConstants(f *Func, tys *irtype.Interner) error {
	var errs []error
	for bi := range f.Blocks {
		for ii := range f.Blocks[bi].Instrs {
			in := &f.Blocks[bi].Instrs[ii]
			if in.Kind != InstrConst {
				continue
			}
			if err := checkConstShape(in.Const.Value, tys); err != nil {
				errs = append(errs, fmt.Errorf("bb%d[%d]: %w", bi, ii, err))
			}
		}
	}
	return errors.Join(errs...)
}

func checkConstShape(c Constant, tys *irtype.Interner) error {
	if !c.IsAggregate() {
		return nil
	}
	want := tys.FieldCount(c.Type)
	if want != len(c.Fields) {
		return fmt.Errorf("constant %s has %d fields, type wants %d",
			tys.String(c.Type), len(c.Fields), want)
	}
	for i := range c.Fields {
		if err := checkConstShape(c.Fields[i], tys); err != nil {
			return err
		}
	}
	return nil
}
