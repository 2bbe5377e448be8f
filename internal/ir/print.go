package ir

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/Natalie359738/sway/internal/irtype"
)

// DumpOptions configures module dumping.
type DumpOptions struct{}

// DumpModule writes a human-readable representation of a module.
func DumpModule(w io.Writer, m *Module, tys *irtype.Interner, _ DumpOptions) error {
	if w == nil || m == nil {
		return nil
	}
	funcs := make([]*Func, 0, len(m.Funcs))
	for _, f := range m.Funcs {
		if f != nil {
			funcs = append(funcs, f)
		}
	}
	slices.SortStableFunc(funcs, func(a, b *Func) int {
		return strings.Compare(a.Name, b.Name)
	})

	fmt.Fprintf(w, "funcs=%d\n", len(funcs))
	for _, f := range funcs {
		if err := dumpFunc(w, f, tys); err != nil {
			return err
		}
	}
	return nil
}

func dumpFunc(w io.Writer, f *Func, tys *irtype.Interner) error {
	if w == nil || f == nil {
		return nil
	}
	fmt.Fprintf(w, "\nfn %s() -> %s:\n", f.Name, tys.String(f.Result))
	for bi := range f.Blocks {
		bb := &f.Blocks[bi]
		fmt.Fprintf(w, "  bb%d:\n", bb.ID)
		for ii := range bb.Instrs {
			fmt.Fprintf(w, "    %s\n", instrStr(&bb.Instrs[ii], tys))
		}
	}
	return nil
}

func instrStr(in *Instr, tys *irtype.Interner) string {
	switch in.Kind {
	case InstrConst:
		return fmt.Sprintf("v%d = const %s", in.Result, ConstString(in.Const.Value, tys))
	case InstrInsertValue:
		return fmt.Sprintf("v%d = insert_value v%d, v%d, %v",
			in.Result, in.Insert.Base, in.Insert.Elem, in.Insert.Indices)
	case InstrExtractValue:
		return fmt.Sprintf("v%d = extract_value v%d, %v",
			in.Result, in.Extract.Base, in.Extract.Indices)
	case InstrGetPtr:
		return fmt.Sprintf("v%d = get_ptr v%d", in.Result, in.GetPtr.Target)
	case InstrLoad:
		return fmt.Sprintf("v%d = load v%d", in.Result, in.Load.Ptr)
	case InstrStore:
		return fmt.Sprintf("store v%d, v%d", in.Store.Ptr, in.Store.Val)
	case InstrBitCast:
		return fmt.Sprintf("v%d = bitcast v%d to %s", in.Result, in.BitCast.Val, tys.String(in.BitCast.To))
	case InstrCall:
		args := make([]string, len(in.Call.Args))
		for i, a := range in.Call.Args {
			args[i] = fmt.Sprintf("v%d", a)
		}
		return fmt.Sprintf("v%d = call %s(%s)", in.Result, in.Call.Name, strings.Join(args, ", "))
	case InstrRet:
		if in.Ret.HasValue {
			return fmt.Sprintf("ret v%d", in.Ret.Val)
		}
		return "ret"
	default:
		return "<?>"
	}
}

// ConstString renders a constant for dumps and diagnostics.
func ConstString(c Constant, tys *irtype.Interner) string {
	switch c.Kind {
	case ConstUndef:
		return fmt.Sprintf("%s undef", tys.String(c.Type))
	case ConstUnit:
		return "()"
	case ConstBool:
		return fmt.Sprintf("bool %t", c.Bool)
	case ConstUint:
		return fmt.Sprintf("%s %d", tys.String(c.Type), c.Uint)
	case ConstB256:
		return fmt.Sprintf("b256 0x%x", c.B256)
	case ConstStr:
		return fmt.Sprintf("%s %q", tys.String(c.Type), c.Str)
	case ConstArray, ConstStruct:
		parts := make([]string, len(c.Fields))
		for i := range c.Fields {
			parts[i] = ConstString(c.Fields[i], tys)
		}
		if c.Kind == ConstArray {
			return "[ " + strings.Join(parts, ", ") + " ]"
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	default:
		return "<?>"
	}
}
