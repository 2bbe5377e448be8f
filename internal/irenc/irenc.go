// Package irenc serializes IR modules to the binary .swir format using
// msgpack. The payload is schema-versioned so stale files are rejected
// instead of being misread.
package irenc

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/text/unicode/norm"

	"github.com/Natalie359738/sway/internal/ir"
	"github.com/Natalie359738/sway/internal/irtype"
)

// Current schema version - increment when the payload format changes.
const schemaVersion uint16 = 1

type payload struct {
	Schema uint16
	Types  []irtype.Record
	Funcs  []*ir.Func
}

// Encode writes a module and its type table to w.
func Encode(w io.Writer, m *ir.Module, tys *irtype.Interner) error {
	p := payload{
		Schema: schemaVersion,
		Types:  tys.Export(),
		Funcs:  m.Funcs,
	}
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(&p); err != nil {
		return fmt.Errorf("irenc: encode: %w", err)
	}
	return nil
}

// Decode reads a module and rebuilds its type table. Function and call
// names are NFC-normalized so identifier comparisons downstream are
// byte-wise.
func Decode(r io.Reader) (*ir.Module, *irtype.Interner, error) {
	var p payload
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return nil, nil, fmt.Errorf("irenc: decode: %w", err)
	}
	if p.Schema != schemaVersion {
		return nil, nil, fmt.Errorf("irenc: schema %d, want %d", p.Schema, schemaVersion)
	}
	tys, err := irtype.Restore(p.Types)
	if err != nil {
		return nil, nil, fmt.Errorf("irenc: type table: %w", err)
	}
	m := &ir.Module{Funcs: p.Funcs}
	for _, f := range m.Funcs {
		if f == nil {
			continue
		}
		f.Name = norm.NFC.String(f.Name)
		for bi := range f.Blocks {
			for ii := range f.Blocks[bi].Instrs {
				in := &f.Blocks[bi].Instrs[ii]
				if in.Kind == ir.InstrCall {
					in.Call.Name = norm.NFC.String(in.Call.Name)
				}
			}
		}
	}
	return m, tys, nil
}
