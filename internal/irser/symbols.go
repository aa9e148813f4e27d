package irser

import (
	"fmt"

	"irpack/internal/ir"
	"irpack/internal/overrides"
	"irpack/internal/wire"
)

// defineSymbol writes the symbol of d at its definition site.
func (e *encoder) defineSymbol(d ir.Declaration) (wire.Symbol, error) {
	sym := d.Symbol()
	if sym == nil || sym.Owner() != d {
		return wire.Symbol{}, invalidGraph(d.Kind().String(), "%s is not bound to its symbol", ir.NameOf(d))
	}
	id := e.index.IndexOf(d)
	if _, dup := e.defined[id]; dup {
		return wire.Symbol{}, &Error{Kind: ErrKindInvalidGraph, ID: id, Node: d.Kind().String(),
			Detail: fmt.Sprintf("%s defined twice", ir.QualifiedName(d))}
	}
	e.defined[id] = e.blob
	return wire.Symbol{Kind: uint8(sym.Kind()), ID: uint64(id)}, nil
}

// symbolRef writes a use-site reference. Fake-override targets are replaced
// by their representative real member.
func (e *encoder) symbolRef(sym *ir.Symbol) (wire.Symbol, error) {
	if sym == nil {
		return wire.Symbol{}, invalidGraph("symbol", "nil reference")
	}
	site := sym.Owner()
	if site == nil {
		return wire.Symbol{}, unresolved(ir.NoUniqID, "unbound %s symbol", sym.Kind())
	}
	target := site
	if site.Base().IsFakeOverride() {
		rep, err := overrides.Representative(site)
		if err != nil {
			return wire.Symbol{}, &Error{Kind: ErrKindFakeOverrideResolutionAmbiguous, Node: "symbol",
				Detail: ir.QualifiedName(site), Err: err}
		}
		target = rep
	}
	id := e.identity(target)
	desc, err := e.descriptorOf(site, target, id)
	if err != nil {
		return wire.Symbol{}, err
	}
	if !id.IsValid() {
		if desc != nil {
			return wire.Symbol{Kind: uint8(ir.SymbolKindOf(target)), Descriptor: desc}, nil
		}
		id = e.index.IndexOf(target)
	}
	e.refs[refKey{id: id, from: e.blob}] = struct{}{}
	return wire.Symbol{Kind: uint8(ir.SymbolKindOf(target)), ID: uint64(id), Descriptor: desc}, nil
}

// identity returns the identity a reference to d carries. Declarations of
// other modules that no decode has given an identity get none: this module
// cannot know the identity their own encoder assigns, so they are named by
// descriptor alone.
func (e *encoder) identity(d ir.Declaration) ir.UniqID {
	if !e.local[d] && !d.Base().UniqID.IsValid() {
		if _, known := e.index.ids[d]; !known {
			return ir.NoUniqID
		}
	}
	return e.index.IndexOf(d)
}

func (e *encoder) optSymbolRef(sym *ir.Symbol) (*wire.Symbol, error) {
	if sym == nil {
		return nil, nil
	}
	ws, err := e.symbolRef(sym)
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// overridden writes the overridden list of fn with fake overrides expanded
// to every real member behind them.
func (e *encoder) overridden(fn *ir.Function) ([]wire.Symbol, error) {
	type seenKey struct {
		id   uint64
		desc wire.Descriptor
	}
	var out []wire.Symbol
	seen := make(map[seenKey]bool)
	add := func(ws wire.Symbol) {
		key := seenKey{id: ws.ID}
		if ws.ID == 0 && ws.Descriptor != nil {
			key.desc = *ws.Descriptor
		}
		if !seen[key] {
			seen[key] = true
			out = append(out, ws)
		}
	}
	for _, sym := range fn.Overridden {
		owner := sym.Owner()
		if owner == nil || !owner.Base().IsFakeOverride() {
			ws, err := e.symbolRef(sym)
			if err != nil {
				return nil, err
			}
			add(ws)
			continue
		}
		reals, err := overrides.Resolve(owner)
		if err != nil {
			return nil, &Error{Kind: ErrKindFakeOverrideResolutionAmbiguous, Node: "function",
				Detail: ir.QualifiedName(owner), Err: err}
		}
		for _, r := range reals {
			ws, err := e.symbolRef(r.Symbol())
			if err != nil {
				return nil, err
			}
			add(ws)
		}
	}
	return out, nil
}

func symbolKind(k uint8) (ir.SymbolKind, error) {
	kind := ir.SymbolKind(k)
	if kind <= ir.SymbolInvalid || kind > ir.SymbolTypeAlias {
		return ir.SymbolInvalid, fmt.Errorf("symbol kind %d out of range", k)
	}
	return kind, nil
}

// lookup finds a symbol staged by this session or committed earlier.
func (s *session) lookup(id ir.UniqID) (*ir.Symbol, bool) {
	if sym, ok := s.symbols[id]; ok {
		return sym, true
	}
	sym, ok := s.d.symbols[id]
	return sym, ok
}

// defineSymbol binds d to the symbol recorded at its definition site,
// reusing a placeholder handed out by an earlier reference.
func (s *session) defineSymbol(ws *wire.Symbol, d ir.Declaration) error {
	kind, err := symbolKind(ws.Kind)
	if err != nil {
		return malformed(d.Kind().String(), "%v", err)
	}
	if want := ir.SymbolKindOf(d); kind != want {
		return malformed(d.Kind().String(), "definition site carries a %s symbol", kind)
	}
	id := ir.UniqID(ws.ID)
	if !id.IsValid() {
		return malformed(d.Kind().String(), "definition site without identity")
	}
	if _, dup := s.decls[id]; dup {
		return &Error{Kind: ErrKindMalformedWire, ID: id, Node: d.Kind().String(), Detail: "defined twice"}
	}
	if _, dup := s.d.decls[id]; dup {
		return &Error{Kind: ErrKindMalformedWire, ID: id, Node: d.Kind().String(), Detail: "defined twice"}
	}
	sym, ok := s.placeholders[id]
	if ok {
		if sym.Kind() != kind {
			return &Error{Kind: ErrKindMalformedWire, ID: id, Node: d.Kind().String(),
				Detail: fmt.Sprintf("referenced as %s, defined as %s", sym.Kind(), kind)}
		}
		delete(s.placeholders, id)
	} else {
		sym = ir.NewSymbol(kind)
	}
	if err := sym.Bind(d); err != nil {
		return &Error{Kind: ErrKindMalformedWire, ID: id, Node: d.Kind().String(), Err: err}
	}
	s.bound = append(s.bound, sym)
	d.Base().UniqID = id
	s.symbols[id] = sym
	s.decls[id] = d
	return nil
}

// symbolRef turns a use-site reference into a symbol handle.
func (s *session) symbolRef(ws *wire.Symbol) (*ir.Symbol, error) {
	kind, err := symbolKind(ws.Kind)
	if err != nil {
		return nil, malformed("symbol", "%v", err)
	}
	id := ir.UniqID(ws.ID)
	if !id.IsValid() {
		if ws.Descriptor == nil {
			return nil, malformed("symbol", "reference without identity or descriptor")
		}
		return s.resolveForeign(kind, ws.Descriptor)
	}
	if sym, ok := s.lookup(id); ok {
		if sym.Kind() != kind {
			return nil, &Error{Kind: ErrKindMalformedWire, ID: id, Node: "symbol",
				Detail: fmt.Sprintf("referenced as %s, known as %s", kind, sym.Kind())}
		}
		return sym, nil
	}
	if sym, ok := s.placeholders[id]; ok {
		if sym.Kind() != kind {
			return nil, &Error{Kind: ErrKindMalformedWire, ID: id, Node: "symbol",
				Detail: fmt.Sprintf("referenced as %s and as %s", kind, sym.Kind())}
		}
		return sym, nil
	}
	if ws.Descriptor != nil && !s.d.isLocal(id) {
		sym, err := s.resolveForeign(kind, ws.Descriptor)
		if err != nil {
			return nil, err
		}
		s.symbols[id] = sym
		return sym, nil
	}
	if !s.d.isLocal(id) {
		return nil, unresolved(id, "%s is neither built-in nor part of module %s", kind, s.d.header.Name)
	}
	sym := ir.NewSymbol(kind)
	s.placeholders[id] = sym
	s.schedule(s.d.blobOf(id))
	return sym, nil
}

func (s *session) optSymbolRef(ws *wire.Symbol) (*ir.Symbol, error) {
	if ws == nil {
		return nil, nil
	}
	return s.symbolRef(ws)
}

func (s *session) resolveForeign(kind ir.SymbolKind, desc *wire.Descriptor) (*ir.Symbol, error) {
	d, err := resolveDescriptor(s.d.res.Resolver, desc, kind)
	if err != nil {
		return nil, &Error{Kind: ErrKindUnresolvedSymbol, ID: ir.UniqID(desc.ID), Node: "symbol", Err: err}
	}
	sym := d.Symbol()
	if sym == nil {
		return nil, unresolved(ir.UniqID(desc.ID), "%s has no symbol", describe(desc))
	}
	if sym.Kind() != kind {
		return nil, unresolved(ir.UniqID(desc.ID), "%s resolved to a %s, want %s", describe(desc), sym.Kind(), kind)
	}
	return sym, nil
}
