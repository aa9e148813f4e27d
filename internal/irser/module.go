package irser

import (
	"cmp"
	"context"
	"slices"
	"strconv"

	"fortio.org/safecast"

	"irpack/internal/ir"
	"irpack/internal/trace"
	"irpack/internal/wire"
)

// Serialized is an encoded module: the header and one blob per top-level
// declaration, keyed by identity.
type Serialized struct {
	Header []byte
	Blobs  map[ir.UniqID][]byte
}

// Encode serializes m. Nothing is returned unless the whole module encodes.
func Encode(ctx context.Context, m *ir.Module, opts Options) (*Serialized, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeSession, "encode", trace.ParentID(ctx))
	span.WithExtra("module", m.Name)

	e := newEncoder(m.Name, opts, tracer)
	out, err := e.encodeModule(m, span.ID())
	if err != nil {
		span.End(err.Error())
		return nil, err
	}
	span.WithExtra("blobs", strconv.Itoa(len(out.Blobs))).End("")
	return out, nil
}

type refKey struct {
	id   ir.UniqID
	from ir.UniqID
}

// encoder is the state of one Encode call.
type encoder struct {
	index    *DeclIndex
	loops    *LoopTable
	builtins []ir.Declaration
	maxDepth int
	depth    int

	tracer  trace.Tracer
	spanID  uint64
	blob    ir.UniqID               // top-level declaration being written
	defined map[ir.UniqID]ir.UniqID // identity -> blob that defines it
	refs    map[refKey]struct{}     // every reference, by referencing blob
	local   map[ir.Declaration]bool // declarations and members of the module
}

func newEncoder(module string, opts Options, tracer trace.Tracer) *encoder {
	return &encoder{
		index:    NewDeclIndex(module),
		loops:    NewLoopTable(),
		builtins: opts.Builtins,
		maxDepth: opts.maxDepth(),
		tracer:   tracer,
		defined:  make(map[ir.UniqID]ir.UniqID),
		refs:     make(map[refKey]struct{}),
		local:    make(map[ir.Declaration]bool),
	}
}

func (e *encoder) encodeModule(m *ir.Module, parent uint64) (*Serialized, error) {
	if err := e.index.Seed(e.builtins); err != nil {
		return nil, &Error{Kind: ErrKindInvalidGraph, Node: "builtins", Err: err}
	}
	for _, f := range m.Files {
		for _, d := range f.Declarations {
			walkDeclarations(d, func(x ir.Declaration) {
				e.local[x] = true
				e.index.Reserve(x)
			})
		}
	}

	header := wire.Module{Version: wire.FormatVersion, Name: m.Name}
	blobs := make(map[ir.UniqID][]byte)
	for _, f := range m.Files {
		fspan := trace.Begin(e.tracer, trace.ScopeFile, "file:"+f.Name, parent)
		wf := wire.File{Name: f.Name, Package: f.Package}
		for _, d := range f.Declarations {
			if d.Base().IsFakeOverride() {
				continue
			}
			id := e.index.IndexOf(d)
			if _, dup := blobs[id]; dup {
				fspan.End("duplicate")
				return nil, invalidGraph("file", "declaration %s listed twice", ir.QualifiedName(d))
			}
			data, err := e.encodeBlob(d, id, fspan.ID())
			if err != nil {
				fspan.End(err.Error())
				return nil, err
			}
			blobs[id] = data
			wf.Declarations = append(wf.Declarations, uint64(id))
		}
		header.Files = append(header.Files, wf)
		fspan.End("")
	}
	header.Owners = e.owners()

	data, err := wire.Marshal(&header)
	if err != nil {
		return nil, &Error{Kind: ErrKindInvalidGraph, Node: "module", Err: err}
	}
	return &Serialized{Header: data, Blobs: blobs}, nil
}

func (e *encoder) encodeBlob(d ir.Declaration, id ir.UniqID, parent uint64) ([]byte, error) {
	span := trace.Begin(e.tracer, trace.ScopeDecl, "decl:"+ir.QualifiedName(d), parent)
	e.blob = id
	e.spanID = span.ID()
	msg, err := e.declaration(d)
	if err != nil {
		span.End(err.Error())
		return nil, err
	}
	data, err := wire.Marshal(msg)
	if err != nil {
		span.End(err.Error())
		return nil, &Error{Kind: ErrKindInvalidGraph, ID: id, Node: "declaration", Err: err}
	}
	span.WithExtra("id", id.String()).WithExtra("bytes", strconv.Itoa(len(data))).End("")
	return data, nil
}

// owners lists nested declarations referenced from a blob other than their
// own, in identity order.
func (e *encoder) owners() []wire.Owner {
	seen := make(map[ir.UniqID]bool)
	var out []wire.Owner
	for r := range e.refs {
		owner, ok := e.defined[r.id]
		if !ok || owner == r.id || owner == r.from || seen[r.id] {
			continue
		}
		seen[r.id] = true
		out = append(out, wire.Owner{ID: uint64(r.id), Blob: uint64(owner)})
	}
	slices.SortFunc(out, func(a, b wire.Owner) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func (e *encoder) enter(node string) error {
	if e.depth >= e.maxDepth {
		return invalidGraph(node, "nesting deeper than %d", e.maxDepth)
	}
	e.depth++
	return nil
}

func (e *encoder) leave() { e.depth-- }

func (e *encoder) point(node, detail string) {
	trace.Point(e.tracer, trace.ScopeNode, node, detail, e.spanID)
}

func coordinates(o ir.Offsets) (wire.Coordinates, error) {
	start, err := safecast.Conv[int32](o.Start)
	if err != nil {
		return wire.Coordinates{}, invalidGraph("offsets", "start %d: %v", o.Start, err)
	}
	end, err := safecast.Conv[int32](o.End)
	if err != nil {
		return wire.Coordinates{}, invalidGraph("offsets", "end %d: %v", o.End, err)
	}
	return wire.Coordinates{Start: start, End: end}, nil
}

func offsets(c wire.Coordinates) ir.Offsets {
	return ir.Offsets{Start: int(c.Start), End: int(c.End)}
}

// walkDeclarations calls fn for d and every declaration nested in its
// signature and members. Bodies are not entered.
func walkDeclarations(d ir.Declaration, fn func(ir.Declaration)) {
	if d == nil {
		return
	}
	fn(d)
	params := func(fb *ir.FunctionBase) {
		for _, tp := range fb.TypeParameters {
			walkDeclarations(tp, fn)
		}
		if fb.DispatchReceiver != nil {
			walkDeclarations(fb.DispatchReceiver, fn)
		}
		if fb.ExtensionReceiver != nil {
			walkDeclarations(fb.ExtensionReceiver, fn)
		}
		for _, vp := range fb.ValueParameters {
			walkDeclarations(vp, fn)
		}
	}
	switch d := d.(type) {
	case *ir.Class:
		for _, tp := range d.TypeParameters {
			walkDeclarations(tp, fn)
		}
		if d.ThisReceiver != nil {
			walkDeclarations(d.ThisReceiver, fn)
		}
		for _, m := range d.Declarations {
			if !m.Base().IsFakeOverride() {
				walkDeclarations(m, fn)
			}
		}
	case *ir.Function:
		params(&d.FunctionBase)
	case *ir.Constructor:
		params(&d.FunctionBase)
	case *ir.Property:
		if d.BackingField != nil {
			walkDeclarations(d.BackingField, fn)
		}
		if d.Getter != nil {
			walkDeclarations(d.Getter, fn)
		}
		if d.Setter != nil {
			walkDeclarations(d.Setter, fn)
		}
	case *ir.EnumEntry:
		if d.CorrespondingClass != nil {
			walkDeclarations(d.CorrespondingClass, fn)
		}
	case *ir.TypeAlias:
		for _, tp := range d.TypeParameters {
			walkDeclarations(tp, fn)
		}
	}
}
