package irser

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"irpack/internal/ir"
	"irpack/internal/trace"
	"irpack/internal/wire"
)

// FetchFunc returns the blob of a top-level declaration.
type FetchFunc func(id ir.UniqID) ([]byte, error)

// Decoder rebuilds a serialized module, all at once or one top-level
// declaration at a time. Its memo tables live as long as the Decoder, so
// later loads reuse declarations decoded earlier. A Decoder is not safe
// for concurrent use.
type Decoder struct {
	header   wire.Module
	fetch    FetchFunc
	res      Resolution
	maxDepth int
	salts    map[uint64]bool // salts of identities defined by this module

	topLevel map[ir.UniqID]*ir.File
	owners   map[ir.UniqID]ir.UniqID
	symbols  map[ir.UniqID]*ir.Symbol
	decls    map[ir.UniqID]ir.Declaration
	loaded   map[ir.UniqID]ir.Declaration
	module   *ir.Module
}

// NewDecoder parses the module header and seeds the built-in table.
func NewDecoder(header []byte, fetch FetchFunc, res Resolution, opts Options) (*Decoder, error) {
	if fetch == nil {
		return nil, newError(ErrKindFetchFailure, "module", "no fetch function")
	}
	d := &Decoder{
		fetch:    fetch,
		res:      res,
		maxDepth: opts.maxDepth(),
		salts:    make(map[uint64]bool),
		topLevel: make(map[ir.UniqID]*ir.File),
		owners:   make(map[ir.UniqID]ir.UniqID),
		symbols:  make(map[ir.UniqID]*ir.Symbol),
		decls:    make(map[ir.UniqID]ir.Declaration),
		loaded:   make(map[ir.UniqID]ir.Declaration),
	}
	if err := wire.Unmarshal(header, &d.header); err != nil {
		return nil, &Error{Kind: ErrKindMalformedWire, Node: "module", Err: err}
	}
	if d.header.Version != wire.FormatVersion {
		return nil, malformed("module", "format version %d, want %d", d.header.Version, wire.FormatVersion)
	}
	d.salts[ModuleSalt(d.header.Name)] = true
	if err := d.seedBuiltins(); err != nil {
		return nil, err
	}

	d.module = &ir.Module{Name: d.header.Name}
	for _, wf := range d.header.Files {
		f := d.module.AddFile(&ir.File{Name: wf.Name, Package: wf.Package})
		for _, raw := range wf.Declarations {
			id := ir.UniqID(raw)
			if !id.IsValid() {
				return nil, malformed("file", "%s lists a declaration without identity", wf.Name)
			}
			if _, dup := d.topLevel[id]; dup {
				return nil, &Error{Kind: ErrKindMalformedWire, ID: id, Node: "file", Detail: "listed twice"}
			}
			d.topLevel[id] = f
			d.salts[SaltOf(id)] = true
		}
	}
	for _, o := range d.header.Owners {
		nested, owner := ir.UniqID(o.ID), ir.UniqID(o.Blob)
		if _, ok := d.topLevel[owner]; !ok {
			return nil, &Error{Kind: ErrKindMalformedWire, ID: nested, Node: "module",
				Detail: fmt.Sprintf("owner %s is not a top-level declaration", owner)}
		}
		if _, dup := d.owners[nested]; dup {
			return nil, &Error{Kind: ErrKindMalformedWire, ID: nested, Node: "module", Detail: "owner listed twice"}
		}
		d.owners[nested] = owner
	}
	return d, nil
}

func (d *Decoder) seedBuiltins() error {
	for i, b := range d.res.Builtins {
		id := b.Base().UniqID
		if !id.IsValid() {
			id = ir.UniqID(i + 1)
		}
		sym := b.Symbol()
		if sym == nil {
			return &Error{Kind: ErrKindUnresolvedSymbol, ID: id, Node: "builtins",
				Detail: fmt.Sprintf("%s has no symbol", ir.NameOf(b))}
		}
		d.symbols[id] = sym
		d.decls[id] = b
	}
	return nil
}

// Decode rebuilds the whole module.
func Decode(ctx context.Context, header []byte, fetch FetchFunc, res Resolution, opts Options) (*ir.Module, error) {
	d, err := NewDecoder(header, fetch, res, opts)
	if err != nil {
		return nil, err
	}
	return d.Module(ctx)
}

// Name returns the module name recorded in the header.
func (d *Decoder) Name() string { return d.header.Name }

// Files returns the files of the module. Their declaration lists hold the
// top-level declarations loaded so far, in header order.
func (d *Decoder) Files() []*ir.File { return d.module.Files }

// TopLevel returns the identities of the top-level declarations of a file
// as recorded in the header.
func (d *Decoder) TopLevel(f *ir.File) []ir.UniqID {
	for i, mf := range d.module.Files {
		if mf != f {
			continue
		}
		ids := make([]ir.UniqID, 0, len(d.header.Files[i].Declarations))
		for _, raw := range d.header.Files[i].Declarations {
			ids = append(ids, ir.UniqID(raw))
		}
		return ids
	}
	return nil
}

// Load decodes one top-level declaration and everything in the module it
// needs. A failing Load leaves the decoder as it was.
func (d *Decoder) Load(ctx context.Context, id ir.UniqID) (ir.Declaration, error) {
	if decl, ok := d.loaded[id]; ok {
		return decl, nil
	}
	if _, ok := d.topLevel[id]; !ok {
		return nil, unresolved(id, "not a top-level declaration of module %s", d.header.Name)
	}
	if err := d.run(ctx, "load", []ir.UniqID{id}); err != nil {
		return nil, err
	}
	return d.loaded[id], nil
}

// Module decodes every top-level declaration not loaded yet and returns
// the complete module.
func (d *Decoder) Module(ctx context.Context) (*ir.Module, error) {
	var roots []ir.UniqID
	for _, wf := range d.header.Files {
		for _, raw := range wf.Declarations {
			if _, ok := d.loaded[ir.UniqID(raw)]; !ok {
				roots = append(roots, ir.UniqID(raw))
			}
		}
	}
	if err := d.run(ctx, "decode", roots); err != nil {
		return nil, err
	}
	return d.module, nil
}

// isLocal reports whether id names a declaration of this module.
func (d *Decoder) isLocal(id ir.UniqID) bool {
	if _, ok := d.topLevel[id]; ok {
		return true
	}
	if _, ok := d.owners[id]; ok {
		return true
	}
	return d.salts[SaltOf(id)]
}

// blobOf returns the top-level declaration whose blob defines id, if the
// header says so.
func (d *Decoder) blobOf(id ir.UniqID) ir.UniqID {
	if _, ok := d.topLevel[id]; ok {
		return id
	}
	return d.owners[id]
}

func (d *Decoder) run(ctx context.Context, name string, roots []ir.UniqID) error {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeSession, name, trace.ParentID(ctx))
	span.WithExtra("module", d.header.Name)

	s := newSession(ctx, d, tracer, span.ID())
	for _, id := range roots {
		s.schedule(id)
	}
	err := s.drain()
	if err == nil {
		err = s.finish()
	}
	if err != nil {
		s.rollback()
		span.End(err.Error())
		return err
	}
	s.commit()
	span.WithExtra("blobs", strconv.Itoa(len(s.done))).End("")
	return nil
}

// session is the state of one public decoder call. Everything it creates
// is staged until commit.
type session struct {
	ctx    context.Context
	d      *Decoder
	tracer trace.Tracer
	spanID uint64

	symbols      map[ir.UniqID]*ir.Symbol
	decls        map[ir.UniqID]ir.Declaration
	placeholders map[ir.UniqID]*ir.Symbol
	bound        []*ir.Symbol
	done         map[ir.UniqID]ir.Declaration

	queue  []ir.UniqID
	queued map[ir.UniqID]bool

	blob      ir.UniqID
	declSpan  uint64
	loops     *LoopTable
	depth     int
	container ir.DeclarationParent
}

func newSession(ctx context.Context, d *Decoder, tracer trace.Tracer, spanID uint64) *session {
	return &session{
		ctx:          ctx,
		d:            d,
		tracer:       tracer,
		spanID:       spanID,
		symbols:      make(map[ir.UniqID]*ir.Symbol),
		decls:        make(map[ir.UniqID]ir.Declaration),
		placeholders: make(map[ir.UniqID]*ir.Symbol),
		done:         make(map[ir.UniqID]ir.Declaration),
		queued:       make(map[ir.UniqID]bool),
		loops:        NewLoopTable(),
	}
}

// schedule queues the blob of a top-level declaration.
func (s *session) schedule(id ir.UniqID) {
	if !id.IsValid() || s.queued[id] {
		return
	}
	if _, ok := s.d.loaded[id]; ok {
		return
	}
	s.queued[id] = true
	s.queue = append(s.queue, id)
}

func (s *session) drain() error {
	for len(s.queue) > 0 {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		id := s.queue[0]
		s.queue = s.queue[1:]
		if err := s.decodeBlob(id); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) decodeBlob(id ir.UniqID) error {
	file := s.d.topLevel[id]
	span := trace.Begin(s.tracer, trace.ScopeDecl, "decl:"+id.String(), s.spanID)
	data, err := s.d.fetch(id)
	if err != nil {
		span.End(err.Error())
		return &Error{Kind: ErrKindFetchFailure, ID: id, Node: "declaration", Err: err}
	}
	var msg wire.Declaration
	if err := wire.Unmarshal(data, &msg); err != nil {
		span.End(err.Error())
		return &Error{Kind: ErrKindMalformedWire, ID: id, Node: "declaration", Err: err}
	}
	if ir.UniqID(msg.Base.Symbol.ID) != id {
		span.End("identity mismatch")
		return &Error{Kind: ErrKindMalformedWire, ID: id, Node: "declaration",
			Detail: fmt.Sprintf("blob defines %s", ir.UniqID(msg.Base.Symbol.ID))}
	}

	s.blob = id
	s.declSpan = span.ID()
	s.loops = NewLoopTable()
	s.container = nil
	decl, err := s.declaration(&msg, file)
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) && !ce.ID.IsValid() {
			ce.ID = id
		}
		span.End(err.Error())
		return err
	}
	s.done[id] = decl
	span.WithExtra("bytes", strconv.Itoa(len(data))).End(ir.QualifiedName(decl))
	return nil
}

// finish reports references that no decoded blob defined.
func (s *session) finish() error {
	for id, sym := range s.placeholders {
		if !sym.IsBound() {
			return unresolved(id, "dangling %s reference", sym.Kind())
		}
	}
	return nil
}

func (s *session) rollback() {
	for _, sym := range s.bound {
		sym.Unbind()
	}
	for _, d := range s.decls {
		d.Base().UniqID = ir.NoUniqID
	}
}

func (s *session) commit() {
	d := s.d
	for id, sym := range s.symbols {
		d.symbols[id] = sym
	}
	for id, decl := range s.decls {
		d.decls[id] = decl
	}
	for id, decl := range s.done {
		d.loaded[id] = decl
	}
	for i, f := range d.module.Files {
		f.Declarations = nil
		for _, raw := range d.header.Files[i].Declarations {
			if decl, ok := d.loaded[ir.UniqID(raw)]; ok {
				f.Declarations = append(f.Declarations, decl)
			}
		}
	}
}

func (s *session) enter(node string) error {
	if s.depth >= s.d.maxDepth {
		return malformed(node, "nesting deeper than %d", s.d.maxDepth)
	}
	s.depth++
	return nil
}

func (s *session) leave() { s.depth-- }

func (s *session) point(node, detail string) {
	trace.Point(s.tracer, trace.ScopeNode, node, detail, s.declSpan)
}
