package irser

import (
	"crypto/sha256"
	"fmt"

	"irpack/internal/ir"
)

// seqBits is the width of the per-module sequence in a user identity.
const seqBits = 40

// ModuleSalt derives the high bits of user identities from the module name
// so identities of independently encoded modules do not collide. Never zero.
func ModuleSalt(module string) uint64 {
	sum := sha256.Sum256([]byte(module))
	salt := uint64(sum[0])<<16 | uint64(sum[1])<<8 | uint64(sum[2])
	if salt == 0 {
		salt = 1
	}
	return salt
}

// SaltOf returns the module salt of an identity; built-ins have salt 0.
func SaltOf(id ir.UniqID) uint64 { return uint64(id) >> seqBits }

// DeclIndex assigns identities to declarations for one encode session.
type DeclIndex struct {
	salt  uint64
	seq   uint64
	ids   map[ir.Declaration]ir.UniqID
	decls map[ir.UniqID]ir.Declaration
}

// NewDeclIndex creates an index for the named module.
func NewDeclIndex(module string) *DeclIndex {
	return &DeclIndex{
		salt:  ModuleSalt(module),
		ids:   make(map[ir.Declaration]ir.UniqID),
		decls: make(map[ir.UniqID]ir.Declaration),
	}
}

// Seed registers the built-in table, in order, with identities 1..N.
func (x *DeclIndex) Seed(builtins []ir.Declaration) error {
	for i, d := range builtins {
		want := ir.UniqID(i + 1)
		if rec := d.Base().UniqID; rec.IsValid() && rec != want {
			return fmt.Errorf("built-in %s records %s, table position says %s", ir.NameOf(d), rec, want)
		}
		if _, ok := x.decls[want]; ok {
			return fmt.Errorf("built-in identity %s registered twice", want)
		}
		x.ids[d] = want
		x.decls[want] = d
	}
	return nil
}

// Reserve registers a declaration under its recorded identity, if it has
// one that is still free. Encode reserves recorded identities before
// handing out fresh ones so re-encoding a decoded module keeps them.
func (x *DeclIndex) Reserve(d ir.Declaration) {
	if _, ok := x.ids[d]; ok {
		return
	}
	rec := d.Base().UniqID
	if !rec.IsValid() {
		return
	}
	if _, taken := x.decls[rec]; taken {
		return
	}
	x.ids[d] = rec
	x.decls[rec] = d
}

// IndexOf returns the identity of d, assigning one on first sight.
func (x *DeclIndex) IndexOf(d ir.Declaration) ir.UniqID {
	if id, ok := x.ids[d]; ok {
		return id
	}
	x.Reserve(d)
	if id, ok := x.ids[d]; ok {
		return id
	}
	id := x.fresh()
	x.ids[d] = id
	x.decls[id] = d
	return id
}

func (x *DeclIndex) fresh() ir.UniqID {
	for {
		x.seq++
		if x.seq >= 1<<seqBits {
			panic(fmt.Errorf("declaration index overflow: more than %d declarations", uint64(1)<<seqBits-1))
		}
		id := ir.UniqID(x.salt<<seqBits | x.seq)
		if _, taken := x.decls[id]; !taken {
			return id
		}
	}
}

// ValueOf returns the declaration registered under id.
func (x *DeclIndex) ValueOf(id ir.UniqID) (ir.Declaration, bool) {
	d, ok := x.decls[id]
	return d, ok
}

// Len reports how many declarations are indexed.
func (x *DeclIndex) Len() int { return len(x.ids) }
