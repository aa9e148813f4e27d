package ir

// Module is the unit of serialization: a named set of files.
type Module struct {
	Name  string
	Files []*File
}

// File groups top-level declarations under a package.
type File struct {
	Name         string
	Package      string
	Declarations []Declaration
}

// AddDeclaration appends a top-level declaration and parents it to the file.
func (f *File) AddDeclaration(d Declaration) {
	d.Base().Parent = f
	f.Declarations = append(f.Declarations, d)
}

// AddFile appends a file to the module.
func (m *Module) AddFile(f *File) *File {
	m.Files = append(m.Files, f)
	return f
}

// FileOf walks the parent chain up to the enclosing file.
func FileOf(d Declaration) *File {
	for p := d.Base().Parent; p != nil; {
		switch pp := p.(type) {
		case *File:
			return pp
		case Declaration:
			p = pp.Base().Parent
		default:
			return nil
		}
	}
	return nil
}
