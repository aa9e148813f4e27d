package ir

import "fmt"

// Declare gives d a fresh symbol of the matching kind and returns d.
func Declare[D Declaration](d D) D {
	kind := SymbolKindOf(d)
	if kind == SymbolInvalid {
		panic(fmt.Sprintf("ir: cannot declare %T", d))
	}
	if err := NewSymbol(kind).Bind(d); err != nil {
		panic(err)
	}
	return d
}

// NewAccessor creates a default accessor bound to prop and installs it as
// the getter or setter.
func NewAccessor(prop *Property, setter bool, returnType Type) *Function {
	fn := Declare(&Function{
		FunctionBase: FunctionBase{
			Name:       prop.Name,
			Visibility: prop.Visibility,
			ReturnType: returnType,
		},
		Modality:              prop.Modality,
		CorrespondingProperty: prop.Symbol(),
	})
	fn.Origin = OriginDefaultPropertyAccessor
	fn.Parent = prop.Parent
	if setter {
		prop.Setter = fn
	} else {
		prop.Getter = fn
	}
	return fn
}

// AddParameter appends a value parameter to fn with the next index.
func (fb *FunctionBase) AddParameter(owner DeclarationParent, name string, t Type) *ValueParameter {
	p := Declare(&ValueParameter{Name: name, Index: len(fb.ValueParameters), Type: t})
	p.Parent = owner
	fb.ValueParameters = append(fb.ValueParameters, p)
	return p
}
