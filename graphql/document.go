package graphqlclient

import (
	"fmt"
	"strings"
)

// Variable is one entry of an operation's variable declarations.
type Variable struct {
	Name string
	Type string
}

// Argument binds a field argument to a declared variable.
type Argument struct {
	Name     string
	Variable string
}

// Field is a top-level selection, optionally aliased.
type Field struct {
	Alias     string
	Name      string
	Arguments []Argument
	Selection string
}

// Document describes one operation before it is serialized. Several fields
// of the same name coexist as long as their aliases differ.
type Document struct {
	Operation string
	Name      string
	Variables []Variable
	Fields    []Field
}

func Mutation(name string) *Document {
	return &Document{Operation: "mutation", Name: name}
}

func Query(name string) *Document {
	return &Document{Operation: "query", Name: name}
}

// Var declares $name of the given GraphQL type.
func (d *Document) Var(name, typ string) *Document {
	d.Variables = append(d.Variables, Variable{Name: name, Type: typ})
	return d
}

// Add appends a top-level field.
func (d *Document) Add(f Field) *Document {
	d.Fields = append(d.Fields, f)
	return d
}

// Aliases returns the response keys in field order.
func (d *Document) Aliases() []string {
	keys := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		keys[i] = f.key()
	}
	return keys
}

func (f Field) key() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

func (d *Document) String() string {
	var b strings.Builder

	b.WriteString(d.Operation)
	if d.Name != "" {
		b.WriteString(" ")
		b.WriteString(d.Name)
	}
	if len(d.Variables) > 0 {
		decls := make([]string, len(d.Variables))
		for i, v := range d.Variables {
			decls[i] = fmt.Sprintf("$%s: %s", v.Name, v.Type)
		}
		b.WriteString("(")
		b.WriteString(strings.Join(decls, ", "))
		b.WriteString(")")
	}
	b.WriteString(" {\n")

	for _, f := range d.Fields {
		b.WriteString("  ")
		if f.Alias != "" {
			b.WriteString(f.Alias)
			b.WriteString(": ")
		}
		b.WriteString(f.Name)
		if len(f.Arguments) > 0 {
			args := make([]string, len(f.Arguments))
			for i, a := range f.Arguments {
				args[i] = fmt.Sprintf("%s: $%s", a.Name, a.Variable)
			}
			b.WriteString("(")
			b.WriteString(strings.Join(args, ", "))
			b.WriteString(")")
		}
		if sel := strings.TrimSpace(f.Selection); sel != "" {
			b.WriteString(" { ")
			b.WriteString(sel)
			b.WriteString(" }")
		}
		b.WriteString("\n")
	}

	b.WriteString("}")
	return b.String()
}
