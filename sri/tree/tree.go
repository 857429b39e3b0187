// Package tree holds the loosely shaped responses returned by the SRI web
// services. A field may come back as a single element or as a repeated one,
// so every lookup is total: missing intermediates resolve to Absent instead
// of failing.
package tree

import "strings"

type Kind int

const (
	Absent Kind = iota
	Scalar
	Node
	Collection
)

func (k Kind) String() string {
	switch k {
	case Absent:
		return "absent"
	case Scalar:
		return "scalar"
	case Node:
		return "node"
	case Collection:
		return "collection"
	}
	return "unknown"
}

// Field is a named member of a node. Order follows the document.
type Field struct {
	Name  string
	Value Value
}

// Value is an immutable response fragment. The zero value is Absent.
type Value struct {
	kind   Kind
	text   string
	fields []Field
	items  []Value
}

func Text(s string) Value {
	return Value{kind: Scalar, text: s}
}

func Object(fields ...Field) Value {
	return Value{kind: Node, fields: fields}
}

func List(items ...Value) Value {
	return Value{kind: Collection, items: items}
}

func F(name string, v Value) Field {
	return Field{Name: name, Value: v}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsAbsent() bool { return v.kind == Absent }

// String returns the scalar text. Ok is false for anything but a scalar.
func (v Value) String() (string, bool) {
	if v.kind != Scalar {
		return "", false
	}
	return v.text, true
}

// StringOr returns the scalar text or def.
func (v Value) StringOr(def string) string {
	if s, ok := v.String(); ok {
		return s
	}
	return def
}

// Get returns the named field of a node.
func (v Value) Get(name string) Value {
	if v.kind != Node {
		return Value{}
	}
	for _, f := range v.fields {
		if f.Name == name {
			return f.Value
		}
	}
	return Value{}
}

// Path walks nested node fields. It does not step into collections; use
// First where the caller decides that the head element is representative.
func (v Value) Path(names ...string) Value {
	cur := v
	for _, n := range names {
		cur = cur.Get(n)
		if cur.kind == Absent {
			return cur
		}
	}
	return cur
}

// First returns the head of a collection, or the value itself otherwise.
func (v Value) First() Value {
	if v.kind != Collection {
		return v
	}
	if len(v.items) == 0 {
		return Value{}
	}
	return v.items[0]
}

// Items resolves the single-or-many ambiguity: a collection yields its
// items, Absent yields nothing and anything else is a one-element slice.
func (v Value) Items() []Value {
	switch v.kind {
	case Absent:
		return nil
	case Collection:
		out := make([]Value, len(v.items))
		copy(out, v.items)
		return out
	}
	return []Value{v}
}

// Members yields the field values of a node in document order, or the
// items of a collection.
func (v Value) Members() []Value {
	switch v.kind {
	case Node:
		out := make([]Value, 0, len(v.fields))
		for _, f := range v.fields {
			out = append(out, f.Value)
		}
		return out
	case Collection:
		return v.Items()
	}
	return nil
}

// Fields returns a copy of the node fields.
func (v Value) Fields() []Field {
	if v.kind != Node {
		return nil
	}
	out := make([]Field, len(v.fields))
	copy(out, v.fields)
	return out
}

// Len is the number of fields of a node or items of a collection.
func (v Value) Len() int {
	switch v.kind {
	case Node:
		return len(v.fields)
	case Collection:
		return len(v.items)
	}
	return 0
}

// Dump renders the value in an indented, debug friendly form.
func (v Value) Dump() string {
	var sb strings.Builder
	v.dump(&sb, 0)
	return sb.String()
}

func (v Value) dump(sb *strings.Builder, depth int) {
	pad := strings.Repeat("  ", depth)
	switch v.kind {
	case Absent:
		sb.WriteString("<absent>")
	case Scalar:
		sb.WriteString("\"" + v.text + "\"")
	case Node:
		sb.WriteString("{\n")
		for _, f := range v.fields {
			sb.WriteString(pad + "  " + f.Name + ": ")
			f.Value.dump(sb, depth+1)
			sb.WriteString("\n")
		}
		sb.WriteString(pad + "}")
	case Collection:
		sb.WriteString("[\n")
		for _, it := range v.items {
			sb.WriteString(pad + "  ")
			it.dump(sb, depth+1)
			sb.WriteString("\n")
		}
		sb.WriteString(pad + "]")
	}
}
