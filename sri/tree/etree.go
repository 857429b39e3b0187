package tree

import (
	"strings"

	"github.com/beevik/etree"
)

// FromElement converts an XML element into a Value. Leaf elements become
// scalars holding their text (CDATA included) byte for byte, whitespace-only
// text reads as empty. Repeated child tags are
// grouped into a collection at the position of their first occurrence and
// namespace prefixes are dropped. Attributes are ignored, the SRI services
// do not use them.
func FromElement(el *etree.Element) Value {
	if el == nil {
		return Value{}
	}

	children := el.ChildElements()
	if len(children) == 0 {
		text := el.Text()
		if strings.TrimSpace(text) == "" {
			text = ""
		}
		return Text(text)
	}

	var (
		order  []string
		groups = make(map[string][]Value, len(children))
	)
	for _, c := range children {
		name := c.Tag
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], FromElement(c))
	}

	fields := make([]Field, 0, len(order))
	for _, name := range order {
		vals := groups[name]
		if len(vals) == 1 {
			fields = append(fields, F(name, vals[0]))
			continue
		}
		fields = append(fields, F(name, List(vals...)))
	}
	return Object(fields...)
}
