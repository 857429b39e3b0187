package tree

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath_MissingIntermediateIsAbsent(t *testing.T) {
	v := Object(F("a", Object(F("b", Text("x")))))

	assert.Equal(t, Absent, v.Path("a", "c", "d").Kind())
	assert.Equal(t, Absent, v.Path("z").Kind())
	assert.Equal(t, Absent, Text("x").Path("a").Kind())
	assert.Equal(t, Absent, Value{}.Path("a", "b").Kind())

	s, ok := v.Path("a", "b").String()
	require.True(t, ok)
	assert.Equal(t, "x", s)
}

func TestPath_DoesNotDescendIntoCollections(t *testing.T) {
	v := Object(F("a", List(Object(F("b", Text("1"))))))

	assert.True(t, v.Path("a", "b").IsAbsent())
	assert.Equal(t, "1", v.Path("a").First().Get("b").StringOr(""))
}

func TestItems_SingleAndMany(t *testing.T) {
	single := Object(F("x", Text("1")))
	many := List(Text("1"), Text("2"))

	assert.Len(t, single.Items(), 1)
	assert.Len(t, many.Items(), 2)
	assert.Nil(t, Value{}.Items())
}

func TestMembers_PreservesOrder(t *testing.T) {
	v := Object(F("b", Text("2")), F("a", Text("1")))

	m := v.Members()
	require.Len(t, m, 2)
	assert.Equal(t, "2", m[0].StringOr(""))
	assert.Equal(t, "1", m[1].StringOr(""))
	assert.Nil(t, Text("x").Members())
}

func TestFirst_EmptyCollection(t *testing.T) {
	assert.True(t, List().First().IsAbsent())
	assert.Equal(t, "x", Text("x").First().StringOr(""))
}

func TestFromElement_GroupsRepeatedTags(t *testing.T) {
	doc := etree.NewDocument()
	err := doc.ReadFromString(`<ns2:r xmlns:ns2="urn:x">
	<estado>DEVUELTA</estado>
	<mensajes>
		<mensaje><identificador>43</identificador><tipo>ERROR</tipo></mensaje>
		<mensaje><identificador>45</identificador></mensaje>
	</mensajes>
	<comprobante><![CDATA[<factura id="comprobante"/>]]></comprobante>
	<vacio/>
</ns2:r>`)
	require.NoError(t, err)

	v := FromElement(doc.Root())
	require.Equal(t, Node, v.Kind())

	assert.Equal(t, "DEVUELTA", v.Get("estado").StringOr(""))
	assert.Equal(t, `<factura id="comprobante"/>`, v.Get("comprobante").StringOr(""))

	msgs := v.Path("mensajes", "mensaje")
	require.Equal(t, Collection, msgs.Kind())
	require.Equal(t, 2, msgs.Len())
	assert.Equal(t, "43", msgs.Items()[0].Get("identificador").StringOr(""))
	assert.Equal(t, "45", msgs.Items()[1].Get("identificador").StringOr(""))

	empty, ok := v.Get("vacio").String()
	assert.True(t, ok)
	assert.Empty(t, empty)
}

func TestFromElement_KeepsScalarTextVerbatim(t *testing.T) {
	payload := "\n  <factura id=\"comprobante\">\n    <infoTributaria/>\n  </factura>\n"

	doc := etree.NewDocument()
	err := doc.ReadFromString("<autorizacion><comprobante><![CDATA[" + payload + "]]></comprobante>" +
		"<mensajes>\n\t\t</mensajes></autorizacion>")
	require.NoError(t, err)

	v := FromElement(doc.Root())

	assert.Equal(t, payload, v.Get("comprobante").StringOr(""))

	blank, ok := v.Get("mensajes").String()
	assert.True(t, ok)
	assert.Empty(t, blank)
}

func TestFromElement_Nil(t *testing.T) {
	assert.True(t, FromElement(nil).IsAbsent())
}
