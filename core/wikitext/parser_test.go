package wikitext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplates(t *testing.T) {
	t.Run("Top level templates in order", func(t *testing.T) {
		templates := ParseTemplates("{{Quote|x}} text {{Infobox location|name=Rivendell}}")
		require.Len(t, templates, 2)
		assert.Equal(t, "Quote", templates[0].Name)
		assert.True(t, templates[0].Args[0].Positional, "Expected positional argument")
		assert.Equal(t, "infobox location", templates[1].NormalizedName())
	})

	t.Run("Separators inside links and templates do not split", func(t *testing.T) {
		templates := ParseTemplates("{{Infobox|notes={{a|b=c}}|image=[[File:x.jpg|thumb|b=c]]|ref=x<ref>a|b</ref>}}")
		require.Len(t, templates, 1)
		args := templates[0].Args
		require.Len(t, args, 3)
		assert.Equal(t, Argument{Name: "notes", Value: "{{a|b=c}}"}, args[0])
		assert.Equal(t, Argument{Name: "image", Value: "[[File:x.jpg|thumb|b=c]]"}, args[1])
		assert.Equal(t, Argument{Name: "ref", Value: "x"}, args[2])
	})

	t.Run("Unclosed template stops the scan", func(t *testing.T) {
		templates := ParseTemplates("{{A|x=1}} {{B|y=2")
		require.Len(t, templates, 1)
		assert.Equal(t, "A", templates[0].Name)
	})

	t.Run("Plain text", func(t *testing.T) {
		assert.Empty(t, ParseTemplates("nothing"))
	})
}

func TestParse(t *testing.T) {
	t.Run("Valid call Parse keeps raw fields in order", func(t *testing.T) {
		block := "{{Infobox character\n| name = Elrond\n| spouse = [[Celebrían]]\n| children = [[Elladan]], [[Elrohir]] and [[Arwen]]\n| birth = {{FA|532}}\n| name = Other\n| Birth Location = [[Beleriand]]\n}}"

		record := Parse("Elrond", block)
		assert.Equal(t, "Elrond", record.EntityTitle)
		assert.Equal(t, "infobox character", record.TemplateName)
		assert.Equal(t, []string{"name", "spouse", "children", "birth", "Birth Location"}, record.Fields.Keys(), "Expected source order and unique keys")

		name, _ := record.Fields.Get("name")
		assert.Equal(t, "Elrond", name, "Expected first seen value to win")
		birth, _ := record.Fields.Get("birth")
		assert.Equal(t, "{{FA|532}}", birth, "Expected raw uncleaned value")
	})

	t.Run("Prefers infobox over earlier templates", func(t *testing.T) {
		record := Parse("x", "{{Quote|a}}{{Infobox location|name=Rivendell}}")
		assert.Equal(t, "infobox location", record.TemplateName)
	})

	t.Run("Falls back to first template", func(t *testing.T) {
		record := Parse("x", "{{Song|title=A}}{{Other|x=1}}")
		assert.Equal(t, "song", record.TemplateName)
		assert.Equal(t, []string{"title"}, record.Fields.Keys())
	})

	t.Run("Empty record without templates", func(t *testing.T) {
		record := Parse("Nothing", "plain text")
		assert.True(t, record.IsEmpty(), "Expected empty record")
		assert.Equal(t, "Nothing", record.EntityTitle)
		assert.NotNil(t, record.Fields, "Expected non-nil fields")
	})

	t.Run("Positional arguments and comments are skipped", func(t *testing.T) {
		record := Parse("x", "{{Infobox|positional|name=A<!-- |hidden=1 -->}}")
		assert.Equal(t, []string{"name"}, record.Fields.Keys())
		name, _ := record.Fields.Get("name")
		assert.Equal(t, "A", name)
	})

	t.Run("Template name whitespace is normalized", func(t *testing.T) {
		record := Parse("x", "{{ Infobox\n  Noble   House |name=A}}")
		assert.Equal(t, "infobox noble house", record.TemplateName)
	})
}

func TestParseEmbeddedRecords(t *testing.T) {
	block := `{{Infobox album
| name = Songs
| label1 = ''Lament''
| content1 = {{Song
  | title = Lament for Boromir
  | writer = [[Aragorn]]
  }}
| label2 = Other
| content2 = plain text
| content3 = {{Infobox song
  | title = Nested
  | content1 = {{Song|title=Deep}}
  | label1 = Deep
  }}
}}`

	record := Parse("Songs of Middle-earth", block)

	t.Run("Structural fields are removed", func(t *testing.T) {
		assert.Equal(t, []string{"name"}, record.Fields.Keys(), "Expected content and label fields to be removed")
	})

	t.Run("Sub records are built from content and label", func(t *testing.T) {
		require.Len(t, record.Embedded, 2, "Expected two embedded records")

		first := record.Embedded[0]
		assert.Equal(t, "Lament", first.EntityTitle, "Expected title from cleaned label")
		assert.Equal(t, "song", first.TemplateName)
		assert.Equal(t, []string{"title", "writer"}, first.Fields.Keys())

		second := record.Embedded[1]
		assert.Equal(t, "", second.EntityTitle, "Expected empty title without label")
		assert.Equal(t, "infobox song", second.TemplateName)
		assert.Equal(t, []string{"title"}, second.Fields.Keys())
	})

	t.Run("Embedding is recursive", func(t *testing.T) {
		second := record.Embedded[1]
		require.Len(t, second.Embedded, 1)
		assert.Equal(t, "Deep", second.Embedded[0].EntityTitle)
		title, _ := second.Embedded[0].Fields.Get("title")
		assert.Equal(t, "Deep", title)
	})

	t.Run("Linked labels become their display text", func(t *testing.T) {
		linked := Parse("A", "{{Infobox album|name=A|content1={{Song|title=S}}|label1=[[Song One]]}}")
		require.Len(t, linked.Embedded, 1)
		assert.Equal(t, "Song One", linked.Embedded[0].EntityTitle, "Expected link syntax to be removed from the label")

		piped := Parse("A", "{{Infobox album|content1={{Song|title=S}}|label1=''[[Lament for Boromir|Lament]]''}}")
		require.Len(t, piped.Embedded, 1)
		assert.Equal(t, "Lament", piped.Embedded[0].EntityTitle, "Expected the display label of a piped link")
	})
}
