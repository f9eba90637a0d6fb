package pipeline

import (
	"testing"

	"github.com/knakk/rdf"
	"github.com/siherrmann/wikigrapher/core/ontology"
	"github.com/siherrmann/wikigrapher/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func objects(emission Emission) []string {
	out := make([]string, len(emission.Triples))
	for i, triple := range emission.Triples {
		out[i] = triple.Obj.String()
	}
	return out
}

func TestEmit(t *testing.T) {
	vocabulary := ontology.DefaultVocabulary()
	emitter := NewEmitter(vocabulary)
	subject := ontology.Resource("Aragorn")

	emit := func(key, raw string, registry LabelRegistry) Emission {
		return emitter.Emit(subject, vocabulary.MapPredicate(key), raw, registry)
	}

	t.Run("Gender", func(t *testing.T) {
		emission := emit("gender", "Male", nil)
		assert.Equal(t, []string{"Male"}, objects(emission))
		assert.Equal(t, model.SkipNone, emission.Skip)

		emission = emit("gender", "[[Male]]", nil)
		assert.Equal(t, []string{"Male"}, objects(emission), "Expected links to be stripped before lookup")

		emission = emit("gender", "Orc-kind", nil)
		assert.Empty(t, emission.Triples)
		assert.Equal(t, model.SkipGenderNotAllowed, emission.Skip)
	})

	t.Run("Location", func(t *testing.T) {
		index := NewLabelIndex()

		emission := emit("birthlocation", "Unknown", index)
		assert.Empty(t, emission.Triples)
		assert.Equal(t, model.SkipEmptySignal, emission.Skip)

		emission = emit("birthlocation", "Somewhere in the east", index)
		assert.Empty(t, emission.Triples)
		assert.Equal(t, model.SkipNoLinks, emission.Skip)

		emission = emit("birthlocation", "[[Rivendell]]", index)
		require.Len(t, emission.Triples, 1)
		triple := emission.Triples[0]
		assert.Equal(t, subject.String(), triple.Subj.String())
		assert.Equal(t, ontology.KGOnt+"birthLocation", triple.Pred.String())
		assert.Equal(t, rdf.TermIRI, triple.Obj.Type())
		assert.Equal(t, ontology.KGRes+"Rivendell", triple.Obj.String())

		entry, ok := index.Get(ontology.Resource("Rivendell"))
		require.True(t, ok, "Expected location to be registered")
		assert.Equal(t, "Rivendell", entry.Label)
		assert.Equal(t, model.ResourceKindLocation, entry.Kind)

		emission = emit("deathlocation", "[[Minas Tirith|the White City]]", index)
		assert.Equal(t, []string{ontology.KGRes + "Minas_Tirith"}, objects(emission), "Expected the link target as IRI")
		entry, ok = index.Get(ontology.Resource("Minas Tirith"))
		require.True(t, ok)
		assert.Equal(t, "the White City", entry.Label, "Expected the display label of a piped link")
	})

	t.Run("Relation", func(t *testing.T) {
		index := NewLabelIndex()

		emission := emit("children", "[[Elrond]], [[Arwen]]", index)
		assert.Equal(t, []string{ontology.KGRes + "Elrond", ontology.KGRes + "Arwen"}, objects(emission))
		entry, ok := index.Get(ontology.Resource("Arwen"))
		require.True(t, ok)
		assert.Equal(t, model.ResourceKindCharacter, entry.Kind)

		emission = emit("parentage", "[[Arathorn II|Arathorn]]", index)
		assert.Equal(t, []string{ontology.KGRes + "Arathorn_II"}, objects(emission))
		entry, ok = index.Get(ontology.Resource("Arathorn II"))
		require.True(t, ok)
		assert.Equal(t, "Arathorn", entry.Label, "Expected the display label of a piped link")

		emission = emit("spouse", "[[Arwen]], [[Celebrían]]", index)
		assert.Equal(t, []string{ontology.KGRes + "Arwen"}, objects(emission), "Expected only the first spouse")

		emission = emit("spouse", "Never married", index)
		assert.Empty(t, emission.Triples)
		assert.Equal(t, model.SkipNegativeRelation, emission.Skip)

		emission = emit("parentage", "Unknown parents", index)
		assert.Equal(t, model.SkipNegativeRelation, emission.Skip)

		emission = emit("parentage", "unknown", index)
		assert.Equal(t, model.SkipEmptySignal, emission.Skip)

		emission = emit("parentage", "Some men of the west", index)
		assert.Equal(t, model.SkipNoLinks, emission.Skip)
	})

	t.Run("Literal", func(t *testing.T) {
		emission := emit("weapons", "[[Andúril]]<br>[[Elven-knife]]", nil)
		assert.Equal(t, []string{"Andúril", "Elven-knife"}, objects(emission))

		emission = emit("birth", "{{TA|2931}}", nil)
		assert.Equal(t, []string{"TA 2931"}, objects(emission))

		emission = emit("hair", "Dark, later grey", nil)
		assert.Equal(t, []string{"Dark", "later grey"}, objects(emission))

		emission = emit("height", "x", nil)
		assert.Equal(t, []string{"x"}, objects(emission), "Expected the whole value when no segment survives")

		literal, ok := emission.Triples[0].Obj.(rdf.Literal)
		require.True(t, ok)
		assert.Equal(t, ontology.XSD+"string", literal.DataType.String())
	})

	t.Run("Structured timeline", func(t *testing.T) {
		raw := "{{Timeline|section1short=TA|section1period1start=1|section1period1end=2}}"
		emission := emit("timeline", raw, nil)
		assert.Equal(t, []string{raw}, objects(emission), "Expected the timeline block to be kept verbatim")
	})

	t.Run("Family", func(t *testing.T) {
		index := NewLabelIndex()

		emission := emit("house", "[[House of Elros|Line of Elros]]", index)
		assert.Equal(t, []string{ontology.KGRes + "House_of_Elros"}, objects(emission))
		entry, ok := index.Get(ontology.Resource("House of Elros"))
		require.True(t, ok)
		assert.Equal(t, "Line of Elros", entry.Label)
		assert.Equal(t, model.ResourceKindHouse, entry.Kind)

		emission = emit("family", "Took, Baggins and Brandybuck", index)
		assert.Equal(t, []string{ontology.KGRes + "Took", ontology.KGRes + "Baggins", ontology.KGRes + "Brandybuck"}, objects(emission))
	})

	t.Run("Generic", func(t *testing.T) {
		index := NewLabelIndex()

		emission := emit("affiliation", "Son of [[Elrond]]", index)
		assert.Equal(t, []string{"Son of Elrond"}, objects(emission))
		assert.Equal(t, 0, index.Len(), "Expected no registration for mixed text")

		emission = emit("race", "[[Men]] / [[Dúnedain]]", index)
		assert.Equal(t, []string{ontology.KGRes + "Men", ontology.KGRes + "Dunedain"}, objects(emission))
		entry, ok := index.Get(ontology.Resource("Men"))
		require.True(t, ok)
		assert.Equal(t, model.ResourceKindThing, entry.Kind)

		emission = emit("titles", "King<br/>Chieftain", index)
		assert.Equal(t, []string{"King; Chieftain"}, objects(emission))
		assert.Equal(t, ontology.KGOnt+"position", emission.Triples[0].Pred.String())

		emission = emit("favourite food", "Lembas", index)
		assert.Equal(t, ontology.KGOnt+"favourite_food", emission.Triples[0].Pred.String())
	})

	t.Run("URL", func(t *testing.T) {
		emission := emit("website", "[https://example.org/aragorn Official site]", nil)
		require.Len(t, emission.Triples, 1)
		literal, ok := emission.Triples[0].Obj.(rdf.Literal)
		require.True(t, ok)
		assert.Equal(t, "https://example.org/aragorn", literal.String())
		assert.Equal(t, ontology.XSD+"anyURI", literal.DataType.String())
	})

	t.Run("Empty values are skipped with a reason", func(t *testing.T) {
		for _, key := range []string{"gender", "weapons", "race", "house", "birthlocation", "spouse"} {
			emission := emit(key, "   ", nil)
			assert.Empty(t, emission.Triples, "Expected no triples for %s", key)
			assert.Equal(t, model.SkipEmptySignal, emission.Skip, "Expected empty signal for %s", key)
		}

		emission := emit("race", "''", nil)
		assert.Empty(t, emission.Triples)
		assert.Equal(t, model.SkipEmptySignal, emission.Skip)
	})

	t.Run("Every non-empty value either emits or skips", func(t *testing.T) {
		values := []string{"Male", "?", "[[A]]", "a, b", "Unknown", "<br>", "{{SR|1}}", ",,"}
		for _, key := range []string{"gender", "weapons", "race", "house", "birthlocation", "spouse", "website"} {
			for _, value := range values {
				emission := emit(key, value, nil)
				assert.True(t, len(emission.Triples) > 0 || emission.Skip != model.SkipNone,
					"Expected %s=%q to emit or skip", key, value)
			}
		}
	})
}
