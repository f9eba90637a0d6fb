package web

import (
	"net/url"
	"strings"

	"github.com/siherrmann/wikigrapher/core/ontology"
	"github.com/siherrmann/wikigrapher/core/wikitext"
	"github.com/siherrmann/wikigrapher/model"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

const pageStyle = `body{font-family:system-ui,sans-serif;margin:0;color:#222}
nav{background:#2d3b45;padding:.6rem 1.5rem}nav a{color:#fff;margin-right:1.2rem;text-decoration:none}
main{max-width:60rem;margin:1.5rem auto;padding:0 1rem}
table{border-collapse:collapse;width:100%;margin-bottom:1.5rem}
th,td{border-bottom:1px solid #ddd;padding:.35rem .5rem;text-align:left;vertical-align:top}
th{background:#f4f4f4}code{color:#666}.muted{color:#777}`

func layout(title string, content ...g.Node) g.Node {
	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text(title+" | wikigrapher")),
				StyleEl(g.Raw(pageStyle)),
			),
			Body(
				Nav(
					A(Href("/characters"), g.Text("Characters")),
					A(Href("/search"), g.Text("Search")),
				),
				Main(g.Group(content)),
			),
		),
	})
}

func characterListPage(resources []*model.Resource) g.Node {
	return layout("Characters",
		H1(g.Text("Characters")),
		P(Class("muted"), g.Textf("%d resources", len(resources))),
		Ul(g.Map(resources, func(resource *model.Resource) g.Node {
			return Li(resourceLink(resource.IRI, resource.Label))
		})),
	)
}

func searchPage(query string, results []*model.RetrievalResult) g.Node {
	return layout("Search",
		H1(g.Text("Search")),
		Form(Method("get"), Action("/search"),
			Input(Type("search"), Name("q"), Value(query), Placeholder("Name of a character, place or house")),
			Button(Type("submit"), g.Text("Search")),
		),
		g.If(query != "" && len(results) == 0, P(Class("muted"), g.Text("No matches."))),
		g.If(len(results) > 0, Table(
			THead(Tr(Th(g.Text("Resource")), Th(g.Text("Type")), Th(g.Text("Match")))),
			TBody(g.Map(results, func(result *model.RetrievalResult) g.Node {
				return Tr(
					Td(resourceLink(result.Resource.IRI, result.Resource.Label)),
					Td(Code(g.Text(ontology.Compact(result.Resource.TypeIRI)))),
					Td(g.Textf("%s %.2f", result.RetrievalMethod, result.Score)),
				)
			})),
		)),
	)
}

func resourcePage(description *model.ResourceDescription) g.Node {
	resource := description.Resource
	return layout(resource.Label,
		H1(g.Text(resource.Label)),
		P(Code(g.Text(resource.IRI))),
		g.If(resource.TypeIRI != "", P(g.Text("Type "), Code(g.Text(ontology.Compact(resource.TypeIRI))))),
		P(Class("muted"),
			g.Text("Also as "),
			A(Href("?format=ttl"), g.Text("Turtle")), g.Text(", "),
			A(Href("?format=nt"), g.Text("N-Triples")), g.Text(", "),
			A(Href("?format=json"), g.Text("JSON")),
		),
		g.If(len(description.Outgoing) > 0, g.Group([]g.Node{
			H2(g.Text("Properties")),
			Table(
				THead(Tr(Th(g.Text("Property")), Th(g.Text("Value")))),
				TBody(g.Map(description.Outgoing, func(triple *model.StoredTriple) g.Node {
					return Tr(Td(Code(g.Text(ontology.Compact(triple.Predicate)))), Td(objectNode(triple)))
				})),
			),
		})),
		g.If(len(description.Incoming) > 0, g.Group([]g.Node{
			H2(g.Text("Referenced by")),
			Table(
				THead(Tr(Th(g.Text("Resource")), Th(g.Text("Property")))),
				TBody(g.Map(description.Incoming, func(triple *model.StoredTriple) g.Node {
					return Tr(Td(resourceLink(triple.Subject, "")), Td(Code(g.Text(ontology.Compact(triple.Predicate)))))
				})),
			),
		})),
	)
}

func objectNode(triple *model.StoredTriple) g.Node {
	if triple.IsLink() {
		return resourceLink(triple.Object, "")
	}
	if periods := wikitext.ParseTimeline(triple.Object); len(periods) > 0 {
		return timelineTable(periods)
	}
	if triple.Lang != "" {
		return g.Group([]g.Node{g.Text(triple.Object), Span(Class("muted"), g.Text(" @"+triple.Lang))})
	}
	return g.Text(triple.Object)
}

func timelineTable(periods []wikitext.TimelinePeriod) g.Node {
	return Table(
		THead(Tr(Th(g.Text("Era")), Th(g.Text("Period")), Th(g.Text("Start")), Th(g.Text("End")))),
		TBody(g.Map(periods, func(period wikitext.TimelinePeriod) g.Node {
			return Tr(Td(g.Text(period.Era)), Td(g.Text(period.Label)), Td(g.Text(period.Start)), Td(g.Text(period.End)))
		})),
	)
}

// resourceLink links resources of this graph to their page, other IRIs to themselves.
func resourceLink(iri string, label string) g.Node {
	if label == "" {
		label = ontology.Compact(iri)
	}
	if local, ok := strings.CutPrefix(iri, ontology.KGRes); ok {
		return A(Href("/resource/"+url.PathEscape(local)), g.Text(label))
	}
	return A(Href(iri), g.Text(label))
}

func errorPage(status int, message string) g.Node {
	return layout("Error",
		H1(g.Textf("%d", status)),
		P(g.Text(message)),
	)
}
