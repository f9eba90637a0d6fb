package sparqlstore

const queries = `
# tag: list-by-type
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
SELECT ?s (SAMPLE(?l) AS ?label) WHERE {
  ?s a <{{.Type}}> .
  OPTIONAL { ?s rdfs:label ?l . }
}
GROUP BY ?s
ORDER BY ?label
LIMIT {{.Limit}}

# tag: describe-outgoing
SELECT ?p ?o WHERE {
  <{{.IRI}}> ?p ?o .
}

# tag: describe-incoming
SELECT ?s ?p WHERE {
  ?s ?p <{{.IRI}}> .
}
LIMIT {{.Limit}}

# tag: search-label
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
SELECT ?s (SAMPLE(?l) AS ?label) (SAMPLE(?t) AS ?type) WHERE {
  ?s rdfs:label ?l .
  OPTIONAL { ?s a ?t . }
  FILTER(CONTAINS(LCASE(STR(?l)), LCASE("{{.Text}}")))
}
GROUP BY ?s
ORDER BY ?label
LIMIT {{.Limit}}

# tag: count-triples
SELECT (COUNT(*) AS ?count) WHERE {
  ?s ?p ?o .
}
`
