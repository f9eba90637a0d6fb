package sparqlstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/knakk/rdf"
	"github.com/knakk/sparql"
	"github.com/siherrmann/wikigrapher/export"
	"github.com/siherrmann/wikigrapher/helper"
	"github.com/siherrmann/wikigrapher/model"
)

// Config locates a Fuseki dataset.
type Config struct {
	URL      string
	Dataset  string
	User     string
	Password string
	Timeout  time.Duration
}

// Store reads the graph through the SPARQL query endpoint of a dataset and
// writes it through the Graph Store Protocol.
type Store struct {
	repo    *sparql.Repo
	bank    sparql.Bank
	upload  *resty.Client
	dataset string
	logger  *slog.Logger
}

// NewStore creates a store for the dataset in config.
func NewStore(config Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	base := strings.TrimRight(config.URL, "/")
	dataset := strings.Trim(config.Dataset, "/")
	if base == "" || dataset == "" {
		return nil, fmt.Errorf("sparql store needs a url and a dataset")
	}

	options := []func(*sparql.Repo) error{sparql.Timeout(config.Timeout)}
	if config.User != "" {
		options = append(options, sparql.BasicAuth(config.User, config.Password))
	}
	repo, err := sparql.NewRepo(base+"/"+dataset+"/query", options...)
	if err != nil {
		return nil, helper.NewError("create sparql repo", err)
	}

	upload := resty.New().
		SetBaseURL(base).
		SetTimeout(config.Timeout)
	if config.User != "" {
		upload.SetBasicAuth(config.User, config.Password)
	}

	return &Store{
		repo:    repo,
		bank:    sparql.LoadBank(bytes.NewBufferString(queries)),
		upload:  upload,
		dataset: dataset,
		logger:  logger,
	}, nil
}

func (s *Store) query(ctx context.Context, tag string, data any) ([]map[string]rdf.Term, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q, err := s.bank.Prepare(tag, data)
	if err != nil {
		return nil, helper.NewError(fmt.Sprintf("prepare %s", tag), err)
	}
	results, err := s.repo.Query(q)
	if err != nil {
		return nil, helper.NewError(fmt.Sprintf("query %s", tag), err)
	}
	return results.Solutions(), nil
}

// ListByType returns resources of typeIRI ordered by label.
func (s *Store) ListByType(ctx context.Context, typeIRI string, limit int) ([]*model.Resource, error) {
	if _, err := rdf.NewIRI(typeIRI); err != nil {
		return nil, helper.NewError("list by type", err)
	}

	solutions, err := s.query(ctx, "list-by-type", struct {
		Type  string
		Limit int
	}{typeIRI, normalizeLimit(limit)})
	if err != nil {
		return nil, err
	}

	resources := make([]*model.Resource, 0, len(solutions))
	for _, solution := range solutions {
		resources = append(resources, resourceFromSolution(solution, typeIRI))
	}
	return resources, nil
}

// SearchByLabel returns resources whose label contains text, case-insensitively.
func (s *Store) SearchByLabel(ctx context.Context, text string, limit int) ([]*model.Resource, error) {
	solutions, err := s.query(ctx, "search-label", struct {
		Text  string
		Limit int
	}{escapeString(text), normalizeLimit(limit)})
	if err != nil {
		return nil, err
	}

	resources := make([]*model.Resource, 0, len(solutions))
	for _, solution := range solutions {
		resources = append(resources, resourceFromSolution(solution, ""))
	}
	return resources, nil
}

// Describe returns the outgoing and incoming triples of iri.
func (s *Store) Describe(ctx context.Context, iri string) (*model.ResourceDescription, error) {
	subject, err := rdf.NewIRI(iri)
	if err != nil {
		return nil, helper.NewError("describe", err)
	}

	outgoing, err := s.query(ctx, "describe-outgoing", struct{ IRI string }{iri})
	if err != nil {
		return nil, err
	}
	incoming, err := s.query(ctx, "describe-incoming", struct {
		IRI   string
		Limit int
	}{iri, 200})
	if err != nil {
		return nil, err
	}
	if len(outgoing) == 0 && len(incoming) == 0 {
		return nil, helper.NewError(fmt.Sprintf("describe %s", iri), model.ErrResourceNotFound)
	}

	description := &model.ResourceDescription{}
	for _, solution := range outgoing {
		p, o := solution["p"], solution["o"]
		if p == nil || o == nil {
			continue
		}
		description.Outgoing = append(description.Outgoing, export.ToStored(rdf.Triple{Subj: subject, Pred: p.(rdf.Predicate), Obj: o.(rdf.Object)}))
	}
	for _, solution := range incoming {
		sub, p := solution["s"], solution["p"]
		if sub == nil || p == nil {
			continue
		}
		if _, ok := sub.(rdf.IRI); !ok {
			continue
		}
		description.Incoming = append(description.Incoming, export.ToStored(rdf.Triple{Subj: sub.(rdf.Subject), Pred: p.(rdf.Predicate), Obj: subject}))
	}
	description.Resource = export.ResourceFromTriples(iri, description.Outgoing)

	return description, nil
}

// Count returns the number of triples in the default graph.
func (s *Store) Count(ctx context.Context) (int, error) {
	solutions, err := s.query(ctx, "count-triples", nil)
	if err != nil {
		return 0, err
	}
	if len(solutions) == 0 || solutions[0]["count"] == nil {
		return 0, nil
	}
	return strconv.Atoi(solutions[0]["count"].String())
}

// Upload sends Turtle to the graph store. With replace the graph is
// overwritten (PUT), otherwise the triples are added (POST). An empty graph
// name targets the default graph.
func (s *Store) Upload(ctx context.Context, turtle io.Reader, graph string, replace bool) error {
	request := s.upload.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/turtle; charset=utf-8").
		SetBody(turtle)
	if graph != "" {
		request.SetQueryParam("graph", graph)
	} else {
		request.SetQueryParam("default", "")
	}

	path := "/" + s.dataset + "/data"
	var (
		response *resty.Response
		err      error
	)
	if replace {
		response, err = request.Put(path)
	} else {
		response, err = request.Post(path)
	}
	if err != nil {
		return helper.NewError("upload graph", err)
	}
	if response.IsError() {
		return helper.NewError("upload graph", fmt.Errorf("status %d: %s", response.StatusCode(), strings.TrimSpace(response.String())))
	}

	s.logger.Info("Uploaded graph", slog.String("dataset", s.dataset), slog.Bool("replace", replace), slog.Int("status", response.StatusCode()))
	return nil
}

// UploadTriples serializes triples as Turtle and uploads them.
func (s *Store) UploadTriples(ctx context.Context, triples []rdf.Triple, graph string, replace bool) error {
	var buf bytes.Buffer
	if err := export.Write(&buf, triples, export.Turtle); err != nil {
		return err
	}
	return s.Upload(ctx, &buf, graph, replace)
}

func resourceFromSolution(solution map[string]rdf.Term, typeIRI string) *model.Resource {
	resource := &model.Resource{TypeIRI: typeIRI}
	if term := solution["s"]; term != nil {
		resource.IRI = term.String()
	}
	if term := solution["label"]; term != nil {
		resource.Label = term.String()
	}
	if term := solution["type"]; term != nil && resource.TypeIRI == "" {
		resource.TypeIRI = term.String()
	}
	if resource.Label == "" {
		resource.Label = resource.IRI
	}
	return resource
}

// escapeString escapes text for use inside a double quoted SPARQL literal.
func escapeString(text string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`).Replace(text)
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 1000 {
		return 100
	}
	return limit
}
