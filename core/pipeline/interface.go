package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/knakk/rdf"
	"github.com/siherrmann/wikigrapher/core/ontology"
	"github.com/siherrmann/wikigrapher/core/wikitext"
	"github.com/siherrmann/wikigrapher/helper"
	"github.com/siherrmann/wikigrapher/model"
	"golang.org/x/sync/errgroup"
)

// EmbedFunc is a function that generates embeddings for text
type EmbedFunc func(text string) ([]float32, error)

// Result is the output of one run.
// Triples are in page order followed by the materialized resources.
type Result struct {
	Triples []rdf.Triple
	Reports []*model.PageReport
	Labels  []LabelEntry
}

// Counts returns the number of reports per status.
func (r *Result) Counts() map[model.PageStatus]int {
	counts := map[model.PageStatus]int{}
	for _, report := range r.Reports {
		counts[report.Status]++
	}
	return counts
}

// Pipeline turns wiki pages into triples.
type Pipeline struct {
	Vocabulary *ontology.Vocabulary
	Emitter    *Emitter
	Workers    int
	Metrics    *Metrics // Optional
	logger     *slog.Logger
}

// NewPipeline creates a sequential pipeline for vocabulary. A nil vocabulary
// uses the built-in one.
func NewPipeline(vocabulary *ontology.Vocabulary, logger *slog.Logger) *Pipeline {
	if vocabulary == nil {
		vocabulary = ontology.DefaultVocabulary()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		Vocabulary: vocabulary,
		Emitter:    NewEmitter(vocabulary),
		Workers:    1,
		logger:     logger,
	}
}

// SetWorkers sets the number of pages processed in parallel
func (p *Pipeline) SetWorkers(workers int) {
	if workers < 1 {
		workers = 1
	}
	p.Workers = workers
}

// SetMetrics sets the metrics updated after every page
func (p *Pipeline) SetMetrics(metrics *Metrics) {
	p.Metrics = metrics
}

type pageResult struct {
	report   *model.PageReport
	triples  []rdf.Triple
	labels   []LabelEntry
	subjects []rdf.IRI
}

// Run processes pages and returns the triples and one report per page.
// A failing page never stops the run, only a cancelled context does.
func (p *Pipeline) Run(ctx context.Context, pages []*model.Page) (*Result, error) {
	results := make([]pageResult, len(pages))
	primary := newSubjectSet()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.Workers, 1))
	for i, page := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.processPage(page)
			primary.add(results[i].subjects...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, helper.NewError("run pipeline", err)
	}

	index := NewLabelIndex()
	result := &Result{Reports: make([]*model.PageReport, 0, len(pages))}
	for _, r := range results {
		result.Triples = append(result.Triples, r.triples...)
		result.Reports = append(result.Reports, r.report)
		index.Merge(r.labels)
		p.Metrics.observe(r.report)
	}

	materialized := Materialize(index, primary.has)
	result.Triples = append(result.Triples, materialized...)
	result.Labels = index.Entries()
	p.Metrics.observeMaterialized(len(materialized))

	counts := result.Counts()
	p.logger.Info("Pipeline run finished",
		slog.Int("pages", len(pages)),
		slog.Int("triples", len(result.Triples)),
		slog.Int("materialized", len(materialized)),
		slog.Int("ok", counts[model.PageStatusOK]),
		slog.Int("failed", counts[model.PageStatusFailed]),
	)

	return result, nil
}

func (p *Pipeline) processPage(page *model.Page) (result pageResult) {
	report := &model.PageReport{Title: page.Title, Status: model.PageStatusOK}
	result.report = report

	defer func() {
		if r := recover(); r != nil {
			report.Status = model.PageStatusFailed
			report.Error = fmt.Sprintf("panic: %v", r)
			report.Triples = 0
			result = pageResult{report: report}
			p.logger.Error("Page failed", slog.String("title", page.Title), slog.Any("panic", r))
		}
	}()

	block, err := wikitext.ExtractInfobox(page.Wikitext)
	switch {
	case errors.Is(err, wikitext.ErrBlockNotFound):
		report.Status = model.PageStatusNotFound
		p.logger.Debug("No infobox found", slog.String("title", page.Title))
		return result
	case errors.Is(err, wikitext.ErrBlockUnbalanced):
		report.Status = model.PageStatusUnbalanced
		report.Error = err.Error()
		p.logger.Warn("Unbalanced infobox", slog.String("title", page.Title))
		return result
	case err != nil:
		report.Status = model.PageStatusFailed
		report.Error = err.Error()
		return result
	}

	record := wikitext.Parse(page.Title, block)
	p.resolveOtherNames(record, page.Wikitext)
	buffer := &labelBuffer{}
	output := p.EmitRecord(record, buffer)

	report.Subject = output.Subject.String()
	report.TemplateName = record.TemplateName
	report.Triples = len(output.Triples)
	report.Skips = output.Skips
	if len(record.Fields) == 0 && len(record.Embedded) == 0 {
		report.Status = model.PageStatusEmpty
	}

	result.triples = output.Triples
	result.labels = buffer.entries
	result.subjects = output.Subjects
	return result
}

// Materialize returns a type and a label triple for every indexed resource
// that is not a primary subject.
func Materialize(index *LabelIndex, isPrimary func(rdf.IRI) bool) []rdf.Triple {
	var triples []rdf.Triple
	for _, entry := range index.Entries() {
		if isPrimary != nil && isPrimary(entry.IRI) {
			continue
		}
		label, err := rdf.NewLiteral(entry.Label)
		if err != nil {
			continue
		}
		triples = append(triples,
			rdf.Triple{Subj: entry.IRI, Pred: ontology.RDFType, Obj: ontology.KindType(entry.Kind)},
			rdf.Triple{Subj: entry.IRI, Pred: ontology.RDFSLabel, Obj: label},
		)
	}
	return triples
}
