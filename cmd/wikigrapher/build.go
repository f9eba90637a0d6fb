package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/siherrmann/wikigrapher"
	"github.com/siherrmann/wikigrapher/core/ontology"
	"github.com/siherrmann/wikigrapher/core/pipeline"
	"github.com/siherrmann/wikigrapher/export"
	"github.com/siherrmann/wikigrapher/helper"
	"github.com/siherrmann/wikigrapher/model"
	"github.com/siherrmann/wikigrapher/source"
	"github.com/spf13/cobra"
)

func fetchCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the infobox of every wiki page into the infobox directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			wiki := a.config.Wiki
			client, err := source.NewMediaWikiClient(wiki.APIURL, wiki.UserAgent, wiki.Delay, a.logger)
			if err != nil {
				return err
			}
			store := source.NewFileStore(wiki.InfoboxDir, a.logger)

			result, err := source.Fetch(ctx, client, store, limit, a.logger)
			if result != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "titles=%d saved=%d no_infobox=%d failed=%d\n",
					result.Titles, result.Saved, result.NoInfobox, result.Failed)
			}
			return err
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of pages, 0 for all")
	return cmd
}

func buildCmd(a *app) *cobra.Command {
	var (
		output     string
		reportPath string
		store      bool
		embed      bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Turn the infobox directory into an RDF graph file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if output == "" {
				output = a.config.Pipeline.OutputFile
			}

			pages, err := source.NewFileStore(a.config.Wiki.InfoboxDir, a.logger).Load()
			if err != nil {
				return err
			}

			p, err := a.newPipeline(prometheus.NewRegistry())
			if err != nil {
				return err
			}

			result, err := p.Run(ctx, pages)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(output), 0750); err != nil {
				return helper.NewError("create output directory", err)
			}
			if err := export.WriteFile(output, result.Triples); err != nil {
				return err
			}
			a.logger.Info("Wrote graph", slog.String("file", output), slog.Int("triples", len(result.Triples)))

			if reportPath != "" {
				if err := writeReports(reportPath, result.Reports); err != nil {
					return err
				}
			}

			if store {
				if err := a.storeResult(ctx, pages, result, embed); err != nil {
					return err
				}
			}

			counts := result.Counts()
			fmt.Fprintf(cmd.OutOrStdout(), "pages=%d triples=%d ok=%d not_found=%d unbalanced=%d empty=%d failed=%d\n",
				len(pages), len(result.Triples),
				counts[model.PageStatusOK], counts[model.PageStatusNotFound], counts[model.PageStatusUnbalanced],
				counts[model.PageStatusEmpty], counts[model.PageStatusFailed])
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, the format follows the extension (default OUTPUT_FILE)")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write the page reports as JSON to this file")
	cmd.Flags().BoolVar(&store, "store", false, "Also store pages, triples and resources in Postgres")
	cmd.Flags().BoolVar(&embed, "embed", false, "Embed resource labels when storing")
	return cmd
}

func (a *app) newPipeline(registerer prometheus.Registerer) (*pipeline.Pipeline, error) {
	vocabulary := ontology.DefaultVocabulary()
	if path := a.config.Pipeline.VocabularyFile; path != "" {
		loaded, err := ontology.LoadVocabulary(path)
		if err != nil {
			return nil, err
		}
		vocabulary = loaded
	}

	p := pipeline.NewPipeline(vocabulary, a.logger)
	p.SetWorkers(a.config.Pipeline.Workers)

	metrics, err := pipeline.NewMetrics(registerer)
	if err != nil {
		return nil, helper.NewError("register pipeline metrics", err)
	}
	p.SetMetrics(metrics)
	return p, nil
}

func (a *app) openGrapher() (*wikigrapher.Grapher, error) {
	dbConfig, err := helper.NewDatabaseConfiguration()
	if err != nil {
		return nil, err
	}
	return wikigrapher.NewGrapherWithLogger(dbConfig, a.config.Pipeline.EmbeddingDim, a.logger)
}

func (a *app) storeResult(ctx context.Context, pages []*model.Page, result *pipeline.Result, embed bool) error {
	g, err := a.openGrapher()
	if err != nil {
		return err
	}
	defer g.Close()

	if embed {
		if err := g.UseDefaultEmbedder(a.config.Pipeline.ModelDir); err != nil {
			return err
		}
	}

	_, err = g.Store(ctx, pages, result)
	return err
}

func writeReports(path string, reports []*model.PageReport) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return helper.NewError("encode reports", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return helper.NewError("write reports", err)
	}
	return nil
}

func mergeCmd(a *app) *cobra.Command {
	var (
		output        string
		englishLabels bool
	)

	cmd := &cobra.Command{
		Use:   "merge FILE...",
		Short: "Union several Turtle or N-Triples files into one",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			triples, err := export.Merge(a.logger, args...)
			if err != nil {
				return err
			}
			if englishLabels {
				triples = export.AddEnglishLabels(triples)
			}
			if err := export.WriteFile(output, triples); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "files=%d triples=%d\n", len(args), len(triples))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "rdf/merged.ttl", "Output file")
	cmd.Flags().BoolVar(&englishLabels, "english-labels", true, "Add rdfs:label @en from schema:name where missing")
	return cmd
}
