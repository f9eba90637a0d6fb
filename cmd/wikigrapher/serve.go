package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/siherrmann/wikigrapher/helper"
	"github.com/siherrmann/wikigrapher/sparqlstore"
	"github.com/siherrmann/wikigrapher/web"
	"github.com/spf13/cobra"
)

const (
	backendPostgres = "postgres"
	backendSPARQL   = "sparql"
)

func publishCmd(a *app) *cobra.Command {
	var (
		graph   string
		replace bool
	)

	cmd := &cobra.Command{
		Use:   "publish [FILE]",
		Short: "Upload a Turtle file to the Fuseki graph store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.config.Pipeline.OutputFile
			if len(args) == 1 {
				path = args[0]
			}

			store, err := sparqlstore.NewStore(a.config.Fuseki.Store(), a.logger)
			if err != nil {
				return err
			}

			file, err := os.Open(path)
			if err != nil {
				return helper.NewError("open graph file", err)
			}
			defer file.Close()

			return store.Upload(cmd.Context(), file, graph, replace)
		},
	}

	cmd.Flags().StringVar(&graph, "graph", "", "Named graph, the default graph when empty")
	cmd.Flags().BoolVar(&replace, "replace", false, "Replace the graph instead of adding to it")
	return cmd
}

func serveCmd(a *app) *cobra.Command {
	var (
		addr    string
		backend string
		embed   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the graph over HTTP as HTML, RDF and JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if addr == "" {
				addr = a.config.Web.Addr
			}

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			var reader web.GraphReader
			switch backend {
			case backendPostgres:
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
				reader = g.Engine
			case backendSPARQL:
				store, err := sparqlstore.NewStore(a.config.Fuseki.Store(), a.logger)
				if err != nil {
					return err
				}
				reader = store
			default:
				return fmt.Errorf("unknown backend %q, use %s or %s", backend, backendPostgres, backendSPARQL)
			}

			server, err := web.NewServer(reader, registry, a.logger)
			if err != nil {
				return err
			}
			return server.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default WEB_ADDR)")
	cmd.Flags().StringVar(&backend, "backend", backendSPARQL, "Graph backend: sparql or postgres")
	cmd.Flags().BoolVar(&embed, "embed", false, "Use label embeddings for search (postgres backend)")
	return cmd
}

func statsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print page, triple and resource counts of the Postgres store",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.openGrapher()
			if err != nil {
				return err
			}
			defer g.Close()

			stats, err := g.Stats(cmd.Context())
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(stats)
		},
	}
}
