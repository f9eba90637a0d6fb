package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/siherrmann/wikigrapher"
	"github.com/siherrmann/wikigrapher/core/ontology"
	"github.com/siherrmann/wikigrapher/core/pipeline"
	"github.com/siherrmann/wikigrapher/database"
	"github.com/siherrmann/wikigrapher/export"
	"github.com/siherrmann/wikigrapher/helper"
	"github.com/siherrmann/wikigrapher/model"
)

var samplePages = map[string]string{
	"Elrond": `{{Infobox character
| name = Elrond Half-elven
| realm = [[Rivendell]]
| spouse = [[Celebrían]]
| children = [[Elladan]], [[Elrohir]] and [[Arwen]]
| gender = Male
}}`,
	"Arwen": `{{Infobox character
| name = Arwen Undómiel
| birthlocation = [[Rivendell]]
| spouse = [[Aragorn]]
| gender = Female
}}`,
	"Aragorn": `{{Infobox character
| name = Aragorn II Elessar
| birthlocation = [[Rivendell]]
| spouse = [[Arwen]]
| deathlocation = [[Minas Tirith]]
| gender = Male
| timeline = {{Timeline
 | section1short = TA
 | section1period1start = 2931
 | section1period1end = 3019
 | section1period1label = Ranger of the North
}}
}}`,
	"Rivendell": `{{Infobox location
| name = Rivendell
| othernames = Imladris, The Last Homely House
| location = [[Eriador]]
| inhabitants = [[Elves]]
}}`,
}

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "wikigrapher",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	g, err := wikigrapher.NewGrapher(dbConfig, 384)
	if err != nil {
		log.Fatalf("Failed to create grapher: %v", err)
	}
	defer g.Close()

	// Label embeddings for vector search
	if err := g.UseDefaultEmbedder("models"); err != nil {
		log.Fatalf("Failed to set up embedder: %v", err)
	}

	// Four workers, the output is the same as with one
	p := pipeline.NewPipeline(nil, nil)
	p.SetWorkers(4)
	g.SetPipeline(p)

	var pages []*model.Page
	for _, title := range []string{"Elrond", "Arwen", "Aragorn", "Rivendell"} {
		pages = append(pages, model.NewPage(title, samplePages[title], "advanced_example"))
	}

	ctx := context.Background()

	fmt.Println("=== Building Graph ===")
	result, stored, err := g.Build(ctx, pages)
	if err != nil {
		log.Fatalf("Failed to build: %v", err)
	}
	fmt.Printf("%d triples, %d resources, %d embedded\n", stored.Triples, stored.Resources, stored.Embedded)
	for status, count := range result.Counts() {
		fmt.Printf("  %s: %d\n", status, count)
	}

	// 1. Vector-only search
	fmt.Println("\n=== 1. Vector Search ===")
	vectorConfig := model.DefaultQueryConfig()
	vectorConfig.TopK = 3
	vectorConfig.SimilarityThreshold = 0.2
	vectorResults, err := g.VectorSearch(ctx, "elven valley", &vectorConfig)
	if err != nil {
		log.Fatalf("Vector search failed: %v", err)
	}
	printResults("Vector Search", vectorResults)

	// 2. Hybrid search restricted to characters, expanded one hop
	fmt.Println("\n=== 2. Hybrid Search ===")
	hybridConfig := model.DefaultQueryConfig()
	hybridConfig.TopK = 5
	hybridConfig.VectorWeight = 0.5
	hybridConfig.TypeIRIs = []string{ontology.Character.String()}
	hybridResults, err := g.Search(ctx, "Arwen", &hybridConfig)
	if err != nil {
		log.Fatalf("Hybrid search failed: %v", err)
	}
	printResults("Hybrid Search", hybridResults)

	// 3. Index type switching
	fmt.Println("\n=== 3. Changing Index Type ===")
	if err := g.ChangeIndexType(ctx, database.IndexTypeIVFFlat, database.IndexOptions{Lists: 10}); err != nil {
		log.Printf("Warning: Index change failed: %v", err)
	} else {
		fmt.Println("Switched to IVFFlat index")
	}
	if err := g.ChangeIndexType(ctx, database.IndexTypeHNSW, database.IndexOptions{M: 16, EfConstruction: 64}); err != nil {
		log.Printf("Warning: Index change failed: %v", err)
	} else {
		fmt.Println("Switched back to HNSW index")
	}

	// 4. Graph traversal
	fmt.Println("\n=== 4. Graph Traversal (BFS) ===")
	elrond := ontology.Resource("Elrond").String()
	traversal, err := g.BFSTraversal(ctx, elrond, 2, nil, false)
	if err != nil {
		log.Fatalf("BFS traversal failed: %v", err)
	}
	for _, tr := range traversal {
		fmt.Printf("  - Distance %d: %s\n", tr.Distance, tr.Resource.Label)
	}

	// 5. Export as Turtle
	fmt.Println("\n=== 5. Turtle Export ===")
	if err := export.Write(os.Stdout, result.Triples, export.Turtle); err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	fmt.Println("\n=== Advanced Example Completed Successfully! ===")
}

func printResults(title string, results []*model.RetrievalResult) {
	fmt.Printf("%s - Found %d results:\n", title, len(results))
	for i, result := range results {
		fmt.Printf("  %d. %s\n", i+1, result.Resource.Label)
		fmt.Printf("     Score: %.4f (similarity: %.4f, graph dist: %d)\n",
			result.Score, result.SimilarityScore, result.GraphDistance)
		fmt.Printf("     Method: %s\n", result.RetrievalMethod)
	}
}
