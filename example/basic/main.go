package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/wikigrapher"
	"github.com/siherrmann/wikigrapher/helper"
	"github.com/siherrmann/wikigrapher/model"
)

const aragornInfobox = `{{Infobox character
| name = Aragorn II Elessar
| othernames = Strider, Estel, Thorongil
| titles = King of Arnor and Gondor<br/>Chieftain of the Dúnedain
| birth = {{TA|2931}}
| birthlocation = [[Rivendell]]
| race = [[Men]]
| house = [[House of Telcontar]]
| spouse = [[Arwen]]
| gender = Male
}}`

const arwenInfobox = `{{Infobox character
| name = Arwen Undómiel
| birthlocation = [[Rivendell]]
| parentage = [[Elrond]] and [[Celebrían]]
| spouse = [[Aragorn|Aragorn II Elessar]]
| gender = Female
}}`

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
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

	pages := []*model.Page{
		model.NewPage("Aragorn", aragornInfobox, "basic_example"),
		model.NewPage("Arwen", arwenInfobox, "basic_example"),
	}

	fmt.Println("Building graph...")
	result, stored, err := g.Build(context.Background(), pages)
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}
	for _, report := range result.Reports {
		fmt.Printf("%s: %s, %d triples, %d skipped fields\n", report.Title, report.Status, report.Triples, len(report.Skips))
	}
	fmt.Printf("Stored %d triples and %d resources\n", stored.Triples, stored.Resources)

	// Describe one resource
	description, err := g.Describe(context.Background(), "http://tolkien-kg.org/resource/Aragorn")
	if err != nil {
		log.Fatalf("Failed to describe: %v", err)
	}
	fmt.Printf("\n%s (%s)\n", description.Resource.Label, description.Resource.TypeIRI)
	for _, triple := range description.Outgoing {
		fmt.Printf("  %s -> %s\n", triple.Predicate, triple.Object)
	}

	// Search by label
	config := model.DefaultQueryConfig()
	config.TopK = 5
	results, err := g.Search(context.Background(), "Riven", &config)
	if err != nil {
		log.Fatalf("Failed to search: %v", err)
	}

	fmt.Printf("\nFound %d results:\n", len(results))
	for i, r := range results {
		fmt.Printf("%d. %s (%s, score %.2f)\n", i+1, r.Resource.Label, r.RetrievalMethod, r.Score)
	}

	fmt.Println("\nBasic example completed successfully!")
}
