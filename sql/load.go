package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed pages.sql
var pagesSQL string

//go:embed triples.sql
var triplesSQL string

//go:embed resources.sql
var resourcesSQL string

// Function lists for verification
var PagesFunctions = []string{
	"init_pages",
	"upsert_page",
	"select_page",
	"select_page_by_title",
	"select_all_pages",
	"update_page_report",
	"count_pages_by_status",
	"delete_page",
}

var TriplesFunctions = []string{
	"init_triples",
	"insert_triple",
	"select_triples_by_subject",
	"select_triples_by_object",
	"select_triples_by_predicate",
	"select_all_triples",
	"delete_triples_by_page",
	"count_triples",
	"traverse_bfs_from_resource",
}

var ResourcesFunctions = []string{
	"init_resources",
	"upsert_resource",
	"update_resource_embedding",
	"select_resource",
	"select_resources_by_type",
	"search_resources",
	"select_resources_by_similarity",
	"count_resources",
	"delete_resource",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadPagesSql loads page-related SQL functions
func LoadPagesSql(db *sql.DB, force bool) error {
	return loadSql(db, "pages", pagesSQL, PagesFunctions, force)
}

// LoadTriplesSql loads triple-related SQL functions.
// The triples table references pages, so pages must be initialized first.
func LoadTriplesSql(db *sql.DB, force bool) error {
	return loadSql(db, "triples", triplesSQL, TriplesFunctions, force)
}

// LoadResourcesSql loads resource-related SQL functions
func LoadResourcesSql(db *sql.DB, force bool) error {
	return loadSql(db, "resources", resourcesSQL, ResourcesFunctions, force)
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	if err := LoadPagesSql(db, force); err != nil {
		return err
	}

	if err := LoadTriplesSql(db, force); err != nil {
		return err
	}

	if err := LoadResourcesSql(db, force); err != nil {
		return err
	}

	return nil
}

func loadSql(db *sql.DB, name string, script string, functions []string, force bool) error {
	if !force {
		exist, err := checkFunctions(db, functions)
		if err != nil {
			return fmt.Errorf("error checking existing %s functions: %w", name, err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(script)
	if err != nil {
		return fmt.Errorf("error executing %s SQL: %w", name, err)
	}

	exist, err := checkFunctions(db, functions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Printf("SQL %s functions loaded successfully", name)
	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
