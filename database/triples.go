package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/siherrmann/wikigrapher/helper"
	"github.com/siherrmann/wikigrapher/model"
	loadSql "github.com/siherrmann/wikigrapher/sql"
)

// TriplesDBHandlerFunctions defines the interface for Triples database operations.
type TriplesDBHandlerFunctions interface {
	InsertTriple(triple *model.StoredTriple) error
	InsertTriples(ctx context.Context, triples []*model.StoredTriple) error
	SelectTriplesBySubject(subject string) ([]*model.StoredTriple, error)
	SelectTriplesByObject(object string, limit int) ([]*model.StoredTriple, error)
	SelectTriplesByPredicate(predicate string, limit int) ([]*model.StoredTriple, error)
	SelectAllTriples(lastID int64, limit int) ([]*model.StoredTriple, error)
	DeleteTriplesByPage(pageRID uuid.UUID) (int, error)
	CountTriples() (int, error)
	TraverseBFSFromResource(start string, maxDepth int, predicate *string) ([]*model.TraversalNode, error)
}

// TriplesDBHandler handles triple-related database operations
type TriplesDBHandler struct {
	db *helper.Database
}

// NewTriplesDBHandler creates a new triples database handler.
// The pages table has to exist, triples reference the page they came from.
// If force is true, it will reload the SQL functions even if they already exist.
func NewTriplesDBHandler(db *helper.Database, force bool) (*TriplesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	triplesDbHandler := &TriplesDBHandler{
		db: db,
	}

	err := loadSql.LoadTriplesSql(triplesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load triples sql", err)
	}

	err = triplesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized TriplesDBHandler")

	return triplesDbHandler, nil
}

// CreateTable creates the 'triples' table in the database.
// If the table already exists, it does not create it again.
func (h *TriplesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_triples();`)
	if err != nil {
		log.Panicf("error initializing triples table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table triples")

	return nil
}

// InsertTriple inserts a triple. An identical triple is stored only once,
// triple is then filled with the existing row.
func (h *TriplesDBHandler) InsertTriple(triple *model.StoredTriple) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_triple($1, $2, $3, $4, $5, $6, $7)`,
		triple.PageRID,
		triple.Subject,
		triple.Predicate,
		triple.Object,
		triple.ObjectKind,
		triple.Lang,
		triple.Datatype,
	)

	err := scanTriple(row, triple)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// InsertTriples inserts all triples in one transaction.
func (h *TriplesDBHandler) InsertTriples(ctx context.Context, triples []*model.StoredTriple) error {
	tx, err := h.db.Instance.BeginTx(ctx, nil)
	if err != nil {
		return helper.NewError("begin transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `SELECT * FROM insert_triple($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		return helper.NewError("prepare", err)
	}
	defer stmt.Close()

	for _, triple := range triples {
		row := stmt.QueryRowContext(ctx,
			triple.PageRID,
			triple.Subject,
			triple.Predicate,
			triple.Object,
			triple.ObjectKind,
			triple.Lang,
			triple.Datatype,
		)
		if err := scanTriple(row, triple); err != nil {
			return helper.NewError("scan", err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return helper.NewError("commit", err)
	}

	return nil
}

// SelectTriplesBySubject retrieves all triples of a subject in insertion order
func (h *TriplesDBHandler) SelectTriplesBySubject(subject string) ([]*model.StoredTriple, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_triples_by_subject($1)`,
		subject,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	return collectTriples(rows)
}

// SelectTriplesByObject retrieves the triples linking to a resource
func (h *TriplesDBHandler) SelectTriplesByObject(object string, limit int) ([]*model.StoredTriple, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_triples_by_object($1, $2)`,
		object,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	return collectTriples(rows)
}

// SelectTriplesByPredicate retrieves triples with the given predicate
func (h *TriplesDBHandler) SelectTriplesByPredicate(predicate string, limit int) ([]*model.StoredTriple, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_triples_by_predicate($1, $2)`,
		predicate,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	return collectTriples(rows)
}

// SelectAllTriples pages through all triples by ID. Start with lastID 0.
func (h *TriplesDBHandler) SelectAllTriples(lastID int64, limit int) ([]*model.StoredTriple, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_all_triples($1, $2)`,
		lastID,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	return collectTriples(rows)
}

// DeleteTriplesByPage deletes the triples of a page and returns how many were removed
func (h *TriplesDBHandler) DeleteTriplesByPage(pageRID uuid.UUID) (int, error) {
	var deleted int
	err := h.db.Instance.QueryRow(
		`SELECT delete_triples_by_page($1)`,
		pageRID,
	).Scan(&deleted)
	if err != nil {
		return 0, helper.NewError("exec", err)
	}
	return deleted, nil
}

// CountTriples returns the number of stored triples
func (h *TriplesDBHandler) CountTriples() (int, error) {
	var count int
	err := h.db.Instance.QueryRow(`SELECT count_triples()`).Scan(&count)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}
	return count, nil
}

// TraverseBFSFromResource walks resource links breadth first from start.
// Every reached resource is returned once with its shortest path.
func (h *TriplesDBHandler) TraverseBFSFromResource(start string, maxDepth int, predicate *string) ([]*model.TraversalNode, error) {
	var rows *sql.Rows
	var err error

	if predicate != nil {
		rows, err = h.db.Instance.Query(
			`SELECT * FROM traverse_bfs_from_resource($1, $2, $3)`,
			start,
			maxDepth,
			*predicate,
		)
	} else {
		rows, err = h.db.Instance.Query(
			`SELECT * FROM traverse_bfs_from_resource($1, $2, NULL)`,
			start,
			maxDepth,
		)
	}

	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var nodes []*model.TraversalNode
	for rows.Next() {
		node := &model.TraversalNode{}
		err := rows.Scan(
			&node.IRI,
			&node.Depth,
			pq.Array(&node.Path),
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		nodes = append(nodes, node)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return nodes, nil
}

func collectTriples(rows *sql.Rows) ([]*model.StoredTriple, error) {
	defer rows.Close()

	var triples []*model.StoredTriple
	for rows.Next() {
		triple := &model.StoredTriple{}
		err := scanTriple(rows, triple)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		triples = append(triples, triple)
	}

	err := rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return triples, nil
}

func scanTriple(row rowScanner, triple *model.StoredTriple) error {
	return row.Scan(
		&triple.ID,
		&triple.RID,
		&triple.PageRID,
		&triple.Subject,
		&triple.Predicate,
		&triple.Object,
		&triple.ObjectKind,
		&triple.Lang,
		&triple.Datatype,
		&triple.CreatedAt,
	)
}
