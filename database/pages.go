package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/wikigrapher/helper"
	"github.com/siherrmann/wikigrapher/model"
	loadSql "github.com/siherrmann/wikigrapher/sql"
)

// ErrPageNotFound is returned when no page matches.
var ErrPageNotFound = errors.New("page not found")

// PagesDBHandlerFunctions defines the interface for Pages database operations.
type PagesDBHandlerFunctions interface {
	UpsertPage(page *model.Page) error
	UpdatePageReport(page *model.Page, report *model.PageReport) error
	DeletePage(rid uuid.UUID) error
	SelectPage(rid uuid.UUID) (*model.Page, error)
	SelectPageByTitle(title string) (*model.Page, error)
	SelectAllPages(status *model.PageStatus, lastCreatedAt *time.Time, limit int) ([]*model.Page, error)
	CountPagesByStatus() (map[model.PageStatus]int, error)
}

// PagesDBHandler handles page-related database operations
type PagesDBHandler struct {
	db *helper.Database
}

// NewPagesDBHandler creates a new pages database handler.
// It loads the page SQL functions and creates the table.
// If force is true, it will reload the SQL functions even if they already exist.
func NewPagesDBHandler(db *helper.Database, force bool) (*PagesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	pagesDbHandler := &PagesDBHandler{
		db: db,
	}

	err := loadSql.LoadPagesSql(pagesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load pages sql", err)
	}

	err = pagesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized PagesDBHandler")

	return pagesDbHandler, nil
}

// CreateTable creates the 'pages' table in the database.
// If the table already exists, it does not create it again.
func (h *PagesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_pages();`)
	if err != nil {
		log.Panicf("error initializing pages table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table pages")

	return nil
}

// UpsertPage inserts a page or overwrites the page with the same title.
// The wikitext is never stored.
func (h *PagesDBHandler) UpsertPage(page *model.Page) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM upsert_page($1, $2, $3, $4, $5, $6, $7)`,
		page.Title,
		page.Source,
		page.Subject,
		page.Status,
		page.TemplateName,
		page.TripleCount,
		page.Metadata,
	)

	err := scanPage(row, page)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// UpdatePageReport stores the extraction outcome of a page.
func (h *PagesDBHandler) UpdatePageReport(page *model.Page, report *model.PageReport) error {
	report.Apply(page)

	row := h.db.Instance.QueryRow(
		`SELECT * FROM update_page_report($1, $2, $3, $4, $5, $6)`,
		page.RID,
		page.Subject,
		page.Status,
		page.TemplateName,
		page.TripleCount,
		page.Metadata,
	)

	err := row.Scan(&page.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return helper.NewError("update page report", ErrPageNotFound)
	}
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// DeletePage deletes a page by RID. Its triples stay but lose the page reference.
func (h *PagesDBHandler) DeletePage(rid uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_page($1)`,
		rid,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// SelectPage retrieves a page by RID
func (h *PagesDBHandler) SelectPage(rid uuid.UUID) (*model.Page, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_page($1)`,
		rid,
	)

	page := &model.Page{}
	err := scanPage(row, page)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, helper.NewError("select page", ErrPageNotFound)
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return page, nil
}

// SelectPageByTitle retrieves a page by its wiki title
func (h *PagesDBHandler) SelectPageByTitle(title string) (*model.Page, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_page_by_title($1)`,
		title,
	)

	page := &model.Page{}
	err := scanPage(row, page)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, helper.NewError("select page by title", ErrPageNotFound)
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return page, nil
}

// SelectAllPages pages through all pages ordered by creation time.
// A nil status selects every status, a nil lastCreatedAt starts at the beginning.
func (h *PagesDBHandler) SelectAllPages(status *model.PageStatus, lastCreatedAt *time.Time, limit int) ([]*model.Page, error) {
	var statusParam interface{}
	if status != nil {
		statusParam = string(*status)
	}
	var lastCreatedAtParam interface{}
	if lastCreatedAt != nil {
		lastCreatedAtParam = *lastCreatedAt
	}

	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_all_pages($1, $2, $3)`,
		statusParam,
		lastCreatedAtParam,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var pages []*model.Page
	for rows.Next() {
		page := &model.Page{}
		err := scanPage(rows, page)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		pages = append(pages, page)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return pages, nil
}

// CountPagesByStatus returns the number of pages per status
func (h *PagesDBHandler) CountPagesByStatus() (map[model.PageStatus]int, error) {
	rows, err := h.db.Instance.Query(`SELECT * FROM count_pages_by_status()`)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	counts := map[model.PageStatus]int{}
	for rows.Next() {
		var status model.PageStatus
		var count int
		err := rows.Scan(&status, &count)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		counts[status] = count
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return counts, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPage(row rowScanner, page *model.Page) error {
	return row.Scan(
		&page.ID,
		&page.RID,
		&page.Title,
		&page.Source,
		&page.Subject,
		&page.Status,
		&page.TemplateName,
		&page.TripleCount,
		&page.Metadata,
		&page.CreatedAt,
		&page.UpdatedAt,
	)
}
