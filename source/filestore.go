package source

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/siherrmann/wikigrapher/helper"
	"github.com/siherrmann/wikigrapher/model"
)

var pageFileRe = regexp.MustCompile(`^infobox_(\d+)\.txt$`)

// FileStore keeps pages as numbered infobox_NNN.txt files in one directory.
type FileStore struct {
	Dir    string
	logger *slog.Logger
}

// NewFileStore creates a store for dir. The directory is created on first save.
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{Dir: dir, logger: logger}
}

// Files returns the page files of the store ordered by their number.
func (s *FileStore) Files() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, helper.NewError("read infobox directory", err)
	}

	type numbered struct {
		n    int
		path string
	}
	var files []numbered
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := pageFileRe.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		files = append(files, numbered{n: n, path: filepath.Join(s.Dir, entry.Name())})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].n < files[j].n })

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths, nil
}

// Load reads every page file in order.
func (s *FileStore) Load() ([]*model.Page, error) {
	paths, err := s.Files()
	if err != nil {
		return nil, err
	}

	pages := make([]*model.Page, 0, len(paths))
	for _, path := range paths {
		page, err := model.NewPageFromFile(path)
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("load %s", path), err)
		}
		pages = append(pages, page)
	}

	s.logger.Debug("Loaded pages", slog.String("dir", s.Dir), slog.Int("pages", len(pages)))
	return pages, nil
}

// Save writes page as the next numbered file and returns its path.
func (s *FileStore) Save(page *model.Page) (string, error) {
	if err := os.MkdirAll(s.Dir, 0750); err != nil {
		return "", helper.NewError("create infobox directory", err)
	}

	paths, err := s.Files()
	if err != nil {
		return "", err
	}
	next := 1
	if len(paths) > 0 {
		m := pageFileRe.FindStringSubmatch(filepath.Base(paths[len(paths)-1]))
		last, _ := strconv.Atoi(m[1])
		next = last + 1
	}

	path := filepath.Join(s.Dir, fmt.Sprintf("infobox_%03d.txt", next))
	content := model.FormatPageFile(page.Title, page.Wikitext)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return "", helper.NewError("write infobox file", err)
	}

	page.Source = path
	return path, nil
}
