package source

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/siherrmann/wikigrapher/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wikiPages = map[string]string{
	"Elrond":  "'''Elrond''' was...\n{{Infobox character\n| name = Elrond\n| spouse = [[Celebrían]]\n}}\nMore.",
	"Arda":    "Arda is the world.",
	"Broken":  "{{Infobox character\n| name = Broken",
	"Glorfin": "{{infobox character | name = Glorfindel}}",
}

func newWikiServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		w.Header().Set("Content-Type", "application/json")

		switch query.Get("action") {
		case "query":
			var response map[string]any
			if query.Get("apcontinue") == "" {
				response = map[string]any{
					"continue": map[string]string{"apcontinue": "Broken", "continue": "-||"},
					"query":    map[string]any{"allpages": []map[string]any{{"pageid": 1, "title": "Arda"}}},
				}
			} else {
				response = map[string]any{
					"query": map[string]any{"allpages": []map[string]any{
						{"pageid": 2, "title": "Broken"},
						{"pageid": 3, "title": "Elrond"},
						{"pageid": 4, "title": "Missing"},
						{"pageid": 5, "title": "Glorfin"},
					}},
				}
			}
			_ = json.NewEncoder(w).Encode(response)
		case "parse":
			text, ok := wikiPages[query.Get("page")]
			if !ok {
				_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"code": "missingtitle", "info": "The page you specified doesn't exist."}})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"parse": map[string]any{"title": query.Get("page"), "wikitext": text}})
		default:
			http.Error(w, "bad action", http.StatusBadRequest)
		}
	}))
}

func TestFileStore(t *testing.T) {
	t.Run("Valid call Save and Load", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "infoboxes"), nil)

		for _, title := range []string{"Elrond", "Arwen", "Aragorn"} {
			_, err := store.Save(model.NewPage(title, "{{Infobox character | name = "+title+"}}\n", "test"))
			require.NoError(t, err, "Expected Save to not return an error")
		}

		paths, err := store.Files()
		require.NoError(t, err)
		require.Len(t, paths, 3)
		assert.Equal(t, "infobox_001.txt", filepath.Base(paths[0]))
		assert.Equal(t, "infobox_003.txt", filepath.Base(paths[2]))

		pages, err := store.Load()
		require.NoError(t, err, "Expected Load to not return an error")
		require.Len(t, pages, 3)
		assert.Equal(t, "Elrond", pages[0].Title)
		assert.Equal(t, "Aragorn", pages[2].Title)
		assert.Contains(t, pages[1].Wikitext, "name = Arwen")
	})

	t.Run("Files are ordered by number", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"infobox_1000.txt", "infobox_002.txt", "infobox_010.txt", "notes.txt"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--- "+name+" ---\n"), 0600))
		}

		paths, err := NewFileStore(dir, nil).Files()
		require.NoError(t, err)
		require.Len(t, paths, 3, "Expected unrelated files to be ignored")
		assert.Equal(t, "infobox_002.txt", filepath.Base(paths[0]))
		assert.Equal(t, "infobox_1000.txt", filepath.Base(paths[2]))

		path, err := NewFileStore(dir, nil).Save(model.NewPage("Next", "", "test"))
		require.NoError(t, err)
		assert.Equal(t, "infobox_1001.txt", filepath.Base(path))
	})

	t.Run("Missing directory", func(t *testing.T) {
		_, err := NewFileStore(filepath.Join(t.TempDir(), "missing"), nil).Load()
		assert.Error(t, err)
	})
}

func TestMediaWikiClient(t *testing.T) {
	server := newWikiServer(t)
	defer server.Close()

	client, err := NewMediaWikiClient(server.URL+"/api.php", "wikigrapher-test/1.0", 0, nil)
	require.NoError(t, err, "Expected NewMediaWikiClient to not return an error")

	t.Run("Valid call AllPages follows continuation", func(t *testing.T) {
		titles, err := client.AllPages(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"Arda", "Broken", "Elrond", "Missing", "Glorfin"}, titles)
	})

	t.Run("AllPages stops at limit", func(t *testing.T) {
		titles, err := client.AllPages(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"Arda", "Broken"}, titles)
	})

	t.Run("Valid call Wikitext", func(t *testing.T) {
		text, err := client.Wikitext(context.Background(), "Elrond")
		require.NoError(t, err)
		assert.Equal(t, wikiPages["Elrond"], text)
	})

	t.Run("Missing page", func(t *testing.T) {
		_, err := client.Wikitext(context.Background(), "Missing")
		assert.True(t, errors.Is(err, ErrPageMissing), "Expected ErrPageMissing, got %v", err)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := client.Wikitext(ctx, "Elrond")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Invalid endpoint", func(t *testing.T) {
		_, err := NewMediaWikiClient("not a url", "ua", 0, nil)
		assert.Error(t, err)
	})
}

func TestFetch(t *testing.T) {
	server := newWikiServer(t)
	defer server.Close()

	client, err := NewMediaWikiClient(server.URL+"/api.php", "wikigrapher-test/1.0", 0, nil)
	require.NoError(t, err)
	store := NewFileStore(t.TempDir(), nil)

	result, err := Fetch(context.Background(), client, store, 0, nil)
	require.NoError(t, err, "Expected Fetch to not return an error")
	assert.Equal(t, &FetchResult{Titles: 5, Saved: 2, NoInfobox: 2, Failed: 1}, result)

	pages, err := store.Load()
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "Elrond", pages[0].Title)
	assert.Equal(t, "{{Infobox character\n| name = Elrond\n| spouse = [[Celebrían]]\n}}\n", pages[0].Wikitext, "Expected only the infobox block to be stored")
	assert.Equal(t, "Glorfin", pages[1].Title)
}
