package source

import (
	"context"
	"errors"
	"log/slog"

	"github.com/siherrmann/wikigrapher/core/wikitext"
	"github.com/siherrmann/wikigrapher/helper"
	"github.com/siherrmann/wikigrapher/model"
)

// FetchResult counts the outcome of a fetch.
type FetchResult struct {
	Titles    int
	Saved     int
	NoInfobox int
	Failed    int
}

// Fetch lists up to limit pages, downloads their wikitext and saves the
// infobox block of every page that has one.
func Fetch(ctx context.Context, client *MediaWikiClient, store *FileStore, limit int, logger *slog.Logger) (*FetchResult, error) {
	if logger == nil {
		logger = slog.Default()
	}

	titles, err := client.AllPages(ctx, limit)
	if err != nil {
		return nil, helper.NewError("list pages", err)
	}

	result := &FetchResult{Titles: len(titles)}
	for i, title := range titles {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		text, err := client.Wikitext(ctx, title)
		if err != nil {
			result.Failed++
			logger.Warn("Failed to fetch wikitext", slog.String("title", title), slog.String("error", err.Error()))
			continue
		}

		block, err := wikitext.ExtractBlock(text, wikitext.InfoboxMarker)
		if errors.Is(err, wikitext.ErrBlockNotFound) || errors.Is(err, wikitext.ErrBlockUnbalanced) {
			result.NoInfobox++
			logger.Debug("No infobox", slog.String("title", title), slog.Int("index", i+1))
			continue
		}

		path, err := store.Save(model.NewPage(title, block+"\n", client.endpoint))
		if err != nil {
			return result, err
		}
		result.Saved++
		logger.Info("Saved infobox", slog.String("title", title), slog.String("file", path), slog.Int("index", i+1), slog.Int("total", len(titles)))
	}

	return result, nil
}
