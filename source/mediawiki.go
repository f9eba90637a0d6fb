package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/siherrmann/wikigrapher/helper"
)

// ErrPageMissing is returned for a title the wiki does not know.
var ErrPageMissing = errors.New("page missing")

// MediaWikiClient reads page lists and wikitext from a MediaWiki api.php
// endpoint. All requests share one rate limit.
type MediaWikiClient struct {
	endpoint  string
	collector *colly.Collector
	logger    *slog.Logger
}

// NewMediaWikiClient creates a client that waits delay between requests.
func NewMediaWikiClient(endpoint string, userAgent string, delay time.Duration, logger *slog.Logger) (*MediaWikiClient, error) {
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, helper.NewError("parse api url", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	collector := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
	)
	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Delay:       delay,
		Parallelism: 1,
	}); err != nil {
		return nil, helper.NewError("set rate limit", err)
	}

	return &MediaWikiClient{endpoint: endpoint, collector: collector, logger: logger}, nil
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type allPagesResponse struct {
	Error    *apiError         `json:"error"`
	Continue map[string]string `json:"continue"`
	Query    struct {
		AllPages []struct {
			PageID int64  `json:"pageid"`
			Title  string `json:"title"`
		} `json:"allpages"`
	} `json:"query"`
}

type parseResponse struct {
	Error *apiError `json:"error"`
	Parse struct {
		Title    string `json:"title"`
		Wikitext string `json:"wikitext"`
	} `json:"parse"`
}

// AllPages lists page titles of the main namespace and follows continuation
// until limit titles are collected. A limit below one lists everything.
func (c *MediaWikiClient) AllPages(ctx context.Context, limit int) ([]string, error) {
	var titles []string
	params := url.Values{
		"action":  {"query"},
		"list":    {"allpages"},
		"aplimit": {"500"},
		"format":  {"json"},
	}
	if limit > 0 && limit < 500 {
		params.Set("aplimit", strconv.Itoa(limit))
	}

	for {
		var response allPagesResponse
		if err := c.get(ctx, params, &response); err != nil {
			return titles, err
		}
		if response.Error != nil {
			return titles, fmt.Errorf("list pages: %s: %s", response.Error.Code, response.Error.Info)
		}

		for _, page := range response.Query.AllPages {
			titles = append(titles, page.Title)
			if limit > 0 && len(titles) >= limit {
				return titles, nil
			}
		}

		next, ok := response.Continue["apcontinue"]
		if !ok || next == "" {
			return titles, nil
		}
		params.Set("apcontinue", next)
		c.logger.Debug("Continue page list", slog.String("apcontinue", next), slog.Int("titles", len(titles)))
	}
}

// Wikitext returns the raw wikitext of title.
func (c *MediaWikiClient) Wikitext(ctx context.Context, title string) (string, error) {
	params := url.Values{
		"action":        {"parse"},
		"page":          {title},
		"prop":          {"wikitext"},
		"format":        {"json"},
		"formatversion": {"2"},
	}

	var response parseResponse
	if err := c.get(ctx, params, &response); err != nil {
		return "", err
	}
	if response.Error != nil {
		if response.Error.Code == "missingtitle" {
			return "", helper.NewError(fmt.Sprintf("parse %q", title), ErrPageMissing)
		}
		return "", fmt.Errorf("parse %q: %s: %s", title, response.Error.Code, response.Error.Info)
	}
	return response.Parse.Wikitext, nil
}

func (c *MediaWikiClient) get(ctx context.Context, params url.Values, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// clones share the rate limit and the http backend of the base collector
	collector := c.collector.Clone()

	var body []byte
	var responseErr error
	collector.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			responseErr = fmt.Errorf("HTTP %d: %w", r.StatusCode, err)
			return
		}
		responseErr = err
	})

	if err := collector.Visit(c.endpoint + "?" + params.Encode()); err != nil && responseErr == nil {
		responseErr = err
	}
	if responseErr != nil {
		return helper.NewError("request mediawiki api", responseErr)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return helper.NewError("decode mediawiki response", err)
	}
	return nil
}
