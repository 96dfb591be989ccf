package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"book-tracker/internal/models"
)

const searchFields = "key,title,author_name,first_publish_year,number_of_pages_median,cover_i"

// OpenLibrary wyszukuje w Open Library (search.json) z limitem żądań i ponawianiem
type OpenLibrary struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	coversURL  string
	limiter    *rate.Limiter
	maxRetries int
	limit      int
}

// NewOpenLibrary tworzy klienta Open Library
func NewOpenLibrary(userAgent string, rps int, maxRetries int) *OpenLibrary {
	if rps <= 0 {
		rps = 1
	}
	return &OpenLibrary{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent:  userAgent,
		baseURL:    "https://openlibrary.org",
		coversURL:  "https://covers.openlibrary.org",
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
		limit:      20,
	}
}

// WithBaseURL zmienia adres API (np. w testach)
func (c *OpenLibrary) WithBaseURL(baseURL string) *OpenLibrary {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// searchResponse odpowiada search.json
type searchResponse struct {
	NumFound int `json:"numFound"`
	Docs     []struct {
		Key              string   `json:"key"`
		Title            string   `json:"title"`
		AuthorNames      []string `json:"author_name"`
		FirstPublishYear int      `json:"first_publish_year"`
		Pages            int      `json:"number_of_pages_median"`
		CoverID          int      `json:"cover_i"`
	} `json:"docs"`
}

// Search wyszukuje po tytule lub autorze
func (c *OpenLibrary) Search(ctx context.Context, term string, mode Mode) ([]models.CatalogItem, error) {
	param := "title"
	if mode == ModeAuthor {
		param = "author"
	}

	u := fmt.Sprintf("%s/search.json?%s=%s&fields=%s&limit=%d",
		c.baseURL, param, url.QueryEscape(term), searchFields, c.limit)

	var res searchResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, fmt.Errorf("błąd wyszukiwania w Open Library: %w", err)
	}

	items := make([]models.CatalogItem, 0, len(res.Docs))
	for _, doc := range res.Docs {
		item := models.CatalogItem{
			ID:        strings.TrimPrefix(doc.Key, "/works/"),
			Title:     doc.Title,
			Authors:   doc.AuthorNames,
			PageCount: doc.Pages,
		}
		if doc.FirstPublishYear > 0 {
			item.PublishedDate = strconv.Itoa(doc.FirstPublishYear)
		}
		if doc.CoverID > 0 {
			item.ImageLinks = &models.ImageLinks{
				SmallThumbnail: fmt.Sprintf("%s/b/id/%d-S.jpg", c.coversURL, doc.CoverID),
				Thumbnail:      fmt.Sprintf("%s/b/id/%d-M.jpg", c.coversURL, doc.CoverID),
			}
		}
		items = append(items, item)
	}

	return items, nil
}

func (c *OpenLibrary) get(ctx context.Context, url string, target interface{}) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retry, err := c.do(ctx, url, target)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("po %d próbach: %w", c.maxRetries, lastErr)
}

func (c *OpenLibrary) do(ctx context.Context, url string, target interface{}) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("nieoczekiwany kod odpowiedzi: %d", resp.StatusCode)
		return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500, err
	}

	return false, json.NewDecoder(resp.Body).Decode(target)
}
