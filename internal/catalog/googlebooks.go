package catalog

import (
	"context"
	"fmt"

	books "google.golang.org/api/books/v1"
	"google.golang.org/api/option"

	"book-tracker/internal/models"
)

// GoogleBooks wyszukuje w Google Books API (volumes.list)
type GoogleBooks struct {
	svc        *books.Service
	maxResults int64
}

// NewGoogleBooks tworzy klienta Google Books; klucz API jest opcjonalny
func NewGoogleBooks(ctx context.Context, apiKey string, opts ...option.ClientOption) (*GoogleBooks, error) {
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	} else {
		opts = append(opts, option.WithoutAuthentication())
	}

	svc, err := books.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("błąd inicjalizacji Google Books: %w", err)
	}

	return &GoogleBooks{svc: svc, maxResults: 20}, nil
}

// Search wyszukuje po tytule (intitle:) lub autorze (inauthor:), sortując po trafności
func (g *GoogleBooks) Search(ctx context.Context, term string, mode Mode) ([]models.CatalogItem, error) {
	q := "intitle:" + term
	if mode == ModeAuthor {
		q = "inauthor:" + term
	}

	res, err := g.svc.Volumes.List(q).
		OrderBy("relevance").
		MaxResults(g.maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("błąd wyszukiwania w Google Books: %w", err)
	}

	items := make([]models.CatalogItem, 0, len(res.Items))
	for _, v := range res.Items {
		if v == nil {
			continue
		}
		items = append(items, volumeToItem(v))
	}

	return items, nil
}

func volumeToItem(v *books.Volume) models.CatalogItem {
	item := models.CatalogItem{ID: v.Id}

	info := v.VolumeInfo
	if info == nil {
		return item
	}

	item.Title = info.Title
	item.Authors = info.Authors
	item.PublishedDate = info.PublishedDate
	item.PageCount = int(info.PageCount)
	item.Description = info.Description

	if info.ImageLinks != nil {
		item.ImageLinks = &models.ImageLinks{
			SmallThumbnail: info.ImageLinks.SmallThumbnail,
			Thumbnail:      info.ImageLinks.Thumbnail,
		}
	}

	return item
}
