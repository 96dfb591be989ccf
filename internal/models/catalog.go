package models

// ImageLinks to okładki zwrócone przez katalog (każda może być pusta)
type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

// CatalogItem to surowy wynik wyszukiwania w zewnętrznym katalogu
type CatalogItem struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Authors       []string    `json:"authors,omitempty"`
	PublishedDate string      `json:"publishedDate,omitempty"`
	PageCount     int         `json:"pageCount,omitempty"`
	Description   string      `json:"description,omitempty"`
	ImageLinks    *ImageLinks `json:"imageLinks,omitempty"`
}
