// Package metadata looks up book information from the Google Books API.
// The repositories never touch the network; callers resolve a volume here
// first and hand the result to the catalog.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ErrVolumeNotFound means the API had no volume for the requested ISBN, or
// only volumes whose ISBN-13 did not actually match it.
var ErrVolumeNotFound = errors.New("volume not found")

// Volume is the book information the catalog needs from the API.
type Volume struct {
	ISBN13        string   `json:"isbn13"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Authors       []string `json:"authors"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"publishedDate"`
	ImageURL      string   `json:"imageUrl"`
}

// Client fetches book metadata from the Google Books API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// NewClient creates a Google Books client with rate limiting.
// baseURL is typically "https://www.googleapis.com/books/v1".
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: newRateLimiter(time.Second), // 1 request per second
	}
}

// Wire format of the volumes endpoint, reduced to the fields we read.
type searchResult struct {
	Items []struct {
		VolumeInfo volumeInfo `json:"volumeInfo"`
	} `json:"items"`
}

type volumeInfo struct {
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Authors             []string `json:"authors"`
	Publisher           string   `json:"publisher"`
	PublishedDate       string   `json:"publishedDate"`
	ImageLinks          struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"imageLinks"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
}

func (v *volumeInfo) isbn13() string {
	for _, id := range v.IndustryIdentifiers {
		if id.Type == "ISBN_13" {
			return id.Identifier
		}
	}
	return ""
}

// LookupISBN resolves a volume by ISBN-13. The API fuzzy-matches, so the
// result's own ISBN-13 must equal the requested one; anything else is
// treated as not found.
func (c *Client) LookupISBN(ctx context.Context, isbn13 string) (*Volume, error) {
	c.rateLimiter.wait()

	url := fmt.Sprintf("%s/volumes?q=isbn:%s", c.baseURL, isbn13)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Bookdeck/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch volume data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result searchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(result.Items) == 0 {
		return nil, ErrVolumeNotFound
	}

	// The isbn: query is unique, first item is the match candidate.
	info := result.Items[0].VolumeInfo
	if info.isbn13() != isbn13 {
		return nil, ErrVolumeNotFound
	}

	return &Volume{
		ISBN13:        isbn13,
		Title:         info.Title,
		Description:   info.Description,
		Authors:       info.Authors,
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		ImageURL:      info.ImageLinks.Thumbnail,
	}, nil
}
