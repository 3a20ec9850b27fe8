package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Client queries a Google-Books-style volumes API for book metadata.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a catalog client with the given configuration.
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient := &http.Client{
		Timeout: config.Timeout,
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// SearchByISBN looks up volumes matching the given ISBN.
func (c *Client) SearchByISBN(ctx context.Context, isbn string) ([]Book, error) {
	return c.search(ctx, fmt.Sprintf("isbn:%s", isbn))
}

// SearchByTitle looks up volumes by free-text query.
func (c *Client) SearchByTitle(ctx context.Context, query string) ([]Book, error) {
	return c.search(ctx, query)
}

func (c *Client) search(ctx context.Context, query string) ([]Book, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(c.config.MaxResults))
	if c.config.Country != "" {
		params.Set("country", c.config.Country)
	}

	endpoint := fmt.Sprintf("%s/volumes?%s", c.config.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrBadResponse, resp.StatusCode)
	}

	var volumes volumesResponse
	if err := json.Unmarshal(body, &volumes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal volumes response: %w", err)
	}

	books := make([]Book, 0, len(volumes.Items))
	for _, item := range volumes.Items {
		books = append(books, normalizeVolume(item))
	}
	return books, nil
}

// normalizeVolume flattens a raw volume into a Book. The ISBN-13 identifier
// wins over ISBN-10; multiple authors collapse into one comma-joined string.
func normalizeVolume(v volume) Book {
	info := v.VolumeInfo

	var isbn10, isbn13 string
	for _, id := range info.IndustryIdentifiers {
		switch id.Type {
		case "ISBN_13":
			if isbn13 == "" {
				isbn13 = id.Identifier
			}
		case "ISBN_10":
			if isbn10 == "" {
				isbn10 = id.Identifier
			}
		}
	}
	isbn := isbn13
	if isbn == "" {
		isbn = isbn10
	}

	var thumbnail string
	if info.ImageLinks != nil {
		thumbnail = info.ImageLinks.Thumbnail
	}

	return Book{
		ISBN:          isbn,
		Title:         info.Title,
		Author:        strings.Join(info.Authors, ", "),
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		Thumbnail:     thumbnail,
		Description:   info.Description,
	}
}
