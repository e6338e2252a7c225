package scrapers

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"wb-parser-bot/internal/logger"
	"wb-parser-bot/internal/model"

	"github.com/andybalholm/brotli"
)

// Scraper downloads a product page and extracts a product card from it.
type Scraper interface {
	ParseProduct(ctx context.Context, url string) (*model.Product, error)
}

// WildberriesScraper implements the Scraper interface.
type WildberriesScraper struct {
	cfg    WildberriesConfig
	client *http.Client
	logger logger.Logger
}

var _ Scraper = (*WildberriesScraper)(nil)

// NewWildberriesScraper constructs a new WildberriesScraper.
func NewWildberriesScraper(cfg WildberriesConfig, logger logger.Logger) *WildberriesScraper {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultWildberriesConfig().Timeout
	}
	return &WildberriesScraper{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// ParseProduct fetches the page at url and extracts the product card.
// Any missing required element fails the whole call; no partial product is returned.
func (s *WildberriesScraper) ParseProduct(ctx context.Context, url string) (*model.Product, error) {
	start := time.Now()

	html, err := s.Fetch(ctx, url)
	if err != nil {
		s.logger.Warnf("Fetch failed for %s: %v", url, err)
		return nil, err
	}

	product, err := Extract(html, s.cfg.BaseURL)
	if err != nil {
		s.logger.Warnf("Extraction failed for %s: %v", url, err)
		return nil, err
	}
	product.URL = url

	s.logger.Infof("Parsed product %s (%d characteristics, %d images) in %s",
		product.ID, len(product.Characteristics), len(product.Images), time.Since(start))
	return product, nil
}

// Fetch performs an HTTP GET request and returns the decoded page body.
func (s *WildberriesScraper) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to build request: %v", ErrNetwork, err)
	}

	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept-Language", s.cfg.AcceptLanguage)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to make request: %v", ErrNetwork, err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			s.logger.Errorf("Failed to close response body: %v", err)
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: received non-2xx status: %d", ErrNetwork, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response body: %v", ErrNetwork, err)
	}

	data, err := decodeBody(resp.Header.Get("Content-Encoding"), raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	s.logger.Debugf("Fetched %s: status %d, %d bytes", url, resp.StatusCode, len(data))
	return string(data), nil
}

// decodeBody undoes the Content-Encoding applied by the server.
func decodeBody(encoding string, raw []byte) ([]byte, error) {
	var reader io.Reader
	switch encoding {
	case "gzip":
		gzReader, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		reader = gzReader
	case "br":
		reader = brotli.NewReader(bytes.NewReader(raw))
	case "deflate":
		// RFC 9110 deflate is zlib-wrapped, but some servers send raw DEFLATE.
		zReader, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			flateReader := flate.NewReader(bytes.NewReader(raw))
			defer flateReader.Close()
			reader = flateReader
		} else {
			defer zReader.Close()
			reader = zReader
		}
	default:
		return raw, nil
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s body: %w", encoding, err)
	}
	return data, nil
}
