package scrapers

import (
	"time"
)

// WildberriesConfig holds Wildberries scraper configuration.
type WildberriesConfig struct {
	BaseURL        string        // used to resolve relative seller links
	UserAgent      string        // browser user agent sent with every request
	AcceptLanguage string        // Accept-Language header
	Timeout        time.Duration // per request timeout
}

// DefaultWildberriesConfig returns a WildberriesConfig with sensible defaults
func DefaultWildberriesConfig() WildberriesConfig {
	return WildberriesConfig{
		BaseURL:        "https://www.wildberries.ru",
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/137.0.0.0 Safari/537.36",
		AcceptLanguage: "ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7",
		Timeout:        10 * time.Second,
	}
}

// WithBaseURL sets the base URL and returns the config for chaining
func (c WildberriesConfig) WithBaseURL(baseURL string) WildberriesConfig {
	c.BaseURL = baseURL
	return c
}

// WithUserAgent sets the User-Agent header value
func (c WildberriesConfig) WithUserAgent(ua string) WildberriesConfig {
	c.UserAgent = ua
	return c
}

// WithTimeout sets the request timeout
func (c WildberriesConfig) WithTimeout(timeout time.Duration) WildberriesConfig {
	c.Timeout = timeout
	return c
}
