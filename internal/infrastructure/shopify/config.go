package shopify

import (
	"errors"
	"fmt"
)

// Config validation errors
var (
	ErrConfigMissingShopDomain  = errors.New("shopify: config missing shop domain")
	ErrConfigMissingAccessToken = errors.New("shopify: config missing access token")
)

const (
	defaultAPIVersion     = "2024-01"
	defaultTimeoutSeconds = 30
	defaultPageSize       = 100
)

// Config holds Shopify Admin API connection settings
type Config struct {
	// ShopDomain is the myshopify.com domain, e.g. "acme.myshopify.com"
	ShopDomain string
	// AccessToken is the Admin API access token
	AccessToken string
	// APIVersion is the Admin API version, e.g. "2024-01"
	APIVersion string
	// APIBaseURL overrides the derived base URL; used in tests
	APIBaseURL string
	// TimeoutSeconds is the HTTP client timeout
	TimeoutSeconds int
	// PageSize is the page-size limit for paginated catalog fetches
	PageSize int
	// Enabled indicates whether the integration is active
	Enabled bool
	// EnableBulkImport selects the asynchronous bulk export strategy
	EnableBulkImport bool
}

// Validate validates the configuration and applies defaults. Credentials
// are only required when the integration is enabled; a disabled client may
// be constructed but its requests will fail.
func (c *Config) Validate() error {
	if c.Enabled {
		if c.ShopDomain == "" {
			return ErrConfigMissingShopDomain
		}
		if c.AccessToken == "" {
			return ErrConfigMissingAccessToken
		}
	}
	if c.APIVersion == "" {
		c.APIVersion = defaultAPIVersion
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = fmt.Sprintf("https://%s", c.ShopDomain)
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.PageSize <= 0 {
		c.PageSize = defaultPageSize
	}
	return nil
}

// apiURL builds an Admin API endpoint URL for the configured version
func (c *Config) apiURL(resource string) string {
	return fmt.Sprintf("%s/admin/api/%s/%s", c.APIBaseURL, c.APIVersion, resource)
}
