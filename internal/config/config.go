// Package config holds the process-wide configuration read once at
// startup. Values come from viper, which layers defaults, the optional
// config file and bound environment variables.
package config

import (
	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// GoogleBooksAPIKey is the API key for the Google Books volumes API.
	// Empty means keyless requests at Google's reduced quota.
	GoogleBooksAPIKey string
	// GoogleBooksURL is the Google Books API base URL.
	GoogleBooksURL string
	// OpenLibraryURL is the OpenLibrary API base URL.
	OpenLibraryURL string
	// GoogleBooksKeyParam is the parameter store name holding the Google
	// Books API key, used when no key is configured directly.
	GoogleBooksKeyParam string
	// ParamsURL is the parameter store endpoint; empty disables it.
	ParamsURL string
	// ParamsToken authenticates parameter store requests.
	ParamsToken string
	// ParamsLabel scopes parameter store reads to one environment.
	ParamsLabel string
	// ServerAddr is the HTTP facade listen address.
	ServerAddr string
	// ProviderRate caps outbound provider requests per second made on
	// behalf of HTTP callers.
	ProviderRate int
)

// InitConfig initializes the global configuration from viper.
func InitConfig() {
	// Set default values
	viper.SetDefault("googlebooks.url", "https://www.googleapis.com")
	viper.SetDefault("googlebooks.keyparam", "/zana/googlebooks/api-key")
	viper.SetDefault("openlibrary.url", "https://openlibrary.org")
	viper.SetDefault("params.label", "prod")
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.provider_rate", 4)

	// Get values from viper
	GoogleBooksAPIKey = viper.GetString("googlebooks.apikey")
	GoogleBooksURL = viper.GetString("googlebooks.url")
	GoogleBooksKeyParam = viper.GetString("googlebooks.keyparam")
	OpenLibraryURL = viper.GetString("openlibrary.url")
	ParamsURL = viper.GetString("params.url")
	ParamsToken = viper.GetString("params.token")
	ParamsLabel = viper.GetString("params.label")
	ServerAddr = viper.GetString("server.addr")
	ProviderRate = viper.GetInt("server.provider_rate")
}
