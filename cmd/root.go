// Package cmd wires the provider clients into a CLI with two commands:
// a one-shot lookup and the HTTP facade.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/zanabooks/zana/internal/books"
	"github.com/zanabooks/zana/internal/config"
	"github.com/zanabooks/zana/internal/googlebooks"
	"github.com/zanabooks/zana/internal/openlibrary"
	"github.com/zanabooks/zana/internal/params"
	"github.com/zanabooks/zana/internal/server"
)

// CLI represents the complete command structure for the zana binary.
type CLI struct {
	// Global flags
	Verbose bool `help:"Enable debug logging"`

	Lookup LookupCmd `cmd:"" help:"Look up one book and print it as JSON"`
	Serve  ServeCmd  `cmd:"" help:"Serve the lookup API over HTTP"`
}

// LookupCmd looks up a single book against one provider.
type LookupCmd struct {
	ISBN     string `help:"ISBN to look up"`
	Author   string `help:"Author for free-text lookup"`
	Title    string `help:"Title for free-text lookup"`
	Provider string `help:"Provider to query" default:"googlebooks" enum:"googlebooks,openlibrary"`
}

// ServeCmd runs the HTTP facade.
type ServeCmd struct {
	Addr string `help:"Listen address (defaults to server.addr from config)"`
}

// Execute runs the Kong-based CLI.
func Execute() {
	initLogging(slog.LevelInfo)
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("zana"),
		kong.Description("Normalized book metadata from third-party catalog APIs."),
		kong.UsageOnError(),
	)

	if cli.Verbose {
		initLogging(slog.LevelDebug)
	}

	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	// A local .env file is optional and only a convenience for development.
	_ = godotenv.Load(".env.local")

	viper.AutomaticEnv()
	bindings := map[string]string{
		"googlebooks.apikey": "GOOGLE_BOOKS_API_KEY",
		"params.url":         "PARAMS_URL",
		"params.token":       "AWS_SESSION_TOKEN",
		"params.label":       "ZANA_ENV",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			slog.Error("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Debug("Config file not found, using defaults and environment")
		} else {
			slog.Error("Fatal error reading config file", "error", err)
			os.Exit(1)
		}
	}

	// Initialize global config
	config.InitConfig()
}

func initLogging(level slog.Level) {
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}

// newClients builds one client per provider on a shared HTTP transport.
func newClients(ctx context.Context) map[string]books.Client {
	httpClient := books.NewHTTPClient()

	return map[string]books.Client{
		"googlebooks": googlebooks.NewClient(googleBooksAPIKey(ctx),
			googlebooks.WithBaseURL(config.GoogleBooksURL),
			googlebooks.WithHTTPClient(httpClient)),
		"openlibrary": openlibrary.NewClient(
			openlibrary.WithBaseURL(config.OpenLibraryURL),
			openlibrary.WithHTTPClient(httpClient)),
	}
}

// googleBooksAPIKey resolves the API key: directly configured value
// first, then the parameter store when one is configured. A failed
// fetch degrades to keyless requests instead of aborting.
func googleBooksAPIKey(ctx context.Context) string {
	if config.GoogleBooksAPIKey != "" {
		return config.GoogleBooksAPIKey
	}
	if config.ParamsURL == "" {
		return ""
	}

	store := params.NewAWSStore(config.ParamsURL, config.ParamsToken, config.ParamsLabel)
	key, err := store.Parameter(ctx, config.GoogleBooksKeyParam, true)
	if err != nil {
		slog.Warn("Google Books API key unavailable from parameter store, continuing keyless", "error", err)
		return ""
	}
	return key
}

// Run methods for each command

func (l *LookupCmd) Run() error {
	if l.ISBN == "" && (l.Author == "" || l.Title == "") {
		return fmt.Errorf("either --isbn or both --author and --title are required")
	}

	ctx := context.Background()
	client := newClients(ctx)[l.Provider]

	var book *books.Book
	var err error
	switch {
	case l.ISBN != "":
		book, err = client.BookByISBN(ctx, l.ISBN)
		// Fall back to the free-text lookup when the ISBN finds nothing
		// and the caller supplied the backup fields.
		if books.IsNotFound(err) && l.Author != "" && l.Title != "" {
			book, err = client.BookByAuthorTitle(ctx, l.Author, l.Title)
		}
	default:
		book, err = client.BookByAuthorTitle(ctx, l.Author, l.Title)
	}
	if err != nil {
		return fmt.Errorf("%s lookup: %w", l.Provider, err)
	}

	out, err := json.MarshalIndent(book, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func (s *ServeCmd) Run() error {
	addr := s.Addr
	if addr == "" {
		addr = config.ServerAddr
	}

	srv := server.New(newClients(context.Background()), config.ProviderRate)
	return srv.Run(addr)
}
