package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries every startup setting. It is built once in main and passed
// down explicitly; nothing reads the environment after Load returns.
type Config struct {
	BotToken string

	LedgerBackend   string
	SpreadsheetID   string
	WorksheetName   string
	CredentialsJSON string
	CredentialsFile string
	SupabaseURL     string
	SupabaseKey     string
	SupabaseTable   string

	Categories []string

	// BaseURL switches delivery from long polling to a registered webhook.
	BaseURL string
	Port    string
}

var defaultCategories = []string{
	"Food", "Household", "Rent", "Entertainment", "Alco",
	"Clothing", "Cosmetics", "Taxes", "Meds", "Travel",
}

func Load() (*Config, error) {
	// A .env file is optional; deployed environments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:        os.Getenv("BOT_TOKEN"),
		LedgerBackend:   getEnv("LEDGER_BACKEND", "sheets"),
		SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
		WorksheetName:   getEnv("WORKSHEET_NAME", "Sheet1"),
		CredentialsJSON: os.Getenv("GOOGLE_CREDENTIALS_JSON"),
		CredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseKey:     os.Getenv("SUPABASE_KEY"),
		SupabaseTable:   getEnv("SUPABASE_TABLE", "expenses"),
		Categories:      splitCategories(os.Getenv("CATEGORIES")),
		BaseURL:         strings.TrimRight(strings.TrimSpace(os.Getenv("BASE_URL")), "/"),
		Port:            getEnv("PORT", "8080"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting the chosen setup needs is present.
// Any problem here is fatal at startup.
func (c *Config) Validate() error {
	var problems []string

	if c.BotToken == "" {
		problems = append(problems, "BOT_TOKEN is required")
	}

	switch c.LedgerBackend {
	case "sheets":
		if c.SpreadsheetID == "" {
			problems = append(problems, "SPREADSHEET_ID is required for the sheets backend")
		}
		if c.CredentialsJSON == "" && c.CredentialsFile == "" {
			problems = append(problems, "GOOGLE_CREDENTIALS_JSON or GOOGLE_CREDENTIALS_FILE is required for the sheets backend")
		}
	case "supabase":
		if c.SupabaseURL == "" {
			problems = append(problems, "SUPABASE_URL is required for the supabase backend")
		}
		if c.SupabaseKey == "" {
			problems = append(problems, "SUPABASE_KEY is required for the supabase backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown ledger backend %q (want sheets or supabase)", c.LedgerBackend))
	}

	if len(c.Categories) == 0 {
		problems = append(problems, "CATEGORIES must name at least one category")
	}

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %q", c.Port))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration invalid:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Credentials returns the service account JSON, reading the file variant
// when the inline one is absent.
func (c *Config) Credentials() ([]byte, error) {
	if c.CredentialsJSON != "" {
		return []byte(c.CredentialsJSON), nil
	}
	data, err := os.ReadFile(c.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	return data, nil
}

// splitCategories parses the comma-separated override, falling back to the
// default set when it is absent.
func splitCategories(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return append([]string(nil), defaultCategories...)
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
