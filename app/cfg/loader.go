package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// eBay configuration
	EbayOAuthToken string `long:"ebay-oauth-token" env:"EBAY_OAUTH_TOKEN" description:"eBay OAuth token"`
	EbayAppID      string `long:"ebay-app-id" env:"EBAY_APP_ID" description:"eBay application ID"`
	EbayAPIURL     string `long:"ebay-api-url" env:"EBAY_API_URL" default:"https://svcs.ebay.com/services/search/FindingService/v1" description:"eBay Finding service endpoint"`

	// Todoist configuration
	TodoistToken   string `long:"todoist-token" env:"TODOIST_TOKEN" description:"Todoist API token"`
	TodoistProject string `long:"todoist-project" env:"TODOIST_PROJECT" description:"Todoist project ID for created tasks (optional)"`
	TodoistAPIURL  string `long:"todoist-api-url" env:"TODOIST_API_URL" default:"https://api.todoist.com/rest/v2" description:"Todoist REST API base URL"`

	// Search configuration
	MaxTimeRemaining int      `long:"max-time-remaining" env:"MAX_TIME_REMAINING" description:"Only auctions ending within this many seconds are turned into tasks"`
	QueriesDir       string   `long:"queries-dir" env:"QUERIES_DIR" default:"store/item_queries" description:"Directory containing saved search definitions"`
	Regions          []string `long:"region" env:"REGIONS" env-delim:"," description:"Region codes to search (repeatable, defaults to the European list)"`

	// Ledger configuration
	LedgerBackend string `long:"ledger" env:"LEDGER_BACKEND" default:"file" choice:"file" choice:"sqlite" choice:"redis" description:"Used item ledger backend"`
	LedgerPath    string `long:"ledger-path" env:"LEDGER_PATH" default:"store/items.txt" description:"Ledger file for the file backend"`
	DBPath        string `long:"db-path" env:"DB_PATH" default:"store/dealsteal.db" description:"Database file for the sqlite backend"`
	RedisURL      string `long:"redis-url" env:"REDIS_URL" default:"redis://localhost:6379/0" description:"Redis URL for the redis backend"`
	RedisKey      string `long:"redis-key" env:"REDIS_KEY" default:"dealsteal:used_items" description:"Redis set holding used item IDs"`

	// Application metadata
	HTTPTimeout int    `long:"http-timeout" env:"HTTP_TIMEOUT" default:"30" description:"HTTP client timeout in seconds"`
	UserAgent   string `long:"user-agent" env:"USER_AGENT" default:"DealSteal/1.0" description:"User agent string for HTTP requests"`
	LogFormat   string `long:"log-format" env:"LOG_FORMAT" default:"color" choice:"color" choice:"text" choice:"json" description:"Log output format"`
	Debug       bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
	DryRun      bool   `long:"dry-run" env:"DRY_RUN" description:"Search and format tasks without submitting them"`
}

// Load reads the optional .env file named by ENV_FILE (default ".env"), then
// parses args and the environment. It returns the positional arguments left
// after option parsing. A nil Cfg with a nil error means help was shown.
func Load(args []string) (*Cfg, []string, error) {
	envFile := cmp.Or(os.Getenv("ENV_FILE"), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)
	parser.Usage = "[OPTIONS] [run | projects | get-task ID | delete-task ID]"

	rest, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil, nil
			}
		}
		return nil, nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		EbayOAuthToken:   raw.EbayOAuthToken,
		EbayAppID:        raw.EbayAppID,
		EbayAPIURL:       raw.EbayAPIURL,
		TodoistToken:     raw.TodoistToken,
		TodoistProject:   raw.TodoistProject,
		TodoistAPIURL:    strings.TrimRight(raw.TodoistAPIURL, "/"),
		MaxTimeRemaining: time.Duration(raw.MaxTimeRemaining) * time.Second,
		QueriesDir:       raw.QueriesDir,
		Regions:          normalizeRegions(raw.Regions),
		LedgerBackend:    raw.LedgerBackend,
		LedgerPath:       raw.LedgerPath,
		DBPath:           raw.DBPath,
		RedisURL:         raw.RedisURL,
		RedisKey:         raw.RedisKey,
		HTTPTimeout:      time.Duration(raw.HTTPTimeout) * time.Second,
		UserAgent:        raw.UserAgent,
		LogFormat:        raw.LogFormat,
		Debug:            raw.Debug,
		DryRun:           raw.DryRun,
		Version:          GetVersion(),
	}

	return cfg, rest, nil
}

// Validate reports every required option missing for the given command.
func (c *Cfg) Validate(command string) error {
	var missing []string

	switch command {
	case CommandRun:
		if c.EbayOAuthToken == "" {
			missing = append(missing, "EBAY_OAUTH_TOKEN")
		}
		if c.EbayAppID == "" {
			missing = append(missing, "EBAY_APP_ID")
		}
		if c.TodoistToken == "" && !c.DryRun {
			missing = append(missing, "TODOIST_TOKEN")
		}
		if c.MaxTimeRemaining <= 0 {
			missing = append(missing, "MAX_TIME_REMAINING")
		}
	case CommandProjects, CommandGetTask, CommandDeleteTask:
		if c.TodoistToken == "" {
			missing = append(missing, "TODOIST_TOKEN")
		}
	default:
		return fmt.Errorf("unknown command %q", command)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP timeout must be positive")
	}

	return nil
}

func normalizeRegions(regions []string) []string {
	var out []string
	for _, r := range regions {
		r = strings.ToUpper(strings.TrimSpace(r))
		if r != "" {
			out = append(out, r)
		}
	}
	return out
}
