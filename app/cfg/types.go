package cfg

import "time"

const (
	CommandRun        = "run"
	CommandProjects   = "projects"
	CommandGetTask    = "get-task"
	CommandDeleteTask = "delete-task"
)

type Cfg struct {
	// eBay Finding API
	EbayOAuthToken string
	EbayAppID      string
	EbayAPIURL     string

	// Todoist REST API
	TodoistToken   string
	TodoistProject string
	TodoistAPIURL  string

	// Search settings
	MaxTimeRemaining time.Duration
	QueriesDir       string
	Regions          []string

	// Used item ledger
	LedgerBackend string
	LedgerPath    string
	DBPath        string
	RedisURL      string
	RedisKey      string

	// Application metadata
	HTTPTimeout time.Duration
	UserAgent   string
	LogFormat   string
	Debug       bool
	DryRun      bool
	Version     string
}
