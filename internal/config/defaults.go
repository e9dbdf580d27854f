package config

const (
	defaultConfigPath         = "~/.config/folio/config.toml"
	defaultDatabasePath       = "~/.local/share/folio/catalog.db"
	defaultBusyTimeoutMS      = 5000
	defaultLogDir             = "~/.local/share/folio/logs"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultPlaceholderTitleID = 73
)

// Category names accepted in policy pairs.
var categoryNames = []string{"novel", "novella", "anthology", "collection", "omnibus"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Database: Database{
			Path:          defaultDatabasePath,
			BusyTimeoutMS: defaultBusyTimeoutMS,
		},
		Dedupe: Dedupe{
			PlaceholderTitleID: defaultPlaceholderTitleID,
			ConvertISBNs:       true,
			Constrain:          true,
		},
		Policy: Policy{
			DisownPairs: []string{
				"novella:omnibus",
				"novel:novella",
			},
			ExactTitlePairs: []string{
				"novel:anthology",
				"novel:collection",
				"novel:omnibus",
				"novella:anthology",
				"novella:collection",
			},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			Dir:    defaultLogDir,
		},
	}
}
