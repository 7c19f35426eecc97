package config

const (
	defaultConfigPath      = "~/.config/innkeeper/config.toml"
	projectConfigName      = "innkeeper.toml"
	defaultMaxContainerMiB = 64
	defaultMaxTextMiB      = 16
	defaultKeyword         = "chara"
	defaultLibraryWorkers  = 4
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"

	maxContainerMiBLimit = 4096
	maxTextMiBLimit      = 1024
	maxLibraryWorkers    = 256
)

var defaultExtensions = []string{".png", ".json"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Parser: Parser{
			MaxContainerMiB: defaultMaxContainerMiB,
			MaxTextMiB:      defaultMaxTextMiB,
			Keywords:        []string{defaultKeyword},
		},
		Library: Library{
			Workers:    defaultLibraryWorkers,
			Extensions: append([]string(nil), defaultExtensions...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
