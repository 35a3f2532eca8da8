package config

const (
	defaultViewportWidth  = 800
	defaultViewportHeight = 600

	defaultPumpBatch = 32

	defaultHistoryMaxEntries = 10000
)

// setDefaults registers every key with its default so partial config files
// and environment overrides compose cleanly.
func (m *Manager) setDefaults() {
	m.viper.SetDefault("viewport.width", defaultViewportWidth)
	m.viper.SetDefault("viewport.height", defaultViewportHeight)
	m.viper.SetDefault("viewport.scale_factor", 1.0)

	m.viper.SetDefault("pump.batch_size", defaultPumpBatch)

	m.viper.SetDefault("history.enabled", true)
	m.viper.SetDefault("history.max_entries", defaultHistoryMaxEntries)

	m.viper.SetDefault("logging.level", "info")
	m.viper.SetDefault("logging.format", "console")

	m.viper.SetDefault("homepage", "about:blank")
}
