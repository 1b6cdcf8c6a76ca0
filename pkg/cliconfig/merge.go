package cliconfig

// MergeConfig merges source config into target, updating sources tracking.
// Non-zero values are applied; booleans and seed lists are applied when
// SetFields says the key was present, so a file can disable a surface.
func MergeConfig(target, source *Config, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}
	set := func(key string) { target.Sources[key] = sourceType }

	if isSet(source, "memo.enabled") {
		target.Memo.Enabled = source.Memo.Enabled
		set("memo.enabled")
	}
	if source.Memo.Port != 0 {
		target.Memo.Port = source.Memo.Port
		set("memo.port")
	}
	if isSet(source, "memo.seed") || len(source.Memo.Seed) > 0 {
		target.Memo.Seed = source.Memo.Seed
		set("memo.seed")
	}

	if isSet(source, "inventory.enabled") {
		target.Inventory.Enabled = source.Inventory.Enabled
		set("inventory.enabled")
	}
	if source.Inventory.Port != 0 {
		target.Inventory.Port = source.Inventory.Port
		set("inventory.port")
	}
	if isSet(source, "inventory.seedItems") || len(source.Inventory.SeedItems) > 0 {
		target.Inventory.SeedItems = source.Inventory.SeedItems
		set("inventory.seedItems")
	}
	if isSet(source, "inventory.seedUsers") || len(source.Inventory.SeedUsers) > 0 {
		target.Inventory.SeedUsers = source.Inventory.SeedUsers
		set("inventory.seedUsers")
	}

	if source.Log.Level != "" {
		target.Log.Level = source.Log.Level
		set("log.level")
	}
	if source.Log.Format != "" {
		target.Log.Format = source.Log.Format
		set("log.format")
	}
	if source.Log.File != "" {
		target.Log.File = source.Log.File
		set("log.file")
	}

	if source.MaxBodyBytes != 0 {
		target.MaxBodyBytes = source.MaxBodyBytes
		set("maxBodyBytes")
	}
	if source.ReadTimeout != 0 {
		target.ReadTimeout = source.ReadTimeout
		set("readTimeout")
	}
	if source.WriteTimeout != 0 {
		target.WriteTimeout = source.WriteTimeout
		set("writeTimeout")
	}
	if source.ShutdownTimeout != 0 {
		target.ShutdownTimeout = source.ShutdownTimeout
		set("shutdownTimeout")
	}
	if source.ConfigFile != "" {
		target.ConfigFile = source.ConfigFile
	}
}

// isSet reports whether key was present in the source. Without SetFields
// (a programmatic config) booleans fall back to merging only true values.
func isSet(cfg *Config, key string) bool {
	if cfg.SetFields != nil {
		return cfg.SetFields[key]
	}
	switch key {
	case "memo.enabled":
		return cfg.Memo.Enabled
	case "inventory.enabled":
		return cfg.Inventory.Enabled
	}
	return false
}
