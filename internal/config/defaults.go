package config

// DefaultConfig returns configuration with sensible defaults. These are
// used when no config file exists or when fields are missing.
func DefaultConfig() *Config {
	return &Config{
		Gen: GenConfig{
			HeaderExt:         ".hpp",
			RequireDefinition: false,
			Output:            "out.cpp",
		},
		Compile: CompileConfig{
			BuildDir:  "build",
			StripArgs: nil,
		},
		Cache: CacheConfig{
			Disabled: false,
		},
	}
}

// Merge merges loaded config with defaults. Values from the loaded config
// take precedence; zero values fall back to defaults. The boolean fields
// (gen.require_definition off, cache.enabled on) are chosen so that the
// YAML zero value matches the default, which keeps merging honest.
func Merge(loaded, defaults *Config) *Config {
	result := &Config{}

	result.Gen = loaded.Gen
	if result.Gen.HeaderExt == "" {
		result.Gen.HeaderExt = defaults.Gen.HeaderExt
	}
	if result.Gen.Output == "" {
		result.Gen.Output = defaults.Gen.Output
	}

	result.Compile = loaded.Compile
	if result.Compile.BuildDir == "" {
		result.Compile.BuildDir = defaults.Compile.BuildDir
	}
	if len(result.Compile.StripArgs) == 0 {
		result.Compile.StripArgs = defaults.Compile.StripArgs
	}

	result.Cache = loaded.Cache

	return result
}
