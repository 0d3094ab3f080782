package config

// Cratefile represents the structure of the crate.yaml configuration file.
type Cratefile struct {
	Version   string                 `yaml:"version"`
	Toolchain string                 `yaml:"toolchain"`
	Release   bool                   `yaml:"release"`
	BuildDir  string                 `yaml:"buildDir"`
	LdScript  string                 `yaml:"ldscript"`
	MapFile   bool                   `yaml:"mapFile"`
	Output    string                 `yaml:"output"`
	Platforms map[string]PlatformDTO `yaml:"platforms"`
}

// PlatformDTO represents a platform entry in the configuration.
type PlatformDTO struct {
	Objects []string `yaml:"objects"`
}
