package domain

// Project is the loaded crate.yaml: what to build and for which platforms.
type Project struct {
	// Root is the absolute project directory.
	Root string
	// Toolchain is the build tool executable.
	Toolchain string
	// Release is the configured release selector.
	Release bool
	// BuildDir receives node outputs, relative to Root.
	BuildDir string
	// LinkerScript is an absolute path; empty when the link uses the toolchain default.
	LinkerScript string
	// MapFile requests a linker symbol map next to each output.
	MapFile bool
	// Output is the artifact file name inside {BuildDir}/{platform}; empty means "<package>.elf".
	Output string
	// Platforms lists the configured platforms in lexical order.
	Platforms []PlatformConfig
}

// PlatformConfig is the per-platform part of the project.
type PlatformConfig struct {
	Platform Platform
	// Objects are absolute paths of upstream object files linked into the artifact, in link order.
	Objects []string
}

// PlatformConfig returns the configuration for p.
func (p *Project) PlatformConfig(platform Platform) (PlatformConfig, bool) {
	for _, pc := range p.Platforms {
		if pc.Platform == platform {
			return pc, true
		}
	}
	return PlatformConfig{}, false
}
