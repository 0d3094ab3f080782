package domain

// Profile is the build profile chosen once per invocation.
type Profile int

const (
	// ProfileDebug keeps full debug info and disables optimization.
	ProfileDebug Profile = iota
	// ProfileRelease optimizes for size.
	ProfileRelease
)

// ProfileFor returns the profile selected by the release switch.
func ProfileFor(release bool) Profile {
	if release {
		return ProfileRelease
	}
	return ProfileDebug
}

// String returns the profile name, which is also the toolchain's output directory name.
func (p Profile) String() string {
	if p == ProfileRelease {
		return "release"
	}
	return "debug"
}

// IsRelease reports whether p is the release profile.
func (p Profile) IsRelease() bool {
	return p == ProfileRelease
}
