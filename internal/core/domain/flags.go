package domain

import (
	"fmt"
	"slices"
	"strings"
)

// FlagsEnvVar is the environment variable through which the toolchain reads extra compiler flags.
const FlagsEnvVar = "RUSTFLAGS"

const (
	codegenKey = "-C"
	cfgKey     = "--cfg"
)

// Flag is one compiler or linker directive.
// Keys starting with "--" render as a single "key=value" token, others as "key value".
type Flag struct {
	Key   string
	Value string
}

// Args returns the command-line tokens for the flag.
func (f Flag) Args() []string {
	if strings.HasPrefix(f.Key, "--") {
		return []string{f.Key + "=" + f.Value}
	}
	return []string{f.Key, f.Value}
}

// String returns the flag as it appears in the flags variable.
func (f Flag) String() string {
	return strings.Join(f.Args(), " ")
}

// FlagSet is an ordered, immutable list of toolchain flags.
// Later entries may override earlier ones in the toolchain, so order is significant.
type FlagSet struct {
	flags []Flag
}

// NewFlagSet builds a FlagSet from the given flags, copying them.
func NewFlagSet(flags ...Flag) FlagSet {
	return FlagSet{flags: slices.Clone(flags)}
}

// Flags returns a copy of the flags in composition order.
func (s FlagSet) Flags() []Flag {
	return slices.Clone(s.flags)
}

// Len returns the number of flags.
func (s FlagSet) Len() int {
	return len(s.flags)
}

// Args returns every flag's tokens, in order.
func (s FlagSet) Args() []string {
	args := make([]string, 0, 2*len(s.flags))
	for _, f := range s.flags {
		args = append(args, f.Args()...)
	}
	return args
}

// String joins the flags with single spaces, the format expected in FlagsEnvVar.
func (s FlagSet) String() string {
	return strings.Join(s.Args(), " ")
}

// Env returns the flags as a "KEY=VALUE" environment entry.
func (s FlagSet) Env() string {
	return FlagsEnvVar + "=" + s.String()
}

// FlagOptions are the inputs to ComposeFlags.
type FlagOptions struct {
	Profile  Profile
	Platform Platform
	Target   Target
	// LinkerScript is the absolute path of the linker script; empty to omit.
	LinkerScript string
	// MapFile is the absolute path of the linker symbol map to emit; empty to omit.
	MapFile string
	// Objects are absolute paths of upstream object files, in the order they were produced.
	Objects []string
}

// ComposeFlags builds the flag set for one node.
//
// Order: fixed flags, profile flags, platform flags, symbol map, linker script, objects.
// Objects come last so that the linker sees them after everything else and they can
// shadow default library symbols.
func ComposeFlags(opts FlagOptions) FlagSet {
	flags := []Flag{
		codegen("relocation-model=pie"),
		codegen("codegen-units=1"),
		linkArg("--gc-sections"),
		linkArg("--build-id=sha1"),
		linkArg("--emit-relocs"),
	}

	if opts.Profile.IsRelease() {
		flags = append(flags, codegen("opt-level=z"), codegen("debuginfo=1"))
	} else {
		flags = append(flags, codegen("opt-level=0"), codegen("debuginfo=2"))
	}

	flags = append(flags, Flag{Key: cfgKey, Value: fmt.Sprintf("pebble_sdk_platform=%q", opts.Platform.String())})
	if opts.Target.CPU != "" {
		flags = append(flags, codegen("target-cpu="+opts.Target.CPU))
	}

	if opts.MapFile != "" {
		flags = append(flags, linkArg("-Map="+opts.MapFile))
	}
	if opts.LinkerScript != "" {
		flags = append(flags, linkArg("-T"+opts.LinkerScript))
	}
	for _, obj := range opts.Objects {
		flags = append(flags, linkArg(obj))
	}

	return FlagSet{flags: flags}
}

func codegen(opt string) Flag {
	return Flag{Key: codegenKey, Value: opt}
}

func linkArg(arg string) Flag {
	return codegen("link-arg=" + arg)
}
