// Package domain contains the core models of a cargo build node: platforms, profiles,
// toolchain flags, package manifests and the task declaration handed to the host engine.
package domain

import (
	"slices"

	"go.trai.ch/zerr"
)

// Platform identifies a watch hardware platform.
type Platform string

// Known platforms.
const (
	Aplite  Platform = "aplite"
	Basalt  Platform = "basalt"
	Chalk   Platform = "chalk"
	Diorite Platform = "diorite"
)

// String returns the platform identifier.
func (p Platform) String() string {
	return string(p)
}

// Target is the cross-compilation target selected for a platform.
type Target struct {
	// Triple is the target triple understood by the compiler (e.g. "thumbv7em-none-eabi").
	Triple string
	// CPU is the CPU variant passed as the target-cpu codegen option.
	CPU string
}

var platformTargets = map[Platform]Target{
	Aplite:  {Triple: "thumbv7m-none-eabi", CPU: "cortex-m3"},
	Basalt:  {Triple: "thumbv7em-none-eabi", CPU: "cortex-m4"},
	Chalk:   {Triple: "thumbv7em-none-eabi", CPU: "cortex-m4"},
	Diorite: {Triple: "thumbv7em-none-eabi", CPU: "cortex-m4"},
}

// ResolvePlatform maps a platform identifier to its compilation target.
// Unknown identifiers fail with ErrUnrecognizedPlatform; there is no fallback target.
func ResolvePlatform(name string) (Platform, Target, error) {
	p := Platform(name)
	target, ok := platformTargets[p]
	if !ok {
		return "", Target{}, zerr.With(zerr.Wrap(ErrUnrecognizedPlatform, "cannot select target"), "platform", name)
	}
	return p, target, nil
}

// Platforms returns every known platform in lexical order.
func Platforms() []Platform {
	out := make([]Platform, 0, len(platformTargets))
	for p := range platformTargets {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
