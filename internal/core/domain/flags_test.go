package domain_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.trai.ch/crate/internal/core/domain"
)

func composeFor(t *testing.T, platform string, profile domain.Profile, ldscript string, objects ...string) domain.FlagSet {
	t.Helper()
	p, target, err := domain.ResolvePlatform(platform)
	require.NoError(t, err)
	return domain.ComposeFlags(domain.FlagOptions{
		Profile:      profile,
		Platform:     p,
		Target:       target,
		LinkerScript: ldscript,
		Objects:      objects,
	})
}

func TestComposeFlags_FixedFlagsInEveryProfile(t *testing.T) {
	fixed := []string{
		"-C relocation-model=pie",
		"-C link-arg=--build-id=sha1",
		"-C link-arg=--gc-sections",
	}
	for _, profile := range []domain.Profile{domain.ProfileDebug, domain.ProfileRelease} {
		t.Run(profile.String(), func(t *testing.T) {
			rendered := flagStrings(composeFor(t, "basalt", profile, ""))
			for _, f := range fixed {
				require.Contains(t, rendered, f)
			}
		})
	}
}

func TestComposeFlags_ProfileDifferences(t *testing.T) {
	debug := flagStrings(composeFor(t, "basalt", domain.ProfileDebug, ""))
	release := flagStrings(composeFor(t, "basalt", domain.ProfileRelease, ""))

	require.Contains(t, debug, "-C opt-level=0")
	require.Contains(t, release, "-C opt-level=z")
	require.NotContains(t, release, "-C opt-level=0")

	require.Contains(t, debug, "-C debuginfo=2")
	require.NotContains(t, release, "-C debuginfo=2")
	require.Contains(t, release, "-C debuginfo=1")
}

func TestComposeFlags_ObjectsLastInOrder(t *testing.T) {
	objects := []string{"/b/basalt/z.o", "/b/basalt/a.o", "/b/basalt/m.o"}
	set := composeFor(t, "basalt", domain.ProfileRelease, "/p/pebble_app.ld", objects...)
	rendered := flagStrings(set)

	tail := rendered[len(rendered)-len(objects):]
	want := []string{
		"-C link-arg=/b/basalt/z.o",
		"-C link-arg=/b/basalt/a.o",
		"-C link-arg=/b/basalt/m.o",
	}
	if diff := cmp.Diff(want, tail); diff != "" {
		t.Errorf("object flags mismatch (-want +got):\n%s", diff)
	}

	// The linker script comes right before the objects, after every platform/profile flag.
	require.Equal(t, "-C link-arg=-T/p/pebble_app.ld", rendered[len(rendered)-len(objects)-1])
	cfgIdx := slices.Index(rendered, `--cfg=pebble_sdk_platform="basalt"`)
	require.GreaterOrEqual(t, cfgIdx, 0)
	require.Less(t, cfgIdx, len(rendered)-len(objects)-1)
}

func TestComposeFlags_PlatformsDifferOnlyInPlatformFlags(t *testing.T) {
	aplite := flagStrings(composeFor(t, "aplite", domain.ProfileRelease, "/p/pebble_app.ld", "/b/shim.o"))
	basalt := flagStrings(composeFor(t, "basalt", domain.ProfileRelease, "/p/pebble_app.ld", "/b/shim.o"))

	require.Len(t, basalt, len(aplite))

	var differing [][2]string
	for i := range aplite {
		if aplite[i] != basalt[i] {
			differing = append(differing, [2]string{aplite[i], basalt[i]})
		}
	}

	want := [][2]string{
		{`--cfg=pebble_sdk_platform="aplite"`, `--cfg=pebble_sdk_platform="basalt"`},
		{"-C target-cpu=cortex-m3", "-C target-cpu=cortex-m4"},
	}
	if diff := cmp.Diff(want, differing); diff != "" {
		t.Errorf("platform flag differences mismatch (-want +got):\n%s", diff)
	}
}

func TestComposeFlags_MapFile(t *testing.T) {
	p, target, err := domain.ResolvePlatform("chalk")
	require.NoError(t, err)
	set := domain.ComposeFlags(domain.FlagOptions{
		Profile:      domain.ProfileDebug,
		Platform:     p,
		Target:       target,
		MapFile:      "/b/chalk/hello.map",
		LinkerScript: "/p/pebble_app.ld",
	})
	rendered := flagStrings(set)
	mapIdx := slices.Index(rendered, "-C link-arg=-Map=/b/chalk/hello.map")
	require.GreaterOrEqual(t, mapIdx, 0)
	require.Equal(t, "-C link-arg=-T/p/pebble_app.ld", rendered[mapIdx+1])
}

func TestFlagSet_Rendering(t *testing.T) {
	set := domain.NewFlagSet(
		domain.Flag{Key: "-C", Value: "opt-level=z"},
		domain.Flag{Key: "--cfg", Value: `pebble_sdk_platform="diorite"`},
	)

	require.Equal(t, []string{"-C", "opt-level=z", `--cfg=pebble_sdk_platform="diorite"`}, set.Args())
	require.Equal(t, `-C opt-level=z --cfg=pebble_sdk_platform="diorite"`, set.String())
	require.Equal(t, `RUSTFLAGS=-C opt-level=z --cfg=pebble_sdk_platform="diorite"`, set.Env())
	require.False(t, strings.Contains(set.String(), "  "))
}

func TestFlagSet_FlagsReturnsCopy(t *testing.T) {
	set := composeFor(t, "basalt", domain.ProfileDebug, "")
	flags := set.Flags()
	flags[0] = domain.Flag{Key: "-C", Value: "relocation-model=static"}
	require.Equal(t, "-C relocation-model=pie", set.Flags()[0].String())
}

func flagStrings(set domain.FlagSet) []string {
	flags := set.Flags()
	out := make([]string, len(flags))
	for i, f := range flags {
		out[i] = f.String()
	}
	return out
}
