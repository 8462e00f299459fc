package main

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-drift/settings/pkg/settings"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thediveo/enumflag/v2"
)

// platformIdentifiers lists the accepted --platform names. The first name
// of each platform is the canonical one.
var platformIdentifiers = map[settings.Platform][]string{
	settings.PlatformPhone:   {"phone", "ios", "android", "mobile"},
	settings.PlatformDesktop: {"desktop", "macos", "darwin", "linux", "windows"},
	settings.PlatformTV:      {"tv", "tvos"},
}

func platformNames() string {
	names := make([]string, 0, len(platformIdentifiers))
	for _, p := range settings.Platforms() {
		names = append(names, platformIdentifiers[p][0])
	}
	return strings.Join(names, ", ")
}

// definePlatform binds a settings.Platform field to a case-insensitive
// enum flag.
func definePlatform(descr string, fieldValue reflect.Value) (pflag.Value, string) {
	fieldPtr := fieldValue.Addr().Interface().(*settings.Platform)
	value := enumflag.New(fieldPtr, "platform", platformIdentifiers, enumflag.EnumCaseInsensitive)
	return value, fmt.Sprintf("%s (%s)", descr, platformNames())
}

func decodePlatform(input any) (any, error) {
	s, ok := input.(string)
	if !ok {
		return input, nil
	}
	p, ok := settings.ParsePlatform(s)
	if !ok {
		return nil, fmt.Errorf("unknown platform %q (available: %s)", s, platformNames())
	}
	return p, nil
}

// platformOverride returns the --platform value if it was given.
func platformOverride(c *cobra.Command, p settings.Platform) *settings.Platform {
	if !c.Flags().Changed("platform") {
		return nil
	}
	return &p
}
