// Package censorship decides whether the running device is subject to the
// regional restriction that hides the Taiwan flag emoji.
//
// The decision is a local heuristic over the locale region and the local
// time zone. Inputs that cannot be read count as unrestricted.
package censorship

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-drift/settings/pkg/i18n"
	"golang.org/x/text/language"
)

// localtimePath is the symlink naming the system time zone when TZ is unset.
const localtimePath = "/etc/localtime"

// restrictedRegion is the locale region that marks a restricted device.
var restrictedRegion = language.MustParseRegion("CN")

// restrictedZones are the IANA names of mainland China time zones.
var restrictedZones = map[string]bool{
	"Asia/Shanghai":  true,
	"Asia/Chongqing": true,
	"Asia/Chungking": true,
	"Asia/Harbin":    true,
	"Asia/Urumqi":    true,
	"PRC":            true,
}

// localeVars are consulted in POSIX precedence order.
var localeVars = []string{"LC_ALL", "LC_MESSAGES", "LANG"}

// Reason names one signal that marked the device restricted.
type Reason string

const (
	ReasonLocaleRegion Reason = "locale-region"
	ReasonTimeZone     Reason = "time-zone"
)

// Result is the outcome of Detect.
type Result struct {
	Restricted bool
	// Locale is the locale the region was read from, empty if none.
	Locale string
	// Region is the locale's region, empty if undetermined.
	Region string
	// TimeZone is the IANA zone name that was checked.
	TimeZone string
	Reasons  []Reason
}

type options struct {
	locale   string
	timezone string
	lookup   func(string) (string, bool)
	readlink func(string) (string, error)
}

// Option configures a detection.
type Option func(*options)

// WithLocale sets the locale instead of reading the environment.
func WithLocale(locale string) Option {
	return func(o *options) {
		o.locale = locale
	}
}

// WithTimezone sets the IANA time zone name instead of reading TZ and
// /etc/localtime.
func WithTimezone(name string) Option {
	return func(o *options) {
		o.timezone = name
	}
}

// WithEnv replaces os.LookupEnv.
func WithEnv(lookup func(string) (string, bool)) Option {
	return func(o *options) {
		if lookup != nil {
			o.lookup = lookup
		}
	}
}

// WithZoneLink replaces os.Readlink for resolving /etc/localtime.
func WithZoneLink(readlink func(string) (string, error)) Option {
	return func(o *options) {
		if readlink != nil {
			o.readlink = readlink
		}
	}
}

// IsRestrictedDevice reports whether the device is restricted.
func IsRestrictedDevice(opts ...Option) bool {
	return Detect(opts...).Restricted
}

// Check returns IsRestrictedDevice bound to opts, in the shape of a
// settings.DeviceCheck.
func Check(opts ...Option) func() bool {
	return func() bool {
		return IsRestrictedDevice(opts...)
	}
}

// Detect evaluates every signal and returns the reasons that matched.
func Detect(opts ...Option) Result {
	o := options{lookup: os.LookupEnv, readlink: os.Readlink}
	for _, opt := range opts {
		opt(&o)
	}

	var res Result
	res.Locale = o.locale
	if res.Locale == "" {
		res.Locale = envLocale(o.lookup)
	}
	if region, ok := localeRegion(res.Locale); ok {
		res.Region = region.String()
		if region == restrictedRegion {
			res.Reasons = append(res.Reasons, ReasonLocaleRegion)
		}
	}

	res.TimeZone = o.timezone
	if res.TimeZone == "" {
		res.TimeZone = localTimezone(o.lookup, o.readlink)
	}
	if restrictedZones[res.TimeZone] {
		res.Reasons = append(res.Reasons, ReasonTimeZone)
	}

	res.Restricted = len(res.Reasons) > 0
	return res
}

func envLocale(lookup func(string) (string, bool)) string {
	for _, name := range localeVars {
		if value, ok := lookup(name); ok && value != "" {
			return value
		}
	}
	return ""
}

// localTimezone returns the IANA name of the local zone: TZ if set, else
// the zoneinfo target of /etc/localtime, else time.Local's name.
func localTimezone(lookup func(string) (string, bool), readlink func(string) (string, error)) string {
	if tz, ok := lookup("TZ"); ok && tz != "" {
		tz = strings.TrimPrefix(tz, ":")
		if name, ok := zoneFromPath(tz); ok {
			return name
		}
		return tz
	}
	if target, err := readlink(localtimePath); err == nil {
		if name, ok := zoneFromPath(target); ok {
			return name
		}
	}
	return time.Local.String()
}

// zoneFromPath extracts "Asia/Shanghai" from paths such as
// /usr/share/zoneinfo/Asia/Shanghai or ../usr/share/zoneinfo/posix/PRC.
func zoneFromPath(p string) (string, bool) {
	const marker = "zoneinfo/"
	p = filepath.ToSlash(p)
	i := strings.LastIndex(p, marker)
	if i < 0 {
		return "", false
	}
	name := p[i+len(marker):]
	for _, prefix := range []string{"posix/", "right/"} {
		name = strings.TrimPrefix(name, prefix)
	}
	return name, name != ""
}

// localeRegion returns the explicit region of a POSIX or BCP 47 locale such
// as "zh_CN.UTF-8" or "zh-Hans-CN". A locale without a region is
// undetermined; the region is not inferred from the language.
func localeRegion(locale string) (language.Region, bool) {
	tag, err := i18n.ParseLocale(locale)
	if err != nil {
		return language.Region{}, false
	}
	region, confidence := tag.Region()
	if confidence != language.Exact {
		return language.Region{}, false
	}
	return region, true
}
