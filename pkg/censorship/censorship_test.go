package censorship

import (
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		want    bool
		reasons []Reason
	}{
		{
			name: "posix locale in china",
			opts: []Option{WithEnv(envOf(map[string]string{"LANG": "zh_CN.UTF-8"})), WithTimezone("UTC")},
			want: true, reasons: []Reason{ReasonLocaleRegion},
		},
		{
			name: "bcp47 locale with script",
			opts: []Option{WithLocale("zh-Hans-CN"), WithTimezone("UTC")},
			want: true, reasons: []Reason{ReasonLocaleRegion},
		},
		{
			name: "taiwan locale",
			opts: []Option{WithLocale("zh_TW.UTF-8"), WithTimezone("Asia/Taipei")},
			want: false,
		},
		{
			name: "language without region is undetermined",
			opts: []Option{WithLocale("zh"), WithTimezone("Europe/Berlin")},
			want: false,
		},
		{
			name: "shanghai time zone",
			opts: []Option{WithLocale("en_US.UTF-8"), WithTimezone("Asia/Shanghai")},
			want: true, reasons: []Reason{ReasonTimeZone},
		},
		{
			name: "tz variable with colon prefix",
			opts: []Option{WithLocale("en-US"), WithEnv(envOf(map[string]string{"TZ": ":PRC"}))},
			want: true, reasons: []Reason{ReasonTimeZone},
		},
		{
			name: "both signals",
			opts: []Option{WithLocale("zh_CN"), WithTimezone("Asia/Urumqi")},
			want: true, reasons: []Reason{ReasonLocaleRegion, ReasonTimeZone},
		},
		{
			name: "garbage locale",
			opts: []Option{WithLocale("not a locale!"), WithTimezone("UTC")},
			want: false,
		},
		{
			name: "posix c locale",
			opts: []Option{WithEnv(envOf(map[string]string{"LC_ALL": "C", "TZ": "UTC"}))},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.opts...)
			assert.Equal(t, tt.want, got.Restricted)
			assert.Equal(t, tt.reasons, got.Reasons)
			assert.Equal(t, tt.want, IsRestrictedDevice(tt.opts...))
		})
	}
}

func TestLocalePrecedence(t *testing.T) {
	env := envOf(map[string]string{
		"LC_ALL":      "",
		"LC_MESSAGES": "zh_CN.UTF-8",
		"LANG":        "en_US.UTF-8",
		"TZ":          "UTC",
	})
	got := Detect(WithEnv(env))
	require.True(t, got.Restricted)
	assert.Equal(t, "zh_CN.UTF-8", got.Locale)
	assert.Equal(t, "CN", got.Region)
	assert.Equal(t, "UTC", got.TimeZone)
}

func TestCheck(t *testing.T) {
	check := Check(WithLocale("zh_CN"), WithTimezone("UTC"))
	assert.True(t, check())

	check = Check(WithLocale("en_GB"), WithTimezone("Europe/London"))
	assert.False(t, check())
}

func zoneLink(target string) func(string) (string, error) {
	return func(name string) (string, error) {
		if name != localtimePath || target == "" {
			return "", &fs.PathError{Op: "readlink", Path: name, Err: errors.New("not a symlink")}
		}
		return target, nil
	}
}

func TestSystemTimezone(t *testing.T) {
	noTZ := WithEnv(envOf(map[string]string{}))

	tests := []struct {
		name       string
		target     string
		wantZone   string
		restricted bool
	}{
		{"linux zoneinfo", "/usr/share/zoneinfo/Asia/Shanghai", "Asia/Shanghai", true},
		{"relative link", "../usr/share/zoneinfo/Asia/Urumqi", "Asia/Urumqi", true},
		{"macos", "/var/db/timezone/zoneinfo/Europe/Berlin", "Europe/Berlin", false},
		{"posix subtree", "/usr/share/zoneinfo/posix/PRC", "PRC", true},
		{"unreadable falls back to time.Local", "", time.Local.String(), false},
		{"link outside zoneinfo", "/opt/zones/custom", time.Local.String(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(WithLocale("en_US.UTF-8"), noTZ, WithZoneLink(zoneLink(tt.target)))
			assert.Equal(t, tt.wantZone, got.TimeZone)
			if tt.restricted {
				assert.Equal(t, []Reason{ReasonTimeZone}, got.Reasons)
			}
		})
	}
}

func TestTZOverridesZoneLink(t *testing.T) {
	got := Detect(
		WithLocale("en_US"),
		WithEnv(envOf(map[string]string{"TZ": ":/usr/share/zoneinfo/Asia/Harbin"})),
		WithZoneLink(zoneLink("/usr/share/zoneinfo/Europe/Paris")),
	)
	assert.Equal(t, "Asia/Harbin", got.TimeZone)
	assert.True(t, got.Restricted)
}
