// Package i18n loads the settings screen message catalogs.
//
// Catalogs are YAML files under locales/<tag>/<namespace>.yaml:
//
//	locale: en-US
//	namespace: settings
//	messages:
//	  Core: Core
//
// Keys are the English source strings, so a missing translation prints
// the key itself.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the source locale every catalog set must define.
const BaseLocale = "en-US"

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// Bundle holds the messages of every loaded locale.
type Bundle struct {
	tags     []language.Tag
	messages map[string]map[string]string
	builder  *catalog.Builder
	matcher  language.Matcher
}

// LoadEmbedded loads the catalogs compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFS(embeddedFS)
}

// MustLoadEmbedded is LoadEmbedded for program initialization.
func MustLoadEmbedded() *Bundle {
	b, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	return b
}

// LoadFS loads catalogs from fsys.
func LoadFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	base := language.MustParse(BaseLocale)
	b := &Bundle{
		messages: map[string]map[string]string{},
		builder:  catalog.NewBuilder(catalog.Fallback(base)),
	}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		if err := b.add(p, data); err != nil {
			return nil, err
		}
	}
	if _, ok := b.messages[base.String()]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}

	// Base locale first so the matcher falls back to it.
	b.tags = append(b.tags, base)
	locales := make([]string, 0, len(b.messages))
	for locale := range b.messages {
		if locale != base.String() {
			locales = append(locales, locale)
		}
	}
	sort.Strings(locales)
	for _, locale := range locales {
		b.tags = append(b.tags, language.MustParse(locale))
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

func (b *Bundle) add(p string, data []byte) error {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse catalog %s: %w", p, err)
	}

	localeFromPath := path.Base(path.Dir(p))
	locale := strings.TrimSpace(file.Locale)
	if locale == "" {
		return fmt.Errorf("catalog %s: locale is required", p)
	}
	if locale != localeFromPath {
		return fmt.Errorf("catalog %s: locale %q must match path locale %q", p, locale, localeFromPath)
	}
	namespace := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if strings.TrimSpace(file.Namespace) != namespace {
		return fmt.Errorf("catalog %s: namespace %q must match filename namespace %q", p, file.Namespace, namespace)
	}
	if file.Messages == nil {
		return fmt.Errorf("catalog %s: messages map is required", p)
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("catalog %s: parse locale %q: %w", p, locale, err)
	}
	messages, ok := b.messages[tag.String()]
	if !ok {
		messages = map[string]string{}
		b.messages[tag.String()] = messages
	}
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", p)
		}
		if _, exists := messages[key]; exists {
			return fmt.Errorf("catalog %s: duplicate key %q in locale %q", p, key, locale)
		}
		messages[key] = value
		if err := b.builder.SetString(tag, key, value); err != nil {
			return fmt.Errorf("catalog %s: register %q: %w", p, key, err)
		}
	}
	return nil
}

// ParseLocale parses a BCP 47 tag or a POSIX locale name such as
// "zh_CN.UTF-8" or "de_DE@euro". The C and POSIX locales name no language
// and are rejected.
func ParseLocale(name string) (language.Tag, error) {
	locale := strings.TrimSpace(name)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "" || locale == "C" || locale == "POSIX" {
		return language.Und, fmt.Errorf("locale %q names no language", name)
	}
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("parse locale %q: %w", name, err)
	}
	return tag, nil
}

// Tags returns the loaded locales, base locale first.
func (b *Bundle) Tags() []language.Tag {
	return append([]language.Tag(nil), b.tags...)
}

// Match returns the loaded locale closest to tag.
func (b *Bundle) Match(tag language.Tag) language.Tag {
	_, index, _ := b.matcher.Match(tag)
	return b.tags[index]
}

// Printer returns a printer for the loaded locale closest to tag.
func (b *Bundle) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(b.Match(tag), message.Catalog(b.builder))
}

// Message returns the translation of key for the loaded locale closest to
// tag, falling back to the base locale.
func (b *Bundle) Message(tag language.Tag, key string) (string, bool) {
	if value, ok := b.messages[b.Match(tag).String()][key]; ok {
		return value, true
	}
	value, ok := b.messages[BaseLocale][key]
	return value, ok
}
