// Package i18n loads the message catalogs of the wizard and translates
// message keys for renderers. Catalogs are YAML files laid out as
// locales/<locale>/<namespace>.yaml; German is the base locale and the
// fallback for keys other locales do not define.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-lotse/pkg/render"
)

// BaseLocale is the locale every catalog key must exist in.
const BaseLocale = "de"

// ErrMissingKey is returned when no catalog defines a key.
var ErrMissingKey = errors.New("i18n: missing translation")

//go:embed locales/*/*.yaml
var embeddedLocales embed.FS

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// Bundle holds the messages of every loaded locale.
type Bundle struct {
	messages map[string]map[string]string
	tags     []language.Tag
	locales  []string
	matcher  language.Matcher
	catalog  *catalog.Builder

	mu       sync.Mutex
	printers map[string]*message.Printer
}

var _ render.Translator = (*Bundle)(nil)

var (
	defaultOnce   sync.Once
	defaultBundle *Bundle
	defaultErr    error
)

// Default returns the bundle built from the embedded catalogs.
func Default() (*Bundle, error) {
	defaultOnce.Do(func() {
		defaultBundle, defaultErr = Load(embeddedLocales)
	})
	return defaultBundle, defaultErr
}

// EmbeddedFS exposes the embedded catalogs.
func EmbeddedFS() fs.FS {
	return embeddedLocales
}

// Load reads every locales/*/*.yaml file of fsys.
func Load(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("i18n: glob catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, errors.New("i18n: no catalog files found")
	}
	sort.Strings(paths)

	messages := make(map[string]map[string]string)
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", p, err)
		}
		if err := addFile(messages, p, file); err != nil {
			return nil, err
		}
	}
	if _, ok := messages[BaseLocale]; !ok {
		return nil, fmt.Errorf("i18n: base locale %q has no catalog", BaseLocale)
	}
	return newBundle(messages)
}

func addFile(messages map[string]map[string]string, p string, file catalogFile) error {
	locale := strings.TrimSpace(file.Locale)
	if dir := path.Base(path.Dir(p)); locale != dir {
		return fmt.Errorf("i18n: %s: locale %q does not match directory %q", p, locale, dir)
	}
	if namespace := strings.TrimSuffix(path.Base(p), path.Ext(p)); strings.TrimSpace(file.Namespace) != namespace {
		return fmt.Errorf("i18n: %s: namespace %q does not match file name", p, file.Namespace)
	}
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("i18n: %s: locale %q: %w", p, locale, err)
	}

	target, ok := messages[locale]
	if !ok {
		target = make(map[string]string, len(file.Messages))
		messages[locale] = target
	}
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("i18n: %s: blank message key", p)
		}
		if _, dup := target[key]; dup {
			return fmt.Errorf("i18n: %s: duplicate key %q for locale %q", p, key, locale)
		}
		target[key] = value
	}
	return nil
}

func newBundle(messages map[string]map[string]string) (*Bundle, error) {
	locales := make([]string, 0, len(messages))
	for locale := range messages {
		if locale != BaseLocale {
			locales = append(locales, locale)
		}
	}
	sort.Strings(locales)
	// The base locale goes first so the matcher falls back to it.
	locales = append([]string{BaseLocale}, locales...)

	builder := catalog.NewBuilder(catalog.Fallback(language.MustParse(BaseLocale)))
	tags := make([]language.Tag, 0, len(locales))
	for _, locale := range locales {
		tag := language.MustParse(locale)
		tags = append(tags, tag)
		for key, value := range messages[locale] {
			if err := builder.SetString(tag, key, value); err != nil {
				return nil, fmt.Errorf("i18n: register %s/%s: %w", locale, key, err)
			}
		}
	}

	return &Bundle{
		messages: messages,
		tags:     tags,
		locales:  locales,
		matcher:  language.NewMatcher(tags),
		catalog:  builder,
		printers: make(map[string]*message.Printer),
	}, nil
}

// Locales lists the loaded locales, base locale first.
func (b *Bundle) Locales() []string {
	return append([]string(nil), b.locales...)
}

// Match returns the loaded locale closest to the requested ones, such as the
// entries of an Accept-Language header. It falls back to BaseLocale.
func (b *Bundle) Match(requested ...string) string {
	tags := make([]language.Tag, 0, len(requested))
	for _, raw := range requested {
		parsed, _, err := language.ParseAcceptLanguage(raw)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return BaseLocale
	}
	_, index, confidence := b.matcher.Match(tags...)
	if confidence == language.No {
		return BaseLocale
	}
	return b.locales[index]
}

// Has reports whether locale or the base locale define key.
func (b *Bundle) Has(locale, key string) bool {
	_, ok := b.lookup(b.Match(locale), key)
	return ok
}

// Translate resolves key for locale. Arguments are applied with x/text
// formatting, so messages may use verbs such as %d. Keys missing from both
// the locale and the base locale return ErrMissingKey.
func (b *Bundle) Translate(locale, key string, args ...any) (string, error) {
	key = strings.TrimSpace(key)
	resolved := b.Match(locale)
	if _, ok := b.messages[resolved][key]; ok {
		return b.printer(resolved).Sprintf(key, args...), nil
	}
	if _, ok := b.messages[BaseLocale][key]; ok {
		return b.printer(BaseLocale).Sprintf(key, args...), nil
	}
	return "", fmt.Errorf("%w: %q (%s)", ErrMissingKey, key, resolved)
}

// MustTranslate is Translate returning key when it is missing.
func (b *Bundle) MustTranslate(locale, key string, args ...any) string {
	out, err := b.Translate(locale, key, args...)
	if err != nil {
		return key
	}
	return out
}

func (b *Bundle) lookup(locale, key string) (string, bool) {
	if value, ok := b.messages[locale][key]; ok {
		return value, true
	}
	value, ok := b.messages[BaseLocale][key]
	return value, ok
}

func (b *Bundle) printer(locale string) *message.Printer {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.printers[locale]; ok {
		return p
	}
	p := message.NewPrinter(language.MustParse(locale), message.Catalog(b.catalog))
	b.printers[locale] = p
	return p
}
