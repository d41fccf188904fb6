package i18n

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-lotse/pkg/model"
	"github.com/goliatone/go-lotse/pkg/render"
)

func TestDefaultBundleTranslates(t *testing.T) {
	t.Parallel()

	bundle, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if diff := cmp.Diff([]string{"de", "en"}, bundle.Locales()); diff != "" {
		t.Fatalf("locales mismatch (-want +got):\n%s", diff)
	}

	cases := []struct {
		locale string
		key    string
		want   string
	}{
		{"de", "form.lotse.button.next", "Weiter"},
		{"en", "form.lotse.button.next", "Next"},
		{"en-GB", "form.lotse.button.back", "Back"},
		{"fr", "form.lotse.button.back", "Zurück"},
		{"", "form.lotse.familienstand.title", "Familienstand"},
	}
	for _, tc := range cases {
		got, err := bundle.Translate(tc.locale, tc.key)
		if err != nil {
			t.Fatalf("Translate(%q, %q): %v", tc.locale, tc.key, err)
		}
		if got != tc.want {
			t.Fatalf("Translate(%q, %q) = %q, want %q", tc.locale, tc.key, got, tc.want)
		}
	}
}

func TestMissingKey(t *testing.T) {
	t.Parallel()

	bundle, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if _, err := bundle.Translate("de", "form.lotse.nope"); !errors.Is(err, ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
	if got := bundle.MustTranslate("de", "form.lotse.nope"); got != "form.lotse.nope" {
		t.Fatalf("MustTranslate = %q", got)
	}
}

func TestLocalesShareKeys(t *testing.T) {
	t.Parallel()

	bundle, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	for key := range bundle.messages[BaseLocale] {
		for _, locale := range bundle.Locales() {
			if _, ok := bundle.messages[locale][key]; !ok {
				t.Fatalf("locale %q lacks %q", locale, key)
			}
		}
	}
}

func TestFallbackToBaseLocaleAndArguments(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"locales/de/app.yaml": {Data: []byte("locale: de\nnamespace: app\nmessages:\n  greeting: Hallo\n  steps: \"%d Schritte\"\n")},
		"locales/en/app.yaml": {Data: []byte("locale: en\nnamespace: app\nmessages:\n  greeting: Hello\n")},
	}
	bundle, err := Load(fsys)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, _ := bundle.Translate("en", "steps", 3); got != "3 Schritte" {
		t.Fatalf("fallback = %q", got)
	}
	if !bundle.Has("en", "steps") || bundle.Has("en", "missing") {
		t.Fatalf("unexpected Has results")
	}
	if got := bundle.Match("en-US,en;q=0.9"); got != "en" {
		t.Fatalf("Match = %q", got)
	}
}

func TestLoadRejectsInvalidCatalogs(t *testing.T) {
	t.Parallel()

	cases := map[string]fstest.MapFS{
		"empty": {},
		"no base locale": {
			"locales/en/app.yaml": {Data: []byte("locale: en\nnamespace: app\nmessages: {a: b}\n")},
		},
		"locale mismatch": {
			"locales/de/app.yaml": {Data: []byte("locale: en\nnamespace: app\nmessages: {a: b}\n")},
		},
		"namespace mismatch": {
			"locales/de/app.yaml": {Data: []byte("locale: de\nnamespace: other\nmessages: {a: b}\n")},
		},
		"duplicate key": {
			"locales/de/a.yaml": {Data: []byte("locale: de\nnamespace: a\nmessages: {k: v}\n")},
			"locales/de/b.yaml": {Data: []byte("locale: de\nnamespace: b\nmessages: {k: v}\n")},
		},
	}
	for name, fsys := range cases {
		if _, err := Load(fsys); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLocalizePageWithBundle(t *testing.T) {
	t.Parallel()

	bundle, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	page := model.Page{
		Title:      "form.lotse.person_b.title",
		Redirected: true,
		Reason:     "form.lotse.skip_reason.familienstand_single",
	}
	render.LocalizePage(&page, render.RenderOptions{Translator: bundle, Locale: "en"})
	if page.Title != "Person B" {
		t.Fatalf("title = %q", page.Title)
	}
	if page.Reason != "Person B is only needed for joint filing. Check your marital status." {
		t.Fatalf("reason = %q", page.Reason)
	}
}
