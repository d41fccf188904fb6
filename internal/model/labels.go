package model

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var splitWordsPattern = regexp.MustCompile(`[_\-\s]+`)

// sectionPrefixes group answers by wizard section; the page heading already
// names the section so labels leave them out.
var sectionPrefixes = []string{"stmind_", "person_a_", "person_b_"}

// abbreviations keep their usual German spelling instead of title case.
var abbreviations = map[string]string{
	"iban": "IBAN",
	"idnr": "IdNr",
	"kfz":  "Kfz",
	"plz":  "PLZ",
}

// DefaultLabeler derives a label from an answer key for fields that declare
// none, e.g. "stmind_handwerker_summe" becomes "Handwerker Summe".
func DefaultLabeler(name string) string {
	name = strings.TrimSpace(name)
	for _, prefix := range sectionPrefixes {
		if rest := strings.TrimPrefix(name, prefix); rest != name && rest != "" {
			name = rest
			break
		}
	}
	if name == "" {
		return ""
	}

	caser := cases.Title(language.German)
	var segments []string
	for _, word := range splitWordsPattern.Split(name, -1) {
		for _, part := range splitCamel(word) {
			if short, ok := abbreviations[strings.ToLower(part)]; ok {
				segments = append(segments, short)
				continue
			}
			segments = append(segments, caser.String(part))
		}
	}
	return strings.Join(segments, " ")
}

// splitCamel breaks a word at lower-to-upper and letter-digit boundaries.
func splitCamel(word string) []string {
	var (
		parts []string
		start int
		prev  rune
	)
	for i, r := range word {
		if i > 0 && isBoundary(prev, r) {
			parts = append(parts, word[start:i])
			start = i
		}
		prev = r
	}
	if start < len(word) {
		parts = append(parts, word[start:])
	}
	return parts
}

func isBoundary(prev, r rune) bool {
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(r):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(r):
		return true
	case unicode.IsDigit(prev) && unicode.IsLetter(r):
		return true
	}
	return false
}
