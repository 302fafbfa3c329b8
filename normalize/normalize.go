// ABOUTME: Pure string normalization for cross-catalog title/artist matching
// ABOUTME: Patterns are compiled once at package init and are safe for concurrent use

package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// titlePatterns strips decorations from a raw title, in a fixed order: bracketed
// forms first, then dash forms, then trailing-year forms, then feat. forms. Later
// patterns rely on earlier ones having already removed their prefixes.
var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*[\(\[](?:remaster(?:ed)?(?:\s+\d{4})?|(?:\d{4}\s+)?remaster(?:ed)?)[\)\]]`),
	regexp.MustCompile(`(?i)\s*[\(\[](?:live(?:\s+(?:at|from|in)\s+[^)\]]+)?|acoustic(?:\s+version)?|unplugged)[\)\]]`),
	regexp.MustCompile(`(?i)\s*[\(\[](?:deluxe|super\s+deluxe|expanded|anniversary|bonus\s+track(?:s)?|special|collector'?s?)(?:\s+edition)?[\)\]]`),
	regexp.MustCompile(`(?i)\s*[\(\[](?:radio\s+edit|single\s+version|album\s+version|extended(?:\s+(?:mix|version))?|original\s+mix|mono|stereo)[\)\]]`),
	regexp.MustCompile(`(?i)\s*[\(\[](?:explicit|clean|censored|instrumental|karaoke)[\)\]]`),
	regexp.MustCompile(`(?i)\s*[\(\[](?:demo(?:\s+version)?|alternate(?:\s+(?:take|version))?|outtake)[\)\]]`),
	regexp.MustCompile(`(?i)\s*[-–—]\s*(?:remaster(?:ed)?(?:\s+\d{4})?|(?:\d{4}\s+)?remaster(?:ed)?)`),
	regexp.MustCompile(`(?i)\s*[-–—]\s*(?:live(?:\s+(?:at|from|in)\s+.+)?|acoustic(?:\s+version)?)`),
	regexp.MustCompile(`(?i)\s*[-–—]\s*\d{4}(?:\s+(?:version|mix|edit))?$`),
	regexp.MustCompile(`(?i)\s*[\(\[](?:feat\.?|ft\.?|featuring)\s+[^)\]]+[\)\]]`),
}

// artistPatterns truncate a raw artist string at its first separator, then
// strip a trailing ensemble-type suffix.
var artistPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s+(?:feat\.?|ft\.?|featuring|with|&|,|;|/)\s+.*`),
	regexp.MustCompile(`(?i)\s+(?:band|orchestra|ensemble|quartet|trio)$`),
}

// artistTransliterations maps known Cyrillic/Hebrew band-name spellings to the
// Latin spelling used by the matching catalogs. Keys are in the lowercased
// form Artist looks them up in, after anyASCIIFold, so й is written as и.
var artistTransliterations = map[string]string{
	"ддт":                 "ddt",
	"кино":                "kino",
	"аквариум":            "aquarium",
	"ария":                "aria",
	"алиса":               "alisa",
	"сплин":               "splin",
	"мумии тролль":        "mumiy troll",
	"би-2":                "bi-2",
	"би2":                 "bi-2",
	"земфира":             "zemfira",
	"ленинград":           "leningrad",
	"король и шут":        "korol i shut",
	"киш":                 "korol i shut",
	"aria":                "aria",
	"машина времени":      "mashina vremeni",
	"наутилус помпилиус":  "nautilus pompilius",
	"пикник":              "piknik",
	"секрет":              "sekret",
	"чаиф":                "chaif",
	"агата кристи":        "agata kristi",
	"любэ":                "lyube",
	"сектор газа":         "sektor gaza",
	"היהודים":             "hayehudim",
	"משינה":               "mashina",
	"אתניקס":              "ethnix",
	"כוורת":               "kaveret",
	"טיפקס":               "tipex",
	"שלום חנוך":           "shalom hanoch",
	"אריק איינשטיין":      "arik einstein",
	"עידן רייכל":          "idan raichel",
	"שלמה ארצי":           "shlomo artzi",
	"יהודה פוליקר":        "yehuda poliker",
	"רמי קלינשטיין":       "rami kleinstein",
	"אביב גפן":            "aviv geffen",
	"עברי לידר":           "ivri lider",
	"סטטיק ובן אל תבורי":  "static and ben el",
	"נועה קירל":           "noa kirel",
	"עומר אדם":            "omer adam",
}

// anyASCIIFold decomposes s under Unicode NFKD and drops the resulting
// combining marks, approximating an any-ASCII transliteration for scripts
// whose accented Latin forms decompose into a base letter plus mark (é → e +
// ´, ñ → n + ~). Cyrillic and Hebrew letters have no ASCII decomposition and
// keep their script; only the marks attached to them are dropped (й folds to
// и, ё to е, Hebrew vowel points disappear). Known band names in those
// scripts are mapped by artistTransliterations below.
func anyASCIIFold(s string) string {
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Title applies Unicode NFKD + any-ASCII transliteration, then the ordered
// pattern list, then lowercases/trims the result. If the transform would
// collapse a non-empty input to an empty string, the pre-pattern
// lowercased-trimmed input is returned instead.
func Title(title string) string {
	folded := anyASCIIFold(title)
	result := folded
	for _, p := range titlePatterns {
		result = p.ReplaceAllString(result, "")
	}
	result = strings.TrimSpace(result)
	result = strings.ToLower(result)
	if result == "" && folded != "" {
		return strings.ToLower(strings.TrimSpace(folded))
	}
	return result
}

// Artist applies Unicode NFKD + any-ASCII transliteration, truncates at the
// first separator, strips a trailing ensemble suffix, lowercases, and
// applies the Cyrillic/Hebrew transliteration table.
func Artist(artist string) string {
	folded := anyASCIIFold(artist)
	result := folded
	for _, p := range artistPatterns {
		result = p.ReplaceAllString(result, "")
	}
	normalized := strings.ToLower(strings.TrimSpace(result))
	if normalized == "" && folded != "" {
		normalized = strings.ToLower(strings.TrimSpace(folded))
	}

	if latin, ok := artistTransliterations[normalized]; ok {
		return latin
	}
	return normalized
}
