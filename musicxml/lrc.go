// ABOUTME: LRC line formatting, parsing, and the word-level enhancement merge
// ABOUTME: that overlays MusicXML timing onto a pre-existing lyric file

package musicxml

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"lrclib-match/musictime"
)

// Line is one line of a base LRC file: either blank, a bare meta/time tag, or
// a tagged lyric line.
type Line struct {
	Tag  string
	Text string
}

// FormatTimecode renders seconds as mm:ss.cc, rounding centiseconds half-up.
func FormatTimecode(seconds float64) string {
	totalCentis := int64(seconds*100 + 0.5)
	minutes := totalCentis / 6000
	secs := (totalCentis / 100) % 60
	centis := totalCentis % 100
	return fmt.Sprintf("%02d:%02d.%02d", minutes, secs, centis)
}

// FormatTimeTag renders seconds as a bracketed LRC time tag.
func FormatTimeTag(seconds float64) string {
	return "[" + FormatTimecode(seconds) + "]"
}

// ParseTimeTag parses a strict [mm:ss.cc] tag back into seconds.
func ParseTimeTag(tag string) (float64, bool) {
	if len(tag) != 10 {
		return 0, false
	}
	if tag[0] != '[' || tag[3] != ':' || tag[6] != '.' || tag[9] != ']' {
		return 0, false
	}
	mm, err := strconv.Atoi(tag[1:3])
	if err != nil {
		return 0, false
	}
	ss, err := strconv.Atoi(tag[4:6])
	if err != nil {
		return 0, false
	}
	cc, err := strconv.Atoi(tag[7:9])
	if err != nil {
		return 0, false
	}
	return float64(mm)*60.0 + float64(ss) + float64(cc)/100.0, true
}

// ReadLines parses raw LRC text into Line values. A line with no leading
// "[...]" tag is kept with an empty Tag and its raw text. A final newline
// ends the last line rather than starting an empty one.
func ReadLines(raw string) []Line {
	if raw == "" {
		return nil
	}
	var out []Line
	for _, rawLine := range strings.Split(strings.TrimSuffix(raw, "\n"), "\n") {
		line := strings.TrimRight(rawLine, "\r")
		if line == "" {
			out = append(out, Line{})
			continue
		}
		if !strings.HasPrefix(line, "[") || !strings.Contains(line, "]") {
			out = append(out, Line{Text: line})
			continue
		}
		tagEnd := strings.Index(line, "]")
		tag := line[:tagEnd+1]
		text := strings.TrimLeft(line[tagEnd+1:], " \t")
		out = append(out, Line{Tag: tag, Text: text})
	}
	return out
}

// LastTime returns the latest (greatest) timestamp found among any
// [mm:ss.cc] tags.
func LastTime(lines []Line) (float64, bool) {
	last := 0.0
	found := false
	for _, l := range lines {
		if l.Tag == "" {
			continue
		}
		if t, ok := ParseTimeTag(l.Tag); ok && (!found || t > last) {
			last, found = t, true
		}
	}
	return last, found
}

// PositionsToLRCLines is the primary extraction emit: one "[mm:ss.cc] text"
// line per lyric event, using the tempo sweep to convert position to seconds.
func PositionsToLRCLines(lyrics []musictime.LyricEvent, tempo []musictime.TempoEvent) ([]string, error) {
	positions := make([]musictime.Position, len(lyrics))
	for i, e := range lyrics {
		positions[i] = e.Pos
	}
	seconds, err := musictime.Sweep(positions, tempo)
	if err != nil {
		return nil, err
	}

	lines := make([]string, len(lyrics))
	for i, e := range lyrics {
		lines[i] = FormatTimeTag(seconds[i]) + " " + e.Text
	}
	return lines, nil
}

// BuildWordTimings joins hyphenated syllables into whole words, keeping the
// position of each word's first syllable.
func BuildWordTimings(lyrics []musictime.LyricEvent) []struct {
	Pos  musictime.Position
	Text string
} {
	var out []struct {
		Pos  musictime.Position
		Text string
	}

	var bufText strings.Builder
	var bufPos musictime.Position
	haveBufPos := false

	for _, e := range lyrics {
		if !haveBufPos {
			bufPos = e.Pos
			haveBufPos = true
		}
		cleaned := strings.TrimSpace(e.Text)
		if strings.HasSuffix(cleaned, "-") {
			bufText.WriteString(strings.TrimSuffix(cleaned, "-"))
			continue
		}
		bufText.WriteString(cleaned)
		out = append(out, struct {
			Pos  musictime.Position
			Text string
		}{Pos: bufPos, Text: bufText.String()})
		bufText.Reset()
		haveBufPos = false
	}

	if haveBufPos && bufText.Len() > 0 {
		out = append(out, struct {
			Pos  musictime.Position
			Text string
		}{Pos: bufPos, Text: bufText.String()})
	}

	return out
}

// ExtractMetadata pulls ti/ar/by/al tags out of score metadata, in that
// fixed emission order, skipping any that come out empty.
func ExtractMetadata(doc *Node) []string {
	type kv struct{ k, v string }
	var tags []kv

	workTitle := firstNonEmptyText(doc, "work-title")
	movementTitle := firstNonEmptyText(doc, "movement-title")
	if workTitle != "" {
		tags = append(tags, kv{"ti", workTitle})
	} else if movementTitle != "" {
		tags = append(tags, kv{"ti", movementTitle})
	}

	type creator struct{ typ, text string }
	var creators []creator
	doc.Descendants(func(n *Node) bool {
		if n.Name == "creator" {
			text := n.TrimmedText()
			if text != "" {
				typ, _ := n.Attr("type")
				creators = append(creators, creator{typ: typ, text: text})
			}
		}
		return true
	})
	if len(creators) > 0 {
		arValue := ""
		for _, c := range creators {
			if c.typ == "composer" {
				arValue = c.text
				break
			}
		}
		if arValue == "" {
			texts := make([]string, len(creators))
			for i, c := range creators {
				texts[i] = c.text
			}
			arValue = strings.Join(texts, ", ")
		}
		if arValue != "" {
			tags = append(tags, kv{"ar", arValue})
		}
	}

	if by := firstNonEmptyText(doc, "software"); by != "" {
		tags = append(tags, kv{"by", by})
	}
	if al := firstNonEmptyText(doc, "source"); al != "" {
		tags = append(tags, kv{"al", al})
	}

	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t.v == "" {
			continue
		}
		out = append(out, fmt.Sprintf("[%s:%s]", t.k, t.v))
	}
	return out
}

func firstNonEmptyText(doc *Node, name string) string {
	n := doc.FindDescendant(func(n *Node) bool { return n.Name == name })
	if n == nil {
		return ""
	}
	return n.TrimmedText()
}

var (
	reLeadingPunct  = regexp.MustCompile(`^["'“”‘’\(\)\[\]{}<>]+`)
	reTrailingPunct = regexp.MustCompile(`["'“”‘’\(\)\[\]{}<>:;,\.\?!]+$`)
)

// normalizeToken strips leading/trailing punctuation, trims, and lowercases.
func normalizeToken(token string) string {
	s := reLeadingPunct.ReplaceAllString(token, "")
	s = reTrailingPunct.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return strings.ToLower(s)
}

// MergeEnhancedLRC overlays word-level <mm:ss.cc> tags onto each non-empty
// line of a base LRC, consuming one word timing per non-punctuation token.
func MergeEnhancedLRC(
	lrcLines []Line,
	wordTimings []struct {
		Pos  musictime.Position
		Text string
	},
	tempoEvents []musictime.TempoEvent,
	force bool,
	lengthTolerance float64,
	metadataTags []string,
) ([]string, error) {
	tempo := musictime.EnsureTempoZero(musictime.SortTempo(tempoEvents))

	positions := make([]musictime.Position, len(wordTimings))
	for i, w := range wordTimings {
		positions[i] = w.Pos
	}
	seconds, err := musictime.Sweep(positions, tempo)
	if err != nil {
		return nil, err
	}
	wordTimecodes := make([]string, len(seconds))
	for i, s := range seconds {
		wordTimecodes[i] = FormatTimecode(s)
	}

	if lrcLen, ok := LastTime(lrcLines); ok && len(wordTimecodes) > 0 {
		lastWordSeconds, ok := ParseTimeTag("[" + wordTimecodes[len(wordTimecodes)-1] + "]")
		if ok {
			delta := lastWordSeconds - lrcLen
			if delta > lengthTolerance && !force {
				return nil, fmt.Errorf(
					"%w: LRC end %.2fs, MusicXML end %.2fs (use --force to override or --length-tolerance to adjust)",
					ErrLengthMismatch, lrcLen, lastWordSeconds,
				)
			}
		}
	}

	existingTags := make(map[string]bool)
	for _, l := range lrcLines {
		if l.Tag != "" && l.Text == "" {
			if _, isTime := ParseTimeTag(l.Tag); !isTime {
				existingTags[l.Tag] = true
			}
		}
	}

	var output []string
	for _, tag := range metadataTags {
		if !existingTags[tag] {
			output = append(output, tag)
		}
	}

	wordIndex := 0
	for _, line := range lrcLines {
		if line.Text == "" {
			output = append(output, line.Tag)
			continue
		}

		var enhanced []string
		for _, token := range strings.Split(line.Text, " ") {
			if token == "" {
				continue
			}
			normalized := normalizeToken(token)
			if normalized == "" {
				enhanced = append(enhanced, token)
				continue
			}
			if wordIndex >= len(wordTimecodes) {
				enhanced = append(enhanced, token)
				continue
			}
			enhanced = append(enhanced, "<"+wordTimecodes[wordIndex]+">"+token)
			wordIndex++
		}

		merged := strings.TrimRight(line.Tag+" "+strings.Join(enhanced, " "), " ")
		output = append(output, merged)
	}

	return output, nil
}
