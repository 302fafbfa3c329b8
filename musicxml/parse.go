// ABOUTME: Walks a MusicXML part, accumulating lyric and tempo events as
// ABOUTME: exact rational score positions under the running divisions value

package musicxml

import (
	"strconv"
	"strings"

	"lrclib-match/musictime"
)

// FindPart returns the part element with the given id, if present.
func FindPart(doc *Node, partID string) *Node {
	return doc.FindDescendant(func(n *Node) bool {
		if n.Name != "part" {
			return false
		}
		id, ok := n.Attr("id")
		return ok && id == partID
	})
}

// parseTempoFromDirection looks for <sound tempo="..."/> or a <per-minute>
// text child inside a <direction> element and returns the bpm, if any.
func parseTempoFromDirection(direction *Node) (float64, bool) {
	if sound := direction.Child("sound"); sound != nil {
		if attr, ok := sound.Attr("tempo"); ok {
			if v, err := strconv.ParseFloat(strings.TrimSpace(attr), 64); err == nil {
				return v, true
			}
		}
	}

	var bpm float64
	found := false
	direction.Descendants(func(n *Node) bool {
		if found {
			return false
		}
		if n.Name == "per-minute" {
			if v, err := strconv.ParseFloat(strings.TrimSpace(n.TrimmedText()), 64); err == nil {
				bpm, found = v, true
				return false
			}
		}
		return true
	})
	return bpm, found
}

func parseIntChild(parent *Node, childName string) (int64, bool) {
	child := parent.Child(childName)
	if child == nil {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.TrimSpace(child.TrimmedText()), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// CollectEvents walks every measure of part in document order, maintaining a
// running divisions value, a per-measure current/max position, and a running
// global position, and returns the lyric and tempo events it finds.
//
// Returns ErrNoLyrics if no lyric-bearing note was encountered.
func CollectEvents(part *Node) ([]musictime.LyricEvent, []musictime.TempoEvent, error) {
	divisions := int64(1)
	globalPos := musictime.Zero()

	var lyricEvents []musictime.LyricEvent
	var tempoEvents []musictime.TempoEvent

	for _, measure := range part.ChildrenNamed("measure") {
		currentPos := musictime.Zero()
		maxPos := musictime.Zero()

		for _, child := range measure.Children {
			switch child.Name {
			case "attributes":
				if v, ok := parseIntChild(child, "divisions"); ok && v >= 1 {
					divisions = v
				}

			case "direction":
				if bpm, ok := parseTempoFromDirection(child); ok {
					offset := musictime.Zero()
					if v, ok := parseIntChild(child, "offset"); ok {
						offset = musictime.NewPosition(v, divisions)
					}
					tempoEvents = append(tempoEvents, musictime.TempoEvent{
						Pos: globalPos.Add(currentPos).Add(offset),
						BPM: bpm,
					})
				}

			case "sound":
				if attr, ok := child.Attr("tempo"); ok {
					if bpm, err := strconv.ParseFloat(strings.TrimSpace(attr), 64); err == nil {
						tempoEvents = append(tempoEvents, musictime.TempoEvent{
							Pos: globalPos.Add(currentPos),
							BPM: bpm,
						})
					}
				}

			case "note":
				isChord := child.HasChild("chord")

				for _, lyric := range child.ChildrenNamed("lyric") {
					textNode := lyric.Child("text")
					if textNode == nil {
						continue
					}
					cleaned := textNode.TrimmedText()
					if cleaned == "" {
						continue
					}
					lyricEvents = append(lyricEvents, musictime.LyricEvent{
						Pos:         globalPos.Add(currentPos),
						Text:        cleaned,
						StableIndex: len(lyricEvents),
					})
				}

				// A note without a parseable duration contributes nothing to
				// the running position; its lyric above was still captured
				// at the unchanged current position.
				durationInt, ok := parseIntChild(child, "duration")
				if !ok {
					continue
				}
				duration := musictime.NewPosition(durationInt, divisions)

				if !isChord {
					currentPos = currentPos.Add(duration)
					if currentPos.Cmp(maxPos) > 0 {
						maxPos = currentPos
					}
				}

			case "backup", "forward":
				durationInt, ok := parseIntChild(child, "duration")
				if !ok {
					continue
				}
				duration := musictime.NewPosition(durationInt, divisions)
				if child.Name == "backup" {
					currentPos = currentPos.Sub(duration)
				} else {
					currentPos = currentPos.Add(duration)
					if currentPos.Cmp(maxPos) > 0 {
						maxPos = currentPos
					}
				}
			}
		}

		if !maxPos.IsZero() {
			globalPos = globalPos.Add(maxPos)
		}
	}

	if len(lyricEvents) == 0 {
		return nil, nil, ErrNoLyrics
	}

	return lyricEvents, tempoEvents, nil
}
