// Package chunker splits document text into overlapping chunks for embedding.
package chunker

import (
	"strings"

	"github.com/gurram-lahari/SmartDoc-AI/internal/domain"
)

// Splitter produces overlapping chunks of at most size bytes. Text is split on
// separator and the pieces are packed greedily; a piece longer than size is
// windowed directly. Every chunk is an exact substring of the input, so
// splitting is deterministic and idempotent for a fixed configuration.
type Splitter struct {
	size      int
	overlap   int
	separator string
}

// New creates a Splitter, clamping nonsensical values to the defaults
// (size 1200, overlap 200, separator "\n").
func New(size, overlap int, separator string) Splitter {
	if size <= 0 {
		size = 1200
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 6
	}
	if separator == "" {
		separator = "\n"
	}
	return Splitter{size: size, overlap: overlap, separator: separator}
}

// Size returns the maximum chunk size in bytes.
func (s Splitter) Size() int { return s.size }

// Overlap returns the overlap carried between consecutive chunks, in bytes.
func (s Splitter) Overlap() int { return s.overlap }

type span struct {
	start, end int
}

// Split chunks text. Empty input produces no chunks; whitespace-only chunks
// are dropped.
func (s Splitter) Split(text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	segs := segments(text, s.separator)
	step := s.size - s.overlap

	var chunks []domain.Chunk
	emit := func(start, end int) {
		t := text[start:end]
		if strings.TrimSpace(t) == "" {
			return
		}
		chunks = append(chunks, domain.Chunk{
			Ordinal: len(chunks),
			Text:    t,
			Start:   start,
			End:     end,
		})
	}

	i := 0
	for i < len(segs) {
		start := segs[i].start

		// A single segment longer than size gets windowed directly.
		if segs[i].end-start > s.size {
			for pos := start; ; pos += step {
				end := min(pos+s.size, segs[i].end)
				emit(pos, end)
				if end >= segs[i].end {
					break
				}
			}
			i++
			continue
		}

		// Pack segments while the chunk stays within size.
		j := i
		for j+1 < len(segs) && segs[j+1].end-start <= s.size {
			j++
		}
		end := segs[j].end
		emit(start, end)

		if j+1 >= len(segs) {
			break
		}

		// Carry trailing segments that start within the overlap window.
		k := j + 1
		for m := j; m > i; m-- {
			if end-segs[m].start > s.overlap {
				break
			}
			k = m
		}
		i = k
	}

	return chunks
}

// SplitDocument chunks the document text and attributes each chunk to the
// page it starts on.
func (s Splitter) SplitDocument(doc domain.Document) []domain.Chunk {
	chunks := s.Split(doc.Text)
	if len(doc.Pages) == 0 {
		return chunks
	}

	// Page start offsets within doc.Text (pages joined with "\n").
	starts := make([]int, len(doc.Pages))
	off := 0
	for i, p := range doc.Pages {
		starts[i] = off
		off += len(p.Text) + 1
	}

	for i := range chunks {
		page := doc.Pages[0].Number
		for pi, ps := range starts {
			if chunks[i].Start < ps {
				break
			}
			page = doc.Pages[pi].Number
		}
		chunks[i].Page = page
	}
	return chunks
}

// segments returns the byte ranges between separators, separators excluded.
// Consecutive separators yield empty segments, which only matter as boundaries.
func segments(text, sep string) []span {
	var spans []span
	start := 0
	for {
		idx := strings.Index(text[start:], sep)
		if idx < 0 {
			return append(spans, span{start, len(text)})
		}
		spans = append(spans, span{start, start + idx})
		start += idx + len(sep)
	}
}
