package chunker

import (
	"regexp"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// RegexSegmenter splits on terminal punctuation. It does not know about
// abbreviations, so "Dr. Smith" becomes two sentences.
type RegexSegmenter struct {
	splitter *regexp.Regexp
}

func NewRegexSegmenter() *RegexSegmenter {
	return &RegexSegmenter{splitter: regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)}
}

func (s *RegexSegmenter) Segment(paragraph string) []string {
	found := s.splitter.FindAllStringIndex(paragraph, -1)
	var out []string
	end := 0
	for _, loc := range found {
		if sent := strings.TrimSpace(paragraph[loc[0]:loc[1]]); sent != "" {
			out = append(out, sent)
		}
		end = loc[1]
	}
	// Trailing text without terminal punctuation is still a sentence.
	if tail := strings.TrimSpace(paragraph[end:]); tail != "" {
		out = append(out, tail)
	}
	return out
}

// PunktSegmenter uses the pretrained English punkt model.
type PunktSegmenter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

func NewPunktSegmenter() (*PunktSegmenter, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, err
	}
	return &PunktSegmenter{tokenizer: tok}, nil
}

func (s *PunktSegmenter) Segment(paragraph string) []string {
	var out []string
	for _, sent := range s.tokenizer.Tokenize(paragraph) {
		if text := strings.TrimSpace(sent.Text); text != "" {
			out = append(out, text)
		}
	}
	return out
}
