package chunker

import (
	"fmt"

	"wikichat/internal/domain"
)

// NoParagraph is the back-reference of sentences that did not come from the
// document, i.e. user utterances appended during a chat.
const NoParagraph = -1

// Corpus is the ordered sentence list of one topic together with the
// paragraph each sentence came from. Sentences and their back-references
// only change together, through the methods below.
type Corpus struct {
	Source         string
	Title          string
	paragraphs     []string
	sentences      []string
	paragraphIndex []int
}

// Len returns the number of sentences.
func (c *Corpus) Len() int { return len(c.sentences) }

// Sentences returns the sentence list. Callers must not modify it.
func (c *Corpus) Sentences() []string { return c.sentences }

// Sentence returns sentence i.
func (c *Corpus) Sentence(i int) string { return c.sentences[i] }

// Paragraphs returns the source paragraphs. Callers must not modify them.
func (c *Corpus) Paragraphs() []string { return c.paragraphs }

// ParagraphIndex returns a copy of the sentence to paragraph map.
func (c *Corpus) ParagraphIndex() []int {
	out := make([]int, len(c.paragraphIndex))
	copy(out, c.paragraphIndex)
	return out
}

// Passage returns the paragraph sentence i was extracted from. ok is false
// for appended utterances, which have no paragraph.
func (c *Corpus) Passage(i int) (passage string, ok bool) {
	p := c.paragraphIndex[i]
	if p == NoParagraph {
		return "", false
	}
	return c.paragraphs[p], true
}

// AppendUtterance adds a user utterance as a future candidate answer.
func (c *Corpus) AppendUtterance(text string) {
	c.sentences = append(c.sentences, text)
	c.paragraphIndex = append(c.paragraphIndex, NoParagraph)
}

// Check verifies that every sentence has exactly one valid back-reference.
func (c *Corpus) Check() error {
	if len(c.sentences) != len(c.paragraphIndex) {
		return fmt.Errorf("%w: %d sentences but %d paragraph references",
			domain.ErrCorruptSession, len(c.sentences), len(c.paragraphIndex))
	}
	for i, p := range c.paragraphIndex {
		if p != NoParagraph && (p < 0 || p >= len(c.paragraphs)) {
			return fmt.Errorf("%w: sentence %d references paragraph %d of %d",
				domain.ErrCorruptSession, i, p, len(c.paragraphs))
		}
	}
	return nil
}

// Builder segments document paragraphs into a Corpus.
type Builder struct {
	segmenter domain.Segmenter
}

func NewBuilder(segmenter domain.Segmenter) *Builder {
	if segmenter == nil {
		segmenter = NewRegexSegmenter()
	}
	return &Builder{segmenter: segmenter}
}

// Build splits every paragraph into sentences, keeping document order.
// Paragraphs are kept verbatim, including empty ones, so back-references
// address the document as it was fetched.
func (b *Builder) Build(doc domain.Document) (*Corpus, error) {
	c := &Corpus{
		Source:     doc.Source,
		Title:      doc.Title,
		paragraphs: doc.Paragraphs,
	}
	for i, para := range doc.Paragraphs {
		for _, sent := range b.segmenter.Segment(para) {
			c.sentences = append(c.sentences, sent)
			c.paragraphIndex = append(c.paragraphIndex, i)
		}
	}
	if len(c.sentences) == 0 {
		return nil, fmt.Errorf("%w: %q has no readable text", domain.ErrEmptyDocument, doc.Title)
	}
	return c, nil
}
