// Package file serves topics from a directory of plain-text articles.
// A topic "Go programming" is looked up as "Go programming.txt" or
// "go_programming.txt"; paragraphs are separated by blank lines.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"wikichat/internal/domain"
)

// SourceName is shown to users next to the article title.
const SourceName = "Library"

var blankLine = regexp.MustCompile(`\n\s*\n`)

// Source reads articles from Dir.
type Source struct {
	dir string
}

var _ domain.Source = (*Source)(nil)

func NewSource(dir string) *Source { return &Source{dir: dir} }

func (s *Source) Fetch(_ context.Context, topic string) (domain.Document, error) {
	topic = strings.Join(strings.Fields(topic), " ")
	if topic == "" || strings.ContainsAny(topic, `/\`) || strings.Contains(topic, "..") {
		return domain.Document{}, fmt.Errorf("%w: invalid topic %q", domain.ErrSourceUnavailable, topic)
	}
	for _, name := range []string{topic, strings.ReplaceAll(strings.ToLower(topic), " ", "_")} {
		path := filepath.Join(s.dir, name+".txt")
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return domain.Document{}, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
		}
		return domain.Document{
			Source:     SourceName,
			Title:      title(name),
			Paragraphs: paragraphs(string(data)),
		}, nil
	}
	return domain.Document{}, fmt.Errorf("%w: no article for %q in %s", domain.ErrSourceUnavailable, topic, s.dir)
}

func title(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

func paragraphs(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var out []string
	for _, block := range blankLine.Split(content, -1) {
		if p := strings.Join(strings.Fields(block), " "); p != "" {
			out = append(out, p)
		}
	}
	return out
}
