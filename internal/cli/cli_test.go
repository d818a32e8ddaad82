package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wikichat/internal/config"
	"wikichat/internal/service"
	"wikichat/internal/source"
)

const goArticle = `Go is a statically typed, compiled programming language designed at Google. It was created by Robert Griesemer, Rob Pike and Ken Thompson.

Go has goroutines for lightweight concurrency. Channels connect goroutines.
`

func writeFileConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	articles := filepath.Join(dir, "articles")
	require.NoError(t, os.MkdirAll(articles, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(articles, "go.txt"), []byte(goArticle), 0o644))

	cfg := &config.AppConfig{
		Source:     config.SourceConfig{Type: "file", CacheSize: 4, File: &config.FileSourceConfig{Dir: articles}},
		Segmenter:  config.SegmenterConfig{Type: "regex"},
		Normalizer: config.NormalizerConfig{Lemmatizer: "none"},
		Log:        config.LogConfig{Level: "error", File: filepath.Join(dir, "test.log")},
	}
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, config.Save(path, cfg))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flags = GlobalFlags{}
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAsk(t *testing.T) {
	path := writeFileConfig(t)
	out, err := runCLI(t, "ask", "--config", path, "Go", "What connects goroutines?", "more", "bye", "ignored")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, `ChatBot >> Topic is "Library: go". Let's chat!`, lines[0])
	assert.Equal(t, "ChatBot >> Channels connect goroutines.", lines[1])
	assert.Equal(t, "ChatBot >> Go has goroutines for lightweight concurrency. Channels connect goroutines.", lines[2])
	assert.Equal(t, "ChatBot >> "+service.FarewellReply, lines[3])
}

func TestAsk_UnknownTopic(t *testing.T) {
	path := writeFileConfig(t)
	out, err := runCLI(t, "ask", "--config", path, "Rust", "anything")
	require.Error(t, err)
	assert.Contains(t, out, "Please input some other topic!")
}

func TestAsk_RequiresTopic(t *testing.T) {
	_, err := runCLI(t, "ask")
	assert.Error(t, err)
}

func TestBuildFactory(t *testing.T) {
	cfg, err := config.Load(writeFileConfig(t))
	require.NoError(t, err)

	f, err := buildFactory(cfg, zap.NewNop())
	require.NoError(t, err)
	_, cached := f.Source.(*source.Cached)
	assert.True(t, cached)
	assert.NotNil(t, f.Summarizer)
	assert.Equal(t, 20000, f.Options.MaxSentences)

	cfg.Session.MaxSentences = -1
	cfg.Summarizer.Type = "none"
	f, err = buildFactory(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 0, f.Options.MaxSentences)
	assert.Nil(t, f.Summarizer)

	cfg.Segmenter.Type = "spacy"
	_, err = buildFactory(cfg, zap.NewNop())
	assert.Error(t, err)
}
