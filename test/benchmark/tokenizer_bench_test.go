package benchmark

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/termhist/internal/indexer/tokenizer"
)

var sampleTexts = map[string]string{
	"short": "The quick brown fox jumps over the lazy dog",
	"medium": `Term histograms rank the words that occur most often below a directory.
        Each file is scanned independently and its counts are folded into every
        ancestor directory up to the root the scan started from. The renderer then
        scales every bar to the most frequent term of its own table.`,
	"long": strings.Repeat(`Walking a source tree honors ignore files, skips hidden entries and
        never follows symbolic links. Workers extract terms with a regular expression,
        count them per file and hand the finished table to a shared store which rolls
        it up in one critical section. `, 20),
}

type discard struct{}

func (discard) Matched(string) error { return nil }
func (discard) Finish() error        { return nil }

func newMatcher(b *testing.B, pattern, exclude string) *tokenizer.Matcher {
	b.Helper()
	m, err := tokenizer.New(pattern, exclude)
	if err != nil {
		b.Fatal(err)
	}
	return m
}

func BenchmarkTokenize(b *testing.B) {
	m := newMatcher(b, tokenizer.DefaultPattern, "")
	for name, text := range sampleTexts {
		content := []byte(text)
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(content)))
			for i := 0; i < b.N; i++ {
				tokens := m.Tokenize(content)
				_ = tokens
			}
		})
	}
}

func BenchmarkTokenizeParallel(b *testing.B) {
	m := newMatcher(b, tokenizer.DefaultPattern, "")
	content := []byte(sampleTexts["medium"])
	b.ReportAllocs()
	b.SetBytes(int64(len(content)))
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if err := m.Search(content, discard{}); err != nil {
				b.Error(err)
			}
		}
	})
}

// BenchmarkCaptureAndExclude measures the extra cost of group extraction
// and the exclude pattern.
func BenchmarkCaptureAndExclude(b *testing.B) {
	m := newMatcher(b, `(\w+)ing\b`, `^walk`)
	content := []byte(sampleTexts["long"])
	b.ReportAllocs()
	b.SetBytes(int64(len(content)))
	for i := 0; i < b.N; i++ {
		if err := m.Search(content, discard{}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTokenizeVaryingSize(b *testing.B) {
	m := newMatcher(b, tokenizer.DefaultPattern, "")
	sizes := []int{10, 100, 500, 1000, 5000}
	baseWord := "histogram terminal directory rollup scanning "
	for _, size := range sizes {
		content := []byte(strings.Repeat(baseWord, size/len(baseWord)+1)[:size])
		b.Run(fmt.Sprintf("bytes_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(content)))
			for i := 0; i < b.N; i++ {
				tokens := m.Tokenize(content)
				_ = tokens
			}
		})
	}
}
