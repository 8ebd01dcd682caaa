// Package tokenizer extracts terms from raw file contents. A primary pattern
// locates candidate substrings (reporting capture group 1 when the pattern
// has one), an optional exclude pattern discards unwanted terms, and invalid
// UTF-8 is replaced rather than rejected.
package tokenizer

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	apperrors "github.com/Adithya-Monish-Kumar-K/termhist/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/termhist/pkg/resilience"
)

// DefaultPattern matches runs of four or more word characters.
const DefaultPattern = `\w{4}\w*`

// DefaultMatchTimeout bounds the backtracking of one match attempt.
const DefaultMatchTimeout = 10 * time.Second

// Token is a single extracted term and its ordinal in the match stream.
type Token struct {
	Term     string
	Position int
}

// Sink receives the terms of one file. Finish is called once after the last
// Matched; a Sink whose file could not be read never sees Finish.
type Sink interface {
	Matched(term string) error
	Finish() error
}

// Matcher holds the compiled primary and exclude patterns. It is safe for
// concurrent use by many workers.
type Matcher struct {
	pattern *regexp2.Regexp
	exclude *regexp2.Regexp
	capture bool
	timeout time.Duration
}

type options struct {
	matchTimeout time.Duration
}

// Option configures a Matcher.
type Option func(*options)

// WithMatchTimeout bounds every match attempt of both patterns. A file
// whose match exceeds it fails with ErrMatchTimeout. Zero or less disables
// the bound.
func WithMatchTimeout(d time.Duration) Option {
	return func(o *options) { o.matchTimeout = d }
}

// New compiles pattern and exclude. An empty exclude disables exclusion.
func New(pattern string, exclude string, opts ...Option) (*Matcher, error) {
	o := options{matchTimeout: DefaultMatchTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	re, err := compile(pattern, o)
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrInvalidPattern, apperrors.ExitFailure,
			"compiling pattern %q: %v", pattern, err)
	}
	m := &Matcher{
		pattern: re,
		capture: len(re.GetGroupNumbers()) > 1,
		timeout: o.matchTimeout,
	}
	if exclude != "" {
		ex, err := compile(exclude, o)
		if err != nil {
			return nil, apperrors.Newf(apperrors.ErrInvalidPattern, apperrors.ExitFailure,
				"compiling exclude pattern %q: %v", exclude, err)
		}
		m.exclude = ex
	}
	return m, nil
}

func compile(expr string, o options) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(expr, regexp2.None)
	if err != nil {
		return nil, err
	}
	if o.matchTimeout > 0 {
		re.MatchTimeout = o.matchTimeout
	}
	return re, nil
}

// Decode converts raw bytes to text, replacing invalid sequences with U+FFFD.
func Decode(content []byte) string {
	return strings.ToValidUTF8(string(content), "\uFFFD")
}

// Tokenize returns every accepted term of content in match order. A match
// that times out ends the token stream early.
func (m *Matcher) Tokenize(content []byte) []Token {
	var tokens []Token
	_ = m.each(Decode(content), func(term string) error {
		tokens = append(tokens, Token{Term: term, Position: len(tokens)})
		return nil
	})
	return tokens
}

// Search feeds every accepted term of content to sink and then finishes it.
func (m *Matcher) Search(content []byte, sink Sink) error {
	if err := m.each(Decode(content), sink.Matched); err != nil {
		return err
	}
	return sink.Finish()
}

// SearchFile reads path and searches its contents. It returns the number of
// bytes read. Transient read failures are retried. A read that still fails
// wraps ErrUnreadable and leaves sink unfinished.
func (m *Matcher) SearchFile(ctx context.Context, path string, sink Sink) (int64, error) {
	var content []byte
	err := resilience.Retry(ctx, "read "+path, resilience.FileRetryConfig(), func() error {
		var readErr error
		content, readErr = os.ReadFile(path)
		return readErr
	})
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w: %w", path, apperrors.ErrUnreadable, err)
	}
	return int64(len(content)), m.Search(content, sink)
}

func (m *Matcher) each(text string, fn func(term string) error) error {
	match, err := m.pattern.FindStringMatch(text)
	for match != nil && err == nil {
		term, ok, exErr := m.term(match)
		if exErr != nil {
			err = exErr
			break
		}
		if ok {
			if err := fn(term); err != nil {
				return err
			}
		}
		match, err = m.pattern.FindNextMatch(match)
	}
	if err != nil {
		// regexp2's timeout message embeds the whole input
		if strings.HasPrefix(err.Error(), "match timeout") {
			return fmt.Errorf("%w (limit %v)", apperrors.ErrMatchTimeout, m.timeout)
		}
		return fmt.Errorf("matching pattern: %w", err)
	}
	return nil
}

func (m *Matcher) term(match *regexp2.Match) (string, bool, error) {
	term := match.String()
	if m.capture {
		if group := match.GroupByNumber(1); group != nil && len(group.Captures) > 0 {
			term = group.String()
		}
	}
	if term == "" {
		return "", false, nil
	}
	if m.exclude != nil {
		excluded, err := m.exclude.MatchString(term)
		if err != nil {
			return "", false, err
		}
		if excluded {
			return "", false, nil
		}
	}
	return term, true, nil
}
