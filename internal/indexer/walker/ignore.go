package walker

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// IgnoreFiles are read from every visited directory unless NoIgnore is set.
var IgnoreFiles = []string{".gitignore", ".ignore"}

type pattern struct {
	glob     string
	negate   bool
	dirOnly  bool
	anchored bool
}

// parsePattern understands the common gitignore subset: comments, "!"
// negation, trailing "/" for directories only, and anchoring by any "/"
// before the last character.
func parsePattern(line string) (pattern, bool) {
	line = strings.TrimRight(line, " \t\r")
	if line == "" || strings.HasPrefix(line, "#") {
		return pattern{}, false
	}
	var p pattern
	if strings.HasPrefix(line, "!") {
		p.negate = true
		line = line[1:]
	}
	line = strings.TrimPrefix(line, `\`)
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimRight(line, "/")
	}
	p.anchored = strings.Contains(line, "/")
	line = strings.TrimPrefix(line, "/")
	if line == "" {
		return pattern{}, false
	}
	p.glob = line
	return p, true
}

// matches reports whether rel (slash separated, relative to the directory
// holding the ignore file) is selected by p.
func (p pattern) matches(rel string, isDir bool) bool {
	if p.dirOnly && !isDir {
		return false
	}
	target := rel
	if !p.anchored {
		target = path.Base(rel)
	}
	ok, err := doublestar.Match(p.glob, target)
	return err == nil && ok
}

// ruleSet holds the patterns of one directory and links to the rules of its
// parent. Deeper rules are evaluated last so they override shallower ones.
type ruleSet struct {
	parent   *ruleSet
	base     string
	patterns []pattern
}

func (r *ruleSet) ignored(p string, isDir bool) bool {
	var chain []*ruleSet
	for rs := r; rs != nil; rs = rs.parent {
		chain = append(chain, rs)
	}
	ignored := false
	for i := len(chain) - 1; i >= 0; i-- {
		rs := chain[i]
		rel, err := filepath.Rel(rs.base, p)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		for _, pat := range rs.patterns {
			if pat.matches(rel, isDir) {
				ignored = !pat.negate
			}
		}
	}
	return ignored
}

// loadRules reads the ignore files of dir. It returns parent unchanged when
// dir has none.
func loadRules(dir string, parent *ruleSet) (*ruleSet, error) {
	var patterns []pattern
	for _, name := range IgnoreFiles {
		loaded, err := loadPatterns(filepath.Join(dir, name))
		if err != nil {
			return parent, err
		}
		patterns = append(patterns, loaded...)
	}
	if len(patterns) == 0 {
		return parent, nil
	}
	return &ruleSet{parent: parent, base: dir, patterns: patterns}, nil
}

func loadPatterns(file string) ([]pattern, error) {
	f, err := os.Open(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var patterns []pattern
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if p, ok := parsePattern(scanner.Text()); ok {
			patterns = append(patterns, p)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return patterns, nil
}
