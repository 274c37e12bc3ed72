// Package btre is a small regex engine: a tokenizer, a parser building
// an arena-addressed AST, a compiler lowering that AST into a graph of
// instruction blocks, and a backtracking VM that walks the block graph
// against an input byte slice.
//
// The dialect is deliberately narrow: byte-oriented (no Unicode), no
// lookaround, no named groups, no backreferences, no {n,m} counters.
// See the token, ast, block, and vm packages for the pipeline stages;
// this package is the facade that wires them together.
//
// Basic usage:
//
//	re, err := btre.Compile(`\d+`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if m := re.Find([]byte("age: 42")); m != nil {
//	    fmt.Println(string(m.Whole())) // "42"
//	}
package btre

import (
	"github.com/btre/btre/ast"
	"github.com/btre/btre/block"
	"github.com/btre/btre/prefilter"
	"github.com/btre/btre/vm"
)

// Regex is a compiled pattern: an immutable block.Program plus
// whatever prefilter the compiler could extract for it. A *Regex is
// safe to use concurrently from multiple goroutines — matching builds
// a fresh vm.VM per call and touches no shared mutable state.
type Regex struct {
	pattern string
	program *block.Program
	pf      prefilter.Prefilter
	cfg     Config
	dbg     DebugConfig
}

// Compile compiles pattern with DefaultConfig and no debug tracing.
func Compile(pattern string) (*Regex, error) {
	return CompileWithDebug(pattern, DefaultConfig(), DebugConfig{})
}

// MustCompile is Compile but panics instead of returning an error,
// for patterns known to be valid at compile time (e.g. constants).
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("btre: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles pattern with a caller-supplied Config,
// validated before use.
func CompileWithConfig(pattern string, cfg Config) (*Regex, error) {
	return CompileWithDebug(pattern, cfg, DebugConfig{})
}

// CompileWithDebug is CompileWithConfig plus a DebugConfig that may
// trace the parsed AST and the compiled block graph as a side effect
// of compilation, and is threaded through to every VM built by Match.
func CompileWithDebug(pattern string, cfg Config, dbg DebugConfig) (*Regex, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tree, err := ast.Parse([]byte(pattern))
	if err != nil {
		return nil, err
	}
	dbg.dumpTree(tree)

	program := block.Compile(tree)
	dbg.dumpProgram(program)

	var pf prefilter.Prefilter
	if cfg.EnablePrefilter {
		if literals := extractPrefixLiterals(tree, cfg.MaxLiterals); soundForMinLen(literals, cfg.MinLiteralLen) {
			pf = prefilter.Build(literals)
		}
	}

	return &Regex{pattern: pattern, program: program, pf: pf, cfg: cfg, dbg: dbg}, nil
}

// soundForMinLen reports whether every literal meets cfg's minimum
// length. A prefilter built from a partial set of an alternation's
// required literals would incorrectly rule out candidate positions
// that only the dropped branches could start a match at, so literals
// below the threshold disable prefiltering for that pattern entirely
// rather than being silently excluded.
func soundForMinLen(literals [][]byte, minLen int) bool {
	if len(literals) == 0 {
		return false
	}
	for _, lit := range literals {
		if len(lit) < minLen {
			return false
		}
	}
	return true
}

// String returns the source pattern used to compile re.
func (r *Regex) String() string {
	return r.pattern
}

// NumSubexp returns the number of capture groups in the pattern
// (group 0, the whole match, is not counted).
func (r *Regex) NumSubexp() int {
	return r.program.NumGroups
}

func (r *Regex) run(input []byte) *Match {
	v := vm.NewSized(r.program, input, r.pf, r.cfg.InitialStackCapacity, r.cfg.InitialProgressCapacity)
	r.dbg.attachTrace(v)
	start, end, captures, ok := v.Run()
	if !ok {
		return nil
	}
	return &Match{
		input:     input,
		start:     start,
		end:       end,
		captures:  captures,
		numGroups: v.NumGroups(),
	}
}

// Match reports whether input contains any match of the pattern.
func (r *Regex) Match(input []byte) bool {
	return r.run(input) != nil
}

// MatchString reports whether s contains any match of the pattern.
func (r *Regex) MatchString(s string) bool {
	return r.Match([]byte(s))
}

// Find returns the leftmost match in input, or nil if there is none.
func (r *Regex) Find(input []byte) *Match {
	return r.run(input)
}

// FindString is Find over a string.
func (r *Regex) FindString(s string) *Match {
	return r.Find([]byte(s))
}

// FindIndex returns the [start, end) byte offsets of the leftmost
// match, or nil if there is none.
func (r *Regex) FindIndex(input []byte) []int {
	m := r.Find(input)
	if m == nil {
		return nil
	}
	return []int{m.start, m.end}
}

// FindStringIndex is FindIndex over a string.
func (r *Regex) FindStringIndex(s string) []int {
	return r.FindIndex([]byte(s))
}

// FindAll returns every successive non-overlapping match in input. If
// n >= 0, at most n matches are returned; n < 0 means unlimited. An
// empty match advances the search position by one byte so the scan
// always terminates.
func (r *Regex) FindAll(input []byte, n int) []*Match {
	if n == 0 {
		return nil
	}

	var matches []*Match
	pos := 0
	for pos <= len(input) {
		m := r.run(input[pos:])
		if m == nil {
			break
		}
		absStart, absEnd := pos+m.start, pos+m.end
		matches = append(matches, &Match{
			input:     input,
			start:     absStart,
			end:       absEnd,
			captures:  offsetCaptures(m.captures, pos),
			numGroups: m.numGroups,
		})

		if absEnd > pos {
			pos = absEnd
		} else {
			pos++
		}
		if n > 0 && len(matches) >= n {
			break
		}
	}
	return matches
}

// FindAllString is FindAll over a string.
func (r *Regex) FindAllString(s string, n int) []*Match {
	return r.FindAll([]byte(s), n)
}

func offsetCaptures(captures map[int]vm.Capture, pos int) map[int]vm.Capture {
	if len(captures) == 0 {
		return captures
	}
	out := make(map[int]vm.Capture, len(captures))
	for g, c := range captures {
		out[g] = vm.Capture{Start: c.Start + pos, End: c.End + pos}
	}
	return out
}

// QuoteMeta escapes every metacharacter this dialect recognizes
// (`. ( ) [ ] | ? * + $ \`) so the result matches s literally.
func QuoteMeta(s string) string {
	const special = `.()[]|?*+$\`

	n := 0
	for i := 0; i < len(s); i++ {
		if isSpecialByte(s[i], special) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, 0, len(s)+n)
	for i := 0; i < len(s); i++ {
		if isSpecialByte(s[i], special) {
			buf = append(buf, '\\')
		}
		buf = append(buf, s[i])
	}
	return string(buf)
}

func isSpecialByte(c byte, special string) bool {
	for i := 0; i < len(special); i++ {
		if c == special[i] {
			return true
		}
	}
	return false
}
