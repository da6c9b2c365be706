// Package textdiff scores free-text answers against reference text and
// produces token-level diff annotations for display.
package textdiff

import (
	"math"
	"regexp"
	"strings"
)

// tokenPattern splits text into word runs (Unicode letters and digits, with
// apostrophes kept only between word characters), single sentence punctuation
// marks, or any other lone non-space character.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]+(?:'[\p{L}\p{N}_]+)*|[.,;!?]|\S`)

// Tokenize splits text on word boundaries, preserving order.
// Whitespace-only input yields an empty slice.
func Tokenize(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return tokenPattern.FindAllString(text, -1)
}

// Similarity reports how closely a user answer matches a reference answer as
// a value in [0, 100], rounded to the nearest integer. The score is the
// Ratcliff/Obershelp ratio 2*M/(len(a)+len(b)) over the two character
// sequences, where M is the total length of the matching blocks. Two empty
// strings score 0.
func Similarity(a, b string) float64 {
	ar, br := []rune(a), []rune(b)
	total := len(ar) + len(br)
	if total == 0 {
		return 0
	}
	matched := 0
	for _, m := range matchingBlocks(ar, br) {
		matched += m.size
	}
	return math.Round(float64(2*matched) / float64(total) * 100)
}

// Tag labels one span of a diff.
type Tag string

const (
	TagEqual   Tag = "equal"
	TagReplace Tag = "replace"
	TagDelete  Tag = "delete"
	TagInsert  Tag = "insert"
)

// Opcode describes how to turn aTokens[A1:A2] into bTokens[B1:B2].
type Opcode struct {
	Tag            Tag
	A1, A2, B1, B2 int
}

// Opcodes aligns two token sequences and returns the ordered edit script.
// A delete span holds tokens present only in a (extra or wrong tokens), an
// insert span tokens present only in b (missing tokens); replace reports a
// substitution as a simultaneous delete and insert.
func Opcodes(aTokens, bTokens []string) []Opcode {
	blocks := matchingBlocks(aTokens, bTokens)
	blocks = append(blocks, match{a: len(aTokens), b: len(bTokens)})

	var ops []Opcode
	i, j := 0, 0
	for _, m := range blocks {
		var tag Tag
		switch {
		case i < m.a && j < m.b:
			tag = TagReplace
		case i < m.a:
			tag = TagDelete
		case j < m.b:
			tag = TagInsert
		}
		if tag != "" {
			ops = append(ops, Opcode{Tag: tag, A1: i, A2: m.a, B1: j, B2: m.b})
		}
		if m.size > 0 {
			ops = append(ops, Opcode{Tag: TagEqual, A1: m.a, A2: m.a + m.size, B1: m.b, B2: m.b + m.size})
		}
		i, j = m.a+m.size, m.b+m.size
	}
	return ops
}

const (
	deleteOpen  = "<del>"
	deleteClose = "</del>"
	insertOpen  = `<span style="color:red">`
	insertClose = "</span>"
)

// Annotate rebuilds display strings from a token diff. Equal tokens are
// copied into both outputs; deleted tokens are struck through in the user
// string only, inserted tokens emphasized in the reference string only.
func Annotate(ops []Opcode, aTokens, bTokens []string) (markedA, markedB string) {
	var outA, outB []string
	for _, op := range ops {
		switch op.Tag {
		case TagEqual:
			outA = append(outA, aTokens[op.A1:op.A2]...)
			outB = append(outB, bTokens[op.B1:op.B2]...)
		case TagDelete:
			for _, tok := range aTokens[op.A1:op.A2] {
				outA = append(outA, deleteOpen+tok+deleteClose)
			}
		case TagInsert:
			for _, tok := range bTokens[op.B1:op.B2] {
				outB = append(outB, insertOpen+tok+insertClose)
			}
		case TagReplace:
			for _, tok := range aTokens[op.A1:op.A2] {
				outA = append(outA, deleteOpen+tok+deleteClose)
			}
			for _, tok := range bTokens[op.B1:op.B2] {
				outB = append(outB, insertOpen+tok+insertClose)
			}
		}
	}
	return JoinTokens(outA), JoinTokens(outB)
}

// JoinTokens concatenates tokens with single spaces, except that no space is
// inserted before sentence punctuation.
func JoinTokens(tokens []string) string {
	var sb strings.Builder
	for i, tok := range tokens {
		if i > 0 && !startsWithPunctuation(tok) {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok)
	}
	return sb.String()
}

func startsWithPunctuation(tok string) bool {
	if tok == "" {
		return false
	}
	switch tok[0] {
	case '.', ',', ';', '!', '?':
		return true
	}
	return false
}

// match is a maximal run a[a:a+size] == b[b:b+size].
type match struct {
	a, b, size int
}

// matchingBlocks finds all matching blocks via the classic "largest matching
// block, recurse left and right" alignment. Blocks are returned in ascending
// order of position.
func matchingBlocks[T comparable](a, b []T) []match {
	var blocks []match
	var recurse func(alo, ahi, blo, bhi int)
	recurse = func(alo, ahi, blo, bhi int) {
		m := longestMatch(a, b, alo, ahi, blo, bhi)
		if m.size == 0 {
			return
		}
		recurse(alo, m.a, blo, m.b)
		blocks = append(blocks, m)
		recurse(m.a+m.size, ahi, m.b+m.size, bhi)
	}
	recurse(0, len(a), 0, len(b))
	return blocks
}

// longestMatch finds the longest contiguous run common to a[alo:ahi] and
// b[blo:bhi]. Ties resolve to the earliest position in a, then in b.
func longestMatch[T comparable](a, b []T, alo, ahi, blo, bhi int) match {
	b2j := make(map[T][]int, bhi-blo)
	for j := blo; j < bhi; j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}

	best := match{a: alo, b: blo}
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newJ2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			k := j2len[j-1] + 1
			newJ2len[j] = k
			if k > best.size {
				best = match{a: i - k + 1, b: j - k + 1, size: k}
			}
		}
		j2len = newJ2len
	}
	return best
}
