package directive

import (
	"fmt"
	"strings"
)

// Block is one "Type { body }" resource.
type Block struct {
	Type string
	Body string
	Line int // line of the opening brace
}

type segment struct {
	plain string
	block *Block
}

// SplitBlocks splits a configuration file into its top-level resources.
// Comments starting with '#' outside quoted strings are removed first.
// Text outside any block is an error.
func SplitBlocks(text string) ([]Block, error) {
	segs, err := scanSegments(StripComments(text))
	if err != nil {
		return nil, err
	}
	var blocks []Block
	for _, s := range segs {
		if s.block != nil {
			blocks = append(blocks, *s.block)
			continue
		}
		if t := strings.TrimSpace(s.plain); t != "" {
			return nil, &ParseError{Text: t, Err: ErrUnknownDirective, Reason: "text outside of a resource block"}
		}
	}
	return blocks, nil
}

// CutBlock removes the first nested block named typ from body. It returns the
// block's content and body without the block. The type comparison ignores
// case, spacing and a trailing '='.
func CutBlock(body, typ string) (inner, rest string, found bool, err error) {
	segs, err := scanSegments(body)
	if err != nil {
		return "", "", false, err
	}
	want := normalizeKey(typ)
	var b strings.Builder
	for _, s := range segs {
		if s.block == nil {
			b.WriteString(s.plain)
			continue
		}
		if !found && normalizeKey(s.block.Type) == want {
			inner = s.block.Body
			found = true
			continue
		}
		fmt.Fprintf(&b, "%s {%s}", s.block.Type, s.block.Body)
	}
	return inner, b.String(), found, nil
}

// StripComments drops '#' comments that are not inside a quoted string.
func StripComments(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		inQuote := false
		for j := 0; j < len(line); j++ {
			switch line[j] {
			case '\\':
				if inQuote {
					j++
				}
			case '"':
				inQuote = !inQuote
			case '#':
				if !inQuote {
					line = line[:j]
				}
			}
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// scanSegments splits text into plain runs and top-level blocks.
// The block header is the text between the last newline and the brace.
func scanSegments(text string) ([]segment, error) {
	var (
		segs     []segment
		depth    int
		inQuote  bool
		start    int // start of current plain run or block body
		header   string
		headLine int
		line     = 1
	)

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\n' {
			line++
		}
		if inQuote {
			if c == '\\' {
				i++
			} else if c == '"' {
				inQuote = false
			}
			continue
		}
		switch c {
		case '"':
			inQuote = true
		case '{':
			if depth == 0 {
				plain := text[start:i]
				cut := strings.LastIndexByte(plain, '\n') + 1
				header = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(plain[cut:]), "="))
				if header == "" {
					return nil, &ParseError{Line: line, Text: strings.TrimSpace(plain), Err: ErrUnbalancedBraces, Reason: "block without a type"}
				}
				if cut > 0 {
					segs = append(segs, segment{plain: plain[:cut]})
				}
				headLine = line
				start = i + 1
			}
			depth++
		case '}':
			if depth == 0 {
				return nil, &ParseError{Line: line, Text: "}", Err: ErrUnbalancedBraces, Reason: "unexpected '}'"}
			}
			depth--
			if depth == 0 {
				segs = append(segs, segment{block: &Block{Type: header, Body: text[start:i], Line: headLine}})
				start = i + 1
			}
		}
	}
	if depth > 0 {
		return nil, &ParseError{Line: headLine, Text: header, Err: ErrUnbalancedBraces, Reason: "block is never closed"}
	}
	if start < len(text) {
		segs = append(segs, segment{plain: text[start:]})
	}
	return segs, nil
}

// TrimTerminators removes a ';' ending a line outside quoted strings.
// Line numbers are unchanged.
func TrimTerminators(body string) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		t := strings.TrimRight(line, " \t\r")
		if !strings.HasSuffix(t, ";") {
			continue
		}
		inQuote := false
		for j := 0; j < len(t)-1; j++ {
			switch t[j] {
			case '\\':
				if inQuote {
					j++
				}
			case '"':
				inQuote = !inQuote
			}
		}
		if !inQuote {
			lines[i] = t[:len(t)-1]
		}
	}
	return strings.Join(lines, "\n")
}
