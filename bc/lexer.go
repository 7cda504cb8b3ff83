package bc

import (
	"io"
	"text/scanner"
)

// keyword names the BC1.0 language recognizes as operators rather than
// identifiers. Anything else lexes as an ordinary (possibly
// user-defined) name.
var keyword = map[string]bool{
	"ASSIGN": true,
	"EQUIV":  true,
	"IMPLY":  true,
	"ITE":    true,
	"OR":     true,
	"AND":    true,
	"EVEN":   true,
	"ODD":    true,
	"NOT":    true,
	"T":      true,
	"F":      true,
}

// lexer wraps text/scanner.Scanner, merging the handful of two-character
// BC operators (":=", "==", "=>") that the stock scanner would otherwise
// hand back one rune at a time, matching the one-token-of-lookahead style
// of the bf package's own hand-rolled parser.
type lexer struct {
	s       scanner.Scanner
	eof     bool
	token   string
	quoted  bool // current token was a quoted identifier
	lastPos scanner.Position
}

func newLexer(r io.Reader, filename string) *lexer {
	var s scanner.Scanner
	s.Init(r)
	s.Filename = filename
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanStrings | scanner.ScanComments | scanner.SkipComments
	l := &lexer{s: s}
	l.advance()
	return l
}

// pos returns the position of the current token, for error messages.
func (l *lexer) pos() scanner.Position { return l.lastPos }

func (l *lexer) advance() {
	if l.eof {
		return
	}
	tok := l.s.Scan()
	l.lastPos = l.s.Position
	l.quoted = false
	if tok == scanner.EOF {
		l.eof = true
		l.token = ""
		return
	}
	if tok == scanner.String {
		text := l.s.TokenText()
		l.token = text[1 : len(text)-1] // strip the surrounding quotes
		l.quoted = true
		return
	}
	l.token = l.s.TokenText()
	switch l.token {
	case ":":
		if l.s.Peek() == '=' {
			l.s.Scan()
			l.token = ":="
		}
	case "=":
		switch l.s.Peek() {
		case '=':
			l.s.Scan()
			l.token = "=="
		case '>':
			l.s.Scan()
			l.token = "=>"
		}
	}
}
