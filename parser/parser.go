// Package parser implements a recursive-descent SQL parser over the
// lexer/dialect packages, producing the ast package's tagged AST. Parse
// functions do not thread error returns through every call: a malformed
// construct calls errorf, which panics with a *ParseError; ParseAll
// recovers at the statement boundary and keeps going, converting the
// failed span into an ast.Raw node. MaxDepthError is the one exception:
// it is never recovered, even when Options.Recover is true.
package parser

import (
	"fmt"

	"github.com/oarkflow/sqlriver/ast"
	"github.com/oarkflow/sqlriver/dialect"
	"github.com/oarkflow/sqlriver/lexer"
)

// Options configures a Parser.
type Options struct {
	Dialect         *dialect.Profile
	LexerOptions    lexer.Options
	MaxDepth        int  // default 200
	Recover         bool // if true, ParseAll converts parse errors to Raw nodes and continues
	OnRecover       func(stmtIndex int, err error)
	OnDropStatement func(stmtIndex, total int, err error)
}

// DefaultOptions returns the conservative defaults: ANSI dialect, a
// recursion depth cap of 200, recovery enabled, and logrus-backed
// OnRecover/OnDropStatement handlers (see defaultLogHandlers in log.go).
// ParseAll calls OnRecover for each recovered statement; nothing in this
// package calls OnDropStatement.
func DefaultOptions() Options {
	opts := Options{
		Dialect:      dialect.ANSI(),
		LexerOptions: lexer.DefaultOptions(),
		MaxDepth:     200,
		Recover:      true,
	}
	opts.OnRecover, opts.OnDropStatement = defaultLogHandlers()
	return opts
}

func (o Options) normalized() Options {
	if o.Dialect == nil {
		o.Dialect = dialect.ANSI()
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = 200
	}
	return o
}

// StatementResult pairs a parsed statement with the comments and blank
// lines read since the previous statement, including comments that
// appear inside this statement.
type StatementResult struct {
	Stmt             ast.Statement
	LeadingComments  []*ast.Comment
	BlankLinesBefore int
}

// Parser turns dialect-classified tokens into AST nodes.
type Parser struct {
	lex     *lexer.Lexer
	profile *dialect.Profile
	opts    Options
	arena   arena

	tok     lexer.Token
	peekTok lexer.Token
	hasPeek bool

	pendingComments []*ast.Comment
	pendingBlank    int

	depth  int
	lexErr error
}

// New creates a Parser for src. Input exceeding opts.LexerOptions.MaxInputSize
// is refused up front: the parser never tokenizes a single byte of it, and
// ParseOne/ParseAll return the InputTooLarge error immediately.
func New(src []byte, opts Options) *Parser {
	opts = opts.normalized()
	p := &Parser{lex: lexer.New(src, opts.Dialect, opts.LexerOptions), profile: opts.Dialect, opts: opts}
	p.arena.init()
	p.start()
	return p
}

// NewString creates a Parser for a string input. See New for the pre-parse
// input-size refusal.
func NewString(src string, opts Options) *Parser {
	opts = opts.normalized()
	p := &Parser{lex: lexer.NewString(src, opts.Dialect, opts.LexerOptions), profile: opts.Dialect, opts: opts}
	p.arena.init()
	p.start()
	return p
}

// start performs the size guard and the initial token fetch. An oversize
// input never reaches lex.Next: p.lexErr is set and the token stream reads
// as EOF, so ParseOne/ParseAll surface InputTooLarge without scanning it.
func (p *Parser) start() {
	if err := p.lex.InputSizeError(); err != nil {
		p.lexErr = err
		p.tok = lexer.Token{Type: lexer.EOF}
		return
	}
	p.advance()
}

// Reset reuses the parser for new source.
func (p *Parser) Reset(src []byte) {
	p.lex.Reset(src)
	p.arena.reset()
	p.hasPeek = false
	p.pendingComments = nil
	p.pendingBlank = 0
	p.depth = 0
	p.lexErr = nil
	p.start()
}

// ---- token stream plumbing ----

func (p *Parser) rawNext() lexer.Token {
	for {
		t, err := p.lex.Next()
		if err != nil {
			p.lexErr = err
			return lexer.Token{Type: lexer.EOF}
		}
		switch t.Type {
		case lexer.WHITESPACE:
			p.pendingBlank += t.BlankLinesBefore
			continue
		case lexer.LINE_COMMENT, lexer.BLOCK_COMMENT:
			style := ast.LineComment
			if t.Type == lexer.BLOCK_COMMENT {
				style = ast.BlockComment
			}
			p.pendingComments = append(p.pendingComments, &ast.Comment{
				Text: t.Raw, Style: style, BlankLinesBefore: p.pendingBlank, TokPos: t.Pos,
			})
			p.pendingBlank = 0
			continue
		default:
			return t
		}
	}
}

func (p *Parser) advance() {
	if p.hasPeek {
		p.tok = p.peekTok
		p.hasPeek = false
		return
	}
	p.tok = p.rawNext()
}

func (p *Parser) peek() lexer.Token {
	if !p.hasPeek {
		p.peekTok = p.rawNext()
		p.hasPeek = true
	}
	return p.peekTok
}

// takeLeading detaches and returns the comments/blank-line count
// accumulated since the last call, for attachment to the next statement.
func (p *Parser) takeLeading() ([]*ast.Comment, int) {
	c, b := p.pendingComments, p.pendingBlank
	p.pendingComments = nil
	p.pendingBlank = 0
	return c, b
}

func (p *Parser) is(tt lexer.TokenType) bool     { return p.tok.Type == tt }
func (p *Parser) peekIs(tt lexer.TokenType) bool { return p.peek().Type == tt }

func (p *Parser) eat(tt lexer.TokenType) lexer.Token {
	if p.tok.Type != tt {
		p.errorExpected(tt.String(), "expected %s, got %q", tt, p.tokenDesc())
	}
	t := p.tok
	p.advance()
	return t
}

func (p *Parser) tryEat(tt lexer.TokenType) (lexer.Token, bool) {
	if p.tok.Type == tt {
		t := p.tok
		p.advance()
		return t, true
	}
	return lexer.Token{}, false
}

func (p *Parser) tokenDesc() string {
	if p.tok.Type == lexer.EOF {
		return "EOF"
	}
	if len(p.tok.Raw) > 0 {
		return string(p.tok.Raw)
	}
	return p.tok.Type.String()
}

func (p *Parser) errorf(format string, args ...any) {
	panic(&ParseError{Msg: fmt.Sprintf(format, args...), Token: p.tokenDesc(), Pos: p.tok.Pos, Line: p.tok.Line, Col: p.tok.Col})
}

// errorExpected is errorf plus the Expected field, for call sites that know
// what construct or token type they were looking for.
func (p *Parser) errorExpected(expected, format string, args ...any) {
	panic(&ParseError{Msg: fmt.Sprintf(format, args...), Expected: expected, Token: p.tokenDesc(), Pos: p.tok.Pos, Line: p.tok.Line, Col: p.tok.Col})
}

// enter/leave guard recursive-descent nesting depth. MaxDepthError is a
// hard security invariant: it is raised the instant depth is exceeded and
// is never caught by the statement-recovery loop.
func (p *Parser) enter() {
	p.depth++
	if p.depth > p.opts.MaxDepth {
		panic(&MaxDepthError{
			ParseError: &ParseError{Msg: "maximum nesting depth exceeded", Pos: p.tok.Pos, Line: p.tok.Line, Col: p.tok.Col},
			Depth:      p.opts.MaxDepth,
		})
	}
}

func (p *Parser) leave() { p.depth-- }
