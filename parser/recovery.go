package parser

import (
	"bytes"

	"github.com/oarkflow/sqlriver/ast"
	"github.com/oarkflow/sqlriver/lexer"
)

// ParseOne skips any ';' separators, then parses exactly one statement and
// does not recover from errors regardless of Options.Recover — callers who
// want a single well-formed statement should use this instead of ParseAll.
func (p *Parser) ParseOne() (ast.Statement, error) {
	if p.lexErr != nil {
		return nil, p.lexErr
	}
	p.skipStatementSeparators()
	if p.is(lexer.EOF) {
		return nil, nil
	}
	return p.parseStatementGuarded(0, false)
}

// ParseAll parses every statement in the source, separated by ';'. When
// Options.Recover is true, a ParseError skips ahead to the next ';',
// captures the verbatim source span from the statement's start through
// that ';' as an ast.Raw node, classifies it, invokes
// OnRecover, and continues with the next statement. MaxDepthError is never
// recovered: it always aborts the whole parse.
func (p *Parser) ParseAll() ([]StatementResult, error) {
	var results []StatementResult
	idx := 0
	for {
		p.skipStatementSeparators()
		leading, blank := p.takeLeading()
		if p.is(lexer.EOF) {
			if len(leading) > 0 {
				// Trailing file comments with no following statement: keep
				// them visible by attaching to a zero-width comment-only Raw
				// whose Text is the joined comment text, per the Raw-text
				// contract (LeadingComments also keeps the per-comment detail).
				results = append(results, StatementResult{
					Stmt:             &ast.Raw{Text: joinComments(leading), Reason: ast.RawCommentOnly, TokPos: p.tok.Pos},
					LeadingComments:  leading,
					BlankLinesBefore: blank,
				})
			}
			break
		}
		stmt, err := p.parseStatementGuarded(idx, p.opts.Recover)
		if err != nil {
			return results, err
		}
		if stmt == nil {
			break
		}
		results = append(results, StatementResult{Stmt: stmt, LeadingComments: leading, BlankLinesBefore: blank})
		idx++
	}
	if p.lexErr != nil {
		return results, p.lexErr
	}
	return results, nil
}

func (p *Parser) skipStatementSeparators() {
	for p.is(lexer.SEMICOLON) {
		p.advance()
	}
}

// parseStatementGuarded parses one statement, converting a recovered
// ParseError into a Raw node when recover is true. MaxDepthError always
// propagates.
func (p *Parser) parseStatementGuarded(stmtIndex int, recover_ bool) (stmt ast.Statement, err error) {
	startPos := p.tok.Pos
	startLine, startCol := p.tok.Line, p.tok.Col
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if mde, ok := r.(*MaxDepthError); ok {
			stmt, err = nil, mde
			return
		}
		pe, ok := r.(*ParseError)
		if !ok {
			panic(r)
		}
		if !recover_ {
			err = pe
			return
		}
		text := p.recoverRawSpan(startPos)
		reason := classifyRawReason(text, pe)
		stmt = &ast.Raw{Text: text, Reason: reason, TokPos: startPos}
		_ = startLine
		_ = startCol
		if p.opts.OnRecover != nil {
			p.opts.OnRecover(stmtIndex, pe)
		}
	}()
	return p.parseStatement(), nil
}

// recoverRawSpan advances the token stream to the next top-level ';' (or
// EOF) and returns the verbatim source bytes from startPos to the end of
// the consumed span, per the "consume to next ';'" statement-boundary
// heuristic. CREATE FUNCTION/PROCEDURE/TRIGGER ... END bodies are captured
// by parseCreateRoutineVerbatim and do not reach here. A COPY ... FROM
// STDIN data block gets no special handling: its rows are parsed as the
// next statement, which fails and lands here, so the Raw span runs from
// the first data row through the next ';'.
func (p *Parser) recoverRawSpan(startPos int32) []byte {
	for !p.is(lexer.SEMICOLON) && !p.is(lexer.EOF) {
		p.advance()
	}
	end := p.tok.Pos
	if p.is(lexer.SEMICOLON) {
		end = p.tok.Pos + int32(len(p.tok.Raw))
	}
	return p.sliceSrc(startPos, end)
}

func (p *Parser) sliceSrc(start, end int32) []byte {
	src := p.lex.Source()
	if int(start) < 0 || int(end) > len(src) || start > end {
		return nil
	}
	return src[start:end]
}

// joinComments concatenates a run of comments' raw text with newlines,
// matching how they appear in source, for use as a comment-only Raw's Text.
func joinComments(comments []*ast.Comment) []byte {
	if len(comments) == 0 {
		return nil
	}
	var out []byte
	for i, c := range comments {
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, c.Text...)
	}
	return out
}

var transactionPrefixes = [][]byte{
	[]byte("BEGIN"), []byte("COMMIT"), []byte("ROLLBACK"), []byte("SAVEPOINT"),
	[]byte("RELEASE"), []byte("START"), []byte("END"),
}

// classifyRawReason applies a cheap prefix sniff followed by nothing more
// elaborate than that: the dominant signal is simply "we got here via a
// real ParseError", so most spans land on RawParseError. Transaction
// control statements get their own reason because a caller reassembling a
// script often wants to special-case them (e.g. a printer replaying
// transaction boundaries around otherwise-dropped statements).
func classifyRawReason(text []byte, pe *ParseError) ast.RawReason {
	trimmed := bytes.TrimSpace(text)
	if len(trimmed) == 0 {
		return ast.RawCommentOnly
	}
	upper := bytes.ToUpper(trimmed)
	for _, prefix := range transactionPrefixes {
		if bytes.HasPrefix(upper, prefix) {
			return ast.RawTransactionControl
		}
	}
	return ast.RawParseError
}
