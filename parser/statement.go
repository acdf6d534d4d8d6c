package parser

import (
	"github.com/oarkflow/sqlriver/ast"
	"github.com/oarkflow/sqlriver/dialect"
	"github.com/oarkflow/sqlriver/lexer"
)

// parseStatement dispatches on the current token's leading keyword. A
// dialect may override the default structured handling for a given
// starter via Profile.StatementHandlers (verbatim-unsupported,
// single-line-unsupported, or delimiter-script), checked before the
// structured switch runs.
func (p *Parser) parseStatement() ast.Statement {
	p.enter()
	defer p.leave()

	if h, ok := p.profile.StatementHandlers[p.tok.Type]; ok && h != dialect.HandlerStructured {
		return p.parseByHandler(h)
	}

	switch p.tok.Type {
	case lexer.SELECT, lexer.WITH:
		return p.parseSelectOrUnion()
	case lexer.INSERT, lexer.REPLACE:
		return p.parseInsert()
	case lexer.UPDATE:
		return p.parseUpdate()
	case lexer.DELETE:
		return p.parseDelete()
	case lexer.MERGE:
		return p.parseMerge()
	case lexer.VALUES:
		return p.parseStandaloneValues()
	case lexer.CREATE:
		return p.parseCreate()
	case lexer.ALTER:
		return p.parseAlter()
	case lexer.DROP:
		return p.parseDrop()
	case lexer.TRUNCATE:
		return p.parseTruncate()
	case lexer.USE:
		return p.parseUse()
	case lexer.SHOW:
		return p.parseShow()
	case lexer.EXPLAIN, lexer.DESCRIBE, lexer.DESC:
		return p.parseExplain()
	case lexer.CALL:
		return p.parseCall()
	case lexer.GRANT:
		return p.parseGrant()
	case lexer.REVOKE:
		return p.parseRevoke()
	case lexer.COPY:
		return p.parseCopy()
	case lexer.BEGIN, lexer.COMMIT, lexer.ROLLBACK, lexer.SAVEPOINT, lexer.RELEASE, lexer.START:
		return p.parseTransaction()
	case lexer.SET:
		return p.parseSetStmt()
	case lexer.DECLARE, lexer.PREPARE, lexer.EXECUTE, lexer.DEALLOCATE, lexer.VACUUM, lexer.ANALYZE:
		return p.parseSessionStmt()
	}

	p.errorf("unexpected token %q at start of statement", p.tokenDesc())
	return nil
}

// parseByHandler consumes a statement whose grammar this parser
// deliberately does not model structurally, per the dialect's
// StatementHandler override.
func (p *Parser) parseByHandler(h dialect.StatementHandler) ast.Statement {
	pos := p.tok.Pos
	end := pos
	switch h {
	case dialect.HandlerSingleLineUnsupported:
		startLine := p.tok.Line
		for !p.is(lexer.EOF) && p.tok.Line == startLine {
			end = p.tok.Pos + int32(len(p.tok.Raw))
			p.advance()
		}
		return &ast.Raw{Text: p.sliceSrc(pos, end), Reason: ast.RawUnsupported, TokPos: pos}
	case dialect.HandlerDelimiterScript:
		// The statement-boundary heuristic the recovery loop already uses
		// (consume to ';' or EOF) is insufficient once a custom delimiter
		// is in effect; until a dedicated delimiter-aware lexer mode
		// exists, treat the rest of the script as one verbatim span.
		for !p.is(lexer.EOF) {
			end = p.tok.Pos + int32(len(p.tok.Raw))
			p.advance()
		}
		return &ast.Raw{Text: p.sliceSrc(pos, end), Reason: ast.RawVerbatim, TokPos: pos}
	default: // HandlerVerbatimUnsupported
		for !p.is(lexer.SEMICOLON) && !p.is(lexer.EOF) {
			end = p.tok.Pos + int32(len(p.tok.Raw))
			p.advance()
		}
		return &ast.Raw{Text: p.sliceSrc(pos, end), Reason: ast.RawUnsupported, TokPos: pos}
	}
}
