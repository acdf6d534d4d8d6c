package parser

import (
	"github.com/oarkflow/sqlriver/ast"
	"github.com/oarkflow/sqlriver/lexer"
)

func (p *Parser) parseTruncate() *ast.TruncateStmt {
	pos := p.tok.Pos
	p.advance() // TRUNCATE
	p.tryEatBool(lexer.TABLE)
	return &ast.TruncateStmt{Table: p.parseQualifiedIdent(), TokPos: pos}
}

func (p *Parser) parseUse() *ast.UseStmt {
	pos := p.tok.Pos
	p.advance() // USE
	return &ast.UseStmt{Database: p.parseIdent(), TokPos: pos}
}

// parseShow covers SHOW TABLES/DATABASES/COLUMNS/... [LIKE 'pattern']
// [WHERE expr]; What captures the raw keyword(s) naming the object since
// the set of showable things is dialect-specific and open-ended.
func (p *Parser) parseShow() *ast.ShowStmt {
	pos := p.tok.Pos
	p.advance() // SHOW
	stmt := &ast.ShowStmt{TokPos: pos}
	var what []byte
	for !p.is(lexer.EOF) && !p.is(lexer.SEMICOLON) && !p.is(lexer.LIKE) && !p.is(lexer.WHERE) {
		if len(what) > 0 {
			what = append(what, ' ')
		}
		what = append(what, p.tok.Raw...)
		p.advance()
	}
	stmt.What = what
	if p.tryEatBool(lexer.LIKE) {
		t := p.eat(lexer.STRING)
		stmt.Like = &ast.Literal{Raw: t.Raw, Kind: t.Type, TokPos: t.Pos}
	}
	if p.tryEatBool(lexer.WHERE) {
		stmt.Where = p.parseExpr(precLowest)
	}
	return stmt
}

func (p *Parser) parseExplain() *ast.ExplainStmt {
	pos := p.tok.Pos
	p.advance() // EXPLAIN | DESCRIBE | DESC
	p.tryEatBool(lexer.ANALYZE)
	return &ast.ExplainStmt{Stmt: p.parseStatement(), TokPos: pos}
}

func (p *Parser) parseCall() *ast.CallStmt {
	pos := p.tok.Pos
	p.advance() // CALL
	stmt := &ast.CallStmt{TokPos: pos}
	stmt.Name = p.parseQualifiedIdent()
	if p.tryEatBool(lexer.LPAREN) {
		if !p.is(lexer.RPAREN) {
			stmt.Args = p.parseExprList()
		}
		p.eat(lexer.RPAREN)
	}
	return stmt
}

func (p *Parser) parseGrant() *ast.Grant {
	pos := p.tok.Pos
	p.advance() // GRANT
	g := &ast.Grant{TokPos: pos}
	g.Privileges = p.parsePrivilegeList()
	p.eat(lexer.ON)
	g.Object = p.parseQualifiedIdent()
	p.eat(lexer.TO)
	g.Grantees = p.parseIdentList()
	if p.is(lexer.WITH) {
		p.advance()
		p.advance() // GRANT
		p.advance() // OPTION
		g.WithGrant = true
	}
	return g
}

func (p *Parser) parseRevoke() *ast.Revoke {
	pos := p.tok.Pos
	p.advance() // REVOKE
	r := &ast.Revoke{TokPos: pos}
	r.Privileges = p.parsePrivilegeList()
	p.eat(lexer.ON)
	r.Object = p.parseQualifiedIdent()
	p.eat(lexer.FROM)
	r.Grantees = p.parseIdentList()
	if p.is(lexer.CASCADE) {
		p.advance()
		r.Cascade = true
	}
	return r
}

// parsePrivilegeList parses a comma-separated privilege list. ALL is a
// valid privilege name here (ALL PRIVILEGES); most entries (SELECT,
// INSERT, UPDATE, DELETE, ...) are themselves statement keywords used as
// bare names in this position, so each entry is read token-by-token
// rather than restricted to IDENT.
func (p *Parser) parsePrivilegeList() []*ast.Ident {
	var out []*ast.Ident
	for {
		t := p.tok
		p.advance()
		out = append(out, &ast.Ident{Raw: t.Raw, Unquoted: string(t.Raw), TokPos: t.Pos})
		if p.tok.Upper == "PRIVILEGES" {
			p.advance()
		}
		if !p.tryEatBool(lexer.COMMA) {
			break
		}
	}
	return out
}

// parseCopy parses COPY table [(cols)] FROM STDIN|'path'|PROGRAM '...'
// [WITH (...)] or COPY table TO STDOUT. The WITH options tail is captured
// verbatim, since option grammar is a long, provider-specific key/value
// grab bag. The STDIN data payload is not captured: Payload stays nil.
func (p *Parser) parseCopy() *ast.CopyStmt {
	pos := p.tok.Pos
	p.advance() // COPY
	stmt := &ast.CopyStmt{TokPos: pos}
	stmt.Table = p.parseQualifiedIdent()
	if p.is(lexer.LPAREN) {
		p.advance()
		stmt.Columns = p.parseIdentList()
		p.eat(lexer.RPAREN)
	}
	switch {
	case p.tryEatBool(lexer.FROM):
		if p.is(lexer.STDIN) || p.tok.Upper == "STDIN" {
			p.advance()
			stmt.FromStdin = true
		} else {
			start := p.tok.Pos
			if p.tok.Upper == "PROGRAM" {
				p.advance()
			}
			p.advance()
			stmt.Source = p.sliceSrc(start, p.tok.Pos)
		}
	case p.is(lexer.TO):
		p.advance()
		if p.tok.Upper == "STDOUT" {
			p.advance()
			stmt.ToStdout = true
		} else {
			start := p.tok.Pos
			p.advance()
			stmt.Source = p.sliceSrc(start, p.tok.Pos)
		}
	}
	if p.is(lexer.WITH) {
		start := p.tok.Pos
		for !p.is(lexer.SEMICOLON) && !p.is(lexer.EOF) {
			p.advance()
		}
		stmt.Options = p.sliceSrc(start, p.tok.Pos)
	}
	// The STDIN data rows and their "\." terminator follow this
	// statement's ';' and are not consumed here; ParseAll reads them as
	// the start of the next statement (see recoverRawSpan in recovery.go).
	return stmt
}

// parseTransaction covers BEGIN/COMMIT/ROLLBACK/SAVEPOINT/RELEASE/START
// TRANSACTION, keeping the action name and trailing options verbatim
// rather than structurally (isolation-level syntax varies widely by
// dialect and carries no semantic weight for a formatter).
func (p *Parser) parseTransaction() *ast.TransactionStmt {
	pos := p.tok.Pos
	actionType := p.tok.Type
	action := p.tok.Raw
	p.advance()
	stmt := &ast.TransactionStmt{Action: action, TokPos: pos}
	switch {
	case p.is(lexer.TO): // ROLLBACK TO [SAVEPOINT] name
		p.advance()
		p.tryEatBool(lexer.SAVEPOINT)
		stmt.Savepoint = p.parseIdent()
	case p.is(lexer.SAVEPOINT): // RELEASE SAVEPOINT name
		p.advance()
		stmt.Savepoint = p.parseIdent()
	case (actionType == lexer.SAVEPOINT || actionType == lexer.RELEASE) && p.is(lexer.IDENT):
		stmt.Savepoint = p.parseIdent()
	}
	for !p.is(lexer.SEMICOLON) && !p.is(lexer.EOF) {
		stmt.Options = append(stmt.Options, p.tok.Raw)
		p.advance()
	}
	return stmt
}

// parseSetStmt handles SET TRANSACTION ..., returned as a TransactionStmt,
// and SET [GLOBAL|SESSION|LOCAL] name = value [, ...], returned as the
// permissive GenericDDLStmt shape since SET's grammar is a long tail of
// provider-specific session variables with no shared structure worth
// modeling node-by-node.
func (p *Parser) parseSetStmt() ast.Statement {
	pos := p.tok.Pos
	p.advance() // SET
	if p.is(lexer.TRANSACTION) {
		p.advance()
		stmt := &ast.TransactionStmt{Action: []byte("SET TRANSACTION"), TokPos: pos}
		for !p.is(lexer.SEMICOLON) && !p.is(lexer.EOF) {
			stmt.Options = append(stmt.Options, p.tok.Raw)
			p.advance()
		}
		return stmt
	}
	p.tryEatBool(lexer.GLOBAL)
	p.tryEatBool(lexer.SESSION)
	p.tryEatBool(lexer.LOCAL)
	stmt := &ast.GenericDDLStmt{Verb: []byte("SET"), TokPos: pos}
	if p.is(lexer.IDENT) {
		stmt.Name = p.parseIdent()
	} else {
		stmt.Object = p.tok.Raw
		p.advance()
	}
	for !p.is(lexer.SEMICOLON) && !p.is(lexer.EOF) {
		p.advance()
	}
	return stmt
}

// parseSessionStmt covers DECLARE/PREPARE/EXECUTE/DEALLOCATE/VACUUM/
// ANALYZE: a structured verb + primary name, with the remainder of the
// statement kept verbatim in Tail.
func (p *Parser) parseSessionStmt() *ast.SessionStmt {
	pos := p.tok.Pos
	verb := p.tok.Raw
	p.advance()
	stmt := &ast.SessionStmt{Verb: verb, TokPos: pos}
	if p.is(lexer.IDENT) {
		stmt.Name = p.parseIdent()
	}
	start := p.tok.Pos
	for !p.is(lexer.SEMICOLON) && !p.is(lexer.EOF) {
		p.advance()
	}
	stmt.Tail = p.sliceSrc(start, p.tok.Pos)
	return stmt
}
