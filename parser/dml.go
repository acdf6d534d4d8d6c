package parser

import (
	"github.com/oarkflow/sqlriver/ast"
	"github.com/oarkflow/sqlriver/lexer"
)

// parseInsert parses INSERT [IGNORE] INTO / REPLACE INTO, with VALUES
// rows or a SELECT source, and the MySQL ON DUPLICATE KEY UPDATE /
// postgres ON CONFLICT upsert tails plus RETURNING.
func (p *Parser) parseInsert() *ast.InsertStmt {
	pos := p.tok.Pos
	replace := p.is(lexer.REPLACE)
	p.advance() // INSERT | REPLACE
	stmt := &ast.InsertStmt{TokPos: pos, Replace: replace}
	stmt.Ignore = p.tryEatBool(lexer.IGNORE)
	p.eat(lexer.INTO)
	stmt.Table = p.parseQualifiedIdent()
	if p.is(lexer.LPAREN) {
		p.advance()
		stmt.Columns = p.parseIdentList()
		p.eat(lexer.RPAREN)
	}

	switch {
	case p.is(lexer.VALUES):
		p.advance()
		for {
			p.eat(lexer.LPAREN)
			row := p.parseExprList()
			p.eat(lexer.RPAREN)
			stmt.Values = append(stmt.Values, row)
			if !p.tryEatBool(lexer.COMMA) {
				break
			}
		}
	case p.is(lexer.SELECT) || p.is(lexer.WITH):
		stmt.Select = p.parseSelect()
	case p.tryEatBool(lexer.DEFAULT):
		p.eat(lexer.VALUES)
	}

	if p.tryEatBool(lexer.ON) {
		switch {
		case p.tok.Upper == "DUPLICATE":
			p.advance()
			p.eat(lexer.KEY)
			p.eat(lexer.UPDATE)
			stmt.OnDupKey = p.parseAssignments()
		case p.is(lexer.CONFLICT):
			p.advance()
			if p.is(lexer.LPAREN) {
				p.advance()
				stmt.OnConflictTarget = p.parseIdentList()
				p.eat(lexer.RPAREN)
			}
			p.eat(lexer.DO)
			if p.tryEatBool(lexer.NOTHING) {
				stmt.OnConflictDoNothing = true
			} else {
				p.eat(lexer.UPDATE)
				p.eat(lexer.SET)
				stmt.OnConflictUpdate = p.parseAssignments()
			}
		}
	}

	if p.tryEatBool(lexer.RETURNING) {
		stmt.Returning = p.parseSelectColumns()
	}
	return stmt
}

func (p *Parser) parseAssignments() []ast.Assignment {
	var out []ast.Assignment
	for {
		col := p.parseIdent()
		p.eat(lexer.EQ)
		val := p.parseExpr(precLowest)
		out = append(out, ast.Assignment{Column: col, Value: val})
		if !p.tryEatBool(lexer.COMMA) {
			break
		}
	}
	return out
}

func (p *Parser) parseUpdate() *ast.UpdateStmt {
	pos := p.tok.Pos
	p.advance() // UPDATE
	stmt := &ast.UpdateStmt{TokPos: pos}
	stmt.Tables = p.parseTableRefs()
	p.eat(lexer.SET)
	stmt.Set = p.parseAssignments()
	if p.tryEatBool(lexer.FROM) {
		stmt.From = p.parseTableRefs()
	}
	if p.tryEatBool(lexer.WHERE) {
		stmt.Where = p.parseExpr(precLowest)
	}
	if p.is(lexer.ORDER) && p.peek().Type == lexer.BY {
		p.advance()
		p.advance()
		stmt.Order = p.parseOrderBy()
	}
	if p.tryEatBool(lexer.LIMIT) {
		stmt.Limit = p.parseLimit()
	}
	if p.tryEatBool(lexer.RETURNING) {
		stmt.Returning = p.parseSelectColumns()
	}
	return stmt
}

func (p *Parser) parseDelete() *ast.DeleteStmt {
	pos := p.tok.Pos
	p.advance() // DELETE
	stmt := &ast.DeleteStmt{TokPos: pos}
	// MySQL multi-table form names targets before FROM: DELETE t1, t2 FROM ...
	multiTable := !p.is(lexer.FROM)
	if multiTable {
		stmt.Tables = append(stmt.Tables, p.parseQualifiedIdent())
		for p.tryEatBool(lexer.COMMA) {
			stmt.Tables = append(stmt.Tables, p.parseQualifiedIdent())
		}
	}
	p.eat(lexer.FROM)
	if multiTable {
		stmt.From = p.parseTableRefs()
	} else {
		stmt.Tables = append(stmt.Tables, p.parseQualifiedIdent())
		for p.tryEatBool(lexer.COMMA) {
			stmt.Tables = append(stmt.Tables, p.parseQualifiedIdent())
		}
	}
	if p.tryEatBool(lexer.USING) {
		stmt.Using = p.parseTableRefs()
	}
	if p.tryEatBool(lexer.WHERE) {
		stmt.Where = p.parseExpr(precLowest)
	}
	if p.is(lexer.ORDER) && p.peek().Type == lexer.BY {
		p.advance()
		p.advance()
		stmt.Order = p.parseOrderBy()
	}
	if p.tryEatBool(lexer.LIMIT) {
		stmt.Limit = p.parseLimit()
	}
	if p.tryEatBool(lexer.RETURNING) {
		stmt.Returning = p.parseSelectColumns()
	}
	return stmt
}

// parseMerge parses MERGE INTO target USING source ON cond
// WHEN [NOT] MATCHED [BY SOURCE|BY TARGET] [AND cond] THEN
//
//	UPDATE SET ... | DELETE | INSERT (...) VALUES (...) | DO NOTHING
func (p *Parser) parseMerge() *ast.Merge {
	pos := p.tok.Pos
	p.advance() // MERGE
	p.tryEatBool(lexer.INTO)
	m := &ast.Merge{TokPos: pos}
	m.Target = p.parseTableRefPrimary()
	p.eat(lexer.USING)
	m.Source = p.parseTableRefPrimary()
	p.eat(lexer.ON)
	m.On = p.parseExpr(precLowest)

	for p.is(lexer.WHEN) {
		p.advance()
		w := &ast.MergeWhen{}
		if p.tryEatBool(lexer.NOT) {
			w.Matched = false
			p.eat(lexer.MATCHED)
		} else {
			w.Matched = true
			p.eat(lexer.MATCHED)
		}
		if p.tryEatBool(lexer.BY) {
			if p.tok.Upper == "SOURCE" {
				p.advance()
				w.BySource = true
			} else if p.tok.Upper == "TARGET" {
				p.advance()
			}
		}
		if p.tryEatBool(lexer.AND) {
			w.Condition = p.parseExpr(precLowest)
		}
		p.eat(lexer.THEN)
		switch {
		case p.tryEatBool(lexer.UPDATE):
			w.Action = ast.MergeUpdate
			p.eat(lexer.SET)
			w.Update = p.parseAssignments()
		case p.tryEatBool(lexer.DELETE):
			w.Action = ast.MergeDelete
		case p.tryEatBool(lexer.INSERT):
			w.Action = ast.MergeInsertAction
			ins := &ast.MergeInsert{}
			if p.is(lexer.LPAREN) {
				p.advance()
				ins.Columns = p.parseIdentList()
				p.eat(lexer.RPAREN)
			}
			if p.tok.Upper == "DEFAULT" && p.peek().Type == lexer.VALUES {
				p.advance()
				p.advance()
				ins.DefaultRow = true
			} else {
				p.eat(lexer.VALUES)
				p.eat(lexer.LPAREN)
				ins.Values = p.parseExprList()
				p.eat(lexer.RPAREN)
			}
			w.Insert = ins
		case p.tryEatBool(lexer.DO):
			p.eat(lexer.NOTHING)
			w.Action = ast.MergeDoNothing
		}
		m.WhenClauses = append(m.WhenClauses, w)
	}
	return m
}
