package parser

import (
	"github.com/oarkflow/sqlriver/ast"
	"github.com/oarkflow/sqlriver/lexer"
)

// parseSelect parses a full SELECT, including an optional leading WITH
// clause and a trailing UNION/INTERSECT/EXCEPT chain. Its callers
// (subqueries, CTE bodies, INSERT ... SELECT, CREATE ... AS) need a
// *ast.SelectStmt, so the chain hangs off SelectStmt.SetOp, each
// operation's Right carrying the next one in source order. Top-level
// statements go through parseSelectOrUnion, which builds an ast.Union.
func (p *Parser) parseSelect() *ast.SelectStmt {
	p.enter()
	defer p.leave()
	var with *ast.WithClause
	if p.is(lexer.WITH) {
		with = p.parseWith()
	}
	stmt := p.parseSelectCore()
	stmt.With = with
	for tail := stmt; p.is(lexer.UNION) || p.is(lexer.INTERSECT) || p.is(lexer.EXCEPT); tail = tail.SetOp.Right {
		op := ast.UnionOp
		if p.is(lexer.INTERSECT) {
			op = ast.IntersectOp
		} else if p.is(lexer.EXCEPT) {
			op = ast.ExceptOp
		}
		p.advance()
		all := p.tryEatBool(lexer.ALL)
		tail.SetOp = &ast.SetOperation{Op: op, All: all, Right: p.parseSelectCore()}
	}
	return stmt
}

// parseSelectOrUnion is like parseSelect but returns the full Union chain
// as a Statement when one or more set operators follow, matching what
// top-level SELECT statements actually need (parseSelect itself is also
// used for subqueries, where callers want just the *ast.SelectStmt core
// plus its own WITH, not a chain wrapper). A top-level WITH may also lead
// into INSERT/REPLACE, UPDATE or DELETE, whose With field it then fills.
func (p *Parser) parseSelectOrUnion() ast.Statement {
	p.enter()
	defer p.leave()
	var with *ast.WithClause
	if p.is(lexer.WITH) {
		with = p.parseWith()
		switch p.tok.Type {
		case lexer.INSERT, lexer.REPLACE:
			ins := p.parseInsert()
			ins.With = with
			return ins
		case lexer.UPDATE:
			upd := p.parseUpdate()
			upd.With = with
			return upd
		case lexer.DELETE:
			del := p.parseDelete()
			del.With = with
			return del
		}
	}
	left := p.parseSelectCore()
	var chain ast.Statement = left
	for {
		var op ast.SetOp
		switch p.tok.Type {
		case lexer.UNION:
			op = ast.UnionOp
		case lexer.INTERSECT:
			op = ast.IntersectOp
		case lexer.EXCEPT:
			op = ast.ExceptOp
		default:
			if with != nil {
				if sel, ok := chain.(*ast.SelectStmt); ok {
					sel.With = with
					return sel
				}
				return &ast.WithSelect{With: with, Select: chain, TokPos: left.TokPos}
			}
			return chain
		}
		pos := p.tok.Pos
		p.advance()
		all := p.tryEatBool(lexer.ALL)
		right := p.parseSelectCore()
		chain = &ast.Union{Left: chain, Op: op, All: all, Right: right, TokPos: pos}
	}
}

func (p *Parser) parseSelectCore() *ast.SelectStmt {
	pos := p.tok.Pos
	p.eat(lexer.SELECT)
	stmt := &ast.SelectStmt{TokPos: pos}
	stmt.Distinct = p.tryEatBool(lexer.DISTINCT)
	if stmt.Distinct && p.tryEatBool(lexer.ON) {
		p.eat(lexer.LPAREN)
		stmt.DistinctOn = p.parseExprList()
		p.eat(lexer.RPAREN)
	}
	p.tryEatBool(lexer.ALL)

	stmt.Columns = p.parseSelectColumns()

	if p.tryEatBool(lexer.FROM) {
		stmt.From = p.parseTableRefs()
	}

	if p.tryEatBool(lexer.WHERE) {
		stmt.Where = p.parseExpr(precLowest)
	}

	if p.is(lexer.GROUP) && p.peek().Type == lexer.BY {
		p.advance()
		p.advance()
		if gs := p.tryParseGroupingSets(); gs != nil {
			stmt.GroupingSets = gs
		} else {
			stmt.GroupBy = p.parseExprList()
		}
	}

	if p.tryEatBool(lexer.HAVING) {
		stmt.Having = p.parseExpr(precLowest)
	}

	if p.is(lexer.WINDOW) {
		p.advance()
		stmt.Windows = p.parseWindowDefs()
	}

	if p.is(lexer.ORDER) && p.peek().Type == lexer.BY {
		p.advance()
		p.advance()
		stmt.OrderBy = p.parseOrderBy()
	}

	if p.tryEatBool(lexer.LIMIT) {
		stmt.Limit = p.parseLimit()
	}

	return stmt
}

// tryParseGroupingSets recognizes GROUPING SETS (...)/ROLLUP(...)/CUBE(...)
// immediately after GROUP BY; returns nil if the GROUP BY list is ordinary.
func (p *Parser) tryParseGroupingSets() *ast.GroupingSetsClause {
	var kind ast.GroupingKind
	switch {
	case p.is(lexer.GROUPING) && p.peek().Type == lexer.SETS:
		kind = ast.GroupingSets
		p.advance()
		p.advance()
	case p.is(lexer.ROLLUP):
		kind = ast.GroupingRollup
		p.advance()
	case p.is(lexer.CUBE):
		kind = ast.GroupingCube
		p.advance()
	default:
		return nil
	}
	p.eat(lexer.LPAREN)
	gsc := &ast.GroupingSetsClause{Kind: kind}
	for {
		if p.is(lexer.LPAREN) {
			p.advance()
			var set []ast.Expr
			if !p.is(lexer.RPAREN) {
				set = p.parseExprList()
			}
			p.eat(lexer.RPAREN)
			gsc.Sets = append(gsc.Sets, set)
		} else {
			gsc.Sets = append(gsc.Sets, []ast.Expr{p.parseExpr(precLowest)})
		}
		if !p.tryEatBool(lexer.COMMA) {
			break
		}
	}
	p.eat(lexer.RPAREN)
	return gsc
}

func (p *Parser) parseWindowDefs() []ast.WindowDef {
	var defs []ast.WindowDef
	for {
		name := p.parseIdent()
		p.eat(lexer.AS)
		p.eat(lexer.LPAREN)
		spec := &ast.WindowSpec{}
		if p.is(lexer.IDENT) {
			spec.Name = p.parseIdent()
		}
		if p.tryEatBool(lexer.PARTITION) {
			p.eat(lexer.BY)
			spec.Partition = p.parseExprList()
		}
		if p.is(lexer.ORDER) {
			p.advance()
			p.eat(lexer.BY)
			spec.OrderBy = p.parseOrderBy()
		}
		if p.is(lexer.ROWS) || p.is(lexer.RANGE) || p.is(lexer.GROUPS) {
			spec.Frame = p.parseFrameClause()
		}
		p.eat(lexer.RPAREN)
		defs = append(defs, ast.WindowDef{Name: name, Spec: spec})
		if !p.tryEatBool(lexer.COMMA) {
			break
		}
	}
	return defs
}

// parseWith parses WITH [RECURSIVE] name [(cols)] AS [[NOT] MATERIALIZED]
// (select) [, ...], including the SEARCH/CYCLE clauses that may trail a
// recursive CTE's closing paren.
func (p *Parser) parseWith() *ast.WithClause {
	p.advance() // WITH
	w := &ast.WithClause{}
	w.Recursive = p.tryEatBool(lexer.RECURSIVE)
	for {
		cte := ast.CTE{Name: p.parseIdent()}
		if p.is(lexer.LPAREN) {
			p.advance()
			cte.Columns = p.parseIdentList()
			p.eat(lexer.RPAREN)
		}
		p.eat(lexer.AS)
		if p.is(lexer.NOT) {
			p.advance()
			p.eat(lexer.MATERIALIZED)
			f := false
			cte.Materialized = &f
		} else if p.is(lexer.MATERIALIZED) {
			p.advance()
			t := true
			cte.Materialized = &t
		}
		p.eat(lexer.LPAREN)
		cte.Subq = p.parseSelect()
		p.eat(lexer.RPAREN)
		if p.is(lexer.SEARCH) {
			cte.Search = p.parseSearchClause()
		}
		if p.is(lexer.CYCLE) {
			cte.Cycle = p.parseCycleClause()
		}
		w.CTEs = append(w.CTEs, cte)
		if !p.tryEatBool(lexer.COMMA) {
			break
		}
	}
	return w
}

func (p *Parser) parseSearchClause() *ast.SearchClause {
	p.advance() // SEARCH
	sc := &ast.SearchClause{}
	switch {
	case p.is(lexer.BREADTH):
		sc.Breadth = true
		p.advance()
	case p.is(lexer.DEPTH):
		p.advance()
	}
	p.eat(lexer.FIRST)
	p.eat(lexer.BY)
	sc.Columns = p.parseIdentList()
	p.eat(lexer.SET)
	sc.SetName = p.parseIdent()
	return sc
}

func (p *Parser) parseCycleClause() *ast.CycleClause {
	p.advance() // CYCLE
	cc := &ast.CycleClause{}
	cc.Columns = p.parseIdentList()
	p.eat(lexer.SET)
	cc.MarkColumn = p.parseIdent()
	if p.tryEatBool(lexer.TO) {
		cc.MarkValue = p.parseExpr(precLowest)
		p.eat(lexer.DEFAULT)
		cc.DefaultVal = p.parseExpr(precLowest)
	}
	p.eat(lexer.USING)
	cc.PathColumn = p.parseIdent()
	return cc
}

func (p *Parser) parseSelectColumns() []ast.SelectColumn {
	var cols []ast.SelectColumn
	for {
		cols = append(cols, p.parseSelectColumn())
		if !p.tryEatBool(lexer.COMMA) {
			break
		}
	}
	return cols
}

func (p *Parser) parseSelectColumn() ast.SelectColumn {
	if p.is(lexer.STAR) {
		pos := p.tok.Pos
		p.advance()
		return ast.SelectColumn{Star: true, Expr: &ast.StarExpr{TokPos: pos}}
	}
	expr := p.parseExpr(precLowest)
	col := ast.SelectColumn{Expr: expr}
	if p.tryEatBool(lexer.AS) {
		col.Alias = p.parseIdent()
	} else if p.is(lexer.IDENT) || p.is(lexer.QUOTED_DOUBLE) || p.is(lexer.QUOTED_BACKTICK) || p.is(lexer.QUOTED_BRACKET) {
		col.Alias = p.parseIdent()
	}
	return col
}

// ---- Table references ----

func (p *Parser) parseTableRefs() []ast.TableRef {
	var refs []ast.TableRef
	refs = append(refs, p.parseTableRef())
	for p.tryEatBool(lexer.COMMA) {
		refs = append(refs, p.parseTableRef())
	}
	return refs
}

func (p *Parser) parseTableRef() ast.TableRef {
	left := p.parseTableRefPrimary()
	for isJoinStart(p.tok.Type) {
		left = p.parseJoin(left)
	}
	return left
}

func isJoinStart(t lexer.TokenType) bool {
	switch t {
	case lexer.INNER, lexer.LEFT, lexer.RIGHT, lexer.FULL, lexer.CROSS, lexer.NATURAL, lexer.JOIN:
		return true
	}
	return false
}

func (p *Parser) parseTableRefPrimary() ast.TableRef {
	lateral := p.tryEatBool(lexer.LATERAL)
	if p.is(lexer.LPAREN) {
		p.advance()
		if p.is(lexer.SELECT) || p.is(lexer.WITH) {
			sq := p.parseSelect()
			p.eat(lexer.RPAREN)
			sub := &ast.SubqueryTable{Subq: sq, Lateral: lateral, TokPos: sq.TokPos}
			sub.Alias, sub.ColumnAliases = p.parseOptionalAliasWithCols()
			return sub
		}
		inner := p.parseTableRef()
		p.eat(lexer.RPAREN)
		return inner
	}
	name := p.parseQualifiedIdent()
	st := &ast.SimpleTable{Name: name, Lateral: lateral}
	st.Alias, st.ColumnAliases = p.parseOptionalAliasWithCols()
	if p.tryEatBool(lexer.WITH) {
		p.eat(lexer.ORDINALITY)
		st.WithOrdinality = true
	}
	if p.is(lexer.TABLESAMPLE) {
		st.TableSample = p.parseTableSample()
	}
	return st
}

func (p *Parser) parseTableSample() *ast.TableSampleClause {
	p.advance() // TABLESAMPLE
	ts := &ast.TableSampleClause{Method: p.parseIdent()}
	p.eat(lexer.LPAREN)
	ts.Args = p.parseExprList()
	p.eat(lexer.RPAREN)
	if p.tryEatBool(lexer.REPEATABLE) {
		p.eat(lexer.LPAREN)
		ts.Repeatable = p.parseExpr(precLowest)
		p.eat(lexer.RPAREN)
	}
	return ts
}

func (p *Parser) parseJoin(left ast.TableRef) ast.TableRef {
	var kind ast.JoinKind
	switch p.tok.Type {
	case lexer.INNER:
		p.advance()
		p.eat(lexer.JOIN)
		kind = ast.InnerJoin
	case lexer.LEFT:
		p.advance()
		p.tryEatBool(lexer.OUTER)
		p.eat(lexer.JOIN)
		kind = ast.LeftJoin
	case lexer.RIGHT:
		p.advance()
		p.tryEatBool(lexer.OUTER)
		p.eat(lexer.JOIN)
		kind = ast.RightJoin
	case lexer.FULL:
		p.advance()
		p.tryEatBool(lexer.OUTER)
		p.eat(lexer.JOIN)
		kind = ast.FullJoin
	case lexer.CROSS:
		p.advance()
		p.eat(lexer.JOIN)
		kind = ast.CrossJoin
	case lexer.NATURAL:
		p.advance()
		p.tryEatBool(lexer.LEFT)
		p.tryEatBool(lexer.RIGHT)
		p.tryEatBool(lexer.OUTER)
		p.eat(lexer.JOIN)
		kind = ast.NaturalJoin
	case lexer.JOIN:
		p.advance()
		kind = ast.InnerJoin
	}
	pos := p.tok.Pos
	right := p.parseTableRefPrimary()
	jt := &ast.JoinTable{Left: left, Right: right, Kind: kind, TokPos: pos}
	if p.tryEatBool(lexer.ON) {
		jt.On = p.parseExpr(precLowest)
	} else if p.tryEatBool(lexer.USING) {
		p.eat(lexer.LPAREN)
		jt.Using = p.parseIdentList()
		p.eat(lexer.RPAREN)
	}
	return jt
}

func (p *Parser) parseOptionalAliasWithCols() (*ast.Ident, []*ast.Ident) {
	p.tryEatBool(lexer.AS)
	if !(p.is(lexer.IDENT) || p.is(lexer.QUOTED_DOUBLE) || p.is(lexer.QUOTED_BACKTICK) || p.is(lexer.QUOTED_BRACKET)) {
		return nil, nil
	}
	alias := p.parseIdent()
	var cols []*ast.Ident
	if p.is(lexer.LPAREN) {
		p.advance()
		cols = p.parseIdentList()
		p.eat(lexer.RPAREN)
	}
	return alias, cols
}

func (p *Parser) parseLimit() *ast.LimitClause {
	lc := &ast.LimitClause{Count: p.parseExpr(precLowest)}
	if p.tryEatBool(lexer.OFFSET) {
		lc.Offset = p.parseExpr(precLowest)
	} else if p.tryEatBool(lexer.COMMA) {
		lc.Offset = lc.Count
		lc.Count = p.parseExpr(precLowest)
	}
	return lc
}

// parseStandaloneValues parses a bare VALUES (...), (...) statement.
func (p *Parser) parseStandaloneValues() *ast.StandaloneValues {
	pos := p.tok.Pos
	p.advance() // VALUES
	sv := &ast.StandaloneValues{TokPos: pos}
	for {
		p.eat(lexer.LPAREN)
		row := p.parseExprList()
		p.eat(lexer.RPAREN)
		sv.Rows = append(sv.Rows, row)
		if !p.tryEatBool(lexer.COMMA) {
			break
		}
	}
	return sv
}
