package parser

import (
	"strconv"

	"github.com/oarkflow/sqlriver/ast"
	"github.com/oarkflow/sqlriver/lexer"
)

// ---- Expression parsing (precedence climbing) ----

type precedence int

const (
	precLowest     precedence = 0
	precOr         precedence = 1
	precAnd        precedence = 2
	precComparison precedence = 3
	precBitOr      precedence = 4
	precBitAnd     precedence = 5
	precShift      precedence = 6
	precAddSub     precedence = 7
	precMulDiv     precedence = 8
	precUnary      precedence = 9
	precPostfix    precedence = 10
)

func tokenPrec(t lexer.TokenType) (precedence, bool) {
	switch t {
	case lexer.OR:
		return precOr, true
	case lexer.AND:
		return precAnd, true
	case lexer.EQ, lexer.NEQ, lexer.LT, lexer.GT, lexer.LTE, lexer.GTE:
		return precComparison, true
	case lexer.ATGT, lexer.LTAT, lexer.QMARKPIPE, lexer.QMARKAMP,
		lexer.ATQUESTION, lexer.ATAT, lexer.TILDESTAR, lexer.BANGTILDE, lexer.BANGTILDESTAR:
		return precComparison, true
	case lexer.PIPE, lexer.HASH:
		return precBitOr, true
	case lexer.AMPERSAND:
		return precBitAnd, true
	case lexer.LSHIFT, lexer.RSHIFT:
		return precShift, true
	case lexer.PLUS, lexer.MINUS, lexer.DBAR:
		return precAddSub, true
	case lexer.STAR, lexer.SLASH, lexer.PERCENT, lexer.CARET, lexer.TILDE, lexer.QUESTION:
		return precMulDiv, true
	case lexer.ARROW, lexer.DARROW2, lexer.HASHARROW, lexer.HASHDARROW:
		return precPostfix, true
	}
	return 0, false
}

// parseExpr climbs operators of precedence strictly greater than minPrec,
// folding in the keyword-led forms (IS, LIKE family, IN, BETWEEN) that
// don't fit a single-token precedence table.
func (p *Parser) parseExpr(minPrec precedence) ast.Expr {
	p.enter()
	defer p.leave()
	left := p.parseUnary()
	return p.parseExprRHS(left, minPrec)
}

func (p *Parser) parseExprRHS(left ast.Expr, minPrec precedence) ast.Expr {
	for {
		switch p.tok.Type {
		case lexer.IS:
			pos := p.tok.Pos
			p.advance()
			not := false
			if p.is(lexer.NOT) {
				p.advance()
				not = true
			}
			p.eat(lexer.NULL_KW)
			left = &ast.IsNullExpr{Expr: left, Not: not, TokPos: pos}
			continue

		case lexer.ISNULL:
			pos := p.tok.Pos
			p.advance()
			left = &ast.IsNullExpr{Expr: left, TokPos: pos}
			continue

		case lexer.NOTNULL:
			pos := p.tok.Pos
			p.advance()
			left = &ast.IsNullExpr{Expr: left, Not: true, TokPos: pos}
			continue

		case lexer.NOT:
			pos := p.tok.Pos
			switch p.peek().Type {
			case lexer.LIKE:
				p.advance()
				p.advance()
				left = p.finishLike(left, pos, LikeOrdinaryMode, true)
				continue
			case lexer.ILIKE:
				p.advance()
				p.advance()
				left = p.finishLike(left, pos, LikeCaseInsensitiveMode, true)
				continue
			case lexer.SIMILAR:
				p.advance()
				p.advance()
				p.eat(lexer.TO)
				left = p.finishLike(left, pos, LikeSimilarToMode, true)
				continue
			case lexer.IN:
				p.advance()
				p.advance()
				left = p.parseInRHS(left, pos, true)
				continue
			case lexer.BETWEEN:
				p.advance()
				p.advance()
				left = p.finishBetween(left, pos, true)
				continue
			}

		case lexer.LIKE:
			pos := p.tok.Pos
			p.advance()
			left = p.finishLike(left, pos, LikeOrdinaryMode, false)
			continue

		case lexer.ILIKE:
			pos := p.tok.Pos
			p.advance()
			left = p.finishLike(left, pos, LikeCaseInsensitiveMode, false)
			continue

		case lexer.SIMILAR:
			pos := p.tok.Pos
			p.advance()
			p.eat(lexer.TO)
			left = p.finishLike(left, pos, LikeSimilarToMode, false)
			continue

		case lexer.IN:
			pos := p.tok.Pos
			p.advance()
			left = p.parseInRHS(left, pos, false)
			continue

		case lexer.BETWEEN:
			pos := p.tok.Pos
			p.advance()
			left = p.finishBetween(left, pos, false)
			continue
		}

		prec, ok := tokenPrec(p.tok.Type)
		if !ok || prec <= minPrec {
			break
		}
		op := p.tok.Type
		pos := p.tok.Pos
		p.advance()
		right := p.parseExpr(prec)
		left = &ast.BinaryExpr{Left: left, Right: right, Op: op, TokPos: pos}
	}
	return left
}

// likeMode aliases keep this file's call sites readable without importing
// ast's LikeMode constants under their full names everywhere.
const (
	LikeOrdinaryMode        = ast.LikeOrdinary
	LikeCaseInsensitiveMode = ast.LikeCaseInsensitive
	LikeSimilarToMode       = ast.LikeSimilarTo
)

func (p *Parser) finishLike(left ast.Expr, pos int32, mode ast.LikeMode, not bool) ast.Expr {
	right := p.parseExpr(precMulDiv)
	like := &ast.LikeExpr{Expr: left, Pattern: right, Mode: mode, Not: not, TokPos: pos}
	if mode != ast.LikeSimilarTo {
		if p.is(lexer.ESCAPE) {
			p.advance()
			like.Escape = p.parseExpr(precMulDiv)
		}
	}
	return like
}

func (p *Parser) finishBetween(left ast.Expr, pos int32, not bool) ast.Expr {
	lo := p.parseExpr(precComparison)
	p.eat(lexer.AND)
	hi := p.parseExpr(precComparison)
	return &ast.BetweenExpr{Expr: left, Lo: lo, Hi: hi, Not: not, TokPos: pos}
}

func (p *Parser) parseInRHS(left ast.Expr, pos int32, not bool) ast.Expr {
	p.eat(lexer.LPAREN)
	in := &ast.InExpr{Expr: left, Not: not, TokPos: pos}
	if p.is(lexer.SELECT) || p.is(lexer.WITH) {
		in.Subq = p.parseSelect()
	} else {
		in.List = p.parseExprList()
	}
	p.eat(lexer.RPAREN)
	return in
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.tok.Type {
	case lexer.MINUS, lexer.PLUS, lexer.TILDE:
		op := p.tok.Type
		pos := p.tok.Pos
		p.advance()
		return &ast.UnaryExpr{Expr: p.parseUnary(), Op: op, TokPos: pos}
	case lexer.NOT:
		pos := p.tok.Pos
		p.advance()
		return &ast.UnaryExpr{Expr: p.parseExpr(precAnd), Op: lexer.NOT, TokPos: pos}
	case lexer.EXISTS:
		pos := p.tok.Pos
		p.advance()
		p.eat(lexer.LPAREN)
		sq := p.parseSelect()
		p.eat(lexer.RPAREN)
		return p.parsePostfix(&ast.ExistsExpr{Subq: sq, TokPos: pos})
	}
	return p.parsePostfix(p.parsePrimary())
}

// parsePostfix applies the postfix operators that bind tighter than any
// infix operator: ::type casts, COLLATE name, and array subscript/slice.
func (p *Parser) parsePostfix(expr ast.Expr) ast.Expr {
	for {
		switch p.tok.Type {
		case lexer.DCOLON:
			pos := p.tok.Pos
			p.advance()
			expr = &ast.PgCast{Expr: expr, Type: p.parseDataType(), TokPos: pos}
		case lexer.COLLATE:
			pos := p.tok.Pos
			p.advance()
			expr = &ast.CollateExpr{Expr: expr, Collation: p.parseIdent(), TokPos: pos}
		case lexer.LBRACKET:
			pos := p.tok.Pos
			p.advance()
			idx := p.parseExpr(precLowest)
			sub := &ast.ArraySubscriptExpr{Expr: expr, Index: idx, TokPos: pos}
			if p.is(lexer.COLON) {
				p.advance()
				sub.Hi = p.parseExpr(precLowest)
			}
			p.eat(lexer.RBRACKET)
			expr = sub
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.tok.Type {
	case lexer.INT, lexer.FLOAT, lexer.HEXLIT, lexer.BITLIT, lexer.DURATIONLIT,
		lexer.STRING, lexer.ESTRING, lexer.USTRING, lexer.NSTRING,
		lexer.DOLLAR_STRING, lexer.BRACKET_STRING, lexer.CHARSET_STRING:
		t := p.tok
		p.advance()
		return &ast.Literal{Raw: t.Raw, Kind: t.Type, TokPos: t.Pos}

	case lexer.NULL_KW:
		t := p.tok
		p.advance()
		return &ast.NullLit{TokPos: t.Pos}

	case lexer.TRUE_KW, lexer.FALSE_KW:
		t := p.tok
		p.advance()
		return &ast.Literal{Raw: t.Raw, Kind: t.Type, TokPos: t.Pos}

	case lexer.NAMEDPARAM, lexer.QUESTION, lexer.TEMPLATE_PARAM:
		t := p.tok
		p.advance()
		return &ast.Param{Raw: t.Raw, TokPos: t.Pos}

	case lexer.STAR:
		t := p.tok
		p.advance()
		return &ast.StarExpr{TokPos: t.Pos}

	case lexer.LPAREN:
		return p.parseParenOrRow()

	case lexer.ARRAY:
		return p.parseArrayExpr()

	case lexer.CASE:
		return p.parseCaseExpr()

	case lexer.CAST:
		return p.parseCastExpr()

	case lexer.EXTRACT:
		return p.parseExtractExpr()

	case lexer.POSITION:
		return p.parsePositionExpr()

	case lexer.SUBSTRING:
		return p.parseSubstringExpr()

	case lexer.OVERLAY:
		return p.parseOverlayExpr()

	case lexer.TRIM:
		return p.parseTrimExpr()

	case lexer.IDENT, lexer.QUOTED_DOUBLE, lexer.QUOTED_BACKTICK, lexer.QUOTED_BRACKET:
		name := p.parseQualifiedIdent()
		if p.is(lexer.LPAREN) {
			return p.parseFuncCall(name)
		}
		if len(name.Parts) == 1 {
			return name.Parts[0]
		}
		return name

	default:
		if p.profile.FunctionKeywords[p.tok.Type] {
			ident := &ast.Ident{Raw: p.tok.Raw, Unquoted: string(p.tok.Raw), TokPos: p.tok.Pos}
			p.advance()
			name := &ast.QualifiedIdent{Parts: []*ast.Ident{ident}}
			if p.is(lexer.LPAREN) {
				return p.parseFuncCall(name)
			}
			return ident
		}
	}

	p.errorExpected("expression", "unexpected token %q in expression", p.tokenDesc())
	return nil
}

func (p *Parser) parseParenOrRow() ast.Expr {
	pos := p.tok.Pos
	p.advance()
	if p.is(lexer.SELECT) || p.is(lexer.WITH) {
		sq := p.parseSelect()
		p.eat(lexer.RPAREN)
		return &ast.SubqueryExpr{Subq: sq, TokPos: pos}
	}
	first := p.parseExpr(precLowest)
	if p.is(lexer.COMMA) {
		vals := arenaAppend(&p.arena, []ast.Expr(nil), first)
		for p.tryEatBool(lexer.COMMA) {
			vals = arenaAppend(&p.arena, vals, p.parseExpr(precLowest))
		}
		p.eat(lexer.RPAREN)
		return &ast.RowExpr{Values: vals, TokPos: pos}
	}
	p.eat(lexer.RPAREN)
	return &ast.ParenExpr{Expr: first, TokPos: pos}
}

func (p *Parser) parseArrayExpr() ast.Expr {
	pos := p.tok.Pos
	p.advance()
	if p.is(lexer.LPAREN) {
		p.advance()
		sq := p.parseSelect()
		p.eat(lexer.RPAREN)
		return &ast.ArrayExpr{Subq: sq, TokPos: pos}
	}
	p.eat(lexer.LBRACKET)
	var elems []ast.Expr
	if !p.is(lexer.RBRACKET) {
		elems = p.parseExprList()
	}
	p.eat(lexer.RBRACKET)
	return &ast.ArrayExpr{Elements: elems, TokPos: pos}
}

func (p *Parser) parseCaseExpr() ast.Expr {
	pos := p.tok.Pos
	p.advance()
	c := &ast.CaseExpr{TokPos: pos}
	if !p.is(lexer.WHEN) {
		c.Operand = p.parseExpr(precLowest)
	}
	for p.tryEatBool(lexer.WHEN) {
		cond := p.parseExpr(precLowest)
		p.eat(lexer.THEN)
		res := p.parseExpr(precLowest)
		c.Whens = append(c.Whens, ast.WhenClause{Cond: cond, Result: res})
	}
	if p.tryEatBool(lexer.ELSE) {
		c.Else = p.parseExpr(precLowest)
	}
	p.eat(lexer.END)
	return c
}

func (p *Parser) parseCastExpr() ast.Expr {
	pos := p.tok.Pos
	p.advance()
	p.eat(lexer.LPAREN)
	expr := p.parseExpr(precLowest)
	p.eat(lexer.AS)
	dt := p.parseDataType()
	p.eat(lexer.RPAREN)
	return &ast.CastExpr{Expr: expr, Type: dt, TokPos: pos}
}

func (p *Parser) parseExtractExpr() ast.Expr {
	pos := p.tok.Pos
	p.advance()
	p.eat(lexer.LPAREN)
	field := p.tok.Raw
	p.advance()
	p.eat(lexer.FROM)
	src := p.parseExpr(precLowest)
	p.eat(lexer.RPAREN)
	return &ast.ExtractExpr{Field: field, Source: src, TokPos: pos}
}

func (p *Parser) parsePositionExpr() ast.Expr {
	pos := p.tok.Pos
	p.advance()
	p.eat(lexer.LPAREN)
	needle := p.parseExpr(precLowest)
	p.eat(lexer.IN)
	haystack := p.parseExpr(precLowest)
	p.eat(lexer.RPAREN)
	return &ast.PositionExpr{Needle: needle, Haystack: haystack, TokPos: pos}
}

func (p *Parser) parseSubstringExpr() ast.Expr {
	pos := p.tok.Pos
	p.advance()
	p.eat(lexer.LPAREN)
	s := &ast.SubstringExpr{TokPos: pos}
	s.Expr = p.parseExpr(precLowest)
	switch {
	case p.tryEatBool(lexer.FROM):
		s.From = p.parseExpr(precLowest)
		if p.tryEatBool(lexer.FOR) {
			s.For = p.parseExpr(precLowest)
		}
	case p.tryEatBool(lexer.COMMA):
		s.From = p.parseExpr(precLowest)
		if p.tryEatBool(lexer.COMMA) {
			s.For = p.parseExpr(precLowest)
		}
	}
	p.eat(lexer.RPAREN)
	return s
}

func (p *Parser) parseOverlayExpr() ast.Expr {
	pos := p.tok.Pos
	p.advance()
	p.eat(lexer.LPAREN)
	o := &ast.OverlayExpr{TokPos: pos}
	o.Expr = p.parseExpr(precLowest)
	p.eat(lexer.PLACING)
	o.Replacement = p.parseExpr(precLowest)
	p.eat(lexer.FROM)
	o.From = p.parseExpr(precLowest)
	if p.tryEatBool(lexer.FOR) {
		o.For = p.parseExpr(precLowest)
	}
	p.eat(lexer.RPAREN)
	return o
}

func (p *Parser) parseTrimExpr() ast.Expr {
	pos := p.tok.Pos
	p.advance()
	p.eat(lexer.LPAREN)
	t := &ast.TrimExpr{TokPos: pos}
	switch p.tok.Type {
	case lexer.LEADING:
		t.Side = ast.TrimLeading
		p.advance()
	case lexer.TRAILING:
		t.Side = ast.TrimTrailing
		p.advance()
	case lexer.BOTH:
		t.Side = ast.TrimBoth
		p.advance()
	}
	if p.is(lexer.FROM) {
		p.advance()
		t.Source = p.parseExpr(precLowest)
	} else {
		first := p.parseExpr(precLowest)
		if p.tryEatBool(lexer.FROM) {
			t.Chars = first
			t.Source = p.parseExpr(precLowest)
		} else {
			t.Source = first
		}
	}
	p.eat(lexer.RPAREN)
	return t
}

func (p *Parser) parseFuncCall(name *ast.QualifiedIdent) ast.Expr {
	pos := p.tok.Pos
	p.advance()
	fc := &ast.FuncCall{Name: name, TokPos: pos}
	if p.is(lexer.RPAREN) {
		p.advance()
	} else if p.is(lexer.STAR) {
		p.advance()
		fc.Star = true
		p.eat(lexer.RPAREN)
	} else {
		fc.Distinct = p.tryEatBool(lexer.DISTINCT)
		fc.Args = p.parseExprList()
		if p.tryEatBool(lexer.ORDER) {
			p.eat(lexer.BY)
			fc.WithinGroup = p.parseOrderBy()
		}
		if p.tryEatBool(lexer.SEPARATOR) {
			t := p.eat(lexer.STRING)
			fc.Separator = &ast.Literal{Raw: t.Raw, Kind: t.Type, TokPos: t.Pos}
		}
		p.eat(lexer.RPAREN)
	}
	if p.tryEatBool(lexer.WITHIN) {
		p.eat(lexer.GROUP)
		p.eat(lexer.LPAREN)
		p.eat(lexer.ORDER)
		p.eat(lexer.BY)
		fc.WithinGroup = p.parseOrderBy()
		p.eat(lexer.RPAREN)
	}
	if p.tryEatBool(lexer.FILTER) {
		p.eat(lexer.LPAREN)
		p.eat(lexer.WHERE)
		fc.Filter = p.parseExpr(precLowest)
		p.eat(lexer.RPAREN)
	}
	if p.is(lexer.OVER) {
		fc.Over = p.parseWindowSpec()
	}
	return fc
}

// parseWindowSpec parses OVER (window_definition) or OVER window_name.
func (p *Parser) parseWindowSpec() *ast.WindowSpec {
	p.advance() // OVER
	if !p.is(lexer.LPAREN) {
		name := p.parseIdent()
		return &ast.WindowSpec{Name: name}
	}
	p.advance()
	ws := &ast.WindowSpec{}
	if p.is(lexer.IDENT) && !p.peekIs(lexer.PARTITION) {
		ws.Name = p.parseIdent()
	}
	if p.tryEatBool(lexer.PARTITION) {
		p.eat(lexer.BY)
		ws.Partition = p.parseExprList()
	}
	if p.is(lexer.ORDER) {
		p.advance()
		p.eat(lexer.BY)
		ws.OrderBy = p.parseOrderBy()
	}
	if p.is(lexer.ROWS) || p.is(lexer.RANGE) || p.is(lexer.GROUPS) {
		ws.Frame = p.parseFrameClause()
	}
	p.eat(lexer.RPAREN)
	return ws
}

func (p *Parser) parseFrameClause() *ast.FrameClause {
	fc := &ast.FrameClause{}
	switch p.tok.Type {
	case lexer.ROWS:
		fc.Mode = ast.FrameRows
	case lexer.RANGE:
		fc.Mode = ast.FrameRange
	case lexer.GROUPS:
		fc.Mode = ast.FrameGroups
	}
	p.advance()
	if p.tryEatBool(lexer.BETWEEN) {
		fc.StartKind, fc.StartExpr = p.parseFrameBound()
		p.eat(lexer.AND)
		fc.EndKind, fc.EndExpr = p.parseFrameBound()
	} else {
		fc.StartKind, fc.StartExpr = p.parseFrameBound()
	}
	if p.tryEatBool(lexer.EXCLUDE) {
		switch {
		case p.tok.Upper == "CURRENT" && p.peek().Upper == "ROW":
			p.advance()
			p.advance()
			fc.Exclude = ast.FrameExcludeCurrentRow
		case p.is(lexer.GROUP):
			p.advance()
			fc.Exclude = ast.FrameExcludeGroup
		case p.is(lexer.TIES):
			p.advance()
			fc.Exclude = ast.FrameExcludeTies
		case p.is(lexer.NO):
			p.advance()
			p.advance() // OTHERS
		}
	}
	return fc
}

func (p *Parser) parseFrameBound() (ast.FrameBoundKind, ast.Expr) {
	if p.is(lexer.UNBOUNDED) {
		p.advance()
		if p.tryEatBool(lexer.PRECEDING) {
			return ast.FrameUnboundedPreceding, nil
		}
		p.eat(lexer.FOLLOWING)
		return ast.FrameUnboundedFollowing, nil
	}
	if p.tok.Upper == "CURRENT" && p.peek().Upper == "ROW" {
		p.advance()
		p.advance()
		return ast.FrameCurrentRow, nil
	}
	expr := p.parseExpr(precLowest)
	if p.tryEatBool(lexer.PRECEDING) {
		return ast.FramePreceding, expr
	}
	p.eat(lexer.FOLLOWING)
	return ast.FrameFollowing, expr
}

func (p *Parser) parseExprList() []ast.Expr {
	var exprs []ast.Expr
	exprs = arenaAppend(&p.arena, exprs, p.parseExpr(precLowest))
	for p.tryEatBool(lexer.COMMA) {
		exprs = arenaAppend(&p.arena, exprs, p.parseExpr(precLowest))
	}
	return exprs
}

func (p *Parser) parseOrderBy() []ast.OrderByItem {
	var items []ast.OrderByItem
	for {
		e := p.parseExpr(precLowest)
		item := ast.OrderByItem{Expr: e}
		if p.tryEatBool(lexer.DESC) {
			item.Desc = true
		} else {
			p.tryEatBool(lexer.ASC)
		}
		if p.tryEatBool(lexer.NULLS) {
			if p.tryEatBool(lexer.FIRST) {
				t := true
				item.NullsFirst = &t
			} else {
				p.eat(lexer.LAST)
				f := false
				item.NullsFirst = &f
			}
		}
		items = append(items, item)
		if !p.tryEatBool(lexer.COMMA) {
			break
		}
	}
	return items
}

// parseDataType parses a column/cast type name, its optional
// precision/scale or enum-value list, and MySQL's UNSIGNED/ZEROFILL
// suffixes. Unrecognized type names (domain types, postgres composite
// types) fall through to the IDENT branch and are kept verbatim.
func (p *Parser) parseDataType() *ast.DataType {
	name := p.tok.Raw
	pos := p.tok.Pos
	p.advance()
	for p.is(lexer.IDENT) && isDataTypeContinuation(name) {
		name = append(append([]byte{}, name...), ' ')
		name = append(name, p.tok.Raw...)
		p.advance()
	}
	dt := &ast.DataType{Name: name, TokPos: pos}
	if p.is(lexer.LBRACKET) {
		p.advance()
		p.eat(lexer.RBRACKET)
		dt.Name = append(dt.Name, []byte("[]")...)
	}
	if p.is(lexer.LPAREN) {
		p.advance()
		if p.is(lexer.INT) {
			n, _ := strconv.Atoi(string(p.tok.Raw))
			dt.Precision = n
			p.advance()
		}
		if p.tryEatBool(lexer.COMMA) {
			if p.is(lexer.INT) {
				n, _ := strconv.Atoi(string(p.tok.Raw))
				dt.Scale = n
				p.advance()
			}
		}
		if p.is(lexer.STRING) {
			for p.is(lexer.STRING) {
				dt.EnumVals = append(dt.EnumVals, p.tok.Raw)
				p.advance()
				if !p.tryEatBool(lexer.COMMA) {
					break
				}
			}
		}
		p.eat(lexer.RPAREN)
	}
	if p.is(lexer.IDENT) {
		if equalASCIIFold(p.tok.Raw, "unsigned") {
			dt.Unsigned = true
			p.advance()
		}
		if p.is(lexer.IDENT) && equalASCIIFold(p.tok.Raw, "zerofill") {
			dt.Zerofill = true
			p.advance()
		}
	}
	return dt
}

// isDataTypeContinuation reports whether name is the first word of a
// multi-word type name (DOUBLE PRECISION, CHARACTER VARYING) that may
// continue onto the following IDENT token. Kept conservative: only
// words with a known second half are treated this way.
func isDataTypeContinuation(name []byte) bool {
	switch string(name) {
	case "DOUBLE", "double", "CHARACTER", "character", "character varying":
		return true
	}
	return false
}

func equalASCIIFold(raw []byte, word string) bool {
	if len(raw) != len(word) {
		return false
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c >= 'A' && c <= 'Z' {
			c += 32
		}
		if c != word[i] {
			return false
		}
	}
	return true
}

func (p *Parser) tryEatBool(tt lexer.TokenType) bool {
	_, ok := p.tryEat(tt)
	return ok
}

func (p *Parser) parseIdent() *ast.Ident {
	switch p.tok.Type {
	case lexer.IDENT, lexer.QUOTED_DOUBLE, lexer.QUOTED_BACKTICK, lexer.QUOTED_BRACKET:
		t := p.tok
		p.advance()
		return &ast.Ident{Raw: t.Raw, Unquoted: unquoteIdent(t), TokPos: t.Pos}
	}
	p.errorExpected("identifier", "expected identifier, got %q", p.tokenDesc())
	return nil
}

func unquoteIdent(t lexer.Token) string {
	switch t.Type {
	case lexer.QUOTED_DOUBLE, lexer.QUOTED_BACKTICK, lexer.QUOTED_BRACKET:
		if len(t.Raw) >= 2 {
			return string(t.Raw[1 : len(t.Raw)-1])
		}
	}
	return string(t.Raw)
}

func (p *Parser) parseQualifiedIdent() *ast.QualifiedIdent {
	var parts []*ast.Ident
	parts = append(parts, p.parseIdent())
	for p.is(lexer.DOT) {
		p.advance()
		parts = append(parts, p.parseIdent())
	}
	return &ast.QualifiedIdent{Parts: parts}
}

func (p *Parser) parseIdentList() []*ast.Ident {
	var out []*ast.Ident
	out = append(out, p.parseIdent())
	for p.tryEatBool(lexer.COMMA) {
		out = append(out, p.parseIdent())
	}
	return out
}
