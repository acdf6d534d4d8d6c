package parser

import (
	"strconv"

	"github.com/oarkflow/sqlriver/ast"
	"github.com/oarkflow/sqlriver/lexer"
)

func (p *Parser) parseCreate() ast.Statement {
	pos := p.tok.Pos
	p.advance() // CREATE
	orReplace := false
	if p.is(lexer.OR) {
		p.advance()
		p.eat(lexer.REPLACE)
		orReplace = true
	}
	unique := false
	if p.is(lexer.UNIQUE) {
		p.advance()
		unique = true
	}
	temporary := false
	if p.tok.Upper == "TEMPORARY" || p.tok.Upper == "TEMP" {
		p.advance()
		temporary = true
	}

	switch {
	case p.is(lexer.TABLE):
		return p.parseCreateTable(pos, temporary)
	case p.is(lexer.INDEX):
		return p.parseCreateIndex(pos, unique)
	case p.is(lexer.VIEW):
		return p.parseCreateView(pos, orReplace)
	case p.is(lexer.DATABASE) || p.is(lexer.SCHEMA):
		return p.parseCreateDatabase(pos)
	case p.is(lexer.POLICY):
		return p.parseCreatePolicy(pos)
	case p.tok.Upper == "FUNCTION" || p.tok.Upper == "PROCEDURE" || p.tok.Upper == "TRIGGER":
		return p.parseCreateRoutineVerbatim(pos)
	}
	p.errorf("unexpected token %q after CREATE", p.tokenDesc())
	return nil
}

// parseCreateRoutineVerbatim handles CREATE FUNCTION/PROCEDURE/TRIGGER,
// whose bodies (a nested BEGIN...END block or dollar-quoted string) don't
// fit the "consume to next ';'" statement-boundary heuristic: a ';'
// inside the body is not a statement separator. Rather than model every
// procedural-language body structurally, the whole statement is captured
// as a verbatim Raw span up to its own terminating ';', tracking BEGIN/END
// nesting depth so embedded semicolons don't end the capture early.
func (p *Parser) parseCreateRoutineVerbatim(pos int32) *ast.Raw {
	depth := 0
	end := pos
	for {
		if p.is(lexer.EOF) {
			break
		}
		if p.is(lexer.BEGIN) {
			depth++
		}
		if p.is(lexer.END) {
			depth--
		}
		if p.is(lexer.SEMICOLON) && depth <= 0 {
			break
		}
		end = p.tok.Pos + int32(len(p.tok.Raw))
		p.advance()
	}
	return &ast.Raw{Text: p.sliceSrc(pos, end), Reason: ast.RawVerbatim, TokPos: pos}
}

func (p *Parser) parseCreateTable(pos int32, temporary bool) *ast.CreateTableStmt {
	p.advance() // TABLE
	stmt := &ast.CreateTableStmt{TokPos: pos, Temporary: temporary}
	if p.is(lexer.IF) {
		p.advance()
		p.eat(lexer.NOT)
		p.eat(lexer.EXISTS)
		stmt.IfNotExists = true
	}
	stmt.Table = p.parseQualifiedIdent()

	if p.is(lexer.LIKE) {
		p.advance()
		stmt.Like = p.parseQualifiedIdent()
		return stmt
	}

	if p.is(lexer.LPAREN) {
		p.advance()
		for {
			if p.isConstraintStart() {
				stmt.Constraints = append(stmt.Constraints, p.parseTableConstraint())
			} else {
				stmt.Columns = append(stmt.Columns, p.parseColumnDef())
			}
			if !p.tryEatBool(lexer.COMMA) {
				break
			}
		}
		p.eat(lexer.RPAREN)
	}

	stmt.Options = p.parseTableOptions()

	if p.is(lexer.AS) || (p.is(lexer.SELECT)) {
		p.tryEatBool(lexer.AS)
		stmt.Select = p.parseSelect()
	}
	return stmt
}

func (p *Parser) isConstraintStart() bool {
	switch p.tok.Type {
	case lexer.CONSTRAINT, lexer.PRIMARY, lexer.UNIQUE, lexer.FOREIGN, lexer.CHECK, lexer.INDEX, lexer.KEY:
		return true
	}
	return p.tok.Upper == "FULLTEXT" || p.tok.Upper == "SPATIAL"
}

func (p *Parser) parseTableConstraint() *ast.TableConstraint {
	pos := p.tok.Pos
	tc := &ast.TableConstraint{TokPos: pos}
	if p.tryEatBool(lexer.CONSTRAINT) {
		if p.is(lexer.IDENT) {
			tc.Name = p.parseIdent()
		}
	}
	switch {
	case p.is(lexer.PRIMARY):
		p.advance()
		p.eat(lexer.KEY)
		tc.Type = ast.PrimaryKeyConstraint
		tc.Columns = p.parseIndexColDefList()
	case p.is(lexer.UNIQUE):
		p.advance()
		p.tryEatBool(lexer.KEY)
		tc.Type = ast.UniqueConstraint
		if p.is(lexer.IDENT) {
			tc.Name = p.parseIdent()
		}
		tc.Columns = p.parseIndexColDefList()
	case p.is(lexer.FOREIGN):
		p.advance()
		p.eat(lexer.KEY)
		tc.Type = ast.ForeignKeyConstraint
		tc.Columns = p.parseIndexColDefList()
		p.eat(lexer.REFERENCES)
		tc.RefTable = p.parseQualifiedIdent()
		if p.is(lexer.LPAREN) {
			p.advance()
			tc.RefCols = p.parseIdentList()
			p.eat(lexer.RPAREN)
		}
		tc.OnDelete, tc.OnUpdate = p.parseRefActions()
	case p.is(lexer.CHECK):
		p.advance()
		tc.Type = ast.CheckConstraint
		p.eat(lexer.LPAREN)
		tc.Check = p.parseExpr(precLowest)
		p.eat(lexer.RPAREN)
	case p.tok.Upper == "FULLTEXT":
		p.advance()
		p.tryEatBool(lexer.KEY)
		p.tryEatBool(lexer.INDEX)
		tc.Type = ast.FulltextConstraint
		if p.is(lexer.IDENT) {
			tc.Name = p.parseIdent()
		}
		tc.Columns = p.parseIndexColDefList()
	case p.tok.Upper == "SPATIAL":
		p.advance()
		p.tryEatBool(lexer.KEY)
		p.tryEatBool(lexer.INDEX)
		tc.Type = ast.SpatialConstraint
		if p.is(lexer.IDENT) {
			tc.Name = p.parseIdent()
		}
		tc.Columns = p.parseIndexColDefList()
	default: // bare INDEX/KEY
		p.advance()
		tc.Type = ast.IndexConstraint
		if p.is(lexer.IDENT) {
			tc.Name = p.parseIdent()
		}
		tc.Columns = p.parseIndexColDefList()
	}
	return tc
}

func (p *Parser) parseIndexColDefList() []*ast.IndexColDef {
	p.eat(lexer.LPAREN)
	var out []*ast.IndexColDef
	for {
		out = append(out, p.parseIndexColDef())
		if !p.tryEatBool(lexer.COMMA) {
			break
		}
	}
	p.eat(lexer.RPAREN)
	return out
}

func (p *Parser) parseIndexColDef() *ast.IndexColDef {
	col := &ast.IndexColDef{Name: p.parseIdent()}
	if p.is(lexer.LPAREN) {
		p.advance()
		n, _ := strconv.Atoi(string(p.tok.Raw))
		col.Length = &n
		p.eat(lexer.INT)
		p.eat(lexer.RPAREN)
	}
	if p.tryEatBool(lexer.DESC) {
		col.Desc = true
	} else {
		p.tryEatBool(lexer.ASC)
	}
	return col
}

func (p *Parser) parseRefActions() (onDelete, onUpdate ast.RefAction) {
	for p.is(lexer.ON) {
		p.advance()
		isDelete := p.is(lexer.DELETE)
		if isDelete {
			p.advance()
		} else {
			p.eat(lexer.UPDATE)
		}
		action := p.parseRefAction()
		if isDelete {
			onDelete = action
		} else {
			onUpdate = action
		}
	}
	return
}

func (p *Parser) parseRefAction() ast.RefAction {
	switch {
	case p.is(lexer.RESTRICT):
		p.advance()
		return ast.Restrict
	case p.is(lexer.CASCADE):
		p.advance()
		return ast.Cascade
	case p.is(lexer.SET):
		p.advance()
		if p.tryEatBool(lexer.NULL_KW) {
			return ast.SetNull
		}
		p.eat(lexer.DEFAULT)
		return ast.SetDefault
	case p.is(lexer.NO):
		p.advance()
		p.advance() // ACTION
		return ast.NoAction
	}
	p.errorf("unexpected referential action %q", p.tokenDesc())
	return ast.NoAction
}

func (p *Parser) parseColumnDef() *ast.ColumnDef {
	pos := p.tok.Pos
	col := &ast.ColumnDef{Name: p.parseIdent(), TokPos: pos}
	col.Type = p.parseDataType()
	for {
		switch {
		case p.is(lexer.NOT):
			p.advance()
			p.eat(lexer.NULL_KW)
			col.NotNull = true
		case p.is(lexer.NULL_KW):
			p.advance()
		case p.tryEatBool(lexer.DEFAULT):
			col.Default = p.parseExpr(precUnary)
		case p.is(lexer.AUTO_INCREMENT) || p.tok.Upper == "AUTO_INCREMENT":
			p.advance()
			col.AutoIncrement = true
		case p.is(lexer.PRIMARY):
			p.advance()
			p.eat(lexer.KEY)
			col.PrimaryKey = true
		case p.is(lexer.UNIQUE):
			p.advance()
			col.Unique = true
		case p.is(lexer.COMMENT_KW):
			p.advance()
			t := p.eat(lexer.STRING)
			col.Comment = &ast.Literal{Raw: t.Raw, Kind: t.Type, TokPos: t.Pos}
		case p.is(lexer.REFERENCES):
			p.advance()
			ref := &ast.ForeignKeyRef{Table: p.parseQualifiedIdent()}
			if p.is(lexer.LPAREN) {
				p.advance()
				ref.Columns = p.parseIdentList()
				p.eat(lexer.RPAREN)
			}
			ref.OnDelete, ref.OnUpdate = p.parseRefActions()
			col.References = ref
		case p.is(lexer.CHECK):
			p.advance()
			p.eat(lexer.LPAREN)
			col.Check = p.parseExpr(precLowest)
			p.eat(lexer.RPAREN)
		case p.tok.Upper == "GENERATED":
			p.advance()
			if p.tryEatBool(lexer.BY) {
				p.eat(lexer.DEFAULT) // GENERATED BY DEFAULT (not modeled further)
			}
			if p.tok.Upper == "ALWAYS" {
				p.advance()
			}
			p.eat(lexer.AS)
			p.eat(lexer.LPAREN)
			gexpr := p.parseExpr(precLowest)
			p.eat(lexer.RPAREN)
			gc := &ast.GeneratedCol{Expr: gexpr}
			if p.tok.Upper == "STORED" {
				p.advance()
				gc.Stored = true
			} else if p.tok.Upper == "VIRTUAL" {
				p.advance()
			}
			col.Generated = gc
		case p.is(lexer.ON) && p.peek().Type == lexer.UPDATE:
			p.advance()
			p.advance()
			col.OnUpdate = p.parseExpr(precUnary)
		default:
			return col
		}
	}
}

func (p *Parser) parseTableOptions() []ast.TableOption {
	var opts []ast.TableOption
	for p.is(lexer.IDENT) || p.is(lexer.ENGINE) {
		key := p.tok.Raw
		p.advance()
		p.tryEatBool(lexer.EQ)
		if p.is(lexer.IDENT) || p.is(lexer.STRING) || p.is(lexer.INT) {
			opts = append(opts, ast.TableOption{Key: key, Value: p.tok.Raw})
			p.advance()
		}
		p.tryEatBool(lexer.COMMA)
	}
	return opts
}

func (p *Parser) parseCreateIndex(pos int32, unique bool) *ast.CreateIndexStmt {
	p.advance() // INDEX
	stmt := &ast.CreateIndexStmt{TokPos: pos}
	if unique {
		stmt.Type = ast.UniqueConstraint
	}
	stmt.Name = p.parseIdent()
	p.eat(lexer.ON)
	stmt.Table = p.parseQualifiedIdent()
	if p.is(lexer.USING) {
		p.advance()
		stmt.IndexAlg = p.tok.Raw
		p.advance()
	}
	stmt.Columns = p.parseIndexColDefList()
	return stmt
}

func (p *Parser) parseCreateView(pos int32, orReplace bool) *ast.CreateViewStmt {
	p.advance() // VIEW
	stmt := &ast.CreateViewStmt{TokPos: pos, OrReplace: orReplace}
	stmt.Name = p.parseQualifiedIdent()
	if p.is(lexer.LPAREN) {
		p.advance()
		stmt.Columns = p.parseIdentList()
		p.eat(lexer.RPAREN)
	}
	p.eat(lexer.AS)
	stmt.Select = p.parseSelect()
	return stmt
}

func (p *Parser) parseCreateDatabase(pos int32) *ast.CreateDatabaseStmt {
	p.advance() // DATABASE | SCHEMA
	stmt := &ast.CreateDatabaseStmt{TokPos: pos}
	if p.is(lexer.IF) {
		p.advance()
		p.eat(lexer.NOT)
		p.eat(lexer.EXISTS)
		stmt.IfNotExists = true
	}
	stmt.Name = p.parseIdent()
	stmt.Options = p.parseTableOptions()
	return stmt
}

// parseCreatePolicy parses postgres row-level security policies. The
// USING/WITH CHECK expressions are captured verbatim (Tail) rather than
// structurally since they commonly reference pseudo-columns (e.g.
// current_user) whose grammar varies by predicate shape more than other
// expression contexts this parser models.
func (p *Parser) parseCreatePolicy(pos int32) *ast.CreatePolicy {
	p.advance() // POLICY
	stmt := &ast.CreatePolicy{TokPos: pos}
	stmt.Name = p.parseIdent()
	p.eat(lexer.ON)
	stmt.Table = p.parseQualifiedIdent()
	if p.is(lexer.AS) {
		p.advance()
		if p.tok.Upper == "PERMISSIVE" {
			p.advance()
			t := true
			stmt.Permissive = &t
		} else if p.tok.Upper == "RESTRICTIVE" {
			p.advance()
			f := false
			stmt.Permissive = &f
		}
	}
	if p.is(lexer.FOR) {
		p.advance()
		stmt.Command = p.tok.Raw
		p.advance()
	}
	if p.is(lexer.TO) {
		p.advance()
		stmt.Roles = p.parseIdentList()
	}
	start := p.tok.Pos
	for !p.is(lexer.SEMICOLON) && !p.is(lexer.EOF) {
		p.advance()
	}
	stmt.Tail = p.sliceSrc(start, p.tok.Pos)
	return stmt
}

// ---- ALTER ----

func (p *Parser) parseAlter() ast.Statement {
	pos := p.tok.Pos
	p.advance() // ALTER
	switch {
	case p.is(lexer.TABLE):
		return p.parseAlterTable(pos)
	case p.is(lexer.DATABASE) || p.is(lexer.SCHEMA):
		return p.parseAlterDatabase(pos)
	}
	p.errorf("unexpected token %q after ALTER", p.tokenDesc())
	return nil
}

func (p *Parser) parseAlterTable(pos int32) *ast.AlterTableStmt {
	p.advance() // TABLE
	stmt := &ast.AlterTableStmt{TokPos: pos}
	stmt.Table = p.parseQualifiedIdent()
	for {
		stmt.Cmds = append(stmt.Cmds, p.parseAlterCmd())
		if !p.tryEatBool(lexer.COMMA) {
			break
		}
	}
	return stmt
}

func (p *Parser) parseAlterCmd() ast.AlterCmd {
	pos := p.tok.Pos
	switch {
	case p.is(lexer.ADD):
		p.advance()
		if p.isConstraintStart() {
			return &ast.AddConstraintCmd{Constraint: p.parseTableConstraint(), TokPos: pos}
		}
		p.tryEatBool(lexer.COLUMN)
		cmd := &ast.AddColumnCmd{Col: p.parseColumnDef(), TokPos: pos}
		if p.is(lexer.FIRST) {
			p.advance()
			cmd.First = true
		} else if p.is(lexer.AFTER) {
			p.advance()
			cmd.After = p.parseIdent()
		}
		return cmd
	case p.is(lexer.DROP):
		p.advance()
		switch {
		case p.tryEatBool(lexer.COLUMN):
			return &ast.DropColumnCmd{Name: p.parseIdent(), TokPos: pos}
		case p.is(lexer.PRIMARY):
			p.advance()
			p.eat(lexer.KEY)
			return &ast.DropIndexCmd{TokPos: pos}
		case p.is(lexer.INDEX) || p.is(lexer.KEY):
			p.advance()
			return &ast.DropIndexCmd{Name: p.parseIdent(), TokPos: pos}
		case p.is(lexer.CONSTRAINT):
			p.advance()
			return &ast.DropIndexCmd{Name: p.parseIdent(), TokPos: pos}
		default:
			return &ast.DropColumnCmd{Name: p.parseIdent(), TokPos: pos}
		}
	case p.tok.Upper == "MODIFY":
		p.advance()
		p.tryEatBool(lexer.COLUMN)
		cmd := &ast.ModifyColumnCmd{Col: p.parseColumnDef(), TokPos: pos}
		if p.is(lexer.FIRST) {
			p.advance()
			cmd.First = true
		} else if p.is(lexer.AFTER) {
			p.advance()
			cmd.After = p.parseIdent()
		}
		return cmd
	case p.tok.Upper == "ALTER":
		p.advance()
		p.tryEatBool(lexer.COLUMN)
		name := p.parseIdent()
		_ = name
		if p.tryEatBool(lexer.DEFAULT) {
			p.advance()
		} else if p.tryEatBool(lexer.DROP) {
			p.eat(lexer.DEFAULT)
		}
		return &ast.ModifyColumnCmd{Col: &ast.ColumnDef{Name: name}, TokPos: pos}
	case p.is(lexer.RENAME):
		p.advance()
		if p.is(lexer.TO) {
			p.advance()
		}
		return &ast.RenameTableCmd{NewName: p.parseQualifiedIdent(), TokPos: pos}
	}
	p.errorf("unexpected ALTER TABLE command %q", p.tokenDesc())
	return nil
}

func (p *Parser) parseAlterDatabase(pos int32) *ast.AlterDatabaseStmt {
	p.advance() // DATABASE | SCHEMA
	stmt := &ast.AlterDatabaseStmt{TokPos: pos}
	stmt.Name = p.parseIdent()
	stmt.Options = p.parseTableOptions()
	return stmt
}

// ---- DROP ----

func (p *Parser) parseDrop() ast.Statement {
	pos := p.tok.Pos
	p.advance() // DROP
	switch {
	case p.is(lexer.TABLE):
		p.advance()
		return p.parseDropTable(pos)
	case p.is(lexer.INDEX):
		p.advance()
		return p.parseDropIndex(pos)
	case p.is(lexer.DATABASE) || p.is(lexer.SCHEMA):
		p.advance()
		return p.parseDropDatabase(pos)
	case p.is(lexer.VIEW):
		p.advance()
		stmt := &ast.DropTableStmt{TokPos: pos}
		if p.is(lexer.IF) {
			p.advance()
			p.eat(lexer.EXISTS)
			stmt.IfExists = true
		}
		stmt.Tables = append(stmt.Tables, p.parseQualifiedIdent())
		for p.tryEatBool(lexer.COMMA) {
			stmt.Tables = append(stmt.Tables, p.parseQualifiedIdent())
		}
		return stmt
	case p.is(lexer.FUNCTION) || p.is(lexer.PROCEDURE) || p.is(lexer.TRIGGER):
		stmt := &ast.GenericDDLStmt{Verb: []byte("DROP"), Object: p.tok.Raw, TokPos: pos}
		p.advance()
		stmt.Name = p.parseIdent()
		return stmt
	}
	p.errorf("unexpected token %q after DROP", p.tokenDesc())
	return nil
}

func (p *Parser) parseDropTable(pos int32) *ast.DropTableStmt {
	stmt := &ast.DropTableStmt{TokPos: pos}
	if p.is(lexer.IF) {
		p.advance()
		p.eat(lexer.EXISTS)
		stmt.IfExists = true
	}
	stmt.Tables = append(stmt.Tables, p.parseQualifiedIdent())
	for p.tryEatBool(lexer.COMMA) {
		stmt.Tables = append(stmt.Tables, p.parseQualifiedIdent())
	}
	if p.is(lexer.CASCADE) {
		p.advance()
		stmt.Cascade = true
	} else if p.is(lexer.RESTRICT) {
		p.advance()
	}
	return stmt
}

func (p *Parser) parseDropIndex(pos int32) *ast.DropIndexStmt {
	stmt := &ast.DropIndexStmt{TokPos: pos}
	if p.is(lexer.IF) {
		p.advance()
		p.eat(lexer.EXISTS)
		stmt.IfExists = true
	}
	stmt.Name = p.parseIdent()
	if p.tryEatBool(lexer.ON) {
		stmt.Table = p.parseQualifiedIdent()
	}
	return stmt
}

func (p *Parser) parseDropDatabase(pos int32) *ast.DropDatabaseStmt {
	stmt := &ast.DropDatabaseStmt{TokPos: pos}
	if p.is(lexer.IF) {
		p.advance()
		p.eat(lexer.EXISTS)
		stmt.IfExists = true
	}
	stmt.Name = p.parseIdent()
	return stmt
}
