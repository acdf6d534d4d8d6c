// Package sqlriver is a multi-dialect SQL lexer and recursive-descent
// parser for Go.
//
// Design goals:
//   - Byte-offset-exact, lossless tokenization (whitespace and comments are
//     produced as tokens, not silently dropped)
//   - Dialect-parameterized keyword/handler tables (ANSI, MySQL, Postgres,
//     T-SQL) instead of one hardcoded grammar
//   - Recursive-descent parser with Pratt expression climbing
//   - Recovery-to-Raw parsing: a malformed statement becomes an ast.Raw
//     node instead of aborting the whole input
//   - Full DDL + DML coverage, including MERGE, window functions, CTEs,
//     and the postgres/MySQL upsert tails
//
// Usage:
//
//	stmt, err := sqlriver.ParseStatement("SELECT id, name FROM users WHERE id = 1")
//	stmts, err := sqlriver.ParseStatements(sql, sqlriver.DefaultOptions())
//	p := sqlriver.NewString(sql, sqlriver.DefaultOptions())
//	for {
//	    stmt, err := p.Next()
//	    if stmt == nil { break }
//	}
package sqlriver

import (
	"github.com/oarkflow/sqlriver/ast"
	"github.com/oarkflow/sqlriver/dialect"
	"github.com/oarkflow/sqlriver/lexer"
	"github.com/oarkflow/sqlriver/parser"
)

// Re-export core types so callers only import this package.
type (
	Statement          = ast.Statement
	Expr               = ast.Expr
	SelectStmt         = ast.SelectStmt
	InsertStmt         = ast.InsertStmt
	UpdateStmt         = ast.UpdateStmt
	DeleteStmt         = ast.DeleteStmt
	Merge              = ast.Merge
	Grant              = ast.Grant
	Revoke             = ast.Revoke
	CreateTableStmt    = ast.CreateTableStmt
	CreateDatabaseStmt = ast.CreateDatabaseStmt
	AlterDatabaseStmt  = ast.AlterDatabaseStmt
	DropDatabaseStmt   = ast.DropDatabaseStmt
	AlterTableStmt     = ast.AlterTableStmt
	DropTableStmt      = ast.DropTableStmt
	CallStmt           = ast.CallStmt
	TransactionStmt    = ast.TransactionStmt
	GenericDDLStmt     = ast.GenericDDLStmt
	Raw                = ast.Raw
	StatementResult    = parser.StatementResult
	ParseOptions       = parser.Options
	ParseError         = parser.ParseError
	MaxDepthError      = parser.MaxDepthError
	TokenizeError      = lexer.TokenizeError
	Token              = lexer.Token
	TokenType          = lexer.TokenType
	TokenizeOptions    = lexer.Options
	DialectProfile     = dialect.Profile
)

// Dialect builtins, re-exported for callers who only need the name.
var (
	DialectANSI     = dialect.ANSI
	DialectMySQL    = dialect.MySQL
	DialectPostgres = dialect.Postgres
	DialectTSQL     = dialect.TSQL
)

// DefaultOptions returns the conservative defaults described in
// parser.DefaultOptions: ANSI dialect, a recursion depth cap of 200,
// recovery enabled, and logrus-backed OnRecover/OnDropStatement handlers
// (only OnRecover is ever called).
func DefaultOptions() ParseOptions { return parser.DefaultOptions() }

// ParseStatement parses a single SQL statement from a string using the
// default options. Unlike ParseStatements, it never recovers: a malformed
// statement is returned as an error, not an ast.Raw node.
func ParseStatement(sql string) (Statement, error) {
	p := parser.NewString(sql, DefaultOptions())
	return p.ParseOne()
}

// ParseStatements parses every semicolon-separated statement in sql under
// the given options. When opts.Recover is true (the default), a statement
// that fails to parse is captured as an ast.Raw node and parsing continues
// with the next one instead of aborting the whole input.
func ParseStatements(sql string, opts ParseOptions) ([]StatementResult, error) {
	p := parser.NewString(sql, opts)
	return p.ParseAll()
}

// Parser is a reusable, stateful SQL parser. Reuse a Parser across calls
// via Reset to amortise arena allocations.
type Parser struct {
	p *parser.Parser
}

// New creates a Parser backed by the given SQL bytes.
func New(src []byte, opts ParseOptions) *Parser {
	return &Parser{p: parser.New(src, opts)}
}

// NewString creates a Parser backed by the given SQL string.
func NewString(src string, opts ParseOptions) *Parser {
	return &Parser{p: parser.NewString(src, opts)}
}

// Reset reuses the Parser with new input, keeping internal allocations.
func (p *Parser) Reset(src []byte) { p.p.Reset(src) }

// Next returns the next statement, or (nil, nil) at EOF.
func (p *Parser) Next() (Statement, error) { return p.p.ParseOne() }

// All parses all remaining statements.
func (p *Parser) All() ([]StatementResult, error) { return p.p.ParseAll() }

// Tokenize breaks SQL source into tokens under the given dialect profile.
// The returned tokens reference the original byte slice; buf, if non-nil,
// is reused to avoid an allocation.
func Tokenize(src []byte, profile *DialectProfile, opts TokenizeOptions, buf []Token) ([]Token, error) {
	if profile == nil {
		profile = dialect.ANSI()
	}
	return lexer.Tokenize(src, profile, opts, buf)
}
