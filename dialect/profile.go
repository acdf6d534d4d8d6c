// Package dialect holds the closed, frozen keyword and behavior tables
// that parameterize the lexer and parser for a given SQL dialect. A
// Profile is data, not code: the lexer and parser never special-case a
// dialect name directly, they only consult the Profile they were built
// with.
package dialect

import (
	"strings"

	"github.com/oarkflow/sqlriver/lexer"
)

// StatementHandler tags how the parser should treat a statement whose
// leading keyword it recognizes but whose full grammar it does not
// implement structurally.
type StatementHandler uint8

const (
	// HandlerStructured means the parser builds a typed AST node.
	HandlerStructured StatementHandler = iota
	// HandlerVerbatimUnsupported consumes to the next statement boundary
	// and emits Raw{Reason: ast.RawUnsupported}.
	HandlerVerbatimUnsupported
	// HandlerSingleLineUnsupported consumes to end-of-line only (used for
	// the T-SQL GO batch separator, meta-commands and session-state
	// one-liners) and emits Raw{Reason: ast.RawUnsupported}.
	HandlerSingleLineUnsupported
	// HandlerDelimiterScript (MySQL DELIMITER) consumes the rest of the
	// input as one Raw{Reason: ast.RawVerbatim} span; the custom delimiter
	// itself is not tracked.
	HandlerDelimiterScript
)

// Profile is a closed set of classification tables. Each call to a
// built-in constructor (ANSI, Postgres, MySQL, TSQL) returns a freshly
// built Profile; Extend returns a new Profile so callers can layer a
// user-supplied clause-keyword extension without mutating the original.
type Profile struct {
	Name string

	// Keywords maps the uppercased spelling of a word to the keyword
	// TokenType it denotes in this dialect. Words absent from this map
	// lex as IDENT.
	Keywords map[string]lexer.TokenType

	// FunctionKeywords marks keyword token types that may still be used
	// as a function name when immediately followed by '(' — e.g. LEFT,
	// RIGHT, REPLACE, INSERT, VALUES.
	FunctionKeywords map[lexer.TokenType]bool

	// ClauseKeywords marks keyword token types that introduce a clause
	// within a statement (as opposed to a statement starter). The parser
	// does not read this table: its alias detection accepts only
	// identifier tokens, so a keyword is never taken as an alias.
	ClauseKeywords map[lexer.TokenType]bool

	// StatementStarters marks the keyword token types that may begin a
	// top-level statement.
	StatementStarters map[lexer.TokenType]bool

	// StatementHandlers overrides the default (structured) handling for
	// specific statement-starter keywords.
	StatementHandlers map[lexer.TokenType]StatementHandler

	// Lexer behavior flags.
	AllowDollarQuotes       bool // postgres $$ / $tag$ strings
	AllowBracketQuotes      bool // t-sql [ident], oracle q'[...]'
	AllowBackslashEscapes   bool // mysql backslash-escaped strings
	AllowCharsetIntroducers bool // mysql _binary'...'
	AllowMetaCommands       bool // psql \gset, \., etc. as line comments
	AllowDurationLiterals   bool // 10ms, 30s, 5y numeric suffixes
	IdentifierQuote         byte // default quote char for unquoted-form rendering; 0 = none
}

type kwEntry struct {
	word string
	tok  lexer.TokenType
}

// ansiBaseline lists the keyword vocabulary common to every builtin
// dialect. Per-dialect profiles start from this list and add or remove
// words via additions/removals below.
var ansiBaseline = []kwEntry{
	{"ADD", lexer.ADD}, {"ALL", lexer.ALL}, {"ALTER", lexer.ALTER},
	{"ANALYZE", lexer.ANALYZE}, {"AND", lexer.AND}, {"ARRAY", lexer.ARRAY},
	{"AS", lexer.AS}, {"ASC", lexer.ASC}, {"BEGIN", lexer.BEGIN},
	{"BETWEEN", lexer.BETWEEN}, {"BOTH", lexer.BOTH}, {"BREADTH", lexer.BREADTH},
	{"BY", lexer.BY}, {"CALL", lexer.CALL}, {"CASCADE", lexer.CASCADE},
	{"CASE", lexer.CASE}, {"CAST", lexer.CAST}, {"CHARACTER", lexer.CHARACTER},
	{"CHECK", lexer.CHECK}, {"COLLATE", lexer.COLLATE}, {"COLUMN", lexer.COLUMN},
	{"COMMENT", lexer.COMMENT_KW}, {"COMMIT", lexer.COMMIT},
	{"CONFLICT", lexer.CONFLICT}, {"CONSTRAINT", lexer.CONSTRAINT},
	{"COPY", lexer.COPY}, {"CREATE", lexer.CREATE}, {"CROSS", lexer.CROSS},
	{"CUBE", lexer.CUBE}, {"CYCLE", lexer.CYCLE}, {"DATABASE", lexer.DATABASE},
	{"DEALLOCATE", lexer.DEALLOCATE}, {"DECLARE", lexer.DECLARE},
	{"DEFAULT", lexer.DEFAULT}, {"DEFERRABLE", lexer.DEFERRABLE},
	{"DEFERRED", lexer.DEFERRED}, {"DELETE", lexer.DELETE},
	{"DEPTH", lexer.DEPTH}, {"DESC", lexer.DESC}, {"DESCRIBE", lexer.DESCRIBE},
	{"DISTINCT", lexer.DISTINCT}, {"DO", lexer.DO}, {"DROP", lexer.DROP},
	{"ELSE", lexer.ELSE}, {"END", lexer.END}, {"ESCAPE", lexer.ESCAPE},
	{"EXCEPT", lexer.EXCEPT}, {"EXCLUDE", lexer.EXCLUDE},
	{"EXECUTE", lexer.EXECUTE}, {"EXISTS", lexer.EXISTS},
	{"EXPLAIN", lexer.EXPLAIN}, {"EXTRACT", lexer.EXTRACT},
	{"FALSE", lexer.FALSE_KW}, {"FETCH", lexer.FETCH}, {"FILTER", lexer.FILTER},
	{"FIRST", lexer.FIRST}, {"FOLLOWING", lexer.FOLLOWING}, {"FOR", lexer.FOR},
	{"FOREIGN", lexer.FOREIGN}, {"FROM", lexer.FROM}, {"FULL", lexer.FULL},
	{"FUNCTION", lexer.FUNCTION}, {"GLOBAL", lexer.GLOBAL},
	{"GRANT", lexer.GRANT}, {"GROUP", lexer.GROUP},
	{"GROUPING", lexer.GROUPING}, {"GROUPS", lexer.GROUPS},
	{"HAVING", lexer.HAVING}, {"IF", lexer.IF}, {"IN", lexer.IN},
	{"INDEX", lexer.INDEX}, {"INNER", lexer.INNER}, {"INSERT", lexer.INSERT},
	{"INTERSECT", lexer.INTERSECT}, {"INTO", lexer.INTO}, {"IS", lexer.IS},
	{"JOIN", lexer.JOIN}, {"KEY", lexer.KEY}, {"LAST", lexer.LAST},
	{"LATERAL", lexer.LATERAL}, {"LEADING", lexer.LEADING},
	{"LEFT", lexer.LEFT}, {"LIKE", lexer.LIKE}, {"LIMIT", lexer.LIMIT},
	{"LOCAL", lexer.LOCAL}, {"MATCH", lexer.MATCH}, {"MATCHED", lexer.MATCHED},
	{"MATERIALIZED", lexer.MATERIALIZED}, {"MERGE", lexer.MERGE},
	{"NATURAL", lexer.NATURAL}, {"NO", lexer.NO}, {"NOT", lexer.NOT},
	{"NOTHING", lexer.NOTHING}, {"NULL", lexer.NULL_KW},
	{"NULLS", lexer.NULLS}, {"OFFSET", lexer.OFFSET}, {"ON", lexer.ON},
	{"OR", lexer.OR}, {"ORDER", lexer.ORDER},
	{"ORDINALITY", lexer.ORDINALITY}, {"OUTER", lexer.OUTER},
	{"OUTPUT", lexer.OUTPUT}, {"OVER", lexer.OVER}, {"OVERLAY", lexer.OVERLAY},
	{"OWNER", lexer.OWNER}, {"PARTITION", lexer.PARTITION},
	{"PLACING", lexer.PLACING}, {"POLICY", lexer.POLICY},
	{"POSITION", lexer.POSITION}, {"PRECEDING", lexer.PRECEDING},
	{"PREPARE", lexer.PREPARE}, {"PRIMARY", lexer.PRIMARY},
	{"PROCEDURE", lexer.PROCEDURE}, {"RANGE", lexer.RANGE},
	{"RECURSIVE", lexer.RECURSIVE}, {"REFERENCES", lexer.REFERENCES},
	{"RELEASE", lexer.RELEASE}, {"RENAME", lexer.RENAME},
	{"REPEATABLE", lexer.REPEATABLE}, {"REPLACE", lexer.REPLACE},
	{"RESET", lexer.RESET}, {"RESTRICT", lexer.RESTRICT},
	{"RETURNING", lexer.RETURNING}, {"REVOKE", lexer.REVOKE},
	{"RIGHT", lexer.RIGHT}, {"ROLLBACK", lexer.ROLLBACK},
	{"ROLLUP", lexer.ROLLUP}, {"ROWS", lexer.ROWS},
	{"SAVEPOINT", lexer.SAVEPOINT}, {"SCHEMA", lexer.SCHEMA},
	{"SEARCH", lexer.SEARCH}, {"SELECT", lexer.SELECT},
	{"SEPARATOR", lexer.SEPARATOR}, {"SESSION", lexer.SESSION},
	{"SET", lexer.SET}, {"SETS", lexer.SETS}, {"SHOW", lexer.SHOW},
	{"START", lexer.START}, {"SUBSTRING", lexer.SUBSTRING},
	{"TABLE", lexer.TABLE}, {"TABLES", lexer.TABLES},
	{"TABLESAMPLE", lexer.TABLESAMPLE}, {"TABLESPACE", lexer.TABLESPACE},
	{"THEN", lexer.THEN}, {"TIES", lexer.TIES}, {"TO", lexer.TO},
	{"TRAILING", lexer.TRAILING}, {"TRANSACTION", lexer.TRANSACTION},
	{"TRIGGER", lexer.TRIGGER}, {"TRIM", lexer.TRIM},
	{"TRUE", lexer.TRUE_KW}, {"TRUNCATE", lexer.TRUNCATE},
	{"UNBOUNDED", lexer.UNBOUNDED}, {"UNION", lexer.UNION},
	{"UNIQUE", lexer.UNIQUE}, {"UPDATE", lexer.UPDATE}, {"USE", lexer.USE},
	{"USING", lexer.USING}, {"VACUUM", lexer.VACUUM},
	{"VALUES", lexer.VALUES}, {"VIEW", lexer.VIEW}, {"WHEN", lexer.WHEN},
	{"WHERE", lexer.WHERE}, {"WINDOW", lexer.WINDOW}, {"WITH", lexer.WITH},
	{"WITHIN", lexer.WITHIN}, {"WITHOUT", lexer.WITHOUT},

	// data types
	{"BIGINT", lexer.BIGINT}, {"BINARY", lexer.BINARY}, {"BLOB", lexer.BLOB},
	{"BOOLEAN", lexer.BOOLEAN}, {"CHAR", lexer.CHAR}, {"DATE", lexer.DATE},
	{"DATETIME", lexer.DATETIME}, {"DECIMAL", lexer.DECIMAL},
	{"DOUBLE", lexer.DOUBLE}, {"ENUM", lexer.ENUM},
	{"FLOAT", lexer.FLOAT_KW}, {"INT", lexer.INT_KW},
	{"INTEGER", lexer.INTEGER}, {"JSON", lexer.JSON}, {"JSONB", lexer.JSONB},
	{"NCHAR", lexer.NCHAR}, {"NUMERIC", lexer.NUMERIC}, {"REAL", lexer.REAL},
	{"SMALLINT", lexer.SMALLINT}, {"TEXT", lexer.TEXT}, {"TIME", lexer.TIME},
	{"TIMESTAMP", lexer.TIMESTAMP}, {"VARBINARY", lexer.VARBINARY},
	{"VARCHAR", lexer.VARCHAR}, {"YEAR", lexer.YEAR},
}

func baseKeywordMap() map[string]lexer.TokenType {
	m := make(map[string]lexer.TokenType, len(ansiBaseline)+16)
	for _, e := range ansiBaseline {
		m[e.word] = e.tok
	}
	return m
}

func baseFunctionKeywords() map[lexer.TokenType]bool {
	return map[lexer.TokenType]bool{
		lexer.LEFT: true, lexer.RIGHT: true, lexer.REPLACE: true,
		lexer.INSERT: true, lexer.VALUES: true, lexer.IF: true,
		lexer.POSITION: true, lexer.EXTRACT: true, lexer.SUBSTRING: true,
		lexer.OVERLAY: true, lexer.TRIM: true, lexer.CAST: true,
	}
}

func baseClauseKeywords() map[lexer.TokenType]bool {
	return map[lexer.TokenType]bool{
		lexer.FROM: true, lexer.WHERE: true, lexer.GROUP: true,
		lexer.HAVING: true, lexer.ORDER: true, lexer.LIMIT: true,
		lexer.OFFSET: true, lexer.UNION: true, lexer.INTERSECT: true,
		lexer.EXCEPT: true, lexer.JOIN: true, lexer.INNER: true,
		lexer.LEFT: true, lexer.RIGHT: true, lexer.FULL: true,
		lexer.CROSS: true, lexer.ON: true, lexer.USING: true,
		lexer.SET: true, lexer.VALUES: true, lexer.RETURNING: true,
		lexer.WINDOW: true, lexer.FILTER: true, lexer.WITHIN: true,
		lexer.PARTITION: true, lexer.WHEN: true, lexer.ELSE: true,
		lexer.END: true, lexer.THEN: true, lexer.INTO: true,
	}
}

func baseStatementStarters() map[lexer.TokenType]bool {
	return map[lexer.TokenType]bool{
		lexer.SELECT: true, lexer.WITH: true, lexer.INSERT: true,
		lexer.REPLACE: true, lexer.UPDATE: true, lexer.DELETE: true,
		lexer.MERGE: true, lexer.CREATE: true, lexer.ALTER: true,
		lexer.DROP: true, lexer.TRUNCATE: true, lexer.USE: true,
		lexer.ROLLBACK: true, lexer.COMMIT: true, lexer.SET: true,
		lexer.SHOW: true, lexer.EXPLAIN: true, lexer.DESCRIBE: true,
		lexer.GRANT: true, lexer.REVOKE: true, lexer.CALL: true,
		lexer.COPY: true, lexer.VALUES: true, lexer.BEGIN: true,
		lexer.START: true, lexer.SAVEPOINT: true, lexer.RELEASE: true,
		lexer.DECLARE: true, lexer.PREPARE: true, lexer.EXECUTE: true,
		lexer.DEALLOCATE: true, lexer.VACUUM: true, lexer.ANALYZE: true,
	}
}

// ANSI is the baseline SQL-92-ish profile every other builtin starts from.
func ANSI() *Profile {
	return &Profile{
		Name:              "ansi",
		Keywords:          baseKeywordMap(),
		FunctionKeywords:  baseFunctionKeywords(),
		ClauseKeywords:    baseClauseKeywords(),
		StatementStarters: baseStatementStarters(),
		StatementHandlers: map[lexer.TokenType]StatementHandler{},
	}
}

// Postgres adds dollar-quoting and the ILIKE, SIMILAR, ISNULL and NOTNULL
// keywords.
func Postgres() *Profile {
	p := ANSI()
	p.Name = "postgres"
	p.AllowDollarQuotes = true
	p.Keywords["ILIKE"] = lexer.ILIKE
	p.Keywords["SIMILAR"] = lexer.SIMILAR
	p.Keywords["ISNULL"] = lexer.ISNULL
	p.Keywords["NOTNULL"] = lexer.NOTNULL
	p.ClauseKeywords[lexer.ILIKE] = true
	p.ClauseKeywords[lexer.SIMILAR] = true
	p.StatementHandlers[lexer.COPY] = HandlerStructured
	return p
}

// MySQL adds backslash escapes, charset introducers, the IGNORE/CHANGE/
// AFTER/AUTO_INCREMENT/ENGINE keywords, and the DELIMITER statement.
// Backtick-quoted identifiers are lexed in every dialect.
func MySQL() *Profile {
	p := ANSI()
	p.Name = "mysql"
	p.AllowBackslashEscapes = true
	p.AllowCharsetIntroducers = true
	p.Keywords["IGNORE"] = lexer.IGNORE
	p.Keywords["CHANGE"] = lexer.CHANGE
	p.Keywords["AFTER"] = lexer.AFTER
	p.Keywords["AUTO_INCREMENT"] = lexer.AUTO_INCREMENT
	p.Keywords["ENGINE"] = lexer.ENGINE
	p.Keywords["SEPARATOR"] = lexer.SEPARATOR
	p.StatementHandlers[lexer.DELIMITER_KW] = HandlerDelimiterScript
	p.Keywords["DELIMITER"] = lexer.DELIMITER_KW
	delete(p.Keywords, "ILIKE")
	return p
}

// TSQL adds bracket-quoted identifiers and the GO batch separator.
func TSQL() *Profile {
	p := ANSI()
	p.Name = "tsql"
	p.AllowBracketQuotes = true
	p.Keywords["GO"] = lexer.GO
	p.StatementHandlers[lexer.GO] = HandlerSingleLineUnsupported
	return p
}

// Builtin resolves a dialect name ("ansi", "postgres", "mysql", "tsql")
// to its Profile, case-insensitively. It returns nil for unknown
// names so callers can decide how to fail.
func Builtin(name string) *Profile {
	switch strings.ToLower(name) {
	case "ansi", "":
		return ANSI()
	case "postgres", "postgresql":
		return Postgres()
	case "mysql":
		return MySQL()
	case "tsql", "mssql":
		return TSQL()
	default:
		return nil
	}
}

// Extend returns a copy of p with additional clause keywords merged in,
// per the dialect extension point (§6.3): only ClauseKeywords may be
// extended by a caller, never the closed Keywords/StatementStarters
// tables, so a user extension cannot silently reclassify an identifier
// as a new statement starter.
func (p *Profile) Extend(extraClauseKeywords ...lexer.TokenType) *Profile {
	cp := *p
	cp.ClauseKeywords = make(map[lexer.TokenType]bool, len(p.ClauseKeywords)+len(extraClauseKeywords))
	for k, v := range p.ClauseKeywords {
		cp.ClauseKeywords[k] = v
	}
	for _, k := range extraClauseKeywords {
		cp.ClauseKeywords[k] = true
	}
	return &cp
}

// Lookup classifies an uppercased word, returning (tokenType, true) if
// it is a keyword in this profile, or (lexer.IDENT, false) otherwise.
func (p *Profile) Lookup(upper string) (lexer.TokenType, bool) {
	tt, ok := p.Keywords[upper]
	if !ok {
		return lexer.IDENT, false
	}
	return tt, true
}
