package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqlriver "github.com/oarkflow/sqlriver"
	"github.com/oarkflow/sqlriver/ast"
	"github.com/oarkflow/sqlriver/dialect"
	"github.com/oarkflow/sqlriver/lexer"
	"github.com/oarkflow/sqlriver/parser"
)

// The tests in this file check the universal invariants and the concrete
// end-to-end scenarios directly, rather than leaving them as prose. Each
// TestProperty* below corresponds to one numbered invariant; each
// TestScenario* to one numbered scenario.

var propertySamples = []string{
	"SELECT 1",
	"SELECT id, name FROM users WHERE id = 1",
	"SELECT * FROM a JOIN b ON a.id = b.a_id",
	"INSERT INTO t (a, b) VALUES (1, 2), (3, 4)",
	"-- leading comment\nSELECT 1 /* trailing */",
	"CREATE TABLE t (id INT PRIMARY KEY, name VARCHAR(32) NOT NULL)",
	"SELECT 1 UNION SELECT 2 ORDER BY 1",
	"WITH cte AS (SELECT 1) SELECT * FROM cte",
}

func tokenizeAll(t *testing.T, sql string) []lexer.Token {
	t.Helper()
	toks, err := sqlriver.Tokenize([]byte(sql), dialect.ANSI(), lexer.DefaultOptions(), nil)
	require.NoError(t, err)
	return toks
}

// 1. Token coverage: concatenating every token's Raw reproduces the source.
func TestPropertyTokenCoverage(t *testing.T) {
	for _, sql := range propertySamples {
		toks := tokenizeAll(t, sql)
		var buf strings.Builder
		for _, tok := range toks {
			buf.Write(tok.Raw)
		}
		assert.Equal(t, sql, buf.String(), "token concatenation must reproduce source for %q", sql)
	}
}

// 2. Offset monotonicity: consecutive tokens never overlap.
func TestPropertyOffsetMonotonicity(t *testing.T) {
	for _, sql := range propertySamples {
		toks := tokenizeAll(t, sql)
		for i := 1; i < len(toks); i++ {
			prev, cur := toks[i-1], toks[i]
			assert.LessOrEqualf(t, prev.Pos+int32(len(prev.Raw)), cur.Pos,
				"token %d (%q) overlaps token %d (%q) in %q", i-1, prev.Raw, i, cur.Raw, sql)
		}
	}
}

// 3. Statement count: semicolon-separated statements with no recovery
// produce exactly one Statement node per non-empty region.
func TestPropertyStatementCount(t *testing.T) {
	sql := "SELECT 1; SELECT 2; SELECT 3"
	results, err := sqlriver.ParseStatements(sql, sqlriver.DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

// 4. Raw preservation: re-parsing a Raw node's own text yields a single Raw
// node with the same text.
func TestPropertyRawPreservation(t *testing.T) {
	sql := "SELECT FROM;"
	results, err := sqlriver.ParseStatements(sql, sqlriver.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 1)
	raw, ok := results[0].Stmt.(*ast.Raw)
	require.Truef(t, ok, "expected *ast.Raw, got %T", results[0].Stmt)

	again, err := sqlriver.ParseStatements(string(raw.Text), sqlriver.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, again, 1)
	raw2, ok := again[0].Stmt.(*ast.Raw)
	require.Truef(t, ok, "re-parse expected *ast.Raw, got %T", again[0].Stmt)
	assert.Equal(t, string(raw.Text), string(raw2.Text))
}

// 5. Recovery does not crash: malformed input with recover=true returns
// rather than panicking, for any input that isn't a depth/size/lex failure.
func TestPropertyRecoveryDoesNotCrash(t *testing.T) {
	malformed := []string{
		"SELECT FROM;",
		"CREATE TABLE;",
		"INSERT INTO;",
		")))",
		"SELECT 1 WHERE;",
		";;;",
	}
	for _, sql := range malformed {
		sql := sql
		assert.NotPanics(t, func() {
			_, err := sqlriver.ParseStatements(sql, sqlriver.DefaultOptions())
			_ = err
		}, "recover=true must not panic on %q", sql)
	}
}

// 6. Strict implies recover superset: when recover=false succeeds, recover=true
// returns the same sequence of structured statements.
func TestPropertyStrictRecoverSuperset(t *testing.T) {
	for _, sql := range propertySamples {
		strictOpts := sqlriver.DefaultOptions()
		strictOpts.Recover = false
		strictResults, err := sqlriver.ParseStatements(sql, strictOpts)
		require.NoErrorf(t, err, "strict parse of %q failed", sql)

		recoverResults, err := sqlriver.ParseStatements(sql, sqlriver.DefaultOptions())
		require.NoError(t, err)

		require.Len(t, recoverResults, len(strictResults))
		for i := range strictResults {
			assert.IsTypef(t, strictResults[i].Stmt, recoverResults[i].Stmt,
				"statement %d differs in type between strict and recover parses of %q", i, sql)
		}
	}
}

// 7. Depth bound: deeply nested parens either return or raise MaxDepthError,
// never stack overflow, for a bounded max_depth.
func TestPropertyDepthBound(t *testing.T) {
	sql := "SELECT " + strings.Repeat("(", 500) + "1" + strings.Repeat(")", 500) + ";"
	opts := sqlriver.DefaultOptions()
	opts.MaxDepth = 100
	_, err := sqlriver.ParseStatements(sql, opts)
	require.Error(t, err)
	var mde *parser.MaxDepthError
	assert.ErrorAsf(t, err, &mde, "expected MaxDepthError, got %T: %v", err, err)
}

// Oversize input is refused pre-parse, before a single byte is tokenized.
func TestInputTooLargeRefusedPreParse(t *testing.T) {
	opts := sqlriver.DefaultOptions()
	opts.LexerOptions.MaxInputSize = 16
	oversized := "SELECT 1, 2, 3, 4, 5;"
	require.Greater(t, len(oversized), opts.LexerOptions.MaxInputSize)

	_, err := sqlriver.ParseStatements(oversized, opts)
	require.Error(t, err)
	var tooLarge *lexer.InputTooLarge
	require.ErrorAsf(t, err, &tooLarge, "expected InputTooLarge, got %T: %v", err, err)
	assert.Equal(t, opts.LexerOptions.MaxInputSize, tooLarge.Limit)

	p := parser.NewString(oversized, opts)
	_, err = p.ParseOne()
	require.ErrorAs(t, err, &tooLarge)
}

// ---- concrete end-to-end scenarios (§8) ----

func TestScenario1TwoSelects(t *testing.T) {
	results, err := sqlriver.ParseStatements("SELECT 1; SELECT 2;", sqlriver.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.IsType(t, &ast.SelectStmt{}, r.Stmt)
	}
}

func TestScenario2ExpectedExpression(t *testing.T) {
	opts := sqlriver.DefaultOptions()
	opts.Recover = false
	_, err := sqlriver.ParseStatements("SELECT FROM;", opts)
	require.Error(t, err)
	var pe *parser.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "expression", pe.Expected)
}

func TestScenario3RecoveredParseError(t *testing.T) {
	results, err := sqlriver.ParseStatements("SELECT FROM;", sqlriver.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 1)
	raw, ok := results[0].Stmt.(*ast.Raw)
	require.True(t, ok)
	assert.Equal(t, ast.RawParseError, raw.Reason)
	assert.Equal(t, "SELECT FROM;", string(raw.Text))
}

func TestScenario4MaxDepthRegardlessOfRecover(t *testing.T) {
	sql := "SELECT " + strings.Repeat("(", 120) + "1" + strings.Repeat(")", 120) + ";"
	for _, recover_ := range []bool{true, false} {
		opts := sqlriver.DefaultOptions()
		opts.MaxDepth = 100
		opts.Recover = recover_
		_, err := sqlriver.ParseStatements(sql, opts)
		require.Error(t, err)
		var mde *parser.MaxDepthError
		require.ErrorAs(t, err, &mde)
		assert.Equal(t, 100, mde.Depth)
	}
}

func TestScenario5CommentOnly(t *testing.T) {
	results, err := sqlriver.ParseStatements("-- only a comment\n", sqlriver.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 1)
	raw, ok := results[0].Stmt.(*ast.Raw)
	require.True(t, ok)
	assert.Equal(t, ast.RawCommentOnly, raw.Reason)
	assert.Equal(t, "-- only a comment", string(raw.Text))
}

func TestScenario6CteSelect(t *testing.T) {
	stmt := mustParse(t, "WITH cte AS (SELECT 1) SELECT * FROM cte")
	sel, ok := stmt.(*ast.SelectStmt)
	require.True(t, ok, "expected *ast.SelectStmt, got %T", stmt)
	require.NotNil(t, sel.With)
	assert.Len(t, sel.With.CTEs, 1)
}

func TestScenario7UnionOrderBy(t *testing.T) {
	stmt := mustParse(t, "SELECT 1 UNION SELECT 2 ORDER BY 1")
	union, ok := stmt.(*ast.Union)
	require.True(t, ok, "expected *ast.Union, got %T", stmt)
	assert.Equal(t, ast.UnionOp, union.Op)
}
