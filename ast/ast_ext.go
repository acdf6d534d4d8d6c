package ast

// Raw is a verbatim, unparsed statement span produced by the recovery
// loop (a ParseError while recover=true) or by a statement whose grammar
// sqlriver deliberately does not model structurally (CREATE FUNCTION/
// PROCEDURE/TRIGGER routine bodies and the dialect handler overrides such
// as MySQL DELIMITER and T-SQL GO).
type Raw struct {
	Text   []byte
	Reason RawReason
	TokPos int32
}

func (n *Raw) node()      {}
func (n *Raw) stmtNode()  {}
func (n *Raw) Pos() int32 { return n.TokPos }

// RawReason classifies why a Raw node exists, assigned post-hoc by the
// recovery loop's classification heuristics.
type RawReason uint8

const (
	RawParseError RawReason = iota
	RawUnsupported
	RawCommentOnly
	RawTransactionControl
	RawVerbatim
)

func (r RawReason) String() string {
	switch r {
	case RawParseError:
		return "parse_error"
	case RawUnsupported:
		return "unsupported"
	case RawCommentOnly:
		return "comment_only"
	case RawTransactionControl:
		return "transaction_control"
	case RawVerbatim:
		return "verbatim"
	default:
		return "unknown"
	}
}

// Comment is a standalone comment node. Comments are attached only at
// statement level: as StatementResult.LeadingComments of the next
// statement, or as the text of a trailing comment-only Raw. No AST node
// below the statement carries comments, and no node carries trailing
// comments.
type Comment struct {
	Text             []byte
	Style            CommentStyle
	BlankLinesBefore int
	TokPos           int32
}

func (n *Comment) node()      {}
func (n *Comment) Pos() int32 { return n.TokPos }

type CommentStyle uint8

const (
	LineComment CommentStyle = iota
	BlockComment
)

// Union is a top-level set-operation chain: left (UNION|INTERSECT|EXCEPT)
// [ALL] right. Left may itself be a Union, forming a left-deep chain that
// mirrors source order without needing precedence climbing (all three
// set operators share one precedence tier per §4.2.3).
type Union struct {
	Left   Statement // *SelectStmt or *Union
	Op     SetOp
	All    bool
	Right  *SelectStmt
	TokPos int32
}

func (n *Union) node()      {}
func (n *Union) stmtNode()  {}
func (n *Union) Pos() int32 { return n.TokPos }

// WithSelect is WITH [RECURSIVE] ctes followed by a Union chain. The
// parser uses it only for that case; a plain WITH ... SELECT sets
// SelectStmt.With instead.
type WithSelect struct {
	With   *WithClause
	Select Statement // *SelectStmt or *Union
	TokPos int32
}

func (n *WithSelect) node()      {}
func (n *WithSelect) stmtNode()  {}
func (n *WithSelect) Pos() int32 { return n.TokPos }

// Merge represents MERGE INTO target USING source ON cond WHEN ... THEN ...
type Merge struct {
	Target      TableRef
	Source      TableRef
	On          Expr
	WhenClauses []*MergeWhen
	TokPos      int32
}

func (n *Merge) node()      {}
func (n *Merge) stmtNode()  {}
func (n *Merge) Pos() int32 { return n.TokPos }

type MergeWhen struct {
	Matched   bool
	BySource  bool // MATCHED BY SOURCE (t-sql)
	Condition Expr // additional AND condition
	Action    MergeAction
	Update    []Assignment
	Insert    *MergeInsert
}

type MergeAction uint8

const (
	MergeUpdate MergeAction = iota
	MergeDelete
	MergeInsertAction
	MergeDoNothing
)

type MergeInsert struct {
	Columns    []*Ident
	Values     []Expr
	DefaultRow bool
}

// Grant represents GRANT privileges ON object TO grantees [WITH GRANT OPTION].
type Grant struct {
	Privileges []*Ident
	Object     *QualifiedIdent
	Grantees   []*Ident
	WithGrant  bool
	TokPos     int32
}

func (n *Grant) node()      {}
func (n *Grant) stmtNode()  {}
func (n *Grant) Pos() int32 { return n.TokPos }

// Revoke represents REVOKE privileges ON object FROM grantees.
type Revoke struct {
	Privileges []*Ident
	Object     *QualifiedIdent
	Grantees   []*Ident
	Cascade    bool
	TokPos     int32
}

func (n *Revoke) node()      {}
func (n *Revoke) stmtNode()  {}
func (n *Revoke) Pos() int32 { return n.TokPos }

// CreatePolicy represents Postgres row-level security:
// CREATE POLICY name ON table [AS kind] [FOR cmd] [TO role...] [USING/WITH CHECK verbatim]
type CreatePolicy struct {
	Name       *Ident
	Table      *QualifiedIdent
	Permissive *bool // nil = unspecified, true = PERMISSIVE, false = RESTRICTIVE
	Command    []byte
	Roles      []*Ident
	Tail       []byte // verbatim USING(...)/WITH CHECK(...) text
	TokPos     int32
}

func (n *CreatePolicy) node()      {}
func (n *CreatePolicy) stmtNode()  {}
func (n *CreatePolicy) Pos() int32 { return n.TokPos }

// StandaloneValues is a bare VALUES (...), (...) statement.
type StandaloneValues struct {
	Rows   [][]Expr
	TokPos int32
}

func (n *StandaloneValues) node()      {}
func (n *StandaloneValues) stmtNode()  {}
func (n *StandaloneValues) Pos() int32 { return n.TokPos }

// ExtractExpr is EXTRACT(field FROM source).
type ExtractExpr struct {
	Field  []byte
	Source Expr
	TokPos int32
}

func (n *ExtractExpr) node()      {}
func (n *ExtractExpr) exprNode()  {}
func (n *ExtractExpr) Pos() int32 { return n.TokPos }

// PositionExpr is POSITION(needle IN haystack).
type PositionExpr struct {
	Needle   Expr
	Haystack Expr
	TokPos   int32
}

func (n *PositionExpr) node()      {}
func (n *PositionExpr) exprNode()  {}
func (n *PositionExpr) Pos() int32 { return n.TokPos }

// SubstringExpr is SUBSTRING(expr [FROM start] [FOR len]), including the
// comma-separated shorthand SUBSTRING(expr, start, len).
type SubstringExpr struct {
	Expr   Expr
	From   Expr
	For    Expr
	TokPos int32
}

func (n *SubstringExpr) node()      {}
func (n *SubstringExpr) exprNode()  {}
func (n *SubstringExpr) Pos() int32 { return n.TokPos }

// OverlayExpr is OVERLAY(expr PLACING replacement FROM start [FOR len]).
type OverlayExpr struct {
	Expr        Expr
	Replacement Expr
	From        Expr
	For         Expr
	TokPos      int32
}

func (n *OverlayExpr) node()      {}
func (n *OverlayExpr) exprNode()  {}
func (n *OverlayExpr) Pos() int32 { return n.TokPos }

// TrimExpr is TRIM([LEADING|TRAILING|BOTH] [chars] FROM source) or the
// positional TRIM(source).
type TrimExpr struct {
	Side   TrimSide
	Chars  Expr
	Source Expr
	TokPos int32
}

type TrimSide uint8

const (
	TrimBoth TrimSide = iota
	TrimLeading
	TrimTrailing
)

func (n *TrimExpr) node()      {}
func (n *TrimExpr) exprNode()  {}
func (n *TrimExpr) Pos() int32 { return n.TokPos }

// PgCast is the postfix expr::type cast operator, kept distinct from
// CastExpr (CAST(expr AS type)) since it's a separate grammar production.
type PgCast struct {
	Expr   Expr
	Type   *DataType
	TokPos int32
}

func (n *PgCast) node()      {}
func (n *PgCast) exprNode()  {}
func (n *PgCast) Pos() int32 { return n.TokPos }

// ArraySubscriptExpr is expr[index] or expr[lo:hi] (slice).
type ArraySubscriptExpr struct {
	Expr   Expr
	Index  Expr
	Hi     Expr // non-nil for a slice
	TokPos int32
}

func (n *ArraySubscriptExpr) node()      {}
func (n *ArraySubscriptExpr) exprNode()  {}
func (n *ArraySubscriptExpr) Pos() int32 { return n.TokPos }

// CollateExpr is expr COLLATE name.
type CollateExpr struct {
	Expr     Expr
	Collation *Ident
	TokPos   int32
}

func (n *CollateExpr) node()      {}
func (n *CollateExpr) exprNode()  {}
func (n *CollateExpr) Pos() int32 { return n.TokPos }

// OrderedExpr wraps an expr used inside an ORDER BY / WITHIN GROUP list
// with its own ASC/DESC and NULLS FIRST/LAST, when used as a standalone
// expression rather than via OrderByItem. The parser does not build it: an
// ORDER BY inside a call's argument list (array_agg(... ORDER BY x)) is
// stored in FuncCall.WithinGroup.
type OrderedExpr struct {
	Expr       Expr
	Desc       bool
	NullsFirst *bool
	TokPos     int32
}

func (n *OrderedExpr) node()      {}
func (n *OrderedExpr) exprNode()  {}
func (n *OrderedExpr) Pos() int32 { return n.TokPos }

// AliasedExpr wraps expr AS alias when an alias can appear mid-expression
// (e.g. inside a ROW(...) constructor column list).
type AliasedExpr struct {
	Expr   Expr
	Alias  *Ident
	TokPos int32
}

func (n *AliasedExpr) node()      {}
func (n *AliasedExpr) exprNode()  {}
func (n *AliasedExpr) Pos() int32 { return n.TokPos }

// ParenExpr preserves an explicit parenthesization so it stays
// distinguishable from operator-precedence grouping (printer-visible
// round-tripping). The parser keeps every explicit (expr) as a ParenExpr.
type ParenExpr struct {
	Expr   Expr
	TokPos int32
}

func (n *ParenExpr) node()      {}
func (n *ParenExpr) exprNode()  {}
func (n *ParenExpr) Pos() int32 { return n.TokPos }

// ArrayExpr is ARRAY[expr, ...] or ARRAY(subquery).
type ArrayExpr struct {
	Elements []Expr
	Subq     *SelectStmt
	TokPos   int32
}

func (n *ArrayExpr) node()      {}
func (n *ArrayExpr) exprNode()  {}
func (n *ArrayExpr) Pos() int32 { return n.TokPos }

// RowExpr is ROW(expr, ...) or a bare (expr, expr, ...) row constructor.
type RowExpr struct {
	Values []Expr
	TokPos int32
}

func (n *RowExpr) node()      {}
func (n *RowExpr) exprNode()  {}
func (n *RowExpr) Pos() int32 { return n.TokPos }

// CopyStmt represents COPY table [(cols)] FROM STDIN [WITH options] or
// COPY table TO STDOUT. The STDIN data block is not captured: the parser
// never sets Payload, and ParseAll reads the data rows as the next
// statement.
type CopyStmt struct {
	Table    *QualifiedIdent
	Columns  []*Ident
	FromStdin bool
	ToStdout bool
	Source   []byte // a file path / PROGRAM literal, verbatim, when not STDIN/STDOUT
	Options  []byte // verbatim WITH (...) tail
	Payload  []byte // STDIN data block; not set by the parser
	TokPos   int32
}

func (n *CopyStmt) node()      {}
func (n *CopyStmt) stmtNode()  {}
func (n *CopyStmt) Pos() int32 { return n.TokPos }

// SessionStmt is a thin typed wrapper for DECLARE/PREPARE/EXECUTE/
// DEALLOCATE/VACUUM/ANALYZE-style statements: a structured head (verb +
// primary name) with a verbatim option tail, matching the "structured
// head, verbatim tail" shape CreateTableStmt already uses for its options.
type SessionStmt struct {
	Verb   []byte // "DECLARE", "PREPARE", "EXECUTE", "DEALLOCATE", "VACUUM", "ANALYZE"
	Name   *Ident
	Tail   []byte
	TokPos int32
}

func (n *SessionStmt) node()      {}
func (n *SessionStmt) stmtNode()  {}
func (n *SessionStmt) Pos() int32 { return n.TokPos }
