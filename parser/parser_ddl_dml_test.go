package parser_test

import (
	"testing"

	sqlriver "github.com/oarkflow/sqlriver"
	"github.com/oarkflow/sqlriver/ast"
)

// ---- SELECT: set operations, CTEs, grouping ----

func TestSelectUnionChain(t *testing.T) {
	stmt := mustParse(t, "SELECT id FROM a UNION SELECT id FROM b UNION ALL SELECT id FROM c")
	u, ok := stmt.(*ast.Union)
	if !ok {
		t.Fatalf("expected *ast.Union, got %T", stmt)
	}
	if u.Op != ast.UnionOp || !u.All {
		t.Fatalf("expected trailing UNION ALL, got op=%v all=%v", u.Op, u.All)
	}
	inner, ok := u.Left.(*ast.Union)
	if !ok {
		t.Fatalf("expected left-deep chain, got %T", u.Left)
	}
	if inner.Op != ast.UnionOp || inner.All {
		t.Fatalf("expected inner plain UNION, got op=%v all=%v", inner.Op, inner.All)
	}
}

func TestSelectIntersectExcept(t *testing.T) {
	stmt := mustParse(t, "SELECT id FROM a INTERSECT SELECT id FROM b EXCEPT SELECT id FROM c")
	u, ok := stmt.(*ast.Union)
	if !ok {
		t.Fatalf("expected *ast.Union, got %T", stmt)
	}
	if u.Op != ast.ExceptOp {
		t.Fatalf("expected trailing EXCEPT, got %v", u.Op)
	}
}

func TestSelectWithRecursiveCTE(t *testing.T) {
	stmt := mustParse(t, `
		WITH RECURSIVE tree(id, parent_id) AS (
			SELECT id, parent_id FROM nodes WHERE parent_id IS NULL
			UNION ALL
			SELECT n.id, n.parent_id FROM nodes n JOIN tree t ON n.parent_id = t.id
		)
		SELECT * FROM tree`)
	sel, ok := stmt.(*ast.SelectStmt)
	if !ok {
		t.Fatalf("expected *ast.SelectStmt, got %T", stmt)
	}
	if sel.With == nil || !sel.With.Recursive || len(sel.With.CTEs) != 1 {
		t.Fatalf("expected one recursive CTE, got %+v", sel.With)
	}
	if sel.With.CTEs[0].Name.Unquoted != "tree" {
		t.Fatalf("expected CTE name tree, got %q", sel.With.CTEs[0].Name.Unquoted)
	}
}

func TestSelectGroupingSets(t *testing.T) {
	stmt := mustParse(t, "SELECT a, b, SUM(c) FROM t GROUP BY GROUPING SETS ((a, b), (a), ())")
	sel := stmt.(*ast.SelectStmt)
	if sel.GroupingSets == nil || sel.GroupingSets.Kind != ast.GroupingSets {
		t.Fatalf("expected GroupingSets clause, got %+v", sel.GroupingSets)
	}
	if len(sel.GroupingSets.Sets) != 3 {
		t.Fatalf("expected 3 grouping sets, got %d", len(sel.GroupingSets.Sets))
	}
}

func TestSelectRollup(t *testing.T) {
	stmt := mustParse(t, "SELECT a, SUM(b) FROM t GROUP BY ROLLUP(a)")
	sel := stmt.(*ast.SelectStmt)
	if sel.GroupingSets == nil || sel.GroupingSets.Kind != ast.GroupingRollup {
		t.Fatalf("expected ROLLUP clause, got %+v", sel.GroupingSets)
	}
}

func TestSelectJoinChain(t *testing.T) {
	stmt := mustParse(t, `
		SELECT * FROM a
		INNER JOIN b ON a.id = b.a_id
		LEFT OUTER JOIN c ON b.id = c.b_id`)
	sel := stmt.(*ast.SelectStmt)
	if len(sel.From) != 1 {
		t.Fatalf("expected one table ref, got %d", len(sel.From))
	}
	top, ok := sel.From[0].(*ast.JoinTable)
	if !ok || top.Kind != ast.LeftJoin {
		t.Fatalf("expected outer join at top, got %+v", sel.From[0])
	}
	if _, ok := top.Left.(*ast.JoinTable); !ok {
		t.Fatalf("expected nested inner join on the left, got %T", top.Left)
	}
}

// ---- INSERT ----

func TestInsertOnDuplicateKeyUpdate(t *testing.T) {
	stmt := mustParse(t, "INSERT INTO t (id, n) VALUES (1, 'a') ON DUPLICATE KEY UPDATE n = 'b'")
	ins := stmt.(*ast.InsertStmt)
	if len(ins.OnDupKey) != 1 || ins.OnDupKey[0].Column.Unquoted != "n" {
		t.Fatalf("expected one ON DUPLICATE KEY UPDATE assignment, got %+v", ins.OnDupKey)
	}
}

func TestInsertOnConflictDoNothing(t *testing.T) {
	stmt := mustParse(t, "INSERT INTO t (id) VALUES (1) ON CONFLICT (id) DO NOTHING")
	ins := stmt.(*ast.InsertStmt)
	if !ins.OnConflictDoNothing {
		t.Fatal("expected OnConflictDoNothing")
	}
	if len(ins.OnConflictTarget) != 1 {
		t.Fatalf("expected one conflict target column, got %d", len(ins.OnConflictTarget))
	}
}

func TestInsertReturning(t *testing.T) {
	stmt := mustParse(t, "INSERT INTO t (id) VALUES (1) RETURNING id")
	ins := stmt.(*ast.InsertStmt)
	if len(ins.Returning) != 1 {
		t.Fatalf("expected one RETURNING column, got %d", len(ins.Returning))
	}
}

// ---- DELETE ----

func TestDeleteSingleTable(t *testing.T) {
	stmt := mustParse(t, "DELETE FROM t1, t2 WHERE t1.id = t2.id")
	del := stmt.(*ast.DeleteStmt)
	if len(del.Tables) != 2 {
		t.Fatalf("expected 2 target tables, got %d", len(del.Tables))
	}
	if del.From != nil {
		t.Fatalf("expected no separate From refs for plain DELETE FROM, got %+v", del.From)
	}
}

func TestDeleteMultiTable(t *testing.T) {
	stmt := mustParse(t, "DELETE t1, t2 FROM t1 JOIN t2 ON t1.id = t2.t1_id WHERE t1.active = 0")
	del := stmt.(*ast.DeleteStmt)
	if len(del.Tables) != 2 {
		t.Fatalf("expected 2 delete targets, got %d", len(del.Tables))
	}
	if len(del.From) != 1 {
		t.Fatalf("expected one joined table ref, got %d", len(del.From))
	}
}

// ---- MERGE ----

func TestMergeWhenClauses(t *testing.T) {
	stmt := mustParse(t, `
		MERGE INTO target t USING source s ON t.id = s.id
		WHEN MATCHED THEN UPDATE SET v = s.v
		WHEN NOT MATCHED THEN INSERT (id, v) VALUES (s.id, s.v)`)
	m := stmt.(*ast.Merge)
	if len(m.WhenClauses) != 2 {
		t.Fatalf("expected 2 WHEN clauses, got %d", len(m.WhenClauses))
	}
	if m.WhenClauses[0].Action != ast.MergeUpdate {
		t.Fatalf("expected first clause to be UPDATE, got %v", m.WhenClauses[0].Action)
	}
	if m.WhenClauses[1].Action != ast.MergeInsertAction || m.WhenClauses[1].Matched {
		t.Fatalf("expected second clause to be unmatched INSERT, got %+v", m.WhenClauses[1])
	}
}

// ---- DDL: CREATE TABLE / constraints ----

func TestCreateTableConstraints(t *testing.T) {
	stmt := mustParse(t, `
		CREATE TABLE orders (
			id BIGINT NOT NULL AUTO_INCREMENT,
			user_id BIGINT NOT NULL,
			total DECIMAL(12,2) DEFAULT 0,
			PRIMARY KEY (id),
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			UNIQUE (user_id, total)
		)`)
	ct := stmt.(*ast.CreateTableStmt)
	if len(ct.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(ct.Columns))
	}
	if len(ct.Constraints) != 3 {
		t.Fatalf("expected 3 table constraints, got %d", len(ct.Constraints))
	}
	var fk *ast.TableConstraint
	for _, c := range ct.Constraints {
		if c.Type == ast.ForeignKeyConstraint {
			fk = c
		}
	}
	if fk == nil || fk.OnDelete != ast.Cascade {
		t.Fatalf("expected ON DELETE CASCADE foreign key, got %+v", fk)
	}
}

func TestCreateTableGeneratedColumn(t *testing.T) {
	stmt := mustParse(t, `
		CREATE TABLE t (
			a INT,
			b INT,
			sum_ab INT GENERATED ALWAYS AS (a + b) STORED
		)`)
	ct := stmt.(*ast.CreateTableStmt)
	col := ct.Columns[2]
	if col.Generated == nil || !col.Generated.Stored {
		t.Fatalf("expected a stored generated column, got %+v", col.Generated)
	}
}

func TestAlterTableAddDropColumn(t *testing.T) {
	stmt := mustParse(t, "ALTER TABLE t ADD COLUMN flag BOOLEAN, DROP COLUMN legacy")
	at := stmt.(*ast.AlterTableStmt)
	if len(at.Cmds) != 2 {
		t.Fatalf("expected 2 ALTER commands, got %d", len(at.Cmds))
	}
	if _, ok := at.Cmds[0].(*ast.AddColumnCmd); !ok {
		t.Fatalf("expected first cmd to be AddColumnCmd, got %T", at.Cmds[0])
	}
	if _, ok := at.Cmds[1].(*ast.DropColumnCmd); !ok {
		t.Fatalf("expected second cmd to be DropColumnCmd, got %T", at.Cmds[1])
	}
}

func TestDropTableCascade(t *testing.T) {
	stmt := mustParse(t, "DROP TABLE IF EXISTS a, b CASCADE")
	dt := stmt.(*ast.DropTableStmt)
	if !dt.IfExists || !dt.Cascade || len(dt.Tables) != 2 {
		t.Fatalf("unexpected DropTableStmt: %+v", dt)
	}
}

// ---- GRANT / REVOKE / COPY / transactions ----

func TestGrantWithOption(t *testing.T) {
	stmt := mustParse(t, "GRANT SELECT, INSERT ON t TO alice WITH GRANT OPTION")
	g := stmt.(*ast.Grant)
	if len(g.Privileges) != 2 || !g.WithGrant {
		t.Fatalf("unexpected Grant: %+v", g)
	}
}

func TestRevokeCascade(t *testing.T) {
	stmt := mustParse(t, "REVOKE ALL PRIVILEGES ON t FROM bob CASCADE")
	r := stmt.(*ast.Revoke)
	if len(r.Privileges) != 1 || !r.Cascade {
		t.Fatalf("unexpected Revoke: %+v", r)
	}
}

func TestCopyFromStdin(t *testing.T) {
	stmt := mustParse(t, "COPY t (a, b) FROM STDIN")
	c := stmt.(*ast.CopyStmt)
	if !c.FromStdin || len(c.Columns) != 2 {
		t.Fatalf("unexpected CopyStmt: %+v", c)
	}
}

func TestRollbackToSavepoint(t *testing.T) {
	stmt := mustParse(t, "ROLLBACK TO SAVEPOINT sp1")
	tx := stmt.(*ast.TransactionStmt)
	if tx.Savepoint == nil || tx.Savepoint.Unquoted != "sp1" {
		t.Fatalf("expected savepoint sp1, got %+v", tx.Savepoint)
	}
}

func TestExplainWrapsStatement(t *testing.T) {
	stmt := mustParse(t, "EXPLAIN SELECT * FROM t")
	ex := stmt.(*ast.ExplainStmt)
	if _, ok := ex.Stmt.(*ast.SelectStmt); !ok {
		t.Fatalf("expected wrapped SelectStmt, got %T", ex.Stmt)
	}
}

// ---- recovery ----

func TestParseStatementsRecoversFromBadStatement(t *testing.T) {
	results, err := sqlriver.ParseStatements("SELECT 1; GARBLE ~ ~ ~; SELECT 2", sqlriver.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 recovered results, got %d", len(results))
	}
	if _, ok := results[1].Stmt.(*ast.Raw); !ok {
		t.Fatalf("expected middle statement to recover as Raw, got %T", results[1].Stmt)
	}
	if _, ok := results[2].Stmt.(*ast.SelectStmt); !ok {
		t.Fatalf("expected parsing to continue after recovery, got %T", results[2].Stmt)
	}
}
