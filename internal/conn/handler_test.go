package conn_test

import (
	"encoding/json"
	"net/http"
	"testing"

	. "github.com/mattzmyname/CSCI4370-Project3/internal/conn"
	"gotest.tools/assert"
)

func encode(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	assert.NilError(t, err)
	return raw
}

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db := NewDB(NewWriteSettings("", true, 1000), LogOptions{})
	res := CreateTableReqHandler(db, encode(t, map[string]any{"schema": `
$TABLE Student {
    id Int key(primary)
    name String
    gpa Double
}
$TABLE Transcript {
    studId Int key(primary)
    crsCode String key(primary) index(bptree)
    grade String
}
`}))
	assert.Equal(t, res.Status, http.StatusCreated, res.Message)
	return db
}

func insertRow(t *testing.T, db *DB, table string, row []any) {
	t.Helper()
	res := InsertReqHandler(db, encode(t, map[string]any{"table": table, "row": row}))
	assert.Equal(t, res.Status, http.StatusCreated, res.Message)
}

func newPopulatedTestDB(t *testing.T) *DB {
	t.Helper()
	db := newTestDB(t)
	insertRow(t, db, "Student", []any{1, "Ann", 3.5})
	insertRow(t, db, "Student", []any{2, "Bob", 2.9})
	insertRow(t, db, "Student", []any{3, "Cal", 3.8})
	insertRow(t, db, "Transcript", []any{2, "CS4370", "A"})
	return db
}

func dataView(t *testing.T, res Response) TableView {
	t.Helper()
	view, ok := res.Data.(TableView)
	assert.Assert(t, ok, "response data is %T", res.Data)
	return view
}

func TestCreateTableReqHandler(t *testing.T) {
	t.Run("duplicate table", func(t *testing.T) {
		db := newTestDB(t)
		res := CreateTableReqHandler(db, encode(t, map[string]any{"schema": `
$TABLE Student {
    id Int key(primary)
}
`}))
		assert.Equal(t, res.Status, http.StatusConflict, res.Message)
		assert.Equal(t, res.Message, "Table Student already exists")
	})

	t.Run("bad schema", func(t *testing.T) {
		db := NewDB(NewWriteSettings("", true, 1000), LogOptions{})
		res := CreateTableReqHandler(db, encode(t, map[string]any{"schema": "$TABLE {"}))
		assert.Equal(t, res.Status, http.StatusBadRequest, res.Message)
	})
}

func TestInsertReqHandler(t *testing.T) {
	t.Run("table not found", func(t *testing.T) {
		db := newTestDB(t)
		res := InsertReqHandler(db, encode(t, map[string]any{"table": "Nope", "row": []any{1}}))
		assert.Equal(t, res.Status, http.StatusNotFound, res.Message)
		assert.Equal(t, res.Message, "Table not found")
	})

	t.Run("simple insert", func(t *testing.T) {
		db := newTestDB(t)
		res := InsertReqHandler(db, encode(t, map[string]any{
			"table": "Student", "row": []any{1, "Ann", 3.5},
		}))
		assert.Equal(t, res.Status, http.StatusCreated, res.Message)
		assert.Equal(t, res.Message, "Inserted row in table Student")
	})

	t.Run("wrong domain", func(t *testing.T) {
		db := newTestDB(t)
		res := InsertReqHandler(db, encode(t, map[string]any{
			"table": "Student", "row": []any{"one", "Ann", 3.5},
		}))
		assert.Equal(t, res.Status, http.StatusBadRequest, res.Message)
	})
}

func TestFindReqHandler(t *testing.T) {
	db := newPopulatedTestDB(t)

	t.Run("hit", func(t *testing.T) {
		res := FindReqHandler(db, encode(t, map[string]any{"table": "Student", "key": []any{2}}))
		assert.Equal(t, res.Status, http.StatusOK, res.Message)
		view := dataView(t, res)
		assert.Equal(t, len(view.Tuples), 1)
		assert.Equal(t, view.Tuples[0][1], "Bob")
	})

	t.Run("miss", func(t *testing.T) {
		res := FindReqHandler(db, encode(t, map[string]any{"table": "Student", "key": []any{99}}))
		assert.Equal(t, res.Status, http.StatusOK, res.Message)
		assert.Equal(t, len(dataView(t, res).Tuples), 0)
	})

	t.Run("composite key", func(t *testing.T) {
		res := FindReqHandler(db, encode(t, map[string]any{
			"table": "Transcript", "key": []any{2, "CS4370"},
		}))
		assert.Equal(t, res.Status, http.StatusOK, res.Message)
		assert.Equal(t, len(dataView(t, res).Tuples), 1)
	})

	t.Run("wrong key arity", func(t *testing.T) {
		res := FindReqHandler(db, encode(t, map[string]any{"table": "Transcript", "key": []any{2}}))
		assert.Equal(t, res.Status, http.StatusBadRequest, res.Message)
	})
}

func TestFindRangeReqHandler(t *testing.T) {
	db := newPopulatedTestDB(t)

	res := FindRangeReqHandler(db, encode(t, map[string]any{
		"table": "Student", "from": []any{1}, "to": []any{3},
	}))
	assert.Equal(t, res.Status, http.StatusOK, res.Message)
	assert.Equal(t, len(dataView(t, res).Tuples), 2)
}

func TestProjectReqHandler(t *testing.T) {
	db := newPopulatedTestDB(t)

	res := ProjectReqHandler(db, encode(t, map[string]any{
		"table": "Student", "attrs": []string{"name"},
	}))
	assert.Equal(t, res.Status, http.StatusOK, res.Message)
	view := dataView(t, res)
	assert.DeepEqual(t, view.Attrs, []string{"name"})
	assert.Equal(t, len(view.Tuples), 3)

	// the result is registered for follow-up queries
	assert.Assert(t, db.Tables.Has(view.Name))
}

func TestSelectReqHandler(t *testing.T) {
	db := newPopulatedTestDB(t)

	t.Run("ge", func(t *testing.T) {
		res := SelectReqHandler(db, encode(t, map[string]any{
			"table": "Student",
			"where": map[string]any{"attr": "gpa", "op": "ge", "value": 3.5},
		}))
		assert.Equal(t, res.Status, http.StatusOK, res.Message)
		assert.Equal(t, len(dataView(t, res).Tuples), 2)
	})

	t.Run("eq default op", func(t *testing.T) {
		res := SelectReqHandler(db, encode(t, map[string]any{
			"table": "Student",
			"where": map[string]any{"attr": "name", "value": "Ann"},
		}))
		assert.Equal(t, res.Status, http.StatusOK, res.Message)
		assert.Equal(t, len(dataView(t, res).Tuples), 1)
	})

	t.Run("bad op", func(t *testing.T) {
		res := SelectReqHandler(db, encode(t, map[string]any{
			"table": "Student",
			"where": map[string]any{"attr": "gpa", "op": "like", "value": 3.0},
		}))
		assert.Equal(t, res.Status, http.StatusBadRequest, res.Message)
	})
}

func TestUnionMinusReqHandlers(t *testing.T) {
	db := newPopulatedTestDB(t)

	// build a second student table through select
	res := SelectReqHandler(db, encode(t, map[string]any{
		"table": "Student",
		"where": map[string]any{"attr": "gpa", "op": "ge", "value": 3.5},
	}))
	assert.Equal(t, res.Status, http.StatusOK, res.Message)
	high := dataView(t, res).Name

	res = UnionReqHandler(db, encode(t, map[string]any{"table": "Student", "other": high}))
	assert.Equal(t, res.Status, http.StatusOK, res.Message)
	assert.Equal(t, len(dataView(t, res).Tuples), 3) // no duplicates

	res = MinusReqHandler(db, encode(t, map[string]any{"table": "Student", "other": high}))
	assert.Equal(t, res.Status, http.StatusOK, res.Message)
	assert.Equal(t, len(dataView(t, res).Tuples), 1)

	res = UnionReqHandler(db, encode(t, map[string]any{"table": "Student", "other": "Transcript"}))
	assert.Equal(t, res.Status, http.StatusBadRequest, res.Message)
}

func TestJoinReqHandler(t *testing.T) {
	db := newPopulatedTestDB(t)

	for _, method := range []string{"nested", "index", "hash"} {
		t.Run(method, func(t *testing.T) {
			res := JoinReqHandler(db, encode(t, map[string]any{
				"table": "Student", "other": "Transcript",
				"attrs1": []string{"id"}, "attrs2": []string{"studId"},
				"method": method,
			}))
			if method == "index" {
				// Transcript is keyed on studId+crsCode, not studId alone
				assert.Equal(t, res.Status, http.StatusBadRequest, res.Message)
				return
			}
			assert.Equal(t, res.Status, http.StatusOK, res.Message)
			assert.Equal(t, len(dataView(t, res).Tuples), 1)
		})
	}

	t.Run("natural", func(t *testing.T) {
		res := JoinReqHandler(db, encode(t, map[string]any{
			"table": "Student", "other": "Student", "method": "natural",
		}))
		assert.Equal(t, res.Status, http.StatusOK, res.Message)
		assert.Equal(t, len(dataView(t, res).Tuples), 3)
	})
}

func TestDropTableReqHandler(t *testing.T) {
	db := newTestDB(t)
	res := DropTableReqHandler(db, encode(t, map[string]any{"table": "Student"}))
	assert.Equal(t, res.Status, http.StatusOK, res.Message)
	assert.Assert(t, !db.Tables.Has("Student"))

	res = DropTableReqHandler(db, encode(t, map[string]any{"table": "Student"}))
	assert.Equal(t, res.Status, http.StatusNotFound, res.Message)
}

func TestListTablesReqHandler(t *testing.T) {
	db := newTestDB(t)
	res := ListTablesReqHandler(db)
	assert.Equal(t, res.Status, http.StatusOK, res.Message)
	views, ok := res.Data.([]TableView)
	assert.Assert(t, ok)
	assert.Equal(t, len(views), 2)
	assert.Equal(t, views[0].Name, "Student")
}
