package conn

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mattzmyname/CSCI4370-Project3/internal/parser"
	"github.com/mattzmyname/CSCI4370-Project3/internal/record"
	"github.com/mattzmyname/CSCI4370-Project3/internal/relation"
	"github.com/mattzmyname/CSCI4370-Project3/internal/store"
	"github.com/mattzmyname/CSCI4370-Project3/internal/types"
)

type Response struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	// don't manually set this. it comes from the client
	ReqId int `json:"__client_req_id__"`
}

func NewErrorResponse(status int, err string) Response {
	return Response{Message: err, Status: status}
}

func NewResponse(status int, message string, data any) Response {
	return Response{Data: data, Message: message, Status: status}
}

// QueryError is an error that knows the http status it should surface as.
type QueryError struct {
	msg    string
	status int
}

func NewQueryError(status int, msg string) *QueryError {
	return &QueryError{msg: msg, status: status}
}

func (e QueryError) Error() string { return e.msg }
func (e QueryError) Status() int   { return e.status }

func errorResponse(err error) Response {
	var query_error *QueryError
	if errors.As(err, &query_error) {
		return NewErrorResponse(query_error.Status(), query_error.Error())
	}
	return NewErrorResponse(http.StatusBadRequest, err.Error())
}

// TableView is the wire image of a table.
type TableView struct {
	Name    string         `json:"name"`
	Attrs   []string       `json:"attrs"`
	Domains []types.Domain `json:"domains"`
	Key     []string       `json:"key"`
	Kind    string         `json:"kind"`
	Tuples  []record.Tuple `json:"tuples"`
}

func viewOf(t *relation.Table) TableView {
	return TableView{
		Name:    t.Name,
		Attrs:   t.Attrs,
		Domains: t.Domains,
		Key:     t.Key,
		Kind:    string(t.Kind()),
		Tuples:  t.Tuples,
	}
}

// registerResult keeps an operator result addressable by later requests.
func registerResult(db *DB, t *relation.Table) Response {
	db.Tables.Push(t.Name, t)
	db.UpdateLastChange()
	return NewResponse(http.StatusOK, fmt.Sprintf("Result table %s with %d tuples", t.Name, t.Len()), viewOf(t))
}

func lookupTable(db *DB, name string) (*relation.Table, error) {
	if !db.Tables.Has(name) {
		return nil, NewQueryError(http.StatusNotFound, "Table not found")
	}
	return db.Tables.Get(name), nil
}

// coerceRow turns a JSON row into a typed tuple using the table's schema.
func coerceRow(t *relation.Table, row []any) (record.Tuple, error) {
	if len(row) > len(t.Domains) {
		return nil, fmt.Errorf("row has %d values but table %s has %d attributes", len(row), t.Name, len(t.Domains))
	}
	tup := make(record.Tuple, len(row))
	for i, v := range row {
		cv, err := t.Domains[i].Coerce(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", t.Attrs[i], err)
		}
		tup[i] = cv
	}
	return tup, nil
}

// coerceKey turns JSON key values into a typed key following the table's
// key attribute domains.
func coerceKey(t *relation.Table, vals []any) (record.Key, error) {
	if len(vals) != len(t.Key) {
		return record.Key{}, fmt.Errorf("key has %d values but table %s has %d key attributes", len(vals), t.Name, len(t.Key))
	}
	typed := make([]any, len(vals))
	for i, v := range vals {
		d := t.Domains[t.Col(t.Key[i])]
		cv, err := d.Coerce(v)
		if err != nil {
			return record.Key{}, fmt.Errorf("key attribute %s: %w", t.Key[i], err)
		}
		typed[i] = cv
	}
	return record.NewKey(typed...), nil
}

type CreateTableRequest struct {
	Schema string `json:"schema"`
}

func CreateTableReqHandler(db *DB, raw []byte) Response {
	var req CreateTableRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	schema, err := parser.ParseSchema(req.Schema)
	if err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	for _, def := range schema.Tables {
		if db.Tables.Has(def.Name) {
			return NewErrorResponse(http.StatusConflict, fmt.Sprintf("Table %s already exists", def.Name))
		}
	}

	names := []string{}
	for _, def := range schema.Tables {
		t, err := def.Build()
		if err != nil {
			return NewErrorResponse(http.StatusBadRequest, err.Error())
		}
		db.Tables.Push(t.Name, t)
		names = append(names, t.Name)
	}

	db.UpdateLastChange()
	return NewResponse(http.StatusCreated, fmt.Sprintf("Created %d tables", len(names)), names)
}

type DropTableRequest struct {
	Table string `json:"table"`
}

func DropTableReqHandler(db *DB, raw []byte) Response {
	var req DropTableRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	if _, err := lookupTable(db, req.Table); err != nil {
		return errorResponse(err)
	}
	db.Tables.Delete(req.Table)
	if !db.write_settings.in_mem {
		if err := store.Drop(db.write_settings.write_path, req.Table); err != nil {
			return NewErrorResponse(http.StatusInternalServerError, err.Error())
		}
	}

	db.UpdateLastChange()
	return NewResponse(http.StatusOK, fmt.Sprintf("Dropped table %s", req.Table), nil)
}

func ListTablesReqHandler(db *DB) Response {
	views := []TableView{}
	for _, name := range db.Tables.Sorted {
		views = append(views, viewOf(db.Tables.Get(name)))
	}
	return NewResponse(http.StatusOK, fmt.Sprintf("%d tables", len(views)), views)
}

type InsertRequest struct {
	Table string `json:"table"`
	Row   []any  `json:"row"`
}

func InsertReqHandler(db *DB, raw []byte) Response {
	var req InsertRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	table, err := lookupTable(db, req.Table)
	if err != nil {
		return errorResponse(err)
	}
	tup, err := coerceRow(table, req.Row)
	if err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	if !table.Insert(tup) {
		return NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("Row rejected by table %s", table.Name))
	}

	db.UpdateLastChange()
	return NewResponse(http.StatusCreated, fmt.Sprintf("Inserted row in table %s", table.Name), tup)
}

type FindRequest struct {
	Table string `json:"table"`
	Key   []any  `json:"key"`
}

func FindReqHandler(db *DB, raw []byte) Response {
	var req FindRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	table, err := lookupTable(db, req.Table)
	if err != nil {
		return errorResponse(err)
	}
	key, err := coerceKey(table, req.Key)
	if err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	res, err := table.SelectKey(key)
	if err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	return NewResponse(http.StatusOK, fmt.Sprintf("Found %d tuples", res.Len()), viewOf(res))
}

type FindRangeRequest struct {
	Table string `json:"table"`
	From  []any  `json:"from"`
	To    []any  `json:"to"`
}

func FindRangeReqHandler(db *DB, raw []byte) Response {
	var req FindRangeRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	table, err := lookupTable(db, req.Table)
	if err != nil {
		return errorResponse(err)
	}
	from, err := coerceKey(table, req.From)
	if err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	to, err := coerceKey(table, req.To)
	if err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	res, err := table.SelectRange(from, to)
	if err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	return NewResponse(http.StatusOK, fmt.Sprintf("Found %d tuples", res.Len()), viewOf(res))
}

type ProjectRequest struct {
	Table string   `json:"table"`
	Attrs []string `json:"attrs"`
}

func ProjectReqHandler(db *DB, raw []byte) Response {
	var req ProjectRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	table, err := lookupTable(db, req.Table)
	if err != nil {
		return errorResponse(err)
	}
	res, err := table.Project(req.Attrs)
	if err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	return registerResult(db, res)
}

type SelectWhere struct {
	Attr  string `json:"attr"`
	Op    string `json:"op"`
	Value any    `json:"value"`
}

type SelectRequest struct {
	Table string      `json:"table"`
	Where SelectWhere `json:"where"`
}

func SelectReqHandler(db *DB, raw []byte) Response {
	var req SelectRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	table, err := lookupTable(db, req.Table)
	if err != nil {
		return errorResponse(err)
	}
	col := table.Col(req.Where.Attr)
	if col < 0 {
		return NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("No attribute named %q", req.Where.Attr))
	}
	value, err := table.Domains[col].Coerce(req.Where.Value)
	if err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	predicate, err := comparison(req.Where.Op, col, value)
	if err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	res, err := table.Select(predicate)
	if err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	return registerResult(db, res)
}

// comparison builds a single-attribute predicate from a wire operator.
func comparison(op string, col int, value any) (func(record.Tuple) bool, error) {
	var want func(int) bool
	switch op {
	case "eq", "":
		want = func(c int) bool { return c == 0 }
	case "ne":
		want = func(c int) bool { return c != 0 }
	case "lt":
		want = func(c int) bool { return c < 0 }
	case "le":
		want = func(c int) bool { return c <= 0 }
	case "gt":
		want = func(c int) bool { return c > 0 }
	case "ge":
		want = func(c int) bool { return c >= 0 }
	default:
		return nil, fmt.Errorf("unknown comparison operator %q", op)
	}
	return func(tup record.Tuple) bool {
		if col >= len(tup) {
			return false
		}
		return want(record.CompareValues(tup[col], value))
	}, nil
}

type BinaryRequest struct {
	Table string `json:"table"`
	Other string `json:"other"`
}

func UnionReqHandler(db *DB, raw []byte) Response {
	var req BinaryRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	table, err := lookupTable(db, req.Table)
	if err != nil {
		return errorResponse(err)
	}
	other, err := lookupTable(db, req.Other)
	if err != nil {
		return errorResponse(err)
	}
	res, err := table.Union(other)
	if err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	return registerResult(db, res)
}

func MinusReqHandler(db *DB, raw []byte) Response {
	var req BinaryRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	table, err := lookupTable(db, req.Table)
	if err != nil {
		return errorResponse(err)
	}
	other, err := lookupTable(db, req.Other)
	if err != nil {
		return errorResponse(err)
	}
	res, err := table.Minus(other)
	if err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	return registerResult(db, res)
}

type JoinRequest struct {
	Table  string   `json:"table"`
	Other  string   `json:"other"`
	Attrs1 []string `json:"attrs1"`
	Attrs2 []string `json:"attrs2"`
	Method string   `json:"method"`
}

func JoinReqHandler(db *DB, raw []byte) Response {
	var req JoinRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	table, err := lookupTable(db, req.Table)
	if err != nil {
		return errorResponse(err)
	}
	other, err := lookupTable(db, req.Other)
	if err != nil {
		return errorResponse(err)
	}

	var res *relation.Table
	switch req.Method {
	case "natural":
		res, err = table.NaturalJoin(other)
	case "index":
		res, err = table.IJoin(req.Attrs1, req.Attrs2, other)
	case "hash":
		res, err = table.HJoin(req.Attrs1, req.Attrs2, other)
	case "nested", "":
		res, err = table.Join(req.Attrs1, req.Attrs2, other)
	default:
		return NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("unknown join method %q", req.Method))
	}
	if err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	return registerResult(db, res)
}
