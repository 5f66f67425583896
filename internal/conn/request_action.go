package conn

import (
	"fmt"
	"net/http"

	"github.com/mattzmyname/CSCI4370-Project3/internal/auth"
)

type RequestAction string

const (
	// table actions
	RequestActionCreateTable RequestAction = "createTable"
	RequestActionDropTable   RequestAction = "dropTable"
	RequestActionListTables  RequestAction = "listTables"

	// row actions
	RequestActionInsert    RequestAction = "insert"
	RequestActionFind      RequestAction = "find"
	RequestActionFindRange RequestAction = "findRange"

	// relational algebra actions
	RequestActionProject RequestAction = "project"
	RequestActionSelect  RequestAction = "select"
	RequestActionUnion   RequestAction = "union"
	RequestActionMinus   RequestAction = "minus"
	RequestActionJoin    RequestAction = "join"
)

func (action RequestAction) IsReadOnly() bool {
	switch action {
	case RequestActionFind, RequestActionFindRange, RequestActionListTables:
		return true
	}
	return false
}

func (action RequestAction) IsDDL() bool {
	return action == RequestActionCreateTable || action == RequestActionDropTable
}

func ActionHandler(db *DB, action RequestAction, ctx *ConnCtx, raw []byte) Response {
	if action.IsReadOnly() {
		if !ctx.User.HasClearance(auth.UserRoleReadOnly) {
			return NewErrorResponse(http.StatusForbidden, "Insufficient permissions")
		}
		db.Locker.RLock()
		defer db.Locker.RUnlock()
	} else {
		if !ctx.User.HasClearance(auth.UserRoleReadWrite) {
			return NewErrorResponse(http.StatusForbidden, "Insufficient permissions")
		}
		if action.IsDDL() && !ctx.User.HasClearance(auth.UserRoleAdmin) {
			return NewErrorResponse(http.StatusForbidden, "Insufficient permissions")
		}
		db.Locker.Lock()
		defer db.Locker.Unlock()
	}

	switch action {
	case RequestActionCreateTable:
		return CreateTableReqHandler(db, raw)
	case RequestActionDropTable:
		return DropTableReqHandler(db, raw)
	case RequestActionListTables:
		return ListTablesReqHandler(db)
	case RequestActionInsert:
		return InsertReqHandler(db, raw)
	case RequestActionFind:
		return FindReqHandler(db, raw)
	case RequestActionFindRange:
		return FindRangeReqHandler(db, raw)
	case RequestActionProject:
		return ProjectReqHandler(db, raw)
	case RequestActionSelect:
		return SelectReqHandler(db, raw)
	case RequestActionUnion:
		return UnionReqHandler(db, raw)
	case RequestActionMinus:
		return MinusReqHandler(db, raw)
	case RequestActionJoin:
		return JoinReqHandler(db, raw)
	default:
		return NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("unknown action: %s", action))
	}
}
