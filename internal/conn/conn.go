package conn

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/mattzmyname/CSCI4370-Project3/internal/auth"
	"github.com/mattzmyname/CSCI4370-Project3/pkg"
)

type WsRequest struct {
	Action RequestAction `json:"action"`
	ReqId  int           `json:"__client_req_id__"` // used in clients
}

var Upgrader = websocket.Upgrader{
	WriteBufferSize: 1024 * 10,
	ReadBufferSize:  1024 * 10,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const maxConnAttempts = 3

// ConnCtx is the per-connection state: the socket and, once the auth
// handshake succeeds, the user behind it.
type ConnCtx struct {
	ws       *websocket.Conn
	User     *auth.User
	isAuthed bool
	attempts int
}

func NewConnCtx(ws *websocket.Conn) *ConnCtx { return &ConnCtx{ws: ws} }

func (ctx *ConnCtx) WriteResponse(res Response) error {
	return ctx.ws.WriteJSON(res)
}

type ConnRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`

	// optional schema to apply on connect
	Schema string `json:"schema"`
}

func ConnValidate(db *DB, r ConnRequest) *auth.User {
	if r.Username == "" {
		return nil
	}
	for _, u := range db.Users {
		if u.Name == r.Username && u.ValidateUser(r.Password) {
			return u
		}
	}
	return nil
}

// tryConnect handles the first message of a connection: credentials plus
// an optional schema document to create tables from.
func tryConnect(db *DB, ctx *ConnCtx, buf []byte) error {
	var r ConnRequest
	if err := json.Unmarshal(buf, &r); err != nil {
		ctx.WriteResponse(NewErrorResponse(http.StatusBadRequest, err.Error()))
		return err
	}

	ctx.User = ConnValidate(db, r)
	if ctx.User == nil {
		ctx.WriteResponse(NewErrorResponse(http.StatusUnauthorized, "Invalid auth"))
		return nil
	}

	if r.Schema != "" {
		raw, _ := json.Marshal(CreateTableRequest{Schema: r.Schema})
		res := ActionHandler(db, RequestActionCreateTable, ctx, raw)
		if res.Status != http.StatusCreated {
			ctx.WriteResponse(res)
			return nil
		}
		pkg.InfoLog("applied schema from connection request")
	}

	ctx.isAuthed = true
	return ctx.WriteResponse(NewResponse(http.StatusOK, "connected", nil))
}

func (db *DB) HandleConnection(w http.ResponseWriter, r *http.Request) {
	ws, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		pkg.ErrorLog("ws upgrade failed", err)
		return
	}
	ctx := NewConnCtx(ws)
	defer ws.Close()
	defer pkg.InfoLog("Connection closed from", ws.RemoteAddr())

	for {
		_, buf, err := ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				pkg.ErrorLog("conn read error", err)
			}
			return
		}

		if !ctx.isAuthed {
			if ctx.attempts == maxConnAttempts {
				pkg.ErrorLog("max connection attempts reached")
				return
			}
			ctx.attempts += 1
			if err := tryConnect(db, ctx, buf); err != nil {
				pkg.ErrorLog("conn attempt error", err)
				return
			}
			continue
		}

		var req WsRequest
		if err := json.Unmarshal(buf, &req); err != nil {
			pkg.ErrorLog("parsing request", err)
			continue
		}

		res := ActionHandler(db, req.Action, ctx, buf)
		res.ReqId = req.ReqId

		if err := ctx.WriteResponse(res); err != nil {
			pkg.ErrorLog("writing response", err)
			return
		}

		if !req.Action.IsReadOnly() {
			pkg.LockWrap(db, func() {
				db.UpdateLastChange()
			})
		}
	}
}
