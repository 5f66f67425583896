package conn

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mattzmyname/CSCI4370-Project3/internal/auth"
	"github.com/mattzmyname/CSCI4370-Project3/internal/relation"
	"github.com/mattzmyname/CSCI4370-Project3/internal/store"
	"github.com/mattzmyname/CSCI4370-Project3/pkg"
)

type WriteSettings struct {
	write_path     string
	in_mem         bool
	write_ticker   *time.Ticker
	write_interval time.Duration
}

func NewWriteSettings(write_path string, in_mem bool, write_interval_ms int) *WriteSettings {
	var write_ticker *time.Ticker
	write_interval := time.Duration(write_interval_ms) * time.Millisecond
	if !in_mem {
		if len(write_path) == 0 {
			pkg.FatalLog("Must either provide db path or use in-memory mode")
		}
		write_ticker = time.NewTicker(write_interval)
	}
	return &WriteSettings{write_path, in_mem, write_ticker, write_interval}
}

type LogOptions struct {
	Should_log      bool
	Show_debug_logs bool
}

// DB is the table registry plus the users allowed to reach it.
type DB struct {
	Locker sync.RWMutex
	Tables *pkg.InsertSortMap[string, *relation.Table]
	Users  []*auth.User

	write_settings *WriteSettings
	last_change    time.Time
}

func NewDB(write_settings *WriteSettings, log_options LogOptions) *DB {
	if log_options.Should_log {
		if log_options.Show_debug_logs {
			pkg.SetLogLevel(pkg.LogLevelDebug)
		} else {
			pkg.SetLogLevel(pkg.LogLevelErrOnly)
		}
	} else {
		pkg.SetLogLevel(pkg.LogLevelNone)
	}

	db := &DB{
		Tables:         pkg.NewInsertSortMap[string, *relation.Table](),
		write_settings: write_settings,
		last_change:    time.Now(),
	}
	db.readFromFile()
	return db
}

func (db *DB) GetLocker() *sync.RWMutex { return &db.Locker }

// AddUser registers a user allowed to connect.
func (db *DB) AddUser(name, password string, role auth.UserRole) *auth.User {
	u := auth.NewUser(name, password, role)
	db.Users = append(db.Users, u)
	return u
}

func (db *DB) Listen(port int) {
	exit := make(chan os.Signal, 2)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

	s := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		ReadTimeout:  0,
		WriteTimeout: 0,
	}

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	http.HandleFunc("/", db.HandleConnection)

	go func() {
		err := s.ListenAndServe()
		if err != http.ErrServerClosed {
			pkg.FatalLog(err)
		}
	}()

	go func() {
		if db.write_settings.write_ticker == nil {
			return
		}

		last_write := db.last_change

		for {
			<-db.write_settings.write_ticker.C
			if db.last_change.After(last_write) {
				db.WriteToFile()
				last_write = db.last_change
			}
		}
	}()

	pkg.InfoLog("listening on port", port)
	<-exit
	pkg.DebugLog("Shutting down...")
	s.Shutdown(context.Background())
	db.WriteToFile()
}

func (db *DB) UpdateLastChange() {
	db.last_change = time.Now()
}

func (db *DB) readFromFile() {
	if db.write_settings.in_mem || db.write_settings.write_path == "" {
		return
	}
	tables, err := store.LoadAll(db.write_settings.write_path)
	if err != nil {
		pkg.FatalLog("failed to read db dir;", err)
	}
	for _, t := range tables {
		db.Tables.Push(t.Name, t)
	}
	if len(tables) > 0 {
		pkg.InfoLog("loaded", len(tables), "tables from", db.write_settings.write_path)
	}
}

func (db *DB) WriteToFile() {
	if db.write_settings.in_mem {
		return
	}

	pkg.DebugLog("writing database to disk")

	db.Locker.RLock()
	defer db.Locker.RUnlock()

	for _, name := range db.Tables.Sorted {
		if err := store.Save(db.write_settings.write_path, db.Tables.Get(name)); err != nil {
			pkg.FatalLog(err)
		}
	}
}
