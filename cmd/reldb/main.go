package main

import (
	"flag"
	"os"
	"path"

	"github.com/mattzmyname/CSCI4370-Project3/internal/auth"
	"github.com/mattzmyname/CSCI4370-Project3/internal/conn"
	"github.com/mattzmyname/CSCI4370-Project3/internal/store"
)

func main() {
	cwd, _ := os.Getwd()

	db_write_path := flag.String("db", path.Join(cwd, store.DirName), "path to save db data")
	in_mem := flag.Bool("m", false, "don't persist db")
	port := flag.Int("port", 7085, "listening port")
	write_interval := flag.Int("i", 1000, "write interval in milliseconds")
	should_log := flag.Bool("log", true, "environment: enable logging")
	debug_logs := flag.Bool("dbg", false, "environment: show debug logs")
	username := flag.String("u", "admin", "root user name")
	password := flag.String("p", "admin", "root user password")

	flag.Parse()

	write_settings := conn.NewWriteSettings(*db_write_path, *in_mem, *write_interval)
	db := conn.NewDB(write_settings, conn.LogOptions{
		Should_log:      *should_log,
		Show_debug_logs: *debug_logs,
	})
	db.AddUser(*username, *password, auth.UserRoleAdmin)

	db.Listen(*port)
}
