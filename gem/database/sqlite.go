package database

// sqlite3 driver is available to scripts as open("sqlite3", dsn)
import _ "github.com/mattn/go-sqlite3"
