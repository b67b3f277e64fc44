package mariadb

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	"campus-queue-backend/config"

	_ "github.com/go-sql-driver/mysql"
)

var (
	db   *sql.DB
	once sync.Once
)

// Connect opens the MariaDB connection. Credentials come from .env via
// the config package.
func Connect() *sql.DB {
	once.Do(func() {
		cfg := config.LoadConfig()
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

		var err error
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			log.Fatalf("Failed to open database connection: %v", err)
		}

		if err = db.Ping(); err != nil {
			log.Fatalf("Failed to ping database: %v", err)
		}

		log.Println("Connected to MariaDB.")
	})

	return db
}

// GetDB returns the already established database handle.
func GetDB() *sql.DB {
	return db
}
