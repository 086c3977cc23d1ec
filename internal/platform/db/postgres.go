package db

import (
	"database/sql"
	"sync"
	"time"

	_ "github.com/lib/pq"
)

var (
	once      sync.Once
	shared    *sql.DB
	sharedErr error
)

// Shared returns the process-wide connection pool, constructing it on the
// first call and reusing it afterwards. database/sql dials lazily, so an
// empty or unreachable DSN surfaces on the first query rather than here.
func Shared(dsn string) (*sql.DB, error) {
	once.Do(func() {
		pool, err := sql.Open("postgres", dsn)
		if err != nil {
			sharedErr = err
			return
		}

		pool.SetMaxOpenConns(10)
		pool.SetMaxIdleConns(5)
		pool.SetConnMaxLifetime(30 * time.Minute)

		shared = pool
	})

	return shared, sharedErr
}
