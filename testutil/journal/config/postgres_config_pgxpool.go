package config

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPGXPoolConfig creates a pgxpool.Config for the test database.
func PostgresPGXPoolConfig() *pgxpool.Config {
	const defaultMaxConnections = int32(10)
	const defaultMinConnections = int32(2)
	const defaultMaxConnIdleTime = time.Minute
	const defaultConnectTimeout = time.Second * 5

	dbConfig, err := pgxpool.ParseConfig(PostgresDSN())
	if err != nil {
		log.Fatal("Failed to create a config, error: ", err)
	}

	dbConfig.MaxConns = defaultMaxConnections
	dbConfig.MinConns = defaultMinConnections
	dbConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	dbConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	return dbConfig
}

// PostgresPGXPool opens a pgxpool.Pool on the test database.
func PostgresPGXPool() *pgxpool.Pool {
	pool, err := pgxpool.NewWithConfig(context.Background(), PostgresPGXPoolConfig())
	if err != nil {
		log.Fatal("Failed to create a pgx pool, error: ", err)
	}

	if pingErr := pool.Ping(context.Background()); pingErr != nil {
		log.Fatal("Failed to ping database, error: ", pingErr)
	}

	return pool
}
