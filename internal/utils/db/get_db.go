package db

import (
	"os"
	"strconv"

	"gorm.io/gorm"
)

func GetDB() (*gorm.DB, error) {
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	port, err := strconv.ParseUint(dbPort, 10, 32)
	if err != nil {
		port = 5432 // Default PostgreSQL port
	}

	dbName := os.Getenv("DB_NAME")
	dbCredsSecretID := os.Getenv("DB_SECRET_ID")
	return ConnectDatabase(uint(port), dbHost, dbName, dbCredsSecretID)
}
