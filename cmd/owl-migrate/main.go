package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	commoncfg "owl-care/owl-common/config"
	"owl-care/owl-common/database"
	"owl-care/owl-common/logger"

	"go.uber.org/zap"
)

// owl-migrate applies the given .sql files (or every *.sql in -dir, in name order)
// to the database configured through DB_* variables.
func main() {
	dir := flag.String("dir", "migrations", "directory with *.sql files, used when no files are given")
	flag.Parse()

	if err := commoncfg.LoadDotEnv(); err != nil {
		panic(fmt.Sprintf("Failed to load .env: %v", err))
	}

	log, err := logger.NewLogger(commoncfg.GetEnv("LOG_LEVEL", "info"), commoncfg.GetEnv("LOG_FORMAT", "console"), "owl-migrate")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	files := flag.Args()
	if len(files) == 0 {
		files, err = filepath.Glob(filepath.Join(*dir, "*.sql"))
		if err != nil {
			log.Fatal("Invalid migrations dir", zap.Error(err))
		}
		sort.Strings(files)
	}
	if len(files) == 0 {
		log.Fatal("No migration files found", zap.String("dir", *dir))
	}

	dbCfg := &commoncfg.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "owlcare",
		SSLMode:  "disable",
	}
	dbCfg.LoadFromEnv("DB")

	db, err := database.NewPostgresDB(dbCfg)
	if err != nil {
		log.Fatal("Cannot connect to database", zap.Error(err))
	}
	defer database.Close(db)

	ctx := context.Background()
	for _, f := range files {
		script, err := os.ReadFile(f)
		if err != nil {
			log.Fatal("Failed to read migration file", zap.String("file", f), zap.Error(err))
		}
		n, err := database.ApplyScript(ctx, db, string(script))
		if err != nil {
			log.Fatal("Migration failed", zap.String("file", f), zap.Error(err))
		}
		log.Info("Migration applied", zap.String("file", f), zap.Int("statements", n))
	}
}
