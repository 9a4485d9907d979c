package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"classquiz/internal/cli"
	"classquiz/internal/quiz"

	"go.uber.org/zap"
)

func main() {
	defaultDB := os.Getenv("CLASSQUIZ_DB")
	if defaultDB == "" {
		defaultDB = "classquiz.db"
	}

	dbPath := flag.String("db", defaultDB, "SQLite database path")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := quiz.NewSQLiteStore(*dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer store.Close()

	service := quiz.NewService(store, store, logger)

	if err := cli.Run(context.Background(), os.Stdin, os.Stdout, service, logger); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
