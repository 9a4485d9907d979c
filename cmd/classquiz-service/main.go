package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"time"

	"classquiz/internal/httpapi"
	"classquiz/internal/quiz"

	"go.uber.org/zap"
)

func main() {
	defaultAddr := os.Getenv("ADDR")
	if defaultAddr == "" {
		defaultAddr = ":8080"
	}
	defaultDB := os.Getenv("CLASSQUIZ_DB")
	if defaultDB == "" {
		defaultDB = "classquiz.db"
	}

	addr := flag.String("addr", defaultAddr, "HTTP listen address")
	dbPath := flag.String("db", defaultDB, "SQLite database path")
	importPath := flag.String("import", "", "JSON file of questions to import on startup")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := quiz.NewSQLiteStore(*dbPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("path", *dbPath), zap.Error(err))
	}
	defer store.Close()

	service := quiz.NewService(store, store, logger)

	if *importPath != "" {
		count, err := service.ImportQuestionsFile(context.Background(), *importPath)
		if err != nil {
			logger.Fatal("failed to import questions", zap.String("file", *importPath), zap.Error(err))
		}
		logger.Info("startup import complete", zap.Int("count", count))
	}

	server := &http.Server{
		Addr:              *addr,
		Handler:           httpapi.NewRouter(service, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("classquiz-service listening", zap.String("addr", *addr), zap.String("db", *dbPath))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
}
