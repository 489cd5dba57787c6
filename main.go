package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"photogeoview/api"
	"photogeoview/photo"
	"photogeoview/storage"
	"photogeoview/thumbnail"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	addr := getenv("ADDR", ":8080")

	var db storage.PhotoDB
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		mongodb := &storage.MongoPhotoDB{Log: logger}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := mongodb.Connect(ctx, uri,
			getenv("MONGO_DB", "photogeoview"),
			getenv("MONGO_COLLECTION", "photos"),
		)
		cancel()
		if err != nil {
			logger.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		defer mongodb.Close(context.Background())

		db = mongodb
	} else {
		logger.Info("MONGO_URI not set, catalog endpoints disabled")
	}

	photos := &photo.Service{
		Log:                   logger,
		MaxThumbnailDimension: thumbnail.DefaultMaxDimension,
	}

	handlers := &api.PhotoHandlers{
		Photos:       photos,
		Db:           db,
		Log:          logger,
		SecretKey:    os.Getenv("SECRET_KEY"),
		PasswordHash: os.Getenv("PW"),
	}
	mux := http.NewServeMux()
	handlers.ServeHTTP(mux)

	logger.Info("starting server", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
