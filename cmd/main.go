package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/yungbote/screengrabber-backend/internal/app"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	a, err := app.New(ctx)
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close(ctx)

	if err := a.Run(); err != nil {
		a.Log.Error("Server failed", "error", err)
	}
}
