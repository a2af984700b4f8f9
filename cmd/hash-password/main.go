package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/playmatatu/cueassist/internal/admin"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	password := os.Getenv("OPERATOR_PASSWORD")
	if len(os.Args) > 1 {
		password = os.Args[1]
	}
	if password == "" {
		log.Fatal("usage: hash-password <password>  (or set OPERATOR_PASSWORD)")
	}
	if len(password) < 8 {
		log.Printf("WARNING: operator password is shorter than 8 characters")
	}

	hash, err := admin.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	fmt.Printf("OPERATOR_PASSWORD_HASH=%s\n", hash)
}
