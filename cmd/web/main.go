package main

import (
	"log"

	"github.com/joho/godotenv"

	"storefloor/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v\n", err)
	}
	if err := server.Run(); err != nil {
		log.Fatal(err.Error())
	}
}
