package main

import (
	"flag"
	"fmt"
	"os"

	"blog-service/server"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	commandFlag := flag.String("command", "start", "Command to run modules")
	flag.Parse()

	switch *commandFlag {
	case "start":
		server.StartServer()
	case "init-db":
		server.InitDB()
	default:
		fmt.Println("Usage: go run main.go --command <start|init-db>")
		os.Exit(1)
	}
}
