package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ApranavC/mypcf/tests/helpers"
	"github.com/joho/godotenv"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	var dbType string
	flag.StringVar(&dbType, "db", "mariadb", "database to start: mariadb or postgres")
	flag.Parse()

	usage := `
Start a mypcf development database in a container and print the environment
that points the server at it. The container stops on interrupt.

Usage:

testcontainers [-h] [-db mariadb|postgres] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to a .env file, DB_IMAGE there overrides the default image

example
  testcontainers -db postgres -f /path/to/something/.env
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	dc, err := helpers.StartDatabase(nil, dbType)
	if err != nil {
		log.Fatalf("Failed to start database container: %v\n", err)
	}

	cfg := dc.Config
	fmt.Printf("DB_TYPE=%s\nDB_HOST=%s\nDB_PORT=%s\nDB_DATABASE=%s\nDB_USER=%s\nDB_PASSWORD=%s\n",
		cfg.DBType, cfg.DBHost, cfg.DBPort, cfg.DBDatabase, cfg.DBUser, cfg.DBPassword)

	sig := <-sigs
	log.Printf("\nReceived signal: %v, terminating test containers...\n", sig)
	dc.Terminate(nil)
}
