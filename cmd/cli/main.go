package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/warinb/linkgrove/pkg/adapters/repository"
	"github.com/warinb/linkgrove/pkg/config"
	"github.com/warinb/linkgrove/pkg/core/domain"
	"github.com/warinb/linkgrove/pkg/ports"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importFile := importCmd.String("file", "", "JSON file to import")

	if len(os.Args) < 2 {
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}

	cfg := config.Load()
	repo, err := repository.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to db: %v", err)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		doExport(repo)
	case "import":
		importCmd.Parse(os.Args[2:])
		if *importFile == "" {
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		doImport(repo, *importFile)
	default:
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}
}

func doExport(repo ports.ProfileRepository) {
	exports, err := repo.Dump(context.Background())
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(exports); err != nil {
		log.Fatalf("Encode failed: %v", err)
	}
}

func doImport(repo ports.ProfileRepository, filename string) {
	file, err := os.Open(filename)
	if err != nil {
		log.Fatalf("Failed to open file: %v", err)
	}
	defer file.Close()

	var exports []domain.ProfileExport
	if err := json.NewDecoder(file).Decode(&exports); err != nil {
		log.Fatalf("Decode failed: %v", err)
	}

	ctx := context.Background()
	count := 0
	for _, e := range exports {
		if e.Profile.ID == "" {
			log.Printf("Skipping record with empty profile id (owner %s)", e.Profile.Owner)
			continue
		}
		// Restore keeps ids and counters intact so link ids stay retired.
		if err := repo.Restore(ctx, e); err != nil {
			log.Printf("Failed to import %s: %v", e.Profile.ID, err)
		} else {
			count++
		}
	}
	log.Printf("Imported %d profiles", count)
}
