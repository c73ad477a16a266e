// cmd/portfolio-import - Load or dump a portfolio JSON bundle
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"portfolio/config"
	"portfolio/database"
	"portfolio/services"

	"github.com/joho/godotenv"
)

func main() {
	importPath := flag.String("file", "", "bundle to import")
	exportPath := flag.String("export", "", "write a bundle of the current data to this path")
	flag.Parse()

	if (*importPath == "") == (*exportPath == "") {
		fmt.Fprintln(os.Stderr, "usage: portfolio-import -file bundle.json | -export out.json")
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	db, err := database.Open(cfg.DB, nil)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer database.Close(db)

	ctx := context.Background()
	svc := services.NewImportService(db, nil)

	if *exportPath != "" {
		bundle, err := svc.Export(ctx)
		if err != nil {
			log.Fatal("Export failed: ", err)
		}
		data, err := json.MarshalIndent(bundle, "", "  ")
		if err != nil {
			log.Fatal("Failed to encode bundle: ", err)
		}
		if err := os.WriteFile(*exportPath, data, 0o644); err != nil {
			log.Fatal("Failed to write bundle: ", err)
		}
		fmt.Printf("Exported %d categories and %d achievements to %s\n",
			len(bundle.Categories), len(bundle.Achievements), *exportPath)
		return
	}

	data, err := os.ReadFile(*importPath)
	if err != nil {
		log.Fatal("Failed to read bundle: ", err)
	}
	var bundle services.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		log.Fatal("Failed to parse bundle: ", err)
	}

	result, err := svc.Import(ctx, bundle)
	if err != nil {
		log.Fatal("Import failed, nothing was written: ", err)
	}
	fmt.Printf("Imported %d new categories, %d achievements, %d milestones\n",
		result.Categories, result.Achievements, result.Milestones)
}
