package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"imagerater/internal/config"
	"imagerater/internal/logger"
	"imagerater/internal/repository/sqlite"
	"imagerater/internal/service/catalog"
)

func main() {
	cfg := config.Load()

	imagesDir := flag.String("images", cfg.ImageDirectory, "Directory containing images")
	dbPath := flag.String("db", cfg.DatabasePath, "Database path")
	prefix := flag.String("prefix", cfg.ImageURLPrefix, "URL prefix the images are served under")
	reset := flag.Bool("reset", false, "Remove all registered images and their ratings first")
	flag.Parse()

	fmt.Printf("Registering images from %s in database %s\n", *imagesDir, *dbPath)

	// Ensure database directory exists
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	db, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	images := sqlite.NewImageRepository(db)
	if *reset {
		if err := images.DeleteAll(context.Background()); err != nil {
			log.Fatalf("Failed to reset database: %v", err)
		}
		fmt.Println("Removed all registered images and ratings")
	}

	scanner := catalog.NewScanner(*imagesDir, *prefix, images, logger.NewConsole("warn"))

	result, err := scanner.Scan(context.Background())
	if err != nil {
		log.Fatalf("Failed to scan images: %v", err)
	}

	fmt.Printf("Found %d images, registered %d new\n", result.Found, result.Added)
	if result.Skipped > 0 {
		fmt.Printf("Skipped %d already registered\n", result.Skipped)
	}
}
