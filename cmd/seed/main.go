// Command main runs the database seeder.
package main

import (
	"flag"
	"log"

	"redline/internal/config"
	"redline/internal/database"
	"redline/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 25, "Number of users to create")
	numReports := flag.Int("reports", 10, "Number of reports to thread")
	perReport := flag.Int("comments", 8, "Top-level comments per report")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d reports, %d comments each, clean=%v\n",
		*numUsers, *numReports, *perReport, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run seeder
	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	users, err := s.SeedUsers(*numUsers)
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}

	reportIDs := make([]uint, *numReports)
	for i := range reportIDs {
		reportIDs[i] = uint(i + 1)
	}
	if err := s.SeedThreads(reportIDs, *perReport, users); err != nil {
		log.Fatalf("Thread seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
