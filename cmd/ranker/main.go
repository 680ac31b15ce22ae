package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/gosearchlabs/go-chunk-ranker/api"
	"github.com/gosearchlabs/go-chunk-ranker/internal/analytics"
	"github.com/gosearchlabs/go-chunk-ranker/internal/engine"
)

const maxRequestBodySize = 32 << 20 // 32 MiB of document trees per request

func main() {
	// Define command-line flags
	var (
		help    = flag.Bool("help", false, "Show help message")
		version = flag.Bool("version", false, "Show version information")
		port    = flag.String("port", "8080", "Port to run the server on")
		dataDir = flag.String("data-dir", "./ranker_data", "Directory to store ranker data")
	)

	flag.Parse()

	// Handle help flag
	if *help {
		fmt.Printf("Go Chunk Ranker - aggregates chunk-level matches into ranked document matches\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                          # Start server on default port 8080\n", os.Args[0])
		fmt.Printf("  %s --port 9000              # Start server on port 9000\n", os.Args[0])
		fmt.Printf("  %s --data-dir /tmp/ranker   # Use custom data directory\n", os.Args[0])
		return
	}

	// Handle version flag
	if *version {
		fmt.Printf("Go Chunk Ranker v1.0.0\n")
		return
	}

	// Initialize the ranking engine
	log.Printf("Using data directory: %s", *dataDir)
	rankingEngine := engine.NewEngine(*dataDir)
	analyticsService := analytics.NewService(rankingEngine, *dataDir)

	// Initialize Gin router
	router := gin.Default()
	router.Use(api.RequestSizeLimitMiddleware(maxRequestBodySize))
	router.Use(api.CORSMiddleware())

	// Setup API routes
	api.SetupRoutes(router, rankingEngine, analyticsService)

	// Start the server
	log.Printf("Starting server on port %s...", *port)
	if err := router.Run(":" + *port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
