package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/cognicore/tweetcloud/internal/source"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/config"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "Config file (optional)")
		subject    = flag.String("subject", "", "Account the posts belong to (required)")
		inputPath  = flag.String("input", "", "Posts file: .jsonl, .html or one post per line (required)")
		top        = flag.Int("top", 20, "Number of top words to print")
	)
	flag.Parse()

	if *subject == "" {
		log.Fatal("--subject required")
	}
	if *inputPath == "" {
		log.Fatal("--input required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	loader := config.Loader{Config: cfg}
	components, err := loader.Load(ctx)
	if err != nil {
		log.Fatal("Failed to load components:", err)
	}
	logger := components.Logger

	engine := tweetcloud.New(tweetcloud.Options{
		Extractor: components.Extractor,
		Store:     components.Store,
		Logger:    logger,
	})
	defer engine.Close()

	items, err := source.LoadFile(*inputPath, *subject, logger)
	if err != nil {
		log.Fatal("Failed to load posts:", err)
	}
	if len(items) == 0 {
		log.Fatalf("No posts found for %s in %s", *subject, *inputPath)
	}
	logger.Info("loaded posts", "subject", *subject, "path", *inputPath, "items", len(items))

	res, err := engine.Process(ctx, *subject, items)
	if err != nil {
		log.Fatal("Failed to process posts:", err)
	}

	fmt.Printf("artifact: %s\n", res.Handle)
	fmt.Printf("image:    %s\n", store.ImageName(res.Handle))
	fmt.Printf("items:    %d (skipped %d, no words %d)\n",
		len(res.Outcomes), res.Count(tweetcloud.StatusFailed),
		res.Count(tweetcloud.StatusNoWords)+res.Count(tweetcloud.StatusEmpty))
	fmt.Printf("words:    %d distinct, %d total\n\n", len(res.Words), res.Words.Total())
	for i, e := range res.Words.Top(*top) {
		fmt.Printf("%3d. %-24s %d\n", i+1, e.Word, e.Count)
	}
}
