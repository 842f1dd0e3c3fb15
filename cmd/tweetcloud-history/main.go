package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/tweetcloud/pkg/tweetcloud/autotune"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/config"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/ingest"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/lexicon"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/stoplist"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "Config file (optional)")
		subject    = flag.String("subject", "", "Account to list results for")
		handle     = flag.String("handle", "", "Print one stored result as JSON instead of listing")
		top        = flag.Int("top", 20, "Number of top words across the subject's results")
		suggest    = flag.Bool("suggest-stops", false, "Print stopword suggestions for the subject as a stoplist file")
		review     = flag.Bool("review", false, "Confirm each stopword suggestion on the terminal")
		del        = flag.String("delete", "", "Delete one stored result")
	)
	flag.Parse()

	if *subject == "" && *handle == "" && *del == "" {
		log.Fatal("--subject, --handle or --delete required")
	}
	if *suggest && *subject == "" {
		log.Fatal("--suggest-stops needs --subject")
	}
	if *review && !*suggest {
		log.Fatal("--review needs --suggest-stops")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	ctx := context.Background()

	// Reading stored results needs no analyzers.
	loader := config.Loader{
		Config: cfg,
		BuildExtractor: func(*stoplist.Manager, *stoplist.Manager, *lexicon.Lexicon) (*ingest.Extractor, error) {
			return ingest.NewExtractor(), nil
		},
	}
	components, err := loader.Load(ctx)
	if err != nil {
		log.Fatal("Failed to load components:", err)
	}
	defer components.Close()
	st := components.Store

	if *del != "" {
		d, ok := st.(store.Deleter)
		if !ok {
			log.Fatalf("Store backend %q cannot delete results", cfg.Store.Backend)
		}
		if err := d.Delete(ctx, store.Handle(*del)); err != nil {
			log.Fatal("Failed to delete result:", err)
		}
		fmt.Printf("Deleted %s\n", *del)
		return
	}

	if *handle != "" {
		rec, err := st.Load(ctx, store.Handle(*handle))
		if err != nil {
			log.Fatal("Failed to load result:", err)
		}
		data, err := store.Encode(rec)
		if err != nil {
			log.Fatal("Failed to encode result:", err)
		}
		os.Stdout.Write(data)
		return
	}

	if *suggest {
		tuner := autotune.AutoTuner{
			Provider: autotune.SubjectStats{Store: st, Subject: *subject},
			Manager:  stoplist.NewManager(append(components.EnglishStops.All(), components.KoreanStops.All()...)),
		}
		if *review {
			tuner.Reviewer = autotune.NewPromptReviewer(os.Stdin, os.Stderr)
		}
		cands, err := tuner.Run(ctx)
		if err != nil {
			log.Fatal("Failed to suggest stopwords:", err)
		}
		file := stoplist.File{Terms: make([]string, len(cands))}
		for i, c := range cands {
			file.Terms[i] = c.Token
			components.Logger.Debug("stopword candidate", "token", c.Token, "df_percent", c.DFPercent, "count", c.Count, "score", c.Score)
		}
		enc := yaml.NewEncoder(os.Stdout)
		if err := enc.Encode(file); err != nil {
			log.Fatal("Failed to write suggestions:", err)
		}
		enc.Close()
		return
	}

	sums, err := st.List(ctx, *subject)
	if err != nil {
		log.Fatal("Failed to list results:", err)
	}
	if len(sums) == 0 {
		fmt.Printf("No stored results for %s\n", *subject)
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tDISTINCT\tTOTAL\tHANDLE")
	for _, s := range sums {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", s.CreatedAt.Format(store.TimeLayout), s.Distinct, s.Total, s.Handle)
	}
	tw.Flush()

	entries, err := st.TopWords(ctx, *subject, *top)
	if err != nil {
		log.Fatal("Failed to aggregate words:", err)
	}
	fmt.Printf("\nTop words for %s across %d results:\n", *subject, len(sums))
	for i, e := range entries {
		fmt.Printf("%3d. %-24s %d\n", i+1, e.Word, e.Count)
	}
}
