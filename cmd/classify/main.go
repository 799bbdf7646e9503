package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dvloznov/expense-classifier/internal/config"
	"github.com/dvloznov/expense-classifier/internal/expense"
	"github.com/dvloznov/expense-classifier/internal/gcs"
	"github.com/dvloznov/expense-classifier/internal/llm"
	"github.com/dvloznov/expense-classifier/internal/logger"
	"github.com/dvloznov/expense-classifier/internal/pipeline"
)

func main() {
	log := logger.New()

	input := flag.String("input", "", "CSV file with financial data: local path or gs:// URI")
	budget := flag.Float64("budget", 0, "monthly budget in USD (advice context)")
	list := flag.String("list", "", "list uploaded CSVs under gs://<bucket>/<prefix> and exit")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	if *list != "" {
		if err := runList(ctx, *list); err != nil {
			log.Fatal().Err(err).Msg("Listing uploads failed")
		}
		return
	}

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: classify -input <file.csv|gs://bucket/object> [-budget N]")
		os.Exit(1)
	}
	if *budget < 0 {
		log.Fatal().Float64("budget", *budget).Msg("Budget must be non-negative")
	}

	table, err := loadTable(ctx, *input)
	if err != nil {
		log.Fatal().Err(err).Str("input", *input).Msg("Failed to load financial data")
	}

	generator, err := llm.NewGemini(ctx, cfg.Model, cfg.CallTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create generation client")
	}

	runner := pipeline.NewRunner(generator, cfg.ClassifyConcurrency)
	result, err := runner.Run(ctx, table, *budget)
	if errors.Is(err, pipeline.ErrEmptyInput) {
		fmt.Println("Please enter valid financial data to categorize.")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Categorize run failed")
	}

	printResult(result)
}

func loadTable(ctx context.Context, input string) (*expense.Table, error) {
	if strings.HasPrefix(input, "gs://") {
		data, err := gcs.NewClient().Fetch(ctx, input)
		if err != nil {
			return nil, err
		}
		return expense.ParseCSV(bytes.NewReader(data))
	}

	f, err := os.Open(input)
	if err != nil {
		return nil, fmt.Errorf("open file %q: %w", input, err)
	}
	defer f.Close()

	return expense.ParseCSV(f)
}

func runList(ctx context.Context, uri string) error {
	bucket, prefix, err := gcs.ParseURI(uri)
	if err != nil {
		// Allow a bare gs://bucket with no prefix.
		bucket = strings.TrimPrefix(uri, "gs://")
		bucket = strings.TrimSuffix(bucket, "/")
		if bucket == "" || strings.Contains(bucket, "/") {
			return err
		}
		prefix = ""
	}

	names, err := gcs.NewClient().List(ctx, bucket, prefix)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Printf("gs://%s/%s\n", bucket, name)
	}
	return nil
}

func printResult(result *pipeline.Result) {
	fmt.Println("Categorized Data:")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tDESCRIPTION\tAMOUNT\tCATEGORY")
	for _, row := range result.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.Date, row.Description, row.FormatAmount(), row.Category)
	}
	w.Flush()

	fmt.Println("\nExpenses by Category:")
	for _, entry := range result.Series {
		fmt.Printf("  %-24s $%.2f\n", entry.Category, entry.Total)
	}
	fmt.Printf("  %-24s $%.2f\n", "Total", result.Total)

	if result.AdviceError != "" {
		fmt.Printf("\nAn error occurred while generating financial advice: %s\n", result.AdviceError)
		return
	}
	fmt.Println("\nPersonalized Financial Advice:")
	fmt.Println(result.Advice)
}
