// debugdeals runs one query through the search, classify, and resolve stages
// from the command line and prints the priced products as JSON. Useful for
// poking at prompt or policy changes without the HTTP surface.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/SudhakarGollapinni/DealFinder/internal/classify"
	"github.com/SudhakarGollapinni/DealFinder/internal/extract"
	"github.com/SudhakarGollapinni/DealFinder/internal/ledger"
	"github.com/SudhakarGollapinni/DealFinder/internal/llm"
	"github.com/SudhakarGollapinni/DealFinder/internal/product"
	"github.com/SudhakarGollapinni/DealFinder/internal/resolve"
	"github.com/SudhakarGollapinni/DealFinder/internal/search"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	_ = godotenv.Load()

	query := "best deals on wireless earbuds"
	if len(os.Args) > 1 {
		query = os.Args[1]
	}

	oaCfg := openai.DefaultConfig(os.Getenv("LLM_API_KEY"))
	if base := os.Getenv("LLM_BASE_URL"); base != "" {
		oaCfg.BaseURL = base
	}
	provider := &llm.OpenAIProvider{Inner: openai.NewClientWithConfig(oaCfg)}
	model := os.Getenv("LLM_MODEL")

	tavily := &search.Tavily{BaseURL: os.Getenv("TAVILY_BASE_URL"), APIKey: os.Getenv("TAVILY_API_KEY")}
	extractor := &extract.Tavily{BaseURL: os.Getenv("TAVILY_BASE_URL"), APIKey: os.Getenv("TAVILY_API_KEY")}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	led := ledger.New()
	hits, err := tavily.Search(ctx, query, search.Options{
		Depth:             search.DepthAdvanced,
		MaxResults:        10,
		IncludeRawContent: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("search failed")
	}
	log.Info().Int("hits", len(hits)).Msg("search done")

	classifier := &classify.Classifier{Client: provider, Model: model}
	hits = classifier.Filter(ctx, hits, led)
	log.Info().Int("kept", len(hits)).Msg("classifier done")

	resolver := &resolve.Resolver{Client: provider, Model: model, Extractor: extractor}
	products := product.Finalize(resolver.Resolve(ctx, query, hits, led))
	led.Log(log.Logger)

	b, _ := json.MarshalIndent(products, "", "  ")
	fmt.Println(string(b))
}
