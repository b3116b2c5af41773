// devstub is an offline stand-in for the external APIs the service calls: an
// OpenAI-compatible chat/moderation endpoint and the Tavily search/extract
// endpoints, all returning canned deal data. Point the server at it with
// LLM_BASE_URL=http://localhost:8081/v1 and TAVILY_BASE_URL=http://localhost:8081
// to develop without API keys.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

var stubHits = []map[string]any{
	{
		"title":       "Sony WH-1000XM5 Wireless Headphones",
		"url":         "https://www.bestbuy.com/site/sony-wh1000xm5",
		"content":     "Industry-leading noise cancelling, now $329.99 with free shipping",
		"raw_content": "Sony WH-1000XM5 Wireless Noise Cancelling Headphones. Now $329.99. Add to Cart.",
	},
	{
		"title":       "MacBook Air 13-inch",
		"url":         "https://www.apple.com/shop/buy-mac/macbook-air",
		"content":     "Supercharged by the M3 chip.",
		"raw_content": "MacBook Air 13-inch with M3. Buy now for $999. Free delivery.",
	},
	{
		"title":       "Samsung 27\" Odyssey Monitor",
		"url":         "https://www.amazon.com/dp/B0EXAMPLE1",
		"content":     "QHD 165Hz gaming monitor, deal price $249.99 (was $329.99)",
		"raw_content": "Samsung 27\" Odyssey G5. Deal: $249.99. List price $329.99. In stock.",
	},
}

func main() {
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		sys := ""
		if len(req.Messages) > 0 {
			sys = req.Messages[0].Content
		}
		var content string
		switch {
		case strings.Contains(sys, "search result classifier"):
			content = "[1, 2, 3]"
		default:
			// Structured extraction. Pick the price off the excerpt so the
			// pipeline sees consistent data.
			user := ""
			if len(req.Messages) >= 2 {
				user = req.Messages[1].Content
			}
			price := "$999"
			if strings.Contains(user, "$249.99") {
				price = "$249.99"
			}
			b, _ := json.Marshal(map[string]any{
				"product_name": "Stub Product",
				"details":      "Canned extraction from devstub",
				"price":        price,
				"deal_info":    "",
				"in_stock":     true,
			})
			content = string(b)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	})

	mux.HandleFunc("/v1/moderations", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{{"flagged": false}},
		})
	})

	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"results": stubHits})
	})

	mux.HandleFunc("/extract", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			URLs []string `json:"urls"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		results := make([]map[string]any, 0, len(req.URLs))
		for _, u := range req.URLs {
			raw := "No content."
			for _, h := range stubHits {
				if h["url"] == u {
					raw = fmt.Sprint(h["raw_content"])
				}
			}
			results = append(results, map[string]any{"url": u, "raw_content": raw})
		}
		// The payload travels stringified inside content[0].text, matching
		// the live API's tool-style envelope.
		payload, _ := json.Marshal(map[string]any{"results": results})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "success",
			"content": []map[string]string{{"text": string(payload)}},
		})
	})

	log.Printf("devstub listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}
