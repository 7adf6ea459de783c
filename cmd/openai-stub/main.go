// Command openai-stub is a local OpenAI-compatible server that answers
// recipe-extraction and categorization prompts with canned JSON. Point
// FORKFUL_AI_BASE_URL at it to exercise the AI stages without a real key
// or network access.
package main

import (
	"encoding/json"
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

func main() {
	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "test-model"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		sys := ""
		user := ""
		for _, m := range req.Messages {
			switch m.Role {
			case "system":
				sys = strings.TrimSpace(m.Content)
			case "user":
				user = m.Content
			}
		}
		var content string
		switch {
		case strings.Contains(sys, "culinary expert"):
			verdict := map[string]any{
				"health_tags":      []string{"vegetarian"},
				"dish_type":        []string{"pasta", "main course"},
				"cuisine_type":     []string{"italian", "mediterranean"},
				"meal_type":        []string{"lunch", "dinner"},
				"season":           []string{"spring", "summer", "winter", "autumn"},
				"confidence_notes": "Canned categorization for local development.",
			}
			b, _ := json.Marshal(verdict)
			content = string(b)
		case !strings.Contains(sys, "recipe extraction expert"):
			http.Error(w, "unexpected system", http.StatusBadRequest)
			return
		case strings.Contains(strings.ToLower(user), "no recipe here"):
			// Lets callers exercise the null verdict path.
			content = "null"
		default:
			verdict := map[string]any{
				"title":        "Stub Garlic Pasta",
				"description":  "A canned response for local development.",
				"image":        nil,
				"source":       "Stub Kitchen",
				"ingredients":  []string{"8 oz spaghetti", "4 cloves garlic", "2 tbsp olive oil"},
				"instructions": []string{"Boil the pasta until al dente.", "Saute the garlic in oil and toss with the pasta."},
				"prep_time":    "5 minutes",
				"cook_time":    "15 minutes",
				"servings":     "2",
				"cuisine":      "Italian",
				"category":     "dinner",
				"keywords":     []string{"pasta", "garlic"},
			}
			b, _ := json.Marshal(verdict)
			content = string(b)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	})

	log.Printf("openai-stub listening on %s (model=%s)", addr, model)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}
