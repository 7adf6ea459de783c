package ai

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	openai "github.com/sashabaranov/go-openai"

	"github.com/forkful/forkful/internal/fetch"
)

type fakeClient struct {
	reply string
	err   error
	calls int
	// lastPrompt captures the user message for content assertions.
	lastPrompt string
}

func (f *fakeClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	for _, m := range req.Messages {
		if m.Role == openai.ChatMessageRoleUser {
			f.lastPrompt = m.Content
		}
	}
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: f.reply}}},
	}, nil
}

func pageFrom(t *testing.T, html string) *fetch.Page {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	u, _ := url.Parse("https://example.com/recipe")
	return &fetch.Page{URL: u, Body: []byte(html), Doc: doc}
}

const samplePage = `<html><body>
<nav>Home | Recipes | About</nav>
<main><h1>Garlic Butter Shrimp</h1>
<p>1 lb shrimp, 4 tbsp butter, 6 cloves garlic</p>
<p>Melt butter, add garlic, cook shrimp until pink.</p></main>
<footer>Copyright</footer>
</body></html>`

const validReply = `{"title":"Garlic Butter Shrimp","description":"Fast weeknight shrimp.",
"image":"https://example.com/shrimp.jpg","source":"Example Kitchen",
"ingredients":["1 lb shrimp","4 tbsp butter","6 cloves garlic"],
"instructions":["Melt the butter.","Cook the shrimp until pink."],
"prep_time":"5 minutes","cook_time":"10 minutes","servings":"4",
"cuisine":"American","category":"dinner","keywords":["shrimp","quick"]}`

func TestAttempt_ValidJSON(t *testing.T) {
	client := &fakeClient{reply: validReply}
	e := &Extractor{Client: client, Model: "test-model", MaxContentLength: 8000}

	r, err := e.Attempt(context.Background(), "https://example.com/recipe", pageFrom(t, samplePage))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r == nil {
		t.Fatal("expected a recipe")
	}
	if r.Title != "Garlic Butter Shrimp" || !r.UsedAI || r.FoundStructuredData {
		t.Errorf("unexpected result: %+v", r)
	}
	if len(r.Ingredients) != 3 || len(r.Instructions) != 2 {
		t.Errorf("got %d ingredients, %d instructions", len(r.Ingredients), len(r.Instructions))
	}
	if r.Cuisine != "American" || r.Category != "dinner" {
		t.Errorf("cuisine = %q, category = %q", r.Cuisine, r.Category)
	}
	if strings.Contains(client.lastPrompt, "Copyright") {
		t.Error("prompt should not include footer boilerplate")
	}
	if !strings.Contains(client.lastPrompt, "Garlic Butter Shrimp") {
		t.Error("prompt should include main content")
	}
}

func TestAttempt_FencedJSON(t *testing.T) {
	client := &fakeClient{reply: "```json\n" + validReply + "\n```"}
	e := &Extractor{Client: client, Model: "test-model"}

	r, _ := e.Attempt(context.Background(), "https://example.com/recipe", pageFrom(t, samplePage))
	if r == nil || r.Title != "Garlic Butter Shrimp" {
		t.Fatalf("expected recipe from fenced reply, got %+v", r)
	}
}

func TestAttempt_NullVerdict(t *testing.T) {
	client := &fakeClient{reply: "null"}
	e := &Extractor{Client: client, Model: "test-model"}

	r, err := e.Attempt(context.Background(), "https://example.com/recipe", pageFrom(t, samplePage))
	if err != nil || r != nil {
		t.Fatalf("expected nil, nil for null verdict, got %v, %v", r, err)
	}
}

func TestAttempt_ModelFailureIsNotAnError(t *testing.T) {
	client := &fakeClient{err: errors.New("rate limited")}
	e := &Extractor{Client: client, Model: "test-model"}

	r, err := e.Attempt(context.Background(), "https://example.com/recipe", pageFrom(t, samplePage))
	if err != nil {
		t.Fatalf("model failure must not surface as an error, got %v", err)
	}
	if r != nil {
		t.Fatalf("expected nil recipe, got %+v", r)
	}
}

func TestAttempt_MissingRequiredFields(t *testing.T) {
	client := &fakeClient{reply: `{"title":"No Lists Here"}`}
	e := &Extractor{Client: client, Model: "test-model"}

	r, _ := e.Attempt(context.Background(), "https://example.com/recipe", pageFrom(t, samplePage))
	if r != nil {
		t.Fatalf("expected nil for incomplete payload, got %+v", r)
	}
}

func TestAttempt_DisabledWithoutClient(t *testing.T) {
	e := &Extractor{Model: "test-model"}
	r, err := e.Attempt(context.Background(), "https://example.com/recipe", pageFrom(t, samplePage))
	if err != nil || r != nil {
		t.Fatalf("expected nil, nil when client missing, got %v, %v", r, err)
	}
}

func TestAttempt_TruncatesContent(t *testing.T) {
	long := "<html><body><main>" + strings.Repeat("pepper ", 2000) + "</main></body></html>"
	client := &fakeClient{reply: "null"}
	e := &Extractor{Client: client, Model: "test-model", MaxContentLength: 100}

	_, _ = e.Attempt(context.Background(), "https://example.com/recipe", pageFrom(t, long))
	if client.calls != 1 {
		t.Fatalf("expected one call, got %d", client.calls)
	}
	// Prompt includes the instructions plus at most 100 chars of content.
	if len(client.lastPrompt) > 2000 {
		t.Errorf("content not truncated, prompt length %d", len(client.lastPrompt))
	}
}

func TestMainContent_PrefersMain(t *testing.T) {
	got := MainContent(pageFrom(t, samplePage))
	if !strings.Contains(got, "Garlic Butter Shrimp") {
		t.Errorf("missing main content: %q", got)
	}
	if strings.Contains(got, "Home | Recipes") {
		t.Errorf("nav not stripped: %q", got)
	}
}
