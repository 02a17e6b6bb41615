package openai_provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"taqrir/models"
)

const (
	completionsURL = "https://api.openai.com/v1/chat/completions"
	embeddingsURL  = "https://api.openai.com/v1/embeddings"
)

// client implements the provider interface using OpenAI's API
type client struct {
	apiKey          string
	completionModel string
	embeddingModel  string
	temperature     float64
	maxTokens       int
	httpClient      *http.Client
}

// Message represents a message in a conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// request represents a request to the OpenAI API
type request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// response represents a response from the OpenAI API
type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(apiKey, completionModel, embeddingModel string, temperature float64, maxTokens int, timeout time.Duration) *client {
	return &client{
		apiKey:          apiKey,
		completionModel: completionModel,
		embeddingModel:  embeddingModel,
		temperature:     temperature,
		maxTokens:       maxTokens,
		httpClient:      &http.Client{Timeout: timeout},
	}
}

func (c *client) complete(ctx context.Context, system, user string) (string, error) {
	messages := []Message{}
	if system != "" {
		messages = append(messages, Message{Role: "system", Content: system})
	}
	messages = append(messages, Message{Role: "user", Content: user})

	body, err := json.Marshal(request{
		Model:       c.completionModel,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", completionsURL, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status: %d", resp.StatusCode)
	}

	var parsed response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// Translate renders a news search query into English, returning only the text.
func (c *client) Translate(ctx context.Context, query string) (string, error) {
	prompt := fmt.Sprintf("Translate this news search query to English, return only the translated text:\n%s", query)
	return c.complete(ctx, "", prompt)
}

// ExpandQuery produces OR-joined bilingual alternative phrasings of the query.
func (c *client) ExpandQuery(ctx context.Context, query string) (string, error) {
	system := "أنت خبير تحسين استعلامات البحث الإخباري."
	prompt := fmt.Sprintf(
		"ولّد 4 صيغ بديلة للاستعلام التالي بالعربية والإنجليزية؛ ضع كل صيغة بين علامتي تنصيص وافصلها بـ OR. أعد السطر فقط دون أي شرح.\nالاستعلام: %q", query)
	out, err := c.complete(ctx, system, prompt)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(out, "\n", " "), nil
}

// SimplifyQuery reduces the query to OR-joined core keywords.
func (c *client) SimplifyQuery(ctx context.Context, query string) (string, error) {
	prompt := fmt.Sprintf(
		"Simplify this news query to its core keywords in Arabic and English. Separate keywords with OR. No quotes or extra text.\nOriginal: %q", query)
	out, err := c.complete(ctx, "", prompt)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(out, "\n", " "), nil
}

// ExtractFacts pulls short attributed facts out of one article's content.
func (c *client) ExtractFacts(ctx context.Context, article models.Article) ([]models.Fact, error) {
	if article.Content == "" || article.URL == "" {
		return nil, nil
	}
	system := "أنت محلل أخبار. استخرج الحقائق الأساسية فقط، حقيقة واحدة في كل سطر، دون ترقيم أو تعليق."
	prompt := fmt.Sprintf("استخرج الحقائق الأساسية من النص التالي:\n\n%s", article.Content)
	out, err := c.complete(ctx, system, prompt)
	if err != nil {
		return nil, err
	}
	var facts []models.Fact
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		facts = append(facts, models.Fact{Text: line, SourceURL: article.URL})
	}
	return facts, nil
}

// WriteSection writes one topic section, citing facts by reference number.
func (c *client) WriteSection(ctx context.Context, title string, facts []models.Fact, refs map[string]int) (string, error) {
	var b strings.Builder
	for _, fact := range facts {
		num, ok := refs[fact.SourceURL]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "[%d] %s\n", num, fact.Text)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no citable facts for section %q", title)
	}
	system := "أنت كاتب تقارير صحفية محترف. اكتب بالعربية الفصحى واستشهد بأرقام المراجع بين قوسين معقوفين كما وردت."
	prompt := fmt.Sprintf("اكتب فقرة متماسكة لمحور بعنوان %q اعتمادًا على الحقائق المرقّمة التالية، مع الإبقاء على أرقام الاستشهاد:\n\n%s", title, b.String())
	return c.complete(ctx, system, prompt)
}

// AssembleReport stitches the written sections into a final report body.
func (c *client) AssembleReport(ctx context.Context, query string, sections []models.Section) (string, error) {
	var b strings.Builder
	for _, section := range sections {
		fmt.Fprintf(&b, "### %s\n%s\n\n", section.Title, section.Content)
	}
	system := "أنت محرر تقارير. أعد صياغة المحاور في تقرير واحد متسلسل مع ملخص تنفيذي وخاتمة، دون حذف أرقام الاستشهاد."
	prompt := fmt.Sprintf("الموضوع: %q\n\nالمحاور المكتوبة:\n\n%s", query, b.String())
	return c.complete(ctx, system, prompt)
}

// CreateEmbedding generates an embedding for the given texts using OpenAI's API
func (c *client) CreateEmbedding(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	requestBody := map[string]interface{}{
		"model": c.embeddingModel,
		"input": texts,
	}
	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", embeddingsURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status: %d", resp.StatusCode)
	}

	var openaiResp struct {
		Data []struct {
			Object    string    `json:"object"`
			Embedding []float64 `json:"embedding"`
			Index     int       `json:"index"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&openaiResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	vecs := make([][]float64, len(openaiResp.Data))
	for i, d := range openaiResp.Data {
		vecs[i] = d.Embedding
	}
	return vecs, nil
}
