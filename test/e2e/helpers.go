//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cloo-solutions/backlogai/internal/api/handlers"
	"github.com/cloo-solutions/backlogai/internal/domain"
	"github.com/cloo-solutions/backlogai/internal/openai"
	"github.com/cloo-solutions/backlogai/internal/repository"
	"github.com/cloo-solutions/backlogai/internal/server"
	"github.com/cloo-solutions/backlogai/internal/service"
	"github.com/cloo-solutions/backlogai/internal/testutil"
	"github.com/jackc/pgx/v5/pgxpool"
)

const embeddingDim = 8192

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	Pool         *pgxpool.Pool
	ModelStub    *httptest.Server
	ServerURL    string
	ServerCloser func()
	HTTPClient   *http.Client
}

// SetupE2EEnv starts a pgvector container, a stubbed model API, and an
// in-process HTTP server wired like the serve command.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	modelStub := newModelStub()

	serverURL, serverCloser := startServer(t, pool, modelStub.URL)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		PostgresC:    pgC,
		Pool:         pool,
		ModelStub:    modelStub,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.ModelStub != nil {
		e.ModelStub.Close()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
}

// newModelStub fakes the OpenAI embeddings and chat completion
// endpoints. Embeddings are deterministic per input text so equal
// texts land on identical vectors.
func newModelStub() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/embeddings", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Input) == 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		type embeddingData struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
			Object    string    `json:"object"`
		}
		data := make([]embeddingData, len(req.Input))
		for i, text := range req.Input {
			data[i] = embeddingData{
				Embedding: stubEmbedding(text),
				Index:     i,
				Object:    "embedding",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"object": "list",
			"data":   data,
		})
	})

	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		// Echo the final user question so tests can assert on it
		question := req.Messages[len(req.Messages)-1].Content
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{
					"message": map[string]string{
						"role":    "assistant",
						"content": "stub answer to: " + question,
					},
				},
			},
		})
	})

	return httptest.NewServer(mux)
}

// stubEmbedding maps text onto a unit vector derived from its hash.
// Equal texts always produce the same vector, which is all retrieval
// ordering needs in these tests.
func stubEmbedding(text string) []float32 {
	v := make([]float32, embeddingDim)
	h := fnv.New32a()
	io.WriteString(h, strings.ToLower(strings.TrimSpace(text)))
	// Two active components so distinct texts are never exactly orthogonal
	primary := int(h.Sum32() % uint32(embeddingDim))
	v[primary] = 1.0
	v[(primary+1)%embeddingDim] = 0.5
	norm := float32(math.Sqrt(1.0 + 0.25))
	v[primary] /= norm
	v[(primary+1)%embeddingDim] /= norm
	return v
}

func startServer(t *testing.T, pool *pgxpool.Pool, modelURL string) (string, func()) {
	workItemRepo := repository.NewWorkItemRepository(pool)
	chatLogRepo := repository.NewChatLogRepository(pool)

	embeddingClient := openai.NewClientWithConfig(openai.Config{
		APIKey:              "test-key",
		BaseURL:             modelURL,
		EmbeddingDimensions: embeddingDim,
	})
	chatClient := openai.NewChatClientWithConfig(openai.ChatConfig{
		APIKey:  "test-key",
		BaseURL: modelURL,
	})

	backlogSvc := service.NewBacklogService(workItemRepo, embeddingClient)
	retriever := service.NewRetriever(embeddingClient, workItemRepo)
	chatSvc := service.NewChatServiceWithConfig(
		retriever,
		&chatModelAdapter{client: chatClient},
		chatLogRepo,
		service.ChatServiceConfig{},
	)

	router := server.NewRouter(server.RouterConfig{
		WorkItemHandler: handlers.NewWorkItemHandler(backlogSvc),
		ChatHandler:     handlers.NewChatHandler(chatSvc),
		ChatLogHandler:  handlers.NewChatLogHandler(chatLogRepo),
	})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	srv := &http.Server{Handler: router}
	go srv.Serve(listener)

	serverURL := "http://" + listener.Addr().String()
	closer := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}

	return serverURL, closer
}

type chatModelAdapter struct {
	client *openai.ChatClient
}

func (a *chatModelAdapter) Complete(ctx context.Context, turns []domain.ChatTurn) (string, error) {
	messages := make([]openai.Message, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, openai.Message{Role: string(turn.Role), Content: turn.Content})
	}
	return a.client.Complete(ctx, messages)
}

// APIResponse represents a standard API response
type APIResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error,omitempty"`
}

// Get performs a GET request
func (e *E2ETestEnv) Get(path string) (*APIResponse, int, error) {
	return e.doRequest("GET", path, nil)
}

// Post performs a POST request
func (e *E2ETestEnv) Post(path string, body interface{}) (*APIResponse, int, error) {
	return e.doRequest("POST", path, body)
}

// Put performs a PUT request
func (e *E2ETestEnv) Put(path string, body interface{}) (*APIResponse, int, error) {
	return e.doRequest("PUT", path, body)
}

func (e *E2ETestEnv) doRequest(method, path string, body interface{}) (*APIResponse, int, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, e.ServerURL+path, reqBody)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
	}

	return &apiResp, resp.StatusCode, nil
}
