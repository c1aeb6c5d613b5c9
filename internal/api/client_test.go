package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/bogdanfinn/tls-client/bandwidth"

	apierrors "github.com/ragchat/ragchat/internal/errors"
	"github.com/ragchat/ragchat/internal/models"
)

// mockHTTPClient implements tls_client.HttpClient for testing
type mockHTTPClient struct {
	doFunc   func(req *http.Request) (*http.Response, error)
	requests []*http.Request
}

func (m *mockHTTPClient) GetCookies(u *url.URL) []*http.Cookie          { return nil }
func (m *mockHTTPClient) SetCookies(u *url.URL, cookies []*http.Cookie) {}
func (m *mockHTTPClient) SetCookieJar(jar http.CookieJar)               {}
func (m *mockHTTPClient) GetCookieJar() http.CookieJar                  { return nil }
func (m *mockHTTPClient) SetProxy(proxyUrl string) error                { return nil }
func (m *mockHTTPClient) GetProxy() string                              { return "" }
func (m *mockHTTPClient) SetFollowRedirect(followRedirect bool)         {}
func (m *mockHTTPClient) GetFollowRedirect() bool                       { return false }
func (m *mockHTTPClient) CloseIdleConnections()                         {}
func (m *mockHTTPClient) Get(url string) (*http.Response, error)        { return nil, nil }
func (m *mockHTTPClient) Head(url string) (*http.Response, error)       { return nil, nil }
func (m *mockHTTPClient) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	return nil, nil
}
func (m *mockHTTPClient) GetBandwidthTracker() bandwidth.BandwidthTracker { return nil }

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.requests = append(m.requests, req)
	if m.doFunc != nil {
		return m.doFunc(req)
	}
	return nil, nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func newTestClient(t *testing.T, doFunc func(req *http.Request) (*http.Response, error)) (*Client, *mockHTTPClient) {
	t.Helper()
	mock := &mockHTTPClient{doFunc: doFunc}
	client, err := NewClient(
		WithBaseURL("http://backend.test/"),
		WithHTTPClient(mock),
		WithVersion("1.2.3"),
		WithTimeout(5*time.Second),
	)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return client, mock
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(WithHTTPClient(&mockHTTPClient{}))
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	if client.BaseURL() != models.DefaultServerURL {
		t.Errorf("BaseURL() = %s, want %s", client.BaseURL(), models.DefaultServerURL)
	}
	if client.timeout != 120*time.Second {
		t.Errorf("timeout = %v, want 120s", client.timeout)
	}

	trimmed, _ := NewClient(WithBaseURL("http://x:1///"), WithHTTPClient(&mockHTTPClient{}))
	if trimmed.BaseURL() != "http://x:1" {
		t.Errorf("BaseURL() = %s, want trailing slashes trimmed", trimmed.BaseURL())
	}

	if _, err := NewClient(WithBaseURL(""), WithHTTPClient(&mockHTTPClient{})); err == nil {
		t.Error("NewClient() with empty URL should fail")
	}
}

func TestClientClose(t *testing.T) {
	client, mock := newTestClient(t, nil)
	client.Close()
	client.Close()

	if !client.IsClosed() {
		t.Error("IsClosed() should be true after Close()")
	}
	if _, err := client.ListModels(context.Background()); err == nil || !strings.Contains(err.Error(), "client is closed") {
		t.Errorf("Expected 'client is closed' error, got %v", err)
	}
	if len(mock.requests) != 0 {
		t.Errorf("closed client made %d requests", len(mock.requests))
	}
}

func TestRequestHeaders(t *testing.T) {
	client, mock := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `[]`), nil
	})

	if _, err := client.ListModels(context.Background()); err != nil {
		t.Fatalf("ListModels() error: %v", err)
	}
	if _, err := client.ListModels(context.Background()); err != nil {
		t.Fatalf("ListModels() error: %v", err)
	}

	first := mock.requests[0]
	if first.URL.String() != "http://backend.test/api/models" {
		t.Errorf("URL = %s", first.URL.String())
	}
	if got := first.Header.Get("Accept"); got != "application/json" {
		t.Errorf("Accept = %q", got)
	}
	if got := first.Header.Get("User-Agent"); got != "ragchat/1.2.3" {
		t.Errorf("User-Agent = %q", got)
	}
	id1 := first.Header.Get("X-Request-ID")
	id2 := mock.requests[1].Header.Get("X-Request-ID")
	if len(id1) != 36 || id1 == id2 {
		t.Errorf("X-Request-ID should be a fresh uuid per request, got %q and %q", id1, id2)
	}
}

func TestGetMessages(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		err        error
		wantCount  int
		wantStatus int
		wantNet    bool
		wantParse  bool
	}{
		{
			name:   "success",
			status: 200,
			body: `[{"id":1,"content":"hi","is_user":true,"used_rag":false,"model_used":null,"timestamp":"2024-05-01T10:00:00"},
			        {"id":2,"content":"hello","is_user":false,"used_rag":true,"model_used":"local_llm","timestamp":"2024-05-01T10:00:05.123456"}]`,
			wantCount: 2,
		},
		{name: "empty", status: 200, body: `[]`},
		{name: "not found", status: 404, body: `{"error":"Session not found"}`, wantStatus: 404},
		{name: "server error html", status: 500, body: `<html>oops</html>`, wantStatus: 500},
		{name: "network", err: errors.New("connection refused"), wantNet: true},
		{name: "garbage", status: 200, body: `not json`, wantParse: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock := newTestClient(t, func(req *http.Request) (*http.Response, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return jsonResponse(tt.status, tt.body), nil
			})

			msgs, err := client.GetMessages(context.Background(), 7)
			if got := mock.requests[0].URL.Path; got != "/api/session/7/messages" {
				t.Errorf("path = %s", got)
			}

			switch {
			case tt.wantStatus != 0:
				if apierrors.GetHTTPStatus(err) != tt.wantStatus {
					t.Errorf("status = %d, want %d (err %v)", apierrors.GetHTTPStatus(err), tt.wantStatus, err)
				}
			case tt.wantNet:
				if !apierrors.IsNetworkError(err) {
					t.Errorf("expected network error, got %v", err)
				}
			case tt.wantParse:
				if !errors.Is(err, apierrors.ErrInvalidResponse) {
					t.Errorf("expected parse error, got %v", err)
				}
			default:
				if err != nil {
					t.Fatalf("GetMessages() error: %v", err)
				}
				if len(msgs) != tt.wantCount {
					t.Fatalf("len = %d, want %d", len(msgs), tt.wantCount)
				}
			}
		})
	}
}

func TestGetMessages_Fields(t *testing.T) {
	client, _ := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `[{"id":2,"content":"hello","is_user":false,"used_rag":true,"model_used":"yandex_gpt","timestamp":"2024-05-01T10:00:05"}]`), nil
	})

	msgs, err := client.GetMessages(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetMessages() error: %v", err)
	}
	m := msgs[0]
	if m.IsUser || !m.UsedRAG || m.ModelUsed != models.ModelYandexGPT || m.Content != "hello" {
		t.Errorf("unexpected message %+v", m)
	}
	if m.Timestamp.IsZero() || m.Timestamp.UTC().Hour() != 10 {
		t.Errorf("timestamp not decoded as UTC: %v", m.Timestamp)
	}
}

func TestSessionEndpoints(t *testing.T) {
	client, mock := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"id":3,"title":"Research","model_used":"local_llm","created_at":"2024-05-01T09:00:00"}`), nil
	})

	info, err := client.GetSessionInfo(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetSessionInfo() error: %v", err)
	}
	if info.ID != 3 || info.ModelUsed != models.ModelLocalLLM || info.Title != "Research" {
		t.Errorf("GetSessionInfo() = %+v", info)
	}

	current, err := client.CurrentSession(context.Background())
	if err != nil {
		t.Fatalf("CurrentSession() error: %v", err)
	}
	if current.ID != 3 {
		t.Errorf("CurrentSession().ID = %d", current.ID)
	}

	if mock.requests[0].URL.Path != "/api/session/3/info" || mock.requests[1].URL.Path != "/api/current-session" {
		t.Errorf("paths = %s, %s", mock.requests[0].URL.Path, mock.requests[1].URL.Path)
	}
}

func TestListModels(t *testing.T) {
	client, _ := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `[{"name":"yandex_gpt","display_name":"YandexGPT","available":true},
		                          {"name":"local_llm","display_name":"","available":false,"reason":"Ollama is not running"}]`), nil
	})

	list, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels() error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].Label() != "YandexGPT" || list[1].Label() != "local_llm" {
		t.Errorf("labels = %q, %q", list[0].Label(), list[1].Label())
	}
	if list[1].Available || list[1].Reason != "Ollama is not running" {
		t.Errorf("unexpected %+v", list[1])
	}
}

func TestSwitchModel(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
		wantApp bool
		wantAPI bool
	}{
		{name: "success", status: 200, body: `{"success":true,"message":"switched","session_id":4}`},
		{name: "rejected", status: 200, body: `{"success":false,"error":"Model unavailable"}`, wantErr: true, wantApp: true},
		{name: "bad request", status: 400, body: `{"error":"Unknown model"}`, wantErr: true, wantAPI: true},
		{name: "not found", status: 404, body: `{"error":"Session not found"}`, wantErr: true, wantAPI: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sent models.SwitchModelRequest
			client, mock := newTestClient(t, func(req *http.Request) (*http.Response, error) {
				_ = json.NewDecoder(req.Body).Decode(&sent)
				return jsonResponse(tt.status, tt.body), nil
			})

			result, err := client.SwitchModel(context.Background(), "local_llm", 4)
			if sent.ModelName != "local_llm" || sent.SessionID != 4 {
				t.Errorf("request body = %+v", sent)
			}
			if mock.requests[0].Method != http.MethodPost {
				t.Errorf("method = %s", mock.requests[0].Method)
			}
			if got := mock.requests[0].Header.Get("Content-Type"); got != "application/json" {
				t.Errorf("Content-Type = %q", got)
			}

			if (err != nil) != tt.wantErr {
				t.Fatalf("SwitchModel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantApp && !apierrors.IsApplicationError(err) {
				t.Errorf("expected application error, got %v", err)
			}
			if tt.wantAPI && !apierrors.IsAPIError(err) {
				t.Errorf("expected API error, got %v", err)
			}
			if !tt.wantErr && !result.Success {
				t.Error("expected success")
			}
		})
	}
}

func TestSendChat(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		netErr    error
		wantReply string
		wantError string
		wantRAG   bool
		wantErr   bool
	}{
		{name: "reply", status: 200, body: `{"response":"Answer","used_rag":true,"model_used":"yandex_gpt"}`, wantReply: "Answer", wantRAG: true},
		{name: "backend error field", status: 500, body: `{"error":"LLM timeout"}`, wantError: "LLM timeout"},
		{name: "error field with 200", status: 200, body: `{"error":"Session not found"}`, wantError: "Session not found"},
		{name: "html error page", status: 502, body: `<html>Bad gateway</html>`, wantErr: true},
		{name: "network", netErr: errors.New("EOF"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sent models.ChatRequest
			client, _ := newTestClient(t, func(req *http.Request) (*http.Response, error) {
				_ = json.NewDecoder(req.Body).Decode(&sent)
				if tt.netErr != nil {
					return nil, tt.netErr
				}
				return jsonResponse(tt.status, tt.body), nil
			})

			reply, err := client.SendChat(context.Background(), "What is RAG?", 9)
			if sent.Message != "What is RAG?" || sent.SessionID != 9 {
				t.Errorf("request body = %+v", sent)
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("SendChat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if reply.Response != tt.wantReply || reply.Error != tt.wantError || reply.UsedRAG != tt.wantRAG {
				t.Errorf("SendChat() = %+v", reply)
			}
			if reply.Failed() != (tt.wantError != "") {
				t.Errorf("Failed() = %v", reply.Failed())
			}
		})
	}
}

func TestRAGStats(t *testing.T) {
	client, mock := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"total_documents":3,"processed_documents":2,
			"faiss_index_path":"/srv/rag/faiss_index","embedding_model":"all-MiniLM-L6-v2"}`), nil
	})

	stats, err := client.RAGStats(context.Background())
	if err != nil {
		t.Fatalf("RAGStats() error: %v", err)
	}
	if mock.requests[0].URL.Path != "/api/stats" {
		t.Errorf("path = %s", mock.requests[0].URL.Path)
	}
	want := models.RAGStats{TotalDocuments: 3, ProcessedDocuments: 2, IndexPath: "/srv/rag/faiss_index", EmbeddingModel: "all-MiniLM-L6-v2"}
	if *stats != want {
		t.Errorf("RAGStats() = %+v, want %+v", *stats, want)
	}

	failing, _ := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(500, `{"error":"index missing"}`), nil
	})
	if _, err := failing.RAGStats(context.Background()); apierrors.GetHTTPStatus(err) != 500 {
		t.Errorf("RAGStats() error = %v, want HTTP 500", err)
	}
}

func TestListAndDeleteDocuments(t *testing.T) {
	client, mock := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.Method == http.MethodDelete {
			if req.URL.Path == "/api/documents/404" {
				return jsonResponse(404, `{"error":"Document not found"}`), nil
			}
			return jsonResponse(200, `{"success":true}`), nil
		}
		return jsonResponse(200, `[{"id":5,"filename":"a.pdf","file_size":2048,"uploaded_at":"2024-05-01T08:00:00","processed":true}]`), nil
	})

	docs, err := client.ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("ListDocuments() error: %v", err)
	}
	if len(docs) != 1 || docs[0].SizeLabel() != "2.0 KB" || !docs[0].Processed {
		t.Errorf("ListDocuments() = %+v", docs)
	}

	if err := client.DeleteDocument(context.Background(), 5); err != nil {
		t.Errorf("DeleteDocument(5) error: %v", err)
	}
	if mock.requests[1].URL.Path != "/api/documents/5" || mock.requests[1].Method != http.MethodDelete {
		t.Errorf("delete request = %s %s", mock.requests[1].Method, mock.requests[1].URL.Path)
	}

	err = client.DeleteDocument(context.Background(), 404)
	if !apierrors.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestUploadDocument(t *testing.T) {
	path := writeFile(t, "notes.txt", []byte("retrieval augmented generation\n"))

	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "accepted", status: 202, body: `{"doc_id":11,"filename":"notes.txt","status":"uploaded, processing started"}`},
		{name: "too large", status: 413, body: `{"error":"File too large"}`, wantMsg: "File too large"},
		{name: "no error field", status: 500, body: `Internal Server Error`, wantMsg: "Unknown error"},
		{name: "200 is not 202", status: 200, body: `{}`, wantMsg: "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body string
			client, mock := newTestClient(t, func(req *http.Request) (*http.Response, error) {
				data, _ := io.ReadAll(req.Body)
				body = string(data)
				return jsonResponse(tt.status, tt.body), nil
			})

			result, err := client.UploadDocument(context.Background(), path)

			ct := mock.requests[0].Header.Get("Content-Type")
			if !strings.HasPrefix(ct, "multipart/form-data; boundary=") {
				t.Errorf("Content-Type = %q", ct)
			}
			if !strings.Contains(body, `name="file"; filename="notes.txt"`) || !strings.Contains(body, "retrieval augmented generation") {
				t.Errorf("multipart body missing file part: %q", body)
			}

			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("UploadDocument() error: %v", err)
				}
				if result.Filename != "notes.txt" || result.DocID != 11 {
					t.Errorf("UploadDocument() = %+v", result)
				}
				return
			}
			if !apierrors.IsUploadError(err) {
				t.Fatalf("expected upload error, got %v", err)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestUploadDocument_PreflightSkipsNetwork(t *testing.T) {
	client, mock := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(202, `{}`), nil
	})

	path := writeFile(t, "image.png", []byte("\x89PNG\r\n\x1a\n"))
	if _, err := client.UploadDocument(context.Background(), path); !apierrors.IsUploadError(err) {
		t.Errorf("expected upload error, got %v", err)
	}
	if len(mock.requests) != 0 {
		t.Errorf("preflight failure made %d requests", len(mock.requests))
	}
}

func TestPreflight(t *testing.T) {
	big := make([]byte, MaxUploadSize+1)
	for i := range big {
		big[i] = 'a'
	}

	tests := []struct {
		name     string
		file     string
		data     []byte
		wantMIME string
		wantErr  string
	}{
		{name: "text", file: "a.txt", data: []byte("plain text"), wantMIME: MIMEText},
		{name: "uppercase ext", file: "A.TXT", data: []byte("plain text"), wantMIME: MIMEText},
		{name: "docx container", file: "b.docx", data: append([]byte("PK\x03\x04"), make([]byte, 60)...), wantMIME: MIMEDocx},
		{name: "unsupported ext", file: "c.csv", data: []byte("a,b"), wantErr: "Unsupported file type"},
		{name: "binary named txt", file: "d.txt", data: []byte("\x89PNG\r\n\x1a\n\x00\x00"), wantErr: "Unsupported file type"},
		{name: "broken pdf", file: "e.pdf", data: []byte("%PDF-1.4\nnot really a pdf\n"), wantErr: "invalid PDF"},
		{name: "empty", file: "f.txt", data: []byte{}, wantErr: "file is empty"},
		{name: "too large", file: "g.txt", data: big, wantErr: "File too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.data)
			candidate, err := Preflight(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Preflight() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Preflight() error: %v", err)
			}
			if candidate.MIMEType != tt.wantMIME || candidate.FileName != tt.file {
				t.Errorf("Preflight() = %+v", candidate)
			}
		})
	}

	if _, err := Preflight("   "); !errors.Is(err, apierrors.ErrNoFile) {
		t.Errorf("Preflight(blank) = %v, want ErrNoFile", err)
	}
	if _, err := Preflight(filepath.Join(t.TempDir(), "missing.txt")); !apierrors.IsUploadError(err) {
		t.Errorf("Preflight(missing) = %v, want upload error", err)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := ExpandPath("~/docs/a.pdf"); got != filepath.Join(home, "docs", "a.pdf") {
		t.Errorf("ExpandPath() = %s", got)
	}
	if got := ExpandPath(" /tmp/a.txt "); got != "/tmp/a.txt" {
		t.Errorf("ExpandPath() = %s", got)
	}
}
