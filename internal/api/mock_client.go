package api

import (
	"context"
	"sync"

	"github.com/ragchat/ragchat/internal/models"
)

// MockClient is a mock implementation of ClientInterface for testing
type MockClient struct {
	mu sync.Mutex

	// Mock return values
	URL            string
	Messages       []models.Message
	MessagesErr    error
	SessionInfo    *models.Session
	SessionInfoErr error
	Current        *models.Session
	CurrentErr     error
	Models         []models.LLMModel
	ModelsErr      error
	SwitchVal      *models.SwitchResult
	SwitchErr      error
	ChatVal        *models.ChatReply
	ChatErr        error
	UploadVal      *models.UploadResult
	UploadErr      error
	Documents      []models.Document
	DocumentsErr   error
	DeleteErr      error
	Stats          *models.RAGStats
	StatsErr       error

	// Call counters/recorders
	Calls        map[string]int
	LastMessage  string
	LastModel    string
	LastUpload   string
	LastDeleteID int
	LastSession  int
	CloseCalled  bool
}

// Ensure MockClient implements ClientInterface
var _ ClientInterface = (*MockClient)(nil)

func (m *MockClient) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[name]++
}

// CallCount returns how many times the named method ran
func (m *MockClient) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[name]
}

// TotalCalls returns the number of network-backed calls made
func (m *MockClient) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.Calls {
		total += n
	}
	return total
}

func (m *MockClient) GetMessages(ctx context.Context, sessionID int) ([]models.Message, error) {
	m.record("GetMessages")
	m.mu.Lock()
	m.LastSession = sessionID
	m.mu.Unlock()
	return m.Messages, m.MessagesErr
}

func (m *MockClient) GetSessionInfo(ctx context.Context, sessionID int) (*models.Session, error) {
	m.record("GetSessionInfo")
	return m.SessionInfo, m.SessionInfoErr
}

func (m *MockClient) CurrentSession(ctx context.Context) (*models.Session, error) {
	m.record("CurrentSession")
	return m.Current, m.CurrentErr
}

func (m *MockClient) ListModels(ctx context.Context) ([]models.LLMModel, error) {
	m.record("ListModels")
	return m.Models, m.ModelsErr
}

func (m *MockClient) SwitchModel(ctx context.Context, modelName string, sessionID int) (*models.SwitchResult, error) {
	m.record("SwitchModel")
	m.mu.Lock()
	m.LastModel = modelName
	m.LastSession = sessionID
	m.mu.Unlock()
	return m.SwitchVal, m.SwitchErr
}

func (m *MockClient) SendChat(ctx context.Context, message string, sessionID int) (*models.ChatReply, error) {
	m.record("SendChat")
	m.mu.Lock()
	m.LastMessage = message
	m.LastSession = sessionID
	m.mu.Unlock()
	return m.ChatVal, m.ChatErr
}

func (m *MockClient) UploadDocument(ctx context.Context, filePath string) (*models.UploadResult, error) {
	m.record("UploadDocument")
	m.mu.Lock()
	m.LastUpload = filePath
	m.mu.Unlock()
	return m.UploadVal, m.UploadErr
}

func (m *MockClient) ListDocuments(ctx context.Context) ([]models.Document, error) {
	m.record("ListDocuments")
	return m.Documents, m.DocumentsErr
}

func (m *MockClient) DeleteDocument(ctx context.Context, docID int) error {
	m.record("DeleteDocument")
	m.mu.Lock()
	m.LastDeleteID = docID
	m.mu.Unlock()
	return m.DeleteErr
}

func (m *MockClient) RAGStats(ctx context.Context) (*models.RAGStats, error) {
	m.record("RAGStats")
	return m.Stats, m.StatsErr
}

func (m *MockClient) BaseURL() string {
	if m.URL == "" {
		return models.DefaultServerURL
	}
	return m.URL
}

func (m *MockClient) Close() {
	m.CloseCalled = true
}
