package models

// RAGLevel classifies retrieval availability
type RAGLevel int

const (
	RAGNoDocuments RAGLevel = iota
	RAGAvailable
	RAGError
)

// RAGStatus summarizes whether retrieval can be used for answers
type RAGStatus struct {
	Level     RAGLevel
	Processed int
	Total     int
}

// Text returns the status line shown to the user
func (s RAGStatus) Text() string {
	switch s.Level {
	case RAGAvailable:
		return "available"
	case RAGError:
		return "error"
	default:
		return "unavailable, no documents"
	}
}

// RAGStatusFromDocuments counts processed documents. Retrieval is
// available as soon as one document finished processing.
func RAGStatusFromDocuments(docs []Document) RAGStatus {
	status := RAGStatus{Total: len(docs)}
	for _, d := range docs {
		if d.Processed {
			status.Processed++
		}
	}
	if status.Processed > 0 {
		status.Level = RAGAvailable
	}
	return status
}

// RAGStatusError is the status shown when the document list could not be fetched
func RAGStatusError() RAGStatus {
	return RAGStatus{Level: RAGError}
}

// RAGStats is the backend's retrieval summary from /api/stats
type RAGStats struct {
	TotalDocuments     int    `json:"total_documents"`
	ProcessedDocuments int    `json:"processed_documents"`
	IndexPath          string `json:"faiss_index_path"`
	EmbeddingModel     string `json:"embedding_model"`
}

// Status derives the availability level from the counts
func (s RAGStats) Status() RAGStatus {
	status := RAGStatus{Processed: s.ProcessedDocuments, Total: s.TotalDocuments}
	if status.Processed > 0 {
		status.Level = RAGAvailable
	}
	return status
}
