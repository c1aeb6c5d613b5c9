package models

import "fmt"

// Document is an uploaded RAG source as listed by the backend
type Document struct {
	ID         int       `json:"id"`
	Filename   string    `json:"filename"`
	FileSize   int64     `json:"file_size"`
	UploadedAt Timestamp `json:"uploaded_at"`
	Processed  bool      `json:"processed"`
}

// SizeLabel formats the size in kilobytes with one decimal place
func (d Document) SizeLabel() string {
	return FormatSize(d.FileSize)
}

// StatusLabel returns the processing badge text
func (d Document) StatusLabel() string {
	if d.Processed {
		return "Processed"
	}
	return "Processing"
}

// FormatSize formats a byte count as "<n>.<d> KB"
func FormatSize(bytes int64) string {
	return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
}
