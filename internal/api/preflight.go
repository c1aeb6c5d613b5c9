package api

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/ledongthuc/pdf"

	apierrors "github.com/ragchat/ragchat/internal/errors"
)

// MaxUploadSize mirrors the backend's request size limit
const MaxUploadSize = 16 * 1024 * 1024 // 16MB

// Document MIME types accepted by the backend
const (
	MIMEText = "text/plain"
	MIMEPDF  = "application/pdf"
	MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// supportedTypes maps a file extension to its MIME type and the prefix
// content sniffing must report for it (docx is a zip container).
var supportedTypes = map[string]struct {
	mime  string
	sniff string
}{
	".txt":  {mime: MIMEText, sniff: "text/plain"},
	".pdf":  {mime: MIMEPDF, sniff: "application/pdf"},
	".docx": {mime: MIMEDocx, sniff: "application/zip"},
}

// SupportedExtensions returns the accepted document extensions
func SupportedExtensions() []string {
	return []string{".txt", ".pdf", ".docx"}
}

// UploadCandidate is a local file that passed preflight
type UploadCandidate struct {
	Path     string
	FileName string
	MIMEType string
	Size     int64
}

// ExpandPath resolves a leading ~ to the user's home directory
func ExpandPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// Preflight checks a file against the backend's upload rules before any
// bytes go over the wire. Failures are *errors.UploadError.
func Preflight(filePath string) (*UploadCandidate, error) {
	filePath = ExpandPath(filePath)
	if filePath == "" {
		return nil, apierrors.ErrNoFile
	}
	fileName := filepath.Base(filePath)

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, apierrors.NewUploadError(fileName, 0, fmt.Sprintf("cannot read file: %v", err))
	}
	if info.IsDir() {
		return nil, apierrors.NewUploadError(fileName, 0, "path is a directory")
	}
	if info.Size() == 0 {
		return nil, apierrors.NewUploadError(fileName, 0, "file is empty")
	}
	if info.Size() > MaxUploadSize {
		return nil, apierrors.NewUploadError(fileName, 0, "File too large")
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	kind, ok := supportedTypes[ext]
	if !ok {
		return nil, apierrors.NewUploadError(fileName, 0,
			fmt.Sprintf("Unsupported file type: %s (allowed: %s)", ext, strings.Join(SupportedExtensions(), ", ")))
	}

	sniffed, err := sniff(filePath)
	if err != nil {
		return nil, apierrors.NewUploadError(fileName, 0, fmt.Sprintf("cannot read file: %v", err))
	}
	if !strings.HasPrefix(sniffed, kind.sniff) {
		return nil, apierrors.NewUploadError(fileName, 0, fmt.Sprintf("Unsupported file type: %s", sniffed))
	}

	if kind.mime == MIMEPDF {
		if err := checkPDF(filePath); err != nil {
			return nil, apierrors.NewUploadError(fileName, 0, err.Error())
		}
	}

	return &UploadCandidate{
		Path:     filePath,
		FileName: fileName,
		MIMEType: kind.mime,
		Size:     info.Size(),
	}, nil
}

func sniff(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}

// checkPDF opens the document and requires at least one page. The pdf
// reader panics on some malformed inputs.
func checkPDF(filePath string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid PDF: %v", r)
		}
	}()

	f, reader, err := pdf.Open(filePath)
	if err != nil {
		return fmt.Errorf("invalid PDF: %w", err)
	}
	defer f.Close()

	if reader.NumPage() == 0 {
		return fmt.Errorf("invalid PDF: no pages")
	}
	return nil
}
