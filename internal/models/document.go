package models

import "strings"

type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
	FileTypeTXT  FileType = "txt"
)

// SupportedFileTypes lists the accepted upload formats in display order.
var SupportedFileTypes = []FileType{FileTypePDF, FileTypeDOCX, FileTypeTXT}

// ParseFileType resolves an extension such as "PDF" or ".docx".
func ParseFileType(ext string) (FileType, bool) {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	for _, ft := range SupportedFileTypes {
		if string(ft) == ext {
			return ft, true
		}
	}
	return "", false
}

// UploadedDocument is the raw upload handed to the extractor. It is not stored
// anywhere and is dropped once its text has been produced.
type UploadedDocument struct {
	Filename  string
	Extension string
	Data      []byte
}

// NewUploadedDocument derives the declared extension from the filename: the
// text after the last dot, or the whole name when it has no dot at all.
func NewUploadedDocument(filename string, data []byte) UploadedDocument {
	ext := filename
	if i := strings.LastIndexByte(filename, '.'); i >= 0 {
		ext = filename[i+1:]
	}
	return UploadedDocument{
		Filename:  filename,
		Extension: strings.ToLower(ext),
		Data:      data,
	}
}
