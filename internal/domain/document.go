package domain

import (
	"time"

	"gorm.io/datatypes"
)

// SourceKind tells where a document came from
type SourceKind string

const (
	SourceUpload SourceKind = "upload"
	SourceURL    SourceKind = "url"
)

// DocumentMetadata is derived from the extracted text
type DocumentMetadata struct {
	WordCount     int    `json:"wordCount"`
	SentenceCount int    `json:"sentenceCount"`
	PageCount     int    `json:"pageCount"`
	Language      string `json:"language"`
	DocumentType  string `json:"documentType"`
}

// Document is an extracted PDF. It is immutable once stored.
type Document struct {
	ID          string                               `gorm:"size:36;primaryKey" json:"id"`
	Title       string                               `gorm:"type:text;not null;default:''" json:"title"`
	SourceKind  SourceKind                           `gorm:"size:16;not null;index" json:"sourceKind"`
	SourceURL   string                               `gorm:"type:text;not null;default:''" json:"sourceUrl,omitempty"`
	Text        string                               `gorm:"type:text;not null" json:"text,omitempty"`
	ByteSize    int64                                `gorm:"not null;default:0" json:"byteSize"`
	Metadata    datatypes.JSONType[DocumentMetadata] `json:"metadata"`
	ExtractedAt time.Time                            `gorm:"not null;index" json:"extractedAt"`
}

func (Document) TableName() string { return "documents" }

// Meta returns the decoded metadata
func (d *Document) Meta() DocumentMetadata { return d.Metadata.Data() }
