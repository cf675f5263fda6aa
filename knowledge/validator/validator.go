//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

// Package validator checks user input before it enters the ingestion pipeline.
// All functions are pure.
package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxFileSize is the largest accepted upload, in bytes.
	MaxFileSize int64 = 10 << 20

	// APIKeyPrefix is the prefix every OpenAI style key carries.
	APIKeyPrefix = "sk-"
	// MinAPIKeyLength is the minimum key length in characters.
	MinAPIKeyLength = 40

	// MinQueryLength is the minimum trimmed query length in characters.
	MinQueryLength = 3
	// MaxQueryLength is the maximum raw query length in characters.
	MaxQueryLength = 1000
)

// Result messages.
const (
	MsgNoFiles         = "No files uploaded"
	MsgFilesValid      = "Files validated successfully"
	MsgQueryEmpty      = "Query cannot be empty"
	MsgQueryTooShort   = "Query too short (minimum 3 characters)"
	MsgQueryTooLong    = "Query is too long (maximum 1000 characters)"
	MsgQueryValid      = "Query validated successfully"
	msgUnsupportedFile = "Unsupported file type: %s"
	msgFileTooLarge    = "File too large: %s (max 10MB)"
)

// SupportedExtensions is the upload allow-list.
var SupportedExtensions = map[string]struct{}{
	".pdf":  {},
	".txt":  {},
	".docx": {},
	".md":   {},
}

// File is an uploaded file handle.
type File interface {
	Name() string
}

// Sized is implemented by files that declare their size. A negative size
// means unknown and is not checked.
type Sized interface {
	Size() int64
}

// ValidateAPIKey reports whether key looks like an OpenAI API key.
func ValidateAPIKey(key string) bool {
	return strings.HasPrefix(key, APIKeyPrefix) && utf8.RuneCountInString(key) >= MinAPIKeyLength
}

// ValidateFiles checks files in order and reports the first failure.
func ValidateFiles[F File](files []F) (bool, string) {
	if len(files) == 0 {
		return false, MsgNoFiles
	}
	for _, f := range files {
		name := f.Name()
		if _, ok := SupportedExtensions[Extension(name)]; !ok {
			return false, fmt.Sprintf(msgUnsupportedFile, name)
		}
		if sized, ok := any(f).(Sized); ok && sized.Size() > MaxFileSize {
			return false, fmt.Sprintf(msgFileTooLarge, name)
		}
	}
	return true, MsgFilesValid
}

// Extension returns the lower-cased text after the last dot of name with a
// leading dot. A name without a dot yields the whole name.
func Extension(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return "." + strings.ToLower(name)
}

// ValidateQuery checks a user query for emptiness and length.
func ValidateQuery(query string) (bool, string) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return false, MsgQueryEmpty
	}
	if utf8.RuneCountInString(trimmed) < MinQueryLength {
		return false, MsgQueryTooShort
	}
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return false, MsgQueryTooLong
	}
	return true, MsgQueryValid
}
