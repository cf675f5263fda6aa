//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

// Package config holds the application configuration and the store that
// loads it from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"trpc.group/trpc-go/trpc-rag-ingest/log"
)

const (
	// DefaultPath is where the store looks for its YAML file.
	DefaultPath = "config/app_config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. RAG_CHUNK_SIZE.
	EnvPrefix = "RAG"
)

// ErrLoad indicates that the configuration file exists but could not be read.
var ErrLoad = errors.New("config load failed")

// AppConfig is the application configuration.
type AppConfig struct {
	// Database settings.
	PersistDirectory string `yaml:"persist_directory" json:"persist_directory" mapstructure:"persist_directory"`
	CollectionName   string `yaml:"collection_name" json:"collection_name" mapstructure:"collection_name"`

	// Chunking settings.
	ChunkSize     int    `yaml:"chunk_size" json:"chunk_size" mapstructure:"chunk_size"`
	ChunkOverlap  int    `yaml:"chunk_overlap" json:"chunk_overlap" mapstructure:"chunk_overlap"`
	ChunkStrategy string `yaml:"chunk_strategy" json:"chunk_strategy" mapstructure:"chunk_strategy"`

	// Memory settings: buffer, summary, window or summary_buffer.
	MemoryType       string `yaml:"memory_type" json:"memory_type" mapstructure:"memory_type"`
	MaxMemoryTokens  int    `yaml:"max_memory_tokens" json:"max_memory_tokens" mapstructure:"max_memory_tokens"`
	MemoryWindowSize int    `yaml:"memory_window_size" json:"memory_window_size" mapstructure:"memory_window_size"`

	// Retrieval settings. SearchType is similarity, mmr or hybrid.
	RetrievalK int    `yaml:"retrieval_k" json:"retrieval_k" mapstructure:"retrieval_k"`
	SearchType string `yaml:"search_type" json:"search_type" mapstructure:"search_type"`

	// LLM settings.
	ModelName   string  `yaml:"model_name" json:"model_name" mapstructure:"model_name"`
	Temperature float64 `yaml:"temperature" json:"temperature" mapstructure:"temperature"`

	// UI settings.
	PageTitle string `yaml:"page_title" json:"page_title" mapstructure:"page_title"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level" json:"log_level" mapstructure:"log_level"`
}

// Default returns a configuration populated with the built-in defaults.
func Default() *AppConfig {
	return &AppConfig{
		PersistDirectory: "./advanced_chroma_db",
		CollectionName:   "advanced_knowledge_base",
		ChunkSize:        1000,
		ChunkOverlap:     200,
		ChunkStrategy:    "recursive",
		MemoryType:       "summary_buffer",
		MaxMemoryTokens:  1000,
		MemoryWindowSize: 10,
		RetrievalK:       4,
		SearchType:       "hybrid",
		ModelName:        "gpt-3.5-turbo",
		Temperature:      0.0,
		PageTitle:        "Advanced RAG Assistant",
		LogLevel:         "info",
	}
}

// Store owns the shared configuration snapshot. It has no lock: callers
// must serialise Load and Update against readers themselves.
type Store struct {
	path string
	cfg  *AppConfig
}

// Option configures a Store.
type Option func(*Store)

// WithPath sets the YAML file the store loads at construction.
func WithPath(path string) Option {
	return func(s *Store) {
		s.path = path
	}
}

// New builds a store with the defaults and then loads its file. A load
// failure is logged and the defaults are kept.
func New(opts ...Option) *Store {
	s := &Store{path: DefaultPath, cfg: Default()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Load(s.path); err != nil {
		log.Errorf("Error loading config: %v", err)
	}
	return s
}

// Path returns the file the store was built from.
func (s *Store) Path() string {
	return s.path
}

// Load reads path when it exists and then applies RAG_ environment
// overrides. Only recognised keys are applied. When the file cannot be
// parsed the snapshot is left untouched and the error wraps ErrLoad.
func (s *Store) Load(path string) error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
			}
		} else {
			log.Debugf("config file %s not found, using defaults", path)
		}
	}

	values := make(map[string]any)
	for _, f := range fields {
		if err := v.BindEnv(f.key); err != nil {
			return fmt.Errorf("%w: bind env %s: %w", ErrLoad, f.key, err)
		}
		if v.IsSet(f.key) {
			values[f.key] = v.Get(f.key)
		}
	}
	s.apply(values)
	return nil
}

// Get returns the shared snapshot. Mutations through it are visible to every holder.
func (s *Store) Get() *AppConfig {
	return s.cfg
}

// Update sets the named fields. Unknown names are ignored and values that
// cannot be converted to the field type are skipped with a warning.
func (s *Store) Update(values map[string]any) {
	s.apply(values)
}

// Marshal renders the snapshot as YAML.
func (s *Store) Marshal() ([]byte, error) {
	return yaml.Marshal(s.cfg)
}

func (s *Store) apply(values map[string]any) {
	for key, value := range values {
		f, ok := fieldByKey[strings.ToLower(key)]
		if !ok {
			log.Debugf("config: ignoring unknown key %q", key)
			continue
		}
		if err := f.set(s.cfg, value); err != nil {
			log.Warnf("config: ignoring %s=%v: %v", f.key, value, err)
		}
	}
}

// Keys returns the recognised configuration keys in declaration order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.key)
	}
	return keys
}

type field struct {
	key string
	set func(*AppConfig, any) error
}

func stringField(key string, ptr func(*AppConfig) *string) field {
	return field{key: key, set: func(c *AppConfig, v any) error {
		s, err := cast.ToStringE(v)
		if err != nil {
			return err
		}
		*ptr(c) = s
		return nil
	}}
}

func intField(key string, ptr func(*AppConfig) *int) field {
	return field{key: key, set: func(c *AppConfig, v any) error {
		n, err := cast.ToIntE(v)
		if err != nil {
			return err
		}
		*ptr(c) = n
		return nil
	}}
}

func floatField(key string, ptr func(*AppConfig) *float64) field {
	return field{key: key, set: func(c *AppConfig, v any) error {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return err
		}
		*ptr(c) = f
		return nil
	}}
}

var fields = []field{
	stringField("persist_directory", func(c *AppConfig) *string { return &c.PersistDirectory }),
	stringField("collection_name", func(c *AppConfig) *string { return &c.CollectionName }),
	intField("chunk_size", func(c *AppConfig) *int { return &c.ChunkSize }),
	intField("chunk_overlap", func(c *AppConfig) *int { return &c.ChunkOverlap }),
	stringField("chunk_strategy", func(c *AppConfig) *string { return &c.ChunkStrategy }),
	stringField("memory_type", func(c *AppConfig) *string { return &c.MemoryType }),
	intField("max_memory_tokens", func(c *AppConfig) *int { return &c.MaxMemoryTokens }),
	intField("memory_window_size", func(c *AppConfig) *int { return &c.MemoryWindowSize }),
	intField("retrieval_k", func(c *AppConfig) *int { return &c.RetrievalK }),
	stringField("search_type", func(c *AppConfig) *string { return &c.SearchType }),
	stringField("model_name", func(c *AppConfig) *string { return &c.ModelName }),
	floatField("temperature", func(c *AppConfig) *float64 { return &c.Temperature }),
	stringField("page_title", func(c *AppConfig) *string { return &c.PageTitle }),
	stringField("log_level", func(c *AppConfig) *string { return &c.LogLevel }),
}

var fieldByKey = func() map[string]field {
	m := make(map[string]field, len(fields))
	for _, f := range fields {
		m[f.key] = f
	}
	return m
}()
