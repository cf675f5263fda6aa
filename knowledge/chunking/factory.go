//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

package chunking

import (
	"sort"
	"strings"

	"trpc.group/trpc-go/trpc-rag-ingest/log"
)

// Strategy names accepted by New.
const (
	NameRecursive = "recursive"
	NameSentence  = "sentence"
	NameCharacter = "character"
	NameFixed     = "fixed"
)

var constructors = map[string]func(...Option) Strategy{
	NameRecursive: func(opts ...Option) Strategy { return NewRecursiveChunking(opts...) },
	NameSentence:  func(opts ...Option) Strategy { return NewSentenceChunking(opts...) },
	NameCharacter: func(opts ...Option) Strategy { return NewCharacterChunking(opts...) },
	NameFixed:     func(opts ...Option) Strategy { return NewFixedSizeChunking(opts...) },
}

// New returns the strategy registered under name. Names are matched
// case-insensitively; an unknown name yields the recursive strategy.
func New(name string, opts ...Option) Strategy {
	key := strings.ToLower(strings.TrimSpace(name))
	ctor, ok := constructors[key]
	if !ok {
		log.Debugf("chunking: unknown strategy %q, using %s", name, NameRecursive)
		ctor = constructors[NameRecursive]
	}
	return ctor(opts...)
}

// Names returns the registered strategy names in sorted order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
