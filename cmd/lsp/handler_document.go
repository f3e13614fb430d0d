package main

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/funvibe/elimc/internal/pipeline"
)

// DocumentState stores the state of a single open document
type DocumentState struct {
	Content string                    // Current file content
	Context *pipeline.PipelineContext // Result of the last check (AST, definitions, diagnostics)
	Mu      sync.RWMutex              // Mutex to protect access to state
}

func (s *LanguageServer) handleDidOpen(params DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	content := params.TextDocument.Text

	docState := &DocumentState{
		Content: content,
		Context: s.analyzeDocument(content, uri),
	}

	s.mu.Lock()
	s.documents[uri] = docState
	s.mu.Unlock()

	log.Printf("Opened file: %s", uri)
	return s.publishDiagnostics(uri, docState.Context)
}

func (s *LanguageServer) handleDidChange(params DidChangeTextDocumentParams) error {
	// Full content sync (TextDocumentSyncKind.Full): the last change holds the whole text
	if len(params.ContentChanges) == 0 {
		return nil
	}
	uri := params.TextDocument.URI
	newContent := params.ContentChanges[len(params.ContentChanges)-1].Text

	docState := s.document(uri)
	if docState == nil {
		return fmt.Errorf("document %s not found", uri)
	}

	finalCtx := s.analyzeDocument(newContent, uri)
	docState.Mu.Lock()
	docState.Content = newContent
	docState.Context = finalCtx
	docState.Mu.Unlock()

	log.Printf("Changed file: %s", uri)
	return s.publishDiagnostics(uri, finalCtx)
}

func (s *LanguageServer) handleDidClose(params DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.mu.Lock()
	delete(s.documents, uri)
	s.mu.Unlock()
	log.Printf("Closed file: %s", uri)

	// Clear the diagnostics of the closed document
	return s.notify("textDocument/publishDiagnostics", PublishDiagnosticsParams{URI: uri, Diagnostics: []Diagnostic{}})
}

// document returns the state of an open document, or nil.
func (s *LanguageServer) document(uri string) *DocumentState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.documents[uri]
}

// snapshot returns the content and last check result of an open document.
func (s *LanguageServer) snapshot(uri string) (string, *pipeline.PipelineContext, bool) {
	docState := s.document(uri)
	if docState == nil {
		return "", nil, false
	}
	docState.Mu.RLock()
	defer docState.Mu.RUnlock()
	return docState.Content, docState.Context, docState.Context != nil
}

func (s *LanguageServer) analyzeDocument(content string, uri string) *pipeline.PipelineContext {
	return s.checker.Run(uriToPath(uri), content)
}

func uriToPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
