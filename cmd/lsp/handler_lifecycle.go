package main

import (
	"log"

	"github.com/funvibe/elimc/internal/config"
	elimc "github.com/funvibe/elimc/pkg/embed"
)

func (s *LanguageServer) handleInitialize(id interface{}, params InitializeParams) error {
	log.Printf("Handling initialize request with ID: %v", id)

	if params.RootURI != nil && *params.RootURI != "" {
		s.rootPath = uriToPath(*params.RootURI)
	} else if params.RootPath != nil && *params.RootPath != "" {
		s.rootPath = *params.RootPath
	}

	// The workspace configuration applies to every document. The tree
	// cache is left to the command line.
	if s.rootPath != "" {
		cfg, err := config.Resolve(s.rootPath)
		if err != nil {
			log.Printf("Ignoring configuration: %v", err)
		} else {
			s.checker = elimc.New(elimc.WithConfig(cfg))
		}
	}

	result := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync:           syncFull,
			HoverProvider:              true,
			DefinitionProvider:         true,
			DocumentFormattingProvider: true,
		},
		ServerInfo: &ServerInfo{Name: "elimc", Version: config.Version},
	}

	return s.reply(id, result)
}

func (s *LanguageServer) handleShutdown(id interface{}) error {
	s.shutdown = true
	return s.reply(id, nil)
}
