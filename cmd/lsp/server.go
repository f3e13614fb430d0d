package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	elimc "github.com/funvibe/elimc/pkg/embed"
)

// Language Server implementation
type LanguageServer struct {
	documents map[string]*DocumentState // URI -> document state
	mu        sync.RWMutex              // Mutex to protect the documents map
	writer    io.Writer                 // Output stream for JSON-RPC responses
	rootPath  string                    // Workspace root, searched for elimc.yaml
	checker   *elimc.Checker

	shutdown bool // shutdown request received
	exited   bool // exit notification received
}

func NewLanguageServer(writer io.Writer) *LanguageServer {
	if writer == nil {
		writer = os.Stdout
	}
	return &LanguageServer{
		documents: make(map[string]*DocumentState),
		writer:    writer,
		checker:   elimc.New(),
	}
}

// Start serves messages read from r until EOF or an exit notification.
func (s *LanguageServer) Start(r io.Reader) {
	// Use a bufio.Reader instead of Scanner to handle arbitrary buffer sizes and raw reads
	reader := bufio.NewReader(r)

	for !s.exited {
		// Read header line
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				log.Printf("Error reading header: %v", err)
			}
			return
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue // Skip empty lines between messages or before headers
		}
		if !strings.HasPrefix(line, "Content-Length: ") {
			continue
		}

		contentLength, err := strconv.Atoi(strings.TrimPrefix(line, "Content-Length: "))
		if err != nil {
			log.Printf("Error parsing Content-Length: %v", err)
			continue
		}

		// Skip the remaining headers up to the empty separator line
		for {
			header, err := reader.ReadString('\n')
			if err != nil {
				log.Printf("Error reading separator: %v", err)
				return
			}
			if strings.TrimRight(header, "\r\n") == "" {
				break
			}
		}

		content := make([]byte, contentLength)
		if _, err := io.ReadFull(reader, content); err != nil {
			log.Printf("Error reading content: %v", err)
			return
		}

		if err := s.handleMessage(content); err != nil {
			log.Printf("Error handling message: %v", err)
		}
	}
}

// ExitCode is the process exit code after Start returns: 0 when the client
// asked for shutdown before exiting, 1 otherwise.
func (s *LanguageServer) ExitCode() int {
	if s.shutdown {
		return 0
	}
	return 1
}

func (s *LanguageServer) handleMessage(content []byte) error {
	var msg message
	if err := json.Unmarshal(content, &msg); err != nil {
		return fmt.Errorf("failed to unmarshal message: %v", err)
	}

	log.Printf("Received %s (id %v)", msg.Method, msg.ID)

	// Check if this is a request (has ID) or notification (no ID)
	if msg.ID != nil {
		return s.handleRequest(msg)
	}
	return s.handleNotification(msg)
}

// decode unmarshals the params of msg; absent params leave the zero value.
func decode[T any](msg message) (T, error) {
	var params T
	if len(msg.Params) == 0 {
		return params, nil
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return params, fmt.Errorf("%s: invalid params: %v", msg.Method, err)
	}
	return params, nil
}

func (s *LanguageServer) handleRequest(msg message) error {
	switch msg.Method {
	case "initialize":
		params, err := decode[InitializeParams](msg)
		if err != nil {
			return err
		}
		return s.handleInitialize(msg.ID, params)

	case "shutdown":
		return s.handleShutdown(msg.ID)

	case "textDocument/hover":
		params, err := decode[TextDocumentPositionParams](msg)
		if err != nil {
			return err
		}
		return s.handleHover(msg.ID, params)

	case "textDocument/definition":
		params, err := decode[TextDocumentPositionParams](msg)
		if err != nil {
			return err
		}
		return s.handleDefinition(msg.ID, params)

	case "textDocument/formatting":
		params, err := decode[DocumentFormattingParams](msg)
		if err != nil {
			return err
		}
		return s.handleFormatting(msg.ID, params)

	default:
		return s.sendMessage(response{
			Jsonrpc: "2.0",
			ID:      msg.ID,
			Error: &responseError{
				Code:    codeMethodNotFound,
				Message: fmt.Sprintf("Method not found: %s", msg.Method),
			},
		})
	}
}

func (s *LanguageServer) handleNotification(msg message) error {
	switch msg.Method {
	case "textDocument/didOpen":
		params, err := decode[DidOpenTextDocumentParams](msg)
		if err != nil {
			return err
		}
		return s.handleDidOpen(params)

	case "textDocument/didChange":
		params, err := decode[DidChangeTextDocumentParams](msg)
		if err != nil {
			return err
		}
		return s.handleDidChange(params)

	case "textDocument/didClose":
		params, err := decode[DidCloseTextDocumentParams](msg)
		if err != nil {
			return err
		}
		return s.handleDidClose(params)

	case "exit":
		s.exited = true
		return nil

	default:
		// initialized and anything unknown
		return nil
	}
}

// reply answers the request id with result; a nil result is sent as null.
func (s *LanguageServer) reply(id interface{}, result interface{}) error {
	return s.sendMessage(response{Jsonrpc: "2.0", ID: id, Result: result})
}

func (s *LanguageServer) notify(method string, params interface{}) error {
	return s.sendMessage(notification{Jsonrpc: "2.0", Method: method, Params: params})
}

func (s *LanguageServer) sendMessage(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n%s", len(data), data)
	return err
}
