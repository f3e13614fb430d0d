package service

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client calls a remote elimc.Checker.
type Client struct {
	conn   *grpc.ClientConn
	method *desc.MethodDescriptor
	owned  bool
}

// Dial connects to target without transport security.
func Dial(target string) (*Client, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", target, err)
	}
	c, err := NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	c.owned = true
	return c, nil
}

// NewClient wraps an existing connection. Close leaves conn open.
func NewClient(conn *grpc.ClientConn) (*Client, error) {
	md, err := checkMethod()
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, method: md}, nil
}

func (c *Client) Check(ctx context.Context, file, source string) (*CheckResponse, error) {
	req := dynamic.NewMessage(c.method.GetInputType())
	if err := setField(req, "file", file); err != nil {
		return nil, err
	}
	if err := setField(req, "source", source); err != nil {
		return nil, err
	}

	resp := dynamic.NewMessage(c.method.GetOutputType())
	if err := c.conn.Invoke(ctx, CheckMethod, req, resp); err != nil {
		return nil, fmt.Errorf("RPC failed: %w", err)
	}
	return decodeResponse(resp), nil
}

func (c *Client) Close() error {
	if !c.owned || c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
