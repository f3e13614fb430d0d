// Package service exposes the checker as the gRPC service elimc.Checker.
// Messages are dynamic: the service definition is parsed at startup from
// the embedded checker.proto.
package service

import (
	"context"
	"fmt"
	"log"
	"net"
	"strings"

	"github.com/google/uuid"
	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	elimc "github.com/funvibe/elimc/pkg/embed"
)

type Options struct {
	Checker *elimc.Checker // nil uses elimc.New()
	Logger  *log.Logger    // nil disables request logging
}

type Server struct {
	checker *elimc.Checker
	logger  *log.Logger
	sd      *desc.ServiceDescriptor
}

func NewServer(opts Options) (*Server, error) {
	sd, err := loadService()
	if err != nil {
		return nil, err
	}
	checker := opts.Checker
	if checker == nil {
		checker = elimc.New()
	}
	return &Server{checker: checker, logger: opts.Logger, sd: sd}, nil
}

func (s *Server) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

// Register adds the elimc.Checker service to gs.
func (s *Server) Register(gs *grpc.Server) {
	sd := &grpc.ServiceDesc{
		ServiceName: s.sd.GetFullyQualifiedName(),
		HandlerType: (*interface{})(nil),
		Metadata:    s.sd.GetFile().GetName(),
	}

	for _, method := range s.sd.GetMethods() {
		if method.IsClientStreaming() || method.IsServerStreaming() {
			continue
		}
		md := method
		fullMethod := fmt.Sprintf("/%s/%s", sd.ServiceName, md.GetName())
		sd.Methods = append(sd.Methods, grpc.MethodDesc{
			MethodName: md.GetName(),
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
				in := dynamic.NewMessage(md.GetInputType())
				if err := dec(in); err != nil {
					return nil, err
				}
				h := srv.(*Server)
				if interceptor == nil {
					return h.handleUnary(ctx, md, in)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
				return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
					return h.handleUnary(ctx, md, req.(*dynamic.Message))
				})
			},
		})
	}

	gs.RegisterService(sd, s)
}

func (s *Server) handleUnary(ctx context.Context, md *desc.MethodDescriptor, in *dynamic.Message) (interface{}, error) {
	if md.GetName() != "Check" {
		return nil, status.Errorf(codes.Unimplemented, "method %s not implemented", md.GetName())
	}
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}

	file := stringField(in, "file")
	source := stringField(in, "source")
	if strings.TrimSpace(source) == "" {
		return nil, status.Error(codes.InvalidArgument, "source is empty")
	}
	if file == "" {
		file = "<request>"
	}

	id := uuid.NewString()
	out := s.checker.Check(file, source)
	s.logf("check %s file=%s definitions=%d errors=%t", id, file, len(out.Definitions), out.HasErrors())

	msg, err := encodeResponse(md.GetOutputType(), &CheckResponse{
		RequestID:   id,
		Definitions: out.Definitions,
		Diagnostics: out.Diagnostics,
	})
	if err != nil {
		s.logf("check %s: %v", id, err)
		return nil, status.Error(codes.Internal, err.Error())
	}
	return msg, nil
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	gs := grpc.NewServer()
	s.Register(gs)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			gs.GracefulStop()
		case <-done:
		}
	}()

	s.logf("serving %s on %s", ServiceName, lis.Addr())
	if err := gs.Serve(lis); err != nil {
		return fmt.Errorf("serving %s: %w", lis.Addr(), err)
	}
	return nil
}
