package grpcapi

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"medi-response-service/internal/service/exchange"
	"medi-response-service/internal/service/response"
)

const (
	ServiceName   = "medi.response.v1.ResponseService"
	RespondMethod = "/" + ServiceName + "/Respond"
)

// Handler runs one recorded turn.
type Handler interface {
	Handle(ctx context.Context, req exchange.Request) (*exchange.Result, error)
}

// ResponseServer is the server API for ResponseService. Requests and replies
// are google.protobuf.Struct values so clients need no generated stubs.
type ResponseServer interface {
	Respond(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

type Server struct {
	handler Handler
}

func Register(g *grpc.Server, h Handler) {
	g.RegisterService(&ServiceDesc, &Server{handler: h})
}

// ServiceDesc describes ResponseService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ResponseServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Respond", Handler: respondHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "medi/response/v1/response.proto",
}

func respondHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ResponseServer).Respond(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RespondMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ResponseServer).Respond(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Respond reads prompt, max_length and session_id, and replies with
// response, session_id and turn_id.
func (s *Server) Respond(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	fields := in.GetFields()
	req := exchange.Request{
		Prompt:    fields["prompt"].GetStringValue(),
		MaxLength: int(fields["max_length"].GetNumberValue()),
		SessionID: fields["session_id"].GetStringValue(),
	}

	res, err := s.handler.Handle(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]any{
		"response":   res.Response,
		"session_id": res.SessionID,
		"turn_id":    res.TurnID,
	})
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, exchange.ErrEmptyPrompt):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, response.ErrGeneration), errors.Is(err, response.ErrClassification):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
