package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Reply is the decoded Respond result.
type Reply struct {
	Response  string
	SessionID string
	TurnID    string
}

// Client calls ResponseService over an existing connection.
type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) Respond(ctx context.Context, prompt string, maxLength int, sessionID string) (*Reply, error) {
	in, err := structpb.NewStruct(map[string]any{
		"prompt":     prompt,
		"max_length": maxLength,
		"session_id": sessionID,
	})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, RespondMethod, in, out); err != nil {
		return nil, err
	}
	f := out.GetFields()
	return &Reply{
		Response:  f["response"].GetStringValue(),
		SessionID: f["session_id"].GetStringValue(),
		TurnID:    f["turn_id"].GetStringValue(),
	}, nil
}
