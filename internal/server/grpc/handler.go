package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/moodkeeper/internal/common"
	"github.com/dmitrijs2005/moodkeeper/internal/docrpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func (s *GRPCServer) GetDoc(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	data, exists, err := s.docs.GetDoc(ctx, userID, req.GetValue())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp, err := docrpc.NewGetDocResponse(exists, data)
	if err != nil {
		s.logger.Error(ctx, "stored document is not an object", "path", req.GetValue(), "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	return resp, nil
}

func (s *GRPCServer) SetDoc(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	path, data, merge, err := docrpc.ParseSetDocRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := s.docs.SetDoc(ctx, userID, path, data, merge); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *emptypb.Empty) (*wrapperspb.StringValue, error) {

	return wrapperspb.String("OK"), nil

}

func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidPath):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		s.logger.Error(ctx, err.Error())
		return status.Error(codes.Internal, "internal error")
	}
}
