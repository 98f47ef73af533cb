package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/remote"
	"github.com/dmitrijs2005/moodkeeper/internal/common"
	"github.com/dmitrijs2005/moodkeeper/internal/docrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const defaultCallTimeout = 5 * time.Second

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      docrpc.DocumentServiceClient
	accessToken string
	timeout     time.Duration
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient connects to the document server at endpointURL. Extra dial
// options are appended after the defaults.
func NewGRPCClient(endpointURL, accessToken string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken, timeout: timeout}
	if err := c.InitGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, dialOpts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = docrpc.NewDocumentServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Namespace() (string, bool) {
	return remote.NamespaceFromToken(s.accessToken)
}

func (s *GRPCClient) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *GRPCClient) GetDoc(ctx context.Context, path string) (remote.Doc, error) {
	if _, ok := s.Namespace(); !ok {
		return remote.Doc{}, ErrNoNamespace
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	resp, err := s.client.GetDoc(ctx, wrapperspb.String(path))
	if err != nil {
		return remote.Doc{}, s.mapError(err)
	}

	exists, data, err := docrpc.ParseGetDocResponse(resp)
	if err != nil {
		return remote.Doc{}, err
	}
	return remote.Doc{Exists: exists, Data: data}, nil
}

func (s *GRPCClient) SetDoc(ctx context.Context, path string, data json.RawMessage, merge bool) error {
	if _, ok := s.Namespace(); !ok {
		return ErrNoNamespace
	}

	req, err := docrpc.NewSetDocRequest(path, data, merge)
	if err != nil {
		return err
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	if _, err := s.client.SetDoc(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	resp, err := s.client.Ping(ctx, &emptypb.Empty{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.GetValue() != "OK" {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
