package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// ChainIDInterceptor attaches the target chain ID to every outgoing call. Gateways that
// multiplex several chain nodes behind one endpoint route requests on this header.
func ChainIDInterceptor(chainID string) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		return invoker(
			metadata.AppendToOutgoingContext(ctx, "x-chain-id", chainID),
			method, req, reply, cc, opts...,
		)
	}
}

// BearerTokenInterceptor attaches a bearer token to every outgoing call, for node endpoints
// that sit behind an authenticating proxy.
func BearerTokenInterceptor(token string) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		return invoker(
			metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token),
			method, req, reply, cc, opts...,
		)
	}
}
