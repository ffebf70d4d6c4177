package grpc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	idf_grpc "github.com/smartcontractkit/interchain-deployments-framework/internal/grpc"
)

// mockInvoker is a mock gRPC invoker for testing interceptors
type mockInvoker struct {
	method      string
	req         any
	reply       any
	cc          *grpc.ClientConn
	opts        []grpc.CallOption
	err         error
	capturedCtx context.Context //nolint:containedctx // needed for test verification
}

func (m *mockInvoker) invoke(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	opts ...grpc.CallOption,
) error {
	m.capturedCtx = ctx
	m.method = method
	m.req = req
	m.reply = reply
	m.cc = cc
	m.opts = opts

	return m.err
}

func TestChainIDInterceptor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		chainID        string
		expectedHeader string
	}{
		{
			name:           "valid_chain_id",
			chainID:        "gaia-1",
			expectedHeader: "gaia-1",
		},
		{
			name:           "empty_chain_id",
			chainID:        "",
			expectedHeader: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Create mock invoker
			mock := &mockInvoker{}
			interceptor := idf_grpc.ChainIDInterceptor(tt.chainID)

			// Create test context and connection
			ctx := context.Background()
			conn, err := grpc.NewClient("localhost:9090", grpc.WithTransportCredentials(insecure.NewCredentials()))
			require.NoError(t, err)
			defer conn.Close()

			// Execute interceptor
			err = interceptor(
				ctx,
				"/test.Service/TestMethod",
				&struct{}{},
				&struct{}{},
				conn,
				mock.invoke,
			)

			// Verify
			require.NoError(t, err)
			require.NotNil(t, mock.capturedCtx)

			// Check that the metadata was added to the context
			md, ok := metadata.FromOutgoingContext(mock.capturedCtx)
			require.True(t, ok, "metadata should be present in context")

			// Verify the chain id header
			values := md.Get("x-chain-id")
			require.Len(t, values, 1, "should have exactly one chain id header")
			require.Equal(t, tt.expectedHeader, values[0])

			// Verify other parameters were passed through correctly
			require.Equal(t, "/test.Service/TestMethod", mock.method)
			require.NotNil(t, mock.req)
			require.NotNil(t, mock.reply)
			require.Equal(t, conn, mock.cc)
		})
	}
}

func TestBearerTokenInterceptor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		token          string
		expectedHeader string
	}{
		{
			name:           "valid_token",
			token:          "test-token-123",
			expectedHeader: "Bearer test-token-123",
		},
		{
			name:           "empty_token",
			token:          "",
			expectedHeader: "Bearer ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Create mock invoker
			mock := &mockInvoker{}
			interceptor := idf_grpc.BearerTokenInterceptor(tt.token)

			// Create test context and connection
			ctx := context.Background()
			conn, err := grpc.NewClient("localhost:9090", grpc.WithTransportCredentials(insecure.NewCredentials()))
			require.NoError(t, err)
			defer conn.Close()

			// Execute interceptor
			err = interceptor(
				ctx,
				"/test.Service/TestMethod",
				&struct{}{},
				&struct{}{},
				conn,
				mock.invoke,
			)

			// Verify
			require.NoError(t, err)
			require.NotNil(t, mock.capturedCtx)

			// Check that the metadata was added to the context
			md, ok := metadata.FromOutgoingContext(mock.capturedCtx)
			require.True(t, ok, "metadata should be present in context")

			// Verify the authorization header
			values := md.Get("authorization")
			require.Len(t, values, 1, "should have exactly one authorization header")
			require.Equal(t, tt.expectedHeader, values[0])
		})
	}
}

func TestInterceptors_ErrorPropagation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		interceptor grpc.UnaryClientInterceptor
		invokerErr  error
	}{
		{
			name:        "chain_id_interceptor_propagates_error",
			interceptor: idf_grpc.ChainIDInterceptor("gaia-1"),
			invokerErr:  errors.New("test connection error"),
		},
		{
			name:        "bearer_token_interceptor_propagates_error",
			interceptor: idf_grpc.BearerTokenInterceptor("test-token"),
			invokerErr:  errors.New("test server error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Create mock invoker that returns an error
			mock := &mockInvoker{err: tt.invokerErr}

			// Create test context and connection
			ctx := context.Background()
			conn, err := grpc.NewClient("localhost:9090", grpc.WithTransportCredentials(insecure.NewCredentials()))
			require.NoError(t, err)
			defer conn.Close()

			// Execute interceptor
			err = tt.interceptor(
				ctx,
				"/test.Service/TestMethod",
				&struct{}{},
				&struct{}{},
				conn,
				mock.invoke,
			)

			// Verify that the error is propagated
			require.Error(t, err)
			require.Equal(t, tt.invokerErr, err)
		})
	}
}

func TestInterceptors_ExistingMetadata(t *testing.T) {
	t.Parallel()

	// Test that interceptors preserve existing metadata
	mock := &mockInvoker{}
	interceptor := idf_grpc.ChainIDInterceptor("gaia-1")

	// Create context with existing metadata
	ctx := context.Background()
	ctx = metadata.AppendToOutgoingContext(ctx, "existing-header", "existing-value")

	conn, err := grpc.NewClient("localhost:9090", grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	// Execute interceptor
	err = interceptor(
		ctx,
		"/test.Service/TestMethod",
		&struct{}{},
		&struct{}{},
		conn,
		mock.invoke,
	)

	// Verify
	require.NoError(t, err)
	require.NotNil(t, mock.capturedCtx)

	// Check that both old and new metadata are present
	md, ok := metadata.FromOutgoingContext(mock.capturedCtx)
	require.True(t, ok, "metadata should be present in context")

	// Verify existing metadata is preserved
	existingValues := md.Get("existing-header")
	require.Len(t, existingValues, 1, "should preserve existing header")
	require.Equal(t, "existing-value", existingValues[0])

	// Verify new metadata is added
	chainIDValues := md.Get("x-chain-id")
	require.Len(t, chainIDValues, 1, "should have new chain id header")
	require.Equal(t, "gaia-1", chainIDValues[0])
}
