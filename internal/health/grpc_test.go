package health

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MikeMC777/catering-ecom/internal/logx"
)

func startServer(t *testing.T, checks ...Checker) (*Server, grpc_health_v1.HealthClient) {
	t.Helper()
	s := NewServer(logx.Discard(), checks...)
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return s, grpc_health_v1.NewHealthClient(conn)
}

func check(t *testing.T, c grpc_health_v1.HealthClient) grpc_health_v1.HealthCheckResponse_ServingStatus {
	t.Helper()
	res, err := c.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: Service})
	require.NoError(t, err)
	return res.GetStatus()
}

func TestHealth_ServingAfterRefresh(t *testing.T) {
	s, c := startServer(t, func(context.Context) error { return nil })
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, check(t, c))

	s.Refresh(context.Background())
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, check(t, c))
}

func TestHealth_FailingCheck(t *testing.T) {
	s, c := startServer(t, func(context.Context) error { return errors.New("db down") })
	s.Refresh(context.Background())
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, check(t, c))
}
