package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/maeumjangbu/ledger/internal/auth"
	"github.com/maeumjangbu/ledger/internal/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type ping struct{}

func callWithHeader(t *testing.T, interceptor connect.UnaryInterceptorFunc, header string) (string, error) {
	t.Helper()

	var seen string
	next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		seen = GetUserID(ctx)
		return connect.NewResponse(&ping{}), nil
	}

	req := connect.NewRequest(&ping{})
	if header != "" {
		req.Header().Set("Authorization", header)
	}
	_, err := interceptor(next)(context.Background(), req)
	return seen, err
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager(testSecret, time.Hour)
	token, err := jwtManager.Generate(&models.User{ID: "user-1", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	interceptor := RequireAuth(jwtManager)

	tests := []struct {
		name     string
		header   string
		wantUser string
		wantErr  bool
	}{
		{name: "valid token", header: "Bearer " + token, wantUser: "user-1"},
		{name: "missing header", header: "", wantErr: true},
		{name: "wrong scheme", header: "Basic " + token, wantErr: true},
		{name: "empty token", header: "Bearer ", wantErr: true},
		{name: "garbage token", header: "Bearer abc.def.ghi", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := callWithHeader(t, interceptor, tt.header)
			if tt.wantErr {
				var connectErr *connect.Error
				if !errors.As(err, &connectErr) || connectErr.Code() != connect.CodeUnauthenticated {
					t.Fatalf("expected CodeUnauthenticated, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user != tt.wantUser {
				t.Errorf("user: expected %q, got %q", tt.wantUser, user)
			}
		})
	}
}

func TestWithUser(t *testing.T) {
	ctx := WithUser(context.Background(), "user-2", "b@example.com")
	if GetUserID(ctx) != "user-2" || GetEmail(ctx) != "b@example.com" {
		t.Errorf("unexpected identity: %q %q", GetUserID(ctx), GetEmail(ctx))
	}
	if GetUserID(context.Background()) != "" {
		t.Error("expected empty user ID on bare context")
	}
}

func TestLoggingInterceptorPassesThrough(t *testing.T) {
	wantErr := connect.NewError(connect.CodeNotFound, errors.New("gone"))
	next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, wantErr
	}

	req := connect.NewRequest(&ping{})
	_, err := LoggingInterceptor()(next)(context.Background(), req)
	if !errors.Is(err, wantErr) {
		t.Errorf("expected handler error to pass through, got %v", err)
	}
}
