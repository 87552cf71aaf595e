package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/numberfinder/backend/internal/config"
)

// mockSecretGetter is a hand-written test double for config.SecretGetter.
type mockSecretGetter struct {
	getSecretValue func(ctx context.Context, in *secretsmanager.GetSecretValueInput) (*secretsmanager.GetSecretValueOutput, error)
	calls          int
}

func (m *mockSecretGetter) GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	m.calls++
	return m.getSecretValue(ctx, in)
}

var _ config.SecretGetter = (*mockSecretGetter)(nil)

func secretReturning(value string) *mockSecretGetter {
	return &mockSecretGetter{getSecretValue: func(_ context.Context, _ *secretsmanager.GetSecretValueInput) (*secretsmanager.GetSecretValueOutput, error) {
		return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(value)}, nil
	}}
}

func TestResolveTableKey_plainSecret(t *testing.T) {
	var gotID string
	m := &mockSecretGetter{getSecretValue: func(_ context.Context, in *secretsmanager.GetSecretValueInput) (*secretsmanager.GetSecretValueOutput, error) {
		gotID = aws.ToString(in.SecretId)
		return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(" anon-key-123\n")}, nil
	}}
	cfg := config.Config{TableKeySecretID: "numberfinder/anon-key"}

	require.NoError(t, config.ResolveTableKey(context.Background(), &cfg, m))

	require.Equal(t, "numberfinder/anon-key", gotID)
	require.Equal(t, "anon-key-123", cfg.SupabaseAnonKey)
}

func TestResolveTableKey_jsonSecret(t *testing.T) {
	cfg := config.Config{TableKeySecretID: "numberfinder/anon-key"}

	require.NoError(t, config.ResolveTableKey(context.Background(), &cfg, secretReturning(`{"anon_key":"from-json"}`)))

	require.Equal(t, "from-json", cfg.SupabaseAnonKey)
}

func TestResolveTableKey_jsonSecretWithoutField(t *testing.T) {
	cfg := config.Config{TableKeySecretID: "numberfinder/anon-key"}

	err := config.ResolveTableKey(context.Background(), &cfg, secretReturning(`{"key":"x"}`))

	require.ErrorContains(t, err, "anon_key")
	require.Empty(t, cfg.SupabaseAnonKey)
}

func TestResolveTableKey_explicitKeyWins(t *testing.T) {
	m := secretReturning("unused")
	cfg := config.Config{SupabaseAnonKey: "explicit", TableKeySecretID: "numberfinder/anon-key"}

	require.NoError(t, config.ResolveTableKey(context.Background(), &cfg, m))

	require.Equal(t, "explicit", cfg.SupabaseAnonKey)
	require.Zero(t, m.calls)
}

func TestResolveTableKey_noSecretConfigured(t *testing.T) {
	m := secretReturning("unused")
	cfg := config.Config{}

	require.NoError(t, config.ResolveTableKey(context.Background(), &cfg, m))
	require.Zero(t, m.calls)
}

func TestResolveTableKey_fetchError(t *testing.T) {
	m := &mockSecretGetter{getSecretValue: func(context.Context, *secretsmanager.GetSecretValueInput) (*secretsmanager.GetSecretValueOutput, error) {
		return nil, errors.New("AccessDeniedException")
	}}
	cfg := config.Config{TableKeySecretID: "numberfinder/anon-key"}

	err := config.ResolveTableKey(context.Background(), &cfg, m)

	require.ErrorContains(t, err, "AccessDeniedException")
	require.ErrorContains(t, err, "numberfinder/anon-key")
}

func TestResolveTableKey_binarySecret(t *testing.T) {
	m := &mockSecretGetter{getSecretValue: func(context.Context, *secretsmanager.GetSecretValueInput) (*secretsmanager.GetSecretValueOutput, error) {
		return &secretsmanager.GetSecretValueOutput{SecretBinary: []byte{1, 2}}, nil
	}}
	cfg := config.Config{TableKeySecretID: "numberfinder/anon-key"}

	err := config.ResolveTableKey(context.Background(), &cfg, m)

	require.ErrorContains(t, err, "no string value")
}
