package config

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretGetter is the subset of the Secrets Manager client used here.
type SecretGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// NewSecretsClient builds a Secrets Manager client from the default AWS
// credential chain for region.
func NewSecretsClient(ctx context.Context, region string) (*secretsmanager.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("config.NewSecretsClient: %w", err)
	}
	return secretsmanager.NewFromConfig(awsCfg), nil
}

// ResolveTableKey fills cfg.SupabaseAnonKey from TableKeySecretID when the
// key was not given directly. An explicit key always wins and no call is made.
//
// The secret may be the bare key or a JSON object with an "anon_key" field.
func ResolveTableKey(ctx context.Context, cfg *Config, sm SecretGetter) error {
	if cfg.SupabaseAnonKey != "" || cfg.TableKeySecretID == "" {
		return nil
	}

	out, err := sm.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(cfg.TableKeySecretID),
	})
	if err != nil {
		return fmt.Errorf("config.ResolveTableKey: get secret %s: %w", cfg.TableKeySecretID, err)
	}
	if out.SecretString == nil {
		return fmt.Errorf("config.ResolveTableKey: secret %s has no string value", cfg.TableKeySecretID)
	}

	key, err := parseTableKey(*out.SecretString)
	if err != nil {
		return fmt.Errorf("config.ResolveTableKey: secret %s: %w", cfg.TableKeySecretID, err)
	}
	cfg.SupabaseAnonKey = key
	return nil
}

func parseTableKey(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "{") {
		if raw == "" {
			return "", fmt.Errorf("empty secret")
		}
		return raw, nil
	}
	var v struct {
		AnonKey string `json:"anon_key"`
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return "", fmt.Errorf("parsing secret JSON: %w", err)
	}
	if v.AnonKey == "" {
		return "", fmt.Errorf("anon_key is missing")
	}
	return v.AnonKey, nil
}
