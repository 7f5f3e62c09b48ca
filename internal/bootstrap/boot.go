// Package bootstrap wires the inkstory binaries to their backing services.
//
// Both the web server and the Lambda entrypoint need the same subset of:
// AWS config, DynamoDB story store, S3 image cache, EventBridge recorder,
// SSM key fetch, and startup logging. This package extracts the common
// wiring so each main is a short composition of helpers.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"

	"github.com/fpang/inkstory/internal/config"
	"github.com/fpang/inkstory/internal/events"
	"github.com/fpang/inkstory/internal/imagecache"
	"github.com/fpang/inkstory/internal/logging"
	"github.com/fpang/inkstory/internal/store"
)

// AWSClients holds the AWS SDK handles shared by the initializers below.
type AWSClients struct {
	Config aws.Config
	SSM    *ssm.Client
}

// InitAWS loads the default AWS config. Fatals on failure since nothing
// downstream can work without it.
func InitAWS(ctx context.Context) AWSClients {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}
	log.Debug().Str("region", cfg.Region).Msg("AWS config loaded")
	return AWSClients{
		Config: cfg,
		SSM:    ssm.NewFromConfig(cfg),
	}
}

// NewStore returns the DynamoDB story store when a table is configured,
// otherwise an in-memory store. The in-memory fallback keeps local
// development working without any AWS resources.
func NewStore(clients AWSClients, cfg config.Config) store.StoryStore {
	if cfg.TableName == "" {
		log.Warn().Msg("INKSTORY_TABLE_NAME not set — using in-memory story store")
		return store.NewMemoryStore()
	}
	return store.NewDynamoStore(dynamodb.NewFromConfig(clients.Config), cfg.TableName)
}

// NewImageCache returns the S3-backed scene image cache when a bucket is
// configured, otherwise an in-process cache.
func NewImageCache(clients AWSClients, cfg config.Config) imagecache.Cache {
	if cfg.Bucket == "" {
		log.Warn().Msg("INKSTORY_IMAGE_BUCKET not set — caching images in process memory")
		return imagecache.NewMemory()
	}
	return imagecache.NewS3Cache(s3.NewFromConfig(clients.Config), cfg.Bucket)
}

// NewRecorder returns the EventBridge story-started recorder, or nil when
// no bus is configured. A nil recorder disables event publishing.
func NewRecorder(clients AWSClients, cfg config.Config) events.Recorder {
	if cfg.EventBus == "" {
		log.Warn().Msg("INKSTORY_EVENT_BUS not set — story events disabled")
		return nil
	}
	return events.NewEventBridgeRecorder(eventbridge.NewFromConfig(clients.Config), cfg.EventBus)
}

// LoadGeminiKey resolves the Gemini API key: the GEMINI_API_KEY env var
// wins, otherwise the configured SSM parameter is fetched with decryption.
func LoadGeminiKey(ctx context.Context, clients AWSClients, cfg config.Config) (string, error) {
	if cfg.GeminiAPIKey != "" {
		return cfg.GeminiAPIKey, nil
	}
	start := time.Now()
	result, err := clients.SSM.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &cfg.GeminiKeyParam,
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("read API key from SSM %s: %w", cfg.GeminiKeyParam, err)
	}
	log.Debug().Str("param", cfg.GeminiKeyParam).Dur("elapsed", time.Since(start)).Msg("Gemini API key loaded from SSM")
	return *result.Parameter.Value, nil
}

// StartupLog is a convenience wrapper for the startup logger.
func StartupLog(name string, initStart time.Time) *logging.StartupLogger {
	return logging.NewStartupLogger(name).InitDuration(time.Since(initStart))
}

