// Package main provides the Lambda entry point for the inkstory storybook.
//
// It serves the same routes as inkstory-web behind API Gateway: the setup
// page, the viewer, and the image/next APIs. Story state lives in DynamoDB,
// generated scene art is cached in S3, and story-started records go to
// EventBridge.
package main

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/rs/zerolog/log"

	"github.com/fpang/inkstory/internal/bootstrap"
	"github.com/fpang/inkstory/internal/config"
	"github.com/fpang/inkstory/internal/gen"
	"github.com/fpang/inkstory/internal/imaging"
	"github.com/fpang/inkstory/internal/logging"
	"github.com/fpang/inkstory/internal/session"
	"github.com/fpang/inkstory/internal/web"
)

var ctrl *session.Controller

func init() {
	initStart := time.Now()
	logging.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()
	clients := bootstrap.InitAWS(ctx)

	apiKey, err := bootstrap.LoadGeminiKey(ctx, clients, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load Gemini API key")
	}
	client, err := gen.NewGeminiClient(ctx, apiKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	recorder := bootstrap.NewRecorder(clients, cfg)
	ctrl = session.New(session.Config{
		Store:       bootstrap.NewStore(clients, cfg),
		Stories:     gen.NewGeminiStoryGenerator(client, gen.TextModelName()),
		Images:      gen.NewGeminiImageGenerator(apiKey, gen.ImageModelName()),
		Cache:       bootstrap.NewImageCache(clients, cfg),
		Recorder:    recorder,
		SceneCount:  cfg.SceneCount,
		PostProcess: imaging.ForEInk,
	})

	bootstrap.StartupLog("inkstory-lambda", initStart).
		DynamoTable("stories", cfg.TableName).
		S3Bucket("imageCache", cfg.Bucket).
		EventBus("events", cfg.EventBus).
		SSMParam("geminiKey", cfg.GeminiKeyParam).
		Config("sceneCount", strconv.Itoa(cfg.SceneCount)).
		Config("textModel", gen.TextModelName()).
		Config("imageModel", gen.ImageModelName()).
		Feature("events", recorder != nil).
		Log()
}

func main() {
	mux := http.NewServeMux()
	web.NewHandler(ctrl).Register(mux)

	adapter := httpadapter.NewV2(web.WithLogging(mux))
	lambda.Start(adapter.ProxyWithContext)
}
