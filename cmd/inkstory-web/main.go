// Package main runs the inkstory storybook server on a local port.
//
// It serves the same routes as the Lambda entrypoint but is meant for
// development and self-hosting: AWS resources are optional and fall back
// to in-memory equivalents when unconfigured.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/inkstory/internal/bootstrap"
	"github.com/fpang/inkstory/internal/config"
	"github.com/fpang/inkstory/internal/gen"
	"github.com/fpang/inkstory/internal/imaging"
	"github.com/fpang/inkstory/internal/logging"
	"github.com/fpang/inkstory/internal/session"
	"github.com/fpang/inkstory/internal/web"
)

// CLI flags
var (
	portFlag  int
	localFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "inkstory-web",
	Short: "Storybook server for e-reader browsers",
	Long: `Inkstory Web serves AI-generated bedtime storybooks tuned for e-ink
browsers. A reader enters a hero name, gets a short illustrated story, and
pages through it with HOME and NEXT.

Examples:
  inkstory-web
  inkstory-web --port 9090
  inkstory-web --local`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().IntVar(&portFlag, "port", 0, "Port to listen on (overrides INKSTORY_PORT)")
	rootCmd.Flags().BoolVar(&localFlag, "local", false, "Skip AWS entirely; in-memory state, GEMINI_API_KEY from env")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) {
	initStart := time.Now()

	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()
	logging.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if portFlag > 0 {
		cfg.Port = portFlag
	}
	if localFlag {
		cfg.TableName = ""
		cfg.Bucket = ""
		cfg.EventBus = ""
		if cfg.GeminiAPIKey == "" {
			log.Fatal().Msg("--local requires GEMINI_API_KEY to be set")
		}
	}

	ctx := context.Background()
	ctrl, startup := buildController(ctx, cfg)

	mux := http.NewServeMux()
	web.NewHandler(ctrl).Register(mux)
	handler := web.WithLogging(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	startup.Config("port", strconv.Itoa(cfg.Port)).
		InitDuration(time.Since(initStart)).
		Log()
	fmt.Printf("\n  Inkstory: http://localhost:%d\n\n", cfg.Port)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

// buildController wires the session controller from configuration,
// reaching for AWS only when at least one AWS-backed resource is enabled.
func buildController(ctx context.Context, cfg config.Config) (*session.Controller, *logging.StartupLogger) {
	startup := logging.NewStartupLogger("inkstory-web").
		Config("sceneCount", strconv.Itoa(cfg.SceneCount))

	sessionCfg := session.Config{
		SceneCount:  cfg.SceneCount,
		PostProcess: imaging.ForEInk,
	}

	apiKey := cfg.GeminiAPIKey
	needsAWS := cfg.TableName != "" || cfg.Bucket != "" || cfg.EventBus != "" || apiKey == ""
	if needsAWS {
		clients := bootstrap.InitAWS(ctx)
		sessionCfg.Store = bootstrap.NewStore(clients, cfg)
		sessionCfg.Cache = bootstrap.NewImageCache(clients, cfg)
		sessionCfg.Recorder = bootstrap.NewRecorder(clients, cfg)
		key, err := bootstrap.LoadGeminiKey(ctx, clients, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load Gemini API key")
		}
		apiKey = key
		startup.DynamoTable("stories", cfg.TableName).
			S3Bucket("imageCache", cfg.Bucket).
			EventBus("events", cfg.EventBus).
			SSMParam("geminiKey", cfg.GeminiKeyParam)
	} else {
		noAWS := bootstrap.AWSClients{}
		sessionCfg.Store = bootstrap.NewStore(noAWS, cfg)
		sessionCfg.Cache = bootstrap.NewImageCache(noAWS, cfg)
	}
	if apiKey == "" {
		log.Fatal().Msg("No Gemini API key: set GEMINI_API_KEY or configure SSM")
	}

	client, err := gen.NewGeminiClient(ctx, apiKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}
	if err := gen.ValidateAPIKey(ctx, client); err != nil {
		log.Fatal().Err(err).Msg("Invalid Gemini API key")
	}
	sessionCfg.Stories = gen.NewGeminiStoryGenerator(client, gen.TextModelName())
	sessionCfg.Images = gen.NewGeminiImageGenerator(apiKey, gen.ImageModelName())
	startup.Config("textModel", gen.TextModelName()).
		Config("imageModel", gen.ImageModelName()).
		Feature("events", sessionCfg.Recorder != nil)

	return session.New(sessionCfg), startup
}
