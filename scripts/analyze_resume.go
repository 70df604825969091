package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/config"
	apperrors "alfredoptarigan/resume-analyzer/internal/errors"
	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

func main() {
	resumePath := flag.String("resume", "", "resume file (.pdf, .docx or .txt)")
	jdPath := flag.String("jd", "", "job description text file")
	jdText := flag.String("jd-text", "", "job description given inline, used when -jd is empty")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	if *resumePath == "" || (*jdPath == "" && *jdText == "") {
		flag.Usage()
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	data, err := os.ReadFile(*resumePath)
	if err != nil {
		log.Fatal("failed to read resume", zap.String("path", *resumePath), zap.Error(err))
	}

	jobDescription := *jdText
	if *jdPath != "" {
		raw, err := os.ReadFile(*jdPath)
		if err != nil {
			log.Fatal("failed to read job description", zap.String("path", *jdPath), zap.Error(err))
		}
		jobDescription = string(raw)
	}

	extractor := services.NewDocumentExtractor(
		services.NewPDFParserService(),
		services.NewDOCXParserService(),
		log,
	)

	resumeText, err := extractor.Extract(ctx, models.NewUploadedDocument(filepath.Base(*resumePath), data))
	if err != nil {
		exitWith(log, err)
	}

	req, err := models.BuildAnalysisRequest(resumeText, jobDescription)
	if err != nil {
		exitWith(log, err)
	}

	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Temperature, log)
	if err != nil {
		log.Fatal("failed to initialize gemini", zap.Error(err))
	}
	analyzer := services.NewAnalysisClient(geminiService, services.NewPromptBuilder(), cfg.Gemini.Timeout, log)

	theaterCtx, stopTheater := context.WithCancel(ctx)
	if cfg.Pipeline.Enabled {
		theater := services.NewProgressTheater(cfg.Pipeline.StepInterval)
		total := len(theater.Steps())
		go theater.Run(theaterCtx, func(index int, step services.PipelineStep) {
			fmt.Fprintf(os.Stderr, "[%d/%d] %s\n%s\n", index+1, total, step.Label, step.Log)
		})
	}

	result, err := analyzer.Analyze(ctx, req)
	stopTheater()
	if err != nil {
		exitWith(log, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatal("failed to write result", zap.Error(err))
	}
}

func exitWith(log *zap.Logger, err error) {
	log.Error("analysis aborted", zap.Error(err))
	fmt.Fprintln(os.Stderr, apperrors.UserMessage(apperrors.KindOf(err)))
	_ = log.Sync()
	os.Exit(1)
}
