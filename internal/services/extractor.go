package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "alfredoptarigan/resume-analyzer/internal/errors"
	"alfredoptarigan/resume-analyzer/internal/metrics"
	"alfredoptarigan/resume-analyzer/internal/models"
)

// DocumentExtractor turns an uploaded pdf, docx or txt file into plain text.
type DocumentExtractor interface {
	Extract(ctx context.Context, doc models.UploadedDocument) (string, error)
}

type documentExtractor struct {
	pdfParser  PDFParserService
	docxParser DOCXParserService
	logger     *zap.Logger
}

func NewDocumentExtractor(pdfParser PDFParserService, docxParser DOCXParserService, logger *zap.Logger) DocumentExtractor {
	return &documentExtractor{
		pdfParser:  pdfParser,
		docxParser: docxParser,
		logger:     logger.Named("extractor"),
	}
}

// Extract implements DocumentExtractor. An unknown extension is rejected
// before any parser sees the bytes.
func (e *documentExtractor) Extract(ctx context.Context, doc models.UploadedDocument) (string, error) {
	fileType, ok := models.ParseFileType(doc.Extension)
	if !ok {
		metrics.ExtractionsTotal.WithLabelValues("unknown", metrics.OutcomeUnsupported).Inc()
		e.logger.Warn("unsupported document format",
			zap.String("filename", doc.Filename),
			zap.String("extension", doc.Extension),
		)
		return "", apperrors.NewUnsupportedFormatError(doc.Extension)
	}

	start := time.Now()
	text, err := e.extract(ctx, fileType, doc.Data)
	metrics.ExtractionDuration.WithLabelValues(string(fileType)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ExtractionsTotal.WithLabelValues(string(fileType), metrics.OutcomeFailed).Inc()
		e.logger.Error("text extraction failed",
			zap.String("filename", doc.Filename),
			zap.String("file_type", string(fileType)),
			zap.Int("size_bytes", len(doc.Data)),
			zap.Error(err),
		)
		return "", apperrors.NewExtractionFailedError(string(fileType), err)
	}

	metrics.ExtractionsTotal.WithLabelValues(string(fileType), metrics.OutcomeSuccess).Inc()
	e.logger.Info("text extracted",
		zap.String("filename", doc.Filename),
		zap.String("file_type", string(fileType)),
		zap.Int("characters", len(text)),
		zap.Duration("took", time.Since(start)),
	)
	return text, nil
}

func (e *documentExtractor) extract(ctx context.Context, fileType models.FileType, data []byte) (string, error) {
	switch fileType {
	case models.FileTypePDF:
		content, err := e.pdfParser.ExtractText(ctx, data)
		if err != nil {
			return "", err
		}
		return content.Text, nil
	case models.FileTypeDOCX:
		return e.docxParser.ExtractText(data)
	default:
		return string(data), nil
	}
}
