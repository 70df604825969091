package services

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
)

type PDFParserService interface {
	ExtractText(ctx context.Context, data []byte) (*PDFContent, error)
}

type PDFContent struct {
	Text      string
	PageCount int
}

// pageSource is a paginated document with 1-based page numbers.
type pageSource interface {
	NumPage() int
	PageFragments(pageNum int) ([]string, error)
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

func (p *pdfParserService) ExtractText(ctx context.Context, data []byte) (*PDFContent, error) {
	src, err := openPDF(data)
	if err != nil {
		return nil, err
	}
	return assemblePages(ctx, src)
}

// assemblePages joins each page's fragments with a space and the pages with a
// newline, strictly in ascending page order.
func assemblePages(ctx context.Context, src pageSource) (content *PDFContent, err error) {
	defer func() {
		if r := recover(); r != nil {
			content, err = nil, fmt.Errorf("malformed PDF content: %v", r)
		}
	}()

	totalPage := src.NumPage()
	pages := make([]string, 0, totalPage)

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fragments, err := src.PageFragments(pageIndex)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d: %w", pageIndex, err)
		}
		pages = append(pages, strings.Join(fragments, " "))
	}

	return &PDFContent{
		Text:      strings.Join(pages, "\n"),
		PageCount: totalPage,
	}, nil
}

func openPDF(data []byte) (src pageSource, err error) {
	defer func() {
		if r := recover(); r != nil {
			src, err = nil, fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return &pdfPages{reader: r}, nil
}

type pdfPages struct {
	reader *pdf.Reader
}

func (p *pdfPages) NumPage() int {
	return p.reader.NumPage()
}

// PageFragments returns the page's text runs in content-stream order. A run
// ends where the next glyph does not follow on from the previous one, and after
// every TJ array. A page without a content stream yields no fragments.
func (p *pdfPages) PageFragments(pageNum int) ([]string, error) {
	page := p.reader.Page(pageNum)
	if page.V.IsNull() {
		return nil, nil
	}
	return textRuns(page.Content().Text), nil
}

// tjMarker is the glyph the pdf reader appends after each TJ array.
const tjMarker = "\n"

func textRuns(glyphs []pdf.Text) []string {
	var (
		runs []string
		sb   strings.Builder
		prev *pdf.Text
	)
	flush := func() {
		if run := strings.TrimSpace(sb.String()); run != "" {
			runs = append(runs, run)
		}
		sb.Reset()
		prev = nil
	}

	for i := range glyphs {
		glyph := &glyphs[i]
		if glyph.S == tjMarker {
			flush()
			continue
		}
		if prev != nil && !followsOn(*prev, *glyph) {
			flush()
		}
		sb.WriteString(glyph.S)
		prev = glyph
	}
	flush()

	return runs
}

// followsOn reports whether next sits on the same baseline as prev and starts
// within half an em of where prev ended.
func followsOn(prev, next pdf.Text) bool {
	tolerance := next.FontSize / 2
	if tolerance <= 0 {
		tolerance = 1
	}
	if math.Abs(next.Y-prev.Y) > tolerance {
		return false
	}
	gap := next.X - (prev.X + prev.W)
	return math.Abs(gap) <= tolerance
}
