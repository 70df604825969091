package services

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

type DOCXParserService interface {
	ExtractText(data []byte) (string, error)
}

type docxParserService struct{}

func NewDOCXParserService() DOCXParserService {
	return &docxParserService{}
}

func (d *docxParserService) ExtractText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return visibleText(doc.Editable().GetContent())
}

// visibleText walks WordprocessingML and keeps only what a reader would see:
// run text, tabs and breaks, one line per paragraph.
func visibleText(documentXML string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(documentXML))

	var (
		sb       strings.Builder
		inText   bool
		hidden   int
		tabStops int
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read document xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tabs":
				tabStops++
			case "tab":
				if hidden == 0 && tabStops == 0 {
					sb.WriteString("\t")
				}
			case "br", "cr":
				if hidden == 0 {
					sb.WriteString("\n")
				}
			case "delText", "instrText", "Fallback":
				hidden++
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "tabs":
				tabStops--
			case "p":
				if hidden == 0 {
					sb.WriteString("\n")
				}
			case "delText", "instrText", "Fallback":
				hidden--
			}
		case xml.CharData:
			if inText && hidden == 0 {
				sb.Write(t)
			}
		}
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}
