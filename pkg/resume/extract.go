package resume

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// Supported media types for resume uploads.
const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var reTags = regexp.MustCompile(`<[^>]+>`)

// ExtractText converts a document payload into plain text. Untrusted content
// can pathologically slow a parser, so extraction runs under the deadline of
// ctx; hitting it is reported as ErrParseFailure like any other parse error.
func ExtractText(ctx context.Context, mediaType string, data []byte) (string, error) {
	switch mediaType {
	case MediaTypePDF, MediaTypeDOCX:
	default:
		return "", ErrUnsupportedFormat
	}

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrParseFailure, err)
	}

	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		var r result
		if mediaType == MediaTypePDF {
			r.text, r.err = extractTextFromPDF(data)
		} else {
			r.text, r.err = extractTextFromDocx(data)
		}
		ch <- r
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", ErrParseFailure, ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return "", fmt.Errorf("%w: %v", ErrParseFailure, r.err)
		}
		return r.text, nil
	}
}

func extractTextFromPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	r, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err = io.Copy(&buf, rs); err != nil {
		return "", err
	}
	return normalizeWhitespace(buf.String()), nil
}

func extractTextFromDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", err
			}
			defer rc.Close()
			docXML, err = io.ReadAll(rc)
			if err != nil {
				return "", err
			}
			break
		}
	}
	if len(docXML) == 0 {
		return "", errors.New("no document.xml found in docx")
	}
	xml := string(docXML)
	// Paragraph boundaries become newlines; everything else is tag noise.
	xml = strings.ReplaceAll(xml, "</w:p>", "\n")
	xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
	txt := reTags.ReplaceAllString(xml, " ")
	return normalizeWhitespace(txt), nil
}

func normalizeWhitespace(s string) string {
	re := regexp.MustCompile(`[ \t\r\f\v]+`)
	s = re.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "\u00A0", " ")
	// Preserve newlines but collapse runs
	reN := regexp.MustCompile(`\n+`)
	s = reN.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
