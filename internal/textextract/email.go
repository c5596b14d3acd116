package textextract

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/joseph-ayodele/quotient/constants"
	"github.com/joseph-ayodele/quotient/internal/entity"
	"github.com/joseph-ayodele/quotient/internal/ocr"
)

const maxMIMEDepth = 8

var (
	htmlPolicy  = bluemonday.UGCPolicy()
	mdConverter = converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
)

type emailBodies struct {
	plain    string
	html     string
	hasPlain bool
	hasHTML  bool
}

func (e *Extractor) extractEmail(doc entity.RawDocument) (entity.ExtractedText, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(doc.Content))
	if err != nil || !looksLikeMessage(msg.Header) {
		return entity.ExtractedText{
			Text:       ocr.NormalizeNewlines(strings.ToValidUTF8(string(doc.Content), "")),
			Method:     constants.MethodEmailBody,
			Pages:      1,
			Confidence: directTextConfidence,
			Warnings:   []string{"not a MIME message, using raw content"},
		}, nil
	}

	var bodies emailBodies
	walkPart(textproto.MIMEHeader(msg.Header), msg.Body, 0, &bodies)

	switch {
	case bodies.hasPlain:
		return entity.ExtractedText{
			Text:       ocr.NormalizeNewlines(bodies.plain),
			Method:     constants.MethodEmailBody,
			Pages:      1,
			Confidence: directTextConfidence,
		}, nil
	case bodies.hasHTML:
		md, err := HTMLToText(bodies.html)
		if err != nil {
			return entity.ExtractedText{
				Method:   constants.MethodEmailHTML,
				Warnings: []string{"html body conversion failed: " + err.Error()},
			}, nil
		}
		return entity.ExtractedText{
			Text:       md,
			Method:     constants.MethodEmailHTML,
			Pages:      1,
			Confidence: directTextConfidence,
		}, nil
	default:
		return entity.ExtractedText{
			Method:   constants.MethodEmailBody,
			Pages:    1,
			Warnings: []string{"email has no text body"},
		}, nil
	}
}

// HTMLToText sanitizes an HTML fragment and renders it as Markdown.
func HTMLToText(html string) (string, error) {
	md, err := mdConverter.ConvertString(htmlPolicy.Sanitize(html))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}

func looksLikeMessage(h mail.Header) bool {
	for _, k := range []string{"Content-Type", "Mime-Version", "From", "To", "Subject", "Date"} {
		if h.Get(k) != "" {
			return true
		}
	}
	return false
}

// walkPart descends depth-first and stops at the first text/plain body.
func walkPart(h textproto.MIMEHeader, body io.Reader, depth int, out *emailBodies) {
	if depth > maxMIMEDepth || out.hasPlain {
		return
	}

	mediaType, params, err := mime.ParseMediaType(h.Get("Content-Type"))
	if err != nil {
		mediaType, params = "text/plain", nil
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		mr := multipart.NewReader(body, params["boundary"])
		for {
			p, err := mr.NextRawPart()
			if err != nil {
				return
			}
			walkPart(p.Header, p, depth+1, out)
			if out.hasPlain {
				return
			}
		}
	}

	if disp, _, err := mime.ParseMediaType(h.Get("Content-Disposition")); err == nil && disp == "attachment" {
		return
	}

	switch mediaType {
	case "text/plain":
		out.plain = decodeBody(h, params["charset"], body)
		out.hasPlain = true
	case "text/html":
		if !out.hasHTML {
			out.html = decodeBody(h, params["charset"], body)
			out.hasHTML = true
		}
	}
}

// decodeBody undoes the transfer encoding and charset. Undecodable bytes are dropped.
func decodeBody(h textproto.MIMEHeader, charset string, body io.Reader) string {
	var r io.Reader = body
	switch strings.ToLower(strings.TrimSpace(h.Get("Content-Transfer-Encoding"))) {
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, body)
	case "quoted-printable":
		r = quotedprintable.NewReader(body)
	}

	switch cs := strings.ToLower(strings.TrimSpace(charset)); cs {
	case "", "utf-8", "utf8", "us-ascii":
	default:
		if enc, err := htmlindex.Get(cs); err == nil {
			r = enc.NewDecoder().Reader(r)
		}
	}

	b, _ := io.ReadAll(r)
	return strings.ToValidUTF8(string(b), "")
}
