package handler

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const (
	encodingBrotli = "br"
	encodingZstd   = "zstd"
	encodingGzip   = "gzip"

	// 太小的回應壓縮後反而變大
	minCompressSize = 256
)

// 伺服器偏好順序
var supportedEncodings = []string{encodingBrotli, encodingZstd, encodingGzip}

func compressible(contentType string, size int) bool {
	if size < minCompressSize {
		return false
	}
	mediaType, _, _ := strings.Cut(contentType, ";")
	mediaType = strings.TrimSpace(strings.ToLower(mediaType))
	switch {
	case strings.HasPrefix(mediaType, "text/"):
		return true
	case mediaType == "application/javascript",
		mediaType == "application/json",
		mediaType == "application/xml",
		mediaType == "image/svg+xml":
		return true
	}
	return false
}

// negotiateEncoding 依 Accept-Encoding 挑選；q=0 視為拒絕，"*" 代表全部接受
func negotiateEncoding(header string) string {
	if header == "" {
		return ""
	}
	accepted := map[string]float64{}
	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		q := 1.0
		if v, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				q = f
			}
		}
		accepted[name] = q
	}

	best, bestQ := "", 0.0
	for _, enc := range supportedEncodings {
		q, ok := accepted[enc]
		if !ok {
			q, ok = accepted["*"]
		}
		if !ok || q <= 0 {
			continue
		}
		if q > bestQ {
			best, bestQ = enc, q
		}
	}
	return best
}

func encode(enc string, body []byte) ([]byte, error) {
	var buf bytes.Buffer
	switch enc {
	case encodingBrotli:
		w := brotli.NewWriterLevel(&buf, brotli.DefaultCompression)
		if _, err := w.Write(body); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
	case encodingZstd:
		w, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer w.Close()
		return w.EncodeAll(body, nil), nil
	case encodingGzip:
		w, err := gzip.NewWriterLevel(&buf, gzip.DefaultCompression)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(body); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported encoding %q", enc)
	}
	return buf.Bytes(), nil
}
