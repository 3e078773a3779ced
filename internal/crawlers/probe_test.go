package crawlers

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
)

type staticHeaders http.Header

func (h staticHeaders) GetHeaders() (http.Header, error) {
	return http.Header(h), nil
}

const probePage = `<html><head><title>CSK vs MI - Match 12</title></head><body></body></html>`

func TestDecompressResponse(t *testing.T) {
	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	gw.Write([]byte(probePage))
	gw.Close()

	var fl bytes.Buffer
	fw, _ := flate.NewWriter(&fl, flate.DefaultCompression)
	fw.Write([]byte(probePage))
	fw.Close()

	var br bytes.Buffer
	bw := brotli.NewWriter(&br)
	bw.Write([]byte(probePage))
	bw.Close()

	tests := []struct {
		name     string
		encoding string
		body     []byte
	}{
		{"gzip", "gzip", gz.Bytes()},
		{"已解压的gzip", "gzip", []byte(probePage)},
		{"deflate", "deflate", fl.Bytes()},
		{"brotli", "br", br.Bytes()},
		{"无压缩", "", []byte(probePage)},
		{"未知编码", "zstd", []byte(probePage)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decompressResponse(tt.encoding, tt.body)
			if err != nil {
				t.Fatalf("decompressResponse() error = %v", err)
			}
			if string(got) != probePage {
				t.Errorf("decompressResponse() = %q", got)
			}
		})
	}
}

func TestProber_Probe(t *testing.T) {
	var gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Test")
		switch r.URL.Path {
		case "/match/2025/1799":
			var buf bytes.Buffer
			bw := brotli.NewWriter(&buf)
			bw.Write([]byte(probePage))
			bw.Close()
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("Content-Encoding", "br")
			w.Write(buf.Bytes())
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	prober := NewProber(ProbeConfig{Enabled: true}, staticHeaders{"X-Test": {"probe"}})

	result, err := prober.Probe(context.Background(), server.URL+"/match/2025/1799")
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if result.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", result.StatusCode)
	}
	if result.Title != "CSK vs MI - Match 12" {
		t.Errorf("Title = %q", result.Title)
	}
	if gotHeader != "probe" {
		t.Errorf("自定义头部未发送, got %q", gotHeader)
	}

	_, err = prober.Probe(context.Background(), server.URL+"/match/2025/9999")
	if !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("Probe() error = %v, want ErrMatchNotFound", err)
	}
}
