package backend

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	_ "github.com/jo-hoe/filterapi/internal/backend/filters"
	"github.com/jo-hoe/filterapi/internal/backend/filterstructure"
	"github.com/jo-hoe/filterapi/internal/core"
	"github.com/labstack/echo/v4"
)

type testServer struct {
	echo        *echo.Echo
	coreService *core.CoreService
	tempDir     string
}

func newTestServer(t *testing.T, configure ...func(*core.ServiceConfig)) *testServer {
	t.Helper()
	cfg := core.DefaultConfig()
	cfg.Archive.TempDir = t.TempDir()
	for _, fn := range configure {
		fn(cfg)
	}

	coreService := core.NewCoreService(cfg, filterstructure.DefaultRegistry)
	t.Cleanup(func() { _ = coreService.Close() })

	e := DefineServer(cfg)
	NewAPIService(cfg, coreService).SetRoutes(e)
	return &testServer{echo: e, coreService: coreService, tempDir: cfg.Archive.TempDir}
}

func createTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x*37 + y*91), G: uint8(x * 5), B: uint8(y * 7), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func createTestJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(createTestPNG(t, width, height)))
	if err != nil {
		t.Fatalf("failed to decode test image: %v", err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

// multipartRequest builds a POST with an optional file under "arquivo" and extra form fields
func multipartRequest(t *testing.T, target, filename string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field %s: %v", k, err)
		}
	}
	if filename != "" {
		part, err := writer.CreateFormFile(uploadField, filename)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req
}

func (s *testServer) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestAPIService_Root(t *testing.T) {
	s := newTestServer(t)
	rec := s.serve(httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var body Capabilities
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	expected := []string{"sobel", "roberts", "canny", "gaussiano", "bilateral", "media", "mediana"}
	if strings.Join(body.FiltrosDisponiveis, ",") != strings.Join(expected, ",") {
		t.Errorf("Expected filters %v, got %v", expected, body.FiltrosDisponiveis)
	}
	if body.Mensagem != APIName || body.Versao != APIVersion || body.Documentacao != DocsPath {
		t.Errorf("Unexpected capability header %+v", body)
	}
	if len(body.Niveis) != 3 || !body.EndpointsCustomizados {
		t.Errorf("Unexpected levels or custom flag %+v", body)
	}
}

func TestAPIService_ProbeAndDocs(t *testing.T) {
	s := newTestServer(t)

	rec := s.serve(httptest.NewRequest(http.MethodGet, "/probe", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected probe status 200, got %d", rec.Code)
	}

	rec = s.serve(httptest.NewRequest(http.MethodGet, "/docs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected docs status 200, got %d", rec.Code)
	}
	for _, path := range []string{"/filtros/canny/customizado", "/filtros/sobel/:nivel/download"} {
		if !strings.Contains(rec.Body.String(), path) {
			t.Errorf("Expected docs to list %s", path)
		}
	}
	if strings.Contains(rec.Body.String(), "/filtros/sobel/customizado") {
		t.Error("Expected no custom route for sobel")
	}
}

func TestAPIService_PresetInline(t *testing.T) {
	s := newTestServer(t)
	req := multipartRequest(t, "/filtros/gaussiano/2?formato=jpg", "photo.jpg", createTestJPEG(t, 100, 100), nil)
	rec := s.serve(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["filtro"] != "gaussiano" || body["nivel"] != float64(2) {
		t.Errorf("Unexpected filter/level %v/%v", body["filtro"], body["nivel"])
	}
	params, ok := body["parametros"].(map[string]any)
	if !ok {
		t.Fatalf("Expected parametros object, got %T", body["parametros"])
	}
	if params["kernel_width"] != float64(15) || params["kernel_height"] != float64(15) || params["sigma"] != float64(0) {
		t.Errorf("Unexpected params %v", params)
	}
	for _, key := range []string{"imagem_original", "imagem_filtrada"} {
		uri, _ := body[key].(string)
		if !strings.HasPrefix(uri, "data:image/jpeg;base64,") {
			t.Errorf("Expected %s to be a jpeg data uri, got prefix %.30q", key, uri)
		}
	}
	if _, ok := body["tempo_ms"].(float64); !ok {
		t.Errorf("Expected tempo_ms number, got %T", body["tempo_ms"])
	}
}

func TestAPIService_EdgeFilterReturnsPNGByDefault(t *testing.T) {
	s := newTestServer(t)
	rec := s.serve(multipartRequest(t, "/filtros/sobel/1", "photo.png", createTestPNG(t, 20, 20), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	uri, _ := body["imagem_filtrada"].(string)
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("Expected png data uri, got prefix %.30q", uri)
	}
	if body["parametros"] != nil {
		t.Errorf("Expected null parametros for sobel, got %v", body["parametros"])
	}
}

func TestAPIService_CustomInline(t *testing.T) {
	s := newTestServer(t)
	fields := map[string]string{"limiar1": "30", "limiar2": "90", "tamanho_abertura": "5", "aplicar_blur": "false"}
	rec := s.serve(multipartRequest(t, "/filtros/canny/customizado", "photo.png", createTestPNG(t, 30, 30), fields))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["nivel"] != nil {
		t.Errorf("Expected null nivel for custom run, got %v", body["nivel"])
	}
	params, _ := body["parametros"].(map[string]any)
	if params["limiar1"] != float64(30) || params["tamanho_abertura"] != float64(5) || params["aplicar_blur"] != false {
		t.Errorf("Unexpected params %v", params)
	}
}

func TestAPIService_CustomDefaults(t *testing.T) {
	s := newTestServer(t)
	rec := s.serve(multipartRequest(t, "/filtros/mediana/customizado", "photo.png", createTestPNG(t, 20, 20), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	params, _ := decodeBody(t, rec)["parametros"].(map[string]any)
	if params["tamanho"] != float64(3) {
		t.Errorf("Expected default tamanho 3, got %v", params["tamanho"])
	}
}

func TestAPIService_Download(t *testing.T) {
	s := newTestServer(t)
	rec := s.serve(multipartRequest(t, "/filtros/media/1/download?formato=jpeg", "photo.png", createTestPNG(t, 20, 20), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "filtro_media_nivel1.zip") {
		t.Errorf("Unexpected Content-Disposition %q", cd)
	}

	reader, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	if err != nil {
		t.Fatalf("Expected zip body, got %v", err)
	}
	names := map[string]bool{}
	for _, f := range reader.File {
		names[f.Name] = true
	}
	for _, expected := range []string{"original.jpeg", "filtrada.jpeg", "info.json"} {
		if !names[expected] {
			t.Errorf("Expected zip entry %s, got %v", expected, names)
		}
	}

	if err := s.coreService.Close(); err != nil {
		t.Fatalf("Expected no error on close, got %v", err)
	}
	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		t.Fatalf("failed to read temp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected archive to be cleaned up, found %d files", len(entries))
	}
}

func TestAPIService_CustomDownloadName(t *testing.T) {
	s := newTestServer(t)
	fields := map[string]string{"kernel_width": "3", "kernel_height": "5"}
	rec := s.serve(multipartRequest(t, "/filtros/media/customizado/download", "photo.png", createTestPNG(t, 20, 20), fields))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "filtro_media_customizado.zip") {
		t.Errorf("Unexpected Content-Disposition %q", cd)
	}
}

func TestAPIService_Errors(t *testing.T) {
	validPNG := createTestPNG(t, 20, 20)

	tests := []struct {
		name        string
		target      string
		filename    string
		data        []byte
		fields      map[string]string
		wantStatus  int
		wantMessage string
	}{
		{"level out of range", "/filtros/sobel/4", "a.png", validPNG, nil, http.StatusUnprocessableEntity, "nivel"},
		{"level not a number", "/filtros/sobel/abc", "a.png", validPNG, nil, http.StatusUnprocessableEntity, "nivel"},
		{"unknown format", "/filtros/sobel/1?formato=gif", "a.png", validPNG, nil, http.StatusUnprocessableEntity, "formato"},
		{"unsupported extension", "/filtros/sobel/1", "a.gif", validPNG, nil, http.StatusBadRequest, "Formato de arquivo não suportado"},
		{"empty file", "/filtros/sobel/1", "a.png", []byte{}, nil, http.StatusBadRequest, "vazio"},
		{"not an image", "/filtros/sobel/1", "a.png", []byte("definitely not a png"), nil, http.StatusBadRequest, "decodificar"},
		{"image too small", "/filtros/sobel/1", "a.png", createTestPNG(t, 5, 40), nil, http.StatusBadRequest, "muito pequena"},
		{"missing file", "/filtros/sobel/1", "", nil, nil, http.StatusBadRequest, "Nenhum arquivo foi enviado"},
		{"threshold order", "/filtros/canny/customizado", "a.png", validPNG,
			map[string]string{"limiar1": "200", "limiar2": "100"}, http.StatusBadRequest, "limiar2"},
		{"even kernel", "/filtros/gaussiano/customizado", "a.png", validPNG,
			map[string]string{"kernel_width": "4"}, http.StatusBadRequest, "kernel_width"},
		{"sigma not a number", "/filtros/gaussiano/customizado", "a.png", validPNG,
			map[string]string{"sigma": "NaN"}, http.StatusBadRequest, "sigma"},
		{"sigma infinite", "/filtros/gaussiano/customizado", "a.png", validPNG,
			map[string]string{"sigma": "+Inf"}, http.StatusBadRequest, "sigma"},
		{"parameter of wrong type", "/filtros/bilateral/customizado", "a.png", validPNG,
			map[string]string{"d": "wide"}, http.StatusUnprocessableEntity, "Erro de validação"},
		{"custom on edge filter", "/filtros/sobel/customizado", "a.png", validPNG, nil, http.StatusUnprocessableEntity, "nivel"},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.serve(multipartRequest(t, tt.target, tt.filename, tt.data, tt.fields))
			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			message, _ := decodeBody(t, rec)["mensagem"].(string)
			if !strings.Contains(message, tt.wantMessage) {
				t.Errorf("Expected message containing %q, got %q", tt.wantMessage, message)
			}
		})
	}
}

func TestAPIService_TooLarge(t *testing.T) {
	t.Run("decoded size limit", func(t *testing.T) {
		s := newTestServer(t, func(cfg *core.ServiceConfig) { cfg.Upload.MaxSizeBytes = 100 })
		rec := s.serve(multipartRequest(t, "/filtros/sobel/1", "a.png", createTestPNG(t, 40, 40), nil))
		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("Expected status 413, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("extension checked before size", func(t *testing.T) {
		s := newTestServer(t, func(cfg *core.ServiceConfig) { cfg.Upload.MaxSizeBytes = 100 })
		rec := s.serve(multipartRequest(t, "/filtros/sobel/1", "a.gif", bytes.Repeat([]byte{0x47}, 4096), nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("Expected status 400, got %d: %s", rec.Code, rec.Body.String())
		}
		if message, _ := decodeBody(t, rec)["mensagem"].(string); !strings.Contains(message, "Formato de arquivo não suportado") {
			t.Errorf("Unexpected message %q", message)
		}
	})

	t.Run("pixel limit", func(t *testing.T) {
		s := newTestServer(t, func(cfg *core.ServiceConfig) { cfg.Upload.MaxPixels = 100 })
		rec := s.serve(multipartRequest(t, "/filtros/sobel/1", "a.png", createTestPNG(t, 20, 20), nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("Expected status 400, got %d: %s", rec.Code, rec.Body.String())
		}
		if message, _ := decodeBody(t, rec)["mensagem"].(string); !strings.Contains(message, "20x20") {
			t.Errorf("Unexpected message %q", message)
		}
	})

	t.Run("request body limit", func(t *testing.T) {
		s := newTestServer(t, func(cfg *core.ServiceConfig) { cfg.Upload.BodyLimit = "1K" })
		rec := s.serve(multipartRequest(t, "/filtros/sobel/1", "a.png", bytes.Repeat([]byte{0x89}, 4096), nil))
		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("Expected status 413, got %d: %s", rec.Code, rec.Body.String())
		}
		if message, _ := decodeBody(t, rec)["mensagem"].(string); !strings.Contains(message, "Arquivo muito grande") {
			t.Errorf("Unexpected message %q", message)
		}
	})
}

func TestAPIService_NotFound(t *testing.T) {
	s := newTestServer(t)
	rec := s.serve(httptest.NewRequest(http.MethodGet, "/does/not/exist", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", rec.Code)
	}
	if decodeBody(t, rec)["mensagem"] != "Recurso não encontrado" {
		t.Errorf("Unexpected body %s", rec.Body.String())
	}
}
