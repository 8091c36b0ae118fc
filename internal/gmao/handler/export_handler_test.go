package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/bitfantasy/mantenix/internal/gmao/testutil"
	"github.com/google/uuid"
)

func setupExportTest(t *testing.T) (*testutil.TestEnv, *entity.User) {
	t.Helper()
	env := testutil.NewEnv(t)
	admin := testutil.SeedUser(t, env.DB, "Admin", "admin@test.com", entity.RolAdmin, "clave12345")

	exportSvc := service.NewExportService(env.Repos.Request, env.Repos.Order, env.Repos.Warehouse, 10000)
	h := NewExportHandler(exportSvc)

	api := env.AuthGroup("/api/v1")
	api.GET("/exports/:file", h.Download)

	return env, admin
}

func seedExportRequests(t *testing.T, env *testutil.TestEnv, userID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		req := &entity.Request{
			ID:          uuid.New().String()[:32],
			Codigo:      uuid.New().String()[:12],
			ServicioID:  1,
			Aviso:       "AV-EXPORT",
			Observacion: "exportación de prueba con acentos: señal",
			IDEstado:    entity.RequestStatusPendiente,
			CreadoPor:   userID,
		}
		if err := env.DB.Create(req).Error; err != nil {
			t.Fatalf("seed request: %v", err)
		}
	}
}

func TestExportRequestsCSV(t *testing.T) {
	env, admin := setupExportTest(t)
	token := testutil.TokenFor(admin)
	seedExportRequests(t, env, admin.ID, 3)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/exports/solicitudes.csv", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("expected text/csv, got %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "solicitudes_") || !strings.Contains(cd, ".csv") {
		t.Errorf("unexpected Content-Disposition: %s", cd)
	}

	body := w.Body.Bytes()
	bom := []byte{0xEF, 0xBB, 0xBF}
	if !bytes.HasPrefix(body, bom) {
		t.Fatal("expected UTF-8 BOM at the start of the CSV")
	}

	records, err := csv.NewReader(bytes.NewReader(body[len(bom):])).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d records", len(records))
	}
	if records[0][0] != "codigo" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][4] != "pendiente" {
		t.Errorf("expected display status pendiente, got %v", records[1][4])
	}
}

func TestExportXLSXAndRowCap(t *testing.T) {
	env, admin := setupExportTest(t)
	token := testutil.TokenFor(admin)
	seedExportRequests(t, env, admin.ID, 5)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/exports/solicitudes.xlsx", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	// XLSX files are zip archives.
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("PK")) {
		t.Error("expected a zip-framed xlsx body")
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/exports/solicitudes.csv?max=2", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	records, err := csv.NewReader(bytes.NewReader(w.Body.Bytes()[3:])).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 capped rows, got %d records", len(records))
	}
}

func TestExportRejectsUnknownTargets(t *testing.T) {
	env, admin := setupExportTest(t)
	token := testutil.TokenFor(admin)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/exports/solicitudes.pdf", nil, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported format, got %d", w.Code)
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/exports/clientes.csv", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unexported entity, got %d", w.Code)
	}
}
