package handlers

import (
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	intconfig "lrbackend/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func pdfTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/lrs/:id/pdf", GetLRPDF)
	return r
}

func writeTestLogo(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "logo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func expectConsignmentFetch(mock sqlmock.Sqlmock, id int64) {
	noteCols := []string{
		"consignment_id", "consignor_id", "consignee_id", "vehicle_id", "driver_id",
		"cnote_no", "booking_date", "cnote_entry_date", "esd_date",
		"payment_type", "billing_party", "from_location", "to_location",
		"transport_mode", "service_type", "entered_by", "total_charged_weight",
		"import_permit_no", "export_permit_no", "transport_permit_no",
		"eway_bill_no", "addl_tax_invoice_no", "manual_lr_no", "is_insured",
	}
	mock.ExpectQuery("FROM consignment_note").WithArgs(id).
		WillReturnRows(sqlmock.NewRows(noteCols).AddRow(
			id, 1, 2, nil, nil,
			"CN-55", "2025-04-01", "2025-04-01", "",
			"Paid", "Acme", "Chennai", "Salem",
			"Road", "FTL", "clerk1", nil,
			"", "", "", "", "", "", false,
		))

	partyCols := []string{
		"id", "code", "name", "address_line1", "address_line2",
		"city", "district", "state", "pincode", "contact_no", "tin_no", "gst_no",
	}
	mock.ExpectQuery("FROM consignor_master").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(partyCols).AddRow(
			1, "", "Acme Traders", "12 Mount Road", "", "Chennai", "", "TN", "600002", "", "", ""))
	mock.ExpectQuery("FROM consignee_master").WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(partyCols).AddRow(
			2, "", "Beta Mills", "4 Mill Lane", "", "Salem", "", "TN", "636001", "", "", ""))

	lineCols := []string{
		"invoice_line_id", "sno", "invoice_no", "no_of_pages", "invoice_date",
		"invoice_value_rs", "no_of_cases", "no_of_units", "actual_weight_t", "charged_weight_t",
	}
	mock.ExpectQuery("FROM invoice_line_items").WithArgs(id).
		WillReturnRows(sqlmock.NewRows(lineCols).
			AddRow(1, 1, "INV-1", 1, "2025-03-28", 1000.0, 2, 2, 2.4, 2.5))

	mock.ExpectQuery("FROM consignment_details").WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"risk_type"}))
}

func TestGetLRPDFSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	intconfig.DB = db
	mock.MatchExpectationsInOrder(false)

	t.Setenv("LR_LOGO_PATH", writeTestLogo(t))
	t.Setenv("LR_TMP_DIR", t.TempDir())

	expectConsignmentFetch(mock, 55)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/lrs/55/pdf", nil)
	pdfTestRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	require.Equal(t, `inline; filename="LR-CN-55.pdf"`, w.Header().Get("Content-Disposition"))
	require.True(t, strings.HasPrefix(w.Body.String(), "%PDF"), "body is not a PDF")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLRPDFNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	intconfig.DB = db

	noteCols := []string{"consignment_id"}
	mock.ExpectQuery("FROM consignment_note").WithArgs(int64(999)).
		WillReturnRows(sqlmock.NewRows(noteCols))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/lrs/999/pdf", nil)
	pdfTestRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Consignment not found", w.Body.String())
}

func TestGetLRPDFBadID(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/lrs/abc/pdf", nil)
	pdfTestRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Consignment not found", w.Body.String())
}
