package services

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"lrbackend/internal/domain"
	"lrbackend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func testLoader(cnoteNo string) func(int64) (consignmentDoc, []invoiceRow, error) {
	return func(int64) (consignmentDoc, []invoiceRow, error) {
		return consignmentDoc{
				CnoteNo:       cnoteNo,
				BookingDate:   "2025-04-01",
				BillingParty:  "Acme Traders",
				FromLocation:  "Chennai",
				ToLocation:    "Bangalore",
				ConsignorName: "Acme Traders",
				ConsigneeName: "Beta Mills",
			}, []invoiceRow{
				{Sno: 1, InvoiceNo: "INV-1", InvoiceDate: "2025-03-30", InvoiceValueRs: 1200, NoOfCases: 2, ActualWeightT: 1.5, ChargedWeightT: 1.75},
			}, nil
	}
}

func TestGeneratePDFWithLoader(t *testing.T) {
	tmp := t.TempDir()
	svc := LRDocService{
		RequestID: "test-req",
		TmpDir:    tmp,
		Loader:    testLoader("CN-1001"),
	}

	pdf, filename, err := svc.GeneratePDF(context.Background(), 1)
	if err != nil {
		t.Fatalf("GeneratePDF error: %v", err)
	}
	if filename != "LR-CN-1001.pdf" {
		t.Fatalf("filename = %q", filename)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output does not start with PDF header")
	}
	// Two copies means a two-page document. gofpdf writes the page tree
	// uncompressed, so the count is visible in the raw bytes.
	if !bytes.Contains(pdf, []byte("/Count 2")) {
		t.Fatalf("expected a two-page document")
	}

	matches, err := filepath.Glob(filepath.Join(tmp, "LR-CN-1001-*.pdf"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one temp file, got %v (err %v)", matches, err)
	}
	saved, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read temp file: %v", err)
	}
	if !bytes.Equal(saved, pdf) {
		t.Fatalf("temp file differs from streamed bytes")
	}
}

func TestGeneratePDFLiteralText(t *testing.T) {
	svc := LRDocService{
		Loader: func(int64) (consignmentDoc, []invoiceRow, error) {
			return consignmentDoc{
				CnoteNo:       `CN-"X"`,
				ConsignorName: "<script>alert('x')</script>",
				ConsigneeName: "O'Brien & Sons (Pvt.)",
				Remarks:       "50% \"fragile\"",
			}, nil, nil
		},
	}

	pdf, filename, err := svc.GeneratePDF(context.Background(), 1)
	if err != nil {
		t.Fatalf("GeneratePDF error: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatalf("empty document")
	}
	// Quotes are replaced in the filename, not in the page text.
	if filename != "LR-CN-_X_.pdf" {
		t.Fatalf("filename = %q", filename)
	}
}

func TestGeneratePDFContextCanceled(t *testing.T) {
	svc := LRDocService{Loader: testLoader("CN-2001")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := svc.GeneratePDF(ctx, 1)
	if err == nil {
		t.Fatalf("expected error for canceled context")
	}
	if !domain.IsRender(err) {
		t.Fatalf("expected RenderError, got %T: %v", err, err)
	}
}

func TestGeneratePDFMissingLogo(t *testing.T) {
	svc := LRDocService{
		Loader:   testLoader("CN-3001"),
		LogoPath: filepath.Join(t.TempDir(), "no-such-logo.png"),
	}

	_, _, err := svc.GeneratePDF(context.Background(), 1)
	if !domain.IsRender(err) {
		t.Fatalf("expected RenderError for missing logo, got %v", err)
	}
}

func TestGeneratePDFConcurrent(t *testing.T) {
	tmp := t.TempDir()
	svc := LRDocService{
		TmpDir: tmp,
		Loader: func(id int64) (consignmentDoc, []invoiceRow, error) {
			if id == 1 {
				return consignmentDoc{CnoteNo: "CN-A"}, nil, nil
			}
			return consignmentDoc{CnoteNo: "CN-B"}, nil, nil
		},
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	names := make([]string, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, names[i], errs[i] = svc.GeneratePDF(context.Background(), int64(i+1))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("generation %d failed: %v", i, err)
		}
	}
	if names[0] == names[1] {
		t.Fatalf("expected distinct filenames, both %q", names[0])
	}
	matches, _ := filepath.Glob(filepath.Join(tmp, "LR-*.pdf"))
	if len(matches) != 2 {
		t.Fatalf("expected 2 temp files, got %v", matches)
	}
}

func TestAssembleTotalsAndDescriptorOverride(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	noteCols := []string{
		"consignment_id", "consignor_id", "consignee_id", "vehicle_id", "driver_id",
		"cnote_no", "booking_date", "cnote_entry_date", "esd_date",
		"payment_type", "billing_party", "from_location", "to_location",
		"transport_mode", "service_type", "entered_by", "total_charged_weight",
		"import_permit_no", "export_permit_no", "transport_permit_no",
		"eway_bill_no", "addl_tax_invoice_no", "manual_lr_no", "is_insured",
	}
	mock.ExpectQuery("FROM consignment_note").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(noteCols).AddRow(
			7, 11, 12, 5, nil,
			"CN-7", "2025-04-01", "2025-04-01", "2025-04-03",
			"TBB", "Acme Traders", "Chennai", "Bangalore",
			"Road", "FTL", "clerk1", 99.0,
			"", "", "", "EWB-1", "", "", true,
		))

	partyCols := []string{
		"id", "code", "name", "address_line1", "address_line2",
		"city", "district", "state", "pincode", "contact_no", "tin_no", "gst_no",
	}
	mock.ExpectQuery("FROM consignor_master").WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(partyCols).AddRow(
			11, "ACM", "Acme Traders", "12 Mount Road", "",
			"Chennai", "", "TN", "600002", "", "", ""))
	mock.ExpectQuery("FROM consignee_master").WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows(partyCols).AddRow(
			12, "BET", "Beta Mills", "4 Mill Lane", "Peenya Bangalore 560058",
			"Bangalore", "", "KA", "560058", "", "", ""))

	mock.ExpectQuery("FROM vehicle_master").WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"vehicle_id", "vehicle_no", "vehicle_type"}).
			AddRow(5, "TN-01-0001", "20FT"))

	lineCols := []string{
		"invoice_line_id", "sno", "invoice_no", "no_of_pages", "invoice_date",
		"invoice_value_rs", "no_of_cases", "no_of_units", "actual_weight_t", "charged_weight_t",
	}
	mock.ExpectQuery("FROM invoice_line_items").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(lineCols).
			AddRow(1, 1, "INV-1", 1, "2025-03-28", 1000.0, 2, 2, 2.4, 2.5).
			AddRow(2, 2, "INV-2", 1, "2025-03-29", 2000.0, 3, 3, 3.1, 3.25))

	detailCols := []string{
		"risk_type", "owner", "vendor_code", "type_of_cnote", "vhc_no", "vehicle_no",
		"shipment_no", "packaging_type", "said_to_contain", "vehicle_type",
		"special_instructions", "remarks",
	}
	mock.ExpectQuery("FROM consignment_details").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(detailCols).AddRow(
			"Owner Risk", "Market Vehicle", "V-9", "Manual", "VHC-3", "TN-09-9999",
			"SHP-1", "Cartons", "Auto parts", "", "", ""))

	svc := LRDocService{Repo: repositories.ConsignmentRepository{DB: db}}
	doc, rows, err := svc.assemble(7)
	if err != nil {
		t.Fatalf("assemble error: %v", err)
	}

	// Sum of line charged weights, never the stored note column.
	if doc.TotalChargedWeight != 5.75 {
		t.Fatalf("TotalChargedWeight = %v, want 5.75", doc.TotalChargedWeight)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 invoice rows, got %d", len(rows))
	}
	// The details record names the actual plying vehicle.
	if doc.VehicleNo != "TN-09-9999" {
		t.Fatalf("VehicleNo = %q, want details override", doc.VehicleNo)
	}
	// Details left vehicle_type blank, so the master value survives.
	if doc.VehicleType != "20FT" {
		t.Fatalf("VehicleType = %q, want 20FT", doc.VehicleType)
	}
	if doc.ConsigneeAddress2 != "Peenya Bangalore 560058" {
		t.Fatalf("ConsigneeAddress2 = %q", doc.ConsigneeAddress2)
	}
	// No explicit line 2 for the consignor, city/state/pincode fill in.
	if doc.ConsignorAddress2 != "Chennai TN 600002" {
		t.Fatalf("ConsignorAddress2 = %q", doc.ConsignorAddress2)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAssembleMissingConsignor(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	noteCols := []string{
		"consignment_id", "consignor_id", "consignee_id", "vehicle_id", "driver_id",
		"cnote_no", "booking_date", "cnote_entry_date", "esd_date",
		"payment_type", "billing_party", "from_location", "to_location",
		"transport_mode", "service_type", "entered_by", "total_charged_weight",
		"import_permit_no", "export_permit_no", "transport_permit_no",
		"eway_bill_no", "addl_tax_invoice_no", "manual_lr_no", "is_insured",
	}
	mock.ExpectQuery("FROM consignment_note").WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows(noteCols).AddRow(
			8, 99, 12, nil, nil,
			"CN-8", "", "", "", "", "", "", "", "", "", "", nil,
			"", "", "", "", "", "", false,
		))
	mock.ExpectQuery("FROM consignor_master").WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	svc := LRDocService{Repo: repositories.ConsignmentRepository{DB: db}}
	_, _, err = svc.assemble(8)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFound for dangling consignor, got %v", err)
	}
}
