package repositories

import (
	"testing"

	"lrbackend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

var noteCols = []string{
	"consignment_id", "consignor_id", "consignee_id", "vehicle_id", "driver_id",
	"cnote_no", "booking_date", "cnote_entry_date", "esd_date",
	"payment_type", "billing_party", "from_location", "to_location",
	"transport_mode", "service_type", "entered_by", "total_charged_weight",
	"import_permit_no", "export_permit_no", "transport_permit_no",
	"eway_bill_no", "addl_tax_invoice_no", "manual_lr_no", "is_insured",
}

func TestGetNote(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM consignment_note").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(noteCols).AddRow(
			3, 1, 2, nil, nil,
			"CN-3", "2025-04-01", "2025-04-01", "",
			"Paid", "Acme", "Chennai", "Salem",
			"Road", "FTL", "clerk1", nil,
			"", "", "", "", "", "", false,
		))

	repo := ConsignmentRepository{DB: db}
	note, err := repo.GetNote(3)
	if err != nil {
		t.Fatalf("GetNote error: %v", err)
	}
	if note.CnoteNo != "CN-3" {
		t.Fatalf("CnoteNo = %q", note.CnoteNo)
	}
	// NULL vehicle and driver map to the unassigned zero value.
	if note.VehicleID != 0 || note.DriverID != 0 {
		t.Fatalf("unassigned refs: vehicle=%d driver=%d", note.VehicleID, note.DriverID)
	}
	if note.TotalChargedWeight != 0 {
		t.Fatalf("TotalChargedWeight = %v, want 0 for NULL", note.TotalChargedWeight)
	}
}

func TestGetNoteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM consignment_note").WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(noteCols))

	repo := ConsignmentRepository{DB: db}
	_, err = repo.GetNote(404)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestListInvoiceLinesOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	cols := []string{
		"invoice_line_id", "sno", "invoice_no", "no_of_pages", "invoice_date",
		"invoice_value_rs", "no_of_cases", "no_of_units", "actual_weight_t", "charged_weight_t",
	}
	mock.ExpectQuery("ORDER BY sno ASC, invoice_line_id ASC").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(10, 1, "INV-A", 1, "2025-03-01", 500.0, 1, 1, 0.5, 0.5).
			AddRow(11, 2, "INV-B", 1, "2025-03-02", 800.0, 2, 2, 1.0, 1.2))

	repo := ConsignmentRepository{DB: db}
	lines, err := repo.ListInvoiceLines(3)
	if err != nil {
		t.Fatalf("ListInvoiceLines error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].InvoiceNo != "INV-A" || lines[1].InvoiceNo != "INV-B" {
		t.Fatalf("order lost: %q, %q", lines[0].InvoiceNo, lines[1].InvoiceNo)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetDetailsAbsent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM consignment_details").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"risk_type"}))

	repo := ConsignmentRepository{DB: db}
	_, found, err := repo.GetDetails(3)
	if err != nil {
		t.Fatalf("GetDetails error: %v", err)
	}
	if found {
		t.Fatalf("expected found=false for missing details row")
	}
}

func TestGetConsignorNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM consignor_master").WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"consignor_id"}))

	repo := ConsignmentRepository{DB: db}
	_, err = repo.GetConsignor(77)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
