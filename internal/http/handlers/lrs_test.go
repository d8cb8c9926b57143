package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	intconfig "lrbackend/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

func lrTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/lrs", CreateLR)
	r.DELETE("/api/lrs/:id", DeleteLR)
	return r
}

const lrCreateBody = `{
	"cnoteNo": "CN-7001",
	"consignorId": 11,
	"consigneeId": 12,
	"fromLocation": "Chennai",
	"toLocation": "Bangalore",
	"isInsured": true,
	"invoiceLines": [
		{"invoiceNo": "INV-1", "invoiceDate": "2025-03-28", "invoiceValueRs": 1000, "noOfCases": 2, "actualWeightT": 2.4, "chargedWeightT": 2.5},
		{"invoiceNo": "INV-2", "invoiceValueRs": 2000, "noOfCases": 3, "actualWeightT": 3.1, "chargedWeightT": 3.25}
	],
	"details": {"riskType": "Owner Risk", "owner": "Market Vehicle"}
}`

func TestCreateLRTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO consignment_note").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO invoice_line_items").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO invoice_line_items").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO consignment_details").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/lrs", strings.NewReader(lrCreateBody))
	req.Header.Set("Content-Type", "application/json")
	lrTestRouter().ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"id":7`) {
		t.Fatalf("missing new id in response: %s", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateLRDuplicateCnoteRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO consignment_note").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/lrs", strings.NewReader(lrCreateBody))
	req.Header.Set("Content-Type", "application/json")
	lrTestRouter().ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateLRFailedLineInsertRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO consignment_note").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO invoice_line_items").
		WillReturnError(&mysql.MySQLError{Number: 1366, Message: "Incorrect value"})
	mock.ExpectRollback()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/lrs", strings.NewReader(lrCreateBody))
	req.Header.Set("Content-Type", "application/json")
	lrTestRouter().ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteLRNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM invoice_line_items").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM consignment_details").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM consignment_note").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/lrs/999", nil)
	lrTestRouter().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
