package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	intconfig "lrbackend/internal/config"
	"lrbackend/internal/domain"
	"lrbackend/internal/http/middleware"
	"lrbackend/internal/repositories"
	"lrbackend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

type lrListItem struct {
	ID           int64  `json:"id"`
	CnoteNo      string `json:"cnoteNo"`
	BookingDate  string `json:"bookingDate,omitempty"`
	FromLocation string `json:"fromLocation,omitempty"`
	ToLocation   string `json:"toLocation,omitempty"`
	Consignor    string `json:"consignor,omitempty"`
	Consignee    string `json:"consignee,omitempty"`
}

type invoiceLinePayload struct {
	Sno            int     `json:"sno"`
	InvoiceNo      string  `json:"invoiceNo" binding:"required"`
	NoOfPages      int     `json:"noOfPages"`
	InvoiceDate    string  `json:"invoiceDate"`
	InvoiceValueRs float64 `json:"invoiceValueRs"`
	NoOfCases      int     `json:"noOfCases"`
	NoOfUnits      int     `json:"noOfUnits"`
	ActualWeightT  float64 `json:"actualWeightT"`
	ChargedWeightT float64 `json:"chargedWeightT"`
}

type lrDetailsPayload struct {
	RiskType            string `json:"riskType"`
	Owner               string `json:"owner"`
	VendorCode          string `json:"vendorCode"`
	TypeOfCnote         string `json:"typeOfCnote"`
	VhcNo               string `json:"vhcNo"`
	VehicleNo           string `json:"vehicleNo"`
	ShipmentNo          string `json:"shipmentNo"`
	PackagingType       string `json:"packagingType"`
	SaidToContain       string `json:"saidToContain"`
	VehicleType         string `json:"vehicleType"`
	SpecialInstructions string `json:"specialInstructions"`
	Remarks             string `json:"remarks"`
}

type lrPayload struct {
	CnoteNo           string               `json:"cnoteNo" binding:"required"`
	ConsignorID       int64                `json:"consignorId" binding:"required"`
	ConsigneeID       int64                `json:"consigneeId" binding:"required"`
	VehicleID         int64                `json:"vehicleId"`
	DriverID          int64                `json:"driverId"`
	BookingDate       string               `json:"bookingDate"`
	CnoteEntryDate    string               `json:"cnoteEntryDate"`
	EsdDate           string               `json:"esdDate"`
	PaymentType       string               `json:"paymentType"`
	BillingParty      string               `json:"billingParty"`
	FromLocation      string               `json:"fromLocation"`
	ToLocation        string               `json:"toLocation"`
	TransportMode     string               `json:"transportMode"`
	ServiceType       string               `json:"serviceType"`
	EnteredBy         string               `json:"enteredBy"`
	ImportPermitNo    string               `json:"importPermitNo"`
	ExportPermitNo    string               `json:"exportPermitNo"`
	TransportPermitNo string               `json:"transportPermitNo"`
	EwayBillNo        string               `json:"ewayBillNo"`
	AddlTaxInvoiceNo  string               `json:"addlTaxInvoiceNo"`
	ManualLrNo        string               `json:"manualLrNo"`
	IsInsured         bool                 `json:"isInsured"`
	InvoiceLines      []invoiceLinePayload `json:"invoiceLines"`
	Details           *lrDetailsPayload    `json:"details"`
}

// GetLRs lists consignment notes with party names, newest first. ?q= matches
// cnote number and locations.
func GetLRs(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))

	where := ""
	args := []any{}
	if q != "" {
		where = " WHERE (n.cnote_no LIKE ? OR n.from_location LIKE ? OR n.to_location LIKE ?) "
		like := "%" + q + "%"
		args = append(args, like, like, like)
	}

	rows, err := intconfig.DB.Query(`
		SELECT n.consignment_id, n.cnote_no,
			COALESCE(DATE_FORMAT(n.booking_date,'%Y-%m-%d'),''),
			COALESCE(n.from_location,''), COALESCE(n.to_location,''),
			COALESCE(cor.name,''), COALESCE(cee.name,'')
		FROM consignment_note n
		LEFT JOIN consignor_master cor ON cor.consignor_id = n.consignor_id
		LEFT JOIN consignee_master cee ON cee.consignee_id = n.consignee_id
	`+where+` ORDER BY n.consignment_id DESC`, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch consignment notes: " + err.Error()})
		return
	}
	defer rows.Close()

	list := []lrListItem{}
	for rows.Next() {
		var item lrListItem
		if err := rows.Scan(&item.ID, &item.CnoteNo, &item.BookingDate, &item.FromLocation, &item.ToLocation, &item.Consignor, &item.Consignee); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to scan consignment note: " + err.Error()})
			return
		}
		list = append(list, item)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "row iteration failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetLRByID returns the note with its parties, vehicle, driver, invoice lines
// and extension details in one document.
func GetLRByID(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	repo := repositories.ConsignmentRepository{DB: intconfig.DB}

	note, err := repo.GetNote(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	doc := gin.H{
		"id":                note.ConsignmentID,
		"cnoteNo":           note.CnoteNo,
		"bookingDate":       note.BookingDate,
		"cnoteEntryDate":    note.CnoteEntryDate,
		"esdDate":           note.EsdDate,
		"paymentType":       note.PaymentType,
		"billingParty":      note.BillingParty,
		"fromLocation":      note.FromLocation,
		"toLocation":        note.ToLocation,
		"transportMode":     note.TransportMode,
		"serviceType":       note.ServiceType,
		"enteredBy":         note.EnteredBy,
		"importPermitNo":    note.ImportPermitNo,
		"exportPermitNo":    note.ExportPermitNo,
		"transportPermitNo": note.TransportPermitNo,
		"ewayBillNo":        note.EwayBillNo,
		"addlTaxInvoiceNo":  note.AddlTaxInvoiceNo,
		"manualLrNo":        note.ManualLrNo,
		"isInsured":         note.IsInsured,
	}

	if consignor, err := repo.GetConsignor(note.ConsignorID); err == nil {
		doc["consignor"] = partyDoc(consignor)
	} else if !domain.IsNotFound(err) {
		RespondDomainError(c, err)
		return
	}
	if consignee, err := repo.GetConsignee(note.ConsigneeID); err == nil {
		doc["consignee"] = partyDoc(consignee)
	} else if !domain.IsNotFound(err) {
		RespondDomainError(c, err)
		return
	}
	if note.VehicleID > 0 {
		if vehicle, err := repo.GetVehicle(note.VehicleID); err == nil {
			doc["vehicle"] = gin.H{"id": vehicle.VehicleID, "vehicleNo": vehicle.VehicleNo, "vehicleType": vehicle.VehicleType}
		} else if !domain.IsNotFound(err) {
			RespondDomainError(c, err)
			return
		}
	}
	if note.DriverID > 0 {
		if driver, err := repo.GetDriver(note.DriverID); err == nil {
			doc["driver"] = gin.H{"id": driver.DriverID, "driverName": driver.DriverName, "mobileNo": driver.MobileNo}
		} else if !domain.IsNotFound(err) {
			RespondDomainError(c, err)
			return
		}
	}

	lines, err := repo.ListInvoiceLines(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	lineDocs := []gin.H{}
	total := 0.0
	for _, l := range lines {
		total += l.ChargedWeightT
		lineDocs = append(lineDocs, gin.H{
			"id":             l.InvoiceLineID,
			"sno":            l.Sno,
			"invoiceNo":      l.InvoiceNo,
			"noOfPages":      l.NoOfPages,
			"invoiceDate":    l.InvoiceDate,
			"invoiceValueRs": l.InvoiceValueRs,
			"noOfCases":      l.NoOfCases,
			"noOfUnits":      l.NoOfUnits,
			"actualWeightT":  l.ActualWeightT,
			"chargedWeightT": l.ChargedWeightT,
		})
	}
	doc["invoiceLines"] = lineDocs
	doc["totalChargedWeight"] = total

	if details, found, err := repo.GetDetails(id); err != nil {
		RespondDomainError(c, err)
		return
	} else if found {
		doc["details"] = gin.H{
			"riskType":            details.RiskType,
			"owner":               details.Owner,
			"vendorCode":          details.VendorCode,
			"typeOfCnote":         details.TypeOfCnote,
			"vhcNo":               details.VhcNo,
			"vehicleNo":           details.VehicleNo,
			"shipmentNo":          details.ShipmentNo,
			"packagingType":       details.PackagingType,
			"saidToContain":       details.SaidToContain,
			"vehicleType":         details.VehicleType,
			"specialInstructions": details.SpecialInstructions,
			"remarks":             details.Remarks,
		}
	}

	c.JSON(http.StatusOK, doc)
}

// CreateLR inserts the note, its invoice lines and its details in one
// transaction so a failed line insert never leaves a half-written LR.
func CreateLR(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	var payload lrPayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	dates, ok := lrDates(c, &payload)
	if !ok {
		return
	}

	tx, err := intconfig.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start transaction: " + err.Error()})
		return
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO consignment_note
			(cnote_no, consignor_id, consignee_id, vehicle_id, driver_id,
			 booking_date, cnote_entry_date, esd_date,
			 payment_type, billing_party, from_location, to_location,
			 transport_mode, service_type, entered_by,
			 import_permit_no, export_permit_no, transport_permit_no,
			 eway_bill_no, addl_tax_invoice_no, manual_lr_no, is_insured)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, lrNoteArgs(&payload, dates)...)
	if err != nil {
		if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
			c.JSON(http.StatusConflict, gin.H{"error": "cnote number already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create consignment note: " + err.Error()})
		return
	}

	id, err := res.LastInsertId()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read new consignment id: " + err.Error()})
		return
	}

	if err := insertInvoiceLines(tx, id, payload.InvoiceLines); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to insert invoice lines: " + err.Error()})
		return
	}
	if payload.Details != nil {
		if err := insertDetails(tx, id, payload.Details); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to insert consignment details: " + err.Error()})
			return
		}
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to commit: " + err.Error()})
		return
	}

	utils.LogEvent(requestID, "lrs", "create", "created consignment "+payload.CnoteNo)
	c.JSON(http.StatusCreated, gin.H{"message": "consignment note created", "id": id})
}

// UpdateLR rewrites the note row and fully replaces the invoice line set and
// the details record in one transaction.
func UpdateLR(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	var payload lrPayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	dates, ok := lrDates(c, &payload)
	if !ok {
		return
	}

	tx, err := intconfig.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start transaction: " + err.Error()})
		return
	}
	defer tx.Rollback()

	args := lrNoteArgs(&payload, dates)
	args = append(args, id)
	res, err := tx.Exec(`
		UPDATE consignment_note
		SET cnote_no = ?, consignor_id = ?, consignee_id = ?, vehicle_id = ?, driver_id = ?,
			booking_date = ?, cnote_entry_date = ?, esd_date = ?,
			payment_type = ?, billing_party = ?, from_location = ?, to_location = ?,
			transport_mode = ?, service_type = ?, entered_by = ?,
			import_permit_no = ?, export_permit_no = ?, transport_permit_no = ?,
			eway_bill_no = ?, addl_tax_invoice_no = ?, manual_lr_no = ?, is_insured = ?
		WHERE consignment_id = ?
	`, args...)
	if err != nil {
		if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
			c.JSON(http.StatusConflict, gin.H{"error": "cnote number already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update consignment note: " + err.Error()})
		return
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		// MySQL reports 0 both for a missing row and a no-op update, so
		// check existence before calling it a 404.
		var exists int
		if err := tx.QueryRow(`SELECT 1 FROM consignment_note WHERE consignment_id = ?`, id).Scan(&exists); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "consignment not found"})
			return
		}
	}

	if _, err := tx.Exec(`DELETE FROM invoice_line_items WHERE consignment_id = ?`, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear invoice lines: " + err.Error()})
		return
	}
	if err := insertInvoiceLines(tx, id, payload.InvoiceLines); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to insert invoice lines: " + err.Error()})
		return
	}

	if _, err := tx.Exec(`DELETE FROM consignment_details WHERE consignment_id = ?`, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear consignment details: " + err.Error()})
		return
	}
	if payload.Details != nil {
		if err := insertDetails(tx, id, payload.Details); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to insert consignment details: " + err.Error()})
			return
		}
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to commit: " + err.Error()})
		return
	}

	utils.LogEvent(requestID, "lrs", "update", "updated consignment "+payload.CnoteNo)
	c.JSON(http.StatusOK, gin.H{"message": "consignment note updated"})
}

// DeleteLR removes the note and its child rows in one transaction.
func DeleteLR(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	tx, err := intconfig.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start transaction: " + err.Error()})
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM invoice_line_items WHERE consignment_id = ?`, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete invoice lines: " + err.Error()})
		return
	}
	if _, err := tx.Exec(`DELETE FROM consignment_details WHERE consignment_id = ?`, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete consignment details: " + err.Error()})
		return
	}

	res, err := tx.Exec(`DELETE FROM consignment_note WHERE consignment_id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete consignment note: " + err.Error()})
		return
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "consignment not found"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to commit: " + err.Error()})
		return
	}

	utils.LogEvent(requestID, "lrs", "delete", "deleted consignment")
	c.JSON(http.StatusOK, gin.H{"message": "consignment note deleted"})
}

type lrDateFields struct {
	booking any
	entry   any
	esd     any
}

func lrDates(c *gin.Context, p *lrPayload) (lrDateFields, bool) {
	var d lrDateFields
	var ok bool
	if d.booking, ok = optionalDate(c, p.BookingDate, "bookingDate"); !ok {
		return d, false
	}
	if d.entry, ok = optionalDate(c, p.CnoteEntryDate, "cnoteEntryDate"); !ok {
		return d, false
	}
	if d.esd, ok = optionalDate(c, p.EsdDate, "esdDate"); !ok {
		return d, false
	}
	return d, true
}

func lrNoteArgs(p *lrPayload, dates lrDateFields) []any {
	return []any{
		strings.TrimSpace(p.CnoteNo), p.ConsignorID, p.ConsigneeID,
		nullIfZero(p.VehicleID), nullIfZero(p.DriverID),
		dates.booking, dates.entry, dates.esd,
		nullIfEmpty(p.PaymentType), nullIfEmpty(p.BillingParty),
		nullIfEmpty(p.FromLocation), nullIfEmpty(p.ToLocation),
		nullIfEmpty(p.TransportMode), nullIfEmpty(p.ServiceType),
		nullIfEmpty(p.EnteredBy),
		nullIfEmpty(p.ImportPermitNo), nullIfEmpty(p.ExportPermitNo),
		nullIfEmpty(p.TransportPermitNo), nullIfEmpty(p.EwayBillNo),
		nullIfEmpty(p.AddlTaxInvoiceNo), nullIfEmpty(p.ManualLrNo),
		p.IsInsured,
	}
}

func insertInvoiceLines(tx *sql.Tx, consignmentID int64, lines []invoiceLinePayload) error {
	for i, l := range lines {
		sno := l.Sno
		if sno == 0 {
			sno = i + 1
		}
		invoiceDate := any(nil)
		if s := strings.TrimSpace(l.InvoiceDate); s != "" {
			invoiceDate = s
		}
		if _, err := tx.Exec(`
			INSERT INTO invoice_line_items
				(consignment_id, sno, invoice_no, no_of_pages, invoice_date,
				 invoice_value_rs, no_of_cases, no_of_units, actual_weight_t, charged_weight_t)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, consignmentID, sno, strings.TrimSpace(l.InvoiceNo), l.NoOfPages, invoiceDate,
			l.InvoiceValueRs, l.NoOfCases, l.NoOfUnits, l.ActualWeightT, l.ChargedWeightT); err != nil {
			return err
		}
	}
	return nil
}

func insertDetails(tx *sql.Tx, consignmentID int64, d *lrDetailsPayload) error {
	_, err := tx.Exec(`
		INSERT INTO consignment_details
			(consignment_id, risk_type, owner, vendor_code, type_of_cnote,
			 vhc_no, vehicle_no, shipment_no, packaging_type, said_to_contain,
			 vehicle_type, special_instructions, remarks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, consignmentID,
		nullIfEmpty(d.RiskType), nullIfEmpty(d.Owner), nullIfEmpty(d.VendorCode),
		nullIfEmpty(d.TypeOfCnote), nullIfEmpty(d.VhcNo), nullIfEmpty(d.VehicleNo),
		nullIfEmpty(d.ShipmentNo), nullIfEmpty(d.PackagingType), nullIfEmpty(d.SaidToContain),
		nullIfEmpty(d.VehicleType), nullIfEmpty(d.SpecialInstructions), nullIfEmpty(d.Remarks))
	return err
}

func nullIfZero(id int64) any {
	if id <= 0 {
		return nil
	}
	return id
}

func partyDoc(p repositories.Party) gin.H {
	return gin.H{
		"id":           p.ID,
		"code":         p.Code,
		"name":         p.Name,
		"addressLine1": p.AddressLine1,
		"addressLine2": p.AddressLine2,
		"city":         p.City,
		"district":     p.District,
		"state":        p.State,
		"pincode":      p.Pincode,
		"contactNo":    p.ContactNo,
		"tinNo":        p.TinNo,
		"gstNo":        p.GstNo,
	}
}
