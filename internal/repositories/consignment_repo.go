package repositories

import (
	"database/sql"
	"errors"

	"lrbackend/internal/domain"
)

// ConsignmentNote mirrors one row of consignment_note. Vehicle and driver
// references stay 0 while the note is unassigned.
type ConsignmentNote struct {
	ConsignmentID      int64
	ConsignorID        int64
	ConsigneeID        int64
	VehicleID          int64
	DriverID           int64
	CnoteNo            string
	BookingDate        string
	CnoteEntryDate     string
	EsdDate            string
	PaymentType        string
	BillingParty       string
	FromLocation       string
	ToLocation         string
	TransportMode      string
	ServiceType        string
	EnteredBy          string
	TotalChargedWeight float64
	ImportPermitNo     string
	ExportPermitNo     string
	TransportPermitNo  string
	EwayBillNo         string
	AddlTaxInvoiceNo   string
	ManualLrNo         string
	IsInsured          bool
}

// Party covers consignor_master and consignee_master, which share columns.
type Party struct {
	ID           int64
	Code         string
	Name         string
	AddressLine1 string
	AddressLine2 string
	City         string
	District     string
	State        string
	Pincode      string
	ContactNo    string
	TinNo        string
	GstNo        string
}

type Vehicle struct {
	VehicleID   int64
	VehicleNo   string
	VehicleType string
}

type Driver struct {
	DriverID   int64
	DriverName string
	MobileNo   string
}

type InvoiceLine struct {
	InvoiceLineID  int64
	Sno            int
	InvoiceNo      string
	NoOfPages      int
	InvoiceDate    string
	InvoiceValueRs float64
	NoOfCases      int
	NoOfUnits      int
	ActualWeightT  float64
	ChargedWeightT float64
}

type ConsignmentDetails struct {
	RiskType            string
	Owner               string
	VendorCode          string
	TypeOfCnote         string
	VhcNo               string
	VehicleNo           string
	ShipmentNo          string
	PackagingType       string
	SaidToContain       string
	VehicleType         string
	SpecialInstructions string
	Remarks             string
}

type ConsignmentRepository struct {
	DB *sql.DB
}

func (r ConsignmentRepository) GetNote(id int64) (ConsignmentNote, error) {
	var n ConsignmentNote
	var vehicleID, driverID sql.NullInt64
	var totalWeight sql.NullFloat64
	err := r.DB.QueryRow(`
		SELECT consignment_id, consignor_id, consignee_id, vehicle_id, driver_id,
			cnote_no,
			COALESCE(DATE_FORMAT(booking_date,'%Y-%m-%d'),''),
			COALESCE(DATE_FORMAT(cnote_entry_date,'%Y-%m-%d'),''),
			COALESCE(DATE_FORMAT(esd_date,'%Y-%m-%d'),''),
			COALESCE(payment_type,''), COALESCE(billing_party,''),
			COALESCE(from_location,''), COALESCE(to_location,''),
			COALESCE(transport_mode,''), COALESCE(service_type,''),
			COALESCE(entered_by,''),
			total_charged_weight,
			COALESCE(import_permit_no,''), COALESCE(export_permit_no,''),
			COALESCE(transport_permit_no,''), COALESCE(eway_bill_no,''),
			COALESCE(addl_tax_invoice_no,''), COALESCE(manual_lr_no,''),
			COALESCE(is_insured, FALSE)
		FROM consignment_note
		WHERE consignment_id = ?
	`, id).Scan(
		&n.ConsignmentID, &n.ConsignorID, &n.ConsigneeID, &vehicleID, &driverID,
		&n.CnoteNo,
		&n.BookingDate, &n.CnoteEntryDate, &n.EsdDate,
		&n.PaymentType, &n.BillingParty,
		&n.FromLocation, &n.ToLocation,
		&n.TransportMode, &n.ServiceType,
		&n.EnteredBy,
		&totalWeight,
		&n.ImportPermitNo, &n.ExportPermitNo,
		&n.TransportPermitNo, &n.EwayBillNo,
		&n.AddlTaxInvoiceNo, &n.ManualLrNo,
		&n.IsInsured,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return n, domain.NotFoundError{Resource: "consignment"}
		}
		return n, domain.InternalError{Msg: "failed to read consignment note", Err: err}
	}
	if vehicleID.Valid {
		n.VehicleID = vehicleID.Int64
	}
	if driverID.Valid {
		n.DriverID = driverID.Int64
	}
	if totalWeight.Valid {
		n.TotalChargedWeight = totalWeight.Float64
	}
	return n, nil
}

func (r ConsignmentRepository) GetConsignor(id int64) (Party, error) {
	return r.getParty("consignor_master", "consignor_id", "consignor", id)
}

func (r ConsignmentRepository) GetConsignee(id int64) (Party, error) {
	return r.getParty("consignee_master", "consignee_id", "consignee", id)
}

func (r ConsignmentRepository) getParty(table, idCol, resource string, id int64) (Party, error) {
	var p Party
	err := r.DB.QueryRow(`
		SELECT `+idCol+`, COALESCE(code,''), COALESCE(name,''),
			COALESCE(address_line1,''), COALESCE(address_line2,''),
			COALESCE(city,''), COALESCE(district,''), COALESCE(state,''),
			COALESCE(pincode,''), COALESCE(contact_no,''),
			COALESCE(tin_no,''), COALESCE(gst_no,'')
		FROM `+table+`
		WHERE `+idCol+` = ?
	`, id).Scan(
		&p.ID, &p.Code, &p.Name,
		&p.AddressLine1, &p.AddressLine2,
		&p.City, &p.District, &p.State,
		&p.Pincode, &p.ContactNo,
		&p.TinNo, &p.GstNo,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, domain.NotFoundError{Resource: resource}
		}
		return p, domain.InternalError{Msg: "failed to read " + resource, Err: err}
	}
	return p, nil
}

func (r ConsignmentRepository) GetVehicle(id int64) (Vehicle, error) {
	var v Vehicle
	err := r.DB.QueryRow(`
		SELECT vehicle_id, COALESCE(vehicle_no,''), COALESCE(vehicle_type,'')
		FROM vehicle_master
		WHERE vehicle_id = ?
	`, id).Scan(&v.VehicleID, &v.VehicleNo, &v.VehicleType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return v, domain.NotFoundError{Resource: "vehicle"}
		}
		return v, domain.InternalError{Msg: "failed to read vehicle", Err: err}
	}
	return v, nil
}

func (r ConsignmentRepository) GetDriver(id int64) (Driver, error) {
	var d Driver
	err := r.DB.QueryRow(`
		SELECT driver_id, COALESCE(driver_name,''), COALESCE(mobile_no,'')
		FROM driver_master
		WHERE driver_id = ?
	`, id).Scan(&d.DriverID, &d.DriverName, &d.MobileNo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return d, domain.NotFoundError{Resource: "driver"}
		}
		return d, domain.InternalError{Msg: "failed to read driver", Err: err}
	}
	return d, nil
}

// ListInvoiceLines returns line items in ascending sno order so the rendered
// table keeps the sequence the booking clerk entered.
func (r ConsignmentRepository) ListInvoiceLines(consignmentID int64) ([]InvoiceLine, error) {
	rows, err := r.DB.Query(`
		SELECT invoice_line_id, COALESCE(sno,0), COALESCE(invoice_no,''),
			COALESCE(no_of_pages,0),
			COALESCE(DATE_FORMAT(invoice_date,'%Y-%m-%d'),''),
			COALESCE(invoice_value_rs,0), COALESCE(no_of_cases,0),
			COALESCE(no_of_units,0),
			COALESCE(actual_weight_t,0), COALESCE(charged_weight_t,0)
		FROM invoice_line_items
		WHERE consignment_id = ?
		ORDER BY sno ASC, invoice_line_id ASC
	`, consignmentID)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to list invoice lines", Err: err}
	}
	defer rows.Close()

	lines := []InvoiceLine{}
	for rows.Next() {
		var l InvoiceLine
		if err := rows.Scan(
			&l.InvoiceLineID, &l.Sno, &l.InvoiceNo,
			&l.NoOfPages, &l.InvoiceDate,
			&l.InvoiceValueRs, &l.NoOfCases, &l.NoOfUnits,
			&l.ActualWeightT, &l.ChargedWeightT,
		); err != nil {
			return nil, domain.InternalError{Msg: "failed to scan invoice line", Err: err}
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Msg: "invoice line iteration failed", Err: err}
	}
	return lines, nil
}

// GetDetails returns the one-to-one extension record. Absence is not an
// error; the note renders with blank detail fields.
func (r ConsignmentRepository) GetDetails(consignmentID int64) (ConsignmentDetails, bool, error) {
	var d ConsignmentDetails
	err := r.DB.QueryRow(`
		SELECT COALESCE(risk_type,''), COALESCE(owner,''), COALESCE(vendor_code,''),
			COALESCE(type_of_cnote,''), COALESCE(vhc_no,''), COALESCE(vehicle_no,''),
			COALESCE(shipment_no,''), COALESCE(packaging_type,''),
			COALESCE(said_to_contain,''), COALESCE(vehicle_type,''),
			COALESCE(special_instructions,''), COALESCE(remarks,'')
		FROM consignment_details
		WHERE consignment_id = ?
	`, consignmentID).Scan(
		&d.RiskType, &d.Owner, &d.VendorCode,
		&d.TypeOfCnote, &d.VhcNo, &d.VehicleNo,
		&d.ShipmentNo, &d.PackagingType,
		&d.SaidToContain, &d.VehicleType,
		&d.SpecialInstructions, &d.Remarks,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ConsignmentDetails{}, false, nil
		}
		return d, false, domain.InternalError{Msg: "failed to read consignment details", Err: err}
	}
	return d, true, nil
}
