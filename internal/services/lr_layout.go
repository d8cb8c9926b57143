package services

import (
	"strconv"

	"lrbackend/internal/utils"
)

// The consignment note is a fixed template: two copies of the same page, one
// for head office and one for the driver. buildConsignmentLayout is pure so
// the template can be checked without touching a PDF engine.

type labeledValue struct {
	Label string
	Value string
}

type partyBlock struct {
	Title    string
	Name     string
	Address1 string
	Address2 string
}

type consignmentPage struct {
	CopyLabel string
	Title     string
	Subtitle  string

	TopGrid [][]labeledValue

	Consignor partyBlock
	Consignee partyBlock

	InvoiceTitle   string
	InvoiceColumns []string
	InvoiceRows    [][]string

	PermitCells []labeledValue

	InsuranceLead     string
	NotInsuredChecked bool
	NotInsuredText    string
	InsuredChecked    bool
	InsuredText       string

	DetailsTitle string
	DetailRows   [][]labeledValue

	SignCaption []string
	PodCaption  []string
	Caution     string
}

type consignmentLayout struct {
	Pages []consignmentPage
}

var copyLabels = []string{"HO Copy", "Driver Copy"}

func buildConsignmentLayout(doc consignmentDoc, rows []invoiceRow) consignmentLayout {
	layout := consignmentLayout{}
	for _, label := range copyLabels {
		page := buildConsignmentPage(doc, rows)
		page.CopyLabel = label
		layout.Pages = append(layout.Pages, page)
	}
	return layout
}

func buildConsignmentPage(doc consignmentDoc, rows []invoiceRow) consignmentPage {
	invoiceRows := make([][]string, 0, len(rows))
	for i, r := range rows {
		sno := r.Sno
		if sno == 0 {
			sno = i + 1
		}
		invoiceRows = append(invoiceRows, []string{
			strconv.Itoa(sno),
			r.InvoiceNo,
			r.InvoiceDate,
			utils.FormatAmount(r.InvoiceValueRs),
			strconv.Itoa(r.NoOfCases),
			utils.FormatWeight(r.ActualWeightT),
		})
	}

	return consignmentPage{
		Title:    "CONSIGNMENT NOTE",
		Subtitle: "Regd. & Head Office",

		TopGrid: [][]labeledValue{
			{
				{Label: "CNote No", Value: doc.CnoteNo},
				{Label: "Bkg. Date", Value: doc.BookingDate},
				{Label: "CNote Entry Dt", Value: doc.CnoteEntryDate},
				{Label: "ESD", Value: doc.EsdDate},
			},
			{
				{Label: "Billing Party", Value: doc.BillingParty},
				{Label: "Entered By", Value: doc.EnteredBy},
				{Label: "From", Value: doc.FromLocation},
				{Label: "To", Value: doc.ToLocation},
			},
		},

		Consignor: partyBlock{
			Title:    "CONSIGNOR",
			Name:     doc.ConsignorName,
			Address1: doc.ConsignorAddress1,
			Address2: doc.ConsignorAddress2,
		},
		Consignee: partyBlock{
			Title:    "CONSIGNEE",
			Name:     doc.ConsigneeName,
			Address1: doc.ConsigneeAddress1,
			Address2: doc.ConsigneeAddress2,
		},

		InvoiceTitle:   "INVOICE DETAILS",
		InvoiceColumns: []string{"S.No", "Invoice No", "Invoice Dt", "Invoice Value", "No. of Cases", "Actual WT (T)"},
		InvoiceRows:    invoiceRows,

		PermitCells: []labeledValue{
			{Label: "Total Charged Weight", Value: utils.FormatWeight(doc.TotalChargedWeight)},
			{Label: "Import Permit No", Value: doc.ImportPermitNo},
			{Label: "Export Permit No", Value: doc.ExportPermitNo},
			{Label: "E-Way Bill No", Value: doc.EwayBillNo},
			{Label: "Add Tax Invoice No", Value: doc.AddlTaxInvoiceNo},
			{Label: "Manual LR No", Value: doc.ManualLrNo},
		},

		InsuranceLead:     "Insurance: Customer has stated that:-",
		NotInsuredChecked: !doc.IsInsured,
		NotInsuredText:    "He has not insured the consignment",
		InsuredChecked:    doc.IsInsured,
		InsuredText:       "He has insured the consignment",

		DetailsTitle: "CONSIGNMENT DETAILS",
		DetailRows: [][]labeledValue{
			{
				{Label: "Risk Type", Value: doc.RiskType},
				{Label: "Vendor Code", Value: doc.VendorCode},
				{Label: "Packaging Type", Value: doc.PackagingType},
				{Label: "Said To Contain", Value: doc.SaidToContain},
			},
			{
				{Label: "Owner", Value: doc.Owner},
			},
			{
				{Label: "Type Of CNote", Value: doc.TypeOfCnote},
				{Label: "VHC No", Value: doc.VhcNo},
				{Label: "Vehicle No", Value: doc.VehicleNo},
				{Label: "Vehicle Type", Value: doc.VehicleType},
			},
			{
				{Label: "Shipment No", Value: doc.ShipmentNo},
				{Label: "Special Inst", Value: doc.SpecialInstructions},
				{Label: "Remarks", Value: doc.Remarks},
			},
		},

		SignCaption: []string{
			"Consignor's Signature",
			"Stamp ___________",
			"Date _________",
		},
		PodCaption: []string{
			"Proof of Delivery",
			"Consignment Acknowledged by Consignee:",
			"Received the Shipment as Per Consignment Note",
			"Received By: _____________________",
		},
		Caution: "CAUTION: This consignment will not be detained, diverted, re-routed or re-booked without Consignee Bank's written permission. Will be delivered at the destination.",
	}
}
