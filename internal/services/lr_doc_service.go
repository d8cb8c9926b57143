package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"lrbackend/internal/domain"
	"lrbackend/internal/repositories"
	"lrbackend/internal/utils"
)

// LRDocService assembles a consignment note into a flat view-model and
// renders the two-copy PDF. The pipeline is read-only against the database.
type LRDocService struct {
	Repo      repositories.ConsignmentRepository
	RequestID string
	LogoPath  string
	TmpDir    string
	Loader    func(int64) (consignmentDoc, []invoiceRow, error)
}

// consignmentDoc is the denormalized view-model handed to the layout stage.
// Every field the template prints is declared here; nothing is looked up by
// ad hoc name downstream.
type consignmentDoc struct {
	ConsignmentID  int64
	CnoteNo        string
	BookingDate    string
	CnoteEntryDate string
	EsdDate        string
	BillingParty   string
	EnteredBy      string
	FromLocation   string
	ToLocation     string

	ConsignorName     string
	ConsignorAddress1 string
	ConsignorAddress2 string
	ConsigneeName     string
	ConsigneeAddress1 string
	ConsigneeAddress2 string

	// Sum of line-item charged weights; the stored note column is ignored.
	TotalChargedWeight float64
	ImportPermitNo     string
	ExportPermitNo     string
	EwayBillNo         string
	AddlTaxInvoiceNo   string
	ManualLrNo         string
	IsInsured          bool

	RiskType            string
	VendorCode          string
	PackagingType       string
	SaidToContain       string
	Owner               string
	TypeOfCnote         string
	VhcNo               string
	VehicleNo           string
	VehicleType         string
	ShipmentNo          string
	SpecialInstructions string
	Remarks             string

	// Fetched when assigned; the fixed template has no driver cell, so this
	// stays view-model only.
	DriverName string
}

type invoiceRow struct {
	Sno            int
	InvoiceNo      string
	InvoiceDate    string
	InvoiceValueRs float64
	NoOfCases      int
	ActualWeightT  float64
	ChargedWeightT float64
}

// GeneratePDF drives assemble, layout and encode for one consignment and
// returns the PDF bytes plus the download filename. The context bounds the
// render; a deadline hit surfaces as RenderError, never a partial document.
func (s LRDocService) GeneratePDF(ctx context.Context, consignmentID int64) ([]byte, string, error) {
	doc, rows, err := s.load(consignmentID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "lrdoc", "render",
		fmt.Sprintf("consignment_id=%d lines=%d", consignmentID, len(rows)))

	type renderResult struct {
		pdf []byte
		err error
	}
	ch := make(chan renderResult, 1)
	go func() {
		logo, err := s.loadLogo()
		if err != nil {
			ch <- renderResult{nil, domain.RenderError{Stage: "logo", Err: err}}
			return
		}
		layout := buildConsignmentLayout(doc, rows)
		pdf, err := encodeConsignmentPDF(layout, logo)
		if err != nil {
			ch <- renderResult{nil, domain.RenderError{Stage: "encode", Err: err}}
			return
		}
		ch <- renderResult{pdf, nil}
	}()

	select {
	case <-ctx.Done():
		utils.LogEvent(s.RequestID, "lrdoc", "render_timeout",
			fmt.Sprintf("consignment_id=%d", consignmentID))
		return nil, "", domain.RenderError{Stage: "encode", Err: ctx.Err()}
	case res := <-ch:
		if res.err != nil {
			return nil, "", res.err
		}
		filename := fmt.Sprintf("LR-%s.pdf", s.filenameBase(doc.CnoteNo))
		if err := s.persistTemp(doc.CnoteNo, res.pdf); err != nil {
			return nil, "", err
		}
		return res.pdf, filename, nil
	}
}

func (s LRDocService) load(consignmentID int64) (consignmentDoc, []invoiceRow, error) {
	if s.Loader != nil {
		return s.Loader(consignmentID)
	}
	return s.assemble(consignmentID)
}

// assemble merges note, parties, optional vehicle/driver, line items and the
// details extension into one view-model. A missing consignor or consignee is
// treated as a data-integrity NotFound rather than rendering blanks.
func (s LRDocService) assemble(consignmentID int64) (consignmentDoc, []invoiceRow, error) {
	var out consignmentDoc

	note, err := s.Repo.GetNote(consignmentID)
	if err != nil {
		return out, nil, err
	}

	consignor, err := s.Repo.GetConsignor(note.ConsignorID)
	if err != nil {
		return out, nil, err
	}
	consignee, err := s.Repo.GetConsignee(note.ConsigneeID)
	if err != nil {
		return out, nil, err
	}

	out = consignmentDoc{
		ConsignmentID:  note.ConsignmentID,
		CnoteNo:        note.CnoteNo,
		BookingDate:    note.BookingDate,
		CnoteEntryDate: note.CnoteEntryDate,
		EsdDate:        note.EsdDate,
		BillingParty:   note.BillingParty,
		EnteredBy:      note.EnteredBy,
		FromLocation:   note.FromLocation,
		ToLocation:     note.ToLocation,

		ConsignorName:     consignor.Name,
		ConsignorAddress1: consignor.AddressLine1,
		ConsignorAddress2: partyAddress2(consignor),
		ConsigneeName:     consignee.Name,
		ConsigneeAddress1: consignee.AddressLine1,
		ConsigneeAddress2: partyAddress2(consignee),

		ImportPermitNo:   note.ImportPermitNo,
		ExportPermitNo:   note.ExportPermitNo,
		EwayBillNo:       note.EwayBillNo,
		AddlTaxInvoiceNo: note.AddlTaxInvoiceNo,
		ManualLrNo:       note.ManualLrNo,
		IsInsured:        note.IsInsured,
	}

	// Vehicle and driver are assigned later in the note's lifecycle; absent
	// masters render blank, not as an error.
	if note.VehicleID > 0 {
		if v, err := s.Repo.GetVehicle(note.VehicleID); err == nil {
			out.VehicleNo = v.VehicleNo
			out.VehicleType = v.VehicleType
		} else if !domain.IsNotFound(err) {
			return out, nil, err
		}
	}
	if note.DriverID > 0 {
		if d, err := s.Repo.GetDriver(note.DriverID); err == nil {
			out.DriverName = d.DriverName
		} else if !domain.IsNotFound(err) {
			return out, nil, err
		}
	}

	lines, err := s.Repo.ListInvoiceLines(consignmentID)
	if err != nil {
		return out, nil, err
	}

	rows := make([]invoiceRow, 0, len(lines))
	total := 0.0
	for i, l := range lines {
		sno := l.Sno
		if sno == 0 {
			sno = i + 1
		}
		rows = append(rows, invoiceRow{
			Sno:            sno,
			InvoiceNo:      l.InvoiceNo,
			InvoiceDate:    l.InvoiceDate,
			InvoiceValueRs: l.InvoiceValueRs,
			NoOfCases:      l.NoOfCases,
			ActualWeightT:  l.ActualWeightT,
			ChargedWeightT: l.ChargedWeightT,
		})
		total += l.ChargedWeightT
	}
	out.TotalChargedWeight = total

	details, found, err := s.Repo.GetDetails(consignmentID)
	if err != nil {
		return out, nil, err
	}
	if found {
		out.RiskType = details.RiskType
		out.VendorCode = details.VendorCode
		out.PackagingType = details.PackagingType
		out.SaidToContain = details.SaidToContain
		out.Owner = details.Owner
		out.TypeOfCnote = details.TypeOfCnote
		out.VhcNo = details.VhcNo
		out.ShipmentNo = details.ShipmentNo
		out.SpecialInstructions = details.SpecialInstructions
		out.Remarks = details.Remarks
		// Details descriptors win over the vehicle master when both exist.
		if utils.TrimOrEmpty(details.VehicleNo) != "" {
			out.VehicleNo = details.VehicleNo
		}
		if utils.TrimOrEmpty(details.VehicleType) != "" {
			out.VehicleType = details.VehicleType
		}
	}

	return out, rows, nil
}

func partyAddress2(p repositories.Party) string {
	if utils.TrimOrEmpty(p.AddressLine2) != "" {
		return p.AddressLine2
	}
	return utils.NormalizeSpace(p.City + " " + p.State + " " + p.Pincode)
}

func (s LRDocService) loadLogo() ([]byte, error) {
	if utils.TrimOrEmpty(s.LogoPath) == "" {
		return nil, nil
	}
	return os.ReadFile(s.LogoPath)
}

func (s LRDocService) filenameBase(cnoteNo string) string {
	if utils.TrimOrEmpty(cnoteNo) == "" {
		return strconv.FormatInt(time.Now().Unix(), 10)
	}
	return utils.SafeFilenamePart(cnoteNo)
}

// persistTemp writes the finished document under a per-request unique name so
// concurrent generations never collide. Skipped when no tmp dir is set.
func (s LRDocService) persistTemp(cnoteNo string, pdf []byte) error {
	if utils.TrimOrEmpty(s.TmpDir) == "" {
		return nil
	}
	if err := os.MkdirAll(s.TmpDir, 0o755); err != nil {
		return domain.RenderError{Stage: "write", Err: err}
	}
	name := fmt.Sprintf("LR-%s-%d.pdf", s.filenameBase(cnoteNo), time.Now().UnixNano())
	if err := os.WriteFile(filepath.Join(s.TmpDir, name), pdf, 0o644); err != nil {
		return domain.RenderError{Stage: "write", Err: err}
	}
	return nil
}
