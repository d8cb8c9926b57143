package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	intconfig "lrbackend/internal/config"

	"github.com/gin-gonic/gin"
)

// Consignor and consignee masters share the same column set, so one set of
// helpers serves both tables.

type party struct {
	ID           int64  `json:"id"`
	Code         string `json:"code,omitempty"`
	Name         string `json:"name"`
	AddressLine1 string `json:"addressLine1,omitempty"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city,omitempty"`
	District     string `json:"district,omitempty"`
	State        string `json:"state,omitempty"`
	Pincode      string `json:"pincode,omitempty"`
	ContactNo    string `json:"contactNo,omitempty"`
	TinNo        string `json:"tinNo,omitempty"`
	GstNo        string `json:"gstNo,omitempty"`
}

type partyPayload struct {
	Code         string `json:"code"`
	Name         string `json:"name" binding:"required"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	District     string `json:"district"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	ContactNo    string `json:"contactNo"`
	TinNo        string `json:"tinNo"`
	GstNo        string `json:"gstNo"`
}

type partyTable struct {
	table    string
	idCol    string
	resource string
}

var (
	consignorTable = partyTable{table: "consignor_master", idCol: "consignor_id", resource: "consignor"}
	consigneeTable = partyTable{table: "consignee_master", idCol: "consignee_id", resource: "consignee"}
)

func GetConsignors(c *gin.Context)     { listParties(c, consignorTable) }
func GetConsignorByID(c *gin.Context)  { getParty(c, consignorTable) }
func CreateConsignor(c *gin.Context)   { createParty(c, consignorTable) }
func UpdateConsignor(c *gin.Context)   { updateParty(c, consignorTable) }
func DeleteConsignor(c *gin.Context)   { deleteParty(c, consignorTable) }
func GetConsignees(c *gin.Context)     { listParties(c, consigneeTable) }
func GetConsigneeByID(c *gin.Context)  { getParty(c, consigneeTable) }
func CreateConsignee(c *gin.Context)   { createParty(c, consigneeTable) }
func UpdateConsignee(c *gin.Context)   { updateParty(c, consigneeTable) }
func DeleteConsignee(c *gin.Context)   { deleteParty(c, consigneeTable) }

func partySelect(t partyTable) string {
	return `
		SELECT ` + t.idCol + `,
			COALESCE(code,''), COALESCE(name,''),
			COALESCE(address_line1,''), COALESCE(address_line2,''),
			COALESCE(city,''), COALESCE(district,''), COALESCE(state,''),
			COALESCE(pincode,''), COALESCE(contact_no,''),
			COALESCE(tin_no,''), COALESCE(gst_no,'')
		FROM ` + t.table
}

func listParties(c *gin.Context, t partyTable) {
	q := strings.TrimSpace(c.Query("q"))

	where := ""
	args := []any{}
	if q != "" {
		where = " WHERE (name LIKE ? OR code LIKE ? OR city LIKE ?) "
		like := "%" + q + "%"
		args = append(args, like, like, like)
	}

	rows, err := intconfig.DB.Query(partySelect(t)+where+" ORDER BY "+t.idCol+" ASC", args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch " + t.resource + "s: " + err.Error()})
		return
	}
	defer rows.Close()

	list := []party{}
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to scan " + t.resource + ": " + err.Error()})
			return
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "row iteration failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}

func getParty(c *gin.Context, t partyTable) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	row := intconfig.DB.QueryRow(partySelect(t)+" WHERE "+t.idCol+" = ?", id)
	p, err := scanParty(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": t.resource + " not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch " + t.resource + ": " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

func createParty(c *gin.Context, t partyTable) {
	var payload partyPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO `+t.table+` (code, name, address_line1, address_line2, city, district, state, pincode, contact_no, tin_no, gst_no)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, nullIfEmpty(payload.Code), name,
		nullIfEmpty(payload.AddressLine1), nullIfEmpty(payload.AddressLine2),
		nullIfEmpty(payload.City), nullIfEmpty(payload.District), nullIfEmpty(payload.State),
		nullIfEmpty(payload.Pincode), nullIfEmpty(payload.ContactNo),
		nullIfEmpty(payload.TinNo), nullIfEmpty(payload.GstNo))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create " + t.resource + ": " + err.Error()})
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"message": t.resource + " created", "id": id})
}

func updateParty(c *gin.Context, t partyTable) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	var payload partyPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	res, err := intconfig.DB.Exec(`
		UPDATE `+t.table+`
		SET code = ?, name = ?, address_line1 = ?, address_line2 = ?, city = ?, district = ?, state = ?, pincode = ?, contact_no = ?, tin_no = ?, gst_no = ?
		WHERE `+t.idCol+` = ?
	`, nullIfEmpty(payload.Code), name,
		nullIfEmpty(payload.AddressLine1), nullIfEmpty(payload.AddressLine2),
		nullIfEmpty(payload.City), nullIfEmpty(payload.District), nullIfEmpty(payload.State),
		nullIfEmpty(payload.Pincode), nullIfEmpty(payload.ContactNo),
		nullIfEmpty(payload.TinNo), nullIfEmpty(payload.GstNo), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update " + t.resource + ": " + err.Error()})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": t.resource + " not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": t.resource + " updated"})
}

func deleteParty(c *gin.Context, t partyTable) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	res, err := intconfig.DB.Exec(`DELETE FROM `+t.table+` WHERE `+t.idCol+` = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete " + t.resource + ": " + err.Error()})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": t.resource + " not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": t.resource + " deleted"})
}

func scanParty(row rowScanner) (party, error) {
	var p party
	err := row.Scan(
		&p.ID, &p.Code, &p.Name,
		&p.AddressLine1, &p.AddressLine2,
		&p.City, &p.District, &p.State,
		&p.Pincode, &p.ContactNo,
		&p.TinNo, &p.GstNo,
	)
	return p, err
}
