package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	intconfig "lrbackend/internal/config"

	"github.com/gin-gonic/gin"
)

type driver struct {
	DriverID        int64  `json:"driverId"`
	DriverName      string `json:"driverName"`
	MobileNo        string `json:"mobileNo,omitempty"`
	LicenseNo       string `json:"licenseNo,omitempty"`
	LicenseValidity string `json:"licenseValidity,omitempty"`
	Address         string `json:"address,omitempty"`
	AadhaarNo       string `json:"aadhaarNo,omitempty"`
	Active          bool   `json:"active"`
	Remarks         string `json:"remarks,omitempty"`
}

type driverPayload struct {
	DriverName      string `json:"driverName" binding:"required"`
	MobileNo        string `json:"mobileNo"`
	LicenseNo       string `json:"licenseNo"`
	LicenseValidity string `json:"licenseValidity"`
	Address         string `json:"address"`
	AadhaarNo       string `json:"aadhaarNo"`
	Active          *bool  `json:"active"`
	Remarks         string `json:"remarks"`
}

const driverSelect = `
	SELECT
		driver_id,
		driver_name,
		COALESCE(mobile_no,'') AS mobile_no,
		COALESCE(license_no,'') AS license_no,
		CASE
			WHEN license_validity IS NULL THEN NULL
			ELSE DATE_FORMAT(license_validity, '%Y-%m-%d')
		END AS license_validity,
		COALESCE(address,'') AS address,
		COALESCE(aadhaar_no,'') AS aadhaar_no,
		COALESCE(active, TRUE) AS active,
		COALESCE(remarks,'') AS remarks
	FROM driver_master
`

// GET /api/drivers?q=kumar
func GetDrivers(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))

	where := ""
	args := []any{}
	if q != "" {
		where = " WHERE (driver_name LIKE ? OR license_no LIKE ?) "
		like := "%" + q + "%"
		args = append(args, like, like)
	}

	rows, err := intconfig.DB.Query(driverSelect+where+" ORDER BY driver_id ASC", args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch drivers: " + err.Error()})
		return
	}
	defer rows.Close()

	list := []driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to scan driver: " + err.Error()})
			return
		}
		list = append(list, d)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "row iteration failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}

// GET /api/drivers/:id
func GetDriverByID(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	row := intconfig.DB.QueryRow(driverSelect+" WHERE driver_id = ?", id)
	d, err := scanDriver(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "driver not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch driver: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, d)
}

// POST /api/drivers
func CreateDriver(c *gin.Context) {
	var payload driverPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	name := strings.TrimSpace(payload.DriverName)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "driverName is required"})
		return
	}

	validity, ok := optionalDate(c, payload.LicenseValidity, "licenseValidity")
	if !ok {
		return
	}

	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO driver_master (driver_name, mobile_no, license_no, license_validity, address, aadhaar_no, active, remarks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, name, nullIfEmpty(payload.MobileNo), nullIfEmpty(payload.LicenseNo), validity,
		nullIfEmpty(payload.Address), nullIfEmpty(payload.AadhaarNo), active, nullIfEmpty(payload.Remarks))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create driver: " + err.Error()})
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"message": "driver created", "driverId": id})
}

// PUT /api/drivers/:id
func UpdateDriver(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	var payload driverPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	name := strings.TrimSpace(payload.DriverName)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "driverName is required"})
		return
	}

	validity, ok := optionalDate(c, payload.LicenseValidity, "licenseValidity")
	if !ok {
		return
	}

	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	res, err := intconfig.DB.Exec(`
		UPDATE driver_master
		SET driver_name = ?, mobile_no = ?, license_no = ?, license_validity = ?, address = ?, aadhaar_no = ?, active = ?, remarks = ?
		WHERE driver_id = ?
	`, name, nullIfEmpty(payload.MobileNo), nullIfEmpty(payload.LicenseNo), validity,
		nullIfEmpty(payload.Address), nullIfEmpty(payload.AadhaarNo), active, nullIfEmpty(payload.Remarks), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update driver: " + err.Error()})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "driver not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "driver updated"})
}

// DELETE /api/drivers/:id
func DeleteDriver(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	res, err := intconfig.DB.Exec(`DELETE FROM driver_master WHERE driver_id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete driver: " + err.Error()})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "driver not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "driver deleted"})
}

func scanDriver(row rowScanner) (driver, error) {
	var d driver
	var validity sql.NullString
	if err := row.Scan(
		&d.DriverID,
		&d.DriverName,
		&d.MobileNo,
		&d.LicenseNo,
		&validity,
		&d.Address,
		&d.AadhaarNo,
		&d.Active,
		&d.Remarks,
	); err != nil {
		return d, err
	}
	if validity.Valid {
		d.LicenseValidity = validity.String
	}
	return d, nil
}
