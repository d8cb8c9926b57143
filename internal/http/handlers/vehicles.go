package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	intconfig "lrbackend/internal/config"
	"lrbackend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

type vehicle struct {
	VehicleID        int64    `json:"vehicleId"`
	VehicleNo        string   `json:"vehicleNo"`
	VehicleType      string   `json:"vehicleType,omitempty"`
	RegistrationDate string   `json:"registrationDate,omitempty"`
	CapacityTons     *float64 `json:"capacityTons,omitempty"`
	Active           bool     `json:"active"`
	Remarks          string   `json:"remarks,omitempty"`
}

type vehiclePayload struct {
	VehicleNo        string   `json:"vehicleNo" binding:"required"`
	VehicleType      string   `json:"vehicleType"`
	RegistrationDate string   `json:"registrationDate"`
	CapacityTons     *float64 `json:"capacityTons"`
	Active           *bool    `json:"active"`
	Remarks          string   `json:"remarks"`
}

const vehicleSelect = `
	SELECT
		vehicle_id,
		vehicle_no,
		COALESCE(vehicle_type,'') AS vehicle_type,
		CASE
			WHEN registration_date IS NULL THEN NULL
			ELSE DATE_FORMAT(registration_date, '%Y-%m-%d')
		END AS registration_date,
		capacity_tons,
		COALESCE(active, TRUE) AS active,
		COALESCE(remarks,'') AS remarks
	FROM vehicle_master
`

// GET /api/vehicles?q=KA01
func GetVehicles(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))

	where := ""
	args := []any{}
	if q != "" {
		where = " WHERE (vehicle_no LIKE ? OR vehicle_type LIKE ?) "
		like := "%" + q + "%"
		args = append(args, like, like)
	}

	rows, err := intconfig.DB.Query(vehicleSelect+where+" ORDER BY vehicle_id ASC", args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch vehicles: " + err.Error()})
		return
	}
	defer rows.Close()

	list := []vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to scan vehicle: " + err.Error()})
			return
		}
		list = append(list, v)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "row iteration failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}

// GET /api/vehicles/:id
func GetVehicleByID(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	row := intconfig.DB.QueryRow(vehicleSelect+" WHERE vehicle_id = ?", id)
	v, err := scanVehicle(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch vehicle: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, v)
}

// POST /api/vehicles
func CreateVehicle(c *gin.Context) {
	var payload vehiclePayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	vehicleNo := strings.TrimSpace(payload.VehicleNo)
	if vehicleNo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vehicleNo is required"})
		return
	}

	regDate, ok := optionalDate(c, payload.RegistrationDate, "registrationDate")
	if !ok {
		return
	}

	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO vehicle_master (vehicle_no, vehicle_type, registration_date, capacity_tons, active, remarks)
		VALUES (?, ?, ?, ?, ?, ?)
	`, vehicleNo, nullIfEmpty(payload.VehicleType), regDate, payload.CapacityTons, active, nullIfEmpty(payload.Remarks))
	if err != nil {
		if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
			c.JSON(http.StatusConflict, gin.H{"error": "vehicle number already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create vehicle: " + err.Error()})
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"message": "vehicle created", "vehicleId": id})
}

// PUT /api/vehicles/:id
func UpdateVehicle(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	var payload vehiclePayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	vehicleNo := strings.TrimSpace(payload.VehicleNo)
	if vehicleNo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vehicleNo is required"})
		return
	}

	regDate, ok := optionalDate(c, payload.RegistrationDate, "registrationDate")
	if !ok {
		return
	}

	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	res, err := intconfig.DB.Exec(`
		UPDATE vehicle_master
		SET vehicle_no = ?, vehicle_type = ?, registration_date = ?, capacity_tons = ?, active = ?, remarks = ?
		WHERE vehicle_id = ?
	`, vehicleNo, nullIfEmpty(payload.VehicleType), regDate, payload.CapacityTons, active, nullIfEmpty(payload.Remarks), id)
	if err != nil {
		if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
			c.JSON(http.StatusConflict, gin.H{"error": "vehicle number already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update vehicle: " + err.Error()})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle updated"})
}

// DELETE /api/vehicles/:id
func DeleteVehicle(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	res, err := intconfig.DB.Exec(`DELETE FROM vehicle_master WHERE vehicle_id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete vehicle: " + err.Error()})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle deleted"})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (vehicle, error) {
	var v vehicle
	var capacity sql.NullFloat64
	var regDate sql.NullString
	if err := row.Scan(
		&v.VehicleID,
		&v.VehicleNo,
		&v.VehicleType,
		&regDate,
		&capacity,
		&v.Active,
		&v.Remarks,
	); err != nil {
		return v, err
	}
	if capacity.Valid {
		x := capacity.Float64
		v.CapacityTons = &x
	}
	if regDate.Valid {
		v.RegistrationDate = regDate.String
	}
	return v, nil
}

func nullIfEmpty(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

// optionalDate validates YYYY-MM-DD input, returning nil for empty values.
func optionalDate(c *gin.Context, value, field string) (any, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, true
	}
	if _, err := utils.ParseDate(value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": field + " must be YYYY-MM-DD"})
		return nil, false
	}
	return value, true
}
