package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	intconfig "lrbackend/internal/config"

	"github.com/gin-gonic/gin"
)

type freightRate struct {
	ID            int64   `json:"id"`
	FromLocation  string  `json:"fromLocation"`
	ToLocation    string  `json:"toLocation"`
	RatePerTon    float64 `json:"ratePerTon"`
	MinCharge     float64 `json:"minCharge"`
	EffectiveFrom string  `json:"effectiveFrom,omitempty"`
	Active        bool    `json:"active"`
}

type freightRatePayload struct {
	FromLocation  string  `json:"fromLocation" binding:"required"`
	ToLocation    string  `json:"toLocation" binding:"required"`
	RatePerTon    float64 `json:"ratePerTon"`
	MinCharge     float64 `json:"minCharge"`
	EffectiveFrom string  `json:"effectiveFrom"`
	Active        *bool   `json:"active"`
}

const freightRateSelect = `
	SELECT rate_id,
		COALESCE(from_location,''), COALESCE(to_location,''),
		COALESCE(rate_per_ton,0), COALESCE(min_charge,0),
		COALESCE(DATE_FORMAT(effective_from, '%Y-%m-%d'),''),
		CASE WHEN active = 1 THEN 1 ELSE 0 END
	FROM freight_rates`

// GetFreightRates lists rates, optionally filtered by ?from= and ?to= location.
func GetFreightRates(c *gin.Context) {
	from := strings.TrimSpace(c.Query("from"))
	to := strings.TrimSpace(c.Query("to"))

	where := []string{}
	args := []any{}
	if from != "" {
		where = append(where, "from_location LIKE ?")
		args = append(args, "%"+from+"%")
	}
	if to != "" {
		where = append(where, "to_location LIKE ?")
		args = append(args, "%"+to+"%")
	}

	query := freightRateSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY rate_id ASC"

	rows, err := intconfig.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch freight rates: " + err.Error()})
		return
	}
	defer rows.Close()

	list := []freightRate{}
	for rows.Next() {
		r, err := scanFreightRate(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to scan freight rate: " + err.Error()})
			return
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "row iteration failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}

func GetFreightRateByID(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	row := intconfig.DB.QueryRow(freightRateSelect+" WHERE rate_id = ?", id)
	r, err := scanFreightRate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "freight rate not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch freight rate: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, r)
}

func CreateFreightRate(c *gin.Context) {
	var payload freightRatePayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	if payload.RatePerTon < 0 || payload.MinCharge < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rate values must not be negative"})
		return
	}
	effective, ok := optionalDate(c, payload.EffectiveFrom, "effectiveFrom")
	if !ok {
		return
	}
	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO freight_rates (from_location, to_location, rate_per_ton, min_charge, effective_from, active)
		VALUES (?, ?, ?, ?, ?, ?)
	`, strings.TrimSpace(payload.FromLocation), strings.TrimSpace(payload.ToLocation),
		payload.RatePerTon, payload.MinCharge, effective, active)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create freight rate: " + err.Error()})
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"message": "freight rate created", "id": id})
}

func UpdateFreightRate(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	var payload freightRatePayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	if payload.RatePerTon < 0 || payload.MinCharge < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rate values must not be negative"})
		return
	}
	effective, ok := optionalDate(c, payload.EffectiveFrom, "effectiveFrom")
	if !ok {
		return
	}
	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	res, err := intconfig.DB.Exec(`
		UPDATE freight_rates
		SET from_location = ?, to_location = ?, rate_per_ton = ?, min_charge = ?, effective_from = ?, active = ?
		WHERE rate_id = ?
	`, strings.TrimSpace(payload.FromLocation), strings.TrimSpace(payload.ToLocation),
		payload.RatePerTon, payload.MinCharge, effective, active, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update freight rate: " + err.Error()})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "freight rate not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "freight rate updated"})
}

func DeleteFreightRate(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	res, err := intconfig.DB.Exec(`DELETE FROM freight_rates WHERE rate_id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete freight rate: " + err.Error()})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "freight rate not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "freight rate deleted"})
}

func scanFreightRate(row rowScanner) (freightRate, error) {
	var r freightRate
	var active int
	err := row.Scan(&r.ID, &r.FromLocation, &r.ToLocation, &r.RatePerTon, &r.MinCharge, &r.EffectiveFrom, &active)
	r.Active = active == 1
	return r, err
}
