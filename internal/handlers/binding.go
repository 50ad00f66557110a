package handlers

import (
	"errors"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/reservas-api/internal/httperr"
	"github.com/BruksfildServices01/reservas-api/internal/models"
)

var registerOnce sync.Once

// RegisterValidators adds the "hhmm" and "isodate" tags to gin's validator.
// Safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		if err = v.RegisterValidation("hhmm", validateHHMM); err != nil {
			return
		}
		err = v.RegisterValidation("isodate", validateISODate)
	})
	return err
}

func validateHHMM(fl validator.FieldLevel) bool {
	_, err := models.ParseTimeOfDay(fl.Field().String())
	return err == nil
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := models.ParseDate(fl.Field().String())
	return err == nil
}

// paramID reads a positive numeric path parameter. It writes a 404 and
// returns false otherwise.
func paramID(c *gin.Context, name, code, message string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.NotFound(c, code, message)
		return 0, false
	}
	return uint(id), true
}

// queryUint returns 0 for an absent parameter and false for a malformed one.
func queryUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}
