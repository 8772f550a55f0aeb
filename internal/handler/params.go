package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/grade-horaria-api/pkg/errors"
)

// int64Param parses the named path parameter as an integer id.
func int64Param(c *gin.Context, name string) (int64, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, name+" inválido")
	}
	return id, nil
}

// intQuery parses an optional integer query parameter. ok is false when the value is
// present but not an integer.
func intQuery(c *gin.Context, name string, fallback int) (value int, ok bool) {
	raw, present := c.GetQuery(name)
	raw = strings.TrimSpace(raw)
	if !present || raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func invalidBody(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Corpo da requisição inválido")
}
