package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/vcscsvcscs/vitals-tracker/internal/azure"
	"github.com/vcscsvcscs/vitals-tracker/internal/repository"
	"github.com/vcscsvcscs/vitals-tracker/internal/service"
	"github.com/vcscsvcscs/vitals-tracker/pkg/api"
	"github.com/vcscsvcscs/vitals-tracker/pkg/model"
)

// Every failure maps to one status and code, however deeply it is wrapped
func TestProperty_ErrorResponseStructure(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: %w", service.ErrValidation, model.FieldErrors{"pulse": "bad"}), http.StatusBadRequest, api.CodeValidationError},
		{service.ErrRequestInProgress, http.StatusConflict, api.CodeRequestInProgress},
		{service.ErrReportsDisabled, http.StatusServiceUnavailable, api.CodeReportsDisabled},
		{azure.ErrReportNotFound, http.StatusNotFound, api.CodeNotFound},
		{service.ErrNoData, http.StatusNotFound, api.CodeNoData},
		{repository.ErrStoreUnavailable, http.StatusBadGateway, api.CodeStoreError},
		{errors.New("unexpected"), http.StatusInternalServerError, api.CodeInternalError},
	}

	properties.Property("wrapped errors keep their status and code", prop.ForAll(
		func(index, depth int, message string) bool {
			c := cases[index]
			err := c.err
			for i := 0; i < depth; i++ {
				err = fmt.Errorf("layer %d: %w", i, err)
			}

			status, body := errorResponse(err, message)
			if status != c.status || body.Code != c.code || body.Message == "" {
				return false
			}
			if c.code == api.CodeValidationError {
				return body.Fields != nil && (*body.Fields)["pulse"] == "bad"
			}
			return body.Fields == nil
		},
		gen.IntRange(0, len(cases)-1),
		gen.IntRange(0, 5),
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
	))

	properties.TestingRun(t)
}
