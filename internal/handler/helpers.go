package handler

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"caffito/internal/apierror"
	"caffito/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parsePage reads page/size/sort from the query string. Pages are zero-based.
// sort arrives as "campo,direccion" and is checked against the caller's
// column whitelist so the result can go straight into ORDER BY.
func parsePage(c *gin.Context, defaultSort string, sortable map[string]bool) dto.PageRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	if page < 0 {
		page = 0
	}
	if size < 1 || size > 100 {
		size = 20
	}

	sort := defaultSort
	if raw := c.Query("sort"); raw != "" {
		parts := strings.SplitN(raw, ",", 2)
		dir := "asc"
		if len(parts) == 2 && strings.EqualFold(parts[1], "desc") {
			dir = "desc"
		}
		if sortable[parts[0]] {
			sort = parts[0] + " " + dir
		}
	}
	return dto.PageRequest{Page: page, Size: size, Sort: sort}
}

// containsFilter reads the "<campo>.contains" substring-filter parameter.
// The bare field name is accepted as an alias.
func containsFilter(c *gin.Context, campo string) string {
	if v := c.Query(campo + ".contains"); v != "" {
		return v
	}
	return c.Query(campo)
}

// parseID parses the :id path parameter, writing the 400 response on failure.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}
