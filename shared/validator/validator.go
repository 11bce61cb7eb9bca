package validator

import (
	"slices"

	"fleetops/shared/constant"
	"fleetops/shared/failure"

	val "github.com/go-playground/validator/v10"
)

var validate *val.Validate

var roles = []string{constant.RoleAdmin, constant.RoleOwner, constant.RoleSurveyor, constant.RoleCargoManager}

func isRole(field val.FieldLevel) bool {
	role, ok := field.Field().Interface().(string)

	return ok && slices.Contains(roles, role)
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	if err := validate.RegisterValidation("role", isRole); err != nil {
		panic(err)
	}
}

// ValidateStruct checks data against its validate tags and answers with a 400
// naming the first field that failed.
func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
