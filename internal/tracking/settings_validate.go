package tracking

import (
	"github.com/go-playground/validator/v10"

	"github.com/catalinplesu/timesheet/internal/domain"
)

var settingsValidator = validator.New()

func validateSettingsPatch(patch *domain.SettingsPatch) error {
	if err := settingsValidator.Struct(patch); err != nil {
		return domain.Wrap(domain.KindInvalidRequest, "invalid settings", err)
	}
	return nil
}
