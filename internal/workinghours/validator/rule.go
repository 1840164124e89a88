package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"trimly/pkg/logger"
	"trimly/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type RuleValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewRuleValidator(log *logger.Logger) *RuleValidator {
	v := validator.New()

	if err := v.RegisterValidation("hhmm", validateHHMM); err != nil {
		log.Fatal("Failed to register 'hhmm' validator", "error", err)
	}
	v.RegisterStructValidation(validateRuleWindow, model.AvailabilityRule{})

	log.Info("Availability rule validator initialized successfully")

	return &RuleValidator{
		validate: v,
		logger:   log,
	}
}

// validateHHMM accepts wall-clock values like "09:00" in 24-hour format.
func validateHHMM(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return false
	}
	_, err := time.Parse("15:04", value)
	return err == nil
}

// validateRuleWindow enforces start < end once both fields parse.
func validateRuleWindow(sl validator.StructLevel) {
	rule := sl.Current().Interface().(model.AvailabilityRule)

	start, errStart := time.Parse("15:04", rule.StartTime)
	end, errEnd := time.Parse("15:04", rule.EndTime)
	if errStart != nil || errEnd != nil {
		return // field-level hhmm validation reports the format error
	}
	if !end.After(start) {
		sl.ReportError(rule.EndTime, "EndTime", "end_time", "rule_window", "")
	}
}

func (v *RuleValidator) Validate(rule *model.AvailabilityRule) error {
	if err := v.validate.Struct(rule); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *RuleValidator) ValidateSchedule(schedule *model.WeeklySchedule) error {
	var all ValidationErrors
	for i := range schedule.Rules {
		if err := v.Validate(&schedule.Rules[i]); err != nil {
			var ve ValidationErrors
			if errors.As(err, &ve) {
				for _, e := range ve {
					e.Field = fmt.Sprintf("rules[%d].%s", i, e.Field)
					all = append(all, e)
				}
				continue
			}
			return err
		}
	}
	if len(all) > 0 {
		return all
	}
	return nil
}

func (v *RuleValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "hhmm":
			message = fmt.Sprintf("%s must be in HH:MM 24-hour format", err.Field())
		case "rule_window":
			message = "end_time must be after start_time"
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
