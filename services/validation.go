package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"catalog-keeper/internal/models"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var idPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Messages for UI group failures, keyed by "<json field>.<tag>".
var uiFieldMessages = map[string]string{
	"ui_port.required":               "UI Port is required if 'Has Web Interface' is selected.",
	"ui_port.min":                    "UI Port must be an integer between 1 and 65535.",
	"ui_port.max":                    "UI Port must be an integer between 1 and 65535.",
	"protocol.required":              "Protocol is required if 'Has Web Interface' is selected.",
	"protocol.oneof":                 "Protocol must be 'http' or 'https'.",
	"icon.required":                  "Icon is required if 'Has Web Interface' is selected.",
	"dashy_tile_section.required":    "Dashy Section is required if 'Has Web Interface' is selected.",
	"dashy_tile_url_suffix.required": "Dashy URL Suffix is required if 'Has Web Interface' is selected.",
}

// Messages for known keys holding a value of the wrong JSON type.
var fieldTypeMessages = map[string]string{
	"ui_port":  "UI Port must be an integer between 1 and 65535.",
	"protocol": "Protocol must be 'http' or 'https'.",
}

type componentValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

/**
 * Create validator for component UI settings
 * @returns {*componentValidator} Validator reporting document field names
 * @description
 * - Field names are taken from json tags so errors name the document key
 * - English default translations back messages not listed in uiFieldMessages
 */
func newComponentValidator() *componentValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, trans)

	return &componentValidator{validate: validate, trans: trans}
}

// validateUI checks the UI group field by field and reports the first failure.
func (v *componentValidator) validateUI(id string, ui *models.UISettings) *ValidationError {
	err := v.validate.Struct(ui)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return &ValidationError{Rule: RuleUIField, ID: id, Message: err.Error()}
	}
	fe := errs[0]
	msg, ok := uiFieldMessages[fe.Field()+"."+fe.Tag()]
	if !ok {
		msg = fe.Translate(v.trans)
	}
	return &ValidationError{Rule: RuleUIField, ID: id, Field: fe.Field(), Message: msg}
}

// validateFieldTypes reports one violation per known key whose value could not be decoded.
func validateFieldTypes(id string, c models.Component) []*ValidationError {
	var results []*ValidationError
	for _, key := range c.InvalidFields() {
		msg, ok := fieldTypeMessages[key]
		if !ok {
			msg = fmt.Sprintf("Field '%s' has a value of the wrong type.", key)
		}
		results = append(results, &ValidationError{Rule: RuleFieldType, ID: id, Field: key, Message: msg})
	}
	return results
}

func validateIdentifierFormat(id string) *ValidationError {
	if id == "" {
		return newValidationError(RuleIdentifier, id, "Component ID cannot be empty.")
	}
	if !idPattern.MatchString(id) {
		return newValidationError(RuleIdentifier, id,
			"Component ID can only contain lowercase letters, numbers, and hyphens.")
	}
	return nil
}

func validateName(id string, c models.Component) *ValidationError {
	if c.Name == "" {
		verr := newValidationError(RuleName, id, "Component name is required.")
		verr.Field = "name"
		return verr
	}
	return nil
}
