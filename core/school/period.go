package school

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-bulletin/core"
)

// Period is a grading period (term) of an academic year.
type Period string

const (
	Period1 Period = "trimestre_1"
	Period2 Period = "trimestre_2"
	Period3 Period = "trimestre_3"
)

var (
	Periods = []Period{Period1, Period2, Period3}

	periodLabels = map[Period]string{
		Period1: "1er Trimestre",
		Period2: "2ème Trimestre",
		Period3: "3ème Trimestre",
	}

	periodTag  = "period"
	periodText = "must be one of trimestre_1, trimestre_2 or trimestre_3"
)

func (p Period) IsValid() bool {
	_, ok := periodLabels[p]
	return ok
}

// Label is the human readable name of the period, e.g. "1er Trimestre".
func (p Period) Label() string {
	if label, ok := periodLabels[p]; ok {
		return label
	}
	return string(p)
}

// InitValidators registers the "period" validation tag.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(periodTag, periodValidation)
	core.RegisterCustomTranslation(validate, translator, periodTag, periodText)
}

func periodValidation(fl validator.FieldLevel) bool {
	return Period(fl.Field().String()).IsValid()
}
