package fit

import (
	"github.com/san-kum/adsorb/internal/isotherm"
	"github.com/san-kum/adsorb/internal/sorption"
)

// Record is the serialisable form of a Result.
type Record struct {
	Model         string             `json:"model" yaml:"model"`
	Params        map[string]float64 `json:"params" yaml:"params"`
	RMSE          float64            `json:"rmse" yaml:"rmse"`
	Points        int                `json:"points" yaml:"points"`
	Temperature   float64            `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	PressureRange sorption.Range     `json:"pressure_range" yaml:"pressure_range"`
	LoadingRange  sorption.Range     `json:"loading_range" yaml:"loading_range"`
}

func (r *Result) Record(temperature float64) Record {
	return Record{
		Model:         r.Model.Name(),
		Params:        r.Model.Params().Map(),
		RMSE:          r.RMSE,
		Points:        r.Points,
		Temperature:   temperature,
		PressureRange: r.PressureRange,
		LoadingRange:  r.LoadingRange,
	}
}

// FromRecord rebuilds a Result from its serialised form.
func FromRecord(reg *isotherm.Registry, rec Record) (*Result, error) {
	m, err := reg.FromParams(rec.Model, rec.Params, isotherm.Settings{Temperature: rec.Temperature})
	if err != nil {
		return nil, err
	}
	return &Result{
		Model:         m,
		RMSE:          rec.RMSE,
		Points:        rec.Points,
		PressureRange: rec.PressureRange,
		LoadingRange:  rec.LoadingRange,
	}, nil
}
