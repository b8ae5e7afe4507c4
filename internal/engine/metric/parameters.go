package metric

import "funcmetrics/internal/engine/function"

const ParametersCountName = "parameters_count"

// ParametersCount is the number of declared parameters, with no distinction
// between required, defaulted or variadic entries.
type ParametersCount struct{}

func (ParametersCount) Name() string { return ParametersCountName }
func (ParametersCount) Kind() Kind   { return KindInt }

func (m ParametersCount) Calculate(fn function.Function) Result {
	return Result{Name: m.Name(), Value: Int(len(fn.Parameters))}
}
