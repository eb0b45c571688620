package pagination

import "fmt"

// ParamError reports which pagination parameter was rejected.
type ParamError struct {
	Param   string
	Message string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s %s", e.Param, e.Message)
}

// Validate rejects explicitly provided values that can never be satisfied.
// Unset (zero) values pass; negative values fail.
func (p Params) Validate() error {
	if p.Page < 0 {
		return &ParamError{Param: "page", Message: "must be a positive integer"}
	}
	if p.Limit < 0 {
		return &ParamError{Param: "limit", Message: "must be a positive integer"}
	}
	return nil
}

// WithDefaults applies default values from config to Params.
//
// Rules:
//   - If page <= 0, set to config.DefaultPage
//   - If limit <= 0, set to config.DefaultLimit
//   - If limit > config.MaxLimit, cap to config.MaxLimit
func (p Params) WithDefaults(config Config) Params {
	if p.Page <= 0 {
		p.Page = config.DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = config.DefaultLimit
	}
	if config.MaxLimit > 0 && p.Limit > config.MaxLimit {
		p.Limit = config.MaxLimit
	}
	return p
}
