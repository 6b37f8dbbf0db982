package models

// ResponseMeta carries per-response metadata. Count is present only for
// select-class responses.
type ResponseMeta struct {
	Count           *int   `json:"count,omitempty"`
	Intent          string `json:"intent,omitempty"`
	ExecutionTimeMS *int64 `json:"execution_time_ms,omitempty"`
}

// ResponseError is the error body of a failed response.
type ResponseError struct {
	Type    string   `json:"type"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// Response is the uniform envelope returned for every request, success or
// failure. Downstream layers serialize it as JSON unchanged.
type Response struct {
	Success bool           `json:"success"`
	Data    any            `json:"data"`
	Error   *ResponseError `json:"error,omitempty"`
	Meta    *ResponseMeta  `json:"meta,omitempty"`
}
