package common

const (
	CodeSuccess        = 0
	CodeUnknownError   = 1
	CodeParamError     = 2
	CodeNotFound       = 3
	CodeTooManyRequest = 4
)

type Resp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

func MakeSuccessResp(data any) *Resp {
	return &Resp{
		Code: CodeSuccess,
		Msg:  "success",
		Data: data,
	}
}

func MakeUnknownErrorResp() *Resp {
	return &Resp{
		Code: CodeUnknownError,
		Msg:  "unknown error",
		Data: nil,
	}
}

func MakeErrorResp(code int, msg string, data any) *Resp {
	return &Resp{
		Code: code,
		Msg:  msg,
		Data: data,
	}
}
