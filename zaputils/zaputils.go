package zaputils

import (
	"fmt"

	"go.uber.org/zap"
)

func RequestID(key string, val int64) zap.Field {
	return zap.Int64(key, val)
}

func DcID(key string, val int32) zap.Field {
	return zap.Int32(key, val)
}

type LoggableRPCError struct {
	Code int32
	Type string
}

func (e LoggableRPCError) String() string {
	if e.Type == "" {
		return fmt.Sprintf("%d", e.Code)
	}

	return fmt.Sprintf("%d/%s", e.Code, e.Type)
}

func RPCError(key string, code int32, errType string) zap.Field {
	return zap.Stringer(key, LoggableRPCError{
		Code: code,
		Type: errType,
	})
}
