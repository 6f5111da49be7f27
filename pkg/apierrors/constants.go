package apierrors

const (
	MsgInvalidTaskID       = "invalidTaskID"
	MsgInvalidTaskPayload  = "invalidTaskPayload"
	MsgInvalidQuery        = "invalidQuery"
	MsgTaskNotFound        = "taskNotFound"
	MsgNotFound            = "notFound"
	MsgForbidden           = "forbidden"
	MsgInvalidState        = "invalidState"
	MsgConflict            = "conflict"
	MsgTaskAlreadyClaimed  = "taskAlreadyClaimed"
	MsgRemarkRequired      = "remarkRequired"
	MsgValidationFailed    = "validationFailed"
	MsgUnauthorized        = "unauthorized"
	MsgInternal            = "internalError"
	MsgFailListTask        = "errorListTask"
	MsgFailCreateTask      = "failCreateTask"
	MsgFailListActivity    = "failListActivity"
	MsgFailListInbox       = "failListNotifications"
	MsgFailRegisterDevice  = "failRegisterDevice"
	MsgStreamUnavailable   = "streamUnavailable"
	MsgInvalidAcceptanceID = "invalidAcceptanceID"
)
