package domain

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserType  CtxKey = "UserType"

	// Set by the request id middleware, echoed in every response envelope
	KeyRequestID CtxKey = "RequestID"
)
