package errors

import stderrors "errors"

func (d Definition) Error() string {
	return d.Message
}

// Is 按错误码比较，便于 errors.Is 匹配被包装的 Definition。
func (d Definition) Is(target error) bool {
	t, ok := target.(Definition)
	return ok && t.Code == d.Code
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 通用错误。
var (
	InvalidRequest     = Definition{Code: "INVALID_REQUEST", Message: "Invalid request"}
	Internal           = Definition{Code: "INTERNAL_ERROR", Message: "Internal error"}
	TooManyRequests    = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests"}
	StorageUnavailable = Definition{Code: "STORAGE_UNAVAILABLE", Message: "Session storage unavailable"}
)

// 引导流程错误。
var (
	OnboardingStepInvalid       = Definition{Code: "ONBOARDING_STEP_INVALID", Message: "Onboarding step invalid"}
	OnboardingFieldInvalid      = Definition{Code: "ONBOARDING_FIELD_INVALID", Message: "Onboarding field invalid"}
	OnboardingFieldKindMismatch = Definition{Code: "ONBOARDING_FIELD_KIND_MISMATCH", Message: "Onboarding field kind mismatch"}
	OnboardingSessionNotFound   = Definition{Code: "ONBOARDING_SESSION_NOT_FOUND", Message: "Onboarding session not found"}
	OnboardingSessionBusy       = Definition{Code: "ONBOARDING_SESSION_BUSY", Message: "Onboarding session is being updated"}
)

// 首页错误。
var (
	DashboardTabInvalid = Definition{Code: "DASHBOARD_TAB_INVALID", Message: "Dashboard tab invalid"}
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	InvalidRequest.Code:              InvalidRequest,
	Internal.Code:                    Internal,
	TooManyRequests.Code:             TooManyRequests,
	StorageUnavailable.Code:          StorageUnavailable,
	OnboardingStepInvalid.Code:       OnboardingStepInvalid,
	OnboardingFieldInvalid.Code:      OnboardingFieldInvalid,
	OnboardingFieldKindMismatch.Code: OnboardingFieldKindMismatch,
	OnboardingSessionNotFound.Code:   OnboardingSessionNotFound,
	OnboardingSessionBusy.Code:       OnboardingSessionBusy,
	DashboardTabInvalid.Code:         DashboardTabInvalid,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}

// As 从错误链中取出 Definition。
func As(err error) (Definition, bool) {
	var def Definition
	if stderrors.As(err, &def) {
		return def, true
	}
	return Definition{}, false
}
