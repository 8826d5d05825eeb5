package domain

// Field error codes returned by event and room validation. Each code names
// one rule; a single validation pass may return several of them at once.
const (
	CodeNameRequired            = "NameRequired"
	CodeNameMustStartWithLetter = "NameMustStartWithLetter"
	CodeRoomRequired            = "RoomRequired"
	CodeDateTimeRequired        = "DateTimeRequired"
	CodePriceRequired           = "PriceRequired"
	CodePriceOutOfRange         = "PriceOutOfRange"
	CodeBeamerCodeOutOfRange    = "BeamerCodeOutOfRange"
	CodeInvalidChecksum         = "InvalidChecksum"
	CodeSpeakerCountInvalid     = "SpeakerCountInvalid"
	CodeOutsideConferenceWindow = "OutsideConferenceWindow"
	CodeRoomUnavailable         = "RoomUnavailable"
	CodeNameExists              = "NameExists"

	CodeRoomNameRequired       = "RoomNameRequired"
	CodeRoomNameFormat         = "RoomNameFormat"
	CodeRoomNameExists         = "RoomNameExists"
	CodeRoomCapacityOutOfRange = "RoomCapacityOutOfRange"
)

// FieldError describes one validation failure on one field. Validation never
// aborts on the first failure, so callers can surface every problem at once.
// swagger:model FieldError
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
