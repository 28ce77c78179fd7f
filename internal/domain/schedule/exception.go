package schedule

// ===============================
// Exception Kinds
// ===============================

// Um único encoding para overrides de data específica.
const (
	ExceptionFullDayBlock = "full_day_block"
	ExceptionPartialBlock = "partial_block"
	ExceptionExtraSlot    = "extra_slot"
)

func ValidExceptionKind(kind string) bool {
	switch kind {
	case ExceptionFullDayBlock, ExceptionPartialBlock, ExceptionExtraSlot:
		return true
	}
	return false
}
