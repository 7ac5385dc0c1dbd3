package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconCheckList = "" //
	IconTodoOpen  = "" //
	IconTodoDone  = "" //
	IconHome      = "" //
)

// Toast icons, one per notification kind.
var (
	IconToastSuccess = "" //
	IconToastInfo    = "" //
	IconToastWarning = "" //
	IconToastError   = "" //
)
