package usecase

// Exported for testing
var (
	TruncateTemplateTo   = truncateTemplateTo
	GrowRowsInStepsOf    = growRowsInStepsOf
	CompareRiskSynthesis = compareRiskSynthesis
	BuildSyncReport      = buildSyncReport
)

const ScanLimit = scanLimit
