package constants

const (
	// HoursPerDay is the width of one log sheet grid.
	HoursPerDay = 24.0

	// GapEpsilon is the largest uncovered stretch (in hours) that is not
	// turned into an OFF_DUTY filler segment.
	GapEpsilon = 0.01

	// Remark collision avoidance: anchors closer than RemarkCollisionPx
	// horizontally are staggered by RemarkStaggerPx.
	RemarkCollisionPx = 60.0
	RemarkStaggerPx   = 18.0

	// Remarks longer than RemarkMaxLen are cut to RemarkKeepLen runes plus an ellipsis.
	RemarkMaxLen   = 22
	RemarkKeepLen  = 20
	RemarkEllipsis = "..."

	// Day label position, measured from the top-left corner of the sheet.
	DayLabelX = 20
	DayLabelY = 30

	// MaxDays is the longest trip, in 24-hour sheets, that is parsed or rendered.
	MaxDays = 366
	// MaxTripHours is the last hour covered by MaxDays sheets.
	MaxTripHours = MaxDays * HoursPerDay

	// Size of the blank sheet used when neither a template nor a calibration provides one.
	DefaultImageWidth  = 1200
	DefaultImageHeight = 800
)
