package bulkimport

const (
	malformedSummary = "File format error: Each line must have Name,Latitude,Longitude."
	fallbackSummary  = "File contains format errors."
)

// fieldSummaries covers every non-empty combination of the three field checks.
var fieldSummaries = map[Violation]string{
	MissingName | InvalidLatitude | InvalidLongitude: "Missing Name, Latitude, and Longitude in some lines.",
	MissingName | InvalidLatitude:                    "Missing Name and Latitude in some lines.",
	MissingName | InvalidLongitude:                   "Missing Name and Longitude in some lines.",
	InvalidLatitude | InvalidLongitude:               "Missing Latitude and Longitude in some lines.",
	MissingName:                                      "Name is required in some lines.",
	InvalidLatitude:                                  "Latitude is required and must be valid in some lines.",
	InvalidLongitude:                                 "Longitude is required and must be valid in some lines.",
}

// Summary is the headline for a rejected manifest plus every line's detail.
type Summary struct {
	Message string
	Errors  []string
}

// Summarize picks the headline from which categories occur anywhere in the
// manifest, not how often. A malformed line outranks everything else.
func Summarize(lineErrors []LineError) Summary {
	var present Violation
	details := make([]string, 0, len(lineErrors))
	for _, le := range lineErrors {
		for _, v := range le.Violations {
			present |= v
		}
		details = append(details, le.Detail())
	}

	message := fallbackSummary
	if present&MalformedLine != 0 {
		message = malformedSummary
	} else if m, ok := fieldSummaries[present]; ok {
		message = m
	}

	return Summary{Message: message, Errors: details}
}
