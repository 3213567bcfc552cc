package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lint findings
	LintInfo            Code = 1000
	LintOmittedPatterns Code = 1001

	// Internal faults; the check aborted, nothing is asserted about the code
	IntInfo         Code = 2000
	IntCheckAborted Code = 2001

	// Snapshot loading
	SnapInfo           Code = 3000
	SnapReadError      Code = 3001
	SnapSchemaMismatch Code = 3002
	SnapDanglingRef    Code = 3003
	SnapDecodeError    Code = 3004

	// Observability
	ObsInfo    Code = 4000
	ObsTimings Code = 4001

	// I/O
	IOLoadFileError Code = 5001
)

var codeDescription = map[Code]string{
	UnknownCode:         "Unknown error",
	LintInfo:            "Lint information",
	LintOmittedPatterns: "Match relies on openness for exhaustiveness",
	IntInfo:             "Internal information",
	IntCheckAborted:     "Exhaustiveness check aborted",
	SnapInfo:            "Snapshot information",
	SnapReadError:       "Cannot read snapshot",
	SnapSchemaMismatch:  "Snapshot schema version mismatch",
	SnapDanglingRef:     "Snapshot references an unknown record",
	SnapDecodeError:     "Snapshot decode error",
	ObsInfo:             "Observability information",
	ObsTimings:          "Pipeline timings",
	IOLoadFileError:     "I/O load file error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LNT%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("INT%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SNP%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
