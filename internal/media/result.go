package media

import (
	"errors"
	"fmt"
)

// Status is the outcome of one stage of a generation run.
type Status string

const (
	// StatusWritten: the file was encoded and verified on disk.
	StatusWritten Status = "written"
	// StatusKept: the file already existed and overwrite was off.
	StatusKept Status = "kept"
	// StatusSkipped: only-if-missing found every output present.
	StatusSkipped Status = "skipped"
	// StatusPlanned: dry run, nothing was written.
	StatusPlanned Status = "planned"
	// StatusFailed: encoding or writing failed; Err holds the reason.
	StatusFailed Status = "failed"
)

// FormatOutcome describes one encoded output.
type FormatOutcome struct {
	Format Format
	Path   string
	Status Status
	Err    error
}

// SizeResult groups the outcomes for one size token. Token is empty for no-resize runs.
type SizeResult struct {
	Token   string
	Status  Status
	Formats []FormatOutcome
}

// Created maps each format that exists on disk after the run to its path.
func (s SizeResult) Created() map[Format]string {
	out := map[Format]string{}
	for _, f := range s.Formats {
		if f.Status == StatusWritten || f.Status == StatusKept {
			out[f.Format] = f.Path
		}
	}
	return out
}

// Result is what Generate reports. The zero value means the source was
// missing or unreadable and nothing was attempted.
type Result struct {
	Source  string
	Profile string
	Sizes   []SizeResult
}

// Empty reports whether nothing was attempted.
func (r Result) Empty() bool {
	return len(r.Sizes) == 0
}

// Size returns the result for token.
func (r Result) Size(token string) (SizeResult, bool) {
	for _, s := range r.Sizes {
		if s.Token == token {
			return s, true
		}
	}
	return SizeResult{}, false
}

// Created maps size token to the formats present on disk after the run.
func (r Result) Created() map[string]map[Format]string {
	out := map[string]map[Format]string{}
	for _, s := range r.Sizes {
		if created := s.Created(); len(created) > 0 {
			out[s.Token] = created
		}
	}
	return out
}

// Counts summarises a result for batch reporting.
type Counts struct {
	Written map[Format]int
	Kept    int
	Skipped int
	Planned int
	Failed  int
}

// Counts tallies format outcomes. Skipped and Planned count sizes.
func (r Result) Counts() Counts {
	c := Counts{Written: map[Format]int{}}
	for _, s := range r.Sizes {
		switch s.Status {
		case StatusSkipped:
			c.Skipped++
			continue
		case StatusPlanned:
			c.Planned++
			continue
		}
		for _, f := range s.Formats {
			switch f.Status {
			case StatusWritten:
				c.Written[f.Format]++
			case StatusKept:
				c.Kept++
			case StatusFailed:
				c.Failed++
			}
		}
	}
	return c
}

// Err joins every per-format failure, or returns nil.
func (r Result) Err() error {
	var errs []error
	for _, s := range r.Sizes {
		for _, f := range s.Formats {
			if f.Status == StatusFailed && f.Err != nil {
				label := s.Token
				if label == "" {
					label = "original"
				}
				errs = append(errs, fmt.Errorf("%s %s: %w", label, f.Format, f.Err))
			}
		}
	}
	return errors.Join(errs...)
}
