package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/timeline"
	"github.com/spf13/pflag"
)

// granularityFlag is a pflag.Value accepting weekly|monthly|quarterly and
// their w/m/q shorthands.
type granularityFlag struct {
	g   timeline.Granularity
	set bool
}

var _ pflag.Value = (*granularityFlag)(nil)

func (f *granularityFlag) String() string { return string(f.g) }
func (f *granularityFlag) Type() string   { return "granularity" }

func (f *granularityFlag) Set(s string) error {
	g, err := timeline.ParseGranularity(s)
	if err != nil {
		return err
	}
	f.g = g
	f.set = true
	return nil
}

// Or returns the parsed value, or def when the flag was not given.
func (f *granularityFlag) Or(def timeline.Granularity) timeline.Granularity {
	if f.set {
		return f.g
	}
	return def
}

// dateFlag is a pflag.Value for YYYY-MM-DD days.
type dateFlag struct {
	t   time.Time
	set bool
}

var _ pflag.Value = (*dateFlag)(nil)

func (f *dateFlag) String() string {
	if !f.set {
		return ""
	}
	return f.t.Format(domain.DateLayout)
}

func (f *dateFlag) Type() string { return "date" }

func (f *dateFlag) Set(s string) error {
	t, err := domain.ParseDate(s)
	if err != nil {
		return err
	}
	f.t = t
	f.set = true
	return nil
}

// Ptr returns the date or nil when unset.
func (f *dateFlag) Ptr() *time.Time {
	if !f.set {
		return nil
	}
	t := f.t
	return &t
}

// enumFlag is a pflag.Value restricted to a fixed set of strings.
type enumFlag struct {
	value   string
	valid   map[string]bool
	typName string
}

var _ pflag.Value = (*enumFlag)(nil)

func newEnumFlag(def string, valid map[string]bool, typName string) *enumFlag {
	return &enumFlag{value: def, valid: valid, typName: typName}
}

func (f *enumFlag) String() string { return f.value }
func (f *enumFlag) Type() string   { return f.typName }

func (f *enumFlag) Set(s string) error {
	if !f.valid[s] {
		return fmt.Errorf("invalid %s %q", f.typName, s)
	}
	f.value = s
	return nil
}

func kindFlag(def domain.ItemKind) *enumFlag {
	return newEnumFlag(string(def), domain.ValidItemKinds, "kind")
}

func statusFlag() *enumFlag {
	return newEnumFlag("", domain.ValidItemStatuses, "status")
}

func priorityFlag(def domain.Priority) *enumFlag {
	return newEnumFlag(string(def), domain.ValidPriorities, "priority")
}
