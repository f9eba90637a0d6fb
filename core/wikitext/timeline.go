package wikitext

import (
	"fmt"
	"strings"
)

// TimelinePeriod is one period of a {{Timeline}} template.
type TimelinePeriod struct {
	Era   string `json:"era,omitempty"`
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
	Color string `json:"color,omitempty"`
}

const (
	timelineSections = 7
	timelinePeriods  = 5
)

// ParseTimeline decodes the periods of a preserved Timeline block.
// Only periods with both start and end are returned.
func ParseTimeline(value string) []TimelinePeriod {
	tpl, ok := selectTemplate(ParseTemplates(value), "timeline")
	if !ok {
		return nil
	}

	args := map[string]string{}
	for _, arg := range tpl.Args {
		if !arg.Positional {
			args[strings.ToLower(arg.Name)] = Clean(StripLinks(arg.Value))
		}
	}
	get := func(keys ...string) string {
		for _, k := range keys {
			if v := args[k]; v != "" {
				return v
			}
		}
		return ""
	}

	var periods []TimelinePeriod
	for s := 1; s <= timelineSections; s++ {
		section := fmt.Sprintf("section%d", s)
		era := get(section+"short", section)
		for p := 1; p <= timelinePeriods; p++ {
			period := fmt.Sprintf("%speriod%d", section, p)
			start, end := get(period+"start"), get(period+"end")
			if start == "" || end == "" {
				continue
			}
			label := get(period, period+"label")
			if label == "" {
				label = "Period"
			}
			periods = append(periods, TimelinePeriod{
				Era:   era,
				Label: label,
				Start: start,
				End:   end,
				Color: get(period + "color"),
			})
		}
	}

	return periods
}
