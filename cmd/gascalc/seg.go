package main

import (
	"fmt"
	"strings"

	"github.com/pkordes/gas-calc/internal/domain"
)

// parseSeg turns one --seg value into a committed segment patch.
//
// The value is a comma-separated list of key=value pairs plus the bare
// words "on" and "off":
//
//	km=80,people=2
//	start=12000,end=12045.5,date=5/12,off
func parseSeg(arg string) (domain.SegmentPatch, error) {
	p := domain.SegmentPatch{Commit: true}
	for _, part := range strings.Split(arg, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, hasValue := strings.Cut(part, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		if !hasValue {
			switch key {
			case "on":
				p.Included = boolPtr(true)
			case "off":
				p.Included = boolPtr(false)
			default:
				return domain.SegmentPatch{}, fmt.Errorf("--seg %q: %q needs a value", arg, key)
			}
			continue
		}

		switch key {
		case "km", "distance":
			p.DistanceKm = &value
		case "start":
			p.StartOdometer = &value
		case "end":
			p.EndOdometer = &value
		case "people", "p":
			p.ParticipantCount = &value
		case "date":
			p.Date = &value
		default:
			return domain.SegmentPatch{}, fmt.Errorf("--seg %q: unknown field %q (want km, start, end, people, date, on, off)", arg, key)
		}
	}
	return p, nil
}

func boolPtr(b bool) *bool { return &b }
