package sample

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrUnknownParam = errors.New("sample: unknown parameter")

// Set assigns one textual parameter, as found in a query string, a control
// message or a command argument. For float requests min and max set the
// half-open [Low, High) bounds; for every other kind they set Min and Max.
func (r *Request) Set(key, value string) error {
	var err error
	switch key {
	case "count":
		r.Count, err = strconv.Atoi(value)
	case "min":
		if r.Kind == KindFloat {
			r.Low, err = strconv.ParseFloat(value, 64)
		} else {
			r.Min, err = strconv.ParseInt(value, 10, 64)
		}
	case "max":
		if r.Kind == KindFloat {
			r.High, err = strconv.ParseFloat(value, 64)
		} else {
			r.Max, err = strconv.ParseInt(value, 10, 64)
		}
	case "mean":
		r.Mean, err = strconv.ParseFloat(value, 64)
	case "stddev":
		r.StdDev, err = strconv.ParseFloat(value, 64)
	case "rate":
		r.Rate, err = strconv.ParseFloat(value, 64)
	case "n":
		r.N, err = strconv.Atoi(value)
	case "p":
		r.P, err = strconv.ParseFloat(value, 64)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, key)
	}
	if err != nil {
		return rangeErr("%s=%q: %v", key, value, err)
	}
	return nil
}
