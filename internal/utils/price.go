package utils

import (
	"errors"
	"strconv"
	"strings"
)

var ErrBadPrice = errors.New("unparseable price")

var priceReplacer = strings.NewReplacer("₹", "", ",", "", "/month", "", "Rs.", "", "Rs", "", " ", "")

// ParsePrice converts display prices like "₹26,000/month" or "₹1.5L" into rupees.
func ParsePrice(display string) (float64, error) {
	s := priceReplacer.Replace(strings.TrimSpace(display))
	mult := 1.0
	switch {
	case strings.HasSuffix(s, "L"), strings.HasSuffix(s, "l"):
		mult = 100000
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "K"), strings.HasSuffix(s, "k"):
		mult = 1000
		s = s[:len(s)-1]
	}
	if s == "" {
		return 0, ErrBadPrice
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrBadPrice
	}
	return v * mult, nil
}
