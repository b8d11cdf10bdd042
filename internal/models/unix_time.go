package models

import (
	"math"
	"strconv"
	"time"
)

// UnixTime is persisted as fractional unix seconds, with 0 meaning "never".
type UnixTime struct {
	time.Time
}

func NewUnixTime(t time.Time) UnixTime {
	return UnixTime{Time: t}
}

func (u UnixTime) MarshalJSON() ([]byte, error) {
	if u.IsZero() {
		return []byte("0"), nil
	}
	secs := float64(u.UnixNano()) / float64(time.Second)
	return []byte(strconv.FormatFloat(secs, 'f', -1, 64)), nil
}

func (u *UnixTime) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		u.Time = time.Time{}
		return nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	if secs <= 0 {
		u.Time = time.Time{}
		return nil
	}
	whole, frac := math.Modf(secs)
	u.Time = time.Unix(int64(whole), int64(frac*float64(time.Second)))
	return nil
}
