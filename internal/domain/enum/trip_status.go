package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// TripStatus represents the status of a driver collection trip
type TripStatus int

const (
	TripStatusAssigned   TripStatus = 0
	TripStatusInProgress TripStatus = 1
	TripStatusCompleted  TripStatus = 2
)

func (s TripStatus) String() string {
	names := [...]string{"Assigned", "In Progress", "Completed"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Assigned"
	}
	return names[s]
}

func (s TripStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *TripStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = TripStatus(i)
		return nil
	}
	switch str {
	case "Assigned":
		*s = TripStatusAssigned
	case "In Progress":
		*s = TripStatusInProgress
	case "Completed":
		*s = TripStatusCompleted
	}
	return nil
}

func (s TripStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *TripStatus) Scan(value interface{}) error {
	if value == nil {
		*s = TripStatusAssigned
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = TripStatus(v)
	case int:
		*s = TripStatus(v)
	}
	return nil
}
