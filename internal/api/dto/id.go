package dto

import (
	"bytes"
	"fmt"
	"strconv"
)

// ID is a record identifier in a request body. Clients may send it as a JSON
// number or as a numeric string ("1"); null and "" leave it zero.
type ID int64

// UnmarshalJSON accepts 7, "7" and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = bytes.TrimSpace(data[1 : len(data)-1])
		if len(data) == 0 {
			return nil
		}
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ID(v)
	return nil
}
