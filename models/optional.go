package models

import "encoding/json"

// Optional phân biệt trường được gửi với trường bị bỏ trống.
// JSON null được coi như không gửi.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some tạo Optional đã có giá trị v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = v
	o.Set = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// ApplyTo ghi giá trị vào dst nếu có.
func (o Optional[T]) ApplyTo(dst *T) bool {
	if !o.Set {
		return false
	}
	*dst = o.Value
	return true
}
